package dispatch_test

import (
	"testing"

	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/dispatch"
	"github.com/stretchr/testify/assert"
)

func candidateWith(name string, registeredAt int, literalMatches, prioritySum, defaultsFilled int) dispatch.Candidate {
	l := leaf(name)
	l.RegisteredAt = registeredAt
	return dispatch.Candidate{
		Leaf:           l,
		LiteralMatches: literalMatches,
		PrioritySum:    prioritySum,
		DefaultsFilled: defaultsFilled,
	}
}

func TestRankCandidatesTieBreakChain(t *testing.T) {
	// Same literal matches and priority sum; fewer defaults filled wins.
	moreDefaults := candidateWith("a", 0, 1, 10, 2)
	fewerDefaults := candidateWith("b", 1, 1, 10, 0)
	candidates := []dispatch.Candidate{moreDefaults, fewerDefaults}

	dispatch.RankCandidates(candidates)
	assert.Equal(t, "b", candidates[0].Leaf.Path[0])
}

func TestRankCandidatesFallsBackToRegistrationOrder(t *testing.T) {
	later := candidateWith("later", 5, 1, 1, 0)
	earlier := candidateWith("earlier", 1, 1, 1, 0)
	candidates := []dispatch.Candidate{later, earlier}

	dispatch.RankCandidates(candidates)
	assert.Equal(t, "earlier", candidates[0].Leaf.Path[0])
}

func TestRankCandidatesHigherPrioritySumWinsOverRegistrationOrder(t *testing.T) {
	lowPriorityEarly := candidateWith("early", 0, 1, 1, 0)
	highPriorityLate := candidateWith("late", 9, 1, 5, 0)
	candidates := []dispatch.Candidate{lowPriorityEarly, highPriorityLate}

	dispatch.RankCandidates(candidates)
	assert.Equal(t, "late", candidates[0].Leaf.Path[0])
}

func TestRankFailuresPrefersHigherWeightAtSamePosition(t *testing.T) {
	unknown := dispatch.Failure{Err: cmderrors.New(cmderrors.KindUnknownCommand), Position: 3, Order: 0}
	noPermission := dispatch.Failure{Err: cmderrors.NoPermission("admin"), Position: 3, Order: 1}
	failures := []dispatch.Failure{unknown, noPermission}

	dispatch.RankFailures(failures)
	assert.GreaterOrEqual(t, failures[0].Err.Kind.Weight(), failures[1].Err.Kind.Weight())
}

func TestRankFailuresFallsBackToAttemptOrder(t *testing.T) {
	second := dispatch.Failure{Err: cmderrors.New(cmderrors.KindUnknownCommand), Position: 0, Order: 2}
	first := dispatch.Failure{Err: cmderrors.New(cmderrors.KindUnknownCommand), Position: 0, Order: 1}
	failures := []dispatch.Failure{second, first}

	dispatch.RankFailures(failures)
	assert.Equal(t, 1, failures[0].Order)
}
