package dispatch

import "sort"

// RankCandidates sorts candidates in place per spec §4.D "Candidate
// ranking": more literal matches first, then higher summed parser
// priority, then fewer parameters filled by defaults, then earlier
// registration. RegisteredAt is read directly from each candidate's leaf.
func RankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.LiteralMatches != b.LiteralMatches {
			return a.LiteralMatches > b.LiteralMatches
		}
		if a.PrioritySum != b.PrioritySum {
			return a.PrioritySum > b.PrioritySum
		}
		if a.DefaultsFilled != b.DefaultsFilled {
			return a.DefaultsFilled < b.DefaultsFilled
		}
		return a.Leaf.RegisteredAt < b.Leaf.RegisteredAt
	})
}

// RankFailures sorts failures in place per spec §4.D default failure
// ranking: deepest consumed position wins, ties broken by failure-kind
// weight, remaining ties by the order branches were attempted.
func RankFailures(failures []Failure) {
	sort.SliceStable(failures, func(i, j int) bool {
		a, b := failures[i], failures[j]
		if a.Position != b.Position {
			return a.Position > b.Position
		}
		if wa, wb := a.Err.Kind.Weight(), b.Err.Kind.Weight(); wa != wb {
			return wa > wb
		}
		return a.Order < b.Order
	})
}
