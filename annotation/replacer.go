package annotation

import "fmt"

// maxReplacementDepth bounds the fixed-point iteration applying replacers,
// preventing a replacer that (incorrectly) reintroduces its own kind from
// looping forever.
const maxReplacementDepth = 16

// Replacer maps an annotation of kind K, found on target, to zero or more
// substitute annotations. Target is the element carrying the annotation
// (method, parameter, or class descriptor) — replacers are typically
// indifferent to it but it is available for context-sensitive rewriting
// (spec §3, "Annotation replacer").
type Replacer func(target any, instance any) []any

// ReplacerSet maps each annotation Kind to its Replacer.
type ReplacerSet map[Kind]Replacer

// Apply runs replacers to a fixed point: any annotation whose kind has a
// registered replacer is expanded, and the result is re-scanned, up to
// maxReplacementDepth iterations. A replacer reintroducing the very kind it
// replaces is not detected up front; Apply guards by depth rather than by
// tracking cycles, and returns an error once the limit is reached without
// a fixed point (spec §3's "fixed recursion limit").
func Apply(target any, l List, replacers ReplacerSet) (List, error) {
	if len(replacers) == 0 {
		return l, nil
	}
	current := l
	for depth := 0; depth < maxReplacementDepth; depth++ {
		replacedAny := false
		next := Empty()
		current.All(func(kind Kind, value any) bool {
			if replacer, ok := replacers[kind]; ok {
				replacedAny = true
				for _, substitute := range replacer(target, value) {
					next = next.With(substitute)
				}
				return true
			}
			next = next.With(value)
			return true
		})
		current = next
		if !replacedAny {
			return current, nil
		}
	}
	return List{}, fmt.Errorf("annotation: replacement did not reach a fixed point within %d iterations", maxReplacementDepth)
}
