// Package orphan implements late path binding for declarations whose
// command path is supplied at registration time rather than declared
// statically (spec §4.H). It substitutes the declaration's OrphanPath
// placeholder annotation with a synthesized ResolvedPath annotation via
// the annotation replacer (spec §3 "Annotation replacer"), then hands the
// rewritten declaration to ingest.Build exactly as any other.
package orphan

import (
	"reflect"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/ingest"
)

var orphanPathKind = reflect.TypeOf(ingest.OrphanPath{})

// Bind rewrites decl's annotations so its OrphanPath placeholder is
// replaced by a ResolvedPath carrying paths, ready for ingest.Build. It is
// a no-op (returns decl unchanged) if decl does not carry OrphanPath.
func Bind(decl ingest.Declaration, paths ...string) (ingest.Declaration, error) {
	if !decl.Annotations.Has(orphanPathKind) {
		return decl, nil
	}

	replacers := annotation.ReplacerSet{
		orphanPathKind: func(target any, instance any) []any {
			return []any{ingest.ResolvedPath{Alternatives: paths}}
		},
	}

	rewritten, err := annotation.Apply(decl, decl.Annotations, replacers)
	if err != nil {
		return ingest.Declaration{}, err
	}
	decl.Annotations = rewritten
	return decl, nil
}
