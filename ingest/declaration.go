// Package ingest converts handler declarations — the class-scanning-free
// model the embedder hands the core (spec §1 "the core consumes a
// declaration model... via a well-defined ingestion interface") — into
// ExecutableCommand leaves ready for Tree.Insert (spec §4.C), keeping a
// parse-then-plan separation: Build is pure and returns leaves without
// mutating any tree; Lamp.Register performs the insertion under a single
// write lock.
package ingest

import (
	"reflect"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/tree"
)

// ParamSpec is one declared parameter of a handler: name, declared type,
// its own annotations, optional default, and whether it may be omitted
// from trailing input (spec §3 "Parameter descriptor").
type ParamSpec struct {
	Name        string
	Type        reflect.Type
	Annotations annotation.List
	Default     *tree.DefaultValue
	Optional    bool
}

// Declaration is one handler method's full ingestion input: its path
// alternatives (one group per declaration level — enclosing command,
// subcommand, method — multiplied via Cartesian product per spec §3
// "CommandPath"), its parameters, and its effective method-level
// annotations (permission, conditions, cooldown, response-handler,
// description — already merged with any enclosing-class annotations by
// the caller).
type Declaration struct {
	PathGroups  [][]string
	Params      []ParamSpec
	Handler     tree.Handler
	ReturnType  reflect.Type
	Annotations annotation.List
}

// OrphanPath is the internal placeholder annotation carried by a
// declaration whose path is supplied at registration time rather than
// declared statically (spec §4.H "Orphan commands"). Build refuses to
// proceed on a Declaration still carrying OrphanPath with no matching
// ResolvedPath — the orphan package is responsible for substituting one in
// via the annotation replacer before calling Build.
type OrphanPath struct{}

// ResolvedPath is the annotation the orphan package substitutes for
// OrphanPath once the runtime path is known, carrying the alternative
// spellings for that synthesized top-level path segment group.
type ResolvedPath struct {
	Alternatives []string
}
