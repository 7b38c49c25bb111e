package ingest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/registry"
	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
	"github.com/google/uuid"
)

var orphanPathKind = reflect.TypeOf(OrphanPath{})

// Built pairs one expanded path's segments with the ExecutableCommand leaf
// ready for Tree.Insert.
type Built struct {
	Segments []tree.Segment
	Leaf     *tree.ExecutableCommand
}

// Build expands decl into every Cartesian path alternative (spec §3
// "CommandPath"), resolves each parameter's parser/suggestion provider and
// the declaration's effective permission/conditions/response-handler
// against regs, and returns one Built per expanded path.
func Build(decl Declaration, regs *types.Registries) ([]Built, error) {
	if err := checkMinFrameworkVersion(decl.Annotations); err != nil {
		return nil, err
	}

	groups := decl.PathGroups
	if resolved, ok := annotation.Lookup[ResolvedPath](decl.Annotations); ok {
		groups = append([][]string{resolved.Alternatives}, groups...)
	} else if decl.Annotations.Has(orphanPathKind) {
		return nil, cmderrors.MalformedPath("", "orphan declaration built without a runtime-supplied path")
	}
	if len(groups) == 0 {
		return nil, cmderrors.MalformedPath("", "declaration has no path")
	}

	permission := resolvePermission(decl.Annotations, regs)
	conditions := resolveConditions(decl.Annotations, regs)
	responseHandler := resolveResponseHandler(decl.ReturnType, decl.Annotations, regs)
	contextResolvers, isContext := resolveContextParameters(decl.Params, decl.Annotations, regs)

	out := make([]Built, 0, len(groups))
	for _, combo := range cartesian(groups) {
		words := splitWords(combo)
		built, err := buildOne(decl, words, permission, conditions, responseHandler, contextResolvers, isContext, regs)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

// cartesian multiplies each level's alternative spellings into every
// combination, preserving level order (spec §3: "derived by multiplying
// all declared paths on the class hierarchy... taking the Cartesian
// product of alternative names").
func cartesian(groups [][]string) [][]string {
	combos := [][]string{{}}
	for _, group := range groups {
		next := make([][]string, 0, len(combos)*len(group))
		for _, c := range combos {
			for _, alt := range group {
				nc := make([]string, len(c)+1)
				copy(nc, c)
				nc[len(c)] = alt
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}

// splitWords flattens one expanded combination into path segment words,
// splitting each level's chosen spelling on whitespace (spec §3:
// "whitespace inside a path string delimits segments").
func splitWords(combo []string) []string {
	var words []string
	for _, level := range combo {
		words = append(words, strings.Fields(level)...)
	}
	return words
}

func buildOne(
	decl Declaration,
	words []string,
	permission types.Permission,
	conditions []types.Condition,
	responseHandler types.ResponseHandlerFunc,
	contextResolvers map[string]types.ContextParameterResolver,
	isContext map[string]bool,
	regs *types.Registries,
) (Built, error) {
	byName := make(map[string]ParamSpec, len(decl.Params))
	for _, p := range decl.Params {
		byName[p.Name] = p
	}
	fullPath := strings.Join(words, " ")

	usedAsPlaceholder := make(map[string]bool)
	segments := make([]tree.Segment, 0, len(words))
	path := make([]string, 0, len(words))
	paramNodes := make([]*tree.ParameterNode, 0, len(words))
	rawTypes := make([]reflect.Type, 0, len(words))

	for _, w := range words {
		name, isPlaceholder := placeholderName(w)
		if !isPlaceholder {
			segments = append(segments, tree.Segment{Literal: w})
			path = append(path, w)
			continue
		}
		spec, ok := byName[name]
		if !ok {
			return Built{}, cmderrors.UnresolvedPlaceholder(fullPath, name)
		}
		node, err := buildParameterNode(spec, regs)
		if err != nil {
			return Built{}, err
		}
		segments = append(segments, tree.Segment{Param: node})
		paramNodes = append(paramNodes, node)
		rawTypes = append(rawTypes, spec.Type)
		usedAsPlaceholder[name] = true
		path = append(path, w)
	}

	// Remaining declared parameters, in declaration order, excluding
	// placeholders already consumed above and context parameters (spec
	// §4.C step 2: "placeholder parameters in path order, then remaining
	// declared parameters in declaration order"). Each becomes a tree edge
	// of its own, appended to segments after the path's literal/placeholder
	// edges, so the dispatcher has somewhere to consume input for it.
	descriptors := make([]tree.ParameterDescriptor, 0, len(decl.Params))
	for _, spec := range decl.Params {
		descriptors = append(descriptors, tree.ParameterDescriptor{
			Name:        spec.Name,
			Type:        spec.Type,
			Annotations: spec.Annotations,
			Default:     spec.Default,
			Optional:    spec.Optional,
		})
		if usedAsPlaceholder[spec.Name] || isContext[spec.Name] {
			continue
		}
		node, err := buildParameterNode(spec, regs)
		if err != nil {
			return Built{}, err
		}
		segments = append(segments, tree.Segment{Param: node})
		paramNodes = append(paramNodes, node)
		rawTypes = append(rawTypes, spec.Type)
	}

	leaf := &tree.ExecutableCommand{
		ID:               uuid.New(),
		Path:             path,
		ParameterNodes:   paramNodes,
		Parameters:       descriptors,
		ContextResolvers: contextResolvers,
		Handler:          decl.Handler,
		Permission:       permission,
		Conditions:       conditions,
		Annotations:      decl.Annotations,
		ResponseHandler:  responseHandler,
		RawTypes:         rawTypes,
	}
	return Built{Segments: segments, Leaf: leaf}, nil
}

func placeholderName(word string) (string, bool) {
	if len(word) < 2 || word[0] != '<' || word[len(word)-1] != '>' {
		return "", false
	}
	return word[1 : len(word)-1], true
}

func buildParameterNode(spec ParamSpec, regs *types.Registries) (*tree.ParameterNode, error) {
	parser, ok := registry.Resolve(regs.ParameterTypes, func(f types.ParameterTypeFactory) (types.Parser, bool) {
		return f(spec.Type, spec.Annotations)
	})
	if !ok {
		return nil, cmderrors.MalformedPath(spec.Name, fmt.Sprintf("no parameter type registered for %s", spec.Type))
	}

	var suggestion types.SuggestionProvider
	if sw, ok := annotation.Lookup[types.SuggestWith](spec.Annotations); ok {
		suggestion = sw.Provider
	} else if sp, ok := registry.Resolve(regs.SuggestionProvider, func(f types.SuggestionProviderFactory) (types.SuggestionProvider, bool) {
		return f(spec.Type, spec.Annotations)
	}); ok {
		suggestion = sp
	} else {
		suggestion = parser.DefaultSuggestionProvider()
	}

	return &tree.ParameterNode{
		Descriptor: tree.ParameterDescriptor{
			Name:        spec.Name,
			Type:        spec.Type,
			Annotations: spec.Annotations,
			Default:     spec.Default,
			Optional:    spec.Optional,
		},
		Parser:     parser,
		Suggestion: suggestion,
	}, nil
}

// resolveContextParameters probes the context-parameter registry for each
// declared parameter using its own annotations merged with the
// declaration's method-level annotations — so a context parameter whose
// factory keys off a method-level annotation (the cooldown handle keying
// off a method-level cooldown.Annotation) is still recognized.
func resolveContextParameters(params []ParamSpec, declAnns annotation.List, regs *types.Registries) (map[string]types.ContextParameterResolver, map[string]bool) {
	resolvers := make(map[string]types.ContextParameterResolver)
	isContext := make(map[string]bool)
	for _, spec := range params {
		merged := mergeAnnotations(spec.Annotations, declAnns)
		resolver, ok := registry.Resolve(regs.ContextParameters, func(f types.ContextParameterFactory) (types.ContextParameterResolver, bool) {
			return f(spec.Type, merged)
		})
		if ok {
			resolvers[spec.Name] = resolver
			isContext[spec.Name] = true
		}
	}
	return resolvers, isContext
}

// mergeAnnotations layers decl annotations under param's own, so a kind
// present on both keeps the parameter-level value.
func mergeAnnotations(param, decl annotation.List) annotation.List {
	merged := param
	decl.All(func(kind reflect.Type, value any) bool {
		if !merged.Has(kind) {
			merged = merged.With(value)
		}
		return true
	})
	return merged
}

func resolvePermission(anns annotation.List, regs *types.Registries) types.Permission {
	if p, ok := registry.Resolve(regs.Permissions, func(f types.PermissionFactory) (types.Permission, bool) {
		return f(anns)
	}); ok {
		return p
	}
	return types.AllowAll{}
}

func resolveConditions(anns annotation.List, regs *types.Registries) []types.Condition {
	if c, ok := registry.Resolve(regs.Conditions, func(f types.ConditionFactory) ([]types.Condition, bool) {
		return f(anns)
	}); ok {
		return c
	}
	return nil
}

func resolveResponseHandler(t reflect.Type, anns annotation.List, regs *types.Registries) types.ResponseHandlerFunc {
	if t == nil {
		return nil
	}
	if h, ok := registry.Resolve(regs.ResponseHandlers, func(f types.ResponseHandlerFactory) (types.ResponseHandlerFunc, bool) {
		return f(t, anns)
	}); ok {
		return h
	}
	return nil
}
