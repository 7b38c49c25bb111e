package types

import (
	"reflect"

	"github.com/aledsdavies/lamp/stream"
)

// SuggestionProvider produces completion strings for a partial argument
// (spec §4.B). It must not mutate the stream it is given — the suggestion
// engine always passes an Immutable snapshot.
type SuggestionProvider interface {
	Suggestions(partial stream.Immutable, ctx *Context) []string
}

// SuggestionProviderFunc adapts a plain function to SuggestionProvider.
type SuggestionProviderFunc func(partial stream.Immutable, ctx *Context) []string

func (f SuggestionProviderFunc) Suggestions(partial stream.Immutable, ctx *Context) []string {
	return f(partial, ctx)
}

// SuggestionProviderFactory resolves a SuggestionProvider from a
// declared type and its annotations (the suggestion registry keyed by type
// or annotation, spec §4.C step 3).
type SuggestionProviderFactory func(t reflect.Type, anns AnnotationList) (SuggestionProvider, bool)

// SuggestWith is the explicit per-parameter override annotation: when
// present, it wins over any registry resolution (spec §4.C step 3,
// "explicit @SuggestWith wins").
type SuggestWith struct {
	Provider SuggestionProvider
}
