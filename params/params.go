// Package params implements the framework's built-in ParameterType
// factories — string, quoted string, int, long, float64, float32, bool,
// time.Duration, and enum-by-reflection (spec §4.B) — mirroring the
// teacher's pkgs/stdlib registry-of-signatures shape: a flat list of
// factories registered as AddLast defaults so any embedder registration
// added during Builder construction takes precedence.
package params

import (
	"reflect"
	"time"

	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/stream"
	"github.com/aledsdavies/lamp/types"
)

// RegisterDefaults installs every built-in ParameterTypeFactory into regs
// at AddLast precedence (spec §4.B).
func RegisterDefaults(regs *types.Registries) {
	regs.ParameterTypes.AddLast(stringFactory)
	regs.ParameterTypes.AddLast(quotedStringFactory)
	regs.ParameterTypes.AddLast(intFactory)
	regs.ParameterTypes.AddLast(longFactory)
	regs.ParameterTypes.AddLast(doubleFactory)
	regs.ParameterTypes.AddLast(floatFactory)
	regs.ParameterTypes.AddLast(boolFactory)
	regs.ParameterTypes.AddLast(durationFactory)
	regs.ParameterTypes.AddLast(enumFactory)
}

var (
	stringType   = reflect.TypeOf("")
	intType      = reflect.TypeOf(int32(0))
	longType     = reflect.TypeOf(int64(0))
	doubleType   = reflect.TypeOf(float64(0))
	floatType    = reflect.TypeOf(float32(0))
	boolType     = reflect.TypeOf(false)
	durationType = reflect.TypeOf(time.Duration(0))
)

// QuotedString is the explicit annotation selecting the quoted-string
// parser over the plain unquoted one for a string-typed parameter.
type QuotedString struct{}

var quotedStringKind = reflect.TypeOf(QuotedString{})

type simpleParser struct {
	parse    func(s *stream.Stream, ctx *types.Context) (any, error)
	priority types.Priority
}

func (p simpleParser) ParseAny(s *stream.Stream, ctx *types.Context) (any, error) {
	return p.parse(s, ctx)
}
func (p simpleParser) Priority() types.Priority                       { return p.priority }
func (p simpleParser) DefaultSuggestionProvider() types.SuggestionProvider { return nil }

func stringFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != stringType || anns.Has(quotedStringKind) {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityLowest,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadUnquotedString(), nil
		},
	}, true
}

func quotedStringFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != stringType || !anns.Has(quotedStringKind) {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadString()
		},
	}, true
}

func intFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != intType {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadInt()
		},
	}, true
}

func longFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != longType {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadLong()
		},
	}, true
}

func doubleFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != doubleType {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadDouble()
		},
	}, true
}

func floatFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != floatType {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadFloat()
		},
	}, true
}

func boolFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != boolType {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			return s.ReadBoolean()
		},
	}, true
}

func durationFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t != durationType {
		return nil, false
	}
	return simpleParser{
		priority: types.PriorityDefault,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			tok := s.ReadUnquotedString()
			if tok == "" {
				return nil, cmderrors.New(cmderrors.KindMissingArgument)
			}
			d, err := time.ParseDuration(tok)
			if err != nil {
				return nil, cmderrors.InvalidValue("", tok, "expected a duration like \"3s\" or \"1h30m\"", s.Position())
			}
			return d, nil
		},
	}, true
}

// enumFactory recognizes any type whose Kind is String and whose parameter
// carries an Enum annotation listing the allowed spellings — the
// "enum-by-reflection" built-in (spec §4.B, §8 scenario 3). Types of any
// other kind, integer kinds included, are not recognized.
func enumFactory(t reflect.Type, anns types.AnnotationList) (types.Parser, bool) {
	if t == nil || t.Kind() != reflect.String {
		return nil, false
	}
	enumKind := reflect.TypeOf(Enum{})
	raw, ok := anns.Get(enumKind)
	if !ok {
		return nil, false
	}
	enum := raw.(Enum)
	return simpleParser{
		priority: types.PriorityHighest,
		parse: func(s *stream.Stream, ctx *types.Context) (any, error) {
			start := s.Position()
			tok := s.ReadUnquotedString()
			for _, variant := range enum.Variants {
				if variant == tok {
					return reflect.ValueOf(tok).Convert(t).Interface(), nil
				}
			}
			s.SetPosition(start)
			return nil, cmderrors.InvalidEnum(tok, enum.Variants, start)
		},
	}, true
}

// Enum is the per-parameter annotation declaring the closed set of
// accepted spellings for an enum-typed parameter (spec §8 scenario 3:
// "an enum parameter uses highest priority").
type Enum struct {
	Variants []string
}
