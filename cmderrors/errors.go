// Package cmderrors defines the structured error taxonomy raised by every
// stage of dispatch: parsing, validation, condition/permission checks, and
// build-time declaration ingestion. Every kind carries the fields needed to
// render a message without parsing strings back out of it.
package cmderrors

import (
	"errors"
	"fmt"
)

// Kind identifies one taxonomy entry. Used for ranking failed branches and
// for matching exception handlers.
type Kind int

const (
	KindUnknownCommand Kind = iota
	KindMissingArgument
	KindInvalidValue
	KindInvalidNumber
	KindNumberOutOfRange
	KindInvalidEnum
	KindNoPermission
	KindOnCooldown
	KindExtraArguments
	KindDuplicateCommand
	KindMalformedPath
	KindUnresolvedPlaceholder
	KindCommandError
	KindUnboundCooldown
)

// Weight ranks failure kinds for the default failure-ranking policy (§4.D):
// NoPermission > InvalidValue > MissingArgument > UnknownCommand. Kinds not
// named in that chain fall in between on a reasonable scale.
func (k Kind) Weight() int {
	switch k {
	case KindNoPermission:
		return 100
	case KindInvalidValue, KindInvalidNumber, KindNumberOutOfRange, KindInvalidEnum:
		return 80
	case KindExtraArguments:
		return 70
	case KindOnCooldown:
		return 60
	case KindMissingArgument:
		return 40
	case KindCommandError:
		return 30
	case KindUnknownCommand:
		return 10
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindUnknownCommand:
		return "UnknownCommand"
	case KindMissingArgument:
		return "MissingArgument"
	case KindInvalidValue:
		return "InvalidValue"
	case KindInvalidNumber:
		return "InvalidNumber"
	case KindNumberOutOfRange:
		return "NumberOutOfRange"
	case KindInvalidEnum:
		return "InvalidEnum"
	case KindNoPermission:
		return "NoPermission"
	case KindOnCooldown:
		return "OnCooldown"
	case KindExtraArguments:
		return "ExtraArguments"
	case KindDuplicateCommand:
		return "DuplicateCommand"
	case KindMalformedPath:
		return "MalformedPath"
	case KindUnresolvedPlaceholder:
		return "UnresolvedPlaceholder"
	case KindCommandError:
		return "CommandError"
	case KindUnboundCooldown:
		return "UnboundCooldown"
	default:
		return "Unknown"
	}
}

// CommandError is the single error type flowing through the dispatch core.
// Every constructor below produces one with the kind-appropriate fields
// populated; Position is the stream cursor where the failure was detected,
// used by candidate-failure ranking (§4.D criterion 1).
type CommandError struct {
	Kind     Kind
	Position int

	// Parameter-related fields.
	ParameterName string
	ParameterType string

	// Token-related fields.
	RawToken string
	Reason   string

	// Enum-related fields.
	Allowed []string

	// Permission-related fields.
	Required string

	// Cooldown-related fields.
	Remaining string

	// Path-related (build-time) fields.
	Path string

	// Generic handler-raised message (KindCommandError).
	Message string

	wrapped error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case KindUnknownCommand:
		return fmt.Sprintf("unknown command: %q", e.RawToken)
	case KindMissingArgument:
		return fmt.Sprintf("missing argument %q (%s)", e.ParameterName, e.ParameterType)
	case KindInvalidValue:
		return fmt.Sprintf("invalid value for %q: %q (%s)", e.ParameterName, e.RawToken, e.Reason)
	case KindInvalidNumber:
		return fmt.Sprintf("invalid number for %q: %q", e.ParameterName, e.RawToken)
	case KindNumberOutOfRange:
		return fmt.Sprintf("number out of range for %q: %q", e.ParameterName, e.RawToken)
	case KindInvalidEnum:
		return fmt.Sprintf("invalid value %q, expected one of %v", e.RawToken, e.Allowed)
	case KindNoPermission:
		return fmt.Sprintf("missing permission: %s", e.Required)
	case KindOnCooldown:
		return fmt.Sprintf("on cooldown, %s remaining", e.Remaining)
	case KindExtraArguments:
		return fmt.Sprintf("unexpected extra arguments: %q", e.RawToken)
	case KindDuplicateCommand:
		return fmt.Sprintf("duplicate command registration for path %q", e.Path)
	case KindMalformedPath:
		return fmt.Sprintf("malformed command path %q: %s", e.Path, e.Reason)
	case KindUnresolvedPlaceholder:
		return fmt.Sprintf("unresolved placeholder <%s> in path %q", e.ParameterName, e.Path)
	case KindCommandError:
		return e.Message
	case KindUnboundCooldown:
		return "cooldown() called with no bound duration; use cooldown(d) or a method-level annotation"
	default:
		return "command error"
	}
}

func (e *CommandError) Unwrap() error { return e.wrapped }

func New(kind Kind) *CommandError { return &CommandError{Kind: kind} }

func UnknownCommand(token string, pos int) *CommandError {
	return &CommandError{Kind: KindUnknownCommand, RawToken: token, Position: pos}
}

func MissingArgument(name, typ string, pos int) *CommandError {
	return &CommandError{Kind: KindMissingArgument, ParameterName: name, ParameterType: typ, Position: pos}
}

func InvalidValue(name, token, reason string, pos int) *CommandError {
	return &CommandError{Kind: KindInvalidValue, ParameterName: name, RawToken: token, Reason: reason, Position: pos}
}

func InvalidNumber(name, token string, pos int) *CommandError {
	return &CommandError{Kind: KindInvalidNumber, ParameterName: name, RawToken: token, Position: pos}
}

func NumberOutOfRange(name, token string, pos int) *CommandError {
	return &CommandError{Kind: KindNumberOutOfRange, ParameterName: name, RawToken: token, Position: pos}
}

func InvalidEnum(token string, allowed []string, pos int) *CommandError {
	return &CommandError{Kind: KindInvalidEnum, RawToken: token, Allowed: allowed, Position: pos}
}

func NoPermission(required string) *CommandError {
	return &CommandError{Kind: KindNoPermission, Required: required}
}

func OnCooldown(remaining string) *CommandError {
	return &CommandError{Kind: KindOnCooldown, Remaining: remaining}
}

func ExtraArguments(surplus string, pos int) *CommandError {
	return &CommandError{Kind: KindExtraArguments, RawToken: surplus, Position: pos}
}

func DuplicateCommand(path string) *CommandError {
	return &CommandError{Kind: KindDuplicateCommand, Path: path}
}

func MalformedPath(path, reason string) *CommandError {
	return &CommandError{Kind: KindMalformedPath, Path: path, Reason: reason}
}

func UnresolvedPlaceholder(path, name string) *CommandError {
	return &CommandError{Kind: KindUnresolvedPlaceholder, Path: path, ParameterName: name}
}

func Generic(message string) *CommandError {
	return &CommandError{Kind: KindCommandError, Message: message}
}

func Wrap(kind Kind, message string, err error) *CommandError {
	return &CommandError{Kind: kind, Message: message, wrapped: err}
}

func UnboundCooldown() *CommandError {
	return &CommandError{Kind: KindUnboundCooldown}
}

// As reports whether err is (or wraps) a *CommandError of the given kind.
func As(err error, kind Kind) (*CommandError, bool) {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return nil, false
	}
	return ce, ce.Kind == kind
}
