// Package diagnostic defines RuntimeError (returned directly by mutating
// façade calls) and the Diagnostic list that validate_rules returns. The
// validation errors wrapped in those diagnostics are defined elsewhere:
// InvalidRuleError, InvalidRuleTypeErrorRest and MissingRequiredRuleError
// in internal/validate, UnregisteredClassError in internal/kb. See spec
// section 7.
package diagnostic

import "fmt"

// RuntimeError is returned directly by mutating KB operations; it never
// flows through validate_rules.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Msg  string
	// Sym is set for InvalidRegistration errors.
	Sym string
}

// RuntimeErrorKind enumerates the RuntimeError variants from spec section 7.
type RuntimeErrorKind int

const (
	FileLoading RuntimeErrorKind = iota
	InvalidRegistration
	InvalidState
)

func (e *RuntimeError) Error() string {
	return e.Msg
}

// NewFileLoading builds a FileLoading RuntimeError with the given message.
func NewFileLoading(msg string) *RuntimeError {
	return &RuntimeError{Kind: FileLoading, Msg: msg}
}

// NewInvalidRegistration builds an InvalidRegistration RuntimeError for sym.
func NewInvalidRegistration(sym string) *RuntimeError {
	return &RuntimeError{
		Kind: InvalidRegistration,
		Sym:  sym,
		Msg:  fmt.Sprintf("cannot register %s: the name is reserved", sym),
	}
}

// NewInvalidState builds an InvalidState RuntimeError with the given message.
func NewInvalidState(msg string) *RuntimeError {
	return &RuntimeError{Kind: InvalidState, Msg: msg}
}
