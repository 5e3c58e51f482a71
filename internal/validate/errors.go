// Package validate implements the rule-type (shape) validator from spec
// section 4.4: conformance checking between rules and rule types, and
// required-rule-type coverage checking.
package validate

import (
	"fmt"

	"polarkb/internal/kb"
	"polarkb/internal/term"
)

// InvalidRuleError is raised when a rule matches none of the rule types
// registered under its name.
type InvalidRuleError struct {
	Rule kb.Rule
	Msg  string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Msg)
}

// InvalidRuleTypeError describes a structurally malformed rule type. The
// validator does not construct it: a rule type whose list parameter
// contains a *rest variable is reported as InvalidRuleTypeErrorRest
// (values.go), which aborts Phase A.
type InvalidRuleTypeError struct {
	RuleType kb.Rule
	Msg      string
}

func (e *InvalidRuleTypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.RuleType, e.Msg)
}

// MissingRequiredRuleError is raised in Phase B when a required rule type
// has no matching rule.
type MissingRequiredRuleError struct {
	RuleType kb.Rule
}

func (e *MissingRequiredRuleError) Error() string {
	return fmt.Sprintf("missing required rule: no rule satisfies %s", e.RuleType)
}

// UnregisteredClassError re-exports kb's structural error under this
// package so callers that only import validate still see the right type
// via errors.As.
type UnregisteredClassError = kb.UnregisteredClassError

// unionHint gives the resource-block declaration shape a rule writer
// should add to bring a tag into the named union.
func unionHint(union term.Symbol) string {
	switch union {
	case term.Actor:
		return "actor <tag> {}"
	case term.Resource:
		return "resource <tag> { .. }"
	default:
		return ""
	}
}
