package validate

import (
	"fmt"

	"polarkb/internal/kb"
	"polarkb/internal/term"
)

// builtinOperators are operators and builtin predicates that never need a
// user-defined rule. Modeled on the teacher's schema-drift detector
// (internal/mangle/schema_validator.go's "Bug #18 fix"), which treats any
// predicate not declared or derived as a hallucinated call; here the same
// idea is applied to Polar-style rule bodies instead of Mangle predicates.
var builtinOperators = map[term.Symbol]bool{
	"and": true, "or": true, "not": true, "in": true,
	"matches": true, "cut": true, "debug": true, "print": true,
	"=": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// SchemaUndefinedChecker is the default UndefinedCallChecker: it walks
// every rule body and reports a Call whose name is neither a builtin
// operator nor the name of any loaded rule.
type SchemaUndefinedChecker struct{}

// Check implements UndefinedCallChecker.
func (SchemaUndefinedChecker) Check(kbase *kb.KnowledgeBase) []error {
	defined := make(map[term.Symbol]bool)
	for _, g := range kbase.GetRules() {
		defined[g.Name] = true
	}

	var errs []error
	seen := make(map[string]bool)
	for _, g := range kbase.GetRules() {
		for _, rule := range g.Rules() {
			walkCalls(rule.Body, func(call term.Call) {
				if defined[call.Name] || builtinOperators[call.Name] {
					return
				}
				key := fmt.Sprintf("%s/%d in %s", call.Name, len(call.Args), rule.Name)
				if seen[key] {
					return
				}
				seen[key] = true
				errs = append(errs, fmt.Errorf("%s: call to undefined rule %s/%d", rule, call.Name, len(call.Args)))
			})
		}
	}
	return errs
}

func walkCalls(t term.Term, visit func(term.Call)) {
	switch v := t.Value.(type) {
	case term.Call:
		visit(v)
		for _, arg := range v.Args {
			walkCalls(arg, visit)
		}
	case term.Expression:
		for _, operand := range v.Operands {
			walkCalls(operand, visit)
		}
	case term.ListValue:
		for _, elem := range v {
			walkCalls(elem, visit)
		}
	}
}
