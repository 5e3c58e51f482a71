package validate

import (
	"fmt"
	"strings"

	"polarkb/internal/diagnostic"
	"polarkb/internal/kb"
)

// UndefinedCallChecker is the external collaborator spec section 1 calls
// out as "invoked by the validator but its internals are not specified
// here." It inspects the fully-loaded KB and reports calls to rule names
// that no rule (and no builtin) defines.
type UndefinedCallChecker interface {
	Check(kbase *kb.KnowledgeBase) []error
}

// ValidateRules runs the two-phase shape validator (spec 4.4) followed by
// the undefined-rule-call pass, and returns the collected diagnostics in
// deterministic (insertion) order.
func ValidateRules(kbase *kb.KnowledgeBase, undefined UndefinedCallChecker) []diagnostic.Diagnostic {
	var agg diagnostic.Aggregator

	shortCircuited := runConformance(kbase, &agg)

	if !shortCircuited {
		runRequiredCoverage(kbase, &agg)
	}

	if undefined != nil {
		for _, err := range undefined.Check(kbase) {
			agg.AddError(err)
		}
	}

	return agg.Diagnostics()
}

// runConformance is Phase A (spec 4.4). It returns true if a structural
// error aborted the phase early.
func runConformance(kbase *kb.KnowledgeBase, agg *diagnostic.Aggregator) bool {
	rb := kbase.ResourceBlocks()

	for _, generic := range kbase.GetRules() {
		types, hasTypes := kbase.RuleTypes().Get(generic.Name)
		if !hasTypes {
			continue
		}

		for _, rule := range generic.Rules() {
			matched, msg, err := matchesAnyType(kbase, rb, rule, types)
			if err != nil {
				agg.AddError(err)
				return true
			}
			if !matched {
				agg.AddError(&InvalidRuleError{Rule: rule, Msg: msg})
			}
		}
	}
	return false
}

// matchesAnyType reports whether rule matches at least one rule type in
// types, per spec 4.4's two-stage attempt (arity, then per-parameter).
func matchesAnyType(kbase *kb.KnowledgeBase, rb *kb.ResourceBlocks, rule kb.Rule, types []kb.Rule) (bool, string, error) {
	var b strings.Builder
	b.WriteString("Must match one of the following rule types:\n")

	for _, ruleType := range types {
		if len(rule.Params) != len(ruleType.Params) {
			fmt.Fprintf(&b, "%s: arity mismatch: rule has %d parameter(s), rule type has %d\n", ruleType, len(rule.Params), len(ruleType.Params))
			continue
		}

		failed := false
		var reason string
		for idx := 0; idx < len(rule.Params); idx++ {
			res, err := checkParam(kbase, rb, idx+1, rule.Params[idx], ruleType.Params[idx])
			if err != nil {
				return false, "", err
			}
			if !res.ok {
				failed = true
				reason = res.msg
				break
			}
		}
		if !failed {
			return true, "", nil
		}
		fmt.Fprintf(&b, "%s: %s\n", ruleType, reason)
	}

	return false, b.String(), nil
}

// runRequiredCoverage is Phase B (spec 4.4): every required rule type must
// have at least one matching rule.
func runRequiredCoverage(kbase *kb.KnowledgeBase, agg *diagnostic.Aggregator) {
	rb := kbase.ResourceBlocks()

	for _, ruleType := range kbase.RuleTypes().RequiredRuleTypes() {
		generic, hasRules := kbase.GetGenericRule(ruleType.Name)
		covered := false
		if hasRules {
			for _, rule := range generic.Rules() {
				if len(rule.Params) != len(ruleType.Params) {
					continue
				}
				allOK := true
				for idx := range rule.Params {
					res, err := checkParam(kbase, rb, idx+1, rule.Params[idx], ruleType.Params[idx])
					if err != nil || !res.ok {
						allOK = false
						break
					}
				}
				if allOK {
					covered = true
					break
				}
			}
		}
		if !covered {
			agg.AddError(&MissingRequiredRuleError{RuleType: ruleType})
		}
	}
}
