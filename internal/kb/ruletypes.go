package kb

import "polarkb/internal/term"

// RuleTypes is a multi-map from rule name to the ordered list of rule-type
// templates registered under that name, plus the subset of those templates
// that are required (spec section 3).
type RuleTypes struct {
	order []term.Symbol
	types map[term.Symbol][]Rule
	// required tracks required rule types by (name, index-in-types-slice)
	// so identity (spec's "by identity" required set) survives the copy
	// semantics of Go's value types without needing pointer rules.
	required []ruleTypeRef
}

type ruleTypeRef struct {
	name term.Symbol
	idx  int
}

func newRuleTypes() *RuleTypes {
	return &RuleTypes{types: make(map[term.Symbol][]Rule)}
}

// add appends ruleType to the list for its name, tracking it as required
// if ruleType.Required is set.
func (rt *RuleTypes) add(ruleType Rule) {
	if _, ok := rt.types[ruleType.Name]; !ok {
		rt.order = append(rt.order, ruleType.Name)
	}
	rt.types[ruleType.Name] = append(rt.types[ruleType.Name], ruleType)
	if ruleType.Required {
		rt.required = append(rt.required, ruleTypeRef{name: ruleType.Name, idx: len(rt.types[ruleType.Name]) - 1})
	}
}

// Get returns the rule types registered under name, in insertion order.
func (rt *RuleTypes) Get(name term.Symbol) ([]Rule, bool) {
	types, ok := rt.types[name]
	return types, ok
}

// Names returns every rule-type name in first-insertion order.
func (rt *RuleTypes) Names() []term.Symbol {
	return append([]term.Symbol(nil), rt.order...)
}

// RequiredRuleTypes returns every rule type marked required, in the order
// they were added.
func (rt *RuleTypes) RequiredRuleTypes() []Rule {
	out := make([]Rule, 0, len(rt.required))
	for _, ref := range rt.required {
		out = append(out, rt.types[ref.name][ref.idx])
	}
	return out
}

func (rt *RuleTypes) reset() {
	rt.order = nil
	rt.types = make(map[term.Symbol][]Rule)
	rt.required = nil
}
