// Package kb implements the in-memory Knowledge Base aggregate: the
// registries, stores, and lifecycle described in spec sections 3, 4.1-4.3,
// and 6. The shape validator and resource-block elaborator that operate on
// it live in sibling packages (internal/validate, internal/resource) so
// this package stays pure data-plus-bookkeeping.
package kb

import "polarkb/internal/term"

// KnowledgeBase is the aggregate root described in spec section 3.
type KnowledgeBase struct {
	constants map[term.Symbol]term.Term
	mro       map[term.Symbol][]uint64

	rules          map[term.Symbol]*GenericRule
	ruleOrder      []term.Symbol
	ruleTypes      *RuleTypes
	sources        *sources
	resourceBlocks *ResourceBlocks

	inlineQueries []term.Term

	ids    idCounter
	gensym idCounter
}

// New returns an empty KnowledgeBase.
func New() *KnowledgeBase {
	return &KnowledgeBase{
		constants:      make(map[term.Symbol]term.Term),
		mro:            make(map[term.Symbol][]uint64),
		rules:          make(map[term.Symbol]*GenericRule),
		ruleTypes:      newRuleTypes(),
		sources:        newSources(),
		resourceBlocks: newResourceBlocks(),
	}
}

// AddRule appends rule to the GenericRule for rule.Name, creating it if
// absent, and returns the id it was stored under.
func (kb *KnowledgeBase) AddRule(rule Rule) uint64 {
	g, ok := kb.rules[rule.Name]
	if !ok {
		g = newGenericRule(rule.Name)
		kb.rules[rule.Name] = g
		kb.ruleOrder = append(kb.ruleOrder, rule.Name)
	}
	id := kb.NewID()
	g.add(id, rule)
	return id
}

// AddGenericRule installs an already-assembled GenericRule wholesale,
// replacing any existing rules sharing its name.
func (kb *KnowledgeBase) AddGenericRule(g *GenericRule) {
	if _, ok := kb.rules[g.Name]; !ok {
		kb.ruleOrder = append(kb.ruleOrder, g.Name)
	}
	kb.rules[g.Name] = g
}

// AddRuleType appends ruleType to the rule-type list for its name.
func (kb *KnowledgeBase) AddRuleType(ruleType Rule) {
	kb.ruleTypes.add(ruleType)
}

// RuleTypes exposes the rule-type store for the validator and elaborator.
func (kb *KnowledgeBase) RuleTypes() *RuleTypes {
	return kb.ruleTypes
}

// GetGenericRule returns the GenericRule for name, if any rules have been
// added under it.
func (kb *KnowledgeBase) GetGenericRule(name term.Symbol) (*GenericRule, bool) {
	g, ok := kb.rules[name]
	return g, ok
}

// GetRules returns every GenericRule, in first-insertion order (spec
// section 9's determinism resolution).
func (kb *KnowledgeBase) GetRules() []*GenericRule {
	out := make([]*GenericRule, 0, len(kb.ruleOrder))
	for _, name := range kb.ruleOrder {
		out = append(out, kb.rules[name])
	}
	return out
}

// HasRules reports whether any rule has been added.
func (kb *KnowledgeBase) HasRules() bool {
	return len(kb.ruleOrder) > 0
}

// ResourceBlocks exposes the resource-block model for the elaborator.
func (kb *KnowledgeBase) ResourceBlocks() *ResourceBlocks {
	return kb.resourceBlocks
}

// AddInlineQuery records an inline `?= ...` query parsed alongside rules.
// Evaluating it is out of scope (spec section 1); the KB only needs to
// hold and clear the list per the clear_rules invariant.
func (kb *KnowledgeBase) AddInlineQuery(q term.Term) {
	kb.inlineQueries = append(kb.inlineQueries, q)
}

// InlineQueries returns the recorded inline queries in insertion order.
func (kb *KnowledgeBase) InlineQueries() []term.Term {
	return append([]term.Term(nil), kb.inlineQueries...)
}

// ClearRules resets every per-load structure (rules, rule types, sources,
// inline queries, resource blocks) while preserving constants, MROs, and
// the id/gensym counters (spec invariant 5).
func (kb *KnowledgeBase) ClearRules() {
	kb.rules = make(map[term.Symbol]*GenericRule)
	kb.ruleOrder = nil
	kb.ruleTypes.reset()
	kb.sources.reset()
	kb.resourceBlocks.reset()
	kb.inlineQueries = nil
}
