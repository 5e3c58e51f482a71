package kb

import "polarkb/internal/term"

// Rule is a single rule definition: a head (name + params) and a body.
type Rule struct {
	id       uint64
	Name     term.Symbol
	Params   []term.Parameter
	Body     term.Term
	SourceID uint64
	Span     *term.Span
	Required bool
}

// String renders the rule head, e.g. `f(x: Orange, 1)`, for diagnostics.
func (r Rule) String() string {
	return ruleHeadString(r.Name, r.Params)
}

func ruleHeadString(name term.Symbol, params []term.Parameter) string {
	s := string(name) + "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.Parameter.String()
		if p.HasSpecializer() {
			s += ": " + p.Specializer.String()
		}
	}
	return s + ")"
}

// GenericRule is every rule sharing a name, keyed internally by an opaque
// rule id so callers never need a stable ordering key of their own.
type GenericRule struct {
	Name  term.Symbol
	order []uint64
	rules map[uint64]Rule
}

func newGenericRule(name term.Symbol) *GenericRule {
	return &GenericRule{Name: name, rules: make(map[uint64]Rule)}
}

// add appends rule under the given rule id, which the caller allocates.
func (g *GenericRule) add(id uint64, rule Rule) {
	rule.id = id
	g.rules[id] = rule
	g.order = append(g.order, id)
}

// Rules returns the rules in insertion order (spec section 9's resolution
// of the determinism open question: diagnostics must not depend on map
// iteration order).
func (g *GenericRule) Rules() []Rule {
	out := make([]Rule, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.rules[id])
	}
	return out
}

// Len returns the number of rules sharing this name.
func (g *GenericRule) Len() int {
	return len(g.order)
}
