// Package resource implements the resource-block elaborator (spec section
// 4.5): rewriting shorthand rules into concrete rules, and synthesizing the
// has_relation/has_role rule types that capture the relational obligations
// resource blocks imply. Both passes read internal/kb's ResourceBlocks
// model and feed their output back into the KnowledgeBase through the same
// add_rule/add_rule_type entry points the parser uses, so the validator
// never has to know a rule was shorthand-compiled rather than written out.
package resource

import (
	"fmt"

	"polarkb/internal/kb"
	"polarkb/internal/term"
)

// RewriteShorthandRules pre-checks that every declared relation's subject
// type is a registered class, then compiles every resource's shorthand
// rules to concrete rules and commits them. On any pre-check failure,
// nothing is added and the errors are returned.
func RewriteShorthandRules(kbase *kb.KnowledgeBase) []error {
	rb := kbase.ResourceBlocks()

	var errs []error
	for _, res := range rb.DeclaredResources() {
		for _, name := range sortedDeclNames(rb.Declarations(res)) {
			decl := rb.Declarations(res)[name]
			if decl.Kind != kb.DeclRelation {
				continue
			}
			if _, err := kbase.GetRegisteredClass(term.New(term.Variable(decl.RelatedType))); err != nil {
				errs = append(errs, fmt.Errorf("resource %s: relation %q: %w", res, name, err))
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}

	var compiled []kb.Rule
	for _, res := range rb.DeclaredResources() {
		for _, shorthand := range rb.ShorthandRules(res) {
			rule, err := asRule(res, rb, shorthand)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			compiled = append(compiled, rule)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	for _, rule := range compiled {
		kbase.AddRule(rule)
	}
	return nil
}

// asRule compiles one resource's shorthand rule to a concrete has_role/
// has_permission rule, following the same role-or-permission implication
// shape the spec's step 3/4.5 rule types describe: actor, name, resource.
func asRule(resource term.Symbol, rb *kb.ResourceBlocks, sh kb.ShorthandRule) (kb.Rule, error) {
	headName, ok := term.AsString(sh.Head)
	if !ok {
		return kb.Rule{}, fmt.Errorf("resource %s: shorthand rule head is not a string", resource)
	}
	implierName, ok := term.AsString(sh.Implier)
	if !ok {
		return kb.Rule{}, fmt.Errorf("resource %s: shorthand rule %q implier is not a string", resource, headName)
	}

	actorParam := term.Parameter{Parameter: term.New(term.Variable("actor")), Specializer: specializerFor(term.Actor)}
	nameParam := term.Parameter{Parameter: term.New(term.StringValue(headName))}
	resourceParam := term.Parameter{Parameter: term.New(term.Variable("resource")), Specializer: specializerFor(resource)}

	var body term.Term
	if sh.Related == nil {
		implierRuleName := ruleNameFor(declKindFor(rb, resource, implierName))
		body = term.New(term.Call{
			Name: term.Symbol(implierRuleName),
			Args: []term.Term{term.New(term.Variable("actor")), term.New(term.StringValue(implierName)), term.New(term.Variable("resource"))},
		})
	} else {
		relationName, ok := term.AsString(sh.Related.Relation)
		if !ok {
			return kb.Rule{}, fmt.Errorf("resource %s: shorthand rule %q relation is not a string", resource, headName)
		}
		subject, hasRelation := rb.RelationType(relationName, resource)
		if !hasRelation {
			return kb.Rule{}, fmt.Errorf("resource %s: shorthand rule %q: relation %q is not declared on %s", resource, headName, relationName, resource)
		}
		implierRuleName := ruleNameFor(declKindFor(rb, subject, implierName))

		related := term.Variable("related")
		relationCall := term.New(term.Call{
			Name: "has_relation",
			Args: []term.Term{term.New(related), term.New(term.StringValue(relationName)), term.New(term.Variable("resource"))},
		})
		implierCall := term.New(term.Call{
			Name: term.Symbol(implierRuleName),
			Args: []term.Term{term.New(term.Variable("actor")), term.New(term.StringValue(implierName)), term.New(related)},
		})
		body = term.New(term.Expression{Operator: "and", Operands: []term.Term{relationCall, implierCall}})
	}

	return kb.Rule{
		Name:   term.Symbol(ruleNameFor(declKindFor(rb, resource, headName))),
		Params: []term.Parameter{actorParam, nameParam, resourceParam},
		Body:   body,
	}, nil
}

// declKindFor reports the declared kind of name on resource, defaulting to
// a permission when the shorthand rule writer never declared it explicitly
// (a lenient fallback; the parser is expected to reject that case earlier).
func declKindFor(rb *kb.ResourceBlocks, resource term.Symbol, name string) kb.DeclKind {
	if decl, ok := rb.Declarations(resource)[name]; ok {
		return decl.Kind
	}
	return kb.DeclPermission
}

func ruleNameFor(kind kb.DeclKind) string {
	if kind == kb.DeclRole {
		return "has_role"
	}
	return "has_permission"
}

func specializerFor(tag term.Symbol) *term.Term {
	t := term.New(term.PatternValue{Pattern: term.InstanceLiteral{Tag: tag, Fields: term.NewDictionary()}})
	return &t
}

// sortedDeclNames returns decls' keys sorted, so pre-check error ordering is
// deterministic instead of following Go's randomized map iteration.
func sortedDeclNames(decls map[string]kb.Declaration) []string {
	out := make([]string, 0, len(decls))
	for name := range decls {
		out = append(out, name)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
