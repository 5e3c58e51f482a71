package resource

import (
	"polarkb/internal/kb"
	"polarkb/internal/term"
)

// relKey identifies one (subject, relation, object) obligation (spec 4.5).
type relKey struct {
	subject  term.Symbol
	relation string
	object   term.Symbol
}

// CreateResourceSpecificRuleTypes computes the (subject, relation, object)
// obligation map implied by declared relations and shorthand rules, and
// installs the corresponding has_relation rule types (plus has_role, if any
// resource declares a role) via AddRuleType.
func CreateResourceSpecificRuleTypes(kbase *kb.KnowledgeBase) {
	rb := kbase.ResourceBlocks()

	var order []relKey
	seen := make(map[relKey]bool)
	required := make(map[relKey]bool)
	relTerm := make(map[relKey]term.Term)

	mark := func(subject term.Symbol, relation string, object term.Symbol, isRequired bool, src term.Term) {
		k := relKey{subject: subject, relation: relation, object: object}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
			relTerm[k] = src
		}
		if isRequired {
			required[k] = true
		}
	}

	// Step 1: seed with every declared relation tuple, non-required.
	for _, t := range rb.RelationTuples() {
		mark(t.Subject, t.Relation, t.Object, false, term.New(term.StringValue(t.Relation)))
	}

	// Step 2: shorthand rules that cross or chain relations make specific
	// (subject, relation, object) triples required.
	for _, object := range rb.DeclaredResources() {
		for _, sh := range rb.ShorthandRules(object) {
			implierName, ok := term.AsString(sh.Implier)
			if !ok {
				continue
			}
			if sh.Related != nil {
				relationName, ok := term.AsString(sh.Related.Relation)
				if !ok {
					continue
				}
				subject, hasRelation := rb.RelationType(relationName, object)
				if !hasRelation {
					continue
				}
				mark(subject, relationName, object, true, sh.Related.Relation)

				if relatedSubject, ok := rb.RelationType(implierName, subject); ok {
					mark(relatedSubject, implierName, subject, true, sh.Implier)
				}
			} else if subject, ok := rb.RelationType(implierName, object); ok {
				mark(subject, implierName, object, true, sh.Implier)
			}
		}
	}

	// Step 3: each entry becomes a has_relation rule type.
	for _, k := range order {
		src := relTerm[k]
		kbase.AddRuleType(kb.Rule{
			Name: "has_relation",
			Params: []term.Parameter{
				{Parameter: term.New(term.Variable("subject")), Specializer: specializerFor(k.subject)},
				{Parameter: term.New(term.StringValue(k.relation)), Specializer: specializerFor(term.TagString)},
				{Parameter: term.New(term.Variable("object")), Specializer: specializerFor(k.object)},
			},
			Span:     src.Span,
			Required: required[k],
		})
	}

	// Step 4: has_role is required whenever any resource declares a role.
	if rb.HasAnyRole() {
		kbase.AddRuleType(kb.Rule{
			Name: "has_role",
			Params: []term.Parameter{
				{Parameter: term.New(term.Variable("actor")), Specializer: specializerFor(term.Actor)},
				{Parameter: term.New(term.Variable("role")), Specializer: specializerFor(term.TagString)},
				{Parameter: term.New(term.Variable("resource")), Specializer: specializerFor(term.Resource)},
			},
			Required: true,
		})
	}
}
