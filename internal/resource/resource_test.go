package resource

import (
	"testing"

	"polarkb/internal/kb"
	"polarkb/internal/term"
)

func registerClass(t *testing.T, kbase *kb.KnowledgeBase, name term.Symbol, instanceID uint64) {
	t.Helper()
	if err := kbase.RegisterConstant(name, term.New(term.ExternalInstance{InstanceID: instanceID, ClassTag: name})); err != nil {
		t.Fatalf("RegisterConstant(%s) error = %v", name, err)
	}
}

// buildOrgRepo wires a two-resource policy: Org has a "member" role granting
// a "view" permission; Repo relates to Org via "parent" and grants "read"
// to anyone who is a "member" of its parent Org.
func buildOrgRepo(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	kbase := kb.New()
	registerClass(t, kbase, "Org", 1)
	registerClass(t, kbase, "Repo", 2)

	rb := kbase.ResourceBlocks()
	rb.AddResource("Org")
	rb.AddResource("Repo")

	rb.Declare("Org", "member", kb.DeclRole, "")
	rb.Declare("Org", "view", kb.DeclPermission, "")
	rb.AddShorthandRule("Org", kb.ShorthandRule{
		Head:    term.New(term.StringValue("view")),
		Implier: term.New(term.StringValue("member")),
	})

	rb.Declare("Repo", "parent", kb.DeclRelation, "Org")
	rb.Declare("Repo", "read", kb.DeclPermission, "")
	rb.AddShorthandRule("Repo", kb.ShorthandRule{
		Head:    term.New(term.StringValue("read")),
		Implier: term.New(term.StringValue("member")),
		Related: &kb.RelatedRef{Keyword: "on", Relation: term.New(term.StringValue("parent"))},
	})

	return kbase
}

func TestRewriteShorthandRulesCompilesConcreteRules(t *testing.T) {
	kbase := buildOrgRepo(t)

	if errs := RewriteShorthandRules(kbase); len(errs) != 0 {
		t.Fatalf("RewriteShorthandRules() errors = %v", errs)
	}

	viewRule, ok := kbase.GetGenericRule("has_permission")
	if !ok || viewRule.Len() != 2 {
		t.Fatalf("expected 2 has_permission rules (view and read), got %v (ok=%v)", viewRule, ok)
	}

	for _, rule := range viewRule.Rules() {
		if len(rule.Params) != 3 {
			t.Errorf("expected 3 params (actor, name, resource), got %d", len(rule.Params))
		}
	}
}

func TestRewriteShorthandRulesRejectsUnresolvableRelationClass(t *testing.T) {
	kbase := kb.New()
	// Org is never registered as a class.
	rb := kbase.ResourceBlocks()
	rb.AddResource("Repo")
	rb.Declare("Repo", "parent", kb.DeclRelation, "Org")

	errs := RewriteShorthandRules(kbase)
	if len(errs) == 0 {
		t.Fatal("expected an error for an unresolvable relation subject type")
	}
	if _, ok := kbase.GetGenericRule("has_permission"); ok {
		t.Error("expected no rules to be committed when the pre-check fails")
	}
}

func TestCreateResourceSpecificRuleTypesMarksCrossResourceObligationsRequired(t *testing.T) {
	kbase := buildOrgRepo(t)
	if errs := RewriteShorthandRules(kbase); len(errs) != 0 {
		t.Fatalf("RewriteShorthandRules() errors = %v", errs)
	}

	CreateResourceSpecificRuleTypes(kbase)

	types, ok := kbase.RuleTypes().Get("has_relation")
	if !ok || len(types) == 0 {
		t.Fatal("expected at least one has_relation rule type")
	}

	foundRequired := false
	for _, rt := range types {
		if rt.Required {
			foundRequired = true
		}
	}
	if !foundRequired {
		t.Error("expected the (Org, parent, Repo) obligation to be marked required")
	}

	roleTypes, ok := kbase.RuleTypes().Get("has_role")
	if !ok || len(roleTypes) != 1 || !roleTypes[0].Required {
		t.Fatalf("expected exactly one required has_role rule type, got %v (ok=%v)", roleTypes, ok)
	}
}

func TestCreateResourceSpecificRuleTypesOmitsHasRoleWithoutRoles(t *testing.T) {
	kbase := kb.New()
	registerClass(t, kbase, "Repo", 1)
	rb := kbase.ResourceBlocks()
	rb.AddResource("Repo")
	rb.Declare("Repo", "read", kb.DeclPermission, "")

	CreateResourceSpecificRuleTypes(kbase)

	if _, ok := kbase.RuleTypes().Get("has_role"); ok {
		t.Error("expected no has_role rule type when no resource declares a role")
	}
}
