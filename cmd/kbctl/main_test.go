package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/goleak"

	"polarkb/internal/fixture"
	"polarkb/internal/kb"
	"polarkb/internal/resource"
	"polarkb/internal/term"
	"polarkb/internal/validate"
)

// TestMain guards the CLI package against goroutine leaks, following the
// teacher's internal/mangle/engine_test.go pattern; the KB is documented
// single-writer/no-concurrent-reader (spec section 5), so a leaked
// goroutine from a load/validate run is the one thing worth catching here.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const validFixture = `
classes:
  - name: Org
  - name: Repo

rule_types:
  - name: has_role
    params:
      - var: actor
        specializer:
          instance: Actor
      - value: {str: role}
      - var: resource
        specializer:
          instance: Resource
    required: true

rules:
  - name: has_role
    params:
      - var: actor
        specializer:
          instance: User
      - value: {str: role}
      - var: resource
        specializer:
          instance: Repo

resource_blocks:
  actors: [User]
  resources: [Repo]
  declarations:
    - resource: Repo
      name: member
      kind: role
    - resource: Repo
      name: read
      kind: permission
  shorthand_rules:
    - resource: Repo
      head: read
      implier: member
`

// TestLoadAndValidateEndToEnd exercises the full pipeline the validate
// subcommand drives: fixture load, shorthand rewrite, rule-type synthesis,
// and shape validation, against a policy where User is a registered class
// and an Actor-union member.
func TestLoadAndValidateEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(validFixture), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	kbase := kb.New()
	if err := kbase.RegisterConstant("User", term.New(term.ExternalInstance{InstanceID: 1, ClassTag: "User"})); err != nil {
		t.Fatalf("RegisterConstant(User) error = %v", err)
	}
	if err := kbase.AddMRO("User", []uint64{1}); err != nil {
		t.Fatalf("AddMRO(User) error = %v", err)
	}
	kbase.ResourceBlocks().AddActor("User")

	if _, err := fixture.Load(path, kbase); err != nil {
		t.Fatalf("fixture.Load() error = %v", err)
	}

	if errs := resource.RewriteShorthandRules(kbase); len(errs) != 0 {
		t.Fatalf("RewriteShorthandRules() errors = %v", errs)
	}
	resource.CreateResourceSpecificRuleTypes(kbase)

	diags := validate.ValidateRules(kbase, validate.SchemaUndefinedChecker{})
	if len(diags) != 0 {
		t.Fatalf("expected a clean validation run, got %d diagnostics: %v", len(diags), diags)
	}
}
