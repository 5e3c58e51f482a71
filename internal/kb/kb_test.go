package kb

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"polarkb/internal/diagnostic"
	"polarkb/internal/term"
)

func TestAddSourceOverlapCases(t *testing.T) {
	k := New()

	if _, err := k.AddSource(Source{Src: "a.polar src", Filename: "a.polar"}); err != nil {
		t.Fatalf("first AddSource() error = %v", err)
	}

	t.Run("same file same contents", func(t *testing.T) {
		_, err := k.AddSource(Source{Src: "a.polar src", Filename: "a.polar"})
		var fl *diagnostic.RuntimeError
		if !errors.As(err, &fl) {
			t.Fatalf("expected a FileLoading RuntimeError, got %v", err)
		}
		if err.Error() != "File a.polar has already been loaded." {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("same filename different contents", func(t *testing.T) {
		_, err := k.AddSource(Source{Src: "different contents", Filename: "a.polar"})
		if err == nil || err.Error() != "A file with the name a.polar, but different contents has already been loaded." {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("same contents different filename", func(t *testing.T) {
		_, err := k.AddSource(Source{Src: "a.polar src", Filename: "b.polar"})
		if err == nil || err.Error() != "A file with the same contents as b.polar named a.polar has already been loaded." {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unrelated file admits cleanly", func(t *testing.T) {
		id, err := k.AddSource(Source{Src: "c.polar src", Filename: "c.polar"})
		if err != nil {
			t.Fatalf("AddSource() error = %v", err)
		}
		got, ok := k.GetSource(id)
		if !ok || got.Filename != "c.polar" {
			t.Fatalf("GetSource(%d) = (%v, %v), want (c.polar, true)", id, got, ok)
		}
	})

	t.Run("anonymous sources bypass the check entirely", func(t *testing.T) {
		if _, err := k.AddSource(Source{Src: "a.polar src"}); err != nil {
			t.Fatalf("anonymous AddSource() error = %v", err)
		}
	})
}

func TestIDsAreUniqueAndMonotonic(t *testing.T) {
	k := New()
	seen := make(map[uint64]bool)
	prev := uint64(0)
	for i := 0; i < 1000; i++ {
		id := k.NewID()
		if seen[id] {
			t.Fatalf("NewID() returned duplicate id %d at iteration %d", id, i)
		}
		seen[id] = true
		if i > 0 && id != prev+1 {
			t.Fatalf("NewID() not monotonic: got %d after %d", id, prev)
		}
		prev = id
	}
}

func TestGensym(t *testing.T) {
	k := New()
	if got := k.Gensym("_"); got != "_0" {
		t.Errorf(`Gensym("_") = %q, want "_0"`, got)
	}
	if got := k.Gensym("foo"); got != "_foo_1" {
		t.Errorf(`Gensym("foo") = %q, want "_foo_1"`, got)
	}
}

func TestClearRulesPreservesConstantsAndCounters(t *testing.T) {
	k := New()
	if err := k.RegisterConstant("Orange", term.New(term.ExternalInstance{InstanceID: 1, ClassTag: "Orange"})); err != nil {
		t.Fatalf("RegisterConstant() error = %v", err)
	}
	if err := k.AddMRO("Orange", []uint64{1}); err != nil {
		t.Fatalf("AddMRO() error = %v", err)
	}
	k.AddRule(Rule{Name: "allow", Params: []term.Parameter{{Parameter: term.New(term.Variable("x"))}}})
	k.NewID()

	if !k.HasRules() {
		t.Fatal("expected HasRules() to be true before clear_rules")
	}

	k.ClearRules()

	if k.HasRules() {
		t.Error("expected HasRules() to be false after clear_rules")
	}
	if !k.IsConstant("Orange") {
		t.Error("expected Orange constant to survive clear_rules")
	}
	if _, ok := k.MRO("Orange"); !ok {
		t.Error("expected Orange's MRO to survive clear_rules")
	}
	next := k.NewID()
	if next != 2 {
		t.Errorf("expected id counter to continue past clear_rules, got %d", next)
	}
}

func TestRegisterConstantRejectsReservedUnions(t *testing.T) {
	k := New()
	if err := k.RegisterConstant(term.Actor, term.New(term.IntegerValue(1))); err == nil {
		t.Error("expected RegisterConstant(Actor, ...) to be rejected")
	}
	if err := k.RegisterConstant(term.Resource, term.New(term.IntegerValue(1))); err == nil {
		t.Error("expected RegisterConstant(Resource, ...) to be rejected")
	}
}

func TestAddMRORejectsUnregisteredName(t *testing.T) {
	k := New()
	if err := k.AddMRO("Orange", []uint64{1}); err == nil {
		t.Error("expected AddMRO() for an unregistered constant to fail")
	}
}

func TestGetRegisteredClassReportsUnregistered(t *testing.T) {
	k := New()
	_, err := k.GetRegisteredClass(term.New(term.Variable("Orange")))
	var unregistered *UnregisteredClassError
	if !errors.As(err, &unregistered) {
		t.Fatalf("expected *UnregisteredClassError, got %v (%T)", err, err)
	}
}

func TestResourceBlocksRelationTuples(t *testing.T) {
	rb := newResourceBlocks()
	rb.AddResource("Repo")
	rb.AddResource("Org")
	rb.Declare("Repo", "parent", DeclRelation, "Org")
	rb.Declare("Repo", "admin", DeclRole, "")

	tuples := rb.RelationTuples()
	if len(tuples) != 1 || tuples[0] != (RelationTuple{Subject: "Org", Relation: "parent", Object: "Repo"}) {
		t.Fatalf("RelationTuples() = %v, want a single (Org, parent, Repo) tuple", tuples)
	}

	subject, ok := rb.RelationType("parent", "Repo")
	if !ok || subject != "Org" {
		t.Errorf("RelationType(parent, Repo) = (%v, %v), want (Org, true)", subject, ok)
	}
	if !rb.HasAnyRole() {
		t.Error("expected HasAnyRole() to be true after declaring a role")
	}
}

func TestResourceBlocksUnionMembersPreserveDeclarationOrder(t *testing.T) {
	rb := newResourceBlocks()
	rb.AddActor("Guest")
	rb.AddActor("Admin")
	rb.AddResource("Repo")
	rb.AddResource("Org")

	if diff := cmp.Diff([]term.Symbol{"Guest", "Admin"}, rb.Actors()); diff != "" {
		t.Errorf("Actors() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]term.Symbol{"Repo", "Org"}, rb.Resources()); diff != "" {
		t.Errorf("Resources() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenericRulePreservesInsertionOrder(t *testing.T) {
	k := New()
	firstID := k.AddRule(Rule{Name: "f", Params: []term.Parameter{{Parameter: term.New(term.IntegerValue(1))}}})
	secondID := k.AddRule(Rule{Name: "f", Params: []term.Parameter{{Parameter: term.New(term.IntegerValue(2))}}})

	generic, ok := k.GetGenericRule("f")
	if !ok {
		t.Fatal("expected a GenericRule for f")
	}
	rules := generic.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if got, want := rules[0].Params[0].Parameter, term.New(term.IntegerValue(1)); !term.Equal(got, want) {
		t.Errorf("first rule out of order: got %v", got)
	}
	if firstID == secondID {
		t.Error("expected distinct ids for distinct rules")
	}
}
