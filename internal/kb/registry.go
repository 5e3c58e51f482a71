package kb

import (
	"fmt"

	"polarkb/internal/diagnostic"
	"polarkb/internal/term"
)

// RegisterConstant records a host-supplied value under name. Actor and
// Resource are reserved union names and are rejected with an
// InvalidRegistration RuntimeError; any other name overwrites a previous
// registration.
func (kb *KnowledgeBase) RegisterConstant(name term.Symbol, value term.Term) error {
	if term.IsUnion(name) {
		return diagnostic.NewInvalidRegistration(string(name))
	}
	kb.constants[name] = value
	return nil
}

// IsConstant reports whether name has a registered constant.
func (kb *KnowledgeBase) IsConstant(name term.Symbol) bool {
	_, ok := kb.constants[name]
	return ok
}

// GetRegisteredConstants returns every registered constant. The returned
// map is a defensive copy.
func (kb *KnowledgeBase) GetRegisteredConstants() map[term.Symbol]term.Term {
	out := make(map[term.Symbol]term.Term, len(kb.constants))
	for k, v := range kb.constants {
		out[k] = v
	}
	return out
}

// GetRegisteredClass resolves t (expected to be a Symbol-valued term) to
// its registered constant, or returns an UnregisteredClass error.
func (kb *KnowledgeBase) GetRegisteredClass(t term.Term) (term.Term, error) {
	sym, ok := term.AsSymbol(t)
	if !ok {
		return term.Term{}, fmt.Errorf("expected a class name, got %s", t.String())
	}
	v, ok := kb.constants[sym]
	if !ok {
		return term.Term{}, &UnregisteredClassError{Term: t}
	}
	return v, nil
}

// AddMRO records the method resolution order for name: an ordered list of
// instance ids where index 0 is the class itself (spec invariant 3).
// Unregistered names are rejected with an InvalidState RuntimeError.
func (kb *KnowledgeBase) AddMRO(name term.Symbol, mro []uint64) error {
	if !kb.IsConstant(name) {
		return diagnostic.NewInvalidState(fmt.Sprintf("cannot add MRO for %s: not a registered constant", name))
	}
	kb.mro[name] = append([]uint64(nil), mro...)
	return nil
}

// MRO returns the recorded method resolution order for name, if any.
func (kb *KnowledgeBase) MRO(name term.Symbol) ([]uint64, bool) {
	m, ok := kb.mro[name]
	return m, ok
}

// IsClass reports whether name is a registered constant whose value is an
// ExternalInstance AND which carries an MRO. The registry does not track
// "class-ness" as a separate flag (spec section 4.2): this is computed on
// demand from the two facts it does track.
func (kb *KnowledgeBase) IsClass(name term.Symbol) bool {
	v, ok := kb.constants[name]
	if !ok {
		return false
	}
	if _, ok := v.Value.(term.ExternalInstance); !ok {
		return false
	}
	_, hasMRO := kb.mro[name]
	return hasMRO
}

// UnregisteredClassError is a structural ValidationError (spec section 7):
// a rule-type specializer names a class the host never registered. It
// aborts Phase A of validate_rules (spec 4.4).
type UnregisteredClassError struct {
	Term term.Term
}

func (e *UnregisteredClassError) Error() string {
	return fmt.Sprintf("%s is not a registered class", e.Term.String())
}
