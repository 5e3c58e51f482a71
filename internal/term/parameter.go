package term

// Parameter is one positional argument of a rule or rule type: the
// parameter term itself (a Variable or a literal value) plus an optional
// specializer restricting what it matches.
type Parameter struct {
	Parameter   Term
	Specializer *Term
}

// HasSpecializer reports whether the parameter carries a specializer.
func (p Parameter) HasSpecializer() bool {
	return p.Specializer != nil
}
