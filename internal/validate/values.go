package validate

import "polarkb/internal/term"

// checkValueParam implements check_value_param (spec 4.4.4): comparing a
// rule's bare value against a rule type's bare value when neither side
// carries a Pattern specializer.
func checkValueParam(i int, rv, tv term.Value) (paramResult, error) {
	switch tvv := tv.(type) {
	case term.ListValue:
		rvv, isList := rv.(term.ListValue)
		if !isList {
			return fail("Parameter %d expected a list, got %s", i, term.New(rv).String()), nil
		}
		for _, elem := range tvv {
			if _, isRest := elem.Value.(term.RestVariable); isRest {
				return paramResult{}, &InvalidRuleTypeErrorRest{Param: i}
			}
		}
		for _, elem := range tvv {
			if !term.ListContains([]term.Term(rvv), elem) {
				return fail("Parameter %d: rule list %s is missing rule type element %s", i, term.New(rv).String(), elem.String()), nil
			}
		}
		return ok, nil

	case term.DictionaryValue:
		rvv, isDict := rv.(term.DictionaryValue)
		if !isDict {
			return fail("Rule type expected Dictionary, got %s", term.New(rv).String()), nil
		}
		if rvv.Dict.IsSupersetOf(tvv.Dict) {
			return ok, nil
		}
		return fail("Parameter %d fields %s do not match rule type fields %s", i, term.New(rv).String(), term.New(tv).String()), nil

	default:
		if term.ValueEqual(rv, tv) {
			return ok, nil
		}
		return fail("Parameter %d: %s does not match rule type value %s", i, term.New(rv).String(), term.New(tv).String()), nil
	}
}

// InvalidRuleTypeErrorRest reports a rule type whose list parameter
// contains a *rest variable (spec 4.4.4); it is a structural error that
// aborts Phase A.
type InvalidRuleTypeErrorRest struct {
	Param int
}

func (e *InvalidRuleTypeErrorRest) Error() string {
	return "Rule types cannot contain *rest variables."
}
