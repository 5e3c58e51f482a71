package validate

import (
	"fmt"

	"polarkb/internal/kb"
	"polarkb/internal/term"
)

// paramResult is the outcome of a single parameter check: ok and, when ok
// is false, the reason. A non-nil err is a structural error that aborts
// Phase A entirely (spec 4.4).
type paramResult struct {
	ok  bool
	msg string
}

func fail(format string, args ...interface{}) paramResult {
	return paramResult{ok: false, msg: fmt.Sprintf(format, args...)}
}

var ok = paramResult{ok: true}

// checkParam implements check_param (spec 4.4.1): the per-parameter match
// between a rule's parameter (ruleParam, 1-indexed as i) and its rule
// type's corresponding parameter (typeParam).
func checkParam(kbase *kb.KnowledgeBase, rb *kb.ResourceBlocks, i int, ruleParam, typeParam term.Parameter) (paramResult, error) {
	typeValue, typeHasValue := effectiveValue(typeParam)
	typePattern, typeHasPattern := effectiveSpecializerPattern(typeParam)

	switch {
	case typeHasPattern:
		return checkAgainstTypePattern(kbase, rb, i, ruleParam, typePattern)
	case typeHasValue:
		return checkAgainstTypeValue(i, ruleParam, typeValue, typeParam)
	default:
		// No effective constraint on the rule-type side: any rule param
		// matches (spec table row "no spec | anything | True").
		return ok, nil
	}
}

// effectiveSpecializerPattern returns the Pattern a parameter's specializer
// carries, if its specializer (not its bare parameter term) is a Pattern.
func effectiveSpecializerPattern(p term.Parameter) (term.Pattern, bool) {
	if !p.HasSpecializer() {
		return nil, false
	}
	pv, ok := p.Specializer.Value.(term.PatternValue)
	if !ok {
		return nil, false
	}
	return pv.Pattern, true
}

// effectiveValue returns the literal Value a parameter contributes when it
// carries no Pattern specializer: either its specializer (if that is
// itself a plain Value) or its bare parameter term (if that is a literal
// Value rather than a Variable).
func effectiveValue(p term.Parameter) (term.Value, bool) {
	if p.HasSpecializer() {
		if _, isPattern := p.Specializer.Value.(term.PatternValue); isPattern {
			return nil, false
		}
		return p.Specializer.Value, true
	}
	if _, isVar := p.Parameter.Value.(term.Variable); isVar {
		return nil, false
	}
	return p.Parameter.Value, true
}

func checkAgainstTypePattern(kbase *kb.KnowledgeBase, rb *kb.ResourceBlocks, i int, ruleParam term.Parameter, typePattern term.Pattern) (paramResult, error) {
	if rulePattern, has := effectiveSpecializerPattern(ruleParam); has {
		return checkPatternParam(kbase, rb, i, rulePattern, typePattern)
	}
	if v, has := effectiveValue(ruleParam); has {
		synthesized, err := synthesizePattern(v)
		if err != nil {
			return fail("parameter %d: %s", i, err), nil
		}
		return checkPatternParam(kbase, rb, i, synthesized, typePattern)
	}
	// Rule side is a bare, unconstrained Variable: no specializer to check.
	if inst, isInstance := typePattern.(term.InstanceLiteral); isInstance {
		v, _ := term.AsSymbol(ruleParam.Parameter)
		return fail("Parameter `%s` expects a %s type constraint.\n\n\t%s: %s", v, inst.Tag, v, inst.Tag), nil
	}
	return fail("Invalid rule parameter %d. Rule type expected %s", i, patternString(typePattern)), nil
}

func checkAgainstTypeValue(i int, ruleParam term.Parameter, typeValue term.Value, typeParam term.Parameter) (paramResult, error) {
	if v, has := effectiveValue(ruleParam); has {
		return checkValueParam(i, v, typeValue)
	}
	if _, has := effectiveSpecializerPattern(ruleParam); has {
		return fail("Invalid rule parameter %d. Rule type expected %s", i, typeParam.Parameter.String()), nil
	}
	return fail("Invalid rule parameter %d. Rule type expected %s", i, typeParam.Parameter.String()), nil
}

// patternString renders a pattern for error messages without importing
// term's unexported helpers.
func patternString(p term.Pattern) string {
	return term.New(term.PatternValue{Pattern: p}).String()
}

// synthesizePattern builds the Pattern implied by a plain value, used when
// the rule side supplies a literal instead of an explicit specializer
// (spec 4.4.1).
func synthesizePattern(v term.Value) (term.Pattern, error) {
	switch vv := v.(type) {
	case term.StringValue:
		return term.InstanceLiteral{Tag: term.TagString, Fields: term.NewDictionary()}, nil
	case term.IntegerValue:
		return term.InstanceLiteral{Tag: term.TagInteger, Fields: term.NewDictionary()}, nil
	case term.FloatValue:
		return term.InstanceLiteral{Tag: term.TagFloat, Fields: term.NewDictionary()}, nil
	case term.BooleanValue:
		return term.InstanceLiteral{Tag: term.TagBoolean, Fields: term.NewDictionary()}, nil
	case term.ListValue:
		return term.InstanceLiteral{Tag: term.TagList, Fields: term.NewDictionary()}, nil
	case term.DictionaryValue:
		return term.DictionaryPattern{Fields: vv.Dict}, nil
	default:
		return nil, fmt.Errorf("value variant %T cannot be a specializer", v)
	}
}

// checkPatternParam implements check_pattern_param (spec 4.4.2).
func checkPatternParam(kbase *kb.KnowledgeBase, rb *kb.ResourceBlocks, i int, rulePattern, typePattern term.Pattern) (paramResult, error) {
	switch tp := typePattern.(type) {
	case term.InstanceLiteral:
		rp, isInstance := rulePattern.(term.InstanceLiteral)
		if !isInstance {
			return fail("Rule specializer %s on parameter %d does not match rule type specializer %s", patternString(rulePattern), i, patternString(typePattern)), nil
		}

		if rp.Tag == tp.Tag {
			return fieldsResult(i, tp.Fields, rp.Fields), nil
		}

		if term.IsUnion(tp.Tag) {
			return checkUnionMember(kbase, rb, i, rp, tp)
		}

		// Distinct, non-union tags: the rule specializer must be a
		// registered subclass of the rule type's class, by MRO.
		return subclassCheck(kbase, i, rp, tp)

	case term.DictionaryPattern:
		switch rp := rulePattern.(type) {
		case term.DictionaryPattern:
			return fieldsResult(i, tp.Fields, rp.Fields), nil
		case term.InstanceLiteral:
			return fieldsResult(i, tp.Fields, rp.Fields), nil
		default:
			return fail("Rule type expected Dictionary, got %s", patternString(rulePattern)), nil
		}
	}
	return fail("Rule specializer %s on parameter %d does not match rule type specializer %s", patternString(rulePattern), i, patternString(typePattern)), nil
}

// fieldsResult wraps param_fields_match (spec 4.4.5) as a paramResult.
func fieldsResult(i int, typeFields, ruleFields term.Dictionary) paramResult {
	if ruleFields.IsSupersetOf(typeFields) {
		return ok
	}
	return fail("Parameter %d fields %s do not match rule type fields %s", i, dictString(ruleFields), dictString(typeFields))
}

func dictString(d term.Dictionary) string {
	return patternString(term.DictionaryPattern{Fields: d})
}

// checkUnionMember implements the Actor/Resource union branch of
// check_pattern_param (spec 4.4.2): if the rule's tag is itself a union,
// only an exact match succeeds; otherwise the tag must be (possibly via
// MRO) a member of the union.
func checkUnionMember(kbase *kb.KnowledgeBase, rb *kb.ResourceBlocks, i int, rp term.InstanceLiteral, tp term.InstanceLiteral) (paramResult, error) {
	if term.IsUnion(rp.Tag) {
		if rp.Tag != tp.Tag {
			return fail("Rule specializer %s on parameter %d must be a member of rule type specializer %s", rp.Tag, i, tp.Tag), nil
		}
		return fieldsResult(i, tp.Fields, rp.Fields), nil
	}

	members := unionMembers(rb, tp.Tag)
	if !containsSymbol(members, rp.Tag) {
		matched := false
		for _, m := range members {
			synthesized := term.InstanceLiteral{Tag: m, Fields: tp.Fields}
			res, err := checkRuleInstanceIsSubclass(kbase, i, rp, synthesized)
			if err != nil {
				return paramResult{}, err
			}
			if res.ok {
				matched = true
				break
			}
		}
		if !matched {
			hint := unionHint(tp.Tag)
			msg := fmt.Sprintf("Rule specializer %s on parameter %d must be a member of rule type specializer %s", rp.Tag, i, tp.Tag)
			if hint != "" {
				msg += fmt.Sprintf(" (e.g. %s)", hint)
			}
			return fail("%s", msg), nil
		}
	}

	return fieldsResult(i, tp.Fields, rp.Fields), nil
}

func unionMembers(rb *kb.ResourceBlocks, union term.Symbol) []term.Symbol {
	switch union {
	case term.Actor:
		return rb.Actors()
	case term.Resource:
		return rb.Resources()
	default:
		return nil
	}
}

func containsSymbol(list []term.Symbol, sym term.Symbol) bool {
	for _, s := range list {
		if s == sym {
			return true
		}
	}
	return false
}

// subclassCheck and checkRuleInstanceIsSubclass both implement
// check_rule_instance_is_subclass_of_rule_type_instance (spec 4.4.3); the
// former is the entry point used for a plain distinct-tag comparison, the
// latter is reused by the union branch above where fields are not
// re-checked by the caller (fieldsResult is applied by checkUnionMember
// once membership itself succeeds).
func subclassCheck(kbase *kb.KnowledgeBase, i int, rp, tp term.InstanceLiteral) (paramResult, error) {
	res, err := checkRuleInstanceIsSubclass(kbase, i, rp, tp)
	if err != nil || !res.ok {
		return res, err
	}
	return fieldsResult(i, tp.Fields, rp.Fields), nil
}

func checkRuleInstanceIsSubclass(kbase *kb.KnowledgeBase, i int, rp, tp term.InstanceLiteral) (paramResult, error) {
	classValue, err := kbase.GetRegisteredClass(term.New(term.Variable(tp.Tag)))
	if err != nil {
		return paramResult{}, err
	}
	instance, isInstance := classValue.Value.(term.ExternalInstance)
	if !isInstance {
		return fail("Rule type specializer %s should be a registered class, but instead it's registered as a constant with value: %s", tp.Tag, classValue.String()), nil
	}

	mro, hasMRO := kbase.MRO(rp.Tag)
	if !hasMRO {
		return fail("Rule specializer %s on parameter %d is not registered as a class.", rp.Tag, i), nil
	}
	if !containsID(mro, instance.InstanceID) {
		return fail("Rule specializer %s must match rule type specializer %s", rp.Tag, tp.Tag), nil
	}
	return ok, nil
}

func containsID(list []uint64, id uint64) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
