// Package fixture decodes a YAML policy document into a populated
// KnowledgeBase. There is no Polar-text parser in this module (spec section
// 1 treats the parser as an external, unspecified collaborator, the same
// way it treats the undefined-call checker); fixture files describe rules,
// rule types, classes, and resource blocks directly as data so kbctl has a
// source to load without needing to reimplement Polar's grammar.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"polarkb/internal/kb"
	"polarkb/internal/term"
)

// Doc is the top-level shape of a fixture file.
type Doc struct {
	Filename       string         `yaml:"filename"`
	Classes        []ClassDoc     `yaml:"classes"`
	RuleTypes      []RuleDoc      `yaml:"rule_types"`
	Rules          []RuleDoc      `yaml:"rules"`
	ResourceBlocks ResourceBlocks `yaml:"resource_blocks"`
}

// ClassDoc registers a host class and its MRO by name; class() ancestors are
// resolved to instance ids in declaration order as classes are registered.
type ClassDoc struct {
	Name      string   `yaml:"name"`
	Ancestors []string `yaml:"ancestors"`
}

// RuleDoc describes a rule or rule-type head. Calls lists the rule bodies'
// predicate calls (name and arity only) so the undefined-call checker has
// something to walk; full body terms are out of scope for the fixture
// format.
type RuleDoc struct {
	Name     string     `yaml:"name"`
	Params   []ParamDoc `yaml:"params"`
	Required bool       `yaml:"required"`
	Calls    []CallDoc  `yaml:"calls"`
}

// CallDoc is one predicate call appearing in a rule's body.
type CallDoc struct {
	Name  string `yaml:"name"`
	Arity int    `yaml:"arity"`
}

// ParamDoc is one rule parameter: either a bound literal value or a
// variable, optionally restricted by a specializer.
type ParamDoc struct {
	Var         string          `yaml:"var"`
	Value       *ValueDoc       `yaml:"value"`
	Specializer *SpecializerDoc `yaml:"specializer"`
}

// ValueDoc is a literal value: exactly one field should be set.
type ValueDoc struct {
	Str  *string           `yaml:"str"`
	Int  *int64            `yaml:"int"`
	Bool *bool             `yaml:"bool"`
	Dict map[string]string `yaml:"dict"`
}

// SpecializerDoc is a parameter's type constraint.
type SpecializerDoc struct {
	Instance string            `yaml:"instance"`
	Fields   map[string]string `yaml:"fields"`
	Dict     map[string]string `yaml:"dict"`
}

// ResourceBlocks mirrors kb.ResourceBlocks as plain data.
type ResourceBlocks struct {
	Actors         []string       `yaml:"actors"`
	Resources      []string       `yaml:"resources"`
	Declarations   []DeclDoc      `yaml:"declarations"`
	ShorthandRules []ShorthandDoc `yaml:"shorthand_rules"`
}

// DeclDoc declares one role/permission/relation name on a resource.
type DeclDoc struct {
	Resource    string `yaml:"resource"`
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"` // "role", "permission", or "relation"
	RelatedType string `yaml:"related_type"`
}

// ShorthandDoc is one resource's shorthand rule, e.g. `"admin" if "owner" on
// "parent"`.
type ShorthandDoc struct {
	Resource   string  `yaml:"resource"`
	Head       string  `yaml:"head"`
	Implier    string  `yaml:"implier"`
	OnKeyword  string  `yaml:"on_keyword"`
	OnRelation *string `yaml:"on_relation"`
}

// Load reads path as YAML and populates kbase with its contents, returning
// the assigned source id.
func Load(path string, kbase *kb.KnowledgeBase) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	filename := doc.Filename
	if filename == "" {
		filename = path
	}
	sourceID, err := kbase.AddSource(kb.Source{Src: string(data), Filename: filename})
	if err != nil {
		return 0, err
	}

	registerClasses(kbase, doc.Classes)
	loadResourceBlocks(kbase, doc.ResourceBlocks)

	for _, rd := range doc.RuleTypes {
		rule, err := toRule(rd, sourceID)
		if err != nil {
			return sourceID, err
		}
		kbase.AddRuleType(rule)
	}
	for _, rd := range doc.Rules {
		rule, err := toRule(rd, sourceID)
		if err != nil {
			return sourceID, err
		}
		kbase.AddRule(rule)
	}

	return sourceID, nil
}

func registerClasses(kbase *kb.KnowledgeBase, classes []ClassDoc) {
	instanceID := make(map[string]uint64)
	for _, c := range classes {
		id := kbase.NewID()
		instanceID[c.Name] = id
		_ = kbase.RegisterConstant(term.Symbol(c.Name), term.New(term.ExternalInstance{InstanceID: id, ClassTag: term.Symbol(c.Name)}))
	}
	for _, c := range classes {
		mro := []uint64{instanceID[c.Name]}
		for _, ancestor := range c.Ancestors {
			if id, ok := instanceID[ancestor]; ok {
				mro = append(mro, id)
			}
		}
		_ = kbase.AddMRO(term.Symbol(c.Name), mro)
	}
}

func loadResourceBlocks(kbase *kb.KnowledgeBase, rbd ResourceBlocks) {
	rb := kbase.ResourceBlocks()
	for _, a := range rbd.Actors {
		rb.AddActor(term.Symbol(a))
	}
	for _, r := range rbd.Resources {
		rb.AddResource(term.Symbol(r))
	}
	for _, d := range rbd.Declarations {
		rb.Declare(term.Symbol(d.Resource), d.Name, declKind(d.Kind), term.Symbol(d.RelatedType))
	}
	for _, s := range rbd.ShorthandRules {
		rule := kb.ShorthandRule{
			Head:    term.New(term.StringValue(s.Head)),
			Implier: term.New(term.StringValue(s.Implier)),
		}
		if s.OnRelation != nil {
			rule.Related = &kb.RelatedRef{
				Keyword:  s.OnKeyword,
				Relation: term.New(term.StringValue(*s.OnRelation)),
			}
		}
		rb.AddShorthandRule(term.Symbol(s.Resource), rule)
	}
}

func declKind(s string) kb.DeclKind {
	switch s {
	case "role":
		return kb.DeclRole
	case "relation":
		return kb.DeclRelation
	default:
		return kb.DeclPermission
	}
}

func toRule(rd RuleDoc, sourceID uint64) (kb.Rule, error) {
	params := make([]term.Parameter, 0, len(rd.Params))
	for _, pd := range rd.Params {
		p, err := toParameter(pd)
		if err != nil {
			return kb.Rule{}, fmt.Errorf("rule %s: %w", rd.Name, err)
		}
		params = append(params, p)
	}

	var operands []term.Term
	for _, c := range rd.Calls {
		args := make([]term.Term, c.Arity)
		for i := range args {
			args[i] = term.New(term.Variable(fmt.Sprintf("_arg%d", i)))
		}
		operands = append(operands, term.New(term.Call{Name: term.Symbol(c.Name), Args: args}))
	}
	var body term.Term
	if len(operands) == 1 {
		body = operands[0]
	} else if len(operands) > 1 {
		body = term.New(term.Expression{Operator: "and", Operands: operands})
	}

	return kb.Rule{
		Name:     term.Symbol(rd.Name),
		Params:   params,
		Body:     body,
		SourceID: sourceID,
		Required: rd.Required,
	}, nil
}

func toParameter(pd ParamDoc) (term.Parameter, error) {
	var paramTerm term.Term
	switch {
	case pd.Value != nil:
		v, err := toValue(*pd.Value)
		if err != nil {
			return term.Parameter{}, err
		}
		paramTerm = term.New(v)
	case pd.Var != "":
		paramTerm = term.New(term.Variable(pd.Var))
	default:
		return term.Parameter{}, fmt.Errorf("parameter has neither var nor value")
	}

	p := term.Parameter{Parameter: paramTerm}
	if pd.Specializer != nil {
		spec, err := toSpecializer(*pd.Specializer)
		if err != nil {
			return term.Parameter{}, err
		}
		p.Specializer = &spec
	}
	return p, nil
}

func toValue(vd ValueDoc) (term.Value, error) {
	switch {
	case vd.Str != nil:
		return term.StringValue(*vd.Str), nil
	case vd.Int != nil:
		return term.IntegerValue(*vd.Int), nil
	case vd.Bool != nil:
		return term.BooleanValue(*vd.Bool), nil
	case vd.Dict != nil:
		return term.DictionaryValue{Dict: stringMapToDict(vd.Dict)}, nil
	default:
		return nil, fmt.Errorf("empty value")
	}
}

func toSpecializer(sd SpecializerDoc) (term.Term, error) {
	if sd.Instance != "" {
		return term.New(term.PatternValue{Pattern: term.InstanceLiteral{
			Tag:    term.Symbol(sd.Instance),
			Fields: stringMapToDict(sd.Fields),
		}}), nil
	}
	return term.New(term.PatternValue{Pattern: term.DictionaryPattern{Fields: stringMapToDict(sd.Dict)}}), nil
}

func stringMapToDict(m map[string]string) term.Dictionary {
	d := term.NewDictionary()
	for k, v := range m {
		d.Set(term.Symbol(k), term.New(term.StringValue(v)))
	}
	return d
}
