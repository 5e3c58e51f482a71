package kb

import (
	"sort"

	"polarkb/internal/term"
)

// DeclKind classifies a name declared inside a resource block.
type DeclKind int

const (
	DeclRole DeclKind = iota
	DeclPermission
	DeclRelation
)

// Declaration is one role/permission/relation declared on a resource.
// RelatedType is only meaningful for DeclRelation: the class or union the
// relation's subject must belong to.
type Declaration struct {
	Kind        DeclKind
	RelatedType term.Symbol
}

// RelatedRef is the optional `on <relation>` clause of a shorthand rule's
// body: `"admin" if "owner" on "parent"`.
type RelatedRef struct {
	Keyword  string
	Relation term.Term
}

// ShorthandRule is a compact role/permission-implication form inside a
// resource block (spec section 3).
type ShorthandRule struct {
	Head    term.Term // role or permission name, a StringValue term
	Implier term.Term // the implying role/permission/relation name
	Related *RelatedRef
}

// ResourceBlocks holds every resource-block declaration parsed from the
// policy: the actor/resource unions and each resource's roles,
// permissions, relations, and shorthand rules.
type ResourceBlocks struct {
	actors    *symbolSet
	resources *symbolSet
	// declarations[resource][name] is the declared kind for name on resource.
	declarations map[term.Symbol]map[string]Declaration
	// shorthandRules[resource] is that resource's shorthand rules, in
	// declaration order.
	shorthandRules map[term.Symbol][]ShorthandRule
	// resourceOrder preserves first-declaration order across the two maps
	// above, for deterministic elaboration.
	resourceOrder []term.Symbol
}

func newResourceBlocks() *ResourceBlocks {
	return &ResourceBlocks{
		actors:         newSymbolSet(),
		resources:      newSymbolSet(),
		declarations:   make(map[term.Symbol]map[string]Declaration),
		shorthandRules: make(map[term.Symbol][]ShorthandRule),
	}
}

func (rb *ResourceBlocks) reset() {
	*rb = *newResourceBlocks()
}

// AddActor registers sym as a member of the Actor union.
func (rb *ResourceBlocks) AddActor(sym term.Symbol) {
	rb.actors.add(sym)
}

// AddResource registers sym as a member of the Resource union.
func (rb *ResourceBlocks) AddResource(sym term.Symbol) {
	rb.resources.add(sym)
}

// Actors returns the Actor union's members in declaration order.
func (rb *ResourceBlocks) Actors() []term.Symbol { return rb.actors.members() }

// Resources returns the Resource union's members in declaration order.
func (rb *ResourceBlocks) Resources() []term.Symbol { return rb.resources.members() }

func (rb *ResourceBlocks) ensureResource(resource term.Symbol) {
	if _, ok := rb.declarations[resource]; !ok {
		rb.declarations[resource] = make(map[string]Declaration)
		rb.resourceOrder = append(rb.resourceOrder, resource)
	}
}

// Declare records that name is a role/permission/relation of the given kind
// on resource. For DeclRelation, relatedType names the subject's class or
// union.
func (rb *ResourceBlocks) Declare(resource term.Symbol, name string, kind DeclKind, relatedType term.Symbol) {
	rb.ensureResource(resource)
	rb.declarations[resource][name] = Declaration{Kind: kind, RelatedType: relatedType}
}

// Declarations returns the role/permission/relation declarations on
// resource.
func (rb *ResourceBlocks) Declarations(resource term.Symbol) map[string]Declaration {
	return rb.declarations[resource]
}

// DeclaredResources returns every resource with at least one declaration,
// in first-declaration order. Distinct from Resources(), which is the
// Resource union's membership list.
func (rb *ResourceBlocks) DeclaredResources() []term.Symbol {
	return append([]term.Symbol(nil), rb.resourceOrder...)
}

// AddShorthandRule appends rule to resource's shorthand rule list.
func (rb *ResourceBlocks) AddShorthandRule(resource term.Symbol, rule ShorthandRule) {
	rb.ensureResource(resource)
	rb.shorthandRules[resource] = append(rb.shorthandRules[resource], rule)
}

// ShorthandRules returns resource's shorthand rules in declaration order.
func (rb *ResourceBlocks) ShorthandRules(resource term.Symbol) []ShorthandRule {
	return rb.shorthandRules[resource]
}

// HasAnyRole reports whether any resource block declares a DeclRole name,
// used to decide whether has_role must be synthesized (spec 4.5 step 4).
func (rb *ResourceBlocks) HasAnyRole() bool {
	for _, resource := range rb.resourceOrder {
		for _, decl := range rb.declarations[resource] {
			if decl.Kind == DeclRole {
				return true
			}
		}
	}
	return false
}

// RelationTuple is one (subject, relation, object) triple implied by a
// resource's declared relations.
type RelationTuple struct {
	Subject  term.Symbol
	Relation string
	Object   term.Symbol
}

// RelationTuples returns every (subject, relation, object) triple from
// declared DeclRelation entries across all resources (spec 4.5 step 1):
// resources in first-declaration order, relations within one resource in
// name order.
func (rb *ResourceBlocks) RelationTuples() []RelationTuple {
	var out []RelationTuple
	for _, object := range rb.resourceOrder {
		decls := rb.declarations[object]
		names := make([]string, 0, len(decls))
		for name := range decls {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			decl := decls[name]
			if decl.Kind != DeclRelation {
				continue
			}
			out = append(out, RelationTuple{Subject: decl.RelatedType, Relation: name, Object: object})
		}
	}
	return out
}

// RelationType resolves relation as a DeclRelation name on object, returning
// its subject type (spec's get_relation_type_in_resource_block).
func (rb *ResourceBlocks) RelationType(relation string, object term.Symbol) (term.Symbol, bool) {
	decl, ok := rb.declarations[object][relation]
	if !ok || decl.Kind != DeclRelation {
		return "", false
	}
	return decl.RelatedType, true
}

// symbolSet is an insertion-ordered set of symbols.
type symbolSet struct {
	order []term.Symbol
	seen  map[term.Symbol]struct{}
}

func newSymbolSet() *symbolSet {
	return &symbolSet{seen: make(map[term.Symbol]struct{})}
}

func (s *symbolSet) add(sym term.Symbol) {
	if _, ok := s.seen[sym]; ok {
		return
	}
	s.seen[sym] = struct{}{}
	s.order = append(s.order, sym)
}

func (s *symbolSet) contains(sym term.Symbol) bool {
	_, ok := s.seen[sym]
	return ok
}

func (s *symbolSet) members() []term.Symbol {
	return append([]term.Symbol(nil), s.order...)
}
