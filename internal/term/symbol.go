// Package term implements the policy language's value model: interned
// symbols, tagged terms, patterns, and the ordered dictionaries that back
// both of them.
package term

// Symbol is an interned identifier. Equality is by name, which a Go string
// gives us for free.
type Symbol string

// Reserved union tags. Neither can be registered as a constant (kb invariant
// 4); they are the only names get_union_members understands.
const (
	Actor    Symbol = "Actor"
	Resource Symbol = "Resource"
)

// IsUnion reports whether sym is one of the two built-in union tags.
func IsUnion(sym Symbol) bool {
	return sym == Actor || sym == Resource
}

// Built-in specializer tags recognized when synthesizing a pattern from a
// plain value (spec 4.4.1).
const (
	TagString     Symbol = "String"
	TagInteger    Symbol = "Integer"
	TagFloat      Symbol = "Float"
	TagBoolean    Symbol = "Boolean"
	TagList       Symbol = "List"
	TagDictionary Symbol = "Dictionary"
)
