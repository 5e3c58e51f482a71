package term

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Dictionary is an ordered Symbol -> Term mapping. Key order is preserved
// for stable printing but is not semantically significant for matching
// (spec section 3): equality and subset checks below never consult order.
type Dictionary struct {
	pairs *orderedmap.OrderedMap[Symbol, Term]
}

// NewDictionary returns an empty ordered dictionary.
func NewDictionary() Dictionary {
	return Dictionary{pairs: orderedmap.New[Symbol, Term]()}
}

// DictionaryOf builds a dictionary from key/value pairs in the given order.
func DictionaryOf(entries ...DictEntry) Dictionary {
	d := NewDictionary()
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// DictEntry is a single Symbol/Term pair, used to build dictionaries with a
// fixed iteration order.
type DictEntry struct {
	Key   Symbol
	Value Term
}

func (d Dictionary) ensure() *orderedmap.OrderedMap[Symbol, Term] {
	if d.pairs == nil {
		return orderedmap.New[Symbol, Term]()
	}
	return d.pairs
}

// Set inserts or overwrites the value for key, preserving first-insertion
// order for existing keys.
func (d *Dictionary) Set(key Symbol, value Term) {
	if d.pairs == nil {
		d.pairs = orderedmap.New[Symbol, Term]()
	}
	d.pairs.Set(key, value)
}

// Get returns the value for key and whether it was present.
func (d Dictionary) Get(key Symbol) (Term, bool) {
	return d.ensure().Get(key)
}

// Len returns the number of entries.
func (d Dictionary) Len() int {
	if d.pairs == nil {
		return 0
	}
	return d.pairs.Len()
}

// Keys returns the keys in insertion order.
func (d Dictionary) Keys() []Symbol {
	keys := make([]Symbol, 0, d.Len())
	for pair := d.ensure().Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// IsSupersetOf reports whether d contains every key of other with an equal
// value (spec 4.4.5, param_fields_match). Extra keys in d are allowed.
func (d Dictionary) IsSupersetOf(other Dictionary) bool {
	for pair := other.ensure().Oldest(); pair != nil; pair = pair.Next() {
		v, ok := d.Get(pair.Key)
		if !ok || !Equal(v, pair.Value) {
			return false
		}
	}
	return true
}

// Equal reports whether d and other contain exactly the same key/value
// pairs, ignoring order.
func (d Dictionary) Equal(other Dictionary) bool {
	return d.Len() == other.Len() && d.IsSupersetOf(other)
}
