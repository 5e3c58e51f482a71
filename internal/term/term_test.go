package term

import "testing"

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal strings", StringValue("x"), StringValue("x"), true},
		{"different strings", StringValue("x"), StringValue("y"), false},
		{"equal integers", IntegerValue(1), IntegerValue(1), true},
		{"variable vs string never equal", Variable("x"), StringValue("x"), false},
		{"equal lists", ListValue{New(IntegerValue(1)), New(IntegerValue(2))}, ListValue{New(IntegerValue(1)), New(IntegerValue(2))}, true},
		{"lists differ by length", ListValue{New(IntegerValue(1))}, ListValue{New(IntegerValue(1)), New(IntegerValue(2))}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ValueEqual(c.a, c.b); got != c.want {
				t.Errorf("ValueEqual(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestDictionaryIsSupersetOf(t *testing.T) {
	full := DictionaryOf(
		DictEntry{Key: "color", Value: New(StringValue("orange"))},
		DictEntry{Key: "size", Value: New(IntegerValue(3))},
	)
	subset := DictionaryOf(DictEntry{Key: "color", Value: New(StringValue("orange"))})
	mismatched := DictionaryOf(DictEntry{Key: "color", Value: New(StringValue("purple"))})

	if !full.IsSupersetOf(subset) {
		t.Error("expected full to be a superset of subset")
	}
	if full.IsSupersetOf(mismatched) {
		t.Error("expected full not to be a superset of mismatched (value differs)")
	}
	if subset.IsSupersetOf(full) {
		t.Error("expected subset not to be a superset of full (missing key)")
	}
}

func TestDictionaryEqualIgnoresOrder(t *testing.T) {
	a := DictionaryOf(
		DictEntry{Key: "a", Value: New(IntegerValue(1))},
		DictEntry{Key: "b", Value: New(IntegerValue(2))},
	)
	b := DictionaryOf(
		DictEntry{Key: "b", Value: New(IntegerValue(2))},
		DictEntry{Key: "a", Value: New(IntegerValue(1))},
	)
	if !a.Equal(b) {
		t.Error("expected dictionaries with the same pairs in different order to be equal")
	}
}

func TestListContains(t *testing.T) {
	haystack := []Term{New(StringValue("a")), New(IntegerValue(1))}
	if !ListContains(haystack, New(IntegerValue(1))) {
		t.Error("expected haystack to contain IntegerValue(1)")
	}
	if ListContains(haystack, New(IntegerValue(2))) {
		t.Error("expected haystack not to contain IntegerValue(2)")
	}
}

func TestAsSymbolAndAsString(t *testing.T) {
	if sym, ok := AsSymbol(New(Variable("Orange"))); !ok || sym != "Orange" {
		t.Errorf("AsSymbol() = (%v, %v), want (Orange, true)", sym, ok)
	}
	if _, ok := AsSymbol(New(StringValue("Orange"))); ok {
		t.Error("AsSymbol() on a StringValue should fail")
	}
	if s, ok := AsString(New(StringValue("hi"))); !ok || s != "hi" {
		t.Errorf("AsString() = (%v, %v), want (hi, true)", s, ok)
	}
}

func TestIsUnion(t *testing.T) {
	if !IsUnion(Actor) || !IsUnion(Resource) {
		t.Error("Actor and Resource must be recognized unions")
	}
	if IsUnion("Orange") {
		t.Error("Orange must not be recognized as a union")
	}
}
