package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollationLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1", "2", true},
		{"2", "10", true},
		{"10", "2", false},
		{"-1", "1", true},
		{"1.5", "2", true},
		{"10", "x", true},  // numeric before non-numeric
		{"x", "10", false}, // non-numeric after numeric
		{"a", "b", true},
		{"b", "a", false},
		{"abc", "abd", true},
		{"1", "01", false}, // equal values fall back to lexicographic
		{"01", "1", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, collationLess(tt.a, tt.b), "collationLess(%q, %q)", tt.a, tt.b)
	}
}

func TestArrayKeysStaySorted(t *testing.T) {
	a := NewArray()
	for _, k := range []string{"x", "2", "y", "10", "1.5"} {
		a.Set(k, Empty)
	}
	assert.Equal(t, []string{"1.5", "2", "10", "x", "y"}, a.Keys())
}

func TestArraySetOverwriteKeepsSingleKey(t *testing.T) {
	a := NewArray()
	a.Set("k", &StringValue{Value: "1"})
	a.Set("k", &StringValue{Value: "2"})
	assert.Equal(t, 1, a.Len())
	v, ok := a.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "2", v.String())
}

func TestArrayNextPrevKey(t *testing.T) {
	a := NewArray()
	for _, k := range []string{"1", "2", "10"} {
		a.Set(k, Empty)
	}

	assert.Equal(t, "1", a.NextKey(""))
	assert.Equal(t, "2", a.NextKey("1"))
	assert.Equal(t, "10", a.NextKey("2"))
	assert.Equal(t, "", a.NextKey("10"))

	assert.Equal(t, "10", a.PrevKey(""))
	assert.Equal(t, "2", a.PrevKey("10"))
	assert.Equal(t, "1", a.PrevKey("2"))
	assert.Equal(t, "", a.PrevKey("1"))
}

func TestArrayNextKeyBetweenKeys(t *testing.T) {
	a := NewArray()
	a.Set("1", Empty)
	a.Set("10", Empty)
	// A key that is not present still orders the traversal.
	assert.Equal(t, "10", a.NextKey("5"))
	assert.Equal(t, "1", a.PrevKey("5"))
}

func TestArrayDelete(t *testing.T) {
	a := NewArray()
	for _, k := range []string{"1", "2", "3"} {
		a.Set(k, Empty)
	}
	a.Delete("2")
	assert.Equal(t, []string{"1", "3"}, a.Keys())
	assert.Equal(t, "3", a.NextKey("1"))

	a.Delete("missing") // no-op
	assert.Equal(t, 2, a.Len())
}

func TestArrayIterationVisitsEachKeyOnce(t *testing.T) {
	a := NewArray()
	keys := []string{"b", "3", "a", "1", "20"}
	for _, k := range keys {
		a.Set(k, Empty)
	}

	seen := map[string]int{}
	for k := a.NextKey(""); k != ""; k = a.NextKey(k) {
		seen[k]++
	}
	assert.Len(t, seen, len(keys))
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	// Reverse enumerates the same set.
	reverse := []string{}
	for k := a.PrevKey(""); k != ""; k = a.PrevKey(k) {
		reverse = append(reverse, k)
	}
	assert.Equal(t, []string{"b", "a", "20", "3", "1"}, reverse)
}

func TestArrayStringUsesSelfValue(t *testing.T) {
	a := NewArray()
	assert.Equal(t, "", a.String())
	a.Self = &NumberValue{Value: 7}
	assert.Equal(t, "7", a.String())
}
