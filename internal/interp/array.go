package interp

import "sort"

// ArrayValue is an array node: an optional scalar self-value plus an ordered
// mapping from string key to child value. The empty-string key is excluded.
//
// Children are held in a hash map for O(1) lookup alongside a key slice kept
// sorted in collation order, so ordered traversal in either direction is
// O(log n) per step. Keys collate numeric-first: strings that are complete
// numbers order by numeric value ahead of all other strings, which order
// lexicographically by code point.
type ArrayValue struct {
	Self     Value // optional scalar self-value, nil when absent
	children map[string]Value
	keys     []string // sorted by collationLess
}

// NewArray creates an empty array node.
func NewArray() *ArrayValue {
	return &ArrayValue{children: make(map[string]Value)}
}

// Type returns "ARRAY".
func (a *ArrayValue) Type() string {
	return "ARRAY"
}

// String returns the string form of the node's self-value, or "".
func (a *ArrayValue) String() string {
	if a.Self != nil {
		return a.Self.String()
	}
	return ""
}

// Get returns the child stored under key.
func (a *ArrayValue) Get(key string) (Value, bool) {
	v, ok := a.children[key]
	return v, ok
}

// Set stores a child under key, keeping the key slice ordered.
func (a *ArrayValue) Set(key string, v Value) {
	if _, exists := a.children[key]; !exists {
		idx := sort.Search(len(a.keys), func(i int) bool {
			return !collationLess(a.keys[i], key)
		})
		a.keys = append(a.keys, "")
		copy(a.keys[idx+1:], a.keys[idx:])
		a.keys[idx] = key
	}
	a.children[key] = v
}

// Delete removes the child under key along with its entire subtree.
func (a *ArrayValue) Delete(key string) {
	if _, exists := a.children[key]; !exists {
		return
	}
	delete(a.children, key)
	idx := a.search(key)
	a.keys = append(a.keys[:idx], a.keys[idx+1:]...)
}

// Len returns the number of children.
func (a *ArrayValue) Len() int {
	return len(a.children)
}

// Keys returns the child keys in collation order. The returned slice is the
// node's own; callers must not modify it.
func (a *ArrayValue) Keys() []string {
	return a.keys
}

// NextKey returns the first child key after the given one in collation
// order. The empty string means "before the first key"; the empty string is
// returned past the last key.
func (a *ArrayValue) NextKey(after string) string {
	if after == "" {
		if len(a.keys) == 0 {
			return ""
		}
		return a.keys[0]
	}
	idx := sort.Search(len(a.keys), func(i int) bool {
		return collationLess(after, a.keys[i])
	})
	if idx >= len(a.keys) {
		return ""
	}
	return a.keys[idx]
}

// PrevKey returns the last child key before the given one in collation
// order. The empty string means "after the last key"; the empty string is
// returned before the first key.
func (a *ArrayValue) PrevKey(before string) string {
	if before == "" {
		if len(a.keys) == 0 {
			return ""
		}
		return a.keys[len(a.keys)-1]
	}
	idx := sort.Search(len(a.keys), func(i int) bool {
		return !collationLess(a.keys[i], before)
	})
	if idx == 0 {
		return ""
	}
	return a.keys[idx-1]
}

// search returns the index of key in the sorted key slice.
func (a *ArrayValue) search(key string) int {
	return sort.Search(len(a.keys), func(i int) bool {
		return !collationLess(a.keys[i], key)
	})
}

// collationLess orders keys by the M collation order: numeric strings
// precede non-numeric strings and order by numeric value; non-numeric
// strings order lexicographically by code point. Distinct keys with equal
// numeric value (e.g. "1" and "01") fall back to lexicographic order.
func collationLess(a, b string) bool {
	aNum, aOK := parseCanonicalNumber(a)
	bNum, bOK := parseCanonicalNumber(b)

	switch {
	case aOK && bOK:
		if aNum != bNum {
			return aNum < bNum
		}
		return a < b
	case aOK:
		return true
	case bOK:
		return false
	default:
		return a < b
	}
}
