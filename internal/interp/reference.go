package interp

import (
	"fmt"

	"github.com/Zorbn/mscript/pkg/ast"
)

// maxRefDepth bounds indirect-reference chains during name resolution. No
// cycle can be built from the language surface, but a bounded walk turns a
// malformed chain into a diagnostic instead of a hang.
const maxRefDepth = 64

// reference is a short-lived l-value handle: either an environment slot
// (frame index + name) or one keyed slot of an array node. References are
// computed, used immediately, and discarded; they are never stored across
// commands because the containers they point into may be reshaped.
type reference struct {
	// array variant
	arr *ArrayValue
	key string

	// environment variant (used when arr is nil)
	frame int
	name  string
}

// get reads the referenced slot.
func (i *Interp) refGet(r *reference) (Value, bool) {
	if r.arr != nil {
		return r.arr.Get(r.key)
	}
	return i.envs[r.frame].Get(r.name)
}

// set writes the referenced slot. Writing a scalar over an existing array
// node stores it as the node's self-value, preserving the subtree.
func (i *Interp) refSet(r *reference, v Value) {
	if cur, ok := i.refGet(r); ok {
		if node, isArr := cur.(*ArrayValue); isArr {
			if _, vIsArr := v.(*ArrayValue); !vIsArr {
				node.Self = v
				return
			}
		}
	}
	if r.arr != nil {
		r.arr.Set(r.key, v)
		return
	}
	i.envs[r.frame].Set(r.name, v)
}

// delete removes the referenced slot, including any subtree under it.
func (i *Interp) refDelete(r *reference) {
	if r.arr != nil {
		r.arr.Delete(r.key)
		return
	}
	i.envs[r.frame].Delete(r.name)
}

// resolveName resolves an identifier to an environment slot. The stack is
// scanned from the top down; the first frame that binds the name wins, and
// an unbound name addresses the global frame. Indirect references stored in
// the slot are followed.
func (i *Interp) resolveName(name string, pos positioned) (*reference, bool) {
	frame := 0
	for f := len(i.envs) - 1; f >= 0; f-- {
		if i.envs[f].Has(name) {
			frame = f
			break
		}
	}

	for depth := 0; ; depth++ {
		if depth > maxRefDepth {
			i.runtimeError(pos, fmt.Sprintf("Too many levels of indirection resolving %q", name))
			return nil, false
		}
		v, ok := i.envs[frame].Get(name)
		if !ok {
			break
		}
		ref, isRef := v.(*RefValue)
		if !isRef {
			break
		}
		frame, name = ref.Frame, ref.Name
	}

	return &reference{arr: nil, frame: frame, name: name}, true
}

// resolveVariable resolves a possibly subscripted variable to a reference.
//
// With canCreate set, missing intermediate levels are created and scalar
// intermediates are promoted to array nodes that keep the scalar as their
// self-value, so the returned reference always resolves. Without it, a
// missing or scalar intermediate yields a nil reference (reads from missing
// slots produce ""). The second result is false only when a diagnostic was
// reported.
func (i *Interp) resolveVariable(v *ast.VariableExpression, canCreate bool) (*reference, bool) {
	ref, ok := i.resolveName(v.Name, v)
	if !ok {
		return nil, false
	}

	for _, sub := range v.Subscripts {
		subVal, ok := i.evalExpression(sub)
		if !ok {
			return nil, false
		}
		key := ToString(subVal)
		if key == "" {
			i.runtimeError(v, "Empty subscript")
			return nil, false
		}

		node, ok := i.descend(ref, canCreate)
		if !ok {
			return nil, true // missing; reads yield ""
		}
		ref = &reference{arr: node, key: key}
	}

	return ref, true
}

// descend obtains the array node at ref, creating or promoting when
// canCreate is set.
func (i *Interp) descend(ref *reference, canCreate bool) (*ArrayValue, bool) {
	cur, exists := i.refGet(ref)

	if exists {
		if node, isArr := cur.(*ArrayValue); isArr {
			return node, true
		}
		if !canCreate {
			return nil, false
		}
		// Promote the scalar: it becomes the new node's self-value.
		node := NewArray()
		node.Self = cur
		i.rawSet(ref, node)
		return node, true
	}

	if !canCreate {
		return nil, false
	}
	node := NewArray()
	i.rawSet(ref, node)
	return node, true
}

// rawSet replaces the referenced slot outright, without the self-value
// preservation refSet applies.
func (i *Interp) rawSet(r *reference, v Value) {
	if r.arr != nil {
		r.arr.Set(r.key, v)
		return
	}
	i.envs[r.frame].Set(r.name, v)
}

// resolveFrame returns the index of the topmost frame binding name,
// following indirect references. Used to build by-reference call arguments,
// which require the name to exist; a diagnostic is reported otherwise.
func (i *Interp) resolveFrame(name string, pos positioned) (int, string, bool) {
	frame := -1
	for f := len(i.envs) - 1; f >= 0; f-- {
		if i.envs[f].Has(name) {
			frame = f
			break
		}
	}
	if frame < 0 {
		i.runtimeError(pos, fmt.Sprintf("Cannot reference non-existent variable %q", name))
		return 0, "", false
	}

	for depth := 0; ; depth++ {
		if depth > maxRefDepth {
			i.runtimeError(pos, fmt.Sprintf("Too many levels of indirection resolving %q", name))
			return 0, "", false
		}
		v, ok := i.envs[frame].Get(name)
		if !ok {
			break
		}
		ref, isRef := v.(*RefValue)
		if !isRef {
			break
		}
		frame, name = ref.Frame, ref.Name
	}
	return frame, name, true
}
