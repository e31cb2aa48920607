package eval

import (
	"github.com/dolthub/swiss"

	"github.com/waifu-lang/waifu/lang/values"
)

// Frame is one link in the environment's frame chain: an ordered list of
// value slots plus an optional parent. The resolver computes, for every
// variable reference, how many parents to skip (depth) and which slot to
// read or write within the frame reached — Frame itself never looks a name
// up to satisfy a resolved reference, matching the spec's environment model
// (4.5): "Identifier-to-slot translation is performed by the resolver."
//
// Grounded on the teacher's lang/machine/frame.go in spirit only — the
// teacher's Frame records a bytecode call's callable and program counter,
// since nenuphar is a register/stack machine. Waifu's tree-walking model
// needs the frame-chain-of-slots shape the spec's own environment section
// describes instead, which has no bytecode-machine analogue in the teacher;
// it's built directly from SPEC_FULL.md's ENV module.
type Frame struct {
	parent *Frame
	slots  []values.Value
	names  *swiss.Map[string, int]

	// imported holds names merged in by an Import statement. They live
	// outside the slot list on purpose: the resolver never sees an imported
	// module's names, so giving them slots would shift every later
	// top-level binding away from the slot the resolver computed for it.
	// Imported names are only ever reached through Lookup's by-name
	// fallback (and re-exported through Exports).
	imported *swiss.Map[string, values.Value]
}

// NewFrame creates a frame whose parent is the given frame (nil for a
// module's top frame, which has no parent).
func NewFrame(parent *Frame) *Frame {
	return &Frame{parent: parent}
}

// Define appends a new slot holding v to the frame and returns its index.
// Used wherever a binding is introduced at a known, sequential position —
// baka declarations, function/class names, parameters — mirroring the
// resolver's scope.define, which allocates slots in the identical order.
func (f *Frame) Define(v values.Value) int {
	f.slots = append(f.slots, v)
	return len(f.slots) - 1
}

// DefineNamed is Define plus a name->slot entry, used for a module's
// top-frame bindings: those are the only slots the evaluator ever needs to
// find again by name alone (an unresolved VarAccess falling back to a
// global-by-name lookup, and Exports collecting a module's exportable
// names). Names merged in by an Import statement go through DefineImported
// instead.
func (f *Frame) DefineNamed(name string, v values.Value) int {
	slot := f.Define(v)
	if f.names == nil {
		f.names = swiss.NewMap[string, int](0)
	}
	f.names.Put(name, slot)
	return slot
}

// DefineImported records an Import-merged binding under name without
// allocating a slot, keeping the frame's slot list aligned with the
// resolver's slot numbering (which knows nothing of imported names).
func (f *Frame) DefineImported(name string, v values.Value) {
	if f.imported == nil {
		f.imported = swiss.NewMap[string, values.Value](0)
	}
	f.imported.Put(name, v)
}

func (f *Frame) ancestor(depth int) *Frame {
	fr := f
	for i := 0; i < depth; i++ {
		fr = fr.parent
	}
	return fr
}

// GetAt reads the value depth parents up from f, at the given slot.
func (f *Frame) GetAt(depth, slot int) values.Value {
	return f.ancestor(depth).slots[slot]
}

// AssignAt overwrites the value depth parents up from f, at the given slot.
// The slot must already exist (allocated by a prior Define); it is an error
// to AssignAt a slot that growth hasn't reached yet, which is why the
// resolver's Resolution.New flag routes brand-new bindings to Define
// instead.
func (f *Frame) AssignAt(depth, slot int, v values.Value) {
	f.ancestor(depth).slots[slot] = v
}

// Lookup resolves name by walking f's own name map (and its imported-names
// table) only — not its parents. It exists solely for the dynamic
// (non-resolver-indexed) lookup of an unresolved VarAccess falling back to
// the module's top frame; watashi/haha are read through GetAt with the
// resolver's depth plus a known slot and never come through here. Callers
// pass the specific frame to search (the module's top frame), not an
// arbitrary point in the chain.
func (f *Frame) Lookup(name string) (values.Value, bool) {
	if f.names != nil {
		if slot, ok := f.names.Get(name); ok {
			return f.slots[slot], true
		}
	}
	if f.imported != nil {
		if v, ok := f.imported.Get(name); ok {
			return v, true
		}
	}
	return values.Nil, false
}

// Exports returns every named binding in f, keyed by name. Called on a
// module's top frame once its evaluation completes, per the spec's
// "every name defined in the top-frame becomes exportable" rule.
func (f *Frame) Exports() map[string]values.Value {
	out := make(map[string]values.Value)
	if f.imported != nil {
		f.imported.Iter(func(name string, v values.Value) bool {
			out[name] = v
			return false
		})
	}
	if f.names != nil {
		f.names.Iter(func(name string, slot int) bool {
			out[name] = f.slots[slot]
			return false
		})
	}
	return out
}
