package resolver

import (
	"github.com/dolthub/swiss"

	"github.com/waifu-lang/waifu/lang/token"
)

// binding records one name introduced in a scope: its slot position (order
// of definition within the scope) and whether it has been read or
// assignment-resolved-to since it was defined.
type binding struct {
	name  string
	token token.Token
	slot  int
	used  bool
}

// scope is one frame-scope in the resolver's scope stack: an
// insertion-ordered mapping name -> binding, mirroring the runtime Frame it
// corresponds to one-for-one. The swiss.Map gives O(1) lookup; order
// preserves definition order for slot assignment and for reporting unused
// bindings in a stable sequence when a scope is popped.
type scope struct {
	names *swiss.Map[string, *binding]
	order []*binding
}

func newScope() *scope {
	return &scope{names: swiss.NewMap[string, *binding](0)}
}

func (s *scope) define(name string, tok token.Token) *binding {
	b := &binding{name: name, token: tok, slot: len(s.order)}
	s.order = append(s.order, b)
	s.names.Put(name, b)
	return b
}

func (s *scope) lookup(name string) (*binding, bool) {
	return s.names.Get(name)
}

// Resolution is the side-table value recorded for every VarAccess,
// non-new Assign/AssStmt, ObjRef and SuperRef node: the number of frames to
// skip from the innermost frame at that node's dynamic location to reach
// the defining frame, and the slot within that frame.
//
// New distinguishes the two cases a plain (non-baka) assignment can hit:
// an existing binding found up the scope chain (New is false — the
// evaluator overwrites an already-allocated slot) versus one that didn't
// exist anywhere and was implicitly created in the innermost scope (New is
// true — the evaluator must grow the frame with a fresh slot instead of
// assigning into one, since nothing allocated it yet). Depth/Slot alone
// can't disambiguate these: a depth of 0 is produced by both "reassigning a
// local already bound in this very scope" and "no such name anywhere,
// define it here", and the evaluator needs to tell them apart to know
// whether to call Frame.Define or Frame.AssignAt.
type Resolution struct {
	Depth int
	Slot  int
	New   bool
}
