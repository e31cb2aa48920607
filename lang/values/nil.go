package values

// NilType is the type of the nil value baito. Its only legal value is Nil.
// Modeled as a zero-size distinct type (rather than a struct{} pointer or an
// untyped Go nil) so it satisfies Value directly and compares equal to
// itself — mirrors the teacher's lang/types/nil.go NilType/Nil pair.
type NilType struct{}

// Nil is the only value of type NilType.
var Nil = NilType{}

var _ Value = Nil

func (NilType) String() string { return "baito" }
func (NilType) Type() string   { return "nil" }
func (NilType) Truth() bool    { return false }
