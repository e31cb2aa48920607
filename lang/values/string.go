package values

// Str is the language's string type. Waifu strings carry no escape
// processing beyond raw inclusion (the scanner never interprets backslash
// sequences), so Str is a thin alias with no internal structure to manage —
// unlike the teacher's lang/types/string.go, which layers indexing,
// slicing and iteration over its String type, none of which Waifu's string
// values support.
type Str string

var _ Value = Str("")

func (s Str) String() string { return string(s) }
func (s Str) Type() string   { return "string" }
func (s Str) Truth() bool    { return true } // "" is truthy per the spec's explicit rule
