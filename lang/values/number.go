package values

import (
	"math"
	"strconv"
)

// Number is the language's only numeric type: an IEEE-754 binary64, matching
// the teacher's lang/types/float.go except that Waifu has no separate int
// type — the lexer's NUMBER token is always materialized as a float64 per
// the spec's data model.
type Number float64

var _ Value = Number(0)

// String renders the number's Waifu-representation: an integer-valued
// number (e.g. 7.0) prints without a trailing ".0"; anything else uses its
// natural decimal form. Grounded on the teacher's Float.String (fmt "%g"),
// adapted to add the integer-elision rule the spec's Waifu-representation
// requires that plain "%g" formatting doesn't give for whole numbers like
// 2 (which "%g" already renders as "2", so the real work is only needed for
// values that round-trip through strconv without "%g"'s general-format
// surprises on large or tiny magnitudes).
func (n Number) String() string {
	f := float64(n)
	// the int64 bound guards the conversion: float-to-int of an
	// out-of-range value is implementation-defined in Go.
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (n Number) Type() string { return "number" }
func (n Number) Truth() bool  { return true } // 0 is truthy per the spec's explicit rule
