// Package numeric implements the folder's scalar numeric primitives: fixed
// width two's-complement integers, IEEE-flavored reals with explicit flags,
// complex pairs, character strings and logical truth values.
//
// Go has no native 128-bit integer or half/extended/quad-precision float, so
// Integer backs every kind with math/big.Int masked to the kind's bit width,
// and Real backs every kind with float64, applying float32 rounding and
// range clamping to kind 4 only; kinds 2, 10 and 16 keep float64 precision
// and range. See DESIGN.md for the justification; nothing in the example pack
// carries a bignum or soft-float dependency to reach for instead.
package numeric

// Ordering mirrors a three/four-way comparison result. Unordered only
// arises for Real comparisons involving NaN.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	Unordered
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "Unordered"
	}
}

// RealFlags aggregates the IEEE exceptions a Real operation may raise.
type RealFlags struct {
	Overflow        bool
	Underflow       bool
	Inexact         bool
	InvalidArgument bool
	DivideByZero    bool
}

// Any reports whether any flag is set.
func (f RealFlags) Any() bool {
	return f.Overflow || f.Underflow || f.Inexact || f.InvalidArgument || f.DivideByZero
}

// Merge ORs every flag of other into f.
func (f RealFlags) Merge(other RealFlags) RealFlags {
	return RealFlags{
		Overflow:        f.Overflow || other.Overflow,
		Underflow:       f.Underflow || other.Underflow,
		Inexact:         f.Inexact || other.Inexact,
		InvalidArgument: f.InvalidArgument || other.InvalidArgument,
		DivideByZero:    f.DivideByZero || other.DivideByZero,
	}
}

// Rounding selects a Real arithmetic rounding mode.
type Rounding int

const (
	ToNearest Rounding = iota
	ToZero
	Down
	Up
	TiesAwayFromZero
)
