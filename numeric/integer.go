package numeric

import "math/big"

// Integer is a two's-complement signed integer of a given byte width (kind).
type Integer struct {
	Kind int
	Val  *big.Int
}

// NewInteger constructs an Integer of the given kind from a native int64,
// wrapping if it does not fit.
func NewInteger(kind int, v int64) Integer {
	i, _ := wrapSigned(big.NewInt(v), kind)
	return Integer{Kind: kind, Val: i}
}

// NewIntegerBig constructs an Integer directly from a big.Int, wrapping to
// the kind's range.
func NewIntegerBig(kind int, v *big.Int) (Integer, bool) {
	wrapped, overflow := wrapSigned(v, kind)
	return Integer{Kind: kind, Val: wrapped}, overflow
}

func bitWidth(kind int) uint { return uint(kind) * 8 }

func signedMin(kind int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), bitWidth(kind)-1)
	return m.Neg(m)
}

func signedMax(kind int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), bitWidth(kind)-1)
	return m.Sub(m, big.NewInt(1))
}

func modulus(kind int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), bitWidth(kind))
}

// wrapSigned reduces raw into the signed range of kind, reporting whether
// the unbounded value did not already fit (i.e. whether it overflowed).
func wrapSigned(raw *big.Int, kind int) (*big.Int, bool) {
	lo, hi := signedMin(kind), signedMax(kind)
	if raw.Cmp(lo) >= 0 && raw.Cmp(hi) <= 0 {
		return new(big.Int).Set(raw), false
	}
	mod := modulus(kind)
	r := new(big.Int).Mod(raw, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	if r.Cmp(hi) > 0 {
		r.Sub(r, mod)
	}
	return r, true
}

func (a Integer) binop(b Integer, f func(z, x, y *big.Int) *big.Int) (Integer, bool) {
	raw := f(new(big.Int), a.Val, b.Val)
	wrapped, overflow := wrapSigned(raw, a.Kind)
	return Integer{Kind: a.Kind, Val: wrapped}, overflow
}

// Add returns a+b and whether the sum overflowed the kind's range.
func (a Integer) Add(b Integer) (Integer, bool) { return a.binop(b, (*big.Int).Add) }

// Subtract returns a-b and whether the difference overflowed.
func (a Integer) Subtract(b Integer) (Integer, bool) { return a.binop(b, (*big.Int).Sub) }

// Multiply returns a*b and whether the product overflowed.
func (a Integer) Multiply(b Integer) (Integer, bool) { return a.binop(b, (*big.Int).Mul) }

// DivideSigned returns the quotient and remainder of a/b, Fortran style: the
// remainder's sign matches the dividend. divByZero is set when b is zero, in
// which case quotient and remainder are returned as zero. overflow catches
// the single signed-division edge case (MinInt / -1).
func (a Integer) DivideSigned(b Integer) (quotient, remainder Integer, divByZero, overflow bool) {
	if b.Val.Sign() == 0 {
		return NewInteger(a.Kind, 0), NewInteger(a.Kind, 0), true, false
	}
	q, r := new(big.Int).QuoRem(a.Val, b.Val, new(big.Int))
	qWrapped, qOverflow := wrapSigned(q, a.Kind)
	rWrapped, _ := wrapSigned(r, a.Kind)
	return Integer{Kind: a.Kind, Val: qWrapped}, Integer{Kind: a.Kind, Val: rWrapped}, false, qOverflow
}

// Negate returns -a and whether negation overflowed (only MinInt does).
func (a Integer) Negate() (Integer, bool) {
	raw := new(big.Int).Neg(a.Val)
	wrapped, overflow := wrapSigned(raw, a.Kind)
	return Integer{Kind: a.Kind, Val: wrapped}, overflow
}

// Abs returns |a| and whether the result overflowed (only MinInt does).
func (a Integer) Abs() (Integer, bool) {
	if a.Val.Sign() >= 0 {
		return a, false
	}
	return a.Negate()
}

// CompareSigned returns Less/Equal/Greater for a relative to b.
func (a Integer) CompareSigned(b Integer) Ordering {
	switch a.Val.Cmp(b.Val) {
	case -1:
		return Less
	case 1:
		return Greater
	default:
		return Equal
	}
}

// Power raises a to a non-negative or negative integer exponent. Negative
// exponents of anything other than -1, 0 or 1 yield zero with divideByZero
// left false; 0 to a negative exponent raises divideByZero. 0**0 yields 1
// with zeroToZero set as an informational flag, per the source's behavior.
func (a Integer) Power(exp Integer) (result Integer, divideByZero, overflow, zeroToZero bool) {
	if exp.Val.Sign() == 0 {
		if a.Val.Sign() == 0 {
			zeroToZero = true
		}
		return NewInteger(a.Kind, 1), false, false, zeroToZero
	}
	if exp.Val.Sign() < 0 {
		if a.Val.Sign() == 0 {
			return NewInteger(a.Kind, 0), true, false, false
		}
		av := a.Val.Int64()
		if av == 1 {
			return NewInteger(a.Kind, 1), false, false, false
		}
		if av == -1 {
			// odd negative exponent keeps the sign, even makes it positive.
			negExp := new(big.Int).Neg(exp.Val)
			if negExp.Bit(0) == 1 {
				return NewInteger(a.Kind, -1), false, false, false
			}
			return NewInteger(a.Kind, 1), false, false, false
		}
		return NewInteger(a.Kind, 0), false, false, false
	}
	raw := new(big.Int).Exp(a.Val, exp.Val, nil)
	wrapped, ovf := wrapSigned(raw, a.Kind)
	return Integer{Kind: a.Kind, Val: wrapped}, false, ovf, false
}

// ConvertSigned reinterprets a as a different kind, sign-extending or
// truncating, and reports whether the value did not fit in the new kind.
func (a Integer) ConvertSigned(toKind int) (Integer, bool) {
	wrapped, overflow := wrapSigned(a.Val, toKind)
	return Integer{Kind: toKind, Val: wrapped}, overflow
}

// ConvertUnsigned reinterprets the kind's bit pattern at a new width without
// an overflow check; used for BOZ literal conversions, which carry no type
// of their own until consumed.
func (a Integer) ConvertUnsigned(toKind int) Integer {
	mod := modulus(a.Kind)
	u := new(big.Int).Mod(a.Val, mod)
	wrapped, _ := wrapSigned(u, toKind)
	return Integer{Kind: toKind, Val: wrapped}
}

// ToInt64 extracts a native int64 when the value fits.
func (a Integer) ToInt64() (int64, bool) {
	if !a.Val.IsInt64() {
		return 0, false
	}
	return a.Val.Int64(), true
}

// --- bitwise intrinsics ---

func (a Integer) unsignedBits() *big.Int {
	mod := modulus(a.Kind)
	u := new(big.Int).Mod(a.Val, mod)
	return u
}

func (a Integer) fromUnsignedBits(u *big.Int) Integer {
	wrapped, _ := wrapSigned(u, a.Kind)
	return Integer{Kind: a.Kind, Val: wrapped}
}

// IAND is the bitwise AND of a and b.
func (a Integer) IAND(b Integer) Integer {
	return a.fromUnsignedBits(new(big.Int).And(a.unsignedBits(), b.unsignedBits()))
}

// IOR is the bitwise inclusive OR of a and b.
func (a Integer) IOR(b Integer) Integer {
	return a.fromUnsignedBits(new(big.Int).Or(a.unsignedBits(), b.unsignedBits()))
}

// IEOR is the bitwise exclusive OR of a and b.
func (a Integer) IEOR(b Integer) Integer {
	return a.fromUnsignedBits(new(big.Int).Xor(a.unsignedBits(), b.unsignedBits()))
}

// Not is the bitwise complement of a.
func (a Integer) Not() Integer {
	mod := modulus(a.Kind)
	u := new(big.Int).Sub(mod, new(big.Int).Add(a.unsignedBits(), big.NewInt(1)))
	u.Mod(u, mod)
	return a.fromUnsignedBits(u)
}

// IBCLR clears bit pos (0-based, LSB=0).
func (a Integer) IBCLR(pos int) Integer {
	u := a.unsignedBits()
	u.SetBit(u, pos, 0)
	return a.fromUnsignedBits(u)
}

// IBSET sets bit pos (0-based, LSB=0).
func (a Integer) IBSET(pos int) Integer {
	u := a.unsignedBits()
	u.SetBit(u, pos, 1)
	return a.fromUnsignedBits(u)
}

// ISHFT performs a logical shift: positive shifts left, negative shifts
// right, zero-filling vacated bits. |shift| >= bit width yields zero.
func (a Integer) ISHFT(shift int) Integer {
	w := int(bitWidth(a.Kind))
	if shift <= -w || shift >= w {
		return NewInteger(a.Kind, 0)
	}
	u := a.unsignedBits()
	if shift >= 0 {
		u.Lsh(u, uint(shift))
	} else {
		u.Rsh(u, uint(-shift))
	}
	u.Mod(u, modulus(a.Kind))
	return a.fromUnsignedBits(u)
}

// SHIFTA performs an arithmetic right shift by shift bits, sign-filling.
// |shift| >= bit width saturates to all sign bits.
func (a Integer) SHIFTA(shift int) Integer {
	w := int(bitWidth(a.Kind))
	if shift <= 0 {
		return a.SHIFTL(-shift)
	}
	if shift >= w {
		if a.Val.Sign() < 0 {
			return NewInteger(a.Kind, -1)
		}
		return NewInteger(a.Kind, 0)
	}
	r := new(big.Int).Rsh(a.Val, uint(shift))
	if a.Val.Sign() < 0 {
		// big.Int.Rsh on a negative number already rounds toward -Inf
		// (arithmetic shift), matching Fortran SHIFTA semantics.
	}
	wrapped, _ := wrapSigned(r, a.Kind)
	return Integer{Kind: a.Kind, Val: wrapped}
}

// SHIFTL is a logical left shift.
func (a Integer) SHIFTL(shift int) Integer { return a.ISHFT(shift) }

// SHIFTR is a logical right shift (zero-filled, unlike SHIFTA).
func (a Integer) SHIFTR(shift int) Integer { return a.ISHFT(-shift) }

// DSHIFTL is the double (funnel) left shift of the bit-width-wide
// concatenation of a:b, keeping the leftmost bits.
func (a Integer) DSHIFTL(b Integer, shift int) Integer {
	w := bitWidth(a.Kind)
	combined := new(big.Int).Lsh(a.unsignedBits(), w)
	combined.Or(combined, b.unsignedBits())
	combined.Lsh(combined, uint(shift))
	combined.Rsh(combined, w)
	combined.Mod(combined, modulus(a.Kind))
	return a.fromUnsignedBits(combined)
}

// DSHIFTR is the double (funnel) right shift of the bit-width-wide
// concatenation of a:b, keeping the rightmost bits.
func (a Integer) DSHIFTR(b Integer, shift int) Integer {
	w := bitWidth(a.Kind)
	combined := new(big.Int).Lsh(a.unsignedBits(), w)
	combined.Or(combined, b.unsignedBits())
	combined.Rsh(combined, uint(shift))
	combined.Mod(combined, modulus(a.Kind))
	return a.fromUnsignedBits(combined)
}

// MergeBits selects bits from i or j according to the corresponding bit of
// mask: a 1 bit in mask selects from i, a 0 bit selects from j.
func MergeBits(i, j, mask Integer) Integer {
	notMask := mask.Not()
	fromI := i.IAND(mask)
	fromJ := j.IAND(notMask)
	return fromI.IOR(fromJ)
}

// MASKL returns an integer with the leftmost n bits set, 0 <= n <= bit width.
func MASKL(kind, n int) Integer {
	w := int(bitWidth(kind))
	if n <= 0 {
		return NewInteger(kind, 0)
	}
	if n >= w {
		return Integer{Kind: kind, Val: big.NewInt(0)}.Not()
	}
	u := new(big.Int).Lsh(big.NewInt(1), uint(n))
	u.Sub(u, big.NewInt(1))
	u.Lsh(u, uint(w-n))
	return Integer{Kind: kind}.fromUnsignedBits(u)
}

// MASKR returns an integer with the rightmost n bits set, 0 <= n <= bit width.
func MASKR(kind, n int) Integer {
	w := int(bitWidth(kind))
	if n <= 0 {
		return NewInteger(kind, 0)
	}
	if n >= w {
		return Integer{Kind: kind, Val: big.NewInt(0)}.Not()
	}
	u := new(big.Int).Lsh(big.NewInt(1), uint(n))
	u.Sub(u, big.NewInt(1))
	return Integer{Kind: kind}.fromUnsignedBits(u)
}

// LEADZ returns the count of leading zero bits.
func (a Integer) LEADZ() int {
	w := int(bitWidth(a.Kind))
	u := a.unsignedBits()
	return w - u.BitLen()
}

// TRAILZ returns the count of trailing zero bits. An all-zero value
// reports the full bit width.
func (a Integer) TRAILZ() int {
	w := int(bitWidth(a.Kind))
	u := a.unsignedBits()
	if u.Sign() == 0 {
		return w
	}
	n := 0
	for u.Bit(n) == 0 {
		n++
	}
	return n
}

// POPCNT returns the number of set bits.
func (a Integer) POPCNT() int {
	u := a.unsignedBits()
	n := 0
	for _, b := range u.Bits() {
		for b != 0 {
			n += int(b & 1)
			b >>= 1
		}
	}
	return n
}

// POPPAR returns the parity (POPCNT mod 2) of a.
func (a Integer) POPPAR() int {
	return a.POPCNT() & 1
}

// BGE reports whether a, interpreted as unsigned, is >= b.
func (a Integer) BGE(b Integer) bool { return a.unsignedBits().Cmp(b.unsignedBits()) >= 0 }

// BGT reports whether a, interpreted as unsigned, is > b.
func (a Integer) BGT(b Integer) bool { return a.unsignedBits().Cmp(b.unsignedBits()) > 0 }

// BLE reports whether a, interpreted as unsigned, is <= b.
func (a Integer) BLE(b Integer) bool { return a.unsignedBits().Cmp(b.unsignedBits()) <= 0 }

// BLT reports whether a, interpreted as unsigned, is < b.
func (a Integer) BLT(b Integer) bool { return a.unsignedBits().Cmp(b.unsignedBits()) < 0 }

// DIM returns max(a-b, 0).
func (a Integer) DIM(b Integer) Integer {
	if a.CompareSigned(b) == Greater {
		d, _ := a.Subtract(b)
		return d
	}
	return NewInteger(a.Kind, 0)
}
