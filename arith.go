package fold90

import (
	"math"

	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
	"github.com/soypat/fold90/token"
)

func realPow(x, y float64) float64 { return math.Pow(x, y) }

func asReal(v any) (numeric.Real, bool) {
	r, ok := v.(numeric.Real)
	return r, ok
}

func asInteger(v any) (numeric.Integer, bool) {
	i, ok := v.(numeric.Integer)
	return i, ok
}

func asComplex(v any) (numeric.Complex, bool) {
	c, ok := v.(numeric.Complex)
	return c, ok
}

func asCharacter(v any) (numeric.Character, bool) {
	c, ok := v.(numeric.Character)
	return c, ok
}

func asLogical(v any) (numeric.Logical, bool) {
	l, ok := v.(numeric.Logical)
	return l, ok
}

func (ctx *FoldingContext) reportRealFlags(op string, kindN int, flags numeric.RealFlags) {
	if flags.Overflow {
		ctx.Messages.Say(severityWarning(), "REAL(%d) %s overflowed", kindN, op)
	}
	if flags.DivideByZero {
		ctx.Messages.Say(severityWarning(), "REAL(%d) %s divided by zero", kindN, op)
	}
	if flags.InvalidArgument {
		ctx.Messages.Say(severityWarning(), "REAL(%d) %s is invalid", kindN, op)
	}
	if flags.Underflow {
		ctx.Messages.Say(severityWarning(), "REAL(%d) %s underflowed", kindN, op)
	}
}

func (ctx *FoldingContext) maybeFlush(r numeric.Real) numeric.Real {
	if ctx.FlushSubnormals {
		return r.FlushSubnormalToZero()
	}
	return r
}

// scalarBinaryOp computes a binary scalar arithmetic/logical/relational
// result; ok is false when the operand types don't match resultType's
// category (the operation must then be left unfolded).
type scalarBinaryOp func(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool)

func scalarAdd(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		xi, xok := asInteger(x)
		yi, yok := asInteger(y)
		if !xok || !yok {
			return nil, false
		}
		v, overflow := xi.Add(yi)
		if overflow {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) addition overflowed", resultType.Kind)
		}
		return v, true
	case kind.Real:
		xr, xok := asReal(x)
		yr, yok := asReal(y)
		if !xok || !yok {
			return nil, false
		}
		v, flags := xr.Add(yr, ctx.Rounding)
		v = ctx.maybeFlush(v)
		ctx.reportRealFlags("addition", resultType.Kind, flags)
		return v, true
	case kind.Complex:
		xc, xok := asComplex(x)
		yc, yok := asComplex(y)
		if !xok || !yok {
			return nil, false
		}
		re, f1 := xc.Re.Add(yc.Re, ctx.Rounding)
		im, f2 := xc.Im.Add(yc.Im, ctx.Rounding)
		ctx.reportRealFlags("addition", resultType.Kind, f1.Merge(f2))
		return numeric.NewComplex(ctx.maybeFlush(re), ctx.maybeFlush(im)), true
	}
	return nil, false
}

func scalarSubtract(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		xi, xok := asInteger(x)
		yi, yok := asInteger(y)
		if !xok || !yok {
			return nil, false
		}
		v, overflow := xi.Subtract(yi)
		if overflow {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) subtraction overflowed", resultType.Kind)
		}
		return v, true
	case kind.Real:
		xr, xok := asReal(x)
		yr, yok := asReal(y)
		if !xok || !yok {
			return nil, false
		}
		v, flags := xr.Subtract(yr, ctx.Rounding)
		v = ctx.maybeFlush(v)
		ctx.reportRealFlags("subtraction", resultType.Kind, flags)
		return v, true
	case kind.Complex:
		xc, xok := asComplex(x)
		yc, yok := asComplex(y)
		if !xok || !yok {
			return nil, false
		}
		re, f1 := xc.Re.Subtract(yc.Re, ctx.Rounding)
		im, f2 := xc.Im.Subtract(yc.Im, ctx.Rounding)
		ctx.reportRealFlags("subtraction", resultType.Kind, f1.Merge(f2))
		return numeric.NewComplex(ctx.maybeFlush(re), ctx.maybeFlush(im)), true
	}
	return nil, false
}

func scalarMultiply(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		xi, xok := asInteger(x)
		yi, yok := asInteger(y)
		if !xok || !yok {
			return nil, false
		}
		v, overflow := xi.Multiply(yi)
		if overflow {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) multiplication overflowed", resultType.Kind)
		}
		return v, true
	case kind.Real:
		xr, xok := asReal(x)
		yr, yok := asReal(y)
		if !xok || !yok {
			return nil, false
		}
		v, flags := xr.Multiply(yr, ctx.Rounding)
		v = ctx.maybeFlush(v)
		ctx.reportRealFlags("multiplication", resultType.Kind, flags)
		return v, true
	case kind.Complex:
		xc, xok := asComplex(x)
		yc, yok := asComplex(y)
		if !xok || !yok {
			return nil, false
		}
		v, flags := xc.Multiply(yc, ctx.Rounding)
		ctx.reportRealFlags("multiplication", resultType.Kind, flags)
		return v, true
	}
	return nil, false
}

func scalarDivide(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		xi, xok := asInteger(x)
		yi, yok := asInteger(y)
		if !xok || !yok {
			return nil, false
		}
		q, _, divByZero, overflow := xi.DivideSigned(yi)
		if divByZero {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) division by zero", resultType.Kind)
		}
		if overflow {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) division overflowed", resultType.Kind)
		}
		return q, true
	case kind.Real:
		xr, xok := asReal(x)
		yr, yok := asReal(y)
		if !xok || !yok {
			return nil, false
		}
		v, flags := xr.Divide(yr, ctx.Rounding)
		v = ctx.maybeFlush(v)
		ctx.reportRealFlags("division", resultType.Kind, flags)
		return v, true
	case kind.Complex:
		xc, xok := asComplex(x)
		yc, yok := asComplex(y)
		if !xok || !yok {
			return nil, false
		}
		v, flags := xc.Divide(yc, ctx.Rounding)
		ctx.reportRealFlags("division", resultType.Kind, flags)
		return v, true
	}
	return nil, false
}

func scalarPower(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		xi, xok := asInteger(x)
		yi, yok := asInteger(y)
		if !xok || !yok {
			return nil, false
		}
		v, divByZero, overflow, zeroToZero := xi.Power(yi)
		if divByZero {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) zero raised to a negative power", resultType.Kind)
		}
		if overflow {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) exponentiation overflowed", resultType.Kind)
		}
		if zeroToZero {
			ctx.Messages.Say(severityInfo(), "INTEGER(%d) 0**0 is 1", resultType.Kind)
		}
		return v, true
	case kind.Real:
		xr, xok := asReal(x)
		yr, yok := asReal(y)
		if !xok || !yok {
			return nil, false
		}
		// Real**Real via repeated use of the host Multiply/Divide chain is
		// not representable exactly without a pow() host entry; fold this
		// through the same Newton-free approach as Go's math.Pow would:
		// we have no host entry requirement here because this is native
		// kind-to-kind arithmetic, not an intrinsic call, so use the
		// standard library's float64 power directly at the element level.
		v := realPow(xr.Val, yr.Val)
		res := numeric.NewReal(resultType.Kind, v)
		return ctx.maybeFlush(res), true
	}
	return nil, false
}

func scalarExtremum(ordering Ordering) scalarBinaryOp {
	return func(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
		switch resultType.Category {
		case kind.Integer:
			xi, xok := asInteger(x)
			yi, yok := asInteger(y)
			if !xok || !yok {
				return nil, false
			}
			cmp := xi.CompareSigned(yi)
			if pickFirst(ordering, cmp) {
				return xi, true
			}
			return yi, true
		case kind.Real:
			xr, xok := asReal(x)
			yr, yok := asReal(y)
			if !xok || !yok {
				return nil, false
			}
			// A NaN first operand always propagates, regardless of
			// ordering. A NaN second operand only propagates for MIN:
			// Compare(x,y) is Unordered either way, but MAX keeps the
			// non-NaN x just as it would keep the larger of two ordered
			// operands.
			if xr.IsNotANumber() {
				return xr, true
			}
			if yr.IsNotANumber() {
				if ordering == PreferGreater {
					return xr, true
				}
				return yr, true
			}
			cmp := xr.Compare(yr)
			if pickFirst(ordering, cmp) {
				return xr, true
			}
			return yr, true
		case kind.Character:
			xc, xok := asCharacter(x)
			yc, yok := asCharacter(y)
			if !xok || !yok {
				return nil, false
			}
			cmp := xc.Compare(yc)
			if pickFirst(ordering, cmp) {
				return xc, true
			}
			return yc, true
		}
		return nil, false
	}
}

// pickFirst reports whether the first operand should be kept for the given
// preference and comparison, with ties always favoring the first operand.
func pickFirst(ordering Ordering, cmp numeric.Ordering) bool {
	if cmp == numeric.Equal || cmp == numeric.Unordered {
		return true
	}
	if ordering == PreferGreater {
		return cmp == numeric.Greater
	}
	return cmp == numeric.Less
}

func relOpToOrdering(op token.Token) func(numeric.Ordering) bool {
	switch op {
	case token.LT:
		return func(o numeric.Ordering) bool { return o == numeric.Less }
	case token.LE:
		return func(o numeric.Ordering) bool { return o == numeric.Less || o == numeric.Equal }
	case token.EQ:
		return func(o numeric.Ordering) bool { return o == numeric.Equal }
	case token.NE:
		return func(o numeric.Ordering) bool { return o != numeric.Equal }
	case token.GE:
		return func(o numeric.Ordering) bool { return o == numeric.Greater || o == numeric.Equal }
	default: // token.GT
		return func(o numeric.Ordering) bool { return o == numeric.Greater }
	}
}

func scalarRelational(op token.Token) scalarBinaryOp {
	satisfies := relOpToOrdering(op)
	return func(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
		var cmp numeric.Ordering
		switch xv := x.(type) {
		case numeric.Integer:
			yv, ok := asInteger(y)
			if !ok {
				return nil, false
			}
			cmp = xv.CompareSigned(yv)
		case numeric.Real:
			yv, ok := asReal(y)
			if !ok {
				return nil, false
			}
			cmp = xv.Compare(yv)
		case numeric.Character:
			yv, ok := asCharacter(y)
			if !ok {
				return nil, false
			}
			cmp = xv.Compare(yv)
		default:
			return nil, false
		}
		return numeric.NewLogical(kind.LogicalResultKind, satisfies(cmp)), true
	}
}

func scalarLogicalOp(op token.Token) scalarBinaryOp {
	return func(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
		xl, xok := asLogical(x)
		yl, yok := asLogical(y)
		if !xok || !yok {
			return nil, false
		}
		switch op {
		case token.AND:
			return numeric.And(xl, yl), true
		case token.OR:
			return numeric.Or(xl, yl), true
		case token.EQV:
			return numeric.Eqv(xl, yl), true
		default: // token.NEQV
			return numeric.Neqv(xl, yl), true
		}
	}
}

func scalarConcat(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
	xc, xok := asCharacter(x)
	yc, yok := asCharacter(y)
	if !xok || !yok {
		return nil, false
	}
	return xc.Concat(yc), true
}
