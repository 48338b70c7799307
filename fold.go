package fold90

import (
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
	"github.com/soypat/fold90/token"
)

// Fold is the mutually-recursive rewrite §4.3 describes: for every variant
// of Expr it folds operands depth-first left-to-right, attempts the
// elementwise lift for operands with rank>0, attempts direct scalar
// constant evaluation, and otherwise reconstructs the node with its
// folded operands. Diagnostics for raised numeric flags are appended to
// ctx.Messages as a side effect; Fold itself never returns an error,
// mirroring the source's always-succeeds fold() contract.
func Fold(ctx *FoldingContext, expr Expr) Expr {
	switch e := expr.(type) {
	case *Constant:
		return e
	case *Designator:
		return ctx.foldDesignator(e)
	case *ArrayRef:
		return ctx.foldArrayRef(e)
	case *Substring:
		return ctx.foldSubstring(e)
	case *FunctionRef:
		return ctx.foldFunctionRef(e)
	case *ArrayConstructor:
		return ctx.foldArrayConstructor(e)
	case *Parentheses:
		return ctx.foldParentheses(e)
	case *Convert:
		return ctx.foldConvert(e)
	case *Negate:
		return ctx.foldNegate(e)
	case *BinaryArith:
		return ctx.foldBinaryArith(e)
	case *Extremum:
		return ctx.foldExtremum(e)
	case *ComplexComponent:
		return ctx.foldComplexComponent(e)
	case *RealToIntPower:
		return ctx.foldRealToIntPower(e)
	case *ComplexConstructor:
		return ctx.foldComplexConstructor(e)
	case *Concat:
		return ctx.foldConcat(e)
	case *SetLength:
		return ctx.foldSetLength(e)
	case *Not:
		return ctx.foldNot(e)
	case *LogicalOperation:
		return ctx.foldLogicalOperation(e)
	case *Relational:
		return ctx.foldRelational(e)
	case *ImpliedDoIndexRef:
		return ctx.foldImpliedDoIndexRef(e)
	case *TypeParamInquiry:
		return ctx.foldTypeParamInquiry(e)
	case *StructureConstructor:
		return ctx.foldStructureConstructor(e)
	case *BOZLiteralConstant, *NullPointer:
		return expr
	default:
		return expr
	}
}

// foldDesignator folds a bare symbol designator: a named PARAMETER
// Character designator is a leaf with no constant value attached in this
// core (the caller supplies named-constant values through DeclShape only
// for shape purposes), so a bare Designator always folds to itself.
// Substrings of a designator are carried on a separate Substring node,
// not on Designator itself; see foldSubstring.
func (ctx *FoldingContext) foldDesignator(d *Designator) Expr {
	return d
}

// foldArrayRef folds Base and every subscript, left to right. The core
// carries no symbol-table values for named arrays, so an ArrayRef can
// never itself reduce to a Constant; only its subscripts can simplify.
func (ctx *FoldingContext) foldArrayRef(a *ArrayRef) Expr {
	base := Fold(ctx, a.Base)
	subs := make([]Subscript, len(a.Subscripts))
	for i, s := range a.Subscripts {
		subs[i] = ctx.foldSubscript(s)
	}
	return &ArrayRef{Typ: a.Typ, Base: base, Subscripts: subs}
}

func (ctx *FoldingContext) foldSubscript(s Subscript) Subscript {
	switch {
	case s.Triplet != nil:
		return Subscript{Triplet: &Triplet{
			Lower:  Fold(ctx, s.Triplet.Lower),
			Upper:  Fold(ctx, s.Triplet.Upper),
			Stride: Fold(ctx, s.Triplet.Stride),
		}}
	case s.Vector != nil:
		return Subscript{Vector: Fold(ctx, s.Vector)}
	default:
		return Subscript{Scalar: Fold(ctx, s.Scalar)}
	}
}

// foldSubstring folds Base(Lower:Upper), mirroring the Character branch of
// the source's Designator fold: a substring whose bounds fold to a known
// zero-length span reduces to an empty Constant<Character> regardless of
// whether Base itself is constant, and a substring of a constant Base
// whose bounds are both known extracts the span directly via
// numeric.Character.Substring. Otherwise the node is rebuilt with its
// folded parts.
func (ctx *FoldingContext) foldSubstring(s *Substring) Expr {
	base := Fold(ctx, s.Base)
	lower := Fold(ctx, s.Lower)
	upper := Fold(ctx, s.Upper)
	lo, lok := constInt64(lower)
	hi, hok := constInt64(upper)
	if lok && hok && hi < lo {
		return ScalarConstant(s.Typ, numeric.Character{Kind: s.Typ.Kind})
	}
	if bc, ok := base.(*Constant); ok && len(bc.Elems) == 1 && lok && hok {
		if ch, ok := bc.Elems[0].(numeric.Character); ok {
			return ScalarConstant(s.Typ, ch.Substring(int(lo), int(hi)))
		}
	}
	return &Substring{Typ: s.Typ, Base: base, Lower: lower, Upper: upper}
}

func (ctx *FoldingContext) foldParentheses(p *Parentheses) Expr {
	x := Fold(ctx, p.X)
	// Parentheses are preserved around a folded constant operand (§4.3),
	// since (1+1) must still print as "(2)" and must not be treated as an
	// unparenthesized 2 by any subsequent reassociation elsewhere.
	return &Parentheses{Typ: p.Typ, X: x}
}

func (ctx *FoldingContext) foldNot(n *Not) Expr {
	return ctx.foldUnary(n.X, n.Typ, scalarNot, func(x Expr) Expr {
		return &Not{Typ: n.Typ, X: x}
	})
}

func scalarNot(ctx *FoldingContext, resultType kind.DynamicType, x any) (any, bool) {
	l, ok := asLogical(x)
	if !ok {
		return nil, false
	}
	return numeric.Not(l), true
}

func (ctx *FoldingContext) foldNegate(n *Negate) Expr {
	return ctx.foldUnary(n.X, n.Typ, scalarNegate, func(x Expr) Expr {
		return &Negate{Typ: n.Typ, X: x}
	})
}

func scalarNegate(ctx *FoldingContext, resultType kind.DynamicType, x any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		xi, ok := asInteger(x)
		if !ok {
			return nil, false
		}
		v, overflow := xi.Negate()
		if overflow {
			ctx.Messages.Say(severityWarning(), "INTEGER(%d) negation overflowed", resultType.Kind)
		}
		return v, true
	case kind.Real:
		xr, ok := asReal(x)
		if !ok {
			return nil, false
		}
		return xr.Negate(), true
	case kind.Complex:
		xc, ok := asComplex(x)
		if !ok {
			return nil, false
		}
		return numeric.NewComplex(xc.Re.Negate(), xc.Im.Negate()), true
	}
	return nil, false
}

func (ctx *FoldingContext) foldConvert(c *Convert) Expr {
	return ctx.foldUnary(c.X, c.Typ, scalarConvert, func(x Expr) Expr {
		return &Convert{Typ: c.Typ, X: x}
	})
}

func scalarConvert(ctx *FoldingContext, resultType kind.DynamicType, x any) (any, bool) {
	switch resultType.Category {
	case kind.Integer:
		switch v := x.(type) {
		case numeric.Integer:
			r, overflow := v.ConvertSigned(resultType.Kind)
			if overflow {
				ctx.Messages.Say(severityWarning(), "INTEGER(%d) conversion overflowed", resultType.Kind)
			}
			return r, true
		case numeric.Real:
			r, flags := v.ToInteger(resultType.Kind)
			ctx.reportRealFlags("to-integer conversion", resultType.Kind, flags)
			return r, true
		case numeric.Logical:
			return numeric.Bool2Int(resultType.Kind, v), true
		}
	case kind.Real:
		switch v := x.(type) {
		case numeric.Real:
			r, flags := v.Convert(resultType.Kind)
			ctx.reportRealFlags("conversion", resultType.Kind, flags)
			return r, true
		case numeric.Integer:
			r, flags := numeric.FromInteger(resultType.Kind, v)
			ctx.reportRealFlags("from-integer conversion", resultType.Kind, flags)
			return r, true
		}
	case kind.Complex:
		switch v := x.(type) {
		case numeric.Complex:
			re, f1 := v.Re.Convert(resultType.Kind)
			im, f2 := v.Im.Convert(resultType.Kind)
			ctx.reportRealFlags("conversion", resultType.Kind, f1.Merge(f2))
			return numeric.NewComplex(re, im), true
		case numeric.Real:
			re := numeric.NewReal(resultType.Kind, v.Val)
			im := numeric.NewReal(resultType.Kind, 0)
			return numeric.NewComplex(re, im), true
		}
	case kind.Character:
		cv, ok := asCharacter(x)
		if !ok {
			return nil, false
		}
		return cv.ConvertKind(resultType.Kind)
	case kind.Logical:
		switch v := x.(type) {
		case numeric.Logical:
			return numeric.NewLogical(resultType.Kind, v.Val), true
		case numeric.Integer:
			return numeric.Int2Bool(v), true
		}
	}
	return nil, false
}

func (ctx *FoldingContext) foldBinaryArith(b *BinaryArith) Expr {
	op := binaryArithOp(b.Op)
	return ctx.foldBinary(b.X, b.Y, b.Typ, op, func(x, y Expr) Expr {
		return &BinaryArith{Op: b.Op, Typ: b.Typ, X: x, Y: y}
	})
}

func binaryArithOp(op token.Token) scalarBinaryOp {
	switch op {
	case token.Add:
		return scalarAdd
	case token.Sub:
		return scalarSubtract
	case token.Mul:
		return scalarMultiply
	case token.Div:
		return scalarDivide
	default: // token.Pow
		return scalarPower
	}
}

func (ctx *FoldingContext) foldExtremum(e *Extremum) Expr {
	return ctx.foldBinary(e.X, e.Y, e.Typ, scalarExtremum(e.Ordering), func(x, y Expr) Expr {
		return &Extremum{Typ: e.Typ, Ordering: e.Ordering, X: x, Y: y}
	})
}

func (ctx *FoldingContext) foldRelational(r *Relational) Expr {
	op := scalarRelational(r.Op)
	return ctx.foldBinary(r.X, r.Y, kind.LogicalResult, op, func(x, y Expr) Expr {
		return &Relational{Op: r.Op, X: x, Y: y}
	})
}

func (ctx *FoldingContext) foldLogicalOperation(l *LogicalOperation) Expr {
	op := scalarLogicalOp(l.Op)
	return ctx.foldBinary(l.X, l.Y, l.Typ, op, func(x, y Expr) Expr {
		return &LogicalOperation{Op: l.Op, Typ: l.Typ, X: x, Y: y}
	})
}

func (ctx *FoldingContext) foldConcat(c *Concat) Expr {
	return ctx.foldBinary(c.X, c.Y, c.Typ, scalarConcat, func(x, y Expr) Expr {
		return &Concat{Typ: c.Typ, X: x, Y: y}
	})
}

func (ctx *FoldingContext) foldSetLength(s *SetLength) Expr {
	x := Fold(ctx, s.X)
	length := Fold(ctx, s.Length)
	n, ok := constInt64(length)
	if !ok {
		return &SetLength{Typ: s.Typ, X: x, Length: length}
	}
	xc, ok := x.(*Constant)
	if !ok {
		return &SetLength{Typ: s.Typ, X: x, Length: length}
	}
	if len(xc.Shape) == 0 {
		ch, ok := xc.Elems[0].(numeric.Character)
		if !ok {
			return &SetLength{Typ: s.Typ, X: x, Length: length}
		}
		return ScalarConstant(s.Typ, ch.SetLength(int(n)))
	}
	elems := make([]any, len(xc.Elems))
	for i, e := range xc.Elems {
		ch, ok := e.(numeric.Character)
		if !ok {
			return &SetLength{Typ: s.Typ, X: x, Length: length}
		}
		elems[i] = ch.SetLength(int(n))
	}
	return &Constant{Typ: s.Typ, Shape: xc.Shape, Elems: elems}
}

func (ctx *FoldingContext) foldComplexComponent(c *ComplexComponent) Expr {
	op := func(ctx *FoldingContext, resultType kind.DynamicType, x any) (any, bool) {
		cv, ok := asComplex(x)
		if !ok {
			return nil, false
		}
		if c.Imaginary {
			return cv.AIMAG(), true
		}
		return cv.REAL(), true
	}
	return ctx.foldUnary(c.X, c.Typ, op, func(x Expr) Expr {
		return &ComplexComponent{Typ: c.Typ, Imaginary: c.Imaginary, X: x}
	})
}

func (ctx *FoldingContext) foldComplexConstructor(c *ComplexConstructor) Expr {
	op := func(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
		re, reFlags := asRealLike(x, resultType.Kind)
		im, imFlags := asRealLike(y, resultType.Kind)
		ctx.reportRealFlags("complex construction", resultType.Kind, reFlags.Merge(imFlags))
		return numeric.NewComplex(re, im), true
	}
	return ctx.foldBinary(c.Re, c.Im, c.Typ, op, func(x, y Expr) Expr {
		return &ComplexConstructor{Typ: c.Typ, Re: x, Im: y}
	})
}

// asRealLike converts an Integer or Real scalar to Real of kind, the way
// CMPLX's arguments are each independently converted before pairing.
func asRealLike(x any, kindN int) (numeric.Real, numeric.RealFlags) {
	switch v := x.(type) {
	case numeric.Real:
		r, flags := v.Convert(kindN)
		return r, flags
	case numeric.Integer:
		return numeric.FromInteger(kindN, v)
	}
	return numeric.NewReal(kindN, 0), numeric.RealFlags{InvalidArgument: true}
}

func (ctx *FoldingContext) foldRealToIntPower(r *RealToIntPower) Expr {
	op := func(ctx *FoldingContext, resultType kind.DynamicType, x, y any) (any, bool) {
		base, xok := asReal(x)
		exp, yok := asInteger(y)
		if !xok || !yok {
			return nil, false
		}
		return realToIntPower(ctx, resultType, base, exp)
	}
	return ctx.foldBinary(r.Base, r.Exponent, r.Typ, op, func(x, y Expr) Expr {
		return &RealToIntPower{Typ: r.Typ, Base: x, Exponent: y}
	})
}

// realToIntPower evaluates base**exp by repeated squaring, per §4.3's
// "defined by repeated squaring" directive (rather than delegating to a
// generic floating pow, which would not match Fortran's required integer
// exponent semantics for negative and zero exponents).
func realToIntPower(ctx *FoldingContext, resultType kind.DynamicType, base numeric.Real, exp numeric.Integer) (any, bool) {
	e, ok := exp.ToInt64()
	if !ok {
		return nil, false
	}
	neg := e < 0
	if neg {
		e = -e
	}
	result := numeric.NewReal(resultType.Kind, 1)
	b := base
	var flags numeric.RealFlags
	for e > 0 {
		if e&1 == 1 {
			var f numeric.RealFlags
			result, f = result.Multiply(b, ctx.Rounding)
			flags = flags.Merge(f)
		}
		var f numeric.RealFlags
		b, f = b.Multiply(b, ctx.Rounding)
		flags = flags.Merge(f)
		e >>= 1
	}
	if neg {
		one := numeric.NewReal(resultType.Kind, 1)
		var f numeric.RealFlags
		result, f = one.Divide(result, ctx.Rounding)
		flags = flags.Merge(f)
	}
	ctx.reportRealFlags("exponentiation", resultType.Kind, flags)
	return result, true
}

func (ctx *FoldingContext) foldImpliedDoIndexRef(r *ImpliedDoIndexRef) Expr {
	v, ok := ctx.impliedDoValue(r.Name)
	if !ok {
		return r
	}
	return ScalarConstant(kind.SubscriptInteger, v)
}

func (ctx *FoldingContext) foldStructureConstructor(s *StructureConstructor) Expr {
	fields := make(map[string]Expr, len(s.Fields))
	for _, name := range s.Order {
		fields[name] = Fold(ctx, s.Fields[name])
	}
	return &StructureConstructor{Typ: s.Typ, Order: s.Order, Fields: fields}
}
