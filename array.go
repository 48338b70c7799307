package fold90

import (
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
)

// AsFlatScalars returns expr's elements flattened in array-element order
// when expr is a Constant of any rank, or an ArrayConstructor built
// entirely of scalar Constant values with no implied-DO (a common shape
// after folding operands depth-first). ok is false for anything else,
// including an ArrayConstructor that still contains an unfolded value.
func AsFlatScalars(expr Expr) (elems []any, shape []int64, ok bool) {
	switch e := expr.(type) {
	case *Constant:
		return e.Elems, e.Shape, true
	case *ArrayConstructor:
		elems = make([]any, 0, len(e.Values))
		for _, v := range e.Values {
			if v.ImpliedDo != nil {
				return nil, nil, false
			}
			c, ok := v.Expr.(*Constant)
			if !ok || len(c.Shape) != 0 {
				return nil, nil, false
			}
			elems = append(elems, c.Elems[0])
		}
		return elems, []int64{int64(len(elems))}, true
	case *Parentheses:
		return AsFlatScalars(e.X)
	default:
		return nil, nil, false
	}
}

// liftElementwiseBinary implements the four MapOperation arities of §4.4
// for a binary scalar op: array-op-array (conformable, element by
// element), array-op-scalar and scalar-op-array (the scalar recomputed
// once per element; only sound when the scalar operand is expandable,
// i.e. free of function calls), falling through to false when neither
// operand is a flattenable constant array.
func (ctx *FoldingContext) liftElementwiseBinary(x, y Expr, resultType kind.DynamicType, op scalarBinaryOp) (Expr, bool) {
	xFlat, xShape, xok := AsFlatScalars(x)
	yFlat, yShape, yok := AsFlatScalars(y)
	// A rank-0 operand takes the scalar branches below, not the
	// array-op-array one.
	xok = xok && len(xShape) > 0
	yok = yok && len(yShape) > 0
	switch {
	case xok && yok:
		if !ctx.CheckConformance(ShapeFromExtents(xShape), ShapeFromExtents(yShape), "left operand", "right operand") {
			return nil, false
		}
		elems := make([]any, len(xFlat))
		for i := range xFlat {
			v, ok := op(ctx, resultType, xFlat[i], yFlat[i])
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return &Constant{Typ: resultType, Shape: xShape, Elems: elems}, true
	case xok && !yok && IsExpandableScalar(y):
		yc, ok := y.(*Constant)
		if !ok || len(yc.Elems) != 1 {
			return nil, false
		}
		elems := make([]any, len(xFlat))
		for i := range xFlat {
			v, ok := op(ctx, resultType, xFlat[i], yc.Elems[0])
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return &Constant{Typ: resultType, Shape: xShape, Elems: elems}, true
	case yok && !xok && IsExpandableScalar(x):
		xc, ok := x.(*Constant)
		if !ok || len(xc.Elems) != 1 {
			return nil, false
		}
		elems := make([]any, len(yFlat))
		for i := range yFlat {
			v, ok := op(ctx, resultType, xc.Elems[0], yFlat[i])
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return &Constant{Typ: resultType, Shape: yShape, Elems: elems}, true
	default:
		return nil, false
	}
}

// scalarUnaryOp computes a unary scalar operation; see scalarBinaryOp.
type scalarUnaryOp func(ctx *FoldingContext, resultType kind.DynamicType, x any) (any, bool)

// liftElementwiseUnary is MapOperation's unary arity: applying a scalar
// op once per element of a flattenable constant array.
func (ctx *FoldingContext) liftElementwiseUnary(x Expr, resultType kind.DynamicType, op scalarUnaryOp) (Expr, bool) {
	xFlat, xShape, ok := AsFlatScalars(x)
	if !ok {
		return nil, false
	}
	elems := make([]any, len(xFlat))
	for i, v := range xFlat {
		r, ok := op(ctx, resultType, v)
		if !ok {
			return nil, false
		}
		elems[i] = r
	}
	return &Constant{Typ: resultType, Shape: xShape, Elems: elems}, true
}

// foldBinary is the shared four-step rewrite §4.3 describes for every
// binary scalar/elementwise operation: fold both operands; if either has
// rank>0 attempt the elementwise lift; otherwise attempt direct scalar
// constant evaluation; failing both, rebuild with the folded operands.
func (ctx *FoldingContext) foldBinary(x, y Expr, resultType kind.DynamicType, op scalarBinaryOp, rebuild func(x, y Expr) Expr) Expr {
	x = Fold(ctx, x)
	y = Fold(ctx, y)
	if x.Rank() > 0 || y.Rank() > 0 {
		if res, ok := ctx.liftElementwiseBinary(x, y, resultType, op); ok {
			return res
		}
		return rebuild(x, y)
	}
	xc, xok := x.(*Constant)
	yc, yok := y.(*Constant)
	if xok && yok && len(xc.Elems) == 1 && len(yc.Elems) == 1 {
		if v, ok := op(ctx, resultType, xc.Elems[0], yc.Elems[0]); ok {
			return ScalarConstant(resultType, v)
		}
	}
	return rebuild(x, y)
}

// foldUnary is foldBinary's one-operand counterpart.
func (ctx *FoldingContext) foldUnary(x Expr, resultType kind.DynamicType, op scalarUnaryOp, rebuild func(x Expr) Expr) Expr {
	x = Fold(ctx, x)
	if x.Rank() > 0 {
		if res, ok := ctx.liftElementwiseUnary(x, resultType, op); ok {
			return res
		}
		return rebuild(x)
	}
	xc, ok := x.(*Constant)
	if ok && len(xc.Elems) == 1 {
		if v, ok := op(ctx, resultType, xc.Elems[0]); ok {
			return ScalarConstant(resultType, v)
		}
	}
	return rebuild(x)
}

// foldArrayConstructor reduces an ArrayConstructor to a Constant when
// every value folds to a constant, unrolling implied-DOs whose bounds are
// themselves constant (§4.4). A stride of zero, or any bound that fails
// to fold to a constant SubscriptInteger, leaves the corresponding
// ImpliedDo (and hence the whole array constructor) unreduced.
func (ctx *FoldingContext) foldArrayConstructor(ac *ArrayConstructor) Expr {
	values := make([]ArrayConstructorValue, len(ac.Values))
	allConst := true
	for i, v := range ac.Values {
		folded, ok := ctx.foldACValue(v)
		if !ok {
			allConst = false
		}
		values[i] = folded
	}
	if !allConst {
		return &ArrayConstructor{Typ: ac.Typ, Length: ac.Length, Values: values}
	}
	elems := make([]any, 0, len(values))
	for _, v := range values {
		c := v.Expr.(*Constant)
		elems = append(elems, c.Elems...)
	}
	if ac.Typ.Category == kind.Character && ac.Length != nil {
		var ok bool
		if elems, ok = applyCharacterLength(ctx, ac, elems); !ok {
			return &ArrayConstructor{Typ: ac.Typ, Length: ac.Length, Values: values}
		}
	}
	return &Constant{Typ: ac.Typ, Shape: []int64{int64(len(elems))}, Elems: elems}
}

// applyCharacterLength enforces the requirement (SPEC_FULL §D.5) that
// every element of a Character array constructor share Length's constant
// value, set-lengthing each element that doesn't already match. ok is
// false when Length does not fold to a constant integer.
func applyCharacterLength(ctx *FoldingContext, ac *ArrayConstructor, elems []any) ([]any, bool) {
	length := Fold(ctx, ac.Length)
	lc, ok := length.(*Constant)
	if !ok || len(lc.Elems) != 1 {
		return elems, false
	}
	n64, ok := lc.Elems[0].(numeric.Integer)
	if !ok {
		return elems, false
	}
	n, ok := n64.ToInt64()
	if !ok {
		return elems, false
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		ch, ok := e.(numeric.Character)
		if !ok {
			out[i] = e
			continue
		}
		out[i] = ch.SetLength(int(n))
	}
	return out, true
}

// foldACValue folds one array-constructor element: a plain Expr (folded
// and wrapped back up if it reduces to a scalar or array Constant) or an
// ImpliedDo unrolled across its bound trip count, ok reporting whether
// the whole value reduced to a constant.
func (ctx *FoldingContext) foldACValue(v ArrayConstructorValue) (ArrayConstructorValue, bool) {
	if v.ImpliedDo == nil {
		folded := Fold(ctx, v.Expr)
		_, isConst := folded.(*Constant)
		return ArrayConstructorValue{Expr: folded}, isConst
	}
	ido := v.ImpliedDo
	lower := Fold(ctx, ido.Lower)
	upper := Fold(ctx, ido.Upper)
	stride := Fold(ctx, ido.Stride)
	lo, lok := constInt64(lower)
	hi, hok := constInt64(upper)
	st, sok := constInt64(stride)
	if !lok || !hok || !sok || st == 0 {
		return ArrayConstructorValue{ImpliedDo: &ImpliedDo{
			Name: ido.Name, Lower: lower, Upper: upper, Stride: stride, Values: ido.Values,
		}}, false
	}
	var allElems []any
	ok := true
	for i := lo; (st > 0 && i <= hi) || (st < 0 && i >= hi); i += st {
		ctx.StartImpliedDo(ido.Name, numeric.NewInteger(kind.SubscriptIntegerKind, i))
		for _, inner := range ido.Values {
			folded, fok := ctx.foldACValue(inner)
			if !fok {
				ok = false
				continue
			}
			c := folded.Expr.(*Constant)
			allElems = append(allElems, c.Elems...)
		}
		ctx.EndImpliedDo(ido.Name)
	}
	if !ok {
		return ArrayConstructorValue{ImpliedDo: ido}, false
	}
	typ := kind.DynamicType{}
	if len(ido.Values) > 0 && ido.Values[0].Expr != nil {
		typ = ido.Values[0].Expr.Type()
	}
	return ArrayConstructorValue{Expr: &Constant{Typ: typ, Shape: []int64{int64(len(allElems))}, Elems: allElems}}, true
}
