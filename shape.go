package fold90

import (
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
)

// Shape is an ordered sequence of optional scalar-integer expressions, one
// per dimension (§4.6). A slot's absence means the extent is unknown; a
// nil Shape (len 0) denotes a scalar.
type Shape []kind.Option[Expr]

// AsConstantExtents returns the shape's extents as a []int64 when every
// slot folds to a known Constant<SubscriptInteger>; ok is false otherwise.
func AsConstantExtents(s Shape) ([]int64, bool) {
	extents := make([]int64, len(s))
	for i, slot := range s {
		e, ok := slot.Get()
		if !ok {
			return nil, false
		}
		c, ok := e.(*Constant)
		if !ok || len(c.Elems) != 1 {
			return nil, false
		}
		n, ok := c.Elems[0].(numeric.Integer)
		if !ok {
			return nil, false
		}
		v, ok := n.ToInt64()
		if !ok {
			return nil, false
		}
		extents[i] = v
	}
	return extents, true
}

// ShapeFromExtents builds a fully-known Shape out of constant extents,
// e.g. for a Constant's embedded shape descriptor.
func ShapeFromExtents(extents []int64) Shape {
	s := make(Shape, len(extents))
	for i, e := range extents {
		s[i] = kind.Some[Expr](ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(kind.SubscriptIntegerKind, e)))
	}
	return s
}

// CountTrips computes (upper-lower+stride)/stride, truncated toward zero
// and clamped at 0, the
// number of iterations a DO (or implied-DO) with the given bounds performs.
// nil values or a zero stride make the trip count unknown.
func CountTrips(lower, upper, stride *int64) kind.Option[int64] {
	if lower == nil || upper == nil || stride == nil || *stride == 0 {
		return kind.None[int64]()
	}
	n := (*upper - *lower + *stride) / *stride
	if n < 0 {
		n = 0
	}
	return kind.Some(n)
}

// GetSize computes PRODUCT(shape) when every extent is known.
func GetSize(s Shape) kind.Option[int64] {
	extents, ok := AsConstantExtents(s)
	if !ok {
		return kind.None[int64]()
	}
	n := int64(1)
	for _, e := range extents {
		n *= e
	}
	return kind.Some(n)
}

// GetShape infers expr's shape, per the rules in §4.6. The outer bool is
// false when the shape is not inferable at all; a present Shape may still
// contain unknown (None) slots.
func (ctx *FoldingContext) GetShape(expr Expr) (Shape, bool) {
	switch e := expr.(type) {
	case *Constant:
		return ShapeFromExtents(e.Shape), true
	case *Designator:
		return e.DeclShape, true
	case *ArrayRef:
		return arrayRefShape(ctx, e)
	case *Substring:
		return ctx.GetShape(e.Base)
	case *FunctionRef:
		// size/shape/rank always return a scalar or rank-1 result; the
		// function's own declared type rank stands, since the core does
		// not track array-valued intrinsic results beyond rank 1 array
		// constructors it builds itself.
		if e.Rank() == 0 {
			return Shape{}, true
		}
		return nil, false
	case *ArrayConstructor:
		extent := arrayConstructorExtent(ctx, e)
		return Shape{extent}, true
	case *Parentheses:
		return ctx.GetShape(e.X)
	case *Convert:
		return ctx.GetShape(e.X)
	case *Negate:
		return ctx.GetShape(e.X)
	case *Not:
		return ctx.GetShape(e.X)
	case *BinaryArith:
		return elementwiseShape(ctx, e.X, e.Y)
	case *LogicalOperation:
		return elementwiseShape(ctx, e.X, e.Y)
	case *Relational:
		return elementwiseShape(ctx, e.X, e.Y)
	case *Extremum:
		return elementwiseShape(ctx, e.X, e.Y)
	case *Concat:
		return elementwiseShape(ctx, e.X, e.Y)
	case *ComplexComponent:
		return ctx.GetShape(e.X)
	case *RealToIntPower:
		return elementwiseShape(ctx, e.Base, e.Exponent)
	case *ComplexConstructor:
		return elementwiseShape(ctx, e.Re, e.Im)
	case *SetLength:
		return ctx.GetShape(e.X)
	case *TypeParamInquiry:
		return Shape{}, true // always scalar, even applied to an array
	case *ImpliedDoIndexRef:
		return Shape{}, true
	case *StructureConstructor:
		return Shape{}, true
	case *BOZLiteralConstant:
		return Shape{}, true
	case *NullPointer:
		return Shape{}, true
	default:
		return nil, false
	}
}

// arrayRefShape composes an ArrayRef's shape from its section subscripts
// (§4.6): a scalar subscript drops its dimension entirely, a Triplet
// contributes CountTrips(lower,upper,stride) elements, and a vector
// subscript contributes its own rank-1 shape's single extent.
func arrayRefShape(ctx *FoldingContext, a *ArrayRef) (Shape, bool) {
	var out Shape
	for _, s := range a.Subscripts {
		switch {
		case s.Triplet != nil:
			lo, lok := constInt64(Fold(ctx, s.Triplet.Lower))
			hi, hok := constInt64(Fold(ctx, s.Triplet.Upper))
			st, sok := constInt64(Fold(ctx, s.Triplet.Stride))
			if !lok || !hok || !sok {
				out = append(out, kind.None[Expr]())
				continue
			}
			n, ok := CountTrips(&lo, &hi, &st).Get()
			if !ok {
				out = append(out, kind.None[Expr]())
				continue
			}
			out = append(out, kind.Some[Expr](ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(kind.SubscriptIntegerKind, n))))
		case s.Vector != nil:
			vshape, ok := ctx.GetShape(s.Vector)
			if !ok || len(vshape) != 1 {
				out = append(out, kind.None[Expr]())
				continue
			}
			out = append(out, vshape[0])
		}
	}
	return out, true
}

func elementwiseShape(ctx *FoldingContext, x, y Expr) (Shape, bool) {
	if y.Rank() > 0 {
		return ctx.GetShape(y)
	}
	return ctx.GetShape(x)
}

func arrayConstructorExtent(ctx *FoldingContext, ac *ArrayConstructor) kind.Option[Expr] {
	total := kind.Some(int64(0))
	for _, v := range ac.Values {
		n, ok := getExtentOf(ctx, v)
		if !ok {
			return kind.None[Expr]()
		}
		t, _ := total.Get()
		total = kind.Some(t + n)
	}
	n, _ := total.Get()
	return kind.Some[Expr](ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(kind.SubscriptIntegerKind, n)))
}

func getExtentOf(ctx *FoldingContext, v ArrayConstructorValue) (int64, bool) {
	if v.ImpliedDo != nil {
		ido := v.ImpliedDo
		if containsAnyImpliedDoIndex(ido.Lower) || containsAnyImpliedDoIndex(ido.Upper) || containsAnyImpliedDoIndex(ido.Stride) {
			// Triangular implied-DO nests give up, matching the source.
			return 0, false
		}
		lower, lok := constInt64(ido.Lower)
		upper, uok := constInt64(ido.Upper)
		stride, sok := constInt64(ido.Stride)
		if !lok || !uok || !sok {
			return 0, false
		}
		trips := CountTrips(&lower, &upper, &stride)
		tripsN, ok := trips.Get()
		if !ok {
			return 0, false
		}
		nValues := int64(0)
		for _, inner := range ido.Values {
			n, ok := getExtentOf(ctx, inner)
			if !ok {
				return 0, false
			}
			nValues += n
		}
		return nValues * tripsN, true
	}
	shape, ok := ctx.GetShape(v.Expr)
	if !ok {
		return 0, false
	}
	size := GetSize(shape)
	n, ok := size.Get()
	if !ok {
		return 0, false
	}
	return n, true
}

func constInt64(e Expr) (int64, bool) {
	c, ok := e.(*Constant)
	if !ok || len(c.Elems) != 1 {
		return 0, false
	}
	i, ok := c.Elems[0].(numeric.Integer)
	if !ok {
		return 0, false
	}
	return i.ToInt64()
}

// containsAnyImpliedDoIndex reports whether expr references any
// ImpliedDoIndexRef anywhere in its tree.
func containsAnyImpliedDoIndex(expr Expr) bool {
	if expr == nil {
		return false
	}
	found := false
	walk(expr, func(e Expr) bool {
		if _, ok := e.(*ImpliedDoIndexRef); ok {
			found = true
			return false
		}
		return !found
	})
	return found
}

// CheckConformance reports whether left and right have equal rank and equal
// extent wherever both are known, emitting a diagnostic on a detected
// mismatch (unknown extents are assumed to conform, since they cannot be
// proven otherwise at fold time).
func (ctx *FoldingContext) CheckConformance(left, right Shape, leftName, rightName string) bool {
	if len(left) != len(right) {
		ctx.Messages.Say(severityErr(), "%s and %s have different ranks (%d and %d) and are not conformable", leftName, rightName, len(left), len(right))
		return false
	}
	for i := range left {
		lv, lok := left[i].Get()
		rv, rok := right[i].Get()
		if !lok || !rok {
			continue
		}
		ln, lnok := constInt64(lv)
		rn, rnok := constInt64(rv)
		if !lnok || !rnok {
			continue
		}
		if ln != rn {
			ctx.Messages.Say(severityErr(), "%s and %s are not conformable in dimension %d (%d and %d)", leftName, rightName, i+1, ln, rn)
			return false
		}
	}
	return true
}
