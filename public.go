package fold90

import (
	"strings"

	"github.com/soypat/fold90/numeric"
)

// IsConstantExpr reports whether expr is a constant expression per the
// standard's definition (§10.1.12): built only from literal constants,
// named PARAMETER designators, operators, and intrinsic-function
// references whose every argument is itself constant — with the single
// carve-out SPEC_FULL §D.4 documents for KIND(x), which is constant
// regardless of x's own constancy because an entity's kind type
// parameter never varies at run time.
func IsConstantExpr(expr Expr) bool {
	switch e := expr.(type) {
	case *Constant:
		return true
	case *Designator:
		return e.Parameter
	case *ArrayRef:
		if !IsConstantExpr(e.Base) {
			return false
		}
		for _, s := range e.Subscripts {
			if !isConstantSubscript(s) {
				return false
			}
		}
		return true
	case *Substring:
		return IsConstantExpr(e.Base) && IsConstantExpr(e.Lower) && IsConstantExpr(e.Upper)
	case *FunctionRef:
		if !e.Intrinsic {
			return false
		}
		if constExprIntrinsics[strings.ToLower(e.Name)] {
			return true
		}
		for _, a := range e.Args {
			if !IsConstantExpr(a) {
				return false
			}
		}
		return true
	case *ArrayConstructor:
		for _, v := range e.Values {
			if !isConstantACValue(v) {
				return false
			}
		}
		return true
	case *ImpliedDoIndexRef:
		return false
	case *NullPointer:
		return true
	case *BOZLiteralConstant:
		return true
	case *StructureConstructor:
		for _, name := range e.Order {
			if !IsConstantExpr(e.Fields[name]) {
				return false
			}
		}
		return true
	case *TypeParamInquiry:
		return e.IsKindParam
	case *Parentheses:
		return IsConstantExpr(e.X)
	case *Convert:
		return IsConstantExpr(e.X)
	case *Negate:
		return IsConstantExpr(e.X)
	case *Not:
		return IsConstantExpr(e.X)
	case *ComplexComponent:
		return IsConstantExpr(e.X)
	case *SetLength:
		return IsConstantExpr(e.X) && IsConstantExpr(e.Length)
	case *BinaryArith:
		return IsConstantExpr(e.X) && IsConstantExpr(e.Y)
	case *Extremum:
		return IsConstantExpr(e.X) && IsConstantExpr(e.Y)
	case *Concat:
		return IsConstantExpr(e.X) && IsConstantExpr(e.Y)
	case *LogicalOperation:
		return IsConstantExpr(e.X) && IsConstantExpr(e.Y)
	case *Relational:
		return IsConstantExpr(e.X) && IsConstantExpr(e.Y)
	case *RealToIntPower:
		return IsConstantExpr(e.Base) && IsConstantExpr(e.Exponent)
	case *ComplexConstructor:
		return IsConstantExpr(e.Re) && IsConstantExpr(e.Im)
	default:
		return false
	}
}

func isConstantSubscript(s Subscript) bool {
	switch {
	case s.Triplet != nil:
		return IsConstantExpr(s.Triplet.Lower) && IsConstantExpr(s.Triplet.Upper) && IsConstantExpr(s.Triplet.Stride)
	case s.Vector != nil:
		return IsConstantExpr(s.Vector)
	default:
		return IsConstantExpr(s.Scalar)
	}
}

func isConstantACValue(v ArrayConstructorValue) bool {
	if v.ImpliedDo == nil {
		return IsConstantExpr(v.Expr)
	}
	ido := v.ImpliedDo
	if !IsConstantExpr(ido.Lower) || !IsConstantExpr(ido.Upper) || !IsConstantExpr(ido.Stride) {
		return false
	}
	for _, inner := range ido.Values {
		if !isConstantACValue(inner) {
			return false
		}
	}
	return true
}

// ToInt64 extracts a native int64 from expr when it folds to a scalar
// Constant<SomeInteger>; it is a thin public wrapper over the same check
// shape analysis uses internally, exposed for callers that need a
// constant subscript or bound value (§6).
func ToInt64(ctx *FoldingContext, expr Expr) (int64, bool) {
	folded := Fold(ctx, expr)
	c, ok := folded.(*Constant)
	if !ok || len(c.Elems) != 1 {
		return 0, false
	}
	i, ok := c.Elems[0].(numeric.Integer)
	if !ok {
		return 0, false
	}
	return i.ToInt64()
}
