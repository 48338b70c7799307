package fold90

import (
	"strings"

	"github.com/soypat/fold90/intrinsic"
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
)

// shapeIntrinsics need the argument's Expr tree (for GetShape), not just
// its folded value, so they are dispatched here rather than in the
// value-level intrinsic package.
var shapeIntrinsics = map[string]bool{
	"size": true, "shape": true, "rank": true, "len": true, "kind": true,
}

// constExprIntrinsics is the allowlist of intrinsics SPEC_FULL §D.4 names
// as usable inside a constant expression purely by virtue of their
// argument's declared kind, independent of whether the argument itself is
// constant: KIND(x) is always foldable to a literal, since an object's
// kind type parameter is fixed at compile time even when its value isn't.
var constExprIntrinsics = map[string]bool{
	"kind": true,
}

// foldFunctionRef is the intrinsic half of §4.5: non-intrinsic calls, and
// intrinsic names this core does not recognize, are left unfolded. Shape
// queries are resolved directly against the (unfolded) argument's Expr
// tree; everything else folds its arguments first and defers to the
// value-level intrinsic.Dispatch table.
func (ctx *FoldingContext) foldFunctionRef(f *FunctionRef) Expr {
	if !f.Intrinsic {
		args := make([]Expr, len(f.Args))
		for i, a := range f.Args {
			args[i] = Fold(ctx, a)
		}
		return &FunctionRef{Typ: f.Typ, Name: f.Name, Intrinsic: f.Intrinsic, Args: args, ArgNames: f.ArgNames}
	}
	name := strings.ToLower(f.Name)
	if shapeIntrinsics[name] {
		if result, ok := ctx.foldShapeIntrinsic(name, f); ok {
			return result
		}
		return f
	}

	args := make([]Expr, len(f.Args))
	for i, a := range f.Args {
		args[i] = Fold(ctx, a)
	}
	rebuild := &FunctionRef{Typ: f.Typ, Name: f.Name, Intrinsic: true, Args: args, ArgNames: f.ArgNames}

	scalarArgs, ok := marshalScalarArgs(name, f.Typ, args)
	if !ok {
		return rebuild
	}
	v, ok := intrinsic.Dispatch(ctx.HostLibrary, &ctx.Messages, name, f.Typ, scalarArgs)
	if !ok {
		return rebuild
	}
	return ScalarConstant(f.Typ, v)
}

// foldShapeIntrinsic resolves size/shape/rank/len/kind directly against
// the argument's (possibly non-constant) Expr tree via GetShape, per
// §4.6: these results depend only on declared shape and type, never on
// an argument's runtime value.
func (ctx *FoldingContext) foldShapeIntrinsic(name string, f *FunctionRef) (Expr, bool) {
	arg, ok := f.Arg("array", 0)
	if !ok {
		arg, ok = f.Arg("a", 0)
	}
	if !ok {
		return nil, false
	}
	switch name {
	case "rank":
		return ScalarConstant(f.Typ, numeric.NewInteger(f.Typ.Kind, int64(arg.Rank()))), true
	case "kind":
		return ScalarConstant(f.Typ, numeric.NewInteger(f.Typ.Kind, int64(arg.Type().Kind))), true
	case "len":
		if arg.Type().Category != kind.Character {
			return nil, false
		}
		return ctx.foldLenIntrinsic(f.Typ, arg)
	case "size":
		shape, ok := ctx.GetShape(arg)
		if !ok {
			return nil, false
		}
		if dimArg, hasDim := f.Arg("dim", 1); hasDim {
			dim, ok := constInt64(Fold(ctx, dimArg))
			if !ok {
				return nil, false
			}
			if dim < 1 || int(dim) > len(shape) {
				ctx.Messages.Say(severityErr(), "size(array,dim=%d) dimension is out of range for rank-%d array", dim, len(shape))
				return nil, false
			}
			e, ok := shape[dim-1].Get()
			if !ok {
				return nil, false
			}
			return e, true
		}
		size := GetSize(shape)
		n, ok := size.Get()
		if !ok {
			return nil, false
		}
		return ScalarConstant(f.Typ, numeric.NewInteger(f.Typ.Kind, n)), true
	case "shape":
		shape, ok := ctx.GetShape(arg)
		if !ok {
			return nil, false
		}
		extents, ok := AsConstantExtents(shape)
		if !ok {
			return nil, false
		}
		elems := make([]any, len(extents))
		for i, e := range extents {
			elems[i] = numeric.NewInteger(f.Typ.Kind, e)
		}
		return &Constant{Typ: f.Typ, Shape: []int64{int64(len(extents))}, Elems: elems}, true
	}
	return nil, false
}

func (ctx *FoldingContext) foldLenIntrinsic(resultType kind.DynamicType, arg Expr) (Expr, bool) {
	folded := Fold(ctx, arg)
	c, ok := folded.(*Constant)
	if !ok || len(c.Elems) == 0 {
		return nil, false
	}
	ch, ok := c.Elems[0].(numeric.Character)
	if !ok {
		return nil, false
	}
	return ScalarConstant(resultType, numeric.NewInteger(resultType.Kind, int64(ch.Len()))), true
}

// marshalScalarArgs extracts each folded argument's flat scalar value for
// the value-level dispatch table, applying the marshalling rules §4.5
// calls for: BOZ literals are reinterpreted (never range-checked) into
// the result type's kind, and bge/bgt/ble/blt widen mixed
// Integer kinds to the larger of the two before comparing.
func marshalScalarArgs(name string, result kind.DynamicType, args []Expr) ([]intrinsic.Scalar, bool) {
	scalars := make([]intrinsic.Scalar, len(args))
	for i, a := range args {
		if boz, ok := a.(*BOZLiteralConstant); ok {
			scalars[i] = numeric.Integer{Kind: result.Kind, Val: boz.Bits}.ConvertUnsigned(result.Kind)
			continue
		}
		c, ok := a.(*Constant)
		if !ok || len(c.Elems) != 1 {
			return nil, false
		}
		scalars[i] = c.Elems[0]
	}
	switch name {
	case "bge", "bgt", "ble", "blt", "dshiftl", "dshiftr", "merge_bits":
		widenIntegerArgs(scalars)
	}
	return scalars, true
}

// widenIntegerArgs converts every Integer scalar argument to the widest
// kind present among them, the same rule §4.5 applies to BGE/BGT/BLE/BLT
// and the double-shift intrinsics before their bitwise comparison.
func widenIntegerArgs(scalars []intrinsic.Scalar) {
	widest := 0
	for _, s := range scalars {
		if i, ok := s.(numeric.Integer); ok && i.Kind > widest {
			widest = i.Kind
		}
	}
	for i, s := range scalars {
		if v, ok := s.(numeric.Integer); ok && v.Kind != widest {
			scalars[i] = v.ConvertUnsigned(widest)
		}
	}
}

// foldTypeParamInquiry resolves a type parameter against the folding
// context's bound PDT instance (SPEC_FULL §D.1); with no base expression
// the inquiry names a bare type parameter of the instance itself. A KIND
// parameter inquiry with a Base folds to the Base's kind even when no
// PDTInstance was supplied, because kind is fixed at compile time
// (SPEC_FULL §D.4's constant-expression allowlist rationale applies
// equally here). Any other inquiry not bound by a PDT instance, including
// a bare KIND parameter with no Base, is left unfolded.
func (ctx *FoldingContext) foldTypeParamInquiry(t *TypeParamInquiry) Expr {
	if ctx.PDT != nil {
		if v, ok := ctx.PDT.Params[t.ParamName]; ok {
			return Fold(ctx, v)
		}
	}
	if t.IsKindParam && t.Base != nil {
		return ScalarConstant(t.Typ, numeric.NewInteger(t.Typ.Kind, int64(t.Base.Type().Kind)))
	}
	return t
}
