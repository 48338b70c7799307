// Package intrinsic implements the value-level half of the folder's
// intrinsic-function dispatch table (§4.5 of the specification): the
// elementwise math, bitwise and complex-construction intrinsics, each
// evaluated directly on already-folded numeric.Scalar arguments.
//
// Shape-aware intrinsics (size, shape, rank, len, kind) need the operand's
// Expr tree, not just its scalar value, so they are dispatched by the root
// package instead of here; see fold90's intrinsics.go. Keeping this package
// free of any Expr dependency avoids an import cycle (fold90 -> intrinsic
// would otherwise become intrinsic -> fold90 -> intrinsic) and mirrors the
// teacher's own intrinsic/math.go, which likewise never imports the parser
// or AST packages it is used from.
package intrinsic

import (
	"math"

	"github.com/soypat/fold90/diag"
	"github.com/soypat/fold90/hostlib"
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
)

// Scalar is one of numeric.Integer, numeric.Real, numeric.Complex,
// numeric.Character or numeric.Logical: a folded argument value.
type Scalar any

// ishftAliases resolves the specification's documented Open Question: the
// original front end spells one branch of its integer intrinsic dispatch
// "ibshft" where every other branch (and the standard) spells it "ishft".
// Accepting both names here means a tree built against either spelling
// still folds, matching the source's observable behavior without silently
// "fixing" the call site that triggers the typo.
var ishftAliases = map[string]string{
	"ibshft": "ishft",
}

func canonicalName(name string) string {
	if c, ok := ishftAliases[name]; ok {
		return c
	}
	return name
}

// Dispatch evaluates the named intrinsic against already-folded scalar
// arguments. ok is false when the name is unrecognized or the arguments
// don't match the intrinsic's expected shape; callers must leave the
// FunctionRef unfolded in that case, per §7 kind 3 (Unfoldable).
func Dispatch(lib *hostlib.Library, msgs *diag.Messages, name string, result kind.DynamicType, args []Scalar) (Scalar, bool) {
	name = canonicalName(name)
	switch name {
	case "abs":
		return dispatchAbs(args, result)
	case "dim":
		if i0, i1, ok := two[numeric.Integer](args); ok {
			return i0.DIM(i1), true
		}
	case "iand":
		if a, b, ok := two[numeric.Integer](args); ok {
			return a.IAND(b), true
		}
	case "ior":
		if a, b, ok := two[numeric.Integer](args); ok {
			return a.IOR(b), true
		}
	case "ieor":
		if a, b, ok := two[numeric.Integer](args); ok {
			return a.IEOR(b), true
		}
	case "not":
		if a, ok := one[numeric.Integer](args); ok {
			return a.Not(), true
		}
	case "ibclr":
		if a, pos, ok := intAndInt(args); ok {
			return a.IBCLR(pos), true
		}
	case "ibset":
		if a, pos, ok := intAndInt(args); ok {
			return a.IBSET(pos), true
		}
	case "ishft":
		if a, n, ok := intAndInt(args); ok {
			return a.ISHFT(n), true
		}
	case "shifta":
		if a, n, ok := intAndInt(args); ok {
			return a.SHIFTA(n), true
		}
	case "shiftl":
		if a, n, ok := intAndInt(args); ok {
			return a.SHIFTL(n), true
		}
	case "shiftr":
		if a, n, ok := intAndInt(args); ok {
			return a.SHIFTR(n), true
		}
	case "dshiftl":
		if len(args) == 3 {
			if a, aok := args[0].(numeric.Integer); aok {
				if b, bok := args[1].(numeric.Integer); bok {
					if n, nok := asInt(args[2]); nok {
						return a.DSHIFTL(b, n), true
					}
				}
			}
		}
	case "dshiftr":
		if len(args) == 3 {
			if a, aok := args[0].(numeric.Integer); aok {
				if b, bok := args[1].(numeric.Integer); bok {
					if n, nok := asInt(args[2]); nok {
						return a.DSHIFTR(b, n), true
					}
				}
			}
		}
	case "merge_bits":
		if len(args) == 3 {
			i, iok := args[0].(numeric.Integer)
			j, jok := args[1].(numeric.Integer)
			m, mok := args[2].(numeric.Integer)
			if iok && jok && mok {
				return numeric.MergeBits(i, j, m), true
			}
		}
	case "maskl":
		if n, ok := asIntAny(args, 0); ok {
			return numeric.MASKL(result.Kind, n), true
		}
	case "maskr":
		if n, ok := asIntAny(args, 0); ok {
			return numeric.MASKR(result.Kind, n), true
		}
	case "leadz":
		if a, ok := one[numeric.Integer](args); ok {
			return numeric.NewInteger(4, int64(a.LEADZ())), true
		}
	case "trailz":
		if a, ok := one[numeric.Integer](args); ok {
			return numeric.NewInteger(4, int64(a.TRAILZ())), true
		}
	case "popcnt":
		if a, ok := one[numeric.Integer](args); ok {
			return numeric.NewInteger(4, int64(a.POPCNT())), true
		}
	case "poppar":
		if a, ok := one[numeric.Integer](args); ok {
			return numeric.NewInteger(4, int64(a.POPPAR())), true
		}
	case "bge", "bgt", "ble", "blt":
		if a, b, ok := two[numeric.Integer](args); ok {
			return dispatchB(name, a, b), true
		}
	case "aimag":
		if a, ok := one[numeric.Complex](args); ok {
			return a.AIMAG(), true
		}
	case "real":
		if a, ok := one[numeric.Complex](args); ok {
			return a.REAL(), true
		}
		if a, ok := one[numeric.Integer](args); ok {
			r, _ := numeric.FromInteger(result.Kind, a)
			return r, true
		}
		if a, ok := one[numeric.Real](args); ok {
			r, _ := a.Convert(result.Kind)
			return r, true
		}
	case "conjg":
		if a, ok := one[numeric.Complex](args); ok {
			return a.CONJG(), true
		}
	case "cmplx":
		if len(args) >= 1 {
			re, reok := toReal(args[0], result.Kind)
			if !reok {
				break
			}
			im := numeric.NewReal(result.Kind, 0)
			if len(args) >= 2 {
				if v, ok := toReal(args[1], result.Kind); ok {
					im = v
				}
			}
			return numeric.NewComplex(re, im), true
		}
	case "aint":
		if a, ok := one[numeric.Real](args); ok {
			return a.AINT(), true
		}
	case "anint":
		if a, ok := one[numeric.Real](args); ok {
			return a.ANINT(), true
		}
	case "dprod":
		if a, b, ok := two[numeric.Real](args); ok {
			wide, _ := a.Convert(8)
			wideB, _ := b.Convert(8)
			v, _ := wide.Multiply(wideB, numeric.ToNearest)
			return v, true
		}
	case "epsilon":
		return numeric.Epsilon(result.Kind), true
	case "sign":
		if a, b, ok := two[numeric.Real](args); ok {
			if f, hok := lib.LookupReal2("sign"); hok {
				return numeric.NewReal(result.Kind, f(a.Val, b.Val)), true
			}
		}
		if a, b, ok := two[numeric.Integer](args); ok {
			if b.Val.Sign() < 0 {
				av, _ := a.Abs()
				nv, _ := av.Negate()
				return nv, true
			}
			av, _ := a.Abs()
			return av, true
		}
	default:
		return dispatchHost(lib, msgs, name, result, args)
	}
	return nil, false
}

func dispatchB(name string, a, b numeric.Integer) numeric.Logical {
	switch name {
	case "bge":
		return numeric.NewLogical(1, a.BGE(b))
	case "bgt":
		return numeric.NewLogical(1, a.BGT(b))
	case "ble":
		return numeric.NewLogical(1, a.BLE(b))
	default:
		return numeric.NewLogical(1, a.BLT(b))
	}
}

func dispatchAbs(args []Scalar, result kind.DynamicType) (Scalar, bool) {
	if a, ok := one[numeric.Integer](args); ok {
		v, _ := a.Abs()
		return v, true
	}
	if a, ok := one[numeric.Real](args); ok {
		return a.Abs(), true
	}
	if a, ok := one[numeric.Complex](args); ok {
		re2, _ := a.Re.Multiply(a.Re, numeric.ToNearest)
		im2, _ := a.Im.Multiply(a.Im, numeric.ToNearest)
		sum, _ := re2.Add(im2, numeric.ToNearest)
		mag := numeric.NewReal(result.Kind, sqrt(sum.Val))
		return mag, true
	}
	return nil, false
}

// dispatchHost routes every remaining name (the elementary transcendentals)
// through the injected host library, emitting the specification's
// "cannot be folded on host" informational diagnostic when absent.
func dispatchHost(lib *hostlib.Library, msgs *diag.Messages, name string, result kind.DynamicType, args []Scalar) (Scalar, bool) {
	switch len(args) {
	case 1:
		if a, ok := one[numeric.Real](args); ok {
			f, hok := lib.LookupReal1(name)
			if !hok {
				if msgs != nil {
					msgs.Say(diagInfo(), "%s(real(kind=%d)) cannot be folded on host", name, a.Kind)
				}
				return nil, false
			}
			return numeric.NewReal(result.Kind, f(a.Val)), true
		}
		if a, ok := one[numeric.Complex](args); ok {
			f, hok := lib.LookupComplex1(name)
			if !hok {
				if msgs != nil {
					msgs.Say(diagInfo(), "%s(complex(kind=%d)) cannot be folded on host", name, a.Kind)
				}
				return nil, false
			}
			c := complex(a.Re.Val, a.Im.Val)
			r := f(c)
			return numeric.NewComplex(numeric.NewReal(result.Kind, real(r)), numeric.NewReal(result.Kind, imag(r))), true
		}
	case 2:
		if a, b, ok := two[numeric.Real](args); ok {
			f, hok := lib.LookupReal2(name)
			if !hok {
				if msgs != nil {
					msgs.Say(diagInfo(), "%s(real(kind=%d), real(kind=%d)) cannot be folded on host", name, a.Kind, b.Kind)
				}
				return nil, false
			}
			return numeric.NewReal(result.Kind, f(a.Val, b.Val)), true
		}
		if a, n, ok := realAndInt(args); ok {
			f, hok := lib.LookupReal2(name)
			if !hok {
				return nil, false
			}
			nf, _ := numeric.FromInteger(a.Kind, n)
			return numeric.NewReal(result.Kind, f(nf.Val, a.Val)), true
		}
	}
	return nil, false
}

func diagInfo() diag.Severity { return diag.Info }

func one[T any](args []Scalar) (T, bool) {
	var zero T
	if len(args) != 1 {
		return zero, false
	}
	v, ok := args[0].(T)
	return v, ok
}

func two[T any](args []Scalar) (T, T, bool) {
	var zero T
	if len(args) != 2 {
		return zero, zero, false
	}
	a, aok := args[0].(T)
	b, bok := args[1].(T)
	return a, b, aok && bok
}

func asInt(v Scalar) (int, bool) {
	i, ok := v.(numeric.Integer)
	if !ok {
		return 0, false
	}
	n, ok := i.ToInt64()
	return int(n), ok
}

func asIntAny(args []Scalar, idx int) (int, bool) {
	if idx >= len(args) {
		return 0, false
	}
	return asInt(args[idx])
}

func intAndInt(args []Scalar) (numeric.Integer, int, bool) {
	if len(args) != 2 {
		return numeric.Integer{}, 0, false
	}
	a, ok := args[0].(numeric.Integer)
	if !ok {
		return numeric.Integer{}, 0, false
	}
	n, ok := asInt(args[1])
	return a, n, ok
}

func realAndInt(args []Scalar) (numeric.Real, numeric.Integer, bool) {
	if len(args) != 2 {
		return numeric.Real{}, numeric.Integer{}, false
	}
	a, aok := args[0].(numeric.Real)
	n, nok := args[1].(numeric.Integer)
	return a, n, aok && nok
}

func toReal(v Scalar, kind int) (numeric.Real, bool) {
	switch x := v.(type) {
	case numeric.Real:
		r, _ := x.Convert(kind)
		return r, true
	case numeric.Integer:
		r, _ := numeric.FromInteger(kind, x)
		return r, true
	default:
		return numeric.Real{}, false
	}
}

func sqrt(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Sqrt(x)
}
