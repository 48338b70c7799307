package fold90

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/fold90/diag"
	"github.com/soypat/fold90/hostlib"
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
	"github.com/soypat/fold90/token"
)

var testI4 = kind.DynamicType{Category: kind.Integer, Kind: 4}
var testR8 = kind.DynamicType{Category: kind.Real, Kind: 8}
var testCh1 = kind.DynamicType{Category: kind.Character, Kind: 1}

func mustConstant(t *testing.T, e Expr) *Constant {
	t.Helper()
	c, ok := e.(*Constant)
	if !ok {
		t.Fatalf("fold result is %T, not *Constant", e)
	}
	return c
}

func TestFoldIntegerOverflowWarns(t *testing.T) {
	ctx := NewFoldingContext()
	expr := &BinaryArith{
		Op: token.Add, Typ: testI4,
		X: ScalarConstant(testI4, numeric.NewInteger(4, 2147483647)),
		Y: ScalarConstant(testI4, numeric.NewInteger(4, 1)),
	}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	i := c.Elems[0].(numeric.Integer)
	if i.Val.Int64() != -2147483648 {
		t.Errorf("INT32_MAX+1 = %v, want wrapped -2147483648", i.Val)
	}
	foundWarning := false
	for _, m := range ctx.Messages.Items() {
		if m.Severity == diag.Warning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Errorf("expected an overflow warning diagnostic")
	}
}

func TestFoldDivisionByZero(t *testing.T) {
	ctx := NewFoldingContext()
	expr := &BinaryArith{
		Op: token.Div, Typ: testR8,
		X: ScalarConstant(testR8, numeric.NewReal(8, 1)),
		Y: ScalarConstant(testR8, numeric.NewReal(8, 0)),
	}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	r := c.Elems[0].(numeric.Real)
	if !math.IsInf(r.Val, 1) {
		t.Errorf("1.0/0.0 = %v, want +Inf", r.Val)
	}
}

func TestFoldPowerZeroToZero(t *testing.T) {
	ctx := NewFoldingContext()
	expr := &BinaryArith{
		Op: token.Pow, Typ: testI4,
		X: ScalarConstant(testI4, numeric.NewInteger(4, 0)),
		Y: ScalarConstant(testI4, numeric.NewInteger(4, 0)),
	}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	if c.Elems[0].(numeric.Integer).Val.Int64() != 1 {
		t.Errorf("0**0 = %v, want 1", c.Elems[0])
	}
}

func TestFoldParenthesesPreserved(t *testing.T) {
	ctx := NewFoldingContext()
	expr := &Parentheses{
		Typ: testI4,
		X: &BinaryArith{
			Op: token.Add, Typ: testI4,
			X: ScalarConstant(testI4, numeric.NewInteger(4, 1)),
			Y: ScalarConstant(testI4, numeric.NewInteger(4, 1)),
		},
	}
	folded := Fold(ctx, expr)
	p, ok := folded.(*Parentheses)
	if !ok {
		t.Fatalf("fold result is %T, not *Parentheses", folded)
	}
	mustConstant(t, p.X)
	if string(folded.AppendString(nil)) != "(2)" {
		t.Errorf("rendered = %q, want %q", folded.AppendString(nil), "(2)")
	}
}

func TestFoldMinNaNFirstWins(t *testing.T) {
	ctx := NewFoldingContext()
	nan := ScalarConstant(testR8, numeric.NewReal(8, math.NaN()))
	three := ScalarConstant(testR8, numeric.NewReal(8, 3))
	expr := &Extremum{Typ: testR8, Ordering: PreferLess, X: nan, Y: three}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	if !c.Elems[0].(numeric.Real).IsNotANumber() {
		t.Errorf("MIN(NaN,3) should propagate NaN")
	}
}

func TestFoldExtremumTieReturnsX(t *testing.T) {
	ctx := NewFoldingContext()
	x := ScalarConstant(testI4, numeric.NewInteger(4, 5))
	y := ScalarConstant(testI4, numeric.NewInteger(4, 5))
	folded := Fold(ctx, &Extremum{Typ: testI4, Ordering: PreferGreater, X: x, Y: y})
	if mustConstant(t, folded).Elems[0].(numeric.Integer).Val.Int64() != 5 {
		t.Errorf("tie should still fold to 5")
	}
}

func TestFoldElementwiseArrayAdd(t *testing.T) {
	ctx := NewFoldingContext()
	x := &Constant{Typ: testI4, Shape: []int64{3}, Elems: []any{
		numeric.NewInteger(4, 1), numeric.NewInteger(4, 2), numeric.NewInteger(4, 3),
	}}
	y := &Constant{Typ: testI4, Shape: []int64{3}, Elems: []any{
		numeric.NewInteger(4, 10), numeric.NewInteger(4, 20), numeric.NewInteger(4, 30),
	}}
	folded := Fold(ctx, &BinaryArith{Op: token.Add, Typ: testI4, X: x, Y: y})
	c := mustConstant(t, folded)
	want := []int64{11, 22, 33}
	if len(c.Elems) != 3 {
		t.Fatalf("got %d elements, want 3", len(c.Elems))
	}
	for i, w := range want {
		if got := c.Elems[i].(numeric.Integer).Val.Int64(); got != w {
			t.Errorf("elem %d = %d, want %d", i, got, w)
		}
	}
}

func TestFoldElementwiseScalarExpansion(t *testing.T) {
	ctx := NewFoldingContext()
	arr := &Constant{Typ: testI4, Shape: []int64{2}, Elems: []any{
		numeric.NewInteger(4, 1), numeric.NewInteger(4, 2),
	}}
	scalar := ScalarConstant(testI4, numeric.NewInteger(4, 100))
	folded := Fold(ctx, &BinaryArith{Op: token.Add, Typ: testI4, X: arr, Y: scalar})
	c := mustConstant(t, folded)
	if c.Elems[0].(numeric.Integer).Val.Int64() != 101 || c.Elems[1].(numeric.Integer).Val.Int64() != 102 {
		t.Errorf("scalar expansion wrong: %v", c.Elems)
	}
}

func TestArrayConstructorShapeMatchesExtents(t *testing.T) {
	ctx := NewFoldingContext()
	ac := &ArrayConstructor{Typ: testI4, Values: []ArrayConstructorValue{
		{Expr: ScalarConstant(testI4, numeric.NewInteger(4, 1))},
		{Expr: ScalarConstant(testI4, numeric.NewInteger(4, 2))},
		{Expr: ScalarConstant(testI4, numeric.NewInteger(4, 3))},
	}}
	shape, ok := ctx.GetShape(ac)
	if !ok {
		t.Fatalf("GetShape should resolve a fully constant array constructor")
	}
	got, ok := AsConstantExtents(shape)
	if !ok {
		t.Fatalf("every extent should be a known constant")
	}
	if diff := cmp.Diff([]int64{3}, got); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
}

func TestFoldArrayConstructorAndSize(t *testing.T) {
	ctx := NewFoldingContext()
	ac := &ArrayConstructor{Typ: testI4, Values: []ArrayConstructorValue{
		{Expr: ScalarConstant(testI4, numeric.NewInteger(4, 1))},
		{Expr: ScalarConstant(testI4, numeric.NewInteger(4, 2))},
		{Expr: ScalarConstant(testI4, numeric.NewInteger(4, 3))},
	}}
	sizeCall := &FunctionRef{Typ: testI4, Name: "size", Intrinsic: true, Args: []Expr{ac}, ArgNames: []string{""}}
	folded := Fold(ctx, sizeCall)
	c := mustConstant(t, folded)
	if c.Elems[0].(numeric.Integer).Val.Int64() != 3 {
		t.Errorf("size(...) = %v, want 3", c.Elems[0])
	}
}

func TestFoldImpliedDoUnrolling(t *testing.T) {
	ctx := NewFoldingContext()
	ac := &ArrayConstructor{Typ: testI4, Values: []ArrayConstructorValue{
		{ImpliedDo: &ImpliedDo{
			Name:   "i",
			Lower:  ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 1)),
			Upper:  ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 3)),
			Stride: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 1)),
			Values: []ArrayConstructorValue{{Expr: &ImpliedDoIndexRef{Name: "i"}}},
		}},
	}}
	folded := Fold(ctx, ac)
	c := mustConstant(t, folded)
	if len(c.Elems) != 3 {
		t.Fatalf("unrolled implied-DO has %d elements, want 3", len(c.Elems))
	}
	for i, want := range []int64{1, 2, 3} {
		if got, _ := c.Elems[i].(numeric.Integer).ToInt64(); got != want {
			t.Errorf("elem %d = %d, want %d", i, got, want)
		}
	}
}

func TestFoldCharacterConcat(t *testing.T) {
	ctx := NewFoldingContext()
	expr := &Concat{
		Typ: testCh1,
		X:   ScalarConstant(testCh1, numeric.NewCharacterFromString("foo")),
		Y:   ScalarConstant(testCh1, numeric.NewCharacterFromString("bar")),
	}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	if got := c.Elems[0].(numeric.Character).String(); got != "foobar" {
		t.Errorf("concat = %q, want %q", got, "foobar")
	}
}

func TestFoldIntrinsicSqrtViaHost(t *testing.T) {
	ctx := NewFoldingContext(WithHostLibrary(hostlib.NewDefault()))
	call := &FunctionRef{Typ: testR8, Name: "sqrt", Intrinsic: true, Args: []Expr{
		ScalarConstant(testR8, numeric.NewReal(8, 4)),
	}, ArgNames: []string{""}}
	folded := Fold(ctx, call)
	c := mustConstant(t, folded)
	if c.Elems[0].(numeric.Real).Val != 2 {
		t.Errorf("sqrt(4) = %v, want 2", c.Elems[0])
	}
}

func TestFoldIntrinsicWithoutHostLeavesUnfolded(t *testing.T) {
	ctx := NewFoldingContext()
	call := &FunctionRef{Typ: testR8, Name: "sqrt", Intrinsic: true, Args: []Expr{
		ScalarConstant(testR8, numeric.NewReal(8, 4)),
	}, ArgNames: []string{""}}
	folded := Fold(ctx, call)
	if _, ok := folded.(*Constant); ok {
		t.Fatalf("sqrt with no host library should not fold to a constant")
	}
}

func TestIsConstantExprRejectsDesignatorNotParameter(t *testing.T) {
	d := &Designator{Typ: testI4, Name: "n", Parameter: false}
	if IsConstantExpr(d) {
		t.Errorf("a non-PARAMETER Designator is not a constant expression")
	}
	p := &Designator{Typ: testI4, Name: "n", Parameter: true}
	if !IsConstantExpr(p) {
		t.Errorf("a PARAMETER Designator is a constant expression")
	}
}

func TestIsConstantExprKindIntrinsicAllowsNonConstantArg(t *testing.T) {
	nonConst := &Designator{Typ: testR8, Name: "x", Parameter: false}
	call := &FunctionRef{Typ: testI4, Name: "kind", Intrinsic: true, Args: []Expr{nonConst}, ArgNames: []string{""}}
	if !IsConstantExpr(call) {
		t.Errorf("KIND(x) is constant even when x isn't, since kind is fixed at compile time")
	}
}

func TestToInt64(t *testing.T) {
	ctx := NewFoldingContext()
	n, ok := ToInt64(ctx, ScalarConstant(testI4, numeric.NewInteger(4, 42)))
	if !ok || n != 42 {
		t.Errorf("ToInt64 = (%d,%v), want (42,true)", n, ok)
	}
}

func TestCheckConformanceMismatchReportsError(t *testing.T) {
	ctx := NewFoldingContext()
	left := ShapeFromExtents([]int64{3})
	right := ShapeFromExtents([]int64{4})
	if ctx.CheckConformance(left, right, "a", "b") {
		t.Errorf("shapes of different extent should not conform")
	}
	if !ctx.Messages.HasErrors() {
		t.Errorf("expected a conformance error diagnostic")
	}
}

func TestFoldMaxNaNSecondOperandReturnsFirst(t *testing.T) {
	ctx := NewFoldingContext()
	one := ScalarConstant(testR8, numeric.NewReal(8, 1))
	nan := ScalarConstant(testR8, numeric.NewReal(8, math.NaN()))
	expr := &Extremum{Typ: testR8, Ordering: PreferGreater, X: one, Y: nan}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	got := c.Elems[0].(numeric.Real)
	if got.IsNotANumber() || got.Val != 1 {
		t.Errorf("MAX(1.0,NaN) = %v, want 1.0", got.Val)
	}
}

func TestFoldMinNaNSecondOperandPropagates(t *testing.T) {
	ctx := NewFoldingContext()
	one := ScalarConstant(testR8, numeric.NewReal(8, 1))
	nan := ScalarConstant(testR8, numeric.NewReal(8, math.NaN()))
	expr := &Extremum{Typ: testR8, Ordering: PreferLess, X: one, Y: nan}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	if !c.Elems[0].(numeric.Real).IsNotANumber() {
		t.Errorf("MIN(1.0,NaN) should propagate NaN")
	}
}

func TestFoldSizeDimOutOfRangeReportsError(t *testing.T) {
	ctx := NewFoldingContext()
	arr := &Constant{Typ: testI4, Shape: []int64{2, 3}, Elems: []any{
		numeric.NewInteger(4, 1), numeric.NewInteger(4, 2), numeric.NewInteger(4, 3),
		numeric.NewInteger(4, 4), numeric.NewInteger(4, 5), numeric.NewInteger(4, 6),
	}}
	call := &FunctionRef{Typ: testI4, Name: "size", Intrinsic: true, Args: []Expr{
		arr, ScalarConstant(testI4, numeric.NewInteger(4, 3)),
	}, ArgNames: []string{"array", "dim"}}
	folded := Fold(ctx, call)
	if _, ok := folded.(*Constant); ok {
		t.Fatalf("size(array,dim=3) on a rank-2 array should stay unfolded")
	}
	if !ctx.Messages.HasErrors() {
		t.Errorf("expected an out-of-range dimension diagnostic")
	}
}

func TestFoldSubstringExtractsSpan(t *testing.T) {
	ctx := NewFoldingContext()
	base := ScalarConstant(testCh1, numeric.NewCharacterFromString("fortran"))
	expr := &Substring{
		Typ: testCh1, Base: base,
		Lower: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 2)),
		Upper: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 4)),
	}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	if got := c.Elems[0].(numeric.Character).String(); got != "ort" {
		t.Errorf("substring(2:4) of %q = %q, want %q", "fortran", got, "ort")
	}
}

func TestFoldSubstringZeroLengthReturnsEmpty(t *testing.T) {
	ctx := NewFoldingContext()
	base := ScalarConstant(testCh1, numeric.NewCharacterFromString("fortran"))
	expr := &Substring{
		Typ: testCh1, Base: base,
		Lower: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 5)),
		Upper: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 2)),
	}
	folded := Fold(ctx, expr)
	c := mustConstant(t, folded)
	if got := c.Elems[0].(numeric.Character).String(); got != "" {
		t.Errorf("substring(5:2) = %q, want empty", got)
	}
}

func TestArrayRefShapeComposesTripletSection(t *testing.T) {
	ctx := NewFoldingContext()
	base := &Designator{Typ: testI4, Name: "a", DeclShape: ShapeFromExtents([]int64{10})}
	ref := &ArrayRef{
		Typ:  testI4,
		Base: base,
		Subscripts: []Subscript{
			{Triplet: &Triplet{
				Lower:  ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 2)),
				Upper:  ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 8)),
				Stride: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 2)),
			}},
		},
	}
	shape, ok := ctx.GetShape(ref)
	if !ok {
		t.Fatalf("GetShape should resolve an ArrayRef with constant triplet bounds")
	}
	extents, ok := AsConstantExtents(shape)
	if !ok || len(extents) != 1 || extents[0] != 4 {
		t.Errorf("a(2:8:2) shape = %v, want [4]", extents)
	}
}

func TestArrayRefScalarSubscriptDropsDimension(t *testing.T) {
	base := &Designator{Typ: testI4, Name: "a", DeclShape: ShapeFromExtents([]int64{3, 3})}
	ref := &ArrayRef{
		Typ:  testI4,
		Base: base,
		Subscripts: []Subscript{
			{Scalar: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 1))},
			{Triplet: &Triplet{
				Lower:  ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 1)),
				Upper:  ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 3)),
				Stride: ScalarConstant(kind.SubscriptInteger, numeric.NewInteger(8, 1)),
			}},
		},
	}
	if ref.Rank() != 1 {
		t.Errorf("a(1,:) rank = %d, want 1", ref.Rank())
	}
}

func TestIsConstantExprArrayRefRequiresConstantBaseAndSubscripts(t *testing.T) {
	param := &Designator{Typ: testI4, Name: "n", Parameter: true, DeclShape: ShapeFromExtents([]int64{10})}
	nonConstSub := &Designator{Typ: testI4, Name: "i", Parameter: false}
	ref := &ArrayRef{Typ: testI4, Base: param, Subscripts: []Subscript{{Scalar: nonConstSub}}}
	if IsConstantExpr(ref) {
		t.Errorf("n(i) is not constant when i isn't")
	}
	ref.Subscripts = []Subscript{{Scalar: ScalarConstant(testI4, numeric.NewInteger(4, 1))}}
	if !IsConstantExpr(ref) {
		t.Errorf("n(1) should be constant when n is a PARAMETER array and the subscript is literal")
	}
}
