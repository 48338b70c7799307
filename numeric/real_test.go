package numeric

import (
	"math"
	"testing"
)

func TestRealDivideByZero(t *testing.T) {
	a := NewReal(8, 1)
	b := NewReal(8, 0)
	r, flags := a.Divide(b, ToNearest)
	if !flags.DivideByZero {
		t.Fatalf("expected DivideByZero flag")
	}
	if !math.IsInf(r.Val, 1) {
		t.Errorf("1/0 = %v, want +Inf", r.Val)
	}
}

func TestRealZeroOverZero(t *testing.T) {
	a := NewReal(8, 0)
	r, flags := a.Divide(a, ToNearest)
	if !flags.InvalidArgument {
		t.Fatalf("expected InvalidArgument flag for 0/0")
	}
	if !math.IsNaN(r.Val) {
		t.Errorf("0/0 = %v, want NaN", r.Val)
	}
}

func TestRealCompareNaNUnordered(t *testing.T) {
	nan := NewReal(8, math.NaN())
	one := NewReal(8, 1)
	if nan.Compare(one) != Unordered {
		t.Errorf("NaN compare want Unordered")
	}
}

func TestRealToIntegerOverflowSaturates(t *testing.T) {
	huge := NewReal(8, 1e30)
	i, flags := huge.ToInteger(4)
	if !flags.Overflow {
		t.Fatalf("expected overflow converting 1e30 to INTEGER(4)")
	}
	if i.Val.Int64() != int64(signedMax(4).Int64()) {
		t.Errorf("saturated value = %v, want INT32_MAX", i.Val)
	}
}

func TestRealKind4RoundTrip(t *testing.T) {
	v := NewReal(4, 0.1)
	if float64(float32(v.Val)) != v.Val {
		t.Errorf("kind-4 Real should be pre-rounded through float32")
	}
}
