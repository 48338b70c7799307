package intrinsic

import (
	"testing"

	"github.com/soypat/fold90/diag"
	"github.com/soypat/fold90/hostlib"
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
)

var i4 = kind.DynamicType{Category: kind.Integer, Kind: 4}
var r8 = kind.DynamicType{Category: kind.Real, Kind: 8}

func TestDispatchAbsInteger(t *testing.T) {
	v, ok := Dispatch(nil, nil, "abs", i4, []Scalar{numeric.NewInteger(4, -7)})
	if !ok {
		t.Fatalf("abs(-7) should dispatch")
	}
	i := v.(numeric.Integer)
	if i.Val.Int64() != 7 {
		t.Errorf("abs(-7) = %v, want 7", i.Val)
	}
}

func TestDispatchIshftAndAlias(t *testing.T) {
	a := numeric.NewInteger(4, 1)
	n := numeric.NewInteger(4, 3)
	v1, ok1 := Dispatch(nil, nil, "ishft", i4, []Scalar{a, n})
	v2, ok2 := Dispatch(nil, nil, "ibshft", i4, []Scalar{a, n})
	if !ok1 || !ok2 {
		t.Fatalf("both ishft and its ibshft alias should dispatch")
	}
	if v1.(numeric.Integer).Val.Int64() != v2.(numeric.Integer).Val.Int64() {
		t.Errorf("ishft and ibshft should agree: %v vs %v", v1, v2)
	}
}

func TestDispatchUnknownNameMisses(t *testing.T) {
	if _, ok := Dispatch(nil, nil, "not_a_real_intrinsic", i4, []Scalar{numeric.NewInteger(4, 1)}); ok {
		t.Errorf("unknown intrinsic name should not dispatch")
	}
}

func TestDispatchHostMissEmitsInfo(t *testing.T) {
	var msgs diag.Messages
	_, ok := Dispatch(nil, &msgs, "sqrt", r8, []Scalar{numeric.NewReal(8, 4)})
	if ok {
		t.Fatalf("sqrt with nil host library should miss")
	}
	items := msgs.Items()
	if len(items) != 1 || items[0].Severity != diag.Info {
		t.Fatalf("expected one Info diagnostic, got %v", items)
	}
}

func TestDispatchHostHit(t *testing.T) {
	lib := hostlib.NewDefault()
	v, ok := Dispatch(lib, nil, "sqrt", r8, []Scalar{numeric.NewReal(8, 4)})
	if !ok {
		t.Fatalf("sqrt should dispatch through the host library")
	}
	r := v.(numeric.Real)
	if r.Val != 2 {
		t.Errorf("sqrt(4) = %v, want 2", r.Val)
	}
}

func TestDispatchBGEUnsignedComparison(t *testing.T) {
	neg1 := numeric.NewInteger(4, -1)
	one := numeric.NewInteger(4, 1)
	v, ok := Dispatch(nil, nil, "bge", i4, []Scalar{neg1, one})
	if !ok {
		t.Fatalf("bge should dispatch")
	}
	if !v.(numeric.Logical).Val {
		t.Errorf("BGE(-1,1) treats -1 as all-ones unsigned, should be >= 1")
	}
}
