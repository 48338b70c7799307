package kind

import "testing"

func TestOptionSomeNone(t *testing.T) {
	some := Some(5)
	v, ok := some.Get()
	if !ok || v != 5 {
		t.Fatalf("Some(5).Get() = (%d,%v), want (5,true)", v, ok)
	}
	none := None[int]()
	if none.IsSome() {
		t.Fatalf("None().IsSome() = true, want false")
	}
}

func TestOptionMustGetPanicsOnAbsent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustGet on an absent Option should panic")
		}
	}()
	None[int]().MustGet()
}

func TestValidKind(t *testing.T) {
	if !ValidKind(Integer, 8) {
		t.Errorf("INTEGER(8) should be valid")
	}
	if ValidKind(Integer, 3) {
		t.Errorf("INTEGER(3) should be invalid")
	}
	if !ValidKind(Real, 16) {
		t.Errorf("REAL(16) should be valid")
	}
}

func TestDynamicTypeString(t *testing.T) {
	derived := DynamicType{Name: "POINT"}
	if !derived.IsDerived() {
		t.Errorf("derived type should report IsDerived")
	}
	if derived.String() != "TYPE(POINT)" {
		t.Errorf("String() = %q", derived.String())
	}
	plain := DynamicType{Category: Integer, Kind: 4}
	if plain.String() != "INTEGER(4)" {
		t.Errorf("String() = %q", plain.String())
	}
}
