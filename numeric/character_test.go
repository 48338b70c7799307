package numeric

import "testing"

func TestCharacterConcat(t *testing.T) {
	a := NewCharacterFromString("foo")
	b := NewCharacterFromString("bar")
	got := a.Concat(b).String()
	if got != "foobar" {
		t.Errorf("Concat = %q, want %q", got, "foobar")
	}
}

func TestCharacterCompareBlankPadded(t *testing.T) {
	a := NewCharacterFromString("ab")
	b := NewCharacterFromString("ab ")
	if a.Compare(b) != Equal {
		t.Errorf("blank-padded compare should treat %q and %q as equal", a.String(), b.String())
	}
	c := NewCharacterFromString("ab ")
	d := NewCharacterFromString("abc")
	if c.Compare(d) != Less {
		t.Errorf("%q should compare Less than %q", c.String(), d.String())
	}
}

func TestCharacterSetLength(t *testing.T) {
	a := NewCharacterFromString("hello")
	if got := a.SetLength(3).String(); got != "hel" {
		t.Errorf("SetLength(3) = %q, want %q", got, "hel")
	}
	if got := a.SetLength(7).String(); got != "hello  " {
		t.Errorf("SetLength(7) = %q, want %q", got, "hello  ")
	}
}

func TestCharacterConvertKindASCIIOnly(t *testing.T) {
	ascii := NewCharacterFromString("abc")
	if _, ok := ascii.ConvertKind(4); !ok {
		t.Errorf("ASCII-only string should convert across kinds")
	}
	nonASCII := Character{Kind: 1, Codes: []int32{0x1F600}}
	if _, ok := nonASCII.ConvertKind(4); ok {
		t.Errorf("non-ASCII code point should fail cross-kind conversion")
	}
}

func TestLogicalTruthTables(t *testing.T) {
	tt, ff := NewLogical(1, true), NewLogical(1, false)
	if !And(tt, tt).Val || And(tt, ff).Val {
		t.Errorf("AND truth table wrong")
	}
	if !Or(tt, ff).Val || Or(ff, ff).Val {
		t.Errorf("OR truth table wrong")
	}
	if !Eqv(tt, tt).Val || Eqv(tt, ff).Val {
		t.Errorf("EQV truth table wrong")
	}
	if Neqv(tt, tt).Val || !Neqv(tt, ff).Val {
		t.Errorf("NEQV truth table wrong")
	}
}
