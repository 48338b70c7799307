package numeric

import "testing"

func TestIntegerAddOverflow(t *testing.T) {
	a := NewInteger(4, 2147483647)
	b := NewInteger(4, 1)
	sum, overflow := a.Add(b)
	if !overflow {
		t.Fatalf("expected overflow adding INT32_MAX+1")
	}
	if sum.Val.Int64() != -2147483648 {
		t.Errorf("sum = %v, want wrapped -2147483648", sum.Val)
	}
}

func TestIntegerDivideSigned(t *testing.T) {
	tests := []struct {
		a, b      int64
		q, r      int64
		divByZero bool
	}{
		{7, 2, 3, 1, false},
		{-7, 2, -3, -1, false},
		{7, -2, -3, 1, false},
		{7, 0, 0, 0, true},
	}
	for _, tt := range tests {
		q, r, divByZero, _ := NewInteger(4, tt.a).DivideSigned(NewInteger(4, tt.b))
		if divByZero != tt.divByZero {
			t.Errorf("DivideSigned(%d,%d) divByZero = %v, want %v", tt.a, tt.b, divByZero, tt.divByZero)
			continue
		}
		if tt.divByZero {
			continue
		}
		if q.Val.Int64() != tt.q || r.Val.Int64() != tt.r {
			t.Errorf("DivideSigned(%d,%d) = (%v,%v), want (%d,%d)", tt.a, tt.b, q.Val, r.Val, tt.q, tt.r)
		}
	}
}

func TestIntegerPowerZeroToZero(t *testing.T) {
	result, divByZero, overflow, zeroToZero := NewInteger(4, 0).Power(NewInteger(4, 0))
	if divByZero || overflow || !zeroToZero {
		t.Fatalf("0**0 flags = (%v,%v,%v), want (false,false,true)", divByZero, overflow, zeroToZero)
	}
	if result.Val.Int64() != 1 {
		t.Errorf("0**0 = %v, want 1", result.Val)
	}
}

func TestIntegerPowerNegativeExponent(t *testing.T) {
	result, divByZero, _, _ := NewInteger(4, 0).Power(NewInteger(4, -1))
	if !divByZero {
		t.Fatalf("0**(-1) should raise divByZero")
	}
	result, _, _, _ = NewInteger(4, 2).Power(NewInteger(4, -1))
	if result.Val.Int64() != 0 {
		t.Errorf("2**(-1) = %v, want 0 (integer division)", result.Val)
	}
	result, _, _, _ = NewInteger(4, -1).Power(NewInteger(4, -3))
	if result.Val.Int64() != -1 {
		t.Errorf("(-1)**(-3) = %v, want -1", result.Val)
	}
}

func TestIntegerBitwise(t *testing.T) {
	a := NewInteger(4, 0b1100)
	b := NewInteger(4, 0b1010)
	if a.IAND(b).Val.Int64() != 0b1000 {
		t.Errorf("IAND = %v", a.IAND(b).Val)
	}
	if a.IOR(b).Val.Int64() != 0b1110 {
		t.Errorf("IOR = %v", a.IOR(b).Val)
	}
	if a.IEOR(b).Val.Int64() != 0b0110 {
		t.Errorf("IEOR = %v", a.IEOR(b).Val)
	}
}

func TestIntegerISHFT(t *testing.T) {
	a := NewInteger(4, 1)
	if a.ISHFT(3).Val.Int64() != 8 {
		t.Errorf("ISHFT(1,3) = %v, want 8", a.ISHFT(3).Val)
	}
	b := NewInteger(4, 8)
	if b.ISHFT(-3).Val.Int64() != 1 {
		t.Errorf("ISHFT(8,-3) = %v, want 1", b.ISHFT(-3).Val)
	}
}

func TestMASKLMASKR(t *testing.T) {
	if MASKR(1, 3).Val.Int64() != 0b0111 {
		t.Errorf("MASKR(1,3) = %v", MASKR(1, 3).Val)
	}
	ml := MASKL(1, 3)
	maskBits := uint8(0b11100000)
	want := NewInteger(1, int64(int8(maskBits)))
	if ml.Val.Cmp(want.Val) != 0 {
		t.Errorf("MASKL(1,3) = %v, want %v", ml.Val, want.Val)
	}
}

func TestIntegerConvertKind16NarrowingOverflows(t *testing.T) {
	big := NewInteger(16, 0)
	big.Val = big.Val.Add(big.Val, signedMax(16))
	converted, overflow := big.ConvertSigned(4)
	if !overflow {
		t.Fatalf("expected overflow narrowing kind-16 max into kind-4")
	}
	_ = converted
}
