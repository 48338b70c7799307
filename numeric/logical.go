package numeric

// Logical is a Fortran LOGICAL scalar: a truth value of a given byte width.
// Storage width carries no semantic weight beyond what the standard
// requires for LOGICAL kind selection; only the truth value participates
// in the truth tables below.
type Logical struct {
	Kind int
	Val  bool
}

// NewLogical constructs a Logical of the given kind.
func NewLogical(kind int, v bool) Logical { return Logical{Kind: kind, Val: v} }

// And implements .AND.
func And(a, b Logical) Logical { return Logical{Kind: a.Kind, Val: a.Val && b.Val} }

// Or implements .OR.
func Or(a, b Logical) Logical { return Logical{Kind: a.Kind, Val: a.Val || b.Val} }

// Eqv implements .EQV.
func Eqv(a, b Logical) Logical { return Logical{Kind: a.Kind, Val: a.Val == b.Val} }

// Neqv implements .NEQV.
func Neqv(a, b Logical) Logical { return Logical{Kind: a.Kind, Val: a.Val != b.Val} }

// Not implements .NOT.
func Not(a Logical) Logical { return Logical{Kind: a.Kind, Val: !a.Val} }

// Int2Bool converts a (nonzero-is-true) integer truth encoding to Logical,
// adapted from the bit-level BOOLEAN<->INTEGER convention some Fortran
// extensions (and C interop) use.
func Int2Bool(v Integer) Logical { return Logical{Kind: 1, Val: v.Val.Sign() != 0} }

// Bool2Int converts a Logical to the integer truth encoding (1/0) of the
// given kind.
func Bool2Int(kind int, v Logical) Integer {
	if v.Val {
		return NewInteger(kind, 1)
	}
	return NewInteger(kind, 0)
}
