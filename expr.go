// Package fold90 implements the constant-folding and shape-analysis core of
// a Fortran front end: an algebraic rewriter that reduces a fully
// type-checked, polymorphic Expr tree to constants wherever the standard
// permits, diagnosing numeric anomalies and shape mismatches as it goes.
//
// The package is organized the way the teacher's ast package organizes a
// Fortran AST: one Go struct per tree variant, all satisfying a common
// Node-like interface (Expr here), rather than a generic Expr[T] family
// parameterized over every (category, kind) pair. Go's type system can
// express that family, but dispatch over it would need a type switch on a
// type parameter almost everywhere anyway; carrying the DynamicType as a
// runtime field on each node is the more idiomatic Go shape and is exactly
// what ast.Identifier/ast.BinaryExpr/etc. already do for the parser's own
// polymorphic AST.
package fold90

import (
	"fmt"
	"math/big"

	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
	"github.com/soypat/fold90/token"
)

// Expr is the common interface satisfied by every node in the expression
// algebra (§3, §4.2 of the specification).
type Expr interface {
	// Type reports the node's static result type.
	Type() kind.DynamicType
	// Rank reports the node's rank (0 for scalar).
	Rank() int
	// AppendString appends the node's canonical Fortran-source rendering
	// to b and returns the extended slice, driven by each operation's
	// Prefix/Infix/Suffix the way ast.Node.AppendString does for the
	// parser's AST.
	AppendString(b []byte) []byte
	// exprNode is unexported so Expr can only be implemented inside this
	// package, mirroring ast.Node's closed-interface pattern.
	exprNode()
}

func (*Constant) exprNode()             {}
func (*Designator) exprNode()           {}
func (*ArrayRef) exprNode()             {}
func (*Substring) exprNode()            {}
func (*FunctionRef) exprNode()          {}
func (*ArrayConstructor) exprNode()     {}
func (*Parentheses) exprNode()          {}
func (*Convert) exprNode()              {}
func (*Negate) exprNode()               {}
func (*BinaryArith) exprNode()          {}
func (*Extremum) exprNode()             {}
func (*ComplexComponent) exprNode()     {}
func (*RealToIntPower) exprNode()       {}
func (*ComplexConstructor) exprNode()   {}
func (*Concat) exprNode()               {}
func (*SetLength) exprNode()            {}
func (*Not) exprNode()                  {}
func (*LogicalOperation) exprNode()     {}
func (*Relational) exprNode()           {}
func (*ImpliedDoIndexRef) exprNode()    {}
func (*TypeParamInquiry) exprNode()     {}
func (*StructureConstructor) exprNode() {}
func (*BOZLiteralConstant) exprNode()   {}
func (*NullPointer) exprNode()          {}

// Constant is a fully evaluated value: the only variant every fold
// eventually tries to produce. Elems is the flattened element vector in
// Fortran array-element order (first subscript varies fastest, I2); Shape
// is empty for a scalar. Each element's concrete type matches Typ.Category:
// numeric.Integer, numeric.Real, numeric.Complex, numeric.Character or
// numeric.Logical.
type Constant struct {
	Typ   kind.DynamicType
	Shape []int64
	Elems []any
}

func (c *Constant) Type() kind.DynamicType { return c.Typ }
func (c *Constant) Rank() int              { return len(c.Shape) }

// Size returns the product of the shape's extents (1 for scalar).
func (c *Constant) Size() int64 {
	n := int64(1)
	for _, e := range c.Shape {
		n *= e
	}
	return n
}

// ScalarConstant builds a rank-0 Constant from one element.
func ScalarConstant(t kind.DynamicType, v any) *Constant {
	return &Constant{Typ: t, Elems: []any{v}}
}

func (c *Constant) AppendString(b []byte) []byte {
	if len(c.Elems) == 1 && len(c.Shape) == 0 {
		return appendScalar(b, c.Elems[0])
	}
	b = append(b, '[')
	for i, e := range c.Elems {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = appendScalar(b, e)
	}
	return append(b, ']')
}

func appendScalar(b []byte, v any) []byte {
	switch x := v.(type) {
	case numeric.Integer:
		return append(b, x.Val.String()...)
	case numeric.Real:
		return append(b, fmt.Sprintf("%v", x.Val)...)
	case numeric.Complex:
		return append(b, fmt.Sprintf("(%v,%v)", x.Re.Val, x.Im.Val)...)
	case numeric.Character:
		return append(append(append(b, '"'), x.String()...), '"')
	case numeric.Logical:
		if x.Val {
			return append(b, ".TRUE."...)
		}
		return append(b, ".FALSE."...)
	default:
		return append(b, fmt.Sprintf("%v", v)...)
	}
}

// Designator is an unfoldable leaf referring to (part of) a variable. The
// core never resolves symbols; it only needs enough information to answer
// shape queries and the constant-expression predicate.
type Designator struct {
	Typ       kind.DynamicType
	Name      string
	DeclShape Shape
	Parameter bool
}

func (d *Designator) Type() kind.DynamicType { return d.Typ }
func (d *Designator) Rank() int              { return len(d.DeclShape) }
func (d *Designator) AppendString(b []byte) []byte {
	return append(b, d.Name...)
}

// Triplet is a subscript triplet lower:upper:stride of an array section
// (§4.6). The core carries no declared-bound table, so Lower/Upper/Stride
// are always explicit Expr<SubscriptInteger> values; a source-level
// elided bound (e.g. a(2:) or a(::2)) must already have been filled in
// with its declared or default value before an ArrayRef is built.
type Triplet struct {
	Lower, Upper, Stride Expr
}

// Subscript is one subscript of an ArrayRef: exactly one of Scalar,
// Triplet or Vector is set. A scalar subscript selects a single element
// along its dimension and contributes nothing to the result's shape; a
// Triplet selects a section and contributes CountTrips elements; a Vector
// subscript selects elements by index and contributes its own rank-1
// shape (§4.6).
type Subscript struct {
	Scalar  Expr
	Triplet *Triplet
	Vector  Expr
}

func appendSubscript(b []byte, s Subscript) []byte {
	switch {
	case s.Triplet != nil:
		b = s.Triplet.Lower.AppendString(b)
		b = append(b, ':')
		b = s.Triplet.Upper.AppendString(b)
		b = append(b, ':')
		return s.Triplet.Stride.AppendString(b)
	case s.Vector != nil:
		return s.Vector.AppendString(b)
	default:
		return s.Scalar.AppendString(b)
	}
}

// ArrayRef applies a section-subscript list to Base, implementing the
// array-element and array-section forms of a designator (§3). Rank is the
// count of Triplet/Vector subscripts, since scalar subscripts each drop
// one dimension.
type ArrayRef struct {
	Typ        kind.DynamicType
	Base       Expr
	Subscripts []Subscript
}

func (a *ArrayRef) Type() kind.DynamicType { return a.Typ }
func (a *ArrayRef) Rank() int {
	n := 0
	for _, s := range a.Subscripts {
		if s.Scalar == nil {
			n++
		}
	}
	return n
}
func (a *ArrayRef) AppendString(b []byte) []byte {
	b = a.Base.AppendString(b)
	b = append(b, '(')
	for i, s := range a.Subscripts {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendSubscript(b, s)
	}
	return append(b, ')')
}

// Substring extracts Base(Lower:Upper), a 1-based inclusive character
// range, implementing the substring form of a designator (§3).
type Substring struct {
	Typ          kind.DynamicType
	Base         Expr
	Lower, Upper Expr
}

func (s *Substring) Type() kind.DynamicType { return s.Typ }
func (s *Substring) Rank() int              { return s.Base.Rank() }
func (s *Substring) AppendString(b []byte) []byte {
	b = s.Base.AppendString(b)
	b = append(b, '(')
	b = s.Lower.AppendString(b)
	b = append(b, ':')
	b = s.Upper.AppendString(b)
	return append(b, ')')
}

// FunctionRef is a call to a function, intrinsic or not. Intrinsic must be
// true and Name lowercase for the folder's intrinsic dispatch table (§4.5)
// to consider it.
type FunctionRef struct {
	Typ       kind.DynamicType
	Name      string
	Intrinsic bool
	Args      []Expr
	// ArgNames holds keyword argument names parallel to Args ("" for
	// positional arguments), e.g. "dim" in size(a, dim=2).
	ArgNames []string
}

func (f *FunctionRef) Type() kind.DynamicType { return f.Typ }
func (f *FunctionRef) Rank() int              { return 0 }
func (f *FunctionRef) AppendString(b []byte) []byte {
	b = append(b, f.Name...)
	b = append(b, '(')
	for i, a := range f.Args {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		if f.ArgNames[i] != "" {
			b = append(b, f.ArgNames[i]...)
			b = append(b, '=')
		}
		b = a.AppendString(b)
	}
	return append(b, ')')
}

// Arg returns the value of a keyword or positional argument by name,
// falling back to positional index pos if no keyword match is found.
func (f *FunctionRef) Arg(name string, pos int) (Expr, bool) {
	for i, n := range f.ArgNames {
		if n == name {
			return f.Args[i], true
		}
	}
	if pos < len(f.Args) {
		return f.Args[pos], true
	}
	return nil, false
}

// ImpliedDo is a bounded iteration inside an array constructor: lower,
// upper and stride are Expr<SubscriptInteger>, and Values is the nested
// body evaluated once per iteration of Name.
type ImpliedDo struct {
	Name                 string
	Lower, Upper, Stride Expr
	Values               []ArrayConstructorValue
}

// ArrayConstructorValue is one element of an array constructor: either a
// plain Expr (scalar or lower-rank, linearized in array-element order) or
// a nested ImpliedDo.
type ArrayConstructorValue struct {
	Expr      Expr
	ImpliedDo *ImpliedDo
}

// ArrayConstructor is a rank-1 sequence of ArrayConstructorValue elements.
// Length is non-nil only for Character array constructors.
type ArrayConstructor struct {
	Typ    kind.DynamicType
	Length Expr
	Values []ArrayConstructorValue
}

func (a *ArrayConstructor) Type() kind.DynamicType { return a.Typ }
func (a *ArrayConstructor) Rank() int              { return 1 }
func (a *ArrayConstructor) AppendString(b []byte) []byte {
	b = append(b, '[')
	for i, v := range a.Values {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = appendACValue(b, v)
	}
	return append(b, ']')
}

func appendACValue(b []byte, v ArrayConstructorValue) []byte {
	if v.ImpliedDo != nil {
		ido := v.ImpliedDo
		b = append(b, '(')
		for i, inner := range ido.Values {
			if i > 0 {
				b = append(b, ',', ' ')
			}
			b = appendACValue(b, inner)
		}
		b = append(b, ',', ' ')
		b = append(b, ido.Name...)
		b = append(b, '=')
		b = ido.Lower.AppendString(b)
		b = append(b, ':')
		b = ido.Upper.AppendString(b)
		b = append(b, ':')
		b = ido.Stride.AppendString(b)
		return append(b, ')')
	}
	return v.Expr.AppendString(b)
}

// Parentheses wraps X, inhibiting reassociation (§4.3: "preserved around
// constants").
type Parentheses struct {
	Typ kind.DynamicType
	X   Expr
}

func (p *Parentheses) Type() kind.DynamicType { return p.Typ }
func (p *Parentheses) Rank() int              { return p.X.Rank() }
func (p *Parentheses) AppendString(b []byte) []byte {
	b = append(b, '(')
	b = p.X.AppendString(b)
	return append(b, ')')
}

// Convert requests a conversion of X to Typ.
type Convert struct {
	Typ kind.DynamicType
	X   Expr
}

func (c *Convert) Type() kind.DynamicType { return c.Typ }
func (c *Convert) Rank() int              { return c.X.Rank() }
func (c *Convert) AppendString(b []byte) []byte {
	return c.X.AppendString(b)
}

// Negate is unary minus.
type Negate struct {
	Typ kind.DynamicType
	X   Expr
}

func (n *Negate) Type() kind.DynamicType { return n.Typ }
func (n *Negate) Rank() int              { return n.X.Rank() }
func (n *Negate) AppendString(b []byte) []byte {
	b = append(b, '-')
	return n.X.AppendString(b)
}

// BinaryArith unifies Add/Subtract/Multiply/Divide/Power the way the
// teacher's ast.BinaryExpr unifies every binary operator behind one struct
// with an Op token rather than five near-identical types.
type BinaryArith struct {
	Op   token.Token
	Typ  kind.DynamicType
	X, Y Expr
}

func (b *BinaryArith) Type() kind.DynamicType { return b.Typ }
func (b *BinaryArith) Rank() int {
	if b.X.Rank() > b.Y.Rank() {
		return b.X.Rank()
	}
	return b.Y.Rank()
}
func (b *BinaryArith) AppendString(buf []byte) []byte {
	buf = b.X.AppendString(buf)
	buf = append(buf, ' ')
	buf = append(buf, b.Op.String()...)
	buf = append(buf, ' ')
	return b.Y.AppendString(buf)
}

// Ordering selects which operand Extremum prefers.
type Ordering int

const (
	PreferLess Ordering = iota
	PreferGreater
)

// Extremum implements MIN (PreferLess) and MAX (PreferGreater). Ties
// always return X.
type Extremum struct {
	Typ      kind.DynamicType
	Ordering Ordering
	X, Y     Expr
}

func (e *Extremum) Type() kind.DynamicType { return e.Typ }
func (e *Extremum) Rank() int {
	if e.X.Rank() > e.Y.Rank() {
		return e.X.Rank()
	}
	return e.Y.Rank()
}
func (e *Extremum) AppendString(b []byte) []byte {
	if e.Ordering == PreferGreater {
		b = append(b, "MAX("...)
	} else {
		b = append(b, "MIN("...)
	}
	b = e.X.AppendString(b)
	b = append(b, ',', ' ')
	b = e.Y.AppendString(b)
	return append(b, ')')
}

// ComplexComponent extracts %RE or %IM from a complex operand.
type ComplexComponent struct {
	Typ       kind.DynamicType
	Imaginary bool
	X         Expr
}

func (c *ComplexComponent) Type() kind.DynamicType { return c.Typ }
func (c *ComplexComponent) Rank() int              { return c.X.Rank() }
func (c *ComplexComponent) AppendString(b []byte) []byte {
	b = append(b, '(')
	b = c.X.AppendString(b)
	if c.Imaginary {
		return append(b, "%IM)"...)
	}
	return append(b, "%RE)"...)
}

// RealToIntPower is Real**Integer, defined by repeated squaring.
type RealToIntPower struct {
	Typ      kind.DynamicType
	Base     Expr
	Exponent Expr
}

func (r *RealToIntPower) Type() kind.DynamicType { return r.Typ }
func (r *RealToIntPower) Rank() int {
	if r.Base.Rank() > r.Exponent.Rank() {
		return r.Base.Rank()
	}
	return r.Exponent.Rank()
}
func (r *RealToIntPower) AppendString(b []byte) []byte {
	b = r.Base.AppendString(b)
	b = append(b, "**"...)
	return r.Exponent.AppendString(b)
}

// ComplexConstructor builds a complex value from real and imaginary parts.
type ComplexConstructor struct {
	Typ    kind.DynamicType
	Re, Im Expr
}

func (c *ComplexConstructor) Type() kind.DynamicType { return c.Typ }
func (c *ComplexConstructor) Rank() int {
	if c.Re.Rank() > c.Im.Rank() {
		return c.Re.Rank()
	}
	return c.Im.Rank()
}
func (c *ComplexConstructor) AppendString(b []byte) []byte {
	b = append(b, '(')
	b = c.Re.AppendString(b)
	b = append(b, ',', ' ')
	b = c.Im.AppendString(b)
	return append(b, ')')
}

// Concat is character "//".
type Concat struct {
	Typ  kind.DynamicType
	X, Y Expr
}

func (c *Concat) Type() kind.DynamicType { return c.Typ }
func (c *Concat) Rank() int {
	if c.X.Rank() > c.Y.Rank() {
		return c.X.Rank()
	}
	return c.Y.Rank()
}
func (c *Concat) AppendString(b []byte) []byte {
	b = c.X.AppendString(b)
	b = append(b, " // "...)
	return c.Y.AppendString(b)
}

// SetLength truncates or blank-pads X to exactly Length code units.
type SetLength struct {
	Typ    kind.DynamicType
	X      Expr
	Length Expr
}

func (s *SetLength) Type() kind.DynamicType { return s.Typ }
func (s *SetLength) Rank() int              { return s.X.Rank() }
func (s *SetLength) AppendString(b []byte) []byte {
	return s.X.AppendString(b)
}

// Not is .NOT.
type Not struct {
	Typ kind.DynamicType
	X   Expr
}

func (n *Not) Type() kind.DynamicType { return n.Typ }
func (n *Not) Rank() int              { return n.X.Rank() }
func (n *Not) AppendString(b []byte) []byte {
	b = append(b, ".NOT. "...)
	return n.X.AppendString(b)
}

// LogicalOperation implements .AND./.OR./.EQV./.NEQV.
type LogicalOperation struct {
	Op   token.Token
	Typ  kind.DynamicType
	X, Y Expr
}

func (l *LogicalOperation) Type() kind.DynamicType { return l.Typ }
func (l *LogicalOperation) Rank() int {
	if l.X.Rank() > l.Y.Rank() {
		return l.X.Rank()
	}
	return l.Y.Rank()
}
func (l *LogicalOperation) AppendString(b []byte) []byte {
	b = l.X.AppendString(b)
	b = append(b, ' ')
	b = append(b, l.Op.String()...)
	b = append(b, ' ')
	return l.Y.AppendString(b)
}

// Relational implements the six ordering comparisons, producing a
// LogicalResult. Operand category must be Integer, Real or Character (the
// type system forbids constructing one over Complex or Logical operands).
type Relational struct {
	Op   token.Token
	X, Y Expr
}

func (r *Relational) Type() kind.DynamicType { return kind.LogicalResult }
func (r *Relational) Rank() int {
	if r.X.Rank() > r.Y.Rank() {
		return r.X.Rank()
	}
	return r.Y.Rank()
}
func (r *Relational) AppendString(b []byte) []byte {
	b = r.X.AppendString(b)
	b = append(b, ' ')
	b = append(b, r.Op.String()...)
	b = append(b, ' ')
	return r.Y.AppendString(b)
}

// ImpliedDoIndexRef references the scalar integer index of an enclosing
// ImpliedDo by name.
type ImpliedDoIndexRef struct {
	Name string
}

func (r *ImpliedDoIndexRef) Type() kind.DynamicType { return kind.SubscriptInteger }
func (r *ImpliedDoIndexRef) Rank() int              { return 0 }
func (r *ImpliedDoIndexRef) AppendString(b []byte) []byte {
	return append(b, r.Name...)
}

// TypeParamInquiry references a type parameter (kind or length) of Base,
// or a bare parameter name when Base is nil.
type TypeParamInquiry struct {
	Typ       kind.DynamicType
	ParamName string
	Base      Expr
	// IsKindParam distinguishes a KIND type parameter (usable in a
	// constant expression, per §10.1.12) from a LEN type parameter.
	IsKindParam bool
}

func (t *TypeParamInquiry) Type() kind.DynamicType { return t.Typ }
func (t *TypeParamInquiry) Rank() int              { return 0 }
func (t *TypeParamInquiry) AppendString(b []byte) []byte {
	if t.Base != nil {
		b = t.Base.AppendString(b)
		b = append(b, '%')
	}
	return append(b, t.ParamName...)
}

// StructureConstructor builds a derived-type value from named components.
// Order is preserved in Order for deterministic printing even though the
// underlying map has none (mirroring the source's pointer-keyed, unordered
// component map).
type StructureConstructor struct {
	Typ    kind.DynamicType
	Order  []string
	Fields map[string]Expr
}

func (s *StructureConstructor) Type() kind.DynamicType { return s.Typ }
func (s *StructureConstructor) Rank() int              { return 0 }
func (s *StructureConstructor) AppendString(b []byte) []byte {
	b = append(b, s.Typ.Name...)
	b = append(b, '(')
	for i, name := range s.Order {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = append(b, name...)
		b = append(b, '=')
		b = s.Fields[name].AppendString(b)
	}
	return append(b, ')')
}

// BOZLiteralConstant is a typeless bit pattern, wide enough to hold the
// widest supported Real kind's bits.
type BOZLiteralConstant struct {
	Bits *big.Int
}

func (BOZLiteralConstant) Type() kind.DynamicType { return kind.DynamicType{} }
func (BOZLiteralConstant) Rank() int              { return 0 }
func (b *BOZLiteralConstant) AppendString(buf []byte) []byte {
	return append(buf, fmt.Sprintf("Z'%X'", b.Bits)...)
}

// NullPointer is the typeless NULL() value.
type NullPointer struct{}

func (NullPointer) Type() kind.DynamicType       { return kind.DynamicType{} }
func (NullPointer) Rank() int                    { return 0 }
func (NullPointer) AppendString(b []byte) []byte { return append(b, "NULL()"...) }
