package fold90

// walk is the predicate-collection traversal combinator the specification's
// §9 design notes call for: a single generic walker shared by
// containsAnyImpliedDoIndex and IsExpandableScalar (IsConstantExpr uses
// its own switch instead). visit is called for every node in the tree,
// pre-order; returning false skips that node's children, while sibling
// subtrees are still visited, the same pruning shape the teacher's
// ast.Walk gives a Visitor that returns nil.
func walk(expr Expr, visit func(Expr) bool) {
	if expr == nil || !visit(expr) {
		return
	}
	switch e := expr.(type) {
	case *Constant, *Designator, *ImpliedDoIndexRef, *BOZLiteralConstant, *NullPointer:
		// leaves
	case *FunctionRef:
		for _, a := range e.Args {
			walk(a, visit)
		}
	case *ArrayRef:
		walk(e.Base, visit)
		for _, s := range e.Subscripts {
			walkSubscript(s, visit)
		}
	case *Substring:
		walk(e.Base, visit)
		walk(e.Lower, visit)
		walk(e.Upper, visit)
	case *ArrayConstructor:
		for _, v := range e.Values {
			walkACValue(v, visit)
		}
		if e.Length != nil {
			walk(e.Length, visit)
		}
	case *Parentheses:
		walk(e.X, visit)
	case *Convert:
		walk(e.X, visit)
	case *Negate:
		walk(e.X, visit)
	case *BinaryArith:
		walk(e.X, visit)
		walk(e.Y, visit)
	case *Extremum:
		walk(e.X, visit)
		walk(e.Y, visit)
	case *ComplexComponent:
		walk(e.X, visit)
	case *RealToIntPower:
		walk(e.Base, visit)
		walk(e.Exponent, visit)
	case *ComplexConstructor:
		walk(e.Re, visit)
		walk(e.Im, visit)
	case *Concat:
		walk(e.X, visit)
		walk(e.Y, visit)
	case *SetLength:
		walk(e.X, visit)
		walk(e.Length, visit)
	case *Not:
		walk(e.X, visit)
	case *LogicalOperation:
		walk(e.X, visit)
		walk(e.Y, visit)
	case *Relational:
		walk(e.X, visit)
		walk(e.Y, visit)
	case *TypeParamInquiry:
		if e.Base != nil {
			walk(e.Base, visit)
		}
	case *StructureConstructor:
		for _, name := range e.Order {
			walk(e.Fields[name], visit)
		}
	}
}

func walkSubscript(s Subscript, visit func(Expr) bool) {
	switch {
	case s.Triplet != nil:
		walk(s.Triplet.Lower, visit)
		walk(s.Triplet.Upper, visit)
		walk(s.Triplet.Stride, visit)
	case s.Vector != nil:
		walk(s.Vector, visit)
	default:
		walk(s.Scalar, visit)
	}
}

func walkACValue(v ArrayConstructorValue, visit func(Expr) bool) {
	if v.ImpliedDo != nil {
		ido := v.ImpliedDo
		walk(ido.Lower, visit)
		walk(ido.Upper, visit)
		walk(ido.Stride, visit)
		for _, inner := range ido.Values {
			walkACValue(inner, visit)
		}
		return
	}
	walk(v.Expr, visit)
}

// containsFunctionRefOrCoarray reports whether expr contains a FunctionRef
// anywhere in its tree. The core has no CoarrayRef node (coarrays are out
// of scope beyond this predicate's use in IsExpandableScalar), so only the
// FunctionRef half of the source's UnexpandabilityFindingVisitor applies.
func containsFunctionRefOrCoarray(expr Expr) bool {
	found := false
	walk(expr, func(e Expr) bool {
		if _, ok := e.(*FunctionRef); ok {
			found = true
			return false
		}
		return !found
	})
	return found
}

// IsExpandableScalar reports whether a scalar operand of rank 0 is safe to
// recompute once per element during the elementwise lift: it must contain
// no FunctionRef (recomputing a function call per element could duplicate
// side effects).
func IsExpandableScalar(expr Expr) bool {
	return expr.Rank() == 0 && !containsFunctionRefOrCoarray(expr)
}
