package numeric

// Complex is a pair of Real components of the same kind. Addition,
// subtraction, negation and kind conversion are performed component-wise
// by the Expr algebra as Real operations (mirroring the source, where
// Complex Add/Subtract/Negate/Convert are represented as operations over
// the real and imaginary components rather than as Complex-level
// operations); Multiply, Divide and the constructor are genuinely
// Complex-level and live here.
type Complex struct {
	Kind   int
	Re, Im Real
}

// NewComplex constructs a Complex from two Real components, which must
// share a kind.
func NewComplex(re, im Real) Complex {
	return Complex{Kind: re.Kind, Re: re, Im: im}
}

// Multiply returns a*b using the standard complex product, with flags
// aggregated from the four underlying Real multiplications and two
// additions/subtractions.
func (a Complex) Multiply(b Complex, rounding Rounding) (Complex, RealFlags) {
	acbc, f1 := a.Re.Multiply(b.Re, rounding)
	adbd, f2 := a.Im.Multiply(b.Im, rounding)
	re, f3 := acbc.Subtract(adbd, rounding)

	adbc, f4 := a.Re.Multiply(b.Im, rounding)
	bcad, f5 := a.Im.Multiply(b.Re, rounding)
	im, f6 := adbc.Add(bcad, rounding)

	flags := f1.Merge(f2).Merge(f3).Merge(f4).Merge(f5).Merge(f6)
	return NewComplex(re, im), flags
}

// Divide returns a/b using the standard complex quotient.
func (a Complex) Divide(b Complex, rounding Rounding) (Complex, RealFlags) {
	bcbc, f1 := b.Re.Multiply(b.Re, rounding)
	bdbd, f2 := b.Im.Multiply(b.Im, rounding)
	denom, f3 := bcbc.Add(bdbd, rounding)

	acbd, f4 := a.Re.Multiply(b.Re, rounding)
	adbc, f5 := a.Im.Multiply(b.Im, rounding)
	reNum, f6 := acbd.Add(adbc, rounding)
	re, f7 := reNum.Divide(denom, rounding)

	bcad, f8 := b.Re.Multiply(a.Im, rounding)
	adbcIm, f9 := a.Re.Multiply(b.Im, rounding)
	imNum, f10 := bcad.Subtract(adbcIm, rounding)
	im, f11 := imNum.Divide(denom, rounding)

	flags := f1.Merge(f2).Merge(f3).Merge(f4).Merge(f5).Merge(f6).Merge(f7).Merge(f8).Merge(f9).Merge(f10).Merge(f11)
	return NewComplex(re, im), flags
}

// AIMAG returns the imaginary component.
func (a Complex) AIMAG() Real { return a.Im }

// REAL returns the real component.
func (a Complex) REAL() Real { return a.Re }

// CONJG returns the complex conjugate.
func (a Complex) CONJG() Complex { return Complex{Kind: a.Kind, Re: a.Re, Im: a.Im.Negate()} }
