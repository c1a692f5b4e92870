package reedsolomon

// Byte-slice polynomials below store coefficients highest degree first.

// Multiply returns the product of p1 and p2.
func Multiply(p1, p2 []byte) []byte {
	coeff := make([]byte, len(p1)+len(p2)-1)
	for i := range p1 {
		for j := range p2 {
			coeff[i+j] ^= Mul(p1[i], p2[j])
		}
	}
	return coeff
}

// Mod returns the remainder of dividend / divisor with leading zero
// coefficients removed. divisor must be monic.
func Mod(dividend, divisor []byte) []byte {
	result := append([]byte(nil), dividend...)
	for len(result)-len(divisor) >= 0 {
		coeff := result[0]
		for i := range divisor {
			result[i] ^= Mul(divisor[i], coeff)
		}
		offset := 0
		for offset < len(result) && result[offset] == 0 {
			offset++
		}
		result = result[offset:]
	}
	return result
}

// GeneratorPolynomial returns ∏(x - α^i) for i in [0, degree).
func GeneratorPolynomial(degree int) []byte {
	poly := []byte{1}
	for i := 0; i < degree; i++ {
		poly = Multiply(poly, []byte{1, Exp(i)})
	}
	return poly
}

// Poly is a polynomial over a Field with int coefficients, used by the
// decoder. Instances are immutable.
type Poly struct {
	field        *Field
	coefficients []int
}

// newPoly strips leading zero coefficients.
func newPoly(field *Field, coefficients []int) *Poly {
	if len(coefficients) == 0 {
		panic("reedsolomon: empty coefficients")
	}
	if len(coefficients) > 1 && coefficients[0] == 0 {
		firstNonZero := 1
		for firstNonZero < len(coefficients) && coefficients[firstNonZero] == 0 {
			firstNonZero++
		}
		if firstNonZero == len(coefficients) {
			coefficients = []int{0}
		} else {
			coefficients = append([]int(nil), coefficients[firstNonZero:]...)
		}
	}
	return &Poly{field: field, coefficients: coefficients}
}

// Coefficients returns the polynomial coefficients.
func (p *Poly) Coefficients() []int { return p.coefficients }

// Degree returns the degree of p.
func (p *Poly) Degree() int { return len(p.coefficients) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p *Poly) IsZero() bool { return p.coefficients[0] == 0 }

// Coefficient returns the coefficient of x^degree.
func (p *Poly) Coefficient(degree int) int {
	return p.coefficients[len(p.coefficients)-1-degree]
}

// EvaluateAt evaluates p at a using Horner's rule.
func (p *Poly) EvaluateAt(a int) int {
	if a == 0 {
		return p.Coefficient(0)
	}
	result := p.coefficients[0]
	for _, c := range p.coefficients[1:] {
		result = AddOrSubtract(p.field.Multiply(a, result), c)
	}
	return result
}

// Add returns p + other.
func (p *Poly) Add(other *Poly) *Poly {
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}
	smaller, larger := p.coefficients, other.coefficients
	if len(smaller) > len(larger) {
		smaller, larger = larger, smaller
	}
	sum := make([]int, len(larger))
	diff := len(larger) - len(smaller)
	copy(sum, larger[:diff])
	for i := diff; i < len(larger); i++ {
		sum[i] = AddOrSubtract(smaller[i-diff], larger[i])
	}
	return newPoly(p.field, sum)
}

// Multiply returns p * other.
func (p *Poly) Multiply(other *Poly) *Poly {
	if p.IsZero() || other.IsZero() {
		return p.field.Zero()
	}
	product := make([]int, len(p.coefficients)+len(other.coefficients)-1)
	for i, ac := range p.coefficients {
		for j, bc := range other.coefficients {
			product[i+j] = AddOrSubtract(product[i+j], p.field.Multiply(ac, bc))
		}
	}
	return newPoly(p.field, product)
}

// Scale multiplies every coefficient by scalar.
func (p *Poly) Scale(scalar int) *Poly {
	if scalar == 0 {
		return p.field.Zero()
	}
	if scalar == 1 {
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, scalar)
	}
	return newPoly(p.field, product)
}

// MultiplyByMonomial returns p * coefficient * x^degree.
func (p *Poly) MultiplyByMonomial(degree, coefficient int) *Poly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return p.field.Zero()
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, coefficient)
	}
	return newPoly(p.field, product)
}
