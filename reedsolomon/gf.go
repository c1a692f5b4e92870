// Package reedsolomon implements GF(256) arithmetic and Reed-Solomon coding
// as used by QR Code error correction.
package reedsolomon

// primitive is x^8 + x^4 + x^3 + x^2 + 1.
const primitive = 0x011D

// Field is GF(256) built on primitive with generator base 0. The exp table is
// doubled to 512 entries so Multiply never reduces the exponent sum.
type Field struct {
	exp  [512]int
	log  [256]int
	zero *Poly
	one  *Poly
}

// QRCodeField256 is the field used by every QR Code symbol.
var QRCodeField256 = newField()

func newField() *Field {
	f := &Field{}
	x := 1
	for i := 0; i < 255; i++ {
		f.exp[i] = x
		f.log[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitive
		}
	}
	for i := 255; i < 512; i++ {
		f.exp[i] = f.exp[i-255]
	}
	f.zero = newPoly(f, []int{0})
	f.one = newPoly(f, []int{1})
	return f
}

// Zero returns the zero polynomial.
func (f *Field) Zero() *Poly { return f.zero }

// One returns the one polynomial.
func (f *Field) One() *Poly { return f.one }

// BuildMonomial returns coefficient * x^degree.
func (f *Field) BuildMonomial(degree, coefficient int) *Poly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return f.zero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return newPoly(f, coefficients)
}

// Exp returns α^a for 0 <= a < 512.
func (f *Field) Exp(a int) int {
	return f.exp[a]
}

// Log returns log_α(a).
func (f *Field) Log(a int) int {
	if a < 1 {
		panic("reedsolomon: log(0)")
	}
	return f.log[a]
}

// Inverse returns the multiplicative inverse of a.
func (f *Field) Inverse(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse(0)")
	}
	return f.exp[255-f.log[a]]
}

// Multiply returns a * b in this field.
func (f *Field) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[f.log[a]+f.log[b]]
}

// Size returns the number of field elements.
func (f *Field) Size() int { return 256 }

// AddOrSubtract computes a XOR b; both operations are the same in GF(2^n).
func AddOrSubtract(a, b int) int {
	return a ^ b
}

// Exp returns α^n in QRCodeField256.
func Exp(n int) byte { return byte(QRCodeField256.Exp(n)) }

// Log returns log_α(n) in QRCodeField256. It panics on zero.
func Log(n byte) int { return QRCodeField256.Log(int(n)) }

// Mul multiplies two elements of QRCodeField256.
func Mul(x, y byte) byte { return byte(QRCodeField256.Multiply(int(x), int(y))) }
