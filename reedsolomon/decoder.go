package reedsolomon

import "errors"

// ErrReedSolomon indicates a Reed-Solomon decoding failure.
var ErrReedSolomon = errors.New("reedsolomon: decoding error")

// Decoder corrects errors in QR Code blocks.
type Decoder struct {
	field *Field
}

// NewDecoder returns a Decoder over QRCodeField256.
func NewDecoder() *Decoder {
	return &Decoder{field: QRCodeField256}
}

// Decode corrects block in place and returns the number of errors fixed.
// twoS is the number of EC codewords at the end of block.
func (d *Decoder) Decode(block []byte, twoS int) (int, error) {
	received := make([]int, len(block))
	for i, b := range block {
		received[i] = int(b)
	}
	poly := newPoly(d.field, received)
	syndromeCoefficients := make([]int, twoS)
	noError := true
	for i := 0; i < twoS; i++ {
		eval := poly.EvaluateAt(d.field.Exp(i))
		syndromeCoefficients[twoS-1-i] = eval
		if eval != 0 {
			noError = false
		}
	}
	if noError {
		return 0, nil
	}

	syndrome := newPoly(d.field, syndromeCoefficients)
	sigma, omega, err := d.runEuclideanAlgorithm(d.field.BuildMonomial(twoS, 1), syndrome, twoS)
	if err != nil {
		return 0, err
	}
	locations, err := d.findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := d.findErrorMagnitudes(omega, locations)
	for i, loc := range locations {
		position := len(block) - 1 - d.field.Log(loc)
		if position < 0 {
			return 0, ErrReedSolomon
		}
		block[position] ^= byte(magnitudes[i])
	}
	return len(locations), nil
}

func (d *Decoder) runEuclideanAlgorithm(a, b *Poly, R int) (sigma, omega *Poly, err error) {
	if a.Degree() < b.Degree() {
		a, b = b, a
	}
	rLast, r := a, b
	tLast, t := d.field.Zero(), d.field.One()

	for 2*r.Degree() >= R {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.IsZero() {
			return nil, nil, ErrReedSolomon
		}
		r = rLastLast
		q := d.field.Zero()
		dltInverse := d.field.Inverse(rLast.Coefficient(rLast.Degree()))
		for r.Degree() >= rLast.Degree() && !r.IsZero() {
			degreeDiff := r.Degree() - rLast.Degree()
			scale := d.field.Multiply(r.Coefficient(r.Degree()), dltInverse)
			q = q.Add(d.field.BuildMonomial(degreeDiff, scale))
			r = r.Add(rLast.MultiplyByMonomial(degreeDiff, scale))
		}
		t = q.Multiply(tLast).Add(tLastLast)
		if r.Degree() >= rLast.Degree() {
			return nil, nil, ErrReedSolomon
		}
	}

	sigmaTildeAtZero := t.Coefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, ErrReedSolomon
	}
	inverse := d.field.Inverse(sigmaTildeAtZero)
	return t.Scale(inverse), r.Scale(inverse), nil
}

func (d *Decoder) findErrorLocations(locator *Poly) ([]int, error) {
	numErrors := locator.Degree()
	if numErrors == 1 {
		return []int{locator.Coefficient(1)}, nil
	}
	result := make([]int, 0, numErrors)
	for i := 1; i < d.field.Size() && len(result) < numErrors; i++ {
		if locator.EvaluateAt(i) == 0 {
			result = append(result, d.field.Inverse(i))
		}
	}
	if len(result) != numErrors {
		return nil, ErrReedSolomon
	}
	return result, nil
}

func (d *Decoder) findErrorMagnitudes(evaluator *Poly, locations []int) []int {
	result := make([]int, len(locations))
	for i := range locations {
		xiInverse := d.field.Inverse(locations[i])
		denominator := 1
		for j := range locations {
			if i != j {
				term := d.field.Multiply(locations[j], xiInverse)
				denominator = d.field.Multiply(denominator, term^1)
			}
		}
		result[i] = d.field.Multiply(evaluator.EvaluateAt(xiInverse), d.field.Inverse(denominator))
	}
	return result
}
