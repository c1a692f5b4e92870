package reedsolomon

import (
	"errors"
	"sync"
)

// ErrEncoderNotInitialized is returned when a BlockEncoder has no generator
// polynomial for its degree.
var ErrEncoderNotInitialized = errors.New("reedsolomon: encoder not initialized")

var (
	generatorsMu sync.Mutex
	generators   = map[int][]byte{}
)

func cachedGenerator(degree int) []byte {
	generatorsMu.Lock()
	defer generatorsMu.Unlock()
	g, ok := generators[degree]
	if !ok {
		g = GeneratorPolynomial(degree)
		generators[degree] = g
	}
	return g
}

// BlockEncoder computes the error-correction codewords of one block.
// The zero value is not initialized; use NewBlockEncoder.
type BlockEncoder struct {
	degree    int
	generator []byte
}

// NewBlockEncoder returns an encoder producing degree EC codewords per block.
func NewBlockEncoder(degree int) *BlockEncoder {
	if degree < 1 {
		return &BlockEncoder{}
	}
	return &BlockEncoder{degree: degree, generator: cachedGenerator(degree)}
}

// Degree returns the number of EC codewords produced by Encode.
func (e *BlockEncoder) Degree() int { return e.degree }

// Encode returns the EC codewords for data, left-padded to Degree bytes.
func (e *BlockEncoder) Encode(data []byte) ([]byte, error) {
	if e == nil || e.generator == nil {
		return nil, ErrEncoderNotInitialized
	}
	padded := make([]byte, len(data)+e.degree)
	copy(padded, data)
	remainder := Mod(padded, e.generator)
	if start := e.degree - len(remainder); start > 0 {
		buf := make([]byte, e.degree)
		copy(buf[start:], remainder)
		return buf, nil
	}
	return remainder, nil
}
