package bitutil

import "fmt"

// BitSource reads bit fields of arbitrary width from a byte sequence, most
// significant bit of the first byte first.
type BitSource struct {
	bytes  []byte
	offset int // in bits
}

// NewBitSource returns a BitSource over bytes.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// ByteOffset returns the index of the byte holding the next bit.
func (bs *BitSource) ByteOffset() int {
	return bs.offset / 8
}

// ReadBits reads numBits bits (1–32) as an unsigned value.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 || numBits > bs.Available() {
		return 0, fmt.Errorf("bitsource: cannot read %d bits, %d available", numBits, bs.Available())
	}
	result := 0
	for i := 0; i < numBits; i++ {
		bit := (bs.bytes[bs.offset/8] >> (7 - uint(bs.offset%8))) & 1
		result = result<<1 | int(bit)
		bs.offset++
	}
	return result, nil
}

// Available returns the number of unread bits.
func (bs *BitSource) Available() int {
	return 8*len(bs.bytes) - bs.offset
}
