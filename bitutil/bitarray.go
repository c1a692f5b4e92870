// Package bitutil provides the bit buffer and module matrix used to build QR
// Code symbols.
package bitutil

import "strings"

// BitArray is an append-only bit buffer backed by a growable byte slice.
// Bits are stored most significant first within each byte, the order QR
// Code codewords use.
type BitArray struct {
	buf  []byte
	size int
}

// NewBitArray returns an empty BitArray with room for capacity bits.
func NewBitArray(capacity int) *BitArray {
	return &BitArray{buf: make([]byte, 0, (capacity+7)/8)}
}

// Size returns the number of bits appended so far.
func (ba *BitArray) Size() int {
	return ba.size
}

// SizeInBytes returns the number of bytes needed to hold the bits.
func (ba *BitArray) SizeInBytes() int {
	return (ba.size + 7) / 8
}

// Get returns bit i.
func (ba *BitArray) Get(i int) bool {
	return (ba.buf[i/8]>>(7-uint(i%8)))&1 == 1
}

// AppendBit appends a single bit.
func (ba *BitArray) AppendBit(bit bool) {
	index := ba.size / 8
	if len(ba.buf) <= index {
		ba.buf = append(ba.buf, 0)
	}
	if bit {
		ba.buf[index] |= 0x80 >> uint(ba.size%8)
	}
	ba.size++
}

// AppendBits appends the low numBits bits of value, most significant first.
func (ba *BitArray) AppendBits(value uint32, numBits int) {
	if numBits < 0 || numBits > 32 {
		panic("bitarray: numBits must be between 0 and 32")
	}
	for i := numBits - 1; i >= 0; i-- {
		ba.AppendBit((value>>uint(i))&1 == 1)
	}
}

// ToBytes copies numBytes bytes starting at bitOffset into array[offset:].
func (ba *BitArray) ToBytes(bitOffset int, array []byte, offset, numBytes int) {
	for i := 0; i < numBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			if ba.Get(bitOffset) {
				b |= 1 << uint(7-j)
			}
			bitOffset++
		}
		array[offset+i] = b
	}
}

// String returns the bits as 'X' and '.', grouped by byte.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
