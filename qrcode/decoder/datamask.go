package decoder

import "github.com/ericlevine/pixqr/bitutil"

// DataMaskFunc reports whether the module at (row i, column j) is inverted.
type DataMaskFunc func(i, j int) bool

// DataMasks contains the 8 QR code data mask patterns.
var DataMasks = [8]DataMaskFunc{
	func(i, j int) bool { return (i+j)&0x01 == 0 },                       // 000
	func(i, j int) bool { return i&0x01 == 0 },                           // 001
	func(i, j int) bool { return j%3 == 0 },                              // 010
	func(i, j int) bool { return (i+j)%3 == 0 },                          // 011
	func(i, j int) bool { return ((i/2)+(j/3))&0x01 == 0 },               // 100
	func(i, j int) bool { return (i*j)%6 == 0 },                          // 101
	func(i, j int) bool { return ((i * j) % 6) < 3 },                     // 110
	func(i, j int) bool { return ((i + j + ((i * j) % 3)) & 0x01) == 0 }, // 111
}

// ApplyMask XORs mask pattern onto every non-reserved module of bm.
// Applying the same pattern twice restores the matrix.
func ApplyMask(bm *bitutil.BitMatrix, pattern int) {
	mask := DataMasks[pattern]
	size := bm.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			bm.Xor(row, col, mask(row, col))
		}
	}
}
