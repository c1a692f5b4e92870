package encoder

import (
	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/qrcode/decoder"
)

// buildMatrix draws the function patterns of version, reserves the format
// area with a placeholder word and places codewords in zig-zag order.
// No mask is applied.
func buildMatrix(codewords []byte, version *decoder.Version, ecLevel decoder.ErrorCorrectionLevel) *bitutil.BitMatrix {
	matrix := bitutil.NewBitMatrix(version.Dimension())
	embedFinderPatterns(matrix)
	embedTimingPatterns(matrix)
	embedAlignmentPatterns(matrix, version)
	embedFormatInfo(matrix, ecLevel, 0)
	if version.Number >= 7 {
		embedVersionInfo(matrix, version.Number)
	}
	embedDataBits(matrix, codewords)
	return matrix
}

// embedFinderPatterns draws the three 7x7 finder patterns together with
// their one module light separators.
func embedFinderPatterns(matrix *bitutil.BitMatrix) {
	size := matrix.Size()
	for _, pos := range [][2]int{{0, 0}, {size - 7, 0}, {0, size - 7}} {
		row, col := pos[0], pos[1]
		for r := -1; r <= 7; r++ {
			if row+r < 0 || row+r >= size {
				continue
			}
			for c := -1; c <= 7; c++ {
				if col+c < 0 || col+c >= size {
					continue
				}
				dark := (r >= 0 && r <= 6 && (c == 0 || c == 6)) ||
					(c >= 0 && c <= 6 && (r == 0 || r == 6)) ||
					(r >= 2 && r <= 4 && c >= 2 && c <= 4)
				matrix.Set(row+r, col+c, dark, true)
			}
		}
	}
}

func embedTimingPatterns(matrix *bitutil.BitMatrix) {
	size := matrix.Size()
	for i := 8; i < size-8; i++ {
		dark := i%2 == 0
		matrix.Set(i, 6, dark, true)
		matrix.Set(6, i, dark, true)
	}
}

func embedAlignmentPatterns(matrix *bitutil.BitMatrix, version *decoder.Version) {
	for _, pos := range version.AlignmentPatternPositions() {
		row, col := pos[0], pos[1]
		for r := -2; r <= 2; r++ {
			for c := -2; c <= 2; c++ {
				dark := r == -2 || r == 2 || c == -2 || c == 2 || (r == 0 && c == 0)
				matrix.Set(row+r, col+c, dark, true)
			}
		}
	}
}

// embedFormatInfo writes both copies of the format word for ecLevel and
// maskPattern, least significant bit first, and the dark module.
func embedFormatInfo(matrix *bitutil.BitMatrix, ecLevel decoder.ErrorCorrectionLevel, maskPattern int) {
	size := matrix.Size()
	bits := decoder.FormatInfoBits(ecLevel, maskPattern)
	for i := 0; i < 15; i++ {
		dark := (bits>>uint(i))&1 == 1

		switch {
		case i < 6:
			matrix.Set(i, 8, dark, true)
		case i < 8:
			matrix.Set(i+1, 8, dark, true)
		default:
			matrix.Set(size-15+i, 8, dark, true)
		}

		switch {
		case i < 8:
			matrix.Set(8, size-i-1, dark, true)
		case i == 8:
			matrix.Set(8, 15-i, dark, true)
		default:
			matrix.Set(8, 15-i-1, dark, true)
		}
	}
	matrix.Set(size-8, 8, true, true)
}

// embedVersionInfo writes the two 6x3 version blocks next to the top-right
// and bottom-left finder patterns.
func embedVersionInfo(matrix *bitutil.BitMatrix, version int) {
	size := matrix.Size()
	bits := decoder.VersionInfoBits(version)
	for i := 0; i < 18; i++ {
		row := i / 3
		col := i%3 + size - 11
		dark := (bits>>uint(i))&1 == 1
		matrix.Set(row, col, dark, true)
		matrix.Set(col, row, dark, true)
	}
}

// embedDataBits places codewords in two module wide columns, starting at
// the bottom right and alternating upwards and downwards, skipping the
// vertical timing column and reserved cells. Modules left over after the
// last codeword stay light.
func embedDataBits(matrix *bitutil.BitMatrix, codewords []byte) {
	size := matrix.Size()
	inc := -1
	row := size - 1
	bitIndex := 7
	byteIndex := 0
	for col := size - 1; col > 0; col -= 2 {
		if col == 6 {
			col--
		}
		for {
			for c := 0; c < 2; c++ {
				if matrix.IsReserved(row, col-c) {
					continue
				}
				dark := false
				if byteIndex < len(codewords) {
					dark = (codewords[byteIndex]>>uint(bitIndex))&1 == 1
				}
				matrix.Set(row, col-c, dark, false)
				bitIndex--
				if bitIndex == -1 {
					byteIndex++
					bitIndex = 7
				}
			}
			row += inc
			if row < 0 || row >= size {
				row -= inc
				inc = -inc
				break
			}
		}
	}
}
