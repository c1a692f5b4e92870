package encoder

import (
	"math"

	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/qrcode/decoder"
)

// Penalty weights N1 through N4.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// chooseMaskPattern returns the mask with the lowest penalty. Each
// candidate is scored with its own format word in place and then removed
// again, so matrix comes back unmasked. Ties keep the lower pattern.
func chooseMaskPattern(matrix *bitutil.BitMatrix, ecLevel decoder.ErrorCorrectionLevel) int {
	minPenalty := math.MaxInt
	bestMaskPattern := 0
	for p := 0; p < len(decoder.DataMasks); p++ {
		embedFormatInfo(matrix, ecLevel, p)
		decoder.ApplyMask(matrix, p)
		penalty := Penalty(matrix)
		decoder.ApplyMask(matrix, p)
		if penalty < minPenalty {
			minPenalty = penalty
			bestMaskPattern = p
		}
	}
	return bestMaskPattern
}

// Penalty returns the sum of the four mask penalty rules over the whole
// symbol.
func Penalty(matrix *bitutil.BitMatrix) int {
	return penaltyRule1(matrix) + penaltyRule2(matrix) + penaltyRule3(matrix) + penaltyRule4(matrix)
}

// penaltyRule1 charges 3 + (n - 5) for every run of n >= 5 same coloured
// modules in a row or column.
func penaltyRule1(matrix *bitutil.BitMatrix) int {
	return penaltyRule1Internal(matrix, true) + penaltyRule1Internal(matrix, false)
}

func penaltyRule1Internal(matrix *bitutil.BitMatrix, isHorizontal bool) int {
	penalty := 0
	size := matrix.Size()
	get := func(i, j int) bool {
		if isHorizontal {
			return matrix.Get(i, j)
		}
		return matrix.Get(j, i)
	}
	for i := 0; i < size; i++ {
		numSameBitCells := 0
		prevBit := false
		for j := 0; j < size; j++ {
			bit := get(i, j)
			if j > 0 && bit == prevBit {
				numSameBitCells++
			} else {
				if numSameBitCells >= 5 {
					penalty += penaltyN1 + (numSameBitCells - 5)
				}
				prevBit = bit
				numSameBitCells = 1
			}
		}
		if numSameBitCells >= 5 {
			penalty += penaltyN1 + (numSameBitCells - 5)
		}
	}
	return penalty
}

// penaltyRule2 charges 3 for every 2x2 block of one colour. Overlapping
// blocks count separately.
func penaltyRule2(matrix *bitutil.BitMatrix) int {
	penalty := 0
	size := matrix.Size()
	for row := 0; row < size-1; row++ {
		for col := 0; col < size-1; col++ {
			value := matrix.Get(row, col)
			if value == matrix.Get(row, col+1) &&
				value == matrix.Get(row+1, col) &&
				value == matrix.Get(row+1, col+1) {
				penalty++
			}
		}
	}
	return penaltyN2 * penalty
}

// penaltyRule3 charges 40 for every 1:1:3:1:1 finder-like pattern with four
// light modules on one side, 10111010000 or 00001011101, in a row or
// column.
func penaltyRule3(matrix *bitutil.BitMatrix) int {
	size := matrix.Size()
	numPenalties := 0
	for row := 0; row < size; row++ {
		bitsRow, bitsCol := 0, 0
		for col := 0; col < size; col++ {
			bitsRow = (bitsRow<<1)&0x7FF | b2i(matrix.Get(row, col))
			bitsCol = (bitsCol<<1)&0x7FF | b2i(matrix.Get(col, row))
			if col >= 10 {
				if bitsRow == 0x5D0 || bitsRow == 0x05D {
					numPenalties++
				}
				if bitsCol == 0x5D0 || bitsCol == 0x05D {
					numPenalties++
				}
			}
		}
	}
	return numPenalties * penaltyN3
}

// penaltyRule4 charges 10 for every 5% the dark module ratio strays from
// 50%.
func penaltyRule4(matrix *bitutil.BitMatrix) int {
	numTotalCells := matrix.Size() * matrix.Size()
	darkPercent := float64(matrix.DarkCount()*100) / float64(numTotalCells)
	k := int(math.Ceil(darkPercent/5)) - 10
	if k < 0 {
		k = -k
	}
	return k * penaltyN4
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
