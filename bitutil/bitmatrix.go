package bitutil

import "strings"

// BitMatrix is a square grid of QR modules with a parallel reserved grid.
// Reserved cells belong to function patterns: once flagged they stay
// reserved, and only writes that also pass reserved=true may change them.
type BitMatrix struct {
	size     int
	data     []byte
	reserved []bool
}

// NewBitMatrix returns an all-light size×size matrix with nothing reserved.
func NewBitMatrix(size int) *BitMatrix {
	if size < 1 {
		panic("bitmatrix: size must be greater than 0")
	}
	return &BitMatrix{
		size:     size,
		data:     make([]byte, size*size),
		reserved: make([]bool, size*size),
	}
}

// ParseStringMatrix builds a matrix from rows of setStr/unsetStr tokens.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	var rows [][]bool
	for _, line := range strings.Split(repr, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		var row []bool
		for len(line) > 0 {
			switch {
			case strings.HasPrefix(line, setStr):
				row = append(row, true)
				line = line[len(setStr):]
			case strings.HasPrefix(line, unsetStr):
				row = append(row, false)
				line = line[len(unsetStr):]
			default:
				panic("bitmatrix: illegal character encountered")
			}
		}
		rows = append(rows, row)
	}
	bm := NewBitMatrix(len(rows))
	for r, row := range rows {
		if len(row) != len(rows) {
			panic("bitmatrix: matrix is not square")
		}
		for c, v := range row {
			bm.Set(r, c, v, false)
		}
	}
	return bm
}

// Size returns the side length in modules.
func (bm *BitMatrix) Size() int { return bm.size }

// Get reports whether the module at (row, col) is dark.
func (bm *BitMatrix) Get(row, col int) bool {
	return bm.data[row*bm.size+col] == 1
}

// Set writes the module at (row, col). A reserved cell is only written when
// reserved is true, which also flags an unreserved cell as reserved.
func (bm *BitMatrix) Set(row, col int, value, reserved bool) {
	i := row*bm.size + col
	if bm.reserved[i] && !reserved {
		return
	}
	bm.data[i] = 0
	if value {
		bm.data[i] = 1
	}
	if reserved {
		bm.reserved[i] = true
	}
}

// Xor flips the module at (row, col) when value is true. Reserved cells are
// left untouched.
func (bm *BitMatrix) Xor(row, col int, value bool) {
	i := row*bm.size + col
	if value && !bm.reserved[i] {
		bm.data[i] ^= 1
	}
}

// IsReserved reports whether (row, col) belongs to a function pattern.
func (bm *BitMatrix) IsReserved(row, col int) bool {
	return bm.reserved[row*bm.size+col]
}

// DarkCount returns the number of dark modules.
func (bm *BitMatrix) DarkCount() int {
	n := 0
	for _, v := range bm.data {
		n += int(v)
	}
	return n
}

// Clone returns a deep copy.
func (bm *BitMatrix) Clone() *BitMatrix {
	return &BitMatrix{
		size:     bm.size,
		data:     append([]byte(nil), bm.data...),
		reserved: append([]bool(nil), bm.reserved...),
	}
}

// String renders dark modules as "X " and light ones as "  ".
func (bm *BitMatrix) String() string {
	return bm.StringWithChars("X ", "  ")
}

// StringWithChars renders the matrix using the given tokens, one row per line.
func (bm *BitMatrix) StringWithChars(setString, unsetString string) string {
	var sb strings.Builder
	sb.Grow(bm.size * (bm.size*len(setString) + 1))
	for r := 0; r < bm.size; r++ {
		for c := 0; c < bm.size; c++ {
			if bm.Get(r, c) {
				sb.WriteString(setString)
			} else {
				sb.WriteString(unsetString)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Equals reports whether both matrices have the same module values.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if bm.size != other.size {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
