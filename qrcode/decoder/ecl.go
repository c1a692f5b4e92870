// Package decoder holds the QR Code tables shared by the encoder (versions,
// error correction levels, modes, masks, format and version information)
// and a reader that decodes a module matrix back into text.
package decoder

import "strings"

// ErrorCorrectionLevel is one of the four QR Code error correction levels.
// The constants are ordered by strength and index per-level tables.
type ErrorCorrectionLevel int

const (
	ECLevelL ErrorCorrectionLevel = iota
	ECLevelM
	ECLevelQ
	ECLevelH
)

var levels = [...]struct {
	name     string
	long     string
	formatID int // tag in format information
	recovery int // percent of codewords that can be restored
}{
	ECLevelL: {"L", "low", 0x01, 7},
	ECLevelM: {"M", "medium", 0x00, 15},
	ECLevelQ: {"Q", "quartile", 0x03, 25},
	ECLevelH: {"H", "high", 0x02, 30},
}

func (ecl ErrorCorrectionLevel) valid() bool {
	return ecl >= ECLevelL && ecl <= ECLevelH
}

// Bits returns the 2-bit tag written into format information.
func (ecl ErrorCorrectionLevel) Bits() int {
	if !ecl.valid() {
		return 0
	}
	return levels[ecl].formatID
}

// Ordinal returns the index of the level in per-level tables.
func (ecl ErrorCorrectionLevel) Ordinal() int {
	return int(ecl)
}

// Recovery returns the approximate share of damaged codewords, in percent,
// that the level can restore.
func (ecl ErrorCorrectionLevel) Recovery() int {
	if !ecl.valid() {
		return 0
	}
	return levels[ecl].recovery
}

func (ecl ErrorCorrectionLevel) String() string {
	if !ecl.valid() {
		return "?"
	}
	return levels[ecl].name
}

// ECLevelForBits returns the level tagged by a format information field.
func ECLevelForBits(bits int) (ErrorCorrectionLevel, error) {
	for ecl, l := range levels {
		if l.formatID == bits {
			return ErrorCorrectionLevel(ecl), nil
		}
	}
	return 0, errInvalidECLevel
}

// ParseECLevel accepts "L", "M", "Q", "H" or the long forms "low",
// "medium", "quartile" and "high", in any case.
func ParseECLevel(s string) (ErrorCorrectionLevel, error) {
	s = strings.TrimSpace(s)
	for ecl, l := range levels {
		if strings.EqualFold(s, l.name) || strings.EqualFold(s, l.long) {
			return ErrorCorrectionLevel(ecl), nil
		}
	}
	return 0, errInvalidECLevel
}
