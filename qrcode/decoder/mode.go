package decoder

// Mode is a QR segment encoding mode. The set is closed: code that handles
// modes switches over these constants.
type Mode int

const (
	ModeTerminator   Mode = 0x00
	ModeNumeric      Mode = 0x01
	ModeAlphanumeric Mode = 0x02
	ModeByte         Mode = 0x04
	ModeKanji        Mode = 0x08
)

// characterCountBits holds the count indicator width for versions 1-9,
// 10-26 and 27-40.
var characterCountBits = map[Mode][3]int{
	ModeTerminator:   {0, 0, 0},
	ModeNumeric:      {10, 12, 14},
	ModeAlphanumeric: {9, 11, 13},
	ModeByte:         {8, 16, 16},
	ModeKanji:        {8, 10, 12},
}

// ModeForBits returns the Mode for a 4-bit mode indicator.
func ModeForBits(bits int) (Mode, error) {
	switch m := Mode(bits); m {
	case ModeTerminator, ModeNumeric, ModeAlphanumeric, ModeByte, ModeKanji:
		return m, nil
	}
	return 0, errInvalidMode
}

// CharacterCountBits returns the width of the character count indicator for
// this mode in the given version number.
func (m Mode) CharacterCountBits(version int) int {
	switch {
	case version <= 9:
		return characterCountBits[m][0]
	case version <= 26:
		return characterCountBits[m][1]
	}
	return characterCountBits[m][2]
}

// Bits returns the 4-bit mode indicator.
func (m Mode) Bits() int {
	return int(m)
}

func (m Mode) String() string {
	switch m {
	case ModeTerminator:
		return "Terminator"
	case ModeNumeric:
		return "Numeric"
	case ModeAlphanumeric:
		return "Alphanumeric"
	case ModeByte:
		return "Byte"
	case ModeKanji:
		return "Kanji"
	}
	return "Unknown"
}
