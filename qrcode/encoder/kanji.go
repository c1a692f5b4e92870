package encoder

import "golang.org/x/text/encoding/japanese"

// KanjiEncoder maps a rune to its double-byte Shift JIS code. ok is false
// for runes that have no double-byte code in the QR Kanji ranges
// (0x8140-0x9FFC and 0xE040-0xEBBF).
type KanjiEncoder interface {
	ShiftJIS(r rune) (code int, ok bool)
}

// KanjiFunc adapts a plain mapping function to KanjiEncoder.
type KanjiFunc func(r rune) (code int, ok bool)

// ShiftJIS implements KanjiEncoder.
func (f KanjiFunc) ShiftJIS(r rune) (int, bool) { return f(r) }

// ShiftJIS is the KanjiEncoder backed by golang.org/x/text's Shift JIS table.
var ShiftJIS KanjiEncoder = KanjiFunc(shiftJIS)

func shiftJIS(r rune) (int, bool) {
	b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(string(r)))
	if err != nil || len(b) != 2 {
		return 0, false
	}
	code := int(b[0])<<8 | int(b[1])
	if !inKanjiRange(code) {
		return 0, false
	}
	return code, true
}

func inKanjiRange(code int) bool {
	return (code >= 0x8140 && code <= 0x9FFC) || (code >= 0xE040 && code <= 0xEBBF)
}

// kanjiValue packs a Shift JIS code into the 13-bit Kanji mode value.
func kanjiValue(code int) int {
	if code <= 0x9FFC {
		code -= 0x8140
	} else {
		code -= 0xC140
	}
	return (code>>8)*0xC0 + code&0xFF
}
