package encoder

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ericlevine/pixqr"
	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/qrcode/decoder"
)

// Segment is a run of input encoded in one mode. Length counts characters,
// or bytes in Byte mode.
type Segment struct {
	Mode   decoder.Mode
	Data   string
	Length int
}

func newSegment(mode decoder.Mode, data string) Segment {
	s := Segment{Mode: mode, Data: data, Length: len(data)}
	if mode == decoder.ModeKanji {
		s.Length = utf8.RuneCountInString(data)
	}
	return s
}

// BitLength returns the number of payload bits, excluding the mode and
// character count indicators.
func (s Segment) BitLength() int {
	return payloadBits(s.Mode, s.Length)
}

// TotalBits returns the full encoded size of s in the given version.
func (s Segment) TotalBits(version int) int {
	return 4 + s.Mode.CharacterCountBits(version) + s.BitLength()
}

func payloadBits(mode decoder.Mode, length int) int {
	switch mode {
	case decoder.ModeNumeric:
		bits := 10 * (length / 3)
		if r := length % 3; r > 0 {
			bits += r*3 + 1
		}
		return bits
	case decoder.ModeAlphanumeric:
		return 11*(length/2) + 6*(length%2)
	case decoder.ModeKanji:
		return 13 * length
	}
	return 8 * length
}

// alphanumericCode returns the alphanumeric mode value of r, or -1.
func alphanumericCode(r rune) int {
	if r > 0x7F {
		return -1
	}
	return strings.IndexRune(decoder.AlphanumericChars, r)
}

// classify returns the narrowest mode able to encode r. Digits are never
// reported as Alphanumeric so the four classes stay disjoint.
func classify(r rune, kanji KanjiEncoder) decoder.Mode {
	switch {
	case r >= '0' && r <= '9':
		return decoder.ModeNumeric
	case alphanumericCode(r) >= 0:
		return decoder.ModeAlphanumeric
	case kanji != nil:
		if _, ok := kanji.ShiftJIS(r); ok {
			return decoder.ModeKanji
		}
	}
	return decoder.ModeByte
}

// Tokenize splits text into maximal runs of one character class, in order.
// Without a KanjiEncoder, Kanji-capable text falls into Byte runs.
func Tokenize(text string, kanji KanjiEncoder) []Segment {
	var tokens []Segment
	start := 0
	var current decoder.Mode
	for i, r := range text {
		mode := classify(r, kanji)
		if i > 0 && mode != current {
			tokens = append(tokens, newSegment(current, text[start:i]))
			start = i
		}
		current = mode
	}
	if start < len(text) {
		tokens = append(tokens, newSegment(current, text[start:]))
	}
	return tokens
}

// write appends the mode indicator, character count and payload of s.
func (s Segment) write(bits *bitutil.BitArray, version int, kanji KanjiEncoder) error {
	bits.AppendBits(uint32(s.Mode.Bits()), 4)
	bits.AppendBits(uint32(s.Length), s.Mode.CharacterCountBits(version))
	switch s.Mode {
	case decoder.ModeNumeric:
		appendNumericBytes(s.Data, bits)
	case decoder.ModeAlphanumeric:
		appendAlphanumericBytes(s.Data, bits)
	case decoder.ModeKanji:
		return appendKanjiBytes(s.Data, bits, kanji)
	case decoder.ModeByte:
		for i := 0; i < len(s.Data); i++ {
			bits.AppendBits(uint32(s.Data[i]), 8)
		}
	default:
		return fmt.Errorf("%w: unsupported mode %v", pixqr.ErrFormat, s.Mode)
	}
	return nil
}

func appendNumericBytes(content string, bits *bitutil.BitArray) {
	for i := 0; i < len(content); i += 3 {
		group := content[i:min(i+3, len(content))]
		value := 0
		for j := 0; j < len(group); j++ {
			value = value*10 + int(group[j]-'0')
		}
		bits.AppendBits(uint32(value), len(group)*3+1)
	}
}

func appendAlphanumericBytes(content string, bits *bitutil.BitArray) {
	for i := 0; i < len(content); i += 2 {
		code1 := alphanumericCode(rune(content[i]))
		if i+1 < len(content) {
			code2 := alphanumericCode(rune(content[i+1]))
			bits.AppendBits(uint32(code1*45+code2), 11)
		} else {
			bits.AppendBits(uint32(code1), 6)
		}
	}
}

func appendKanjiBytes(content string, bits *bitutil.BitArray, kanji KanjiEncoder) error {
	if kanji == nil {
		return fmt.Errorf("%w: kanji segment without a KanjiEncoder", pixqr.ErrFormat)
	}
	for _, r := range content {
		code, ok := kanji.ShiftJIS(r)
		if !ok || !inKanjiRange(code) {
			return fmt.Errorf("%w: invalid SJIS character %q", pixqr.ErrFormat, r)
		}
		bits.AppendBits(uint32(kanjiValue(code)), 13)
	}
	return nil
}
