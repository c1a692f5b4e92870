package decoder

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/japanese"

	"github.com/ericlevine/pixqr"
	"github.com/ericlevine/pixqr/bitutil"
)

// AlphanumericChars is the 45-symbol alphanumeric mode table, indexed by value.
const AlphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

var errTruncated = fmt.Errorf("%w: truncated segment", pixqr.ErrFormat)

// DecodeBitStream decodes the data codewords of a symbol. Byte segments are
// read as UTF-8 and Kanji segments as Shift JIS.
func DecodeBitStream(data []byte, version *Version) (*Result, error) {
	bs := bitutil.NewBitSource(data)
	var text strings.Builder
	result := &Result{RawBytes: data, Version: version.Number}

	for bs.Available() >= 4 {
		modeBits, _ := bs.ReadBits(4)
		mode, err := ModeForBits(modeBits)
		if err != nil {
			return nil, err
		}
		if mode == ModeTerminator {
			break
		}
		count, err := bs.ReadBits(mode.CharacterCountBits(version.Number))
		if err != nil {
			return nil, errTruncated
		}
		switch mode {
		case ModeNumeric:
			err = decodeNumericSegment(bs, &text, count)
		case ModeAlphanumeric:
			err = decodeAlphanumericSegment(bs, &text, count)
		case ModeByte:
			err = decodeByteSegment(bs, &text, count)
		case ModeKanji:
			err = decodeKanjiSegment(bs, &text, count)
		}
		if err != nil {
			return nil, err
		}
		result.Modes = append(result.Modes, mode)
	}
	result.Text = text.String()
	return result, nil
}

func decodeKanjiSegment(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	if count*13 > bs.Available() {
		return errTruncated
	}
	buf := make([]byte, 0, 2*count)
	for ; count > 0; count-- {
		twoBytes, _ := bs.ReadBits(13)
		assembled := (twoBytes/0x0C0)<<8 | twoBytes%0x0C0
		if assembled < 0x01F00 {
			assembled += 0x08140
		} else {
			assembled += 0x0C140
		}
		buf = append(buf, byte(assembled>>8), byte(assembled))
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(buf)
	if err != nil {
		return fmt.Errorf("%w: %v", pixqr.ErrFormat, err)
	}
	text.Write(decoded)
	return nil
}

func decodeByteSegment(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	if 8*count > bs.Available() {
		return errTruncated
	}
	for i := 0; i < count; i++ {
		val, _ := bs.ReadBits(8)
		text.WriteByte(byte(val))
	}
	return nil
}

func toAlphanumericChar(value int) (byte, error) {
	if value >= len(AlphanumericChars) {
		return 0, fmt.Errorf("%w: alphanumeric value %d", pixqr.ErrFormat, value)
	}
	return AlphanumericChars[value], nil
}

func decodeAlphanumericSegment(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	for ; count > 1; count -= 2 {
		nextTwo, err := bs.ReadBits(11)
		if err != nil {
			return errTruncated
		}
		c1, err := toAlphanumericChar(nextTwo / 45)
		if err != nil {
			return err
		}
		c2, err := toAlphanumericChar(nextTwo % 45)
		if err != nil {
			return err
		}
		text.WriteByte(c1)
		text.WriteByte(c2)
	}
	if count == 1 {
		val, err := bs.ReadBits(6)
		if err != nil {
			return errTruncated
		}
		c, err := toAlphanumericChar(val)
		if err != nil {
			return err
		}
		text.WriteByte(c)
	}
	return nil
}

func decodeNumericSegment(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	for ; count >= 3; count -= 3 {
		threeDigits, err := bs.ReadBits(10)
		if err != nil {
			return errTruncated
		}
		if threeDigits >= 1000 {
			return fmt.Errorf("%w: numeric group %d", pixqr.ErrFormat, threeDigits)
		}
		fmt.Fprintf(text, "%03d", threeDigits)
	}
	switch count {
	case 2:
		twoDigits, err := bs.ReadBits(7)
		if err != nil {
			return errTruncated
		}
		if twoDigits >= 100 {
			return fmt.Errorf("%w: numeric group %d", pixqr.ErrFormat, twoDigits)
		}
		fmt.Fprintf(text, "%02d", twoDigits)
	case 1:
		digit, err := bs.ReadBits(4)
		if err != nil {
			return errTruncated
		}
		if digit >= 10 {
			return fmt.Errorf("%w: numeric digit %d", pixqr.ErrFormat, digit)
		}
		fmt.Fprintf(text, "%d", digit)
	}
	return nil
}
