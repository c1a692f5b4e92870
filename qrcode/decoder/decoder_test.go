package decoder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ericlevine/pixqr"
)

func TestSymbolSize(t *testing.T) {
	for v := 1; v <= 40; v++ {
		version, err := GetVersionForNumber(v)
		if err != nil {
			t.Fatalf("GetVersionForNumber(%d): %v", v, err)
		}
		if got := version.Dimension(); got != 4*v+17 {
			t.Errorf("version %d: dimension = %d, want %d", v, got, 4*v+17)
		}
		for _, ecl := range []ErrorCorrectionLevel{ECLevelL, ECLevelM, ECLevelQ, ECLevelH} {
			if version.DataCodewords(ecl) <= 0 {
				t.Errorf("version %d-%v: no data codewords", v, ecl)
			}
		}
	}
}

func TestGetVersionForNumberInvalid(t *testing.T) {
	for _, n := range []int{0, -1, 41} {
		if _, err := GetVersionForNumber(n); !errors.Is(err, pixqr.ErrInvalidVersion) {
			t.Errorf("GetVersionForNumber(%d) err = %v, want ErrInvalidVersion", n, err)
		}
	}
}

func TestCapacities(t *testing.T) {
	tests := []struct {
		version int
		ecl     ErrorCorrectionLevel
		total   int
		data    int
	}{
		{1, ECLevelL, 26, 19},
		{1, ECLevelM, 26, 16},
		{1, ECLevelH, 26, 9},
		{5, ECLevelQ, 134, 62},
		{40, ECLevelL, 3706, 2956},
		{40, ECLevelH, 3706, 1276},
	}
	for _, tt := range tests {
		v, _ := GetVersionForNumber(tt.version)
		if v.TotalCodewords != tt.total {
			t.Errorf("version %d: total = %d, want %d", tt.version, v.TotalCodewords, tt.total)
		}
		if got := v.DataCodewords(tt.ecl); got != tt.data {
			t.Errorf("version %d-%v: data = %d, want %d", tt.version, tt.ecl, got, tt.data)
		}
	}
}

func TestAlignmentPatternCenters(t *testing.T) {
	tests := map[int][]int{
		1:  nil,
		2:  {6, 18},
		7:  {6, 22, 38},
		14: {6, 26, 46, 66},
		32: {6, 34, 60, 86, 112, 138},
		36: {6, 24, 50, 76, 102, 128, 154},
		40: {6, 30, 58, 86, 114, 142, 170},
	}
	for n, want := range tests {
		v, _ := GetVersionForNumber(n)
		if diff := cmp.Diff(want, v.AlignmentPatternCenters()); diff != "" {
			t.Errorf("version %d centers mismatch (-want +got):\n%s", n, diff)
		}
	}
	v7, _ := GetVersionForNumber(7)
	if got := len(v7.AlignmentPatternPositions()); got != 6 {
		t.Errorf("version 7 has %d alignment patterns, want 6", got)
	}
}

func TestFormatInfoBits(t *testing.T) {
	tests := []struct {
		ecl  ErrorCorrectionLevel
		mask int
		want int
	}{
		{ECLevelM, 0, 0x5412},
		{ECLevelM, 5, 0x40CE},
		{ECLevelL, 0, 0x77C4},
		{ECLevelH, 0, 0x1689},
		{ECLevelQ, 7, 0x2BED},
	}
	for _, tt := range tests {
		if got := FormatInfoBits(tt.ecl, tt.mask); got != tt.want {
			t.Errorf("FormatInfoBits(%v, %d) = %#x, want %#x", tt.ecl, tt.mask, got, tt.want)
		}
	}
}

func TestVersionInfoBits(t *testing.T) {
	tests := map[int]int{7: 0x07C94, 8: 0x085BC, 21: 0x15683, 40: 0x28C69}
	for v, want := range tests {
		if got := VersionInfoBits(v); got != want {
			t.Errorf("VersionInfoBits(%d) = %#x, want %#x", v, got, want)
		}
	}
}

func TestDecodeFormatInformation(t *testing.T) {
	masked := FormatInfoBits(ECLevelQ, 3)
	fi := DecodeFormatInformation(masked^0x3, masked)
	if fi == nil || fi.ECLevel != ECLevelQ || fi.DataMask != 3 {
		t.Errorf("DecodeFormatInformation = %+v, want Q/3", fi)
	}
}

func TestDecodeVersionInformation(t *testing.T) {
	v := DecodeVersionInformation(VersionInfoBits(23) ^ 0x101)
	if v == nil || v.Number != 23 {
		t.Errorf("DecodeVersionInformation = %v, want 23", v)
	}
}

func TestParseECLevel(t *testing.T) {
	tests := map[string]ErrorCorrectionLevel{
		"L": ECLevelL, "low": ECLevelL, "m": ECLevelM, "Medium": ECLevelM,
		"Q": ECLevelQ, "quartile": ECLevelQ, "H": ECLevelH, "HIGH": ECLevelH,
	}
	for in, want := range tests {
		got, err := ParseECLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseECLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseECLevel("X"); !errors.Is(err, pixqr.ErrInvalidECLevel) {
		t.Errorf("ParseECLevel(X) err = %v", err)
	}
}

func TestECLevelBits(t *testing.T) {
	for _, ecl := range []ErrorCorrectionLevel{ECLevelL, ECLevelM, ECLevelQ, ECLevelH} {
		got, err := ECLevelForBits(ecl.Bits())
		if err != nil || got != ecl {
			t.Errorf("ECLevelForBits(%d) = %v, %v; want %v", ecl.Bits(), got, err, ecl)
		}
	}
}

func TestCharacterCountBits(t *testing.T) {
	tests := []struct {
		mode    Mode
		version int
		want    int
	}{
		{ModeNumeric, 1, 10}, {ModeNumeric, 10, 12}, {ModeNumeric, 27, 14},
		{ModeAlphanumeric, 9, 9}, {ModeAlphanumeric, 26, 11}, {ModeAlphanumeric, 40, 13},
		{ModeByte, 1, 8}, {ModeByte, 10, 16}, {ModeByte, 40, 16},
		{ModeKanji, 1, 8}, {ModeKanji, 20, 10}, {ModeKanji, 30, 12},
	}
	for _, tt := range tests {
		if got := tt.mode.CharacterCountBits(tt.version); got != tt.want {
			t.Errorf("%v.CharacterCountBits(%d) = %d, want %d", tt.mode, tt.version, got, tt.want)
		}
	}
}

func TestModeForBits(t *testing.T) {
	if _, err := ModeForBits(0x3); err == nil {
		t.Error("structured append should be rejected")
	}
	m, err := ModeForBits(0x8)
	if err != nil || m != ModeKanji {
		t.Errorf("ModeForBits(8) = %v, %v", m, err)
	}
}

func TestGetDataBlocks(t *testing.T) {
	// 5-Q: two blocks of 15 data codewords, two of 16, 18 EC codewords each.
	v, _ := GetVersionForNumber(5)
	raw := make([]byte, v.TotalCodewords)
	for i := range raw {
		raw[i] = byte(i)
	}
	blocks := GetDataBlocks(raw, v, ECLevelQ)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	wantData := []int{15, 15, 16, 16}
	for i, b := range blocks {
		if b.NumDataCodewords != wantData[i] || len(b.Codewords) != wantData[i]+18 {
			t.Errorf("block %d: data=%d len=%d", i, b.NumDataCodewords, len(b.Codewords))
		}
	}
	// Column-wise interleave: block 3 data[0] is raw[3], data[15] is raw[61].
	if blocks[3].Codewords[0] != 3 || blocks[3].Codewords[15] != 61 {
		t.Errorf("block 3 = %v", blocks[3].Codewords[:16])
	}
	// First EC codeword of block 0 follows all 62 data codewords.
	if blocks[0].Codewords[15] != 62 {
		t.Errorf("block 0 first EC = %d, want 62", blocks[0].Codewords[15])
	}
}

func TestBuildFunctionPattern(t *testing.T) {
	v, _ := GetVersionForNumber(7)
	fp := v.BuildFunctionPattern()
	dim := v.Dimension()
	reserved := 0
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			if fp.IsReserved(r, c) {
				reserved++
			}
		}
	}
	// 45×45 modules, 196 data codewords = 1568 bits, no remainder bits at v7.
	if got := dim*dim - reserved; got != 8*v.TotalCodewords {
		t.Errorf("data modules = %d, want %d", got, 8*v.TotalCodewords)
	}
}

func TestECLevelRecovery(t *testing.T) {
	var got []int
	for _, ecl := range []ErrorCorrectionLevel{ECLevelL, ECLevelM, ECLevelQ, ECLevelH} {
		got = append(got, ecl.Recovery())
	}
	if diff := cmp.Diff([]int{7, 15, 25, 30}, got); diff != "" {
		t.Errorf("Recovery mismatch (-want +got):\n%s", diff)
	}
	if r := ErrorCorrectionLevel(9).Recovery(); r != 0 {
		t.Errorf("Recovery of an unknown level = %d", r)
	}
	if s := ErrorCorrectionLevel(-1).String(); s != "?" {
		t.Errorf("String of an unknown level = %q", s)
	}
}
