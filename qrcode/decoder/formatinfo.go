package decoder

import "math/bits"

const (
	formatInfoPoly  = 0x537
	formatInfoMask  = 0x5412
	versionInfoPoly = 0x1F25
)

// FormatInformation is a symbol's EC level and data mask.
type FormatInformation struct {
	ECLevel  ErrorCorrectionLevel
	DataMask byte
}

// bchCode returns the remainder of value·x^(deg poly) divided by poly.
func bchCode(value, poly int) int {
	msb := bits.Len(uint(poly))
	value <<= uint(msb - 1)
	for bits.Len(uint(value)) >= msb {
		value ^= poly << uint(bits.Len(uint(value))-msb)
	}
	return value
}

// FormatInfoBits returns the 15-bit masked format information word.
func FormatInfoBits(ecLevel ErrorCorrectionLevel, maskPattern int) int {
	data := ecLevel.Bits()<<3 | maskPattern
	return (data<<10 | bchCode(data, formatInfoPoly)) ^ formatInfoMask
}

// VersionInfoBits returns the 18-bit version information word (versions 7+).
func VersionInfoBits(version int) int {
	return version<<12 | bchCode(version, versionInfoPoly)
}

// DecodeFormatInformation picks the format word closest to either reading,
// accepting at most 3 bit errors.
func DecodeFormatInformation(formatInfo1, formatInfo2 int) *FormatInformation {
	bestDifference := 32
	var best *FormatInformation
	for _, ecl := range []ErrorCorrectionLevel{ECLevelL, ECLevelM, ECLevelQ, ECLevelH} {
		for mask := 0; mask < 8; mask++ {
			target := FormatInfoBits(ecl, mask)
			for _, read := range [2]int{formatInfo1, formatInfo2} {
				if diff := bits.OnesCount(uint(read ^ target)); diff < bestDifference {
					bestDifference = diff
					best = &FormatInformation{ECLevel: ecl, DataMask: byte(mask)}
				}
			}
		}
	}
	if bestDifference <= 3 {
		return best
	}
	return nil
}

// DecodeVersionInformation returns the version whose information word is
// closest to versionBits, accepting at most 3 bit errors.
func DecodeVersionInformation(versionBits int) *Version {
	bestDifference := 32
	bestVersion := 0
	for v := 7; v <= 40; v++ {
		if diff := bits.OnesCount(uint(versionBits ^ VersionInfoBits(v))); diff < bestDifference {
			bestDifference = diff
			bestVersion = v
		}
	}
	if bestDifference <= 3 {
		return &versions[bestVersion-1]
	}
	return nil
}
