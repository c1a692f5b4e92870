// Package encoder turns text into a QR Code module matrix: it picks the
// cheapest mix of segment modes, the smallest version that holds them,
// builds the error corrected codeword stream and places it with the best
// data mask.
package encoder

import (
	"fmt"
	"strings"

	"github.com/ericlevine/pixqr"
	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/qrcode/decoder"
	"github.com/ericlevine/pixqr/reedsolomon"
)

// Options configures Encode.
type Options struct {
	ECLevel decoder.ErrorCorrectionLevel

	// Version forces a symbol version in 1-40. Zero picks the smallest
	// version that holds the data.
	Version int

	// MaskPattern forces a data mask in 0-7. -1 picks the mask with the
	// lowest penalty.
	MaskPattern int

	// Kanji enables Kanji mode. When nil, text that Kanji mode could hold
	// is written as UTF-8 in Byte mode.
	Kanji KanjiEncoder
}

// DefaultOptions returns level M with automatic version and mask selection.
func DefaultOptions() *Options {
	return &Options{ECLevel: decoder.ECLevelM, MaskPattern: -1}
}

// QRCode is an encoded symbol.
type QRCode struct {
	Segments    []Segment
	ECLevel     decoder.ErrorCorrectionLevel
	Version     *decoder.Version
	MaskPattern int
	Matrix      *bitutil.BitMatrix
}

// Size returns the side length of the symbol in modules.
func (qr *QRCode) Size() int {
	return qr.Matrix.Size()
}

func (qr *QRCode) String() string {
	var result strings.Builder
	result.WriteString("<<\n")
	fmt.Fprintf(&result, " ecLevel: %v\n", qr.ECLevel)
	fmt.Fprintf(&result, " version: %d\n", qr.Version.Number)
	fmt.Fprintf(&result, " maskPattern: %d\n", qr.MaskPattern)
	for _, s := range qr.Segments {
		fmt.Fprintf(&result, " segment: %v %d\n", s.Mode, s.Length)
	}
	if qr.Matrix == nil {
		result.WriteString(" matrix: nil\n")
	} else {
		result.WriteString(" matrix:\n")
		result.WriteString(qr.Matrix.String())
	}
	result.WriteString(">>\n")
	return result.String()
}

// Encode encodes content. A nil opts means DefaultOptions.
func Encode(content string, opts *Options) (*QRCode, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.ECLevel < decoder.ECLevelL || opts.ECLevel > decoder.ECLevelH {
		return nil, fmt.Errorf("%w: %d", pixqr.ErrInvalidECLevel, opts.ECLevel)
	}
	if opts.Version < 0 || opts.Version > 40 {
		return nil, fmt.Errorf("%w: %d", pixqr.ErrInvalidVersion, opts.Version)
	}
	if opts.MaskPattern < -1 || opts.MaskPattern > 7 {
		return nil, fmt.Errorf("%w: %d", pixqr.ErrInvalidMask, opts.MaskPattern)
	}

	segments, version, err := chooseSegments(content, opts)
	if err != nil {
		return nil, err
	}

	bits, err := buildDataBits(segments, version, opts)
	if err != nil {
		return nil, err
	}
	codewords, err := interleaveWithECBytes(bits, version, opts.ECLevel)
	if err != nil {
		return nil, err
	}

	matrix := buildMatrix(codewords, version, opts.ECLevel)
	maskPattern := opts.MaskPattern
	if maskPattern < 0 {
		maskPattern = chooseMaskPattern(matrix, opts.ECLevel)
	}
	decoder.ApplyMask(matrix, maskPattern)
	embedFormatInfo(matrix, opts.ECLevel, maskPattern)

	return &QRCode{
		Segments:    segments,
		ECLevel:     opts.ECLevel,
		Version:     version,
		MaskPattern: maskPattern,
		Matrix:      matrix,
	}, nil
}

// chooseSegments segments content and resolves the symbol version. Without
// an explicit version the segmentation is optimised for a version estimated
// from the raw tokens, then the version is recomputed for the result.
func chooseSegments(content string, opts *Options) ([]Segment, *decoder.Version, error) {
	tokens := Tokenize(content, opts.Kanji)

	graphVersion := opts.Version
	if graphVersion == 0 {
		graphVersion = 40
		if v, ok := minVersion(tokens, opts.ECLevel); ok {
			graphVersion = v.Number
		}
	}
	segments := OptimalSegments(tokens, graphVersion)

	best, ok := minVersion(segments, opts.ECLevel)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d bits at level %v", pixqr.ErrDataTooBig,
			dataBits(segments, 40), opts.ECLevel)
	}
	if opts.Version == 0 {
		return segments, best, nil
	}
	if opts.Version < best.Number {
		return nil, nil, fmt.Errorf("%w: the chosen version %d cannot hold the data, minimum version required is %d",
			pixqr.ErrVersionTooSmall, opts.Version, best.Number)
	}
	version, err := decoder.GetVersionForNumber(opts.Version)
	if err != nil {
		return nil, nil, err
	}
	return segments, version, nil
}

// buildDataBits writes every segment, then the terminator and padding up to
// the data capacity of version.
func buildDataBits(segments []Segment, version *decoder.Version, opts *Options) (*bitutil.BitArray, error) {
	numDataBytes := version.DataCodewords(opts.ECLevel)
	bits := bitutil.NewBitArray(numDataBytes * 8)
	for _, s := range segments {
		if err := s.write(bits, version.Number, opts.Kanji); err != nil {
			return nil, err
		}
	}
	if err := terminateBits(numDataBytes, bits); err != nil {
		return nil, err
	}
	return bits, nil
}

// terminateBits appends up to four terminator bits, zero pads to a byte
// boundary and fills the remaining capacity with 0xEC 0x11 pad codewords.
func terminateBits(numDataBytes int, bits *bitutil.BitArray) error {
	capacity := numDataBytes * 8
	if bits.Size() > capacity {
		return fmt.Errorf("%w: data bits cannot fit in the QR Code %d > %d",
			pixqr.ErrDataTooBig, bits.Size(), capacity)
	}
	for i := 0; i < 4 && bits.Size() < capacity; i++ {
		bits.AppendBit(false)
	}
	if r := bits.Size() & 0x07; r > 0 {
		for i := r; i < 8; i++ {
			bits.AppendBit(false)
		}
	}
	numPaddingBytes := numDataBytes - bits.SizeInBytes()
	for i := 0; i < numPaddingBytes; i++ {
		if i&0x01 == 0 {
			bits.AppendBits(0xEC, 8)
		} else {
			bits.AppendBits(0x11, 8)
		}
	}
	return nil
}

// blockSizes returns the data and EC codeword counts of block blockID.
// Group 2 blocks carry one more data codeword than group 1 blocks; every
// block has the same number of EC codewords.
func blockSizes(numTotalBytes, numDataBytes, numRSBlocks, blockID int) (numData, numEC int) {
	numRSBlocksInGroup2 := numTotalBytes % numRSBlocks
	numRSBlocksInGroup1 := numRSBlocks - numRSBlocksInGroup2
	numTotalBytesInGroup1 := numTotalBytes / numRSBlocks
	numDataBytesInGroup1 := numDataBytes / numRSBlocks
	numECBytes := numTotalBytesInGroup1 - numDataBytesInGroup1
	if blockID < numRSBlocksInGroup1 {
		return numDataBytesInGroup1, numECBytes
	}
	return numDataBytesInGroup1 + 1, numECBytes
}

type blockPair struct {
	dataBytes []byte
	ecBytes   []byte
}

// interleaveWithECBytes splits the data codewords into blocks, appends the
// Reed-Solomon codewords of each block and interleaves the result: data
// codewords column by column, then EC codewords column by column.
func interleaveWithECBytes(bits *bitutil.BitArray, version *decoder.Version, ecLevel decoder.ErrorCorrectionLevel) ([]byte, error) {
	numTotalBytes := version.TotalCodewords
	numDataBytes := version.DataCodewords(ecLevel)
	numRSBlocks := version.ECBlocksForLevel(ecLevel).NumBlocks()
	if bits.SizeInBytes() != numDataBytes {
		return nil, fmt.Errorf("%w: number of bits and data bytes does not match", pixqr.ErrFormat)
	}

	blocks := make([]blockPair, 0, numRSBlocks)
	offset := 0
	maxNumDataBytes, maxNumECBytes := 0, 0
	for i := 0; i < numRSBlocks; i++ {
		numData, numEC := blockSizes(numTotalBytes, numDataBytes, numRSBlocks, i)
		dataBytes := make([]byte, numData)
		bits.ToBytes(8*offset, dataBytes, 0, numData)
		ecBytes, err := reedsolomon.NewBlockEncoder(numEC).Encode(dataBytes)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blockPair{dataBytes, ecBytes})
		maxNumDataBytes = max(maxNumDataBytes, numData)
		maxNumECBytes = max(maxNumECBytes, numEC)
		offset += numData
	}

	result := make([]byte, 0, numTotalBytes)
	for i := 0; i < maxNumDataBytes; i++ {
		for _, block := range blocks {
			if i < len(block.dataBytes) {
				result = append(result, block.dataBytes[i])
			}
		}
	}
	for i := 0; i < maxNumECBytes; i++ {
		for _, block := range blocks {
			if i < len(block.ecBytes) {
				result = append(result, block.ecBytes[i])
			}
		}
	}
	if len(result) != numTotalBytes {
		return nil, fmt.Errorf("%w: interleaving error: %d and %d differ",
			pixqr.ErrFormat, numTotalBytes, len(result))
	}
	return result, nil
}
