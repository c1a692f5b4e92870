package decoder

import (
	"fmt"

	"github.com/ericlevine/pixqr"
	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/reedsolomon"
)

// Result is the content and metadata read back from a symbol.
type Result struct {
	Text            string
	RawBytes        []byte
	Version         int
	ECLevel         ErrorCorrectionLevel
	MaskPattern     int
	Modes           []Mode
	ErrorsCorrected int
}

// Decoder reads module matrices produced by an encoder or a scanner.
type Decoder struct {
	rsDecoder *reedsolomon.Decoder
}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{rsDecoder: reedsolomon.NewDecoder()}
}

// Decode reads the text stored in bm. bm is not modified.
func (d *Decoder) Decode(bm *bitutil.BitMatrix) (*Result, error) {
	p, err := newMatrixParser(bm)
	if err != nil {
		return nil, err
	}
	version, err := p.readVersion()
	if err != nil {
		return nil, err
	}
	formatInfo, err := p.readFormatInformation()
	if err != nil {
		return nil, err
	}
	codewords, err := p.readCodewords(version, int(formatInfo.DataMask))
	if err != nil {
		return nil, err
	}

	blocks := GetDataBlocks(codewords, version, formatInfo.ECLevel)
	var data []byte
	corrected := 0
	for _, db := range blocks {
		n, err := d.rsDecoder.Decode(db.Codewords, len(db.Codewords)-db.NumDataCodewords)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pixqr.ErrChecksum, err)
		}
		corrected += n
		data = append(data, db.Codewords[:db.NumDataCodewords]...)
	}

	result, err := DecodeBitStream(data, version)
	if err != nil {
		return nil, err
	}
	result.ECLevel = formatInfo.ECLevel
	result.MaskPattern = int(formatInfo.DataMask)
	result.ErrorsCorrected = corrected
	return result, nil
}

// matrixParser reads format, version and codewords from an unreserved copy
// of the symbol.
type matrixParser struct {
	bm *bitutil.BitMatrix
}

func newMatrixParser(src *bitutil.BitMatrix) (*matrixParser, error) {
	dimension := src.Size()
	if dimension < 21 || dimension&0x03 != 1 {
		return nil, fmt.Errorf("%w: invalid dimension %d", pixqr.ErrFormat, dimension)
	}
	bm := bitutil.NewBitMatrix(dimension)
	for r := 0; r < dimension; r++ {
		for c := 0; c < dimension; c++ {
			bm.Set(r, c, src.Get(r, c), false)
		}
	}
	return &matrixParser{bm: bm}, nil
}

func (p *matrixParser) copyBit(row, col, acc int) int {
	if p.bm.Get(row, col) {
		return acc<<1 | 1
	}
	return acc << 1
}

func (p *matrixParser) readFormatInformation() (*FormatInformation, error) {
	// Around the top-left finder.
	info1 := 0
	for c := 0; c < 6; c++ {
		info1 = p.copyBit(8, c, info1)
	}
	info1 = p.copyBit(8, 7, info1)
	info1 = p.copyBit(8, 8, info1)
	info1 = p.copyBit(7, 8, info1)
	for r := 5; r >= 0; r-- {
		info1 = p.copyBit(r, 8, info1)
	}

	// Split between the bottom-left and top-right finders.
	dimension := p.bm.Size()
	info2 := 0
	for r := dimension - 1; r >= dimension-7; r-- {
		info2 = p.copyBit(r, 8, info2)
	}
	for c := dimension - 8; c < dimension; c++ {
		info2 = p.copyBit(8, c, info2)
	}

	if fi := DecodeFormatInformation(info1, info2); fi != nil {
		return fi, nil
	}
	return nil, fmt.Errorf("%w: unreadable format information", pixqr.ErrFormat)
}

func (p *matrixParser) readVersion() (*Version, error) {
	dimension := p.bm.Size()
	provisional := (dimension - 17) / 4
	if provisional <= 6 {
		return GetVersionForNumber(provisional)
	}

	// Top-right block, 6 rows by 3 columns.
	bits := 0
	for r := 5; r >= 0; r-- {
		for c := dimension - 9; c >= dimension-11; c-- {
			bits = p.copyBit(r, c, bits)
		}
	}
	if v := DecodeVersionInformation(bits); v != nil && v.Dimension() == dimension {
		return v, nil
	}

	// Bottom-left block, 3 rows by 6 columns.
	bits = 0
	for c := 5; c >= 0; c-- {
		for r := dimension - 9; r >= dimension-11; r-- {
			bits = p.copyBit(r, c, bits)
		}
	}
	if v := DecodeVersionInformation(bits); v != nil && v.Dimension() == dimension {
		return v, nil
	}
	return nil, fmt.Errorf("%w: unreadable version information", pixqr.ErrFormat)
}

func (p *matrixParser) readCodewords(version *Version, mask int) ([]byte, error) {
	functionPattern := version.BuildFunctionPattern()
	maskFn := DataMasks[mask]
	dimension := p.bm.Size()

	result := make([]byte, 0, version.TotalCodewords)
	currentByte, bitsRead := 0, 0
	readingUp := true
	for col := dimension - 1; col > 0; col -= 2 {
		if col == 6 {
			col--
		}
		for count := 0; count < dimension; count++ {
			row := count
			if readingUp {
				row = dimension - 1 - count
			}
			for c := 0; c < 2; c++ {
				if functionPattern.IsReserved(row, col-c) {
					continue
				}
				bit := p.bm.Get(row, col-c) != maskFn(row, col-c)
				currentByte <<= 1
				if bit {
					currentByte |= 1
				}
				bitsRead++
				if bitsRead == 8 {
					result = append(result, byte(currentByte))
					currentByte, bitsRead = 0, 0
				}
			}
		}
		readingUp = !readingUp
	}
	if len(result) != version.TotalCodewords {
		return nil, fmt.Errorf("%w: read %d codewords, want %d", pixqr.ErrFormat, len(result), version.TotalCodewords)
	}
	return result, nil
}
