package qrcode

import (
	"bufio"
	"io"
	"strings"

	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// Half block characters keyed by the top and bottom module of a cell pair.
type blockSet struct {
	both, top, bottom, none string
}

var (
	darkBlocks     = blockSet{both: "█", top: "▀", bottom: "▄", none: " "}
	invertedBlocks = blockSet{both: " ", top: "▄", bottom: "▀", none: "█"}
)

func (b blockSet) char(top, bottom bool) string {
	switch {
	case top && bottom:
		return b.both
	case top:
		return b.top
	case bottom:
		return b.bottom
	}
	return b.none
}

// ToTerminal writes code as UTF-8 text, two module rows per line. Dark
// modules are drawn with block characters, unless the colours are swapped
// (a white dark colour or a black light colour), in which case light
// modules are. The vertical quiet zone is margin/2 lines.
func ToTerminal(w io.Writer, code *encoder.QRCode, opts *RenderOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	blocks := darkBlocks
	if cfg.dark.Hex() == "#ffffff" || cfg.light.Hex() == "#000000" {
		blocks = invertedBlocks
	}

	size := code.Size()
	matrix := code.Matrix
	hMargin := strings.Repeat(blocks.none, size+2*cfg.margin) + "\n"
	vMargin := strings.Repeat(blocks.none, cfg.margin)

	bw := bufio.NewWriter(w)
	for i := 0; i < cfg.margin/2; i++ {
		bw.WriteString(hMargin)
	}
	for row := 0; row < size; row += 2 {
		bw.WriteString(vMargin)
		for col := 0; col < size; col++ {
			bottom := row+1 < size && matrix.Get(row+1, col)
			bw.WriteString(blocks.char(matrix.Get(row, col), bottom))
		}
		bw.WriteString(vMargin)
		bw.WriteString("\n")
	}
	for i := 0; i < cfg.margin/2; i++ {
		bw.WriteString(hMargin)
	}
	return bw.Flush()
}

// ToTerminalString returns the text ToTerminal writes.
func ToTerminalString(code *encoder.QRCode, opts *RenderOptions) (string, error) {
	var sb strings.Builder
	if err := ToTerminal(&sb, code, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}
