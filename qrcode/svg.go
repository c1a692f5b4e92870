package qrcode

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// ToSVG writes code as an SVG document: an optional background path in the
// light colour and a single stroked path drawing the dark modules one
// horizontal run at a time. The view box is in modules, quiet zone
// included.
func ToSVG(w io.Writer, code *encoder.QRCode, opts *RenderOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	size := code.Size()
	total := size + 2*cfg.margin
	side := cfg.imageSize(size)

	s := svg.New(w)
	s.Startview(side, side, 0, 0, total, total)
	s.Group(`shape-rendering="crispEdges"`)
	if cfg.light.A != 0 {
		s.Path(fmt.Sprintf("M0 0h%dv%dH0z", total, total), colorAttr(cfg.light, "fill"))
	}
	s.Path(svgPath(code.Matrix, cfg.margin), colorAttr(cfg.dark, "stroke"))
	s.Gend()
	s.End()
	return nil
}

// ToSVGString returns the document ToSVG writes.
func ToSVGString(code *encoder.QRCode, opts *RenderOptions) (string, error) {
	var buf bytes.Buffer
	if err := ToSVG(&buf, code, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// colorAttr returns attr="#rrggbb", followed by attr-opacity=".nn" when the
// colour is translucent.
func colorAttr(c Color, attr string) string {
	s := fmt.Sprintf(`%s="%s"`, attr, c.Hex())
	if alpha := c.Opacity(); alpha < 1 {
		opacity := strconv.FormatFloat(alpha, 'f', 2, 64)
		s += fmt.Sprintf(` %s-opacity="%s"`, attr, strings.TrimPrefix(opacity, "0"))
	}
	return s
}

// svgPath draws each horizontal run of dark modules as a one unit stroke
// through the middle of its row. The first run of a row starts with an
// absolute move; later runs move relative to the end of the previous run.
func svgPath(matrix *bitutil.BitMatrix, margin int) string {
	var path strings.Builder
	size := matrix.Size()
	moveBy := 0
	lineLength := 0
	for row := 0; row < size; row++ {
		newRow := true
		for col := 0; col < size; col++ {
			if !matrix.Get(row, col) {
				moveBy++
				continue
			}
			lineLength++
			if col == 0 || !matrix.Get(row, col-1) {
				if newRow {
					fmt.Fprintf(&path, "M%d %s", col+margin, strconv.FormatFloat(float64(row+margin)+0.5, 'f', -1, 64))
				} else {
					fmt.Fprintf(&path, "m%d 0", moveBy)
				}
				moveBy = 0
				newRow = false
			}
			if col+1 == size || !matrix.Get(row, col+1) {
				fmt.Fprintf(&path, "h%d", lineLength)
				lineLength = 0
			}
		}
	}
	return path.String()
}
