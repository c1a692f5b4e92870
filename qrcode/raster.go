package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/ericlevine/pixqr/bitutil"
	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// ToImage rasterises code. Pixels in the quiet zone take the light colour;
// every other pixel takes the colour of the module it falls in.
func ToImage(code *encoder.QRCode, opts *RenderOptions) (*image.NRGBA, error) {
	cfg, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	return renderImage(code.Matrix, cfg), nil
}

func renderImage(matrix *bitutil.BitMatrix, cfg *renderConfig) *image.NRGBA {
	size := matrix.Size()
	scale := cfg.moduleScale(size)
	symbolSize := cfg.imageSize(size)
	scaledMargin := float64(cfg.margin) * scale
	img := image.NewNRGBA(image.Rect(0, 0, symbolSize, symbolSize))

	// Module index for each pixel coordinate, -1 inside the quiet zone.
	index := make([]int, symbolSize)
	for p := range index {
		fp := float64(p)
		index[p] = -1
		if fp >= scaledMargin && fp < float64(symbolSize)-scaledMargin {
			index[p] = min(int((fp-scaledMargin)/scale), size-1)
		}
	}

	for y := 0; y < symbolSize; y++ {
		for x := 0; x < symbolSize; x++ {
			c := cfg.light.NRGBA
			if row, col := index[y], index[x]; row >= 0 && col >= 0 && matrix.Get(row, col) {
				c = cfg.dark.NRGBA
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// ToPNG writes code as a PNG image.
func ToPNG(w io.Writer, code *encoder.QRCode, opts *RenderOptions) error {
	img, err := ToImage(code, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG)
}

// ToJPEG writes code as a JPEG image. JPEG has no alpha channel, so
// translucent colours are flattened by the encoder.
func ToJPEG(w io.Writer, code *encoder.QRCode, opts *RenderOptions) error {
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	return imaging.Encode(w, renderImage(code.Matrix, cfg), imaging.JPEG, imaging.JPEGQuality(cfg.quality))
}

// ToDataURL encodes text and returns the rendered image as a base64 data
// URL of RenderOptions.Type.
func ToDataURL(text string, qrOpts *encoder.Options, opts *RenderOptions) (string, error) {
	code, err := Create(text, qrOpts)
	if err != nil {
		return "", err
	}
	return SymbolToDataURL(code, opts)
}

// SymbolToDataURL returns code rendered as a base64 data URL.
func SymbolToDataURL(code *encoder.QRCode, opts *RenderOptions) (string, error) {
	cfg, err := opts.resolve()
	if err != nil {
		return "", err
	}
	img := renderImage(code.Matrix, cfg)

	var buf bytes.Buffer
	switch cfg.mime {
	case MIMETypeJPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(cfg.quality))
	default:
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", cfg.mime, base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
