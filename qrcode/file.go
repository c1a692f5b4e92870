package qrcode

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// ToFile writes code to path in the format named by its extension: .svg
// for SVG, .txt for terminal text, and any raster format imaging can save
// (.png, .jpg, .jpeg, .gif, .tif, .tiff, .bmp) for images.
func ToFile(path string, code *encoder.QRCode, opts *RenderOptions) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return writeFile(path, func(f *os.File) error { return ToSVG(f, code, opts) })
	case ".txt":
		return writeFile(path, func(f *os.File) error { return ToTerminal(f, code, opts) })
	}

	if _, err := imaging.FormatFromFilename(path); err != nil {
		return err
	}
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	return imaging.Save(renderImage(code.Matrix, cfg), path, imaging.JPEGQuality(cfg.quality))
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
