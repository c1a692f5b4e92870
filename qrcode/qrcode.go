// Package qrcode renders encoded QR Code symbols as raster images, data
// URLs, SVG documents, files and terminal text.
package qrcode

import (
	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// Create encodes text into a symbol. A nil opts means
// encoder.DefaultOptions.
func Create(text string, opts *encoder.Options) (*encoder.QRCode, error) {
	return encoder.Encode(text, opts)
}
