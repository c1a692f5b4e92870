package qrcode

import (
	"image"
	"sync"

	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// Canvas is a raster surface that renderers draw into and other goroutines
// read from. A frame is always rendered off-screen and swapped in whole,
// so readers never see a cleared or partially drawn surface.
type Canvas struct {
	mu  sync.RWMutex
	img *image.NRGBA
}

// NewCanvas returns an empty Canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Image returns the current frame, or nil before the first draw. The
// returned image is never modified again by the Canvas.
func (c *Canvas) Image() *image.NRGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img
}

// Bounds returns the bounds of the current frame.
func (c *Canvas) Bounds() image.Rectangle {
	if img := c.Image(); img != nil {
		return img.Bounds()
	}
	return image.Rectangle{}
}

func (c *Canvas) swap(img *image.NRGBA) {
	c.mu.Lock()
	c.img = img
	c.mu.Unlock()
}

// ToCanvas renders code and replaces the frame of c.
func ToCanvas(c *Canvas, code *encoder.QRCode, opts *RenderOptions) error {
	img, err := ToImage(code, opts)
	if err != nil {
		return err
	}
	c.swap(img)
	return nil
}
