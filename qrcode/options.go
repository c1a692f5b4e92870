package qrcode

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ericlevine/pixqr"
)

const (
	defaultMargin      = 4
	defaultScale       = 4
	defaultJPEGQuality = 92
	minWidth           = 21

	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
)

// RenderOptions configures every renderer. The zero value renders black
// modules on white with a 4 module quiet zone at 4 pixels per module.
type RenderOptions struct {
	// Margin is the quiet zone in modules. nil or negative means 4.
	Margin *int

	// Scale is the size of one module in pixels. Ignored when Width is set.
	Scale float64

	// Width forces the image side in pixels. Values below 21 are ignored.
	Width int

	// Dark and Light are hex colours: #rgb, #rgba, #rrggbb or #rrggbbaa,
	// with or without the leading '#'.
	Dark  string
	Light string

	// Type selects the data URL image type, MIMETypePNG or MIMETypeJPEG.
	Type string

	// JPEGQuality is 1-100. Zero means 92.
	JPEGQuality int
}

// Margin returns a Margin value for RenderOptions.
func Margin(m int) *int { return &m }

type renderConfig struct {
	margin  int
	scale   float64
	width   int
	dark    Color
	light   Color
	mime    string
	quality int
}

func (o *RenderOptions) resolve() (*renderConfig, error) {
	if o == nil {
		o = &RenderOptions{}
	}
	cfg := &renderConfig{
		margin:  defaultMargin,
		scale:   defaultScale,
		mime:    MIMETypePNG,
		quality: defaultJPEGQuality,
	}
	if o.Margin != nil && *o.Margin >= 0 {
		cfg.margin = *o.Margin
	}
	if o.Width >= minWidth {
		cfg.width = o.Width
	} else if o.Scale > 0 {
		cfg.scale = o.Scale
	}

	dark, light := o.Dark, o.Light
	if dark == "" {
		dark = "#000000ff"
	}
	if light == "" {
		light = "#ffffffff"
	}
	var err error
	if cfg.dark, err = ParseColor(dark); err != nil {
		return nil, err
	}
	if cfg.light, err = ParseColor(light); err != nil {
		return nil, err
	}

	switch o.Type {
	case "", MIMETypePNG:
	case MIMETypeJPEG:
		cfg.mime = MIMETypeJPEG
	default:
		return nil, fmt.Errorf("%w: unsupported image type %q", pixqr.ErrFormat, o.Type)
	}
	if o.JPEGQuality > 0 {
		cfg.quality = min(o.JPEGQuality, 100)
	}
	return cfg, nil
}

// moduleScale returns the pixels per module for a symbol of the given size.
// A width wide enough for the symbol and its margin overrides the scale.
func (cfg *renderConfig) moduleScale(size int) float64 {
	total := size + 2*cfg.margin
	if cfg.width > 0 && cfg.width >= total {
		return float64(cfg.width) / float64(total)
	}
	return cfg.scale
}

// imageSize returns the side in pixels of the rendered symbol.
func (cfg *renderConfig) imageSize(size int) int {
	return int(float64(size+2*cfg.margin) * cfg.moduleScale(size))
}

// Color is a parsed render colour.
type Color struct {
	color.NRGBA
}

// Hex returns the colour as #rrggbb, without alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns the alpha channel in [0, 1].
func (c Color) Opacity() float64 {
	return float64(c.A) / 255
}

// ParseColor parses a hex colour of 3, 4, 6 or 8 digits. Short forms have
// each digit doubled and 6 digit colours are opaque.
func ParseColor(s string) (Color, error) {
	code := strings.Replace(s, "#", "", 1)
	switch len(code) {
	case 3, 4:
		var sb strings.Builder
		for i := 0; i < len(code); i++ {
			sb.WriteByte(code[i])
			sb.WriteByte(code[i])
		}
		code = sb.String()
	}
	if len(code) == 6 {
		code += "ff"
	}
	if len(code) != 8 {
		return Color{}, fmt.Errorf("%w: %q", pixqr.ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", pixqr.ErrInvalidColor, s)
	}
	return Color{color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}}, nil
}
