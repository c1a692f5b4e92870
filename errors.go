// Package pixqr builds PIX BR Code payments and renders them as QR Codes.
//
// The sub-packages form a pipeline: pix builds the BR Code string,
// qrcode/encoder turns text into a module matrix, and qrcode renders the
// matrix. The errors below are shared by all of them; callers match with
// errors.Is.
package pixqr

import "errors"

var (
	// ErrDataTooBig is returned when the input does not fit in a version 40 symbol.
	ErrDataTooBig = errors.New("data too big for a QR code")

	// ErrVersionTooSmall is returned when an explicit version cannot hold the input.
	ErrVersionTooSmall = errors.New("chosen QR code version cannot contain this amount of data")

	// ErrInvalidVersion is returned for versions outside 1-40.
	ErrInvalidVersion = errors.New("invalid QR code version")

	// ErrInvalidMask is returned for mask patterns outside 0-7.
	ErrInvalidMask = errors.New("invalid mask pattern")

	// ErrInvalidECLevel is returned for an unknown error correction level.
	ErrInvalidECLevel = errors.New("invalid error correction level")

	// ErrInvalidColor is returned for a malformed hex colour.
	ErrInvalidColor = errors.New("invalid hex color")

	// ErrMissingKey is returned when a PIX payload has no key.
	ErrMissingKey = errors.New("pix key is mandatory")

	// ErrMissingName is returned when a PIX payload has no merchant name.
	ErrMissingName = errors.New("merchant name is mandatory")

	// ErrMissingCity is returned when a PIX payload has no merchant city.
	ErrMissingCity = errors.New("merchant city is mandatory")

	// ErrInvalidKey is returned when a PIX key does not match its key type.
	ErrInvalidKey = errors.New("invalid pix key")

	// ErrInvalidAmount is returned for negative, non-finite or oversized amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrFieldTooLong is returned when a TLV value exceeds 99 characters.
	ErrFieldTooLong = errors.New("field value too long")

	// ErrChecksum is returned when a checksum does not match.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when a payload or symbol cannot be parsed.
	ErrFormat = errors.New("format error")

	// ErrNotFound is returned when no QR code is found in an image.
	ErrNotFound = errors.New("QR code not found")
)
