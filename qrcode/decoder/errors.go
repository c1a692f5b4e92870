package decoder

import (
	"fmt"

	"github.com/ericlevine/pixqr"
)

var (
	errInvalidECLevel = fmt.Errorf("%w: qrcode/decoder: unknown level", pixqr.ErrInvalidECLevel)
	errInvalidMode    = fmt.Errorf("%w: qrcode/decoder: invalid mode", pixqr.ErrFormat)
	errInvalidVersion = fmt.Errorf("%w: must be between 1 and 40", pixqr.ErrInvalidVersion)
)
