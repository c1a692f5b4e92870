package qrcode

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"

	"github.com/ericlevine/pixqr"
)

// Scan finds a QR Code in img and returns its text. The global histogram
// binarizer is tried first, as it is fast on clean renders, then the
// hybrid one, which copes better with uneven lighting in photographs.
func Scan(img image.Image) (string, error) {
	source := gozxing.NewLuminanceSourceFromImage(img)
	binarizers := []gozxing.Binarizer{
		gozxing.NewGlobalHistgramBinarizer(source),
		gozxing.NewHybridBinarizer(source),
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	reader := zxingqr.NewQRCodeReader()
	var lastErr error
	for _, binarizer := range binarizers {
		bitmap, err := gozxing.NewBinaryBitmap(binarizer)
		if err != nil {
			lastErr = err
			continue
		}
		result, err := reader.Decode(bitmap, hints)
		if err != nil {
			lastErr = err
			continue
		}
		return result.GetText(), nil
	}
	return "", fmt.Errorf("%w: %v", pixqr.ErrNotFound, lastErr)
}

// ScanFile decodes the image at path and scans it.
func ScanFile(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", err
	}
	return Scan(img)
}
