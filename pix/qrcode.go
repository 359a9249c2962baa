package pix

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 320

// QRCode renders payload as a PNG image of size x size pixels.
func QRCode(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("pix: render qr code: %w", err)
	}
	return png, nil
}
