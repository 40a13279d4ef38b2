package utils

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// QR code edge bounds in pixels.
const (
	MinQRSize     = 64
	MaxQRSize     = 1024
	DefaultQRSize = 256
)

// ClampQRSize maps a requested size into [MinQRSize, MaxQRSize], using
// DefaultQRSize for non-positive values.
func ClampQRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// GenerateQRCode encodes content with medium error correction and
// returns the PNG bytes.
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(ClampQRSize(size))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
