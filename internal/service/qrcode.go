package service

import (
	"github.com/skip2/go-qrcode"
)

// QRGenerator renders a coin code as a scannable image. The coupling to
// the core is display-only: the payload is the bare code string.
type QRGenerator interface {
	Generate(code string) ([]byte, error)
}

// DefaultQRGenerator encodes codes as 256x256 PNGs.
type DefaultQRGenerator struct{}

func (DefaultQRGenerator) Generate(code string) ([]byte, error) {
	return qrcode.Encode(code, qrcode.Medium, 256)
}
