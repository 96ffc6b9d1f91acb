// Package qr renders pairing QR codes.
// This is part of the platform layer and contains no business logic.
package qr

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// PNG renders the content as a QR code PNG of the given pixel size.
func PNG(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// Terminal renders the content as a QR code using block characters, suitable
// for scanning straight off a terminal.
func Terminal(content string) (string, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", err
	}

	bitmap := code.Bitmap()
	var b strings.Builder
	for _, row := range bitmap {
		for _, dark := range row {
			if dark {
				b.WriteString("██")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
