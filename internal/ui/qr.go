package ui

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// renderQR draws content as a QR code in half-height block characters, two
// modules per terminal row, quiet zone included.
func renderQR(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("empty qr content")
	}
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return strings.TrimRight(q.ToSmallString(false), "\n"), nil
}
