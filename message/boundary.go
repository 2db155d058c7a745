package message

import (
	"math/rand"
	"strings"
)

const (
	boundaryLength = 30
	letters        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateBoundary will generate a random MIME boundary. It starts with "=_",
// which can never appear in base64 or quoted-printable output, so it is
// safe for any body this package encodes.
func GenerateBoundary() string {
	var b strings.Builder
	b.Grow(boundaryLength + 2)
	b.WriteString("=_")
	for i := 0; i < boundaryLength; i++ {
		b.WriteByte(letters[rand.Intn(len(letters))])
	}
	return b.String()
}
