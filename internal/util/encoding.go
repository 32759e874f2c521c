package util

import (
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKD so visually identical passphrases derive the same key.
func Normalize(s string) string {
	return norm.NFKD.String(s)
}

// HexEncode renders b as lowercase hex for terminal output.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}
