package util

import "github.com/awnumar/memguard"

func CopyBytes(src []byte) []byte {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// WipeBytes zeroes the provided byte slice in place.
func WipeBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
}
