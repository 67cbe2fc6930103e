package proc

import (
	"encoding/binary"
	"unicode/utf16"
)

// decodeUTF16 converts little-endian UTF-16 bytes to a string. A trailing odd
// byte is ignored.
func decodeUTF16(b []byte) string {
	n := len(b) / 2
	if n == 0 {
		return ""
	}
	u := make([]uint16, n)
	for i := range u {
		u[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(u))
}

// encodeUTF16 is the inverse of decodeUTF16, without a terminator.
func encodeUTF16(s string) []byte {
	u := utf16.Encode([]rune(s))
	b := make([]byte, len(u)*2)
	for i, c := range u {
		binary.LittleEndian.PutUint16(b[i*2:], c)
	}
	return b
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
