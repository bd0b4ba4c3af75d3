package domain

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a 24-character lowercase hex identifier.
func NewID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic("domain: rand.Read: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// IsID reports whether s has the shape of an identifier: exactly 24 lowercase
// hex characters. Assignment requests carrying anything else are treated as
// unassigned.
func IsID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
