package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	orderTokenBytes = 16
	// OrderTokenLength is the length of a hex order token
	OrderTokenLength = orderTokenBytes * 2
)

// GenerateOrderToken returns 128 random bits as lowercase hex
func GenerateOrderToken() (string, error) {
	buf := make([]byte, orderTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsValidOrderToken reports whether s has the shape of a generated token
func IsValidOrderToken(s string) bool {
	if len(s) != OrderTokenLength {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
