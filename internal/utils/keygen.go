package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSessionID returns "sess_" followed by 32 random bytes in hex.
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "sess_" + hex.EncodeToString(b), nil
}
