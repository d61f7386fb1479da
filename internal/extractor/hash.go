package extractor

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the SHA-256 hex digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString returns the SHA-256 hex digest of s.
func HashString(s string) string {
	return HashBytes([]byte(s))
}
