package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key generates a cache key by hashing the JSON encoding of parts.
// The key format is: prefix:sha256(parts...)
func Key(prefix string, parts ...any) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", err
	}
	return prefix + ":" + Hash(data), nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
