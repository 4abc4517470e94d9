// Package hashx computes content digests used for file integrity checks.
package hashx

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum256Hex returns the hex-encoded SHA-256 digest of data.
//
// The same function fingerprints content at save time and re-verifies it on
// every read path; the two sides must never diverge.
func Sum256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
