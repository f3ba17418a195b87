// internal/hash/hash.go
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyLen is the truncated length used for blob file names. Short enough to
// keep the blob directory readable, long enough that path collisions are
// not a practical concern.
const KeyLen = 12

// Fingerprint returns the full hex digest of content. Used to detect
// on-disk drift between save and restore.
func Fingerprint(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// PathKey derives the blob name for a relative path. Repeated saves of the
// same path map to the same key, so a later diff blob overwrites the
// earlier one.
func PathKey(relPath string) string {
	h := sha256.Sum256([]byte(relPath))
	return hex.EncodeToString(h[:])[:KeyLen]
}

// ContentKey derives the blob name for full document content. Identical
// content maps to the same key, so content blobs deduplicate naturally.
func ContentKey(content []byte) string {
	return Fingerprint(content)[:KeyLen]
}
