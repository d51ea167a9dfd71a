package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form "<stage>:<sha256 of parts>".
// The stage prefix ("diagram", "layout") keeps the two pipeline stages
// from ever colliding; the parts are JSON-encoded before hashing so that
// structured values like LayoutKeyOpts contribute every field.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", stage, Hash(data))
}

// Hash returns the SHA-256 of data as a 64-character hex string. It is
// also how the pipeline fingerprints a serialized diagram: the hash of
// the marshaled tree identifies the diagram content in layout keys and
// stored documents.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
