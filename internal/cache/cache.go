package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey hashes the inputs of one assembly run. Parts are length-prefixed
// so ("ab", "c") and ("a", "bc") never collide.
func CacheKey(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		var size [8]byte
		n := uint64(len(p))
		for i := range size {
			size[i] = byte(n >> (8 * i))
		}
		h.Write(size[:])
		h.Write(p)
	}
	return "npo:v1:" + hex.EncodeToString(h.Sum(nil))
}
