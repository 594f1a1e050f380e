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

// CacheKey builds a namespaced key; name is hashed so any string is safe
// as a file name on the disk layer
func CacheKey(kind, name string) string {
	hash := sha256.Sum256([]byte(name))
	return "privdiag-v1-" + kind + "-" + hex.EncodeToString(hash[:8])
}
