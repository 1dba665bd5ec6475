package dt0

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// TransformCache shares Encrypters between casters that resolve to the same
// key material and cipher. Entries are created lazily and never evicted.
//
// A TransformCache is owned by the composition root and injected into
// NewEncrypted. It is safe for concurrent use; concurrent first use of one
// identity builds at most one observable Encrypter.
type TransformCache struct {
	mu      sync.RWMutex
	entries map[string]*Encrypter
}

// NewTransformCache returns an empty cache.
func NewTransformCache() *TransformCache {
	return &TransformCache{entries: make(map[string]*Encrypter)}
}

// transformID derives the cache identity of a key and cipher pair.
func transformID(key []byte, c Cipher) string {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte{0})
	h.Write([]byte(c))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached Encrypter for key and c, building it on first use.
func (tc *TransformCache) Get(key []byte, c Cipher) (*Encrypter, error) {
	id := transformID(key, c)

	// Fast path: read-lock cache check
	tc.mu.RLock()
	if enc, ok := tc.entries[id]; ok {
		tc.mu.RUnlock()
		return enc, nil
	}
	tc.mu.RUnlock()

	// Slow path: build and cache with write-lock
	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Double-check pattern
	if enc, ok := tc.entries[id]; ok {
		return enc, nil
	}

	enc, err := NewEncrypter(key, c)
	if err != nil {
		return nil, err
	}

	tc.entries[id] = enc
	emitTransformCreated(context.Background(), string(c), len(tc.entries))
	return enc, nil
}

// Len returns the number of cached transforms.
func (tc *TransformCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.entries)
}
