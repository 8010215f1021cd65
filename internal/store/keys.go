package store

import "sync"

// keyPool provides reusable byte slices for building lookup keys.
var keyPool = sync.Pool{
	New: func() any {
		// Covers a prefix, "idx:", an index name and a user id or plan.
		return make([]byte, 0, 128)
	},
}

// buildKey constructs a lookup key from prefix and suffix using a pooled buffer.
// The returned slice is valid until releaseKey is called.
// Only use these for reads: badger retains keys passed to Set until commit.
//
//	key := buildKey("sub:", userID)
//	defer releaseKey(key)
//	item, err := txn.Get(key)
func buildKey(prefix, suffix string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, suffix...)
	return buf
}

// releaseKey returns a key buffer to the pool. The key must not be used afterwards.
func releaseKey(key []byte) {
	// Avoid keeping oversized buffers in the pool
	if cap(key) <= 512 {
		keyPool.Put(key[:0])
	}
}
