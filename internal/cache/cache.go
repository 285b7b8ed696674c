// Package cache is a small byte cache used for short-lived social-login
// state nonces. Two backends: memory (in-process) and redis (shared).
package cache

import "time"

// Cache is the byte-cache contract.
type Cache interface {
	// Get returns the value and whether the key exists.
	Get(key string) ([]byte, bool)

	// Set stores a value with a TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes a key.
	Delete(key string)
}
