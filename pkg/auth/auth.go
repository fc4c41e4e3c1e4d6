// Package auth guards the admin-only upload endpoint.
package auth

import (
	"crypto/subtle"
	"sync"
)

// Authorizer decides whether a presented admin key is allowed.
type Authorizer struct {
	mu  sync.RWMutex
	key []byte
}

// NewAuthorizer creates an authorizer expecting key. An empty key denies
// every request.
func NewAuthorizer(key string) *Authorizer {
	return &Authorizer{key: []byte(key)}
}

// Authorize reports whether presented matches the expected key. The
// comparison takes constant time for keys of equal length.
func (a *Authorizer) Authorize(presented string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.key) == 0 || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare(a.key, []byte(presented)) == 1
}

// Rotate replaces the expected key.
func (a *Authorizer) Rotate(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.key = []byte(key)
}

// Enabled reports whether any key is configured.
func (a *Authorizer) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.key) > 0
}
