package repository

import "time"

// refreshMargin is how long before expiry a cached token is retired
const refreshMargin = 10 * time.Second

// TokenCache holds the fare provider's bearer token between lookups. It is
// owned by the fare client and mutated with a plain check-then-set: a racy
// double refresh just overwrites one valid token with another, so no lock is
// taken.
type TokenCache struct {
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// NewTokenCache creates an empty token cache
func NewTokenCache() *TokenCache {
	return &TokenCache{
		now: time.Now,
	}
}

// Get returns the cached token, or false when it is absent or within the
// refresh margin of expiry
func (c *TokenCache) Get() (string, bool) {
	if c.accessToken == "" {
		return "", false
	}
	if c.now().After(c.expiresAt.Add(-refreshMargin)) {
		return "", false
	}
	return c.accessToken, true
}

// Set stores a freshly issued token with its lifetime in seconds
func (c *TokenCache) Set(accessToken string, expiresInSeconds int) {
	c.accessToken = accessToken
	c.expiresAt = c.now().Add(time.Duration(expiresInSeconds) * time.Second)
}
