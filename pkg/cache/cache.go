// Package cache provides artifact caching for the export engine.
//
// Exports are deterministic functions of (model, options), so encoded
// artifacts can be cached by content hash and reused across identical calls.
// The package defines a backend-agnostic [Cache] interface with three
// implementations:
//
//   - [FileCache]: directory-backed, for CLI usage
//   - [RedisCache]: Redis-backed, for the HTTP service
//   - [NullCache]: no-op, for tests and cache-disabled runs
//
// Keys are produced by a [Keyer] so CLI, service, and tests agree on the key
// scheme. Cache failures are never fatal to an export; callers treat every
// error as a miss.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long encoded artifacts stay cached. Artifacts are
// content-addressed, so the TTL only bounds disk/memory growth.
const TTLArtifact = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A non-positive TTL means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the option fields that affect encoded output and
// therefore participate in the cache key. An injected handle sequence also
// affects output but is stateful and cannot be keyed; the exporter skips
// the cache entirely when one is present.
type ArtifactKeyOpts struct {
	Format    string
	Units     string
	Precision int
	Version   string
	Author    string
	Layers    map[string]string // layer color overrides
}

// Keyer generates cache keys for export artifacts.
type Keyer interface {
	// ArtifactKey generates a key for an encoded artifact from the source
	// content hash and the output-affecting options.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a prefix plus a SHA-256 over the
// JSON form of the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for an encoded artifact.
func (k *DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return artifactKey(sourceHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. one
// namespace per tenant in the hosted service.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}
