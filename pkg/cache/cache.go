// Package cache provides content-addressed caching for pipeline results.
//
// Layouts are pure functions of (diagram, layout options), so cache keys
// are derived from a hash of the serialized diagram plus the options that
// influence the result. Backends range from a no-op NullCache through a
// per-user FileCache to a shared RedisCache for server deployments.
package cache

import (
	"context"
	"time"
)

// Default TTLs per content type.
const (
	// TTLDiagram bounds how long parsed diagram documents stay cached.
	TTLDiagram = 24 * time.Hour

	// TTLLayout bounds how long computed layouts stay cached. Layouts are
	// deterministic in their key, so the TTL only limits disk growth.
	TTLLayout = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the option fields that change a layout result and
// therefore participate in its cache key.
type LayoutKeyOpts struct {
	Algorithm string `json:"algorithm"`
	Seed      int64  `json:"seed"`

	// ConfigHash fingerprints the full layout configuration, so tuning
	// any spacing knob invalidates cached layouts.
	ConfigHash string `json:"config_hash"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DiagramKey keys a serialized diagram document.
	DiagramKey(name, contentHash string) string

	// LayoutKey keys a computed layout for a diagram hash and options.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer generates hash-based keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DiagramKey implements Keyer.
func (k *DefaultKeyer) DiagramKey(name, contentHash string) string {
	return hashKey("diagram", name, contentHash)
}

// LayoutKey implements Keyer.
func (k *DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}
