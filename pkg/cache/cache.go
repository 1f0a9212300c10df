// Package cache stores rendered build artifacts.
//
// Artifacts are keyed by the content digest of the assembly they were
// rendered from, so an unchanged stack is never rendered twice. Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a URL.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default TTLs.
const (
	// TTLArtifact is the lifetime of a rendered artifact. Keys are content
	// addressed, so entries never go stale; the TTL only bounds disk use.
	TTLArtifact = 30 * 24 * time.Hour

	// TTLPlan is the lifetime of a rendered build plan.
	TTLPlan = 7 * 24 * time.Hour
)

// ArtifactKeyOpts identifies one rendering of an assembly.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	// Part is the layer name for per-part artifacts, empty for the
	// whole assembly.
	Part string `json:"part,omitempty"`
	// Scale and Margin are the render settings the artifact depends on.
	// Both stay zero for formats that ignore them.
	Scale  float64 `json:"scale,omitempty"`
	Margin float64 `json:"margin,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an artifact rendered from the
	// assembly with the given digest.
	ArtifactKey(assemblyHash string, opts ArtifactKeyOpts) string

	// PlanKey returns the key of a build plan rendered from an
	// instruction file with the given digest.
	PlanKey(fileHash, format string) string
}

// DefaultKeyer produces "artifact:<sha256>" and "plan:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ArtifactKey(assemblyHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", assemblyHash, opts)
}

func (DefaultKeyer) PlanKey(fileHash, format string) string {
	return hashKey("plan", fileHash, format)
}
