// Package cache stores rendered artifacts keyed by request content.
//
// Rendering in embedded and preview mode is byte-deterministic, so an
// artifact produced for one request can be served again for an identical
// request. Token mode mints fresh identifiers on every run and must never
// be cached; callers enforce that by only consulting the cache for the
// idempotent modes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the interface for artifact storage backends.
type Cache interface {
	// Get retrieves a cached artifact. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores an artifact. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes an artifact.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts are the request parameters that change rendered bytes.
// Anything not in here must not influence the artifact, or the cache
// would serve stale output.
type RenderKeyOpts struct {
	Mode     string  `json:"mode"`
	Format   string  `json:"format"`
	Quantity int     `json:"quantity,omitempty"`
	SheetW   float64 `json:"sheet_w,omitempty"`
	SheetH   float64 `json:"sheet_h,omitempty"`
	Profile  string  `json:"profile,omitempty"`
	Entity   string  `json:"entity,omitempty"`  // content hash of the entity record
	Payload  string  `json:"payload,omitempty"` // fixed QR payload, embedded mode
	Note     string  `json:"note,omitempty"`    // footer note
	LabelW   float64 `json:"label_w,omitempty"` // physical size override
	LabelH   float64 `json:"label_h,omitempty"`
}

// RenderKey builds the cache key for one render request. The template
// markup and element array are folded in by content hash, so editing
// either invalidates naturally without explicit purging.
func RenderKey(markupHash, elementsHash string, opts RenderKeyOpts) string {
	return hashKey("render", markupHash, elementsHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
