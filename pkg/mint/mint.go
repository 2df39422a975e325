// Package mint issues scan tokens for printed labels.
//
// A token is an opaque identifier baked into a label's QR code. Scanning
// resolves the token back to the entity the label was printed for. Tokens
// are minted in batches: a print run of N unique labels needs exactly N
// tokens, and a batch either mints all of them or none, so a failed run
// never leaves live tokens pointing at labels that were never printed.
//
// Backends:
//   - memory: in-process storage for development and tests
//   - redis: shared storage for multi-instance deployments
package mint

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token is one minted scan token.
type Token struct {
	Value     string    `json:"value"`
	EntityKey string    `json:"entity_key"`
	MintedAt  time.Time `json:"minted_at"`
}

// Minter issues and resolves scan tokens.
type Minter interface {
	// MintBatch mints count tokens bound to entityKey. Either all count
	// tokens are persisted or none are.
	MintBatch(ctx context.Context, entityKey string, count int) ([]Token, error)

	// Resolve looks up the entity key a token was minted for. Returns
	// a NOT_FOUND error for unknown tokens.
	Resolve(ctx context.Context, value string) (Token, error)
}

// newValue generates one token value. UUIDv4 gives collision-free values
// without coordination between instances.
func newValue() string {
	return uuid.NewString()
}
