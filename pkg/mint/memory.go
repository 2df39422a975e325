package mint

import (
	"context"
	"sync"
	"time"

	"github.com/labelpress/labelpress/pkg/errors"
)

// MemoryMinter is an in-process minter for development and tests.
type MemoryMinter struct {
	mu     sync.RWMutex
	tokens map[string]Token
	now    func() time.Time
}

// NewMemoryMinter creates an empty in-memory minter.
func NewMemoryMinter() *MemoryMinter {
	return &MemoryMinter{
		tokens: make(map[string]Token),
		now:    time.Now,
	}
}

func (m *MemoryMinter) MintBatch(ctx context.Context, entityKey string, count int) ([]Token, error) {
	if entityKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "entity key cannot be empty")
	}
	if count <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "token count must be positive, got %d", count)
	}

	minted := m.now()
	batch := make([]Token, count)
	for i := range batch {
		batch[i] = Token{Value: newValue(), EntityKey: entityKey, MintedAt: minted}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range batch {
		m.tokens[t.Value] = t
	}
	return batch, nil
}

func (m *MemoryMinter) Resolve(ctx context.Context, value string) (Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[value]
	if !ok {
		return Token{}, errors.New(errors.ErrCodeNotFound, "token %q not found", value)
	}
	return t, nil
}

// Count reports how many tokens have been minted. Test helper.
func (m *MemoryMinter) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}
