package mint

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/labelpress/labelpress/pkg/errors"
)

const (
	redisKeyPrefix = "labelpress:token:"

	// redisTokenSet holds every minted value. Membership backs the
	// uniqueness guarantee across instances; the per-token keys alone
	// cannot distinguish "new value" from "silent overwrite".
	redisTokenSet = "labelpress:tokens"
)

// RedisMinter persists tokens in Redis so multiple instances share one
// token space.
type RedisMinter struct {
	client *goredis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisMinter connects to Redis and verifies the connection.
func NewRedisMinter(ctx context.Context, cfg RedisConfig) (*RedisMinter, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisMinter{client: client}, nil
}

// Close releases the Redis connection.
func (m *RedisMinter) Close() error {
	return m.client.Close()
}

// MintBatch writes all count tokens in one transaction and registers their
// values in the uniqueness set. A failed pipeline persists nothing; a value
// collision rolls the batch back.
func (m *RedisMinter) MintBatch(ctx context.Context, entityKey string, count int) ([]Token, error) {
	if entityKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "entity key cannot be empty")
	}
	if count <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "token count must be positive, got %d", count)
	}

	minted := time.Now()
	batch := make([]Token, count)
	values := make([]interface{}, count)
	pipe := m.client.TxPipeline()
	for i := range batch {
		batch[i] = Token{Value: newValue(), EntityKey: entityKey, MintedAt: minted}
		values[i] = batch[i].Value
		data, err := json.Marshal(batch[i])
		if err != nil {
			return nil, fmt.Errorf("marshal token: %w", err)
		}
		pipe.Set(ctx, redisKeyPrefix+batch[i].Value, data, 0)
	}
	added := pipe.SAdd(ctx, redisTokenSet, values...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("mint batch: %w", err)
	}
	if added.Val() != int64(count) {
		m.rollback(ctx, batch)
		return nil, errors.New(errors.ErrCodeConflict, "token value collision, batch rolled back")
	}
	return batch, nil
}

// rollback removes a batch whose values collided with existing tokens, so
// the all-or-none contract holds. Best effort.
func (m *RedisMinter) rollback(ctx context.Context, batch []Token) {
	pipe := m.client.TxPipeline()
	for _, t := range batch {
		pipe.Del(ctx, redisKeyPrefix+t.Value)
		pipe.SRem(ctx, redisTokenSet, t.Value)
	}
	_, _ = pipe.Exec(ctx)
}

func (m *RedisMinter) Resolve(ctx context.Context, value string) (Token, error) {
	data, err := m.client.Get(ctx, redisKeyPrefix+value).Bytes()
	if err == goredis.Nil {
		return Token{}, errors.New(errors.ErrCodeNotFound, "token %q not found", value)
	}
	if err != nil {
		return Token{}, fmt.Errorf("resolve token: %w", err)
	}

	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		return Token{}, fmt.Errorf("parse token: %w", err)
	}
	return t, nil
}
