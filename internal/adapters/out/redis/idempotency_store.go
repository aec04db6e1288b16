// Package redis keeps replayable responses of idempotent requests.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL     = 24 * time.Hour
	reservationTTL = 30 * time.Second
	reserved       = "in-flight"
)

// StoredResponse is a response recorded under an idempotency key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore records one response per key. A key is first reserved
// while the request runs, then either saved or released.
type IdempotencyStore struct {
	client  redis.UniversalClient
	service string
	ttl     time.Duration
}

func NewIdempotencyStore(client redis.UniversalClient, service string, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, service: service, ttl: ttl}
}

// NewClient connects to a single Redis node.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (s *IdempotencyStore) key(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.service, operation, key)
}

// Lookup returns the saved response. ok is false when the key is unknown or
// still reserved by a running request; inFlight tells the two apart.
func (s *IdempotencyStore) Lookup(ctx context.Context, operation, key string) (resp StoredResponse, ok, inFlight bool, err error) {
	raw, err := s.client.Get(ctx, s.key(operation, key)).Result()
	if errors.Is(err, redis.Nil) {
		return StoredResponse{}, false, false, nil
	}
	if err != nil {
		return StoredResponse{}, false, false, err
	}
	if raw == reserved {
		return StoredResponse{}, false, true, nil
	}

	if err = json.Unmarshal([]byte(raw), &resp); err != nil {
		return StoredResponse{}, false, false, fmt.Errorf("decode stored response: %w", err)
	}
	return resp, true, false, nil
}

// Reserve claims the key for a running request. It reports false when the key
// is already reserved or saved.
func (s *IdempotencyStore) Reserve(ctx context.Context, operation, key string) (bool, error) {
	return s.client.SetNX(ctx, s.key(operation, key), reserved, reservationTTL).Result()
}

func (s *IdempotencyStore) Save(ctx context.Context, operation, key string, resp StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(operation, key), data, s.ttl).Err()
}

// Release drops a reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, operation, key string) error {
	return s.client.Del(ctx, s.key(operation, key)).Err()
}
