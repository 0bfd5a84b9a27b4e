// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storyboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys so they do not collide with the rate
// limiter's buckets in the same database.
const keyPrefix = "storyboard:"

// RedisStore keeps sessions as JSON documents with a native TTL, letting
// multiple instances serve the same session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store with the default TTL.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: DefaultTTL}
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.set(ctx, s)
}

func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	payload, err := r.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storyboard get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("storyboard unmarshal: %w", err)
	}
	return &s, nil
}

// maxMutateRetries bounds optimistic-lock retries under contention.
const maxMutateRetries = 8

// Mutate applies fn under WATCH: if another instance writes the key
// between our read and our write, the transaction fails and the whole
// read-mutate-write cycle retries against the fresh document. Resets the
// TTL, so active sessions keep living while they are worked on.
func (r *RedisStore) Mutate(ctx context.Context, id uuid.UUID, fn func(*Session) error) (*Session, error) {
	key := keyPrefix + id.String()

	var out *Session
	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("storyboard get: %w", err)
		}

		var s Session
		if err := json.Unmarshal(payload, &s); err != nil {
			return fmt.Errorf("storyboard unmarshal: %w", err)
		}
		if err := fn(&s); err != nil {
			return err
		}
		s.UpdatedAt = time.Now()

		next, err := json.Marshal(&s)
		if err != nil {
			return fmt.Errorf("storyboard marshal: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = &s
		return nil
	}

	for i := 0; i < maxMutateRetries; i++ {
		err := r.client.Watch(ctx, txn, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("storyboard mutate: persistent contention on %s", id)
}

func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, keyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("storyboard delete: %w", err)
	}
	return nil
}

func (r *RedisStore) set(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("storyboard marshal: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+s.ID.String(), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("storyboard set: %w", err)
	}
	return nil
}
