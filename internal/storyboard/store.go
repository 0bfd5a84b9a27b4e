// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storyboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched session survives. Long enough for a
// user to step away and come back, short enough that abandoned sessions
// full of image data do not pile up.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned when a session id does not exist or expired.
var ErrNotFound = errors.New("storyboard: session not found")

// Store persists sessions between requests. Backings: in-memory
// (single instance), Redis (shared, TTL-native), Postgres (survives
// restarts).
//
// Mutate is the only write path for existing sessions: it loads the
// current document, applies fn, and persists the result as one atomic
// step, so concurrent card completions on the same session can never
// overwrite each other with stale snapshots. When fn returns an error
// nothing is written and the error is returned unchanged. The returned
// session is the post-mutation document.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Mutate(ctx context.Context, id uuid.UUID, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// memoryItem pairs a session with its expiry.
type memoryItem struct {
	session *Session
	expires time.Time
}

// MemoryStore is the default in-process Store. A janitor sweeps expired
// sessions the way the rate limiter sweeps idle buckets.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*memoryItem
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewMemoryStore creates an in-memory session store with the default TTL.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[uuid.UUID]*memoryItem),
		ttl:      DefaultTTL,
		stopCh:   make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.cleanup()
			case <-m.stopCh:
				return
			}
		}
	}()

	return m
}

// Stop terminates the background janitor.
func (m *MemoryStore) Stop() {
	close(m.stopCh)
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &memoryItem{session: cloneSession(s), expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	item, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || time.Now().After(item.expires) {
		return nil, ErrNotFound
	}
	return cloneSession(item.session), nil
}

// Mutate applies fn to the stored session while holding the store lock,
// so two concurrent mutations serialize and each sees the other's writes.
func (m *MemoryStore) Mutate(_ context.Context, id uuid.UUID, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.sessions[id]
	if !ok || time.Now().After(item.expires) {
		return nil, ErrNotFound
	}

	next := cloneSession(item.session)
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()
	m.sessions[id] = &memoryItem{session: next, expires: time.Now().Add(m.ttl)}
	return cloneSession(next), nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) cleanup() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, item := range m.sessions {
		if now.After(item.expires) {
			delete(m.sessions, id)
		}
	}
}

// cloneSession deep-copies a session so callers never share scene slices
// with the store's copy.
func cloneSession(s *Session) *Session {
	out := *s
	out.Scenes = make([]Scene, len(s.Scenes))
	copy(out.Scenes, s.Scenes)
	return &out
}
