// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ratelimit provides the per-caller token bucket guarding the
// action catalog. Buckets hold 60 tokens and refill at 1 token/second;
// actions debit between 1 and 6 tokens depending on how expensive they
// are upstream. The Limiter interface hides the backing store so a
// single instance can run in memory while a multi-instance deployment
// shares buckets through Redis.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default bucket parameters.
const (
	DefaultCapacity = 60
	DefaultRefill   = 1 // tokens per second
)

// Limiter decides whether a caller may spend cost tokens right now.
// It is a soft abuse guard, not a correctness mechanism: backends may
// lose state on restart.
type Limiter interface {
	// Allow debits cost tokens from key's bucket if available. It returns
	// false when the bucket holds fewer than cost tokens. The error is
	// only non-nil for backend failures, in which case the request is
	// allowed (an unreachable store must not take the API down).
	Allow(ctx context.Context, key string, cost int) (bool, error)
}

// memoryEntry pairs a token bucket with its last use, for janitor sweeps.
type memoryEntry struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// Memory is the in-process Limiter backing: one x/time/rate bucket per
// caller key, guarded by a mutex since the HTTP server is multi-threaded.
type Memory struct {
	mu       sync.Mutex
	buckets  map[string]*memoryEntry
	capacity int
	refill   rate.Limit
	stopCh   chan struct{}
}

// NewMemory creates an in-memory limiter with the given bucket capacity
// and refill rate in tokens per second. It starts a background janitor
// that drops buckets idle long enough to have fully refilled.
func NewMemory(capacity int, refillPerSecond float64) *Memory {
	m := &Memory{
		buckets:  make(map[string]*memoryEntry),
		capacity: capacity,
		refill:   rate.Limit(refillPerSecond),
		stopCh:   make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
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
func (m *Memory) Stop() {
	close(m.stopCh)
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string, cost int) (bool, error) {
	m.mu.Lock()
	entry, ok := m.buckets[key]
	if !ok {
		entry = &memoryEntry{bucket: rate.NewLimiter(m.refill, m.capacity)}
		m.buckets[key] = entry
	}
	entry.lastSeen = time.Now()
	m.mu.Unlock()

	return entry.bucket.AllowN(time.Now(), cost), nil
}

// cleanup drops buckets that have been idle long enough to refill fully;
// recreating them later is equivalent to having kept them.
func (m *Memory) cleanup() {
	idle := time.Duration(float64(m.capacity)/float64(m.refill))*time.Second + time.Minute

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	for key, entry := range m.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}
