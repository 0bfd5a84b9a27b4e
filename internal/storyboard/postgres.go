// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storyboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore persists sessions as JSONB documents, so a restart does
// not lose in-progress storyboards. Expiry is enforced on read; a
// periodic delete keeps the table from growing unbounded.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPostgresStore creates a Postgres-backed session store with the
// default TTL. The storyboards table comes from the embedded migrations.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, ttl: DefaultTTL}
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("storyboard marshal: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO storyboards (id, doc, updated_at)
		VALUES ($1, $2, now())`,
		s.ID, doc,
	)
	if err != nil {
		return fmt.Errorf("create storyboard: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	var doc []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT doc FROM storyboards
		WHERE id = $1 AND updated_at > $2`,
		id, time.Now().Add(-p.ttl),
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get storyboard: %w", err)
	}

	var s Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("storyboard unmarshal: %w", err)
	}
	return &s, nil
}

// Mutate applies fn inside a transaction holding a row lock, so two
// concurrent mutations of the same session serialize and each reads the
// other's committed document.
func (p *PostgresStore) Mutate(ctx context.Context, id uuid.UUID, fn func(*Session) error) (*Session, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mutate storyboard: %w", err)
	}
	defer tx.Rollback()

	var doc []byte
	err = tx.QueryRowContext(ctx, `
		SELECT doc FROM storyboards
		WHERE id = $1 AND updated_at > $2
		FOR UPDATE`,
		id, time.Now().Add(-p.ttl),
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mutate storyboard: %w", err)
	}

	var s Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("storyboard unmarshal: %w", err)
	}
	if err := fn(&s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()

	next, err := json.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("storyboard marshal: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE storyboards SET doc = $2, updated_at = now()
		WHERE id = $1`,
		id, next,
	); err != nil {
		return nil, fmt.Errorf("mutate storyboard: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("mutate storyboard: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM storyboards WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete storyboard: %w", err)
	}
	return nil
}

// Sweep deletes sessions older than the TTL. Called periodically by main.
func (p *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM storyboards WHERE updated_at <= $1`,
		time.Now().Add(-p.ttl))
	if err != nil {
		return 0, fmt.Errorf("sweep storyboards: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
