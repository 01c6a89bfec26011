// Package postgres persists audit documents as JSONB rows with an
// explicit version column for optimistic concurrency.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *AuditStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS audits (
	id TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	version BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audits_created_at ON audits(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *AuditStore) Get(ctx context.Context, id string) (*domain.AuditDocument, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT doc, version
FROM audits
WHERE id = $1
`, id)

	var raw []byte
	var version int64
	if err := row.Scan(&raw, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrAuditNotFound, "get audit", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan audit: %w", err)
	}

	var doc domain.AuditDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal audit %s: %w", id, err)
	}
	// The version column is authoritative over whatever the blob says.
	doc.Version = version
	return &doc, nil
}

func (s *AuditStore) Create(ctx context.Context, doc *domain.AuditDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal audit: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO audits (id, doc, version, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
`, doc.ID, raw, doc.Version, now, now)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// Update is a compare-and-swap on the version column. On success the
// stored and in-memory documents both carry the bumped version.
func (s *AuditStore) Update(ctx context.Context, doc *domain.AuditDocument) error {
	expected := doc.Version
	doc.Version = expected + 1

	raw, err := json.Marshal(doc)
	if err != nil {
		doc.Version = expected
		return fmt.Errorf("marshal audit: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE audits
SET doc = $2, version = $3, updated_at = $4
WHERE id = $1 AND version = $5
`, doc.ID, raw, doc.Version, time.Now().UTC(), expected)
	if err != nil {
		doc.Version = expected
		return fmt.Errorf("update audit: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		doc.Version = expected
		return fmt.Errorf("update audit rows affected: %w", err)
	}
	if affected == 0 {
		doc.Version = expected
		return s.casFailure(ctx, doc.ID, expected)
	}
	return nil
}

// casFailure tells a missing row apart from a lost race.
func (s *AuditStore) casFailure(ctx context.Context, id string, expected int64) error {
	var current int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM audits WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WrapError(domain.ErrAuditNotFound, "update audit", fmt.Errorf("id %s", id))
	}
	if err != nil {
		return fmt.Errorf("update audit version check: %w", err)
	}
	return domain.WrapError(domain.ErrVersionConflict, "update audit",
		fmt.Errorf("id %s: expected version %d, stored %d", id, expected, current))
}
