package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// auditStore is an append-only log of compile requests: what was
// submitted, who submitted it, and whether it succeeded. It is not the
// source of truth for any compiled table -- every /compile request is
// recompiled from the submitted rule text, never served from here.
type auditStore struct {
	db *sql.DB
}

func openAuditStore(path string) (*auditStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS compile_requests (
	id TEXT PRIMARY KEY,
	requester TEXT NOT NULL,
	rule_hash TEXT NOT NULL,
	submitted_at INTEGER NOT NULL,
	success INTEGER NOT NULL,
	overshadow_count INTEGER NOT NULL,
	detail TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &auditStore{db: db}, nil
}

func (s *auditStore) Close() error {
	return s.db.Close()
}

// record appends one compile-request entry to the audit log.
func (s *auditStore) record(ctx context.Context, id, requester, ruleHash string, success bool, overshadowCount int, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compile_requests (id, requester, rule_hash, submitted_at, success, overshadow_count, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, requester, ruleHash, time.Now().Unix(), success, overshadowCount, detail,
	)
	return err
}

// auditRecord is one logged compile request, as read back by lookup.
type auditRecord struct {
	ID              string
	Requester       string
	RuleHash        string
	SubmittedAt     int64
	Success         bool
	OvershadowCount int
	Detail          string
}

func (s *auditStore) lookup(ctx context.Context, id string) (*auditRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, requester, rule_hash, submitted_at, success, overshadow_count, detail
		 FROM compile_requests WHERE id = ?`, id)

	var rec auditRecord
	if err := row.Scan(&rec.ID, &rec.Requester, &rec.RuleHash, &rec.SubmittedAt, &rec.Success, &rec.OvershadowCount, &rec.Detail); err != nil {
		return nil, fmt.Errorf("lookup compile request %s: %w", id, err)
	}
	return &rec, nil
}
