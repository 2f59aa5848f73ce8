// Package postgres persists audit records in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE audit_records (
//	    id               UUID PRIMARY KEY,
//	    ts               TIMESTAMPTZ NOT NULL,
//	    invocation_id    TEXT NOT NULL,
//	    actor            TEXT NOT NULL,
//	    app_id           TEXT NOT NULL,
//	    action           TEXT NOT NULL,
//	    tier             TEXT NOT NULL,
//	    execute          BOOLEAN NOT NULL,
//	    cause            TEXT NOT NULL,
//	    reason           TEXT NOT NULL DEFAULT '',
//	    policy_id        TEXT NOT NULL DEFAULT '',
//	    parameter_digest TEXT NOT NULL DEFAULT '',
//	    latency_ns       BIGINT NOT NULL,
//	    state            TEXT NOT NULL,
//	    error            TEXT NOT NULL DEFAULT ''
//	);
//	CREATE INDEX audit_records_actor_ts_idx ON audit_records (actor, ts DESC);
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theonlypal/browser-use-swiftapi/internal/audit"
	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
)

// Store is a PostgreSQL-backed audit store.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema is the DDL for the audit table, exported so operators and
// integration tests can apply it.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id               UUID PRIMARY KEY,
    ts               TIMESTAMPTZ NOT NULL,
    invocation_id    TEXT NOT NULL,
    actor            TEXT NOT NULL,
    app_id           TEXT NOT NULL,
    action           TEXT NOT NULL,
    tier             TEXT NOT NULL,
    execute          BOOLEAN NOT NULL,
    cause            TEXT NOT NULL,
    reason           TEXT NOT NULL DEFAULT '',
    policy_id        TEXT NOT NULL DEFAULT '',
    parameter_digest TEXT NOT NULL DEFAULT '',
    latency_ns       BIGINT NOT NULL,
    state            TEXT NOT NULL,
    error            TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_records_actor_ts_idx ON audit_records (actor, ts DESC);
`

func (s *Store) Append(ctx context.Context, record audit.Record) error {
	query := `
		INSERT INTO audit_records (
			id, ts, invocation_id, actor, app_id, action, tier,
			execute, cause, reason, policy_id, parameter_digest,
			latency_ns, state, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		record.Timestamp,
		record.InvocationID,
		record.Actor,
		record.AppID,
		record.Action,
		string(record.Tier),
		record.Execute,
		string(record.Cause),
		record.Reason,
		record.PolicyID,
		record.Digest,
		int64(record.Latency),
		string(record.State),
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (s *Store) ListByActor(ctx context.Context, actor string) ([]audit.Record, error) {
	query := `
		SELECT ts, invocation_id, actor, app_id, action, tier, execute,
		       cause, reason, policy_id, parameter_digest, latency_ns, state, error
		FROM audit_records
		WHERE actor = $1
		ORDER BY ts ASC
	`
	rows, err := s.db.QueryContext(ctx, query, actor)
	if err != nil {
		return nil, fmt.Errorf("list audit records by actor: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ts, invocation_id, actor, app_id, action, tier, execute,
		       cause, reason, policy_id, parameter_digest, latency_ns, state, error
		FROM audit_records
		ORDER BY ts DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent audit records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]audit.Record, error) {
	var records []audit.Record
	for rows.Next() {
		var (
			rec       audit.Record
			ts        time.Time
			tier      string
			cause     string
			state     string
			latencyNS int64
		)
		if err := rows.Scan(
			&ts, &rec.InvocationID, &rec.Actor, &rec.AppID, &rec.Action, &tier,
			&rec.Execute, &cause, &rec.Reason, &rec.PolicyID, &rec.Digest,
			&latencyNS, &state, &rec.Error,
		); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.Timestamp = ts
		rec.Tier = domain.Tier(tier)
		rec.Cause = domain.Cause(cause)
		rec.State = audit.State(state)
		rec.Latency = time.Duration(latencyNS)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}
