/*
Package sqlite provides the SQLite-backed implementation of engine.Store.

PURPOSE:
  Durable persistence for the day ledger and the import audit log. The
  engine's contract is whole-structure read-modify-write: LoadLedger reads
  every entry, SaveLedger replaces them all inside one transaction. That
  keeps the single-writer semantics identical between this store and the
  in-memory one.

KEY TABLES:
  ledger_entries: one row per calendar date (the partition key). Sources,
                  XP vector, and retained metrics are stored as JSON
                  columns; the engine owns their shape.
  receipts:       append-only audit log, read newest-first.

WAL MODE:
  SQLite is opened with WAL so readers don't block the (single) writer
  and crash recovery is sane.

USAGE:
  store, err := sqlite.New("./data/ironsov.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  eng := engine.New(store)

SEE ALSO:
  - engine/store.go: interface definition and contract
  - engine/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Ncaofa1996/iron-sovereign/engine"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// Store implements engine.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Day ledger: one row per calendar date
	CREATE TABLE IF NOT EXISTS ledger_entries (
		date TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		sources_json TEXT NOT NULL,
		xp_json TEXT NOT NULL,
		total_xp INTEGER NOT NULL,
		metrics_json TEXT NOT NULL,
		last_processed TEXT NOT NULL,
		finalized_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_state
		ON ledger_entries(state);

	-- Import audit log (append-only)
	CREATE TABLE IF NOT EXISTS receipts (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		payload_json TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER
// =============================================================================

func (s *Store) LoadLedger(ctx context.Context) (engine.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, state, sources_json, xp_json, total_xp,
		       metrics_json, last_processed, finalized_at
		FROM ledger_entries`)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	ledger := engine.Ledger{}
	for rows.Next() {
		var (
			date, state, sourcesJSON, xpJSON, metricsJSON string
			totalXP                                       int
			lastProcessed                                 string
			finalizedAt                                   sql.NullString
		)
		if err := rows.Scan(&date, &state, &sourcesJSON, &xpJSON, &totalXP,
			&metricsJSON, &lastProcessed, &finalizedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		entry := &engine.Entry{
			State:   engine.State(state),
			TotalXP: totalXP,
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &entry.Sources); err != nil {
			return nil, fmt.Errorf("decode sources for %s: %w", date, err)
		}
		if err := json.Unmarshal([]byte(xpJSON), &entry.XP); err != nil {
			return nil, fmt.Errorf("decode xp for %s: %w", date, err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &entry.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics for %s: %w", date, err)
		}
		if entry.XP == nil {
			entry.XP = xp.NewVector()
		}
		if entry.Sources == nil {
			entry.Sources = []engine.Source{}
		}
		if entry.LastProcessedAt, err = time.Parse(time.RFC3339Nano, lastProcessed); err != nil {
			return nil, fmt.Errorf("decode last_processed for %s: %w", date, err)
		}
		if finalizedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, finalizedAt.String)
			if err != nil {
				return nil, fmt.Errorf("decode finalized_at for %s: %w", date, err)
			}
			entry.FinalizedAt = &t
		}
		ledger[date] = entry
	}
	return ledger, rows.Err()
}

// SaveLedger replaces the persisted ledger wholesale, in one transaction.
// Entries are never deleted by normal operation, so replace-all is just
// the durable form of the engine's read-modify-write contract.
func (s *Store) SaveLedger(ctx context.Context, ledger engine.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_entries
			(date, state, sources_json, xp_json, total_xp,
			 metrics_json, last_processed, finalized_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for date, entry := range ledger {
		sourcesJSON, err := json.Marshal(entry.Sources)
		if err != nil {
			return fmt.Errorf("encode sources for %s: %w", date, err)
		}
		xpJSON, err := json.Marshal(entry.XP)
		if err != nil {
			return fmt.Errorf("encode xp for %s: %w", date, err)
		}
		metricsJSON, err := json.Marshal(entry.Metrics)
		if err != nil {
			return fmt.Errorf("encode metrics for %s: %w", date, err)
		}

		var finalizedAt any
		if entry.FinalizedAt != nil {
			finalizedAt = entry.FinalizedAt.Format(time.RFC3339Nano)
		}
		if _, err := stmt.ExecContext(ctx, date, string(entry.State),
			string(sourcesJSON), string(xpJSON), entry.TotalXP,
			string(metricsJSON), entry.LastProcessedAt.Format(time.RFC3339Nano),
			finalizedAt); err != nil {
			return fmt.Errorf("insert entry %s: %w", date, err)
		}
	}
	return tx.Commit()
}

// =============================================================================
// AUDIT LOG
// =============================================================================

// AppendReceipt adds one receipt. Append-only: no update, no delete.
func (s *Store) AppendReceipt(ctx context.Context, r engine.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO receipts (id, source, created_at, payload_json)
		VALUES (?, ?, ?, ?)`,
		r.ID, string(r.Source), r.Timestamp.Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("append receipt: %w", err)
	}
	return nil
}

func (s *Store) Receipts(ctx context.Context, limit int) ([]engine.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT payload_json FROM receipts ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []engine.Receipt
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		var r engine.Receipt
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode receipt: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset wipes the ledger and audit log.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries`); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM receipts`); err != nil {
		return fmt.Errorf("reset receipts: %w", err)
	}
	return tx.Commit()
}

// Compile-time check that Store satisfies the engine contract.
var _ engine.Store = (*Store)(nil)
