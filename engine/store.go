/*
store.go - Persistence interface for the ledger and audit log

PURPOSE:
  The engine owns merge logic; the Store owns durability. The contract is
  deliberately coarse: the ledger is read fully, mutated in memory, and
  written back wholesale. There is exactly one writer (the engine,
  serialized by its caller), so the interface needs no finer granularity.

RECEIPTS:
  The audit log is append-only. Receipts are never updated or deleted;
  Receipts() reads them newest-first for display.

IMPLEMENTATIONS:
  - engine/store: in-memory, for tests and dev
  - store/sqlite: durable SQLite store

SEE ALSO:
  - engine.go: the only caller of these methods
*/
package engine

import "context"

// Store persists the ledger and the audit log.
type Store interface {
	// LoadLedger returns the full ledger. A missing/empty store returns
	// an empty ledger, not an error.
	LoadLedger(ctx context.Context) (Ledger, error)

	// SaveLedger replaces the persisted ledger wholesale. Called once per
	// engine operation, after all dates are merged in memory.
	SaveLedger(ctx context.Context, ledger Ledger) error

	// AppendReceipt adds one receipt to the audit log. Append-only.
	AppendReceipt(ctx context.Context, r Receipt) error

	// Receipts returns up to limit receipts, newest first.
	// limit <= 0 means all.
	Receipts(ctx context.Context, limit int) ([]Receipt, error)

	// Reset wipes the ledger and audit log. Admin danger zone only.
	Reset(ctx context.Context) error
}
