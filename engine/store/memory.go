// Package store provides the in-memory Store implementation.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Ncaofa1996/iron-sovereign/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the ledger and audit log in process memory. Load and Save
// deep-copy through JSON so callers never alias the stored structures;
// that also keeps its round-trip behavior honest against the SQLite store.
type Memory struct {
	mu       sync.RWMutex
	ledger   []byte
	receipts []engine.Receipt

	// FailSaves makes SaveLedger error, for exercising the engine's
	// best-effort durability path in tests.
	FailSaves bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadLedger(_ context.Context) (engine.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ledger == nil {
		return engine.Ledger{}, nil
	}
	var ledger engine.Ledger
	if err := json.Unmarshal(m.ledger, &ledger); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return ledger, nil
}

func (m *Memory) SaveLedger(_ context.Context, ledger engine.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return fmt.Errorf("memory store: saves disabled")
	}
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	m.ledger = raw
	return nil
}

// AppendReceipt is append-only; receipts are never rewritten.
func (m *Memory) AppendReceipt(_ context.Context, r engine.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, r)
	return nil
}

func (m *Memory) Receipts(_ context.Context, limit int) ([]engine.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.receipts)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]engine.Receipt, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.receipts[i])
	}
	return out, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = nil
	m.receipts = nil
	return nil
}
