/*
engine.go - The import state machine

ALGORITHM (ProcessImport):
  1. Load the ledger; sweep stale mutable entries to finalized.
  2. Run the source's extractor over the rows.
  3. For each extracted date, ascending:
     - future dates are dropped (timezone skew defense)
     - finalized + this source already scored non-zero here -> skip
     - otherwise merge this source's metrics into the entry, rescore the
       source's owned stats from the merged metrics, and replace them
     - a brand new entry is mutable only when its date is today
  4. Persist once, append the receipt to the audit log, return it.

IDEMPOTENCE:
  Owned stats are replaced, never added to. Re-importing an unchanged
  file computes the same XP and writes the same values; the second call
  is a no-op in effect without diffing a single input row.

WHY "skip only if finalized AND non-zero":
  An empty or mis-routed upload must not lock a day forever. A source
  that scored zero may retry; a source that scored real XP on a
  finalized day may never silently change it.
*/
package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Ncaofa1996/iron-sovereign/metrics"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// Engine merges source imports into the day ledger. It is synchronous and
// single-writer: callers issue one operation at a time.
type Engine struct {
	store Store
	clock Clock
	loc   *time.Location
}

type Option func(*Engine)

// WithClock injects the time source. Tests freeze it.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithTimezone sets the single zone all source timestamps resolve in.
func WithTimezone(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// New builds an engine around a store. Defaults: system clock, the
// deployment timezone (UTC if the zone database lacks it).
func New(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, clock: SystemClock{}}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		e.loc = loc
	} else {
		e.loc = time.UTC
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) now() time.Time { return e.clock.Now().In(e.loc) }

// Today returns the current ledger partition key.
func (e *Engine) Today() string { return e.now().Format("2006-01-02") }

// =============================================================================
// PROCESS IMPORT
// =============================================================================

// ProcessImport runs one source's rows through extraction, scoring, and
// the ledger merge. The returned receipt is also appended to the audit
// log. An unknown source is a caller bug and is the only fatal input.
func (e *Engine) ProcessImport(ctx context.Context, source Source, rows []metrics.Row, cfg xp.Config) (Receipt, error) {
	def, ok := sources[source]
	if !ok || def.extract == nil {
		return Receipt{}, &UnknownSourceError{Source: source}
	}

	ledger, err := e.store.LoadLedger(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("load ledger: %w", err)
	}
	if ledger == nil {
		ledger = Ledger{}
	}

	now := e.now()
	today := now.Format("2006-01-02")
	ledger.FinalizeStale(today, now)

	byDate := def.extract(rows, e.loc)

	receipt := Receipt{
		ID:        uuid.NewString(),
		Source:    source,
		Timestamp: now,
		DateRange: []string{},
		TotalRows: len(rows),
		XPAwarded: xp.NewVector(),
	}

	var first, last string
	for _, date := range sortedDates(byDate) {
		if first == "" || date < first {
			first = date
		}
		if date > last {
			last = date
		}

		// Timezone skew can produce tomorrow; never ledger the future.
		if date > today {
			continue
		}

		existing := ledger[date]
		if existing != nil && existing.State == StateFinalized &&
			existing.HasSource(source) && existing.sourceHasXP(source) {
			receipt.DaysSkippedFinalized++
			continue
		}

		entry := existing
		if entry == nil {
			state := StateFinalized
			if date == today {
				state = StateMutable
			}
			entry = newEntry(state, now)
			ledger[date] = entry
		}

		entry.Metrics.Merge(byDate[date])

		vec := xp.ForDay(entry.Metrics, ledger.previousBodyReading(date), cfg)
		for _, stat := range def.owned {
			entry.XP[stat] = vec[stat]
			receipt.XPAwarded[stat] += vec[stat]
		}
		entry.recomputeTotal()
		entry.addSource(source)
		entry.LastProcessedAt = now
		if entry.State == StateFinalized {
			// Covers both past-date creation and late-source arrival:
			// the entry stays finalized, the stamp moves.
			t := now
			entry.FinalizedAt = &t
		}

		receipt.NewDaysProcessed++
		if date == today {
			receipt.TodayReprocessed = true
		}
	}

	if first != "" {
		receipt.DateRange = []string{first, last}
	}
	receipt.TotalXP = receipt.XPAwarded.Total()

	// Durability is best-effort: a failed write must not block the flow,
	// the in-memory result and receipt already reflect the merge.
	if err := e.store.SaveLedger(ctx, ledger); err != nil {
		log.Printf("engine: ledger save failed: %v", err)
	}
	if err := e.store.AppendReceipt(ctx, receipt); err != nil {
		log.Printf("engine: audit log append failed: %v", err)
	}
	return receipt, nil
}

// =============================================================================
// MANUAL CHECK-IN
// =============================================================================

// SubmitManualEntry records today's checklist. The manual path is a fifth
// source restricted to the INT stat and always lands on today's mutable
// entry. Returns the INT XP awarded.
func (e *Engine) SubmitManualEntry(ctx context.Context, list metrics.Checklist, cfg xp.Config) (int, error) {
	ledger, err := e.store.LoadLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}
	if ledger == nil {
		ledger = Ledger{}
	}

	now := e.now()
	today := now.Format("2006-01-02")
	ledger.FinalizeStale(today, now)

	entry := ledger[today]
	if entry == nil {
		entry = newEntry(StateMutable, now)
		ledger[today] = entry
	}

	entry.Metrics.Checklist = &list
	entry.XP[xp.INT] = xp.Knowledge(&list)
	entry.recomputeTotal()
	entry.addSource(SourceManual)
	entry.LastProcessedAt = now

	if err := e.store.SaveLedger(ctx, ledger); err != nil {
		log.Printf("engine: ledger save failed: %v", err)
	}
	return entry.XP[xp.INT], nil
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// HistoryPoint is one charted day.
type HistoryPoint struct {
	Date  string    `json:"date"`  // YYYY-MM-DD
	Label string    `json:"label"` // MM-DD, for axis ticks
	XP    xp.Vector `json:"xp"`
	Total int       `json:"total"`
}

// XPHistory returns the last n ledger days in ascending date order.
func (e *Engine) XPHistory(ctx context.Context, n int) ([]HistoryPoint, error) {
	ledger, err := e.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	dates := ledger.Dates()
	if n > 0 && len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	points := make([]HistoryPoint, 0, len(dates))
	for _, date := range dates {
		entry := ledger[date]
		points = append(points, HistoryPoint{
			Date:  date,
			Label: date[5:],
			XP:    entry.XP.Clone(),
			Total: entry.TotalXP,
		})
	}
	return points, nil
}

// StatTotals folds the whole ledger into cumulative per-stat XP.
func (e *Engine) StatTotals(ctx context.Context) (xp.Vector, error) {
	ledger, err := e.store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	totals := xp.NewVector()
	for _, entry := range ledger {
		for stat, value := range entry.XP {
			totals[stat] += value
		}
	}
	return totals, nil
}

// ImportLog returns up to limit receipts, newest first.
func (e *Engine) ImportLog(ctx context.Context, limit int) ([]Receipt, error) {
	return e.store.Receipts(ctx, limit)
}

// Reset wipes all ledger data. Danger zone.
func (e *Engine) Reset(ctx context.Context) error {
	return e.store.Reset(ctx)
}

func sortedDates(m map[string]metrics.Day) []string {
	dates := make([]string, 0, len(m))
	for date := range m {
		dates = append(dates, date)
	}
	// Ascending so earlier body readings exist before later trend lookups.
	sort.Strings(dates)
	return dates
}
