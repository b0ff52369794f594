/*
ledger.go - Per-date entries and the three-state day model

STATES:
  UNPROCESSED   no entry exists for the date
  MUTABLE       the date was "today" when last touched; freely rewritable
  FINALIZED     the date is in the past; locked per source once that
                source has scored it with non-zero XP

TRANSITIONS:
  UNPROCESSED -> MUTABLE     first import touching today's date
  UNPROCESSED -> FINALIZED   first import touching an already-past date
  MUTABLE     -> FINALIZED   sweep at the start of every call, once the
                             date is no longer today
  FINALIZED   -> FINALIZED   late source arrival updates stats in place
                             and re-stamps finalized_at

Entries are never deleted or merged; the only way back is the explicit
admin reset.
*/
package engine

import (
	"sort"
	"time"

	"github.com/Ncaofa1996/iron-sovereign/metrics"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// =============================================================================
// ENTRY
// =============================================================================

type State string

const (
	StateMutable   State = "mutable"
	StateFinalized State = "finalized"
)

// Entry is one date's reconciled record: which sources contributed, what
// each stat was awarded, and the canonical metrics those awards came from.
// Retaining the metrics is what makes recomputation order-independent:
// a stat with two owners (END) is always rescored from both sources' data,
// whichever of them arrives last.
type Entry struct {
	State           State       `json:"state"`
	Sources         []Source    `json:"sources_processed"`
	XP              xp.Vector   `json:"xp_awarded"`
	TotalXP         int         `json:"total_xp"`
	Metrics         metrics.Day `json:"metrics"`
	LastProcessedAt time.Time   `json:"last_processed"`
	FinalizedAt     *time.Time  `json:"finalized_at,omitempty"`
}

func newEntry(state State, now time.Time) *Entry {
	e := &Entry{
		State:           state,
		Sources:         []Source{},
		XP:              xp.NewVector(),
		LastProcessedAt: now,
	}
	if state == StateFinalized {
		t := now
		e.FinalizedAt = &t
	}
	return e
}

// HasSource reports membership; ordering of Sources is irrelevant.
func (e *Entry) HasSource(s Source) bool {
	for _, have := range e.Sources {
		if have == s {
			return true
		}
	}
	return false
}

func (e *Entry) addSource(s Source) {
	if !e.HasSource(s) {
		e.Sources = append(e.Sources, s)
	}
}

// sourceHasXP reports whether s already holds non-zero XP on any stat it
// owns. This is the guard that locks finalized days: a zero contribution
// (wrong file, empty export) never locks anything.
func (e *Entry) sourceHasXP(s Source) bool {
	for _, stat := range s.Owns() {
		if e.XP[stat] > 0 {
			return true
		}
	}
	return false
}

// recomputeTotal keeps TotalXP derived, never independently mutated.
func (e *Entry) recomputeTotal() {
	e.TotalXP = e.XP.Total()
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger maps YYYY-MM-DD to its entry. The date is the partition key: no
// two entries share a date, and entries never merge.
type Ledger map[string]*Entry

// FinalizeStale flips every mutable entry whose date has slipped into the
// past. Runs at the start of every import and check-in, which is how
// invariant "nothing before today is mutable" is enforced.
func (l Ledger) FinalizeStale(today string, now time.Time) bool {
	changed := false
	for date, entry := range l {
		if entry.State == StateMutable && date < today {
			entry.State = StateFinalized
			t := now
			entry.FinalizedAt = &t
			changed = true
		}
	}
	return changed
}

// Dates returns all ledger dates in ascending order.
func (l Ledger) Dates() []string {
	dates := make([]string, 0, len(l))
	for date := range l {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// previousBodyReading finds the most recent reading strictly before date,
// for the consistency trend bonuses.
func (l Ledger) previousBodyReading(date string) *metrics.Body {
	var bestDate string
	var best *metrics.Body
	for d, entry := range l {
		if d >= date || entry.Metrics.Body == nil {
			continue
		}
		if bestDate == "" || d > bestDate {
			bestDate = d
			best = entry.Metrics.Body
		}
	}
	return best
}
