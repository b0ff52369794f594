/*
receipt.go - Per-import summaries and the audit log contract

Every ProcessImport call returns exactly one Receipt and appends the same
Receipt to the audit log. Receipts describe what the CALL did (its XP
delta, its skip counts), not the ledger's cumulative state; the ledger
itself is the cumulative record.
*/
package engine

import (
	"time"

	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// Receipt summarizes one import call.
type Receipt struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	Timestamp time.Time `json:"timestamp"`

	// DateRange is [first, last] observed in the input, or empty when the
	// input contained no resolvable dates.
	DateRange []string `json:"date_range"`
	TotalRows int      `json:"total_rows"`

	NewDaysProcessed     int  `json:"new_days_processed"`
	DaysSkippedFinalized int  `json:"days_skipped_finalized"`
	TodayReprocessed     bool `json:"today_reprocessed"`

	// XPAwarded is the per-stat XP written by this call across all
	// processed dates; TotalXP is its sum.
	XPAwarded xp.Vector `json:"xp_awarded"`
	TotalXP   int       `json:"total_xp"`
}
