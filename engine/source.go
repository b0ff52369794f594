/*
Package engine owns the persistent day ledger of XP awards.

PURPOSE:
  Five independent sources (strength log, nutrition log, body-composition
  scale, activity tracker, manual check-in) report about the same calendar
  days, at different times, sometimes repeatedly. The engine merges their
  contributions into one date-keyed ledger so that re-importing any file,
  in any order, any number of times, lands on identical numbers.

KEY CONCEPTS:
  - Source: a closed enumeration; each variant carries its extractor and
    the exact set of stats it is allowed to write. Ownership is enforced
    by the table in this file, not by caller discipline.
  - Entry/Ledger: per-date state (ledger.go)
  - Engine: the import/check-in state machine (engine.go)

DESIGN PRINCIPLES:
  1. Overwrite, don't accumulate: a source's re-import fully replaces its
     own stats, which is what makes imports idempotent.
  2. Single writer: one call at a time, whole-ledger read-modify-write.
  3. Ownership isolation: a source never touches another source's stats.

SEE ALSO:
  - ledger.go: Entry, states, finalization sweep
  - engine.go: ProcessImport / SubmitManualEntry / views
*/
package engine

import (
	"time"

	"github.com/Ncaofa1996/iron-sovereign/metrics"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// =============================================================================
// SOURCES - closed enumeration with extractor + stat ownership
// =============================================================================

type Source string

const (
	SourceStrength  Source = "strength"
	SourceNutrition Source = "nutrition"
	SourceBody      Source = "bodycomp"
	SourceActivity  Source = "activity"
	SourceManual    Source = "manual"
)

type sourceDef struct {
	// owned is the only set of stats this source may write. END has two
	// owners (strength and activity); every other stat has exactly one.
	owned []xp.Stat

	// extract turns raw rows into per-date metric bundles. nil for the
	// manual source, which does not import files.
	extract func(rows []metrics.Row, loc *time.Location) map[string]metrics.Day
}

var sources = map[Source]sourceDef{
	SourceStrength: {
		owned: []xp.Stat{xp.STR, xp.END},
		extract: func(rows []metrics.Row, loc *time.Location) map[string]metrics.Day {
			out := make(map[string]metrics.Day)
			for date, m := range metrics.ExtractStrength(rows, loc) {
				out[date] = metrics.Day{Strength: m}
			}
			return out
		},
	},
	SourceNutrition: {
		owned: []xp.Stat{xp.WIS},
		extract: func(rows []metrics.Row, loc *time.Location) map[string]metrics.Day {
			out := make(map[string]metrics.Day)
			for date, m := range metrics.ExtractNutrition(rows, loc) {
				out[date] = metrics.Day{Nutrition: m}
			}
			return out
		},
	},
	SourceBody: {
		owned: []xp.Stat{xp.CON},
		extract: func(rows []metrics.Row, loc *time.Location) map[string]metrics.Day {
			out := make(map[string]metrics.Day)
			for date, m := range metrics.ExtractBody(rows, loc) {
				out[date] = metrics.Day{Body: m}
			}
			return out
		},
	},
	SourceActivity: {
		owned: []xp.Stat{xp.VIT, xp.AGI, xp.END},
		extract: func(rows []metrics.Row, loc *time.Location) map[string]metrics.Day {
			out := make(map[string]metrics.Day)
			for date, m := range metrics.ExtractActivity(rows, loc) {
				out[date] = metrics.Day{Activity: m}
			}
			return out
		},
	},
	SourceManual: {
		owned: []xp.Stat{xp.INT},
	},
}

// ImportSources lists the sources accepted by ProcessImport, in a stable
// order (the manual check-in goes through SubmitManualEntry instead).
var ImportSources = []Source{SourceStrength, SourceNutrition, SourceBody, SourceActivity}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	_, ok := sources[s]
	return ok
}

// Owns returns the stats this source is authorized to write.
func (s Source) Owns() []xp.Stat {
	return sources[s].owned
}
