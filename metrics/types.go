/*
Package metrics converts raw export rows into canonical per-day metrics.

PURPOSE:
  Each fitness data source exports a differently-shaped table (one row per
  set, one row per day, one row per weigh-in, mixed summary/auxiliary rows).
  This package normalizes all of them into typed per-day metric records,
  keyed by local calendar date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Row: one export line as a flat column-name -> string-value map
  - Strength / Nutrition / Body / Activity / Checklist: per-source metrics
  - Day: the bundle of everything known about one calendar date

DESIGN PRINCIPLES:
  1. Purity: extractors take rows, return maps. No I/O, no shared state.
  2. Tolerance: malformed fields degrade to zero/absent, never abort a row.
     Only a row whose date cannot be resolved is dropped.
  3. Precision: accumulated quantities (volume, grams) use decimal.Decimal
     so multi-row sums do not drift.

SEE ALSO:
  - rows.go: field lookup, numeric cleaning, date resolution
  - extract.go: the four extractors
*/
package metrics

import (
	"github.com/shopspring/decimal"
)

// Row is one export line: column header -> raw cell value.
// Unknown columns are ignored; extractors look fields up by alias.
type Row map[string]string

// =============================================================================
// PER-SOURCE METRICS
// =============================================================================

// Strength aggregates one day of logged sets.
type Strength struct {
	TotalVolume   decimal.Decimal `json:"total_volume_lbs"` // sum of reps*weight
	SetCount      int             `json:"set_count"`
	ExerciseCount int             `json:"exercise_count"` // distinct exercises
	HasWorkout    bool            `json:"has_workout"`
}

// Nutrition sums one day of food-log rows. Multi-row daily exports are
// summed, so a split export still yields one daily total.
type Nutrition struct {
	Calories decimal.Decimal `json:"calories"`
	Protein  decimal.Decimal `json:"protein_g"`
	Fat      decimal.Decimal `json:"fat_g"`
	Carbs    decimal.Decimal `json:"carbs_g"`
	Fiber    decimal.Decimal `json:"fiber_g"`
	Rows     int             `json:"rows"`
}

// Body is one day's body-composition reading. Any field may be absent
// (NullDecimal with Valid=false); a scale does not always report all of them.
type Body struct {
	Weight      decimal.NullDecimal `json:"weight_lbs"`
	BodyFat     decimal.NullDecimal `json:"body_fat_pct"`
	MuscleMass  decimal.NullDecimal `json:"muscle_mass_lbs"`
	VisceralFat decimal.NullDecimal `json:"visceral_fat"`
}

// Activity is one day of tracker data, normalized from either supported
// column layout.
type Activity struct {
	Steps          decimal.Decimal `json:"steps"`
	ActiveMinutes  decimal.Decimal `json:"active_minutes"`
	CaloriesBurned decimal.Decimal `json:"calories_burned"`
	SleepHours     decimal.Decimal `json:"sleep_hours"`
}

// Checklist is the manual daily check-in: three yes/no study activities.
type Checklist struct {
	Scripture bool `json:"scripture"`
	Book      bool `json:"book"`
	Language  bool `json:"language"`
}

// =============================================================================
// DAY BUNDLE
// =============================================================================

// Day holds everything known about one calendar date. Extractors produce
// Days with exactly one field set; the ledger merges them per date.
type Day struct {
	Strength  *Strength  `json:"strength,omitempty"`
	Nutrition *Nutrition `json:"nutrition,omitempty"`
	Body      *Body      `json:"body,omitempty"`
	Activity  *Activity  `json:"activity,omitempty"`
	Checklist *Checklist `json:"checklist,omitempty"`
}

// Merge overlays other onto d: every source component present in other
// replaces d's component wholesale. Replace-not-accumulate is what makes
// re-importing the same file a no-op.
func (d *Day) Merge(other Day) {
	if other.Strength != nil {
		d.Strength = other.Strength
	}
	if other.Nutrition != nil {
		d.Nutrition = other.Nutrition
	}
	if other.Body != nil {
		d.Body = other.Body
	}
	if other.Activity != nil {
		d.Activity = other.Activity
	}
	if other.Checklist != nil {
		d.Checklist = other.Checklist
	}
}
