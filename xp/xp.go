/*
Package xp holds the pure formulas that turn daily metrics into stat XP.

PURPOSE:
  Six character stats plus one auxiliary stat each have one scoring
  function. Functions are stateless: metrics in, capped non-negative
  integer out. The ledger engine decides WHICH of these run for a given
  import; this package only knows HOW each stat is scored.

STATS AND CAPS:
  STR 150   strength log: log-scale volume + set tiers + completion base
  END 120   active minutes + step tiers + strength-day bonus
  WIS 120   calorie and protein adherence vs configured targets
  INT  75   manual check-in: 15 per item, +30 for all three
  CON  80   weigh-in consistency + body composition trend bonuses
  VIT  80   sleep duration tiers
  AGI 100   steps / 200 + step-target bonuses (auxiliary stat)

DESIGN PRINCIPLES:
  1. Every result is clamped into [0, cap]. Invariant, not convention.
  2. Missing metrics score zero, they never error.
  3. Config carries the caller-tunable targets with sane defaults.

SEE ALSO:
  - metrics/: the input records
  - engine/: source -> stat ownership and ledger merging
*/
package xp

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Ncaofa1996/iron-sovereign/metrics"
)

// =============================================================================
// STATS
// =============================================================================

type Stat string

const (
	STR Stat = "STR"
	END Stat = "END"
	WIS Stat = "WIS"
	INT Stat = "INT"
	CON Stat = "CON"
	VIT Stat = "VIT"
	AGI Stat = "AGI"
)

// AllStats is the canonical ordering used for vectors and serialization.
var AllStats = []Stat{STR, END, WIS, INT, CON, VIT, AGI}

var caps = map[Stat]int{
	STR: 150, END: 120, WIS: 120, INT: 75, CON: 80, VIT: 80, AGI: 100,
}

// Cap returns the maximum XP a single day can award for this stat.
func (s Stat) Cap() int { return caps[s] }

// Vector maps every stat to a non-negative XP value.
type Vector map[Stat]int

// NewVector returns a vector with every stat zeroed.
func NewVector() Vector {
	v := make(Vector, len(AllStats))
	for _, s := range AllStats {
		v[s] = 0
	}
	return v
}

// Total sums all stat values.
func (v Vector) Total() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for s, n := range v {
		out[s] = n
	}
	return out
}

// =============================================================================
// CONFIG
// =============================================================================

// Config carries the caller-supplied targets the adherence formulas score
// against. Zero values fall back to defaults.
type Config struct {
	CalorieTarget float64 `json:"calorie_target"`
	ProteinTarget float64 `json:"protein_target"`
	StepTarget    float64 `json:"step_target"`
}

const (
	DefaultCalorieTarget = 2000
	DefaultProteinTarget = 200
	DefaultStepTarget    = 10000
)

// Normalize fills in defaults for unset targets.
func (c Config) Normalize() Config {
	if c.CalorieTarget <= 0 {
		c.CalorieTarget = DefaultCalorieTarget
	}
	if c.ProteinTarget <= 0 {
		c.ProteinTarget = DefaultProteinTarget
	}
	if c.StepTarget <= 0 {
		c.StepTarget = DefaultStepTarget
	}
	return c
}

// =============================================================================
// PER-STAT FORMULAS
// =============================================================================

// Strength scores a day of logged sets. Volume rewards are sublinear
// (log10 scale: 10k lbs ~ 40 XP, 80k lbs ~ 95 XP) so grinding junk volume
// does not dominate.
func Strength(m *metrics.Strength) int {
	if m == nil || !m.HasWorkout {
		return 0
	}
	xp := 0
	volume := m.TotalVolume.InexactFloat64()
	if volume > 0 {
		xp += int(math.Round(math.Log10(math.Max(volume, 1)) * 23))
	}
	switch {
	case m.SetCount >= 30:
		xp += 20
	case m.SetCount >= 20:
		xp += 12
	case m.SetCount >= 10:
		xp += 6
	}
	xp += 15 // completed a workout at all
	return clamp(xp, STR)
}

// Endurance reads both owners' metrics: active minutes and steps from the
// tracker, plus a flat bonus when strength work also happened that day.
func Endurance(s *metrics.Strength, a *metrics.Activity) int {
	xp := 0
	if a != nil {
		active := a.ActiveMinutes.InexactFloat64()
		xp += int(math.Min(60, math.Round(active*0.8)))
	}
	if s != nil && s.HasWorkout {
		xp += 10
	}
	if a != nil {
		steps := a.Steps.InexactFloat64()
		if steps >= 15000 {
			xp += 15
		} else if steps >= 10000 {
			xp += 8
		}
	}
	return clamp(xp, END)
}

// NutritionAdherence scores calories and protein against targets, with a
// combo bonus for hitting both at full credit.
func NutritionAdherence(m *metrics.Nutrition, cfg Config) int {
	if m == nil {
		return 0
	}
	cfg = cfg.Normalize()
	calories := m.Calories.InexactFloat64()
	protein := m.Protein.InexactFloat64()

	xp := 0
	calDiff := math.Abs(calories-cfg.CalorieTarget) / cfg.CalorieTarget
	switch {
	case calDiff <= 0.05:
		xp += 40
	case calDiff <= 0.10:
		xp += 20
	case calDiff <= 0.20:
		xp += 8
	}

	switch {
	case protein >= cfg.ProteinTarget:
		xp += 40
	case protein >= cfg.ProteinTarget*0.9:
		xp += 25
	case protein >= cfg.ProteinTarget*0.75:
		xp += 10
	}

	if calDiff <= 0.05 && protein >= cfg.ProteinTarget {
		xp += 20
	}
	return clamp(xp, WIS)
}

// Knowledge scores the manual check-in: 15 per completed item, +30 when
// all three land on the same day.
func Knowledge(c *metrics.Checklist) int {
	if c == nil {
		return 0
	}
	count := 0
	for _, done := range []bool{c.Scripture, c.Book, c.Language} {
		if done {
			count++
		}
	}
	xp := count * 15
	if count == 3 {
		xp += 30
	}
	return clamp(xp, INT)
}

var (
	visceralHealthy = decimal.NewFromInt(10)
)

// Consistency rewards showing up on the scale and trending the right way.
// No weight reading means no score; trend bonuses need both the current
// and the prior reading to carry the relevant field.
func Consistency(m, prev *metrics.Body) int {
	if m == nil || !m.Weight.Valid {
		return 0
	}
	xp := 15 // completed a weigh-in

	if m.BodyFat.Valid {
		fat := m.BodyFat.Decimal.InexactFloat64()
		switch {
		case fat < 15:
			xp += 30
		case fat < 20:
			xp += 20
		case fat < 25:
			xp += 10
		}
	}

	if prev != nil {
		if m.BodyFat.Valid && prev.BodyFat.Valid &&
			m.BodyFat.Decimal.LessThan(prev.BodyFat.Decimal) {
			xp += 15
		}
		if m.MuscleMass.Valid && prev.MuscleMass.Valid &&
			m.MuscleMass.Decimal.GreaterThan(prev.MuscleMass.Decimal) {
			xp += 10
		}
	}

	if m.VisceralFat.Valid && m.VisceralFat.Decimal.LessThanOrEqual(visceralHealthy) {
		xp += 10
	}
	return clamp(xp, CON)
}

// Vitality is sleep tiers only. Under six hours scores nothing.
func Vitality(a *metrics.Activity) int {
	if a == nil {
		return 0
	}
	sleep := a.SleepHours.InexactFloat64()
	xp := 0
	switch {
	case sleep >= 8:
		xp = 60
	case sleep >= 7.5:
		xp = 50
	case sleep >= 7:
		xp = 35
	case sleep >= 6:
		xp = 20
	}
	return clamp(xp, VIT)
}

// Agility scales with raw steps (10k steps ~ 50 XP) plus target bonuses.
func Agility(a *metrics.Activity, cfg Config) int {
	if a == nil {
		return 0
	}
	cfg = cfg.Normalize()
	steps := a.Steps.InexactFloat64()
	xp := int(math.Round(steps / 200))
	if steps >= cfg.StepTarget {
		xp += 20
	}
	if steps >= cfg.StepTarget*1.5 {
		xp += 10
	}
	return clamp(xp, AGI)
}

// =============================================================================
// COMPOSITION
// =============================================================================

// ForDay computes the full stat vector for one day's merged metrics.
// prevBody is the most recent earlier body reading, used only for the
// consistency trend bonuses.
func ForDay(day metrics.Day, prevBody *metrics.Body, cfg Config) Vector {
	return Vector{
		STR: Strength(day.Strength),
		END: Endurance(day.Strength, day.Activity),
		WIS: NutritionAdherence(day.Nutrition, cfg),
		INT: Knowledge(day.Checklist),
		CON: Consistency(day.Body, prevBody),
		VIT: Vitality(day.Activity),
		AGI: Agility(day.Activity, cfg),
	}
}

func clamp(xp int, stat Stat) int {
	if xp < 0 {
		return 0
	}
	if max := caps[stat]; xp > max {
		return max
	}
	return xp
}
