/*
extract.go - One extractor per data source

PURPOSE:
  Turns arrays of raw rows into per-day metric maps. Each extractor knows
  one exporter's shape:

  Strength log:     one row per completed set; aggregate by day.
  Nutrition log:    one row per day (usually); sum defensively.
  Body composition: one row per weigh-in; last reading of the day wins.
  Activity tracker: TWO layouts, auto-detected from column names. The
                    alternate layout has M/D/YY dates, "7h 30m" sleep text
                    and comma-grouped numbers; its duplicate auxiliary rows
                    are combined by taking the per-field maximum so a daily
                    summary is never double counted.

CONTRACT:
  map key is the local calendar date (YYYY-MM-DD). Rows with unresolvable
  dates contribute nothing. No extractor returns an error: malformed cells
  degrade per the rules in rows.go.

SEE ALSO:
  - types.go: the metric records produced here
  - rows.go: field/number/date fallback rules
*/
package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STRENGTH LOG - one row per set
// =============================================================================

// ExtractStrength aggregates set rows into daily volume/set/exercise totals.
func ExtractStrength(rows []Row, loc *time.Location) map[string]*Strength {
	out := make(map[string]*Strength)
	exercises := make(map[string]map[string]bool)

	for _, row := range rows {
		date := resolveDate(row.field("Date", "date"), loc)
		if date == "" {
			continue
		}

		reps := row.number("Reps", "reps")
		weight := row.number("Weight", "weight", "Weight (lbs)")

		day := out[date]
		if day == nil {
			day = &Strength{}
			out[date] = day
			exercises[date] = make(map[string]bool)
		}
		day.TotalVolume = day.TotalVolume.Add(reps.Mul(weight))
		day.SetCount++
		day.HasWorkout = true
		if name := row.field("Exercise Name", "Exercise", "exercise"); name != "" {
			exercises[date][name] = true
		}
	}
	for date, day := range out {
		day.ExerciseCount = len(exercises[date])
	}
	return out
}

// =============================================================================
// NUTRITION LOG - one (or more) rows per day
// =============================================================================

// ExtractNutrition sums macro rows by day.
func ExtractNutrition(rows []Row, loc *time.Location) map[string]*Nutrition {
	out := make(map[string]*Nutrition)

	for _, row := range rows {
		date := resolveDate(row.field("Date", "date"), loc)
		if date == "" {
			continue
		}

		day := out[date]
		if day == nil {
			day = &Nutrition{}
			out[date] = day
		}
		day.Calories = day.Calories.Add(row.number("Energy (kcal)", "Calories", "calories"))
		day.Protein = day.Protein.Add(row.number("Protein (g)", "Protein", "protein"))
		day.Fat = day.Fat.Add(row.number("Fat (g)", "Fat"))
		day.Carbs = day.Carbs.Add(row.number("Carbohydrates (g)", "Carbs"))
		day.Fiber = day.Fiber.Add(row.number("Fiber (g)", "Fiber"))
		day.Rows++
	}
	return out
}

// =============================================================================
// BODY COMPOSITION - one row per weigh-in, last of day wins
// =============================================================================

// ExtractBody keeps the last reading per day (rows are chronological
// within a file, so a later weigh-in simply replaces an earlier one).
func ExtractBody(rows []Row, loc *time.Location) map[string]*Body {
	out := make(map[string]*Body)

	for _, row := range rows {
		date := resolveDate(row.field("Time", "Date", "date"), loc)
		if date == "" {
			continue
		}
		out[date] = &Body{
			Weight:      row.nullNumber("Weight(lb)", "Weight (lb)", "Weight"),
			BodyFat:     row.nullNumber("Body Fat(%)", "Body Fat (%)", "Body Fat"),
			MuscleMass:  row.nullNumber("Muscle Mass(lb)", "Lean Mass(lb)", "Muscle Mass"),
			VisceralFat: row.nullNumber("Visceral Fat", "Visceral Fat Level"),
		}
	}
	return out
}

// =============================================================================
// ACTIVITY TRACKER - two layouts, auto-detected
// =============================================================================

// ExtractActivity detects which tracker layout the rows use and normalizes
// both to steps / active minutes / calories burned / sleep hours.
func ExtractActivity(rows []Row, loc *time.Location) map[string]*Activity {
	if len(rows) == 0 {
		return map[string]*Activity{}
	}

	headers := make([]string, 0, len(rows[0]))
	for h := range rows[0] {
		headers = append(headers, h)
	}
	if findColumn(headers, "active calorie") != "" || findColumn(headers, "exercise minute") != "" {
		return extractAltActivity(rows, headers)
	}
	return extractSummaryActivity(rows, loc)
}

// extractSummaryActivity handles the standard daily-summary layout.
// Multiple rows for a date (e.g. a merged sleep export) are summed.
func extractSummaryActivity(rows []Row, loc *time.Location) map[string]*Activity {
	out := make(map[string]*Activity)

	for _, row := range rows {
		date := resolveDate(row.field("Activities Date", "Date", "date", "Start Time"), loc)
		if date == "" {
			continue
		}

		day := out[date]
		if day == nil {
			day = &Activity{}
			out[date] = day
		}
		day.Steps = day.Steps.Add(row.number("Steps", "steps"))
		active := row.number("Minutes Very Active").Add(row.number("Minutes Fairly Active"))
		day.ActiveMinutes = day.ActiveMinutes.Add(active)
		day.CaloriesBurned = day.CaloriesBurned.Add(row.number("Calories Burned", "Calories"))

		sleepMinutes := row.number("Minutes Asleep", "Sleep Duration (min)")
		if sleepMinutes.Sign() > 0 {
			day.SleepHours = day.SleepHours.Add(sleepMinutes.Div(decimal.NewFromInt(60)))
		}
	}
	return out
}

// extractAltActivity handles the alternate layout: M/D/YY dates, columns
// located by substring, comma-grouped numbers, sleep as "7h 30m" text.
// Each date has one real summary row plus near-empty workout rows, so
// fields are combined by taking the maximum observed value, never summed.
func extractAltActivity(rows []Row, headers []string) map[string]*Activity {
	colSteps := findColumn(headers, "steps")
	colSleep := findColumn(headers, "sleep")
	colExercise := findColumn(headers, "exercise minute")

	out := make(map[string]*Activity)
	for _, row := range rows {
		date := resolveSlashDate(row.field("Date", "date"))
		if date == "" {
			continue
		}

		day := out[date]
		if day == nil {
			day = &Activity{}
			out[date] = day
		}
		if colSteps != "" {
			if steps := cleanNumber(row[colSteps]); steps.GreaterThan(day.Steps) {
				day.Steps = steps
			}
		}
		if colExercise != "" {
			if minutes := cleanNumber(row[colExercise]); minutes.GreaterThan(day.ActiveMinutes) {
				day.ActiveMinutes = minutes
			}
		}
		if colSleep != "" {
			if sleep := parseSleepText(row[colSleep]); sleep.GreaterThan(day.SleepHours) {
				day.SleepHours = sleep
			}
		}
	}
	return out
}
