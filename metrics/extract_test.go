package metrics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ncaofa1996/iron-sovereign/metrics"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func chicago(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func assertDec(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromFloat(want)), "want %v, got %v", want, got)
}

// =============================================================================
// STRENGTH LOG
// =============================================================================

func TestExtractStrength_AggregatesSetsByDay(t *testing.T) {
	rows := []metrics.Row{
		{"Date": "2026-02-10", "Exercise Name": "Squat", "Reps": "5", "Weight": "225"},
		{"Date": "2026-02-10", "Exercise Name": "Squat", "Reps": "5", "Weight": "225"},
		{"Date": "2026-02-10", "Exercise Name": "Bench Press", "Reps": "8", "Weight": "185"},
		{"Date": "2026-02-11", "Exercise Name": "Deadlift", "Reps": "3", "Weight": "315"},
	}

	out := metrics.ExtractStrength(rows, time.UTC)
	require.Len(t, out, 2)

	day := out["2026-02-10"]
	require.NotNil(t, day)
	assertDec(t, 2*5*225+8*185, day.TotalVolume)
	assert.Equal(t, 3, day.SetCount)
	assert.Equal(t, 2, day.ExerciseCount)
	assert.True(t, day.HasWorkout)

	assertDec(t, 3*315, out["2026-02-11"].TotalVolume)
}

func TestExtractStrength_MalformedNumbersDefaultToZero(t *testing.T) {
	// A garbage rep count still counts the set; it just adds no volume.
	rows := []metrics.Row{
		{"Date": "2026-02-10", "Reps": "five", "Weight": "225"},
		{"Date": "2026-02-10", "Reps": "5", "Weight": ""},
	}

	out := metrics.ExtractStrength(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	assert.Equal(t, 2, day.SetCount)
	assertDec(t, 0, day.TotalVolume)
	assert.True(t, day.HasWorkout)
}

func TestExtractStrength_UnparsableDateDropsRowOnly(t *testing.T) {
	rows := []metrics.Row{
		{"Date": "not a date", "Reps": "5", "Weight": "100"},
		{"Date": "", "Reps": "5", "Weight": "100"},
		{"Date": "2026-02-10", "Reps": "5", "Weight": "100"},
	}

	out := metrics.ExtractStrength(rows, time.UTC)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out["2026-02-10"].SetCount)
}

func TestExtractStrength_TimestampsResolveInConfiguredZone(t *testing.T) {
	// 03:30 UTC is still the previous evening in Chicago.
	rows := []metrics.Row{
		{"Date": "2026-02-10 03:30:00", "Reps": "5", "Weight": "100"},
	}

	out := metrics.ExtractStrength(rows, chicago(t))
	require.Len(t, out, 1)
	assert.Contains(t, out, "2026-02-09")
}

// =============================================================================
// NUTRITION LOG
// =============================================================================

func TestExtractNutrition_SumsMultiRowDays(t *testing.T) {
	rows := []metrics.Row{
		{"Date": "2026-02-10", "Energy (kcal)": "1200", "Protein (g)": "90", "Fat (g)": "40", "Carbohydrates (g)": "120", "Fiber (g)": "15"},
		{"Date": "2026-02-10", "Energy (kcal)": "800", "Protein (g)": "110", "Fat (g)": "30", "Carbohydrates (g)": "60", "Fiber (g)": "10"},
	}

	out := metrics.ExtractNutrition(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	assertDec(t, 2000, day.Calories)
	assertDec(t, 200, day.Protein)
	assertDec(t, 70, day.Fat)
	assertDec(t, 180, day.Carbs)
	assertDec(t, 25, day.Fiber)
	assert.Equal(t, 2, day.Rows)
}

func TestExtractNutrition_ColumnAliases(t *testing.T) {
	rows := []metrics.Row{
		{"date": "2026-02-10", "Calories": "1800", "Protein": "150"},
	}

	out := metrics.ExtractNutrition(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	assertDec(t, 1800, day.Calories)
	assertDec(t, 150, day.Protein)
}

// =============================================================================
// BODY COMPOSITION
// =============================================================================

func TestExtractBody_LastReadingOfDayWins(t *testing.T) {
	rows := []metrics.Row{
		{"Time": "2026-02-10 07:00", "Weight(lb)": "182.4", "Body Fat(%)": "19.1"},
		{"Time": "2026-02-10 21:30", "Weight(lb)": "181.0", "Body Fat(%)": "18.8"},
	}

	out := metrics.ExtractBody(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	require.True(t, day.Weight.Valid)
	assertDec(t, 181.0, day.Weight.Decimal)
	assertDec(t, 18.8, day.BodyFat.Decimal)
}

func TestExtractBody_MissingFieldsAreAbsentNotZero(t *testing.T) {
	rows := []metrics.Row{
		{"Time": "2026-02-10", "Weight(lb)": "180", "Visceral Fat": "junk"},
	}

	out := metrics.ExtractBody(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	assert.True(t, day.Weight.Valid)
	assert.False(t, day.BodyFat.Valid)
	assert.False(t, day.MuscleMass.Valid)
	assert.False(t, day.VisceralFat.Valid)
}

func TestExtractBody_AliasColumns(t *testing.T) {
	rows := []metrics.Row{
		{"Date": "2026-02-10", "Weight (lb)": "180", "Lean Mass(lb)": "150", "Visceral Fat Level": "9"},
	}

	out := metrics.ExtractBody(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	assertDec(t, 150, day.MuscleMass.Decimal)
	assertDec(t, 9, day.VisceralFat.Decimal)
}

// =============================================================================
// ACTIVITY TRACKER - standard summary layout
// =============================================================================

func TestExtractActivity_StandardLayout(t *testing.T) {
	rows := []metrics.Row{
		{
			"Activities Date":      "2026-02-10",
			"Steps":                "12500",
			"Minutes Very Active":  "30",
			"Minutes Fairly Active": "20",
			"Calories Burned":      "2600",
			"Minutes Asleep":       "450",
		},
	}

	out := metrics.ExtractActivity(rows, time.UTC)
	day := out["2026-02-10"]
	require.NotNil(t, day)
	assertDec(t, 12500, day.Steps)
	assertDec(t, 50, day.ActiveMinutes)
	assertDec(t, 2600, day.CaloriesBurned)
	assertDec(t, 7.5, day.SleepHours)
}

// =============================================================================
// ACTIVITY TRACKER - alternate layout
// =============================================================================

func TestExtractActivity_AltLayoutDetectionAndParsing(t *testing.T) {
	// Detected by the "Exercise Minutes" column. Dates are M/D/YY, numbers
	// carry thousands separators, sleep is human text.
	rows := []metrics.Row{
		{
			"Date":             "1/28/26",
			"Steps (steps)":    "10,940",
			"Exercise Minutes": "45",
			"Sleep":            "6h 54m",
			"Active Calories":  "612",
		},
	}

	out := metrics.ExtractActivity(rows, time.UTC)
	day := out["2026-01-28"]
	require.NotNil(t, day)
	assertDec(t, 10940, day.Steps)
	assertDec(t, 45, day.ActiveMinutes)
	assert.True(t, day.SleepHours.Equal(
		decimal.NewFromInt(6).Add(decimal.NewFromInt(54).Div(decimal.NewFromInt(60)))))
}

func TestExtractActivity_AltLayoutMaxCombinesDuplicateRows(t *testing.T) {
	// GIVEN: a real summary row plus a near-empty workout-only row
	// THEN: fields take the max, never the sum (no double counting)
	rows := []metrics.Row{
		{"Date": "1/28/26", "Steps (steps)": "10,940", "Exercise Minutes": "45", "Sleep": "6h 54m"},
		{"Date": "1/28/26", "Steps (steps)": "200", "Exercise Minutes": "", "Sleep": ""},
	}

	out := metrics.ExtractActivity(rows, time.UTC)
	day := out["2026-01-28"]
	require.NotNil(t, day)
	assertDec(t, 10940, day.Steps)
	assertDec(t, 45, day.ActiveMinutes)
}

func TestExtractActivity_AltLayoutBadDateDropped(t *testing.T) {
	rows := []metrics.Row{
		{"Date": "28-01-2026", "Steps (steps)": "100", "Exercise Minutes": "5"},
		{"Date": "13/45/26", "Steps (steps)": "100", "Exercise Minutes": "5"},
	}

	out := metrics.ExtractActivity(rows, time.UTC)
	assert.Empty(t, out)
}

func TestExtractActivity_EmptyInput(t *testing.T) {
	assert.Empty(t, metrics.ExtractActivity(nil, time.UTC))
}

// =============================================================================
// DAY MERGE
// =============================================================================

func TestDayMerge_ReplacesComponentsWholesale(t *testing.T) {
	day := metrics.Day{
		Strength:  &metrics.Strength{SetCount: 10, HasWorkout: true},
		Nutrition: &metrics.Nutrition{Rows: 1},
	}

	replacement := metrics.Day{Strength: &metrics.Strength{SetCount: 3, HasWorkout: true}}
	day.Merge(replacement)

	assert.Equal(t, 3, day.Strength.SetCount, "incoming component replaces, never accumulates")
	assert.Equal(t, 1, day.Nutrition.Rows, "other components untouched")
}
