package xp_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Ncaofa1996/iron-sovereign/metrics"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func nullDec(f float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

func strengthDay(volume float64, sets int) *metrics.Strength {
	return &metrics.Strength{
		TotalVolume: dec(volume),
		SetCount:    sets,
		HasWorkout:  true,
	}
}

func activityDay(steps, activeMinutes, sleepHours float64) *metrics.Activity {
	return &metrics.Activity{
		Steps:         dec(steps),
		ActiveMinutes: dec(activeMinutes),
		SleepHours:    dec(sleepHours),
	}
}

// =============================================================================
// STRENGTH (STR)
// =============================================================================

func TestStrength_TwentySets12kVolume(t *testing.T) {
	// GIVEN: 20 completed sets totaling 12,000 lbs volume
	// THEN: round(log10(12000)*23)=94, +12 set tier, +15 base = 121
	assert.Equal(t, 121, xp.Strength(strengthDay(12000, 20)))
}

func TestStrength_NoWorkoutScoresZero(t *testing.T) {
	assert.Equal(t, 0, xp.Strength(nil))
	assert.Equal(t, 0, xp.Strength(&metrics.Strength{}))
}

func TestStrength_SetTiers(t *testing.T) {
	base := xp.Strength(strengthDay(10000, 1)) // 92+15 = 107, no tier
	assert.Equal(t, 107, base)
	assert.Equal(t, base+6, xp.Strength(strengthDay(10000, 10)))
	assert.Equal(t, base+12, xp.Strength(strengthDay(10000, 20)))
	assert.Equal(t, base+20, xp.Strength(strengthDay(10000, 30)))
}

func TestStrength_CappedAt150(t *testing.T) {
	// Absurd volume still clamps to the documented cap.
	assert.Equal(t, 150, xp.Strength(strengthDay(1e9, 40)))
	assert.Equal(t, 150, xp.STR.Cap())
}

func TestStrength_ZeroVolumeStillGetsBase(t *testing.T) {
	// Bodyweight-only day: no volume, but the workout happened.
	assert.Equal(t, 15+6, xp.Strength(strengthDay(0, 12)))
}

// =============================================================================
// ENDURANCE (END)
// =============================================================================

func TestEndurance_ActivityWithStrengthDay(t *testing.T) {
	// GIVEN: steps=16000, activeMinutes=50, strength also logged
	// THEN: min(60, round(50*0.8))=40, +10 strength, +15 steps>=15000 = 65
	assert.Equal(t, 65, xp.Endurance(strengthDay(1000, 5), activityDay(16000, 50, 0)))
}

func TestEndurance_ActiveMinutesCappedAt60(t *testing.T) {
	// 200 active minutes: the minutes component alone saturates at 60.
	assert.Equal(t, 60, xp.Endurance(nil, activityDay(0, 200, 0)))
}

func TestEndurance_StepTiers(t *testing.T) {
	assert.Equal(t, 0, xp.Endurance(nil, activityDay(9999, 0, 0)))
	assert.Equal(t, 8, xp.Endurance(nil, activityDay(10000, 0, 0)))
	assert.Equal(t, 15, xp.Endurance(nil, activityDay(15000, 0, 0)))
}

func TestEndurance_StrengthOnly(t *testing.T) {
	// Strength import with no tracker data still earns the workout bonus.
	assert.Equal(t, 10, xp.Endurance(strengthDay(5000, 10), nil))
}

// =============================================================================
// NUTRITION ADHERENCE (WIS)
// =============================================================================

func TestNutritionAdherence_BothTargetsHit(t *testing.T) {
	// GIVEN: calories exactly at target, protein at target
	// THEN: 40 + 40 + 20 combo = 100
	m := &metrics.Nutrition{Calories: dec(2000), Protein: dec(200)}
	assert.Equal(t, 100, xp.NutritionAdherence(m, xp.Config{CalorieTarget: 2000, ProteinTarget: 200}))
}

func TestNutritionAdherence_CalorieTiers(t *testing.T) {
	cfg := xp.Config{CalorieTarget: 2000, ProteinTarget: 200}
	cases := []struct {
		calories float64
		want     int
	}{
		{2100, 40}, // 5% off: full credit
		{2200, 20}, // 10% off
		{2400, 8},  // 20% off
		{2500, 0},  // beyond 20%
	}
	for _, tc := range cases {
		m := &metrics.Nutrition{Calories: dec(tc.calories)}
		assert.Equal(t, tc.want, xp.NutritionAdherence(m, cfg), "calories=%v", tc.calories)
	}
}

func TestNutritionAdherence_ProteinTiers(t *testing.T) {
	cfg := xp.Config{CalorieTarget: 2000, ProteinTarget: 200}
	cases := []struct {
		protein float64
		want    int
	}{
		{200, 40},
		{180, 25}, // 90%
		{150, 10}, // 75%
		{149, 0},
	}
	for _, tc := range cases {
		m := &metrics.Nutrition{Calories: dec(1), Protein: dec(tc.protein)}
		assert.Equal(t, tc.want, xp.NutritionAdherence(m, cfg), "protein=%v", tc.protein)
	}
}

func TestNutritionAdherence_DefaultsApplyWhenConfigUnset(t *testing.T) {
	m := &metrics.Nutrition{Calories: dec(2000), Protein: dec(200)}
	assert.Equal(t, 100, xp.NutritionAdherence(m, xp.Config{}))
}

// =============================================================================
// KNOWLEDGE (INT)
// =============================================================================

func TestKnowledge_AllThreeHitsCap(t *testing.T) {
	// GIVEN: all three check-in items true
	// THEN: 3*15 + 30 = 75, exactly at cap
	c := &metrics.Checklist{Scripture: true, Book: true, Language: true}
	assert.Equal(t, 75, xp.Knowledge(c))
	assert.Equal(t, xp.INT.Cap(), xp.Knowledge(c))
}

func TestKnowledge_PartialChecklist(t *testing.T) {
	assert.Equal(t, 0, xp.Knowledge(&metrics.Checklist{}))
	assert.Equal(t, 15, xp.Knowledge(&metrics.Checklist{Book: true}))
	assert.Equal(t, 30, xp.Knowledge(&metrics.Checklist{Book: true, Language: true}))
}

// =============================================================================
// CONSISTENCY (CON)
// =============================================================================

func TestConsistency_NoWeightReadingScoresZero(t *testing.T) {
	assert.Equal(t, 0, xp.Consistency(nil, nil))
	assert.Equal(t, 0, xp.Consistency(&metrics.Body{BodyFat: nullDec(18)}, nil))
}

func TestConsistency_BodyFatTiers(t *testing.T) {
	cases := []struct {
		fat  float64
		want int
	}{
		{14, 15 + 30},
		{18, 15 + 20},
		{24, 15 + 10},
		{30, 15},
	}
	for _, tc := range cases {
		m := &metrics.Body{Weight: nullDec(180), BodyFat: nullDec(tc.fat)}
		assert.Equal(t, tc.want, xp.Consistency(m, nil), "fat=%v", tc.fat)
	}
}

func TestConsistency_TrendBonuses(t *testing.T) {
	// GIVEN: body fat dropped and muscle rose vs the prior reading
	prev := &metrics.Body{Weight: nullDec(182), BodyFat: nullDec(19), MuscleMass: nullDec(150)}
	curr := &metrics.Body{Weight: nullDec(180), BodyFat: nullDec(18.5), MuscleMass: nullDec(151)}
	// 15 base + 20 (fat<20) + 15 (fat down) + 10 (muscle up) = 60
	assert.Equal(t, 60, xp.Consistency(curr, prev))
}

func TestConsistency_VisceralFatBonusAndCap(t *testing.T) {
	m := &metrics.Body{Weight: nullDec(180), BodyFat: nullDec(14), VisceralFat: nullDec(8)}
	// 15 + 30 + 10 = 55
	assert.Equal(t, 55, xp.Consistency(m, nil))

	prev := &metrics.Body{BodyFat: nullDec(15), MuscleMass: nullDec(140)}
	full := &metrics.Body{Weight: nullDec(180), BodyFat: nullDec(14),
		MuscleMass: nullDec(150), VisceralFat: nullDec(8)}
	// 15 + 30 + 15 + 10 + 10 = 80, at cap
	assert.Equal(t, 80, xp.Consistency(full, prev))
	assert.Equal(t, xp.CON.Cap(), xp.Consistency(full, prev))
}

// =============================================================================
// VITALITY (VIT)
// =============================================================================

func TestVitality_SleepTiers(t *testing.T) {
	cases := []struct {
		sleep float64
		want  int
	}{
		{8, 60},
		{7.5, 50},
		{7, 35},
		{6, 20},
		{5.9, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, xp.Vitality(activityDay(0, 0, tc.sleep)), "sleep=%v", tc.sleep)
	}
}

// =============================================================================
// AGILITY (AGI)
// =============================================================================

func TestAgility_StepScalingAndBonuses(t *testing.T) {
	cfg := xp.Config{StepTarget: 10000}
	// 10k steps: 50 + 20 target bonus
	assert.Equal(t, 70, xp.Agility(activityDay(10000, 0, 0), cfg))
	// 15k steps: 75 + 20 + 10 = 105, clamps to cap 100
	assert.Equal(t, 100, xp.Agility(activityDay(15000, 0, 0), cfg))
	// 4k steps: just the scale
	assert.Equal(t, 20, xp.Agility(activityDay(4000, 0, 0), cfg))
}

// =============================================================================
// COMPOSITION
// =============================================================================

func TestForDay_EmptyDayIsAllZero(t *testing.T) {
	vec := xp.ForDay(metrics.Day{}, nil, xp.Config{})
	assert.Equal(t, 0, vec.Total())
	for _, stat := range xp.AllStats {
		assert.Equal(t, 0, vec[stat])
	}
}

func TestForDay_OnlyRelevantStatsScore(t *testing.T) {
	day := metrics.Day{Nutrition: &metrics.Nutrition{Calories: dec(2000), Protein: dec(200)}}
	vec := xp.ForDay(day, nil, xp.Config{})
	assert.Equal(t, 100, vec[xp.WIS])
	assert.Equal(t, 100, vec.Total())
}

func TestVector_TotalAndClone(t *testing.T) {
	v := xp.NewVector()
	v[xp.STR] = 50
	v[xp.VIT] = 20
	assert.Equal(t, 70, v.Total())

	clone := v.Clone()
	clone[xp.STR] = 0
	assert.Equal(t, 50, v[xp.STR], "clone must not alias the original")
}
