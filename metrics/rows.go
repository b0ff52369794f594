/*
rows.go - Field lookup, numeric cleaning, and date resolution for export rows

PURPOSE:
  Every exporter spells its columns differently ("Weight(lb)", "Weight (lb)",
  "Weight"), quotes numbers with thousands separators ("10,940"), and stamps
  rows with anything from a bare date to a UTC timestamp. The helpers here
  absorb that mess so the extractors stay readable.

FALLBACK RULES:
  - Unknown/missing field: empty string, which cleans to zero/absent.
  - Unparsable number: zero (absent for nullable readings).
  - Timestamps are resolved to a calendar date in ONE configured timezone;
    a bare YYYY-MM-DD is taken as already local and never shifted.
  - A row whose date cannot be resolved at all is the only thing dropped.

SEE ALSO:
  - extract.go: the extractors built on these helpers
*/
package metrics

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FIELD LOOKUP
// =============================================================================

// field returns the first non-blank value among the given column aliases.
func (r Row) field(aliases ...string) string {
	for _, a := range aliases {
		if v := strings.TrimSpace(r[a]); v != "" {
			return v
		}
	}
	return ""
}

// number parses the first matching alias as a decimal, defaulting to zero.
func (r Row) number(aliases ...string) decimal.Decimal {
	return cleanNumber(r.field(aliases...))
}

// nullNumber parses a nullable reading. Zero and garbage both come back as
// absent: a scale that reports 0 lb did not actually measure anything.
func (r Row) nullNumber(aliases ...string) decimal.NullDecimal {
	d := cleanNumber(r.field(aliases...))
	if d.Sign() <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// findColumn locates a header by case-insensitive substring match.
// Handles export variants where units or quoting mangle the exact name.
func findColumn(headers []string, partial string) string {
	p := strings.ToLower(partial)
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), p) {
			return h
		}
	}
	return ""
}

// =============================================================================
// NUMERIC CLEANING
// =============================================================================

// cleanNumber strips thousands separators and whitespace, then parses.
// Anything unparsable is zero.
func cleanNumber(raw string) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// sleepPattern matches human sleep durations like "7h 30m", "8h", "45m".
var sleepPattern = regexp.MustCompile(`(?:(\d+)h)?\s*(?:(\d+)m)?`)

// parseSleepText converts "7h 30m" style text into hours.
func parseSleepText(raw string) decimal.Decimal {
	m := sleepPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil || (m[1] == "" && m[2] == "") {
		return decimal.Zero
	}
	hours, _ := strconv.Atoi("0" + m[1])
	mins, _ := strconv.Atoi("0" + m[2])
	return decimal.NewFromInt(int64(hours)).Add(
		decimal.NewFromInt(int64(mins)).Div(decimal.NewFromInt(60)))
}

// =============================================================================
// DATE RESOLUTION
// =============================================================================

// timestampLayouts are tried in order for raw source timestamps.
// Layouts without a zone are assumed UTC, matching how the exporters stamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// resolveDate turns a raw source timestamp into a YYYY-MM-DD key in loc.
// A bare YYYY-MM-DD is already a calendar date and is returned unshifted.
// Returns "" if nothing date-like can be recovered; callers drop the row.
func resolveDate(raw string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		return t.In(loc).Format("2006-01-02")
	}
	// Timestamp prefix fallback: "2026-01-28 something unparsable".
	if len(s) >= 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10]
		}
	}
	return ""
}

// resolveSlashDate parses the alternate tracker layout's M/D/YY dates
// (two-digit years are 20xx). Returns "" when malformed.
func resolveSlashDate(raw string) string {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return ""
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
