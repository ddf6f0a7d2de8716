package fundamental

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parsePeriodEndDate extracts the date a PeriodKey sorts on: for
// "instant_YYYY-MM-DD" that is the instant itself; for
// "duration_YYYY-MM-DD_YYYY-MM-DD" it is the later (end) date. Returns the
// zero time and false for anything else, including a key whose date
// segments do not parse.
func parsePeriodEndDate(periodKey string) (time.Time, bool) {
	switch {
	case strings.HasPrefix(periodKey, "instant_"):
		raw := strings.TrimPrefix(periodKey, "instant_")
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case strings.HasPrefix(periodKey, "duration_"):
		raw := strings.TrimPrefix(periodKey, "duration_")
		parts := strings.SplitN(raw, "_", 2)
		if len(parts) != 2 {
			return time.Time{}, false
		}
		t, err := time.Parse(dateLayout, parts[1])
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// periodSortKey returns the date a PeriodKey sorts on for "latest period
// first" ordering (§3, §4.2). Unparseable or unrecognized keys sort to the
// minimum time, i.e. last.
func periodSortKey(periodKey string) time.Time {
	t, ok := parsePeriodEndDate(periodKey)
	if !ok {
		return time.Time{}
	}
	return t
}

// rowPeriodType returns the effective period type for a row: its own
// period_type column if present, else a prefix match against the
// instant_/duration_ PeriodKey convention. Returns "" if neither source
// yields an answer.
func rowPeriodType(row FactRow) string {
	if row.PeriodType != "" {
		return strings.ToLower(strings.TrimSpace(row.PeriodType))
	}
	switch {
	case strings.HasPrefix(row.PeriodKey, "instant_"):
		return "instant"
	case strings.HasPrefix(row.PeriodKey, "duration_"):
		return "duration"
	default:
		return ""
	}
}

// periodKeyContainsDate reports whether a PeriodKey embeds the given
// YYYY-MM-DD date as one of its date segments. Used for the anchor-date gate
// when a row's period_end column is absent.
func periodKeyContainsDate(periodKey, date string) bool {
	if date == "" {
		return false
	}
	return strings.Contains(periodKey, date)
}
