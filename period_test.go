package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodSortKeyInstant(t *testing.T) {
	k1 := periodSortKey("instant_2023-12-31")
	k2 := periodSortKey("instant_2022-12-31")
	assert.True(t, k1.After(k2))
}

func TestPeriodSortKeyDurationUsesEndDate(t *testing.T) {
	k := periodSortKey("duration_2023-01-01_2023-12-31")
	assert.Equal(t, periodSortKey("instant_2023-12-31"), k)
}

func TestPeriodSortKeyUnparseableSortsLast(t *testing.T) {
	k := periodSortKey("garbage")
	assert.True(t, k.IsZero())
}

func TestRowPeriodTypePrefersExplicitColumn(t *testing.T) {
	row := FactRow{PeriodType: "Instant", PeriodKey: "duration_2023-01-01_2023-12-31"}
	assert.Equal(t, "instant", rowPeriodType(row))
}

func TestRowPeriodTypeFallsBackToKeyPrefix(t *testing.T) {
	row := FactRow{PeriodKey: "duration_2023-01-01_2023-12-31"}
	assert.Equal(t, "duration", rowPeriodType(row))
}

func TestPeriodKeyContainsDate(t *testing.T) {
	assert.True(t, periodKeyContainsDate("duration_2023-01-01_2023-12-31", "2023-12-31"))
	assert.False(t, periodKeyContainsDate("instant_2022-12-31", "2023-12-31"))
	assert.False(t, periodKeyContainsDate("instant_2022-12-31", ""))
}
