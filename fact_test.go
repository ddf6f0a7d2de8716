package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []RawRecord {
	return []RawRecord{
		{
			"concept": "dei:DocumentPeriodEndDate", "value": "2023-12-31",
			"period_key": "instant_2023-12-31", "statement_type": "",
		},
		{
			"concept": "us-gaap:Assets", "value": "1000000",
			"period_key": "instant_2023-12-31", "statement_type": "Balance Sheet",
			"unit": "usd", "dim_segment_axis": "",
		},
		{
			"concept": "us-gaap:Assets", "value": "250000",
			"period_key": "instant_2023-12-31", "statement_type": "Balance Sheet",
			"unit": "usd", "dim_segment_axis": "RetailSegmentMember",
		},
	}
}

func TestNewFactTableRequiresMandatoryColumns(t *testing.T) {
	_, err := NewFactTable([]RawRecord{{"value": "1", "period_key": "instant_2023-01-01"}}, nil)
	assert.Error(t, err)
}

func TestNewFactTableDetectsDimensionColumns(t *testing.T) {
	table, err := NewFactTable(sampleRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"dim_segment_axis"}, table.DimensionColumns())
}

func TestNewFactTableLocksAnchorDate(t *testing.T) {
	table, err := NewFactTable(sampleRecords(), nil)
	require.NoError(t, err)
	anchor, ok := table.AnchorDate()
	assert.True(t, ok)
	assert.Equal(t, "2023-12-31", anchor)
}

func TestNewFactTableEmitsAnchorDiagnostic(t *testing.T) {
	sink := NewCollectingSink()
	_, err := NewFactTable(sampleRecords(), sink)
	require.NoError(t, err)
	require.Len(t, sink.Events, 1)
	assert.Equal(t, DiagAnchorDateLocked, sink.Events[0].Kind)
	assert.Equal(t, true, sink.Events[0].Fields["found"])
}

func TestNewFactTableNoAnchor(t *testing.T) {
	records := []RawRecord{
		{"concept": "us-gaap:Assets", "value": "1", "period_key": "instant_2023-01-01"},
	}
	table, err := NewFactTable(records, nil)
	require.NoError(t, err)
	_, ok := table.AnchorDate()
	assert.False(t, ok)
}

func TestFactRowIsConsolidated(t *testing.T) {
	consolidated := FactRow{Dimensions: map[string]string{"dim_segment_axis": ""}}
	assert.True(t, consolidated.IsConsolidated())

	dimensional := FactRow{Dimensions: map[string]string{"dim_segment_axis": "RetailSegmentMember"}}
	assert.False(t, dimensional.IsConsolidated())

	totalSentinel := FactRow{Dimensions: map[string]string{"dim_segment_axis": "Total"}}
	assert.True(t, totalSentinel.IsConsolidated())
}
