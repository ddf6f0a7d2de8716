package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSearchTable(t *testing.T) *FactTable {
	t.Helper()
	records := []RawRecord{
		{"concept": "dei:DocumentPeriodEndDate", "value": "2023-12-31", "period_key": "instant_2023-12-31"},
		{
			"concept": "us-gaap:Assets", "value": "1,000,000", "period_key": "instant_2023-12-31",
			"statement_type": "Consolidated Balance Sheet", "unit": "usd", "dim_segment_axis": "",
		},
		{
			"concept": "us-gaap:Assets", "value": "250,000", "period_key": "instant_2023-12-31",
			"statement_type": "Consolidated Balance Sheet", "unit": "usd", "dim_segment_axis": "RetailSegmentMember",
		},
		{
			"concept": "us-gaap:Assets", "value": "900,000", "period_key": "instant_2022-12-31",
			"statement_type": "Consolidated Balance Sheet", "unit": "usd", "dim_segment_axis": "",
		},
		{
			"concept": "us-gaap:Revenues", "value": "500", "period_key": "instant_2023-12-31",
			"statement_type": "Income Statement", "unit": "shares", "dim_segment_axis": "",
		},
	}
	table, err := NewFactTable(records, nil)
	require.NoError(t, err)
	return table
}

func TestSearchConsolidatedExcludesDimensional(t *testing.T) {
	table := buildSearchTable(t)
	cfg := NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance"), WithPeriodType("instant"), WithUnitWhitelist("usd"), WithRespectAnchorDate(false))
	results, _, err := Search(table, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "instant_2023-12-31", results[0].PeriodKey, "latest period first")
	assert.Equal(t, "1,000,000", results[0].Value)
}

func TestSearchDimensionalOnlyMatchesDimensional(t *testing.T) {
	table := buildSearchTable(t)
	cfg := NewDimensionalSearch("us-gaap:Assets", WithStatementTypes("balance"))
	results, _, err := Search(table, cfg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "250,000", results[0].Value)
	assert.Equal(t, "RetailSegmentMember", results[0].DimensionDetail["axis"])
}

func TestSearchUnitMismatchRecordsRejection(t *testing.T) {
	table := buildSearchTable(t)
	cfg := NewConsolidatedSearch("us-gaap:Revenues", WithUnitWhitelist("usd"))
	results, rejections, err := Search(table, cfg)
	require.NoError(t, err)
	assert.Empty(t, results)
	require.Len(t, rejections, 1)
	assert.Equal(t, RejectUnitMismatch, rejections[0].Reason)
}

func TestSearchStatementMismatchRecordsRejection(t *testing.T) {
	table := buildSearchTable(t)
	cfg := NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("cash"))
	results, rejections, err := Search(table, cfg)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotEmpty(t, rejections)
	for _, r := range rejections {
		assert.Equal(t, RejectStatementMismatch, r.Reason)
	}
}

func TestSearchAnchorDateGate(t *testing.T) {
	table := buildSearchTable(t)
	cfg := NewConsolidatedSearch("us-gaap:Assets")
	results, _, err := Search(table, cfg)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "instant_2023-12-31", r.PeriodKey)
	}

	relaxed := cfg
	relaxed.RespectAnchorDate = false
	results, _, err = Search(table, relaxed)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchInvalidRegexErrors(t *testing.T) {
	table := buildSearchTable(t)
	cfg := NewConsolidatedSearch("us-gaap:Assets(")
	_, _, err := Search(table, cfg)
	assert.Error(t, err)
}

func TestSearchConfigKeyDedupTuple(t *testing.T) {
	a := NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance"), WithPeriodType("instant"))
	b := NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance"), WithPeriodType("instant"))
	c := NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance"), WithPeriodType("duration"))
	assert.Equal(t, a.key(), b.key())
	assert.NotEqual(t, a.key(), c.key())
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, "usd", normalizeUnit("u_usd"))
	assert.Equal(t, "usd", normalizeUnit("iso4217:USD"))
	assert.Equal(t, "shares", normalizeUnit("  Shares "))
}

func TestConceptMatcherPlainTag(t *testing.T) {
	m, err := conceptMatcher("us-gaap:Assets")
	require.NoError(t, err)
	assert.True(t, m.MatchString("us-gaap:Assets"))
	assert.False(t, m.MatchString("us-gaap:AssetsCurrent"))
}

func TestConceptMatcherBareTagSuffix(t *testing.T) {
	m, err := conceptMatcher("Assets")
	require.NoError(t, err)
	assert.True(t, m.MatchString("us-gaap:Assets"))
	assert.False(t, m.MatchString("us-gaap:AssetsCurrent"))
}

func TestEmitRejectionsEmitsOneDiagnosticPerRejection(t *testing.T) {
	sink := NewCollectingSink()
	rejections := []Rejection{
		{Reason: RejectStatementMismatch, Concept: "us-gaap:Assets", PeriodKey: "instant_2023-12-31", StatementType: "Income Statement", Unit: "usd", ValuePreview: "1000"},
		{Reason: RejectUnitMismatch, Concept: "us-gaap:Revenues", PeriodKey: "instant_2023-12-31", StatementType: "Income Statement", Unit: "shares", ValuePreview: "500"},
	}

	emitRejections(sink, "Total Assets", rejections)

	require.Len(t, sink.Events, 2)
	for i, r := range rejections {
		evt := sink.Events[i]
		assert.Equal(t, DiagSearchRejection, evt.Kind)
		assert.Equal(t, "Total Assets", evt.Fields["field_name"])
		assert.Equal(t, string(r.Reason), evt.Fields["reason"])
		assert.Equal(t, r.Concept, evt.Fields["concept"])
		assert.Equal(t, r.ValuePreview, evt.Fields["value_preview"])
	}
}

func TestEmitRejectionsNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		emitRejections(nil, "Total Assets", []Rejection{{Reason: RejectUnitMismatch}})
	})
}
