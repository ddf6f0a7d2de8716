package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumericThousandsAndParens(t *testing.T) {
	v, ok := parseNumeric("1,234,567", 0, false)
	require.True(t, ok)
	assert.Equal(t, 1234567.0, v)

	v, ok = parseNumeric("(500)", 0, false)
	require.True(t, ok)
	assert.Equal(t, -500.0, v)
}

func TestParseNumericRejectsComparisonOperators(t *testing.T) {
	_, ok := parseNumeric("<1000", 0, false)
	assert.False(t, ok)
	_, ok = parseNumeric(">1000", 0, false)
	assert.False(t, ok)
}

func TestParseNumericAppliesScale(t *testing.T) {
	v, ok := parseNumeric("5", 3, true)
	require.True(t, ok)
	assert.Equal(t, 5000.0, v)

	v, ok = parseNumeric("5000", -3, true)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestParseNumericScientificNotation(t *testing.T) {
	v, ok := parseNumeric("1.5e3", 0, false)
	require.True(t, ok)
	assert.Equal(t, 1500.0, v)
}

func TestParseNumericRejectsGarbage(t *testing.T) {
	_, ok := parseNumeric("not a number", 0, false)
	assert.False(t, ok)
	_, ok = parseNumeric("", 0, false)
	assert.False(t, ok)
}

func TestBuildResolutionStagesDedupAcrossStages(t *testing.T) {
	configs := []SearchConfig{
		NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance")),
	}
	stages := buildResolutionStages(configs)
	require.Len(t, stages, 3)
	assert.Equal(t, "strict_primary", stages[0].name)
	assert.Equal(t, "strict_dimensional", stages[1].name)
	assert.Equal(t, "relaxed_context", stages[2].name)

	seen := map[searchConfigKey]bool{}
	for _, stage := range stages {
		for _, c := range stage.configs {
			k := c.key()
			assert.False(t, seen[k], "config %+v should not repeat across stages", c)
			seen[k] = true
		}
	}
}

func TestAsRelaxedContextConfigsClearsStatementAndAnchor(t *testing.T) {
	primary := []SearchConfig{NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance"))}
	relaxed := asRelaxedContextConfigs(primary, nil)
	require.Len(t, relaxed, 1)
	assert.Nil(t, relaxed[0].StatementTypes)
	assert.False(t, relaxed[0].RespectAnchorDate)
}

func resolverTable(t *testing.T) *FactTable {
	t.Helper()
	records := []RawRecord{
		{"concept": "dei:DocumentPeriodEndDate", "value": "2023-12-31", "period_key": "instant_2023-12-31"},
		{
			"concept": "us-gaap:Assets", "value": "1000", "period_key": "instant_2023-12-31",
			"statement_type": "Balance Sheet", "unit": "usd",
		},
	}
	table, err := NewFactTable(records, nil)
	require.NoError(t, err)
	return table
}

func TestResolveNumericFieldStrictHit(t *testing.T) {
	table := resolverTable(t)
	configs := []SearchConfig{NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("balance"), WithUnitWhitelist("usd"))}
	field, err := ResolveNumericField(table, configs, "Total Assets", nil)
	require.NoError(t, err)
	v, ok := field.Get()
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)
	assert.Equal(t, ProvenanceXBRL, field.Provenance.Kind())
}

func TestResolveNumericFieldFallsThroughToRelaxedStage(t *testing.T) {
	table := resolverTable(t)
	configs := []SearchConfig{NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("cash"), WithUnitWhitelist("usd"))}
	field, err := ResolveNumericField(table, configs, "Total Assets", nil)
	require.NoError(t, err)
	v, ok := field.Get()
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)
}

func TestResolveNumericFieldEmitsSearchRejectionDiagnostics(t *testing.T) {
	table := resolverTable(t)
	configs := []SearchConfig{NewConsolidatedSearch("us-gaap:Assets", WithStatementTypes("cash"), WithUnitWhitelist("usd"))}
	sink := NewCollectingSink()

	field, err := ResolveNumericField(table, configs, "Total Assets", sink)
	require.NoError(t, err)
	_, ok := field.Get()
	require.True(t, ok, "should still resolve via the relaxed stage")

	var rejectionEvents []Diagnostic
	for _, e := range sink.Events {
		if e.Kind == DiagSearchRejection {
			rejectionEvents = append(rejectionEvents, e)
		}
	}
	require.NotEmpty(t, rejectionEvents, "strict_primary's statement mismatch should have been reported")
	assert.Equal(t, "statement_mismatch", rejectionEvents[0].Fields["reason"])
	assert.Equal(t, "Total Assets", rejectionEvents[0].Fields["field_name"])
}

func TestResolveNumericFieldMissingWhenNoMatch(t *testing.T) {
	table := resolverTable(t)
	configs := []SearchConfig{NewConsolidatedSearch("us-gaap:NoSuchConcept")}
	field, err := ResolveNumericField(table, configs, "Nonexistent", nil)
	require.NoError(t, err)
	_, ok := field.Get()
	assert.False(t, ok)
	assert.Equal(t, ProvenanceAssumed, field.Provenance.Kind())
}

func TestResolveStringFieldSkipsEmptyValues(t *testing.T) {
	records := []RawRecord{
		{"concept": "dei:EntityRegistrantName", "value": "", "period_key": "instant_2023-12-31"},
		{"concept": "dei:EntityRegistrantName", "value": "Example Corp", "period_key": "duration_2023-01-01_2023-12-31"},
	}
	table, err := NewFactTable(records, nil)
	require.NoError(t, err)
	configs := []SearchConfig{NewConsolidatedSearch("dei:EntityRegistrantName")}
	field, err := ResolveStringField(table, configs, "Company Name", nil)
	require.NoError(t, err)
	v, ok := field.Get()
	require.True(t, ok)
	assert.Equal(t, "Example Corp", v)
}

func TestChooseBestCandidateTieBreakPrefersEarlierConfig(t *testing.T) {
	candidates := []parsedCandidate[float64]{
		{configIndex: 1, ranked: RankedResult{Result: SearchResult{Concept: "us-gaap:B"}, StatementMatch: true}, value: 2},
		{configIndex: 0, ranked: RankedResult{Result: SearchResult{Concept: "us-gaap:A"}, StatementMatch: true}, value: 1},
	}
	best, ok := chooseBestCandidate(candidates)
	require.True(t, ok)
	assert.Equal(t, 1.0, best.value)
}

func TestChooseBestCandidatePrefersStatementMatch(t *testing.T) {
	candidates := []parsedCandidate[float64]{
		{configIndex: 0, ranked: RankedResult{Result: SearchResult{Concept: "us-gaap:A"}, StatementMatch: false}, value: 1},
		{configIndex: 0, ranked: RankedResult{Result: SearchResult{Concept: "us-gaap:A"}, StatementMatch: true}, value: 2},
	}
	best, ok := chooseBestCandidate(candidates)
	require.True(t, ok)
	assert.Equal(t, 2.0, best.value)
}
