package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportWithFiscalYear(fy string, workingCapital, da, nopat float64, ext IndustryExtension) FinancialReport {
	base := BaseFinancialModel{
		FiscalYear:                  NewTraceableField("Fiscal Year", fy, AssumedProvenance{Description: "test"}),
		WorkingCapital:              NewTraceableField("Working Capital", workingCapital, AssumedProvenance{Description: "test"}),
		DepreciationAndAmortization: NewTraceableField("D&A", da, AssumedProvenance{Description: "test"}),
		NOPAT:                       NewTraceableField("NOPAT", nopat, AssumedProvenance{Description: "test"}),
	}
	return FinancialReport{Base: base, IndustryType: "Industrial", Extension: ext}
}

func TestSortReportsByFiscalYearDescending(t *testing.T) {
	r2021 := reportWithFiscalYear("2021", 0, 0, 0, IndustrialExtension{})
	r2023 := reportWithFiscalYear("2023", 0, 0, 0, IndustrialExtension{})
	r2022 := reportWithFiscalYear("2022", 0, 0, 0, IndustrialExtension{})

	sorted := SortReportsByFiscalYearDescending([]FinancialReport{r2021, r2023, r2022})
	require.Len(t, sorted, 3)
	fy0, _ := sorted[0].Base.FiscalYear.Get()
	fy1, _ := sorted[1].Base.FiscalYear.Get()
	fy2, _ := sorted[2].Base.FiscalYear.Get()
	assert.Equal(t, "2023", fy0)
	assert.Equal(t, "2022", fy1)
	assert.Equal(t, "2021", fy2)
}

func TestSortReportsByFiscalYearDescendingUnparseableSortsLast(t *testing.T) {
	r2023 := reportWithFiscalYear("2023", 0, 0, 0, IndustrialExtension{})
	rUnknown := reportWithFiscalYear("FY??", 0, 0, 0, IndustrialExtension{})

	sorted := SortReportsByFiscalYearDescending([]FinancialReport{rUnknown, r2023})
	fy0, _ := sorted[0].Base.FiscalYear.Get()
	fy1, _ := sorted[1].Base.FiscalYear.Get()
	assert.Equal(t, "2023", fy0)
	assert.Equal(t, "FY??", fy1)
}

func TestApplyCrossPeriodDerivativesComputesWorkingCapitalDelta(t *testing.T) {
	current := reportWithFiscalYear("2023", 500, 100, 400, IndustrialExtension{CapEx: NewTraceableField("CapEx", 150.0, AssumedProvenance{Description: "test"})})
	prior := reportWithFiscalYear("2022", 300, 80, 350, IndustrialExtension{CapEx: NewTraceableField("CapEx", 120.0, AssumedProvenance{Description: "test"})})

	out := ApplyCrossPeriodDerivatives([]FinancialReport{current, prior})
	require.Len(t, out, 2)

	delta, ok := out[0].Base.WorkingCapitalDelta.Get()
	require.True(t, ok)
	assert.Equal(t, 200.0, delta) // 500 - 300

	// (CapEx - D&A + WorkingCapitalDelta) / NOPAT = (150 - 100 + 200) / 400
	rr, ok := out[0].Base.ReinvestmentRate.Get()
	require.True(t, ok)
	assert.InDelta(t, 0.625, rr, 1e-9)

	// Earliest report has no prior to diff against.
	_, ok = out[1].Base.WorkingCapitalDelta.Get()
	assert.False(t, ok)
}

func TestApplyCrossPeriodDerivativesReinvestmentRateRestrictedToIndustrial(t *testing.T) {
	current := reportWithFiscalYear("2023", 500, 100, 400, FinancialServicesExtension{})
	prior := reportWithFiscalYear("2022", 300, 80, 350, FinancialServicesExtension{})

	out := ApplyCrossPeriodDerivatives([]FinancialReport{current, prior})
	_, ok := out[0].Base.ReinvestmentRate.Get()
	assert.False(t, ok, "reinvestment rate should stay missing for non-Industrial issuers")
}

func TestCalcReinvestmentRateMissingWhenNopatZero(t *testing.T) {
	capEx := NewTraceableField("CapEx", 100.0, AssumedProvenance{Description: "test"})
	da := NewTraceableField("D&A", 50.0, AssumedProvenance{Description: "test"})
	wcDelta := NewTraceableField("WC Delta", 10.0, AssumedProvenance{Description: "test"})
	nopat := NewTraceableField("NOPAT", 0.0, AssumedProvenance{Description: "test"})

	result := calcReinvestmentRate(capEx, da, wcDelta, nopat)
	_, ok := result.Get()
	assert.False(t, ok)
}
