package fundamental

import (
	"sort"
	"strconv"
)

// fiscalYearSortKey parses a FinancialReport's fiscal year for descending
// sort; an unparseable or missing year sorts last, mirroring the original's
// "push unknown years to the end" behavior.
func fiscalYearSortKey(report FinancialReport) (int, bool) {
	fy, ok := report.Base.FiscalYear.Get()
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(fy)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortReportsByFiscalYearDescending orders reports newest-first; reports
// with an unparseable or missing fiscal year sort after every parseable one,
// preserving their relative input order.
func SortReportsByFiscalYearDescending(reports []FinancialReport) []FinancialReport {
	sorted := make([]FinancialReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, oki := fiscalYearSortKey(sorted[i])
		yj, okj := fiscalYearSortKey(sorted[j])
		if oki && okj {
			return yi > yj
		}
		if oki != okj {
			return oki
		}
		return false
	})
	return sorted
}

// reinvestmentRateInputs is the Industrial-only operand set for reinvestment
// rate: (CapEx - D&A + WorkingCapitalDelta) / NOPAT.
type reinvestmentRateInputs struct {
	capEx TraceableField[float64]
	da    TraceableField[float64]
}

func reinvestmentRateOperands(ext IndustryExtension, da TraceableField[float64]) (reinvestmentRateInputs, bool) {
	industrial, ok := ext.(IndustrialExtension)
	if !ok {
		return reinvestmentRateInputs{}, false
	}
	return reinvestmentRateInputs{capEx: industrial.CapEx, da: da}, true
}

// calcReinvestmentRate computes (CapEx - D&A + WorkingCapitalDelta) / NOPAT,
// restricted to Industrial issuers (capex is not a defined field for the
// other two extensions); missing if any operand is missing or NOPAT is zero.
func calcReinvestmentRate(capEx, da, wcDelta, nopat TraceableField[float64]) TraceableField[float64] {
	cv, cok := capEx.Get()
	dv, dok := da.Get()
	wv, wok := wcDelta.Get()
	nv, nok := nopat.Get()
	if !cok || !dok || !wok {
		return MissingBecause[float64]("Reinvestment Rate", "Missing inputs for reinvestment rate")
	}
	if !nok || nv == 0 {
		return MissingBecause[float64]("Reinvestment Rate", "Missing inputs for reinvestment rate")
	}
	return NewTraceableField("Reinvestment Rate", (cv-dv+wv)/nv, ComputedProvenance{
		OpCode: "REINVESTMENT_RATE", Expression: "(CapEx - D&A + WorkingCapitalDelta) / NOPAT",
		Inputs: map[string]AnyTraceableField{
			capEx.Name: capEx, da.Name: da, wcDelta.Name: wcDelta, nopat.Name: nopat,
		},
	})
}

// ApplyCrossPeriodDerivatives computes §4.6's cross-period metrics over a
// fiscal-year-descending series of reports for one issuer: working capital
// delta against the prior (chronologically earlier, i.e. next-in-slice)
// period, and reinvestment rate for Industrial issuers. The earliest report
// in the series has no prior period to diff against and keeps its
// already-missing placeholders.
func ApplyCrossPeriodDerivatives(reports []FinancialReport) []FinancialReport {
	sorted := SortReportsByFiscalYearDescending(reports)
	out := make([]FinancialReport, len(sorted))
	copy(out, sorted)

	for i := 0; i < len(out)-1; i++ {
		current := out[i]
		prior := out[i+1]

		wcDelta := calcSubtract("Working Capital Delta", current.Base.WorkingCapital, prior.Base.WorkingCapital,
			"WorkingCapital - PriorWorkingCapital")
		current.Base.WorkingCapitalDelta = wcDelta

		if operands, ok := reinvestmentRateOperands(current.Extension, current.Base.DepreciationAndAmortization); ok {
			current.Base.ReinvestmentRate = calcReinvestmentRate(
				operands.capEx, operands.da, wcDelta, current.Base.NOPAT)
		} else {
			current.Base.ReinvestmentRate = MissingBecause[float64]("Reinvestment Rate", "Missing CapEx for reinvestment rate")
		}

		out[i] = current
	}

	return out
}
