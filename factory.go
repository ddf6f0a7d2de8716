package fundamental

import (
	"strconv"
	"strings"
)

var (
	bsTokens    = []string{"balance", "financial position"}
	isTokens    = []string{"income", "operation", "earning"}
	cfTokens    = []string{"cash"}
	usdUnits    = []string{"usd"}
	sharesUnits = []string{"shares"}
	ratioUnits  = []string{"pure", "number"}
)

// consolidated builds one hardcoded fallback SearchConfig, mirroring the
// factory's local C() closure: a plain concept regex plus the usual
// statement/period/unit narrowing, used only when the mapping registry has
// nothing registered for a field key.
func consolidated(regex string, statementTypes []string, periodType string, unitWhitelist []string) SearchConfig {
	var opts []ConfigOption
	if statementTypes != nil {
		opts = append(opts, WithStatementTypes(statementTypes...))
	}
	if periodType != "" {
		opts = append(opts, WithPeriodType(periodType))
	}
	if unitWhitelist != nil {
		opts = append(opts, WithUnitWhitelist(unitWhitelist...))
	}
	return NewConsolidatedSearch(regex, opts...)
}

// ResolveIndustryType maps a SIC code to the industry bucket used for
// mapping-registry overrides and extension dispatch (§4.5). REITs (SIC 6798)
// are checked before the broader Financial Services range. An empty or
// unparseable SIC code yields "General", matching industry-specific mapping
// overrides to nothing rather than silently picking a wrong industry.
func ResolveIndustryType(sicCode string) string {
	trimmed := strings.TrimSpace(sicCode)
	if trimmed == "" {
		return "General"
	}
	sic, err := strconv.Atoi(trimmed)
	if err != nil {
		return "General"
	}
	switch {
	case sic == 6798:
		return "Real Estate"
	case sic >= 6000 && sic <= 6999:
		return "Financial Services"
	default:
		return "Industrial"
	}
}

// reportBuilder threads the fact table, mapping registry, and diagnostics
// sink through base-model and extension construction, and latches the first
// structural Search error encountered so later calls become no-ops instead
// of compounding failures.
type reportBuilder struct {
	table    *FactTable
	reg      *MappingRegistry
	ticker   string
	industry string
	sink     DiagnosticSink
	err      error
}

func (b *reportBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// resolveConfigs looks up fieldKey in the mapping registry for the
// builder's (industry, ticker) context, emitting mapping_resolved or
// mapping_missing as appropriate.
func (b *reportBuilder) resolveConfigs(fieldKey string) []SearchConfig {
	resolved, ok := b.reg.Resolve(fieldKey, b.industry, b.ticker)
	if !ok {
		emit(b.sink, Diagnostic{
			Kind: DiagMappingMissing, Level: "debug", Message: "xbrl mapping missing for field",
			Fields: map[string]any{"field_key": fieldKey, "industry": b.industry, "issuer": b.ticker},
		})
		return nil
	}
	emit(b.sink, Diagnostic{
		Kind: DiagMappingResolved, Level: "debug", Message: "xbrl mapping source resolved",
		Fields: map[string]any{
			"field_key": fieldKey, "industry": b.industry, "issuer": b.ticker,
			"source": resolved.Source, "configs_count": len(resolved.Spec.Configs),
		},
	})
	return resolved.Spec.Configs
}

// withFallback returns configs if the registry produced any, else fallback -
// the Go equivalent of the factory's "R(key) or [...]" pattern.
func withFallback(configs, fallback []SearchConfig) []SearchConfig {
	if len(configs) > 0 {
		return configs
	}
	return fallback
}

func (b *reportBuilder) numeric(configs []SearchConfig, name string) TraceableField[float64] {
	if b.err != nil {
		return MissingBecause[float64](name, "skipped: earlier structural search error")
	}
	field, err := ResolveNumericField(b.table, configs, name, b.sink)
	if err != nil {
		b.fail(err)
		return MissingBecause[float64](name, "skipped: earlier structural search error")
	}
	return field
}

func (b *reportBuilder) field(fieldKey, name string, fallback []SearchConfig) TraceableField[float64] {
	return b.numeric(withFallback(b.resolveConfigs(fieldKey), fallback), name)
}

// relaxStatementFilters mirrors the total-debt-specific relax helper: it
// clears only StatementTypes, preserving RespectAnchorDate and everything
// else. This is narrower than resolver.go's asRelaxedContextConfigs (used by
// the generic staged field resolver), which also forces RespectAnchorDate
// false - the two relax mechanisms serve different retry paths and are kept
// deliberately distinct (see DESIGN.md).
func relaxStatementFilters(configs []SearchConfig) []SearchConfig {
	out := make([]SearchConfig, 0, len(configs))
	for _, c := range configs {
		r := c
		r.StatementTypes = nil
		out = append(out, r)
	}
	return out
}

func (b *reportBuilder) relaxed(configs []SearchConfig, name string) TraceableField[float64] {
	return b.numeric(relaxStatementFilters(configs), name)
}

// calcAdd implements A + B derivations: missing if either operand is missing.
func calcAdd(name, opCode string, left, right TraceableField[float64], expression string) TraceableField[float64] {
	lv, lok := left.Get()
	rv, rok := right.Get()
	if !lok || !rok {
		return MissingBecause[float64](name, "Missing inputs for "+expression)
	}
	return NewTraceableField(name, lv+rv, ComputedProvenance{
		OpCode: opCode, Expression: expression,
		Inputs: map[string]AnyTraceableField{left.Name: left, right.Name: right},
	})
}

// calcSubtract implements Working Capital-style A - B derivations: missing
// if either operand is missing.
func calcSubtract(name string, left, right TraceableField[float64], expression string) TraceableField[float64] {
	lv, lok := left.Get()
	rv, rok := right.Get()
	if !lok || !rok {
		return MissingBecause[float64](name, "Missing inputs for "+expression)
	}
	return NewTraceableField(name, lv-rv, ComputedProvenance{
		OpCode: "SUB", Expression: expression,
		Inputs: map[string]AnyTraceableField{left.Name: left, right.Name: right},
	})
}

// calcRatio implements numerator/denominator derivations, missing if either
// operand is missing or the denominator is zero.
func calcRatio(name string, numerator, denominator TraceableField[float64], expression string) TraceableField[float64] {
	nv, nok := numerator.Get()
	dv, dok := denominator.Get()
	if !nok || !dok || dv == 0 {
		return MissingBecause[float64](name, "Missing inputs for "+expression)
	}
	return NewTraceableField(name, nv/dv, ComputedProvenance{
		OpCode: "RATIO", Expression: expression,
		Inputs: map[string]AnyTraceableField{numerator.Name: numerator, denominator.Name: denominator},
	})
}

func calcInvestedCapital(totalEquity, totalDebt, cash TraceableField[float64]) TraceableField[float64] {
	ev, eok := totalEquity.Get()
	dv, dok := totalDebt.Get()
	cv, cok := cash.Get()
	if !eok || !dok || !cok {
		return MissingBecause[float64]("Invested Capital", "Missing equity, debt, or cash for invested capital")
	}
	return NewTraceableField("Invested Capital", ev+dv-cv, ComputedProvenance{
		OpCode: "INVESTED_CAPITAL", Expression: "TotalEquity + TotalDebt - Cash",
		Inputs: map[string]AnyTraceableField{
			totalEquity.Name: totalEquity, totalDebt.Name: totalDebt, cash.Name: cash,
		},
	})
}

func calcNopat(operatingIncome, effectiveTaxRate TraceableField[float64]) TraceableField[float64] {
	ov, ook := operatingIncome.Get()
	tv, tok := effectiveTaxRate.Get()
	if !ook || !tok {
		return MissingBecause[float64]("NOPAT", "Missing operating income or tax rate for NOPAT")
	}
	return NewTraceableField("NOPAT", ov*(1.0-tv), ComputedProvenance{
		OpCode: "NOPAT", Expression: "OperatingIncome * (1 - EffectiveTaxRate)",
		Inputs: map[string]AnyTraceableField{operatingIncome.Name: operatingIncome, effectiveTaxRate.Name: effectiveTaxRate},
	})
}

// sumFields adds every present field, treating missing operands as 0 - but
// if every operand is missing, the sum itself is missing rather than zero.
func sumFields(name string, fields ...TraceableField[float64]) TraceableField[float64] {
	total := 0.0
	anyPresent := false
	names := make([]string, 0, len(fields))
	inputs := map[string]AnyTraceableField{}
	for _, f := range fields {
		names = append(names, f.Name)
		inputs[f.Name] = f
		if v, ok := f.Get(); ok {
			total += v
			anyPresent = true
		}
	}
	if !anyPresent {
		return MissingBecause[float64](name, "All components missing for calculation: "+strings.Join(names, ", "))
	}
	return TraceableField[float64]{Name: name, Value: &total, Provenance: ComputedProvenance{
		OpCode: "SUM", Expression: strings.Join(names, " + "), Inputs: inputs,
	}}
}

func renamed(field TraceableField[float64], name string) TraceableField[float64] {
	return field.Renamed(name)
}

// realEstateDebtComponents reconstructs Total Debt (Combined, Excluding
// Finance Leases) for Real Estate issuers from notes payable, loans payable,
// and commercial paper components, each deduplicated by (concept, period,
// value) so the same underlying fact counted via two fallback paths is not
// double-counted.
func realEstateDebtComponents(notesPayable, notesPayableCurrent, notesPayableNoncurrent, loansPayable, loansPayableCurrent, commercialPaper TraceableField[float64]) TraceableField[float64] {
	var noteParts []TraceableField[float64]
	if notesPayableCurrent.HasValue() {
		noteParts = append(noteParts, renamed(notesPayableCurrent, "Notes Payable (Current)"))
	}
	if notesPayableNoncurrent.HasValue() {
		noteParts = append(noteParts, renamed(notesPayableNoncurrent, "Notes Payable (Noncurrent)"))
	}

	var notesTotal TraceableField[float64]
	switch {
	case len(noteParts) == 1:
		notesTotal = noteParts[0]
	case len(noteParts) > 1:
		notesTotal = sumFields("Notes Payable", noteParts...)
	case notesPayable.HasValue():
		notesTotal = renamed(notesPayable, "Notes Payable")
	default:
		notesTotal = MissingBecause[float64]("Notes Payable", "Missing notes payable components")
	}

	var loansTotal TraceableField[float64]
	switch {
	case loansPayableCurrent.HasValue():
		loansTotal = renamed(loansPayableCurrent, "Loans Payable")
	case loansPayable.HasValue():
		loansTotal = renamed(loansPayable, "Loans Payable")
	default:
		loansTotal = MissingBecause[float64]("Loans Payable", "Missing loans payable components")
	}

	cpTotal := renamed(commercialPaper, "Commercial Paper")

	candidates := []TraceableField[float64]{notesTotal, loansTotal, cpTotal}
	type seenKey struct {
		concept string
		period  string
		value   float64
	}
	seen := map[seenKey]bool{}
	var unique []TraceableField[float64]
	for _, f := range candidates {
		v, ok := f.Get()
		if !ok {
			continue
		}
		var concept, period string
		if x, ok := f.Provenance.(XBRLProvenance); ok {
			concept, period = x.Concept, x.Period
		}
		k := seenKey{concept, period, v}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, f)
	}

	switch len(unique) {
	case 0:
		return MissingBecause[float64]("Total Debt (Combined, Excluding Finance Leases)", "Missing real-estate debt components (notes/loans/commercial paper)")
	case 1:
		return renamed(unique[0], "Total Debt (Combined, Excluding Finance Leases)")
	default:
		return sumFields("Total Debt (Combined, Excluding Finance Leases)", unique...)
	}
}

// totalDebtComponents is the full set of inputs the total-debt policy
// engine combines into one headline Total Debt figure.
type totalDebtComponents struct {
	debtCombinedExLeases  TraceableField[float64]
	debtShort             TraceableField[float64]
	debtLong              TraceableField[float64]
	debtCombinedWithLeases TraceableField[float64]
	financeLeaseCombined  TraceableField[float64]
	financeLeaseCurrent   TraceableField[float64]
	financeLeaseNoncurrent TraceableField[float64]
}

// buildTotalDebtWithPolicy applies the configured TotalDebtPolicy over the
// resolved debt components (§4.5): include_finance_leases prefers a single
// combined-with-leases concept, then a sum of debt-excluding-leases plus
// finance-lease-total, then whichever of those two is present alone;
// exclude_finance_leases only ever uses debt-excluding-leases.
func buildTotalDebtWithPolicy(c totalDebtComponents, policy TotalDebtPolicy) (TraceableField[float64], map[string]TraceableField[float64], string) {
	debtExLeases := c.debtCombinedExLeases
	if debtExLeases.HasValue() {
		debtExLeases = renamed(debtExLeases, "Debt (Excluding Finance Leases)")
	} else {
		debtExLeases = sumFields("Debt (Excluding Finance Leases)", c.debtShort, c.debtLong)
	}

	financeLeaseTotal := c.financeLeaseCombined
	if financeLeaseTotal.HasValue() {
		financeLeaseTotal = renamed(financeLeaseTotal, "Finance Lease Liabilities")
	} else {
		financeLeaseTotal = sumFields("Finance Lease Liabilities", c.financeLeaseCurrent, c.financeLeaseNoncurrent)
	}

	debtWithLeases := renamed(c.debtCombinedWithLeases, "Debt (Including Finance Leases)")

	var totalDebt TraceableField[float64]
	var source string

	if policy == IncludeFinanceLeases {
		switch {
		case debtWithLeases.HasValue():
			totalDebt = renamed(debtWithLeases, "Total Debt")
			source = "combined_debt_including_finance_leases"
		case debtExLeases.HasValue() && financeLeaseTotal.HasValue():
			totalDebt = sumFields("Total Debt", debtExLeases, financeLeaseTotal)
			source = "debt_excluding_finance_leases_plus_finance_lease"
		case debtExLeases.HasValue():
			totalDebt = renamed(debtExLeases, "Total Debt")
			source = "debt_excluding_finance_leases_only"
		case financeLeaseTotal.HasValue():
			totalDebt = renamed(financeLeaseTotal, "Total Debt")
			source = "finance_lease_only"
		default:
			totalDebt = MissingBecause[float64]("Total Debt", "Missing debt and finance lease liabilities after policy resolution")
			source = "missing"
		}
	} else {
		if debtExLeases.HasValue() {
			totalDebt = renamed(debtExLeases, "Total Debt")
			source = "debt_excluding_finance_leases"
		} else {
			totalDebt = MissingBecause[float64]("Total Debt", "Missing debt (excluding finance leases) after policy resolution")
			source = "missing"
		}
	}

	components := map[string]TraceableField[float64]{
		"debt_combined_excluding_finance_leases": c.debtCombinedExLeases,
		"debt_short":                             c.debtShort,
		"debt_long":                               c.debtLong,
		"debt_excluding_finance_leases":          debtExLeases,
		"debt_combined_including_finance_leases": debtWithLeases,
		"finance_lease_combined":                 c.financeLeaseCombined,
		"finance_lease_current":                  c.financeLeaseCurrent,
		"finance_lease_noncurrent":               c.financeLeaseNoncurrent,
		"finance_lease_total":                    financeLeaseTotal,
	}
	return totalDebt, components, source
}

func (b *reportBuilder) logTotalDebtDiagnostics(policy TotalDebtPolicy, source string, totalDebt TraceableField[float64], components map[string]TraceableField[float64]) {
	values := map[string]any{}
	sources := map[string]any{}
	for k, f := range components {
		if v, ok := f.Get(); ok {
			values[k] = v
		} else {
			values[k] = nil
		}
		sources[k] = f.Provenance.Label()
	}
	emit(b.sink, Diagnostic{
		Kind: DiagTotalDebtPolicyApplied, Level: "info", Message: "total debt policy resolved",
		Fields: map[string]any{
			"policy": string(policy), "resolution_source": source,
			"total_debt": totalDebt.ValueString(), "total_debt_source": totalDebt.Provenance.Label(),
			"component_values": values, "component_sources": sources,
		},
	})
	if !totalDebt.HasValue() {
		emit(b.sink, Diagnostic{
			Kind: DiagTotalDebtUnresolved, Level: "warning", Message: "total debt remains missing after policy resolution",
			ErrorCode: "FUNDAMENTAL_TOTAL_DEBT_UNRESOLVED",
			Fields:    map[string]any{"policy": string(policy), "resolution_source": source, "component_values": values},
		})
	}
}

// resolveTotalDebt runs the full total-debt extraction pipeline: resolve
// every component (with Real Estate reconstruction when applicable), apply
// the policy, and - only if the result is still missing - retry every
// component with statement_types cleared before giving up.
func (b *reportBuilder) resolveTotalDebt(policy TotalDebtPolicy) TraceableField[float64] {
	debtCombinedConfigs := withFallback(b.resolveConfigs("total_debt_combined"), []SearchConfig{
		consolidated("us-gaap:DebtLongTermAndShortTermCombinedAmount", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:Debt", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:LongTermDebtAndNotesPayable", bsTokens, "instant", usdUnits),
	})
	debtCombinedWithLeasesConfigs := withFallback(b.resolveConfigs("total_debt_including_finance_leases_combined"), []SearchConfig{
		consolidated("us-gaap:LongTermDebtAndCapitalLeaseObligations", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:LongTermDebtAndCapitalLeaseObligationsIncludingCurrentMaturities", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:LongTermDebtAndFinanceLeaseLiabilities", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:DebtAndFinanceLeaseLiabilities", bsTokens, "instant", usdUnits),
	})
	debtShortConfigs := withFallback(b.resolveConfigs("debt_short"), []SearchConfig{
		consolidated("us-gaap:ShortTermBorrowings", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:DebtCurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:LongTermDebtCurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:NotesPayableCurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CommercialPaper", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:ShortTermBankLoansAndNotesPayable", bsTokens, "instant", usdUnits),
	})
	debtLongConfigs := withFallback(b.resolveConfigs("debt_long"), []SearchConfig{
		consolidated("us-gaap:LongTermDebtNoncurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:LongTermDebt", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:LongTermDebtAndNotesPayable", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:NotesPayableNoncurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:NotesPayable", bsTokens, "instant", usdUnits),
	})
	notesPayableConfigs := withFallback(b.resolveConfigs("notes_payable"), []SearchConfig{
		consolidated("us-gaap:NotesPayable", bsTokens, "instant", usdUnits),
	})
	notesPayableCurrentConfigs := withFallback(b.resolveConfigs("notes_payable_current"), []SearchConfig{
		consolidated("us-gaap:NotesPayableCurrent", bsTokens, "instant", usdUnits),
	})
	notesPayableNoncurrentConfigs := withFallback(b.resolveConfigs("notes_payable_noncurrent"), []SearchConfig{
		consolidated("us-gaap:NotesPayableNoncurrent", bsTokens, "instant", usdUnits),
	})
	loansPayableConfigs := withFallback(b.resolveConfigs("loans_payable"), []SearchConfig{
		consolidated("us-gaap:LoansPayable", bsTokens, "instant", usdUnits),
	})
	loansPayableCurrentConfigs := withFallback(b.resolveConfigs("loans_payable_current"), []SearchConfig{
		consolidated("us-gaap:LoansPayableCurrent", bsTokens, "instant", usdUnits),
	})
	commercialPaperConfigs := withFallback(b.resolveConfigs("commercial_paper"), []SearchConfig{
		consolidated("us-gaap:CommercialPaper", bsTokens, "instant", usdUnits),
	})
	financeLeaseCombinedConfigs := withFallback(b.resolveConfigs("finance_lease_liabilities_combined"), []SearchConfig{
		consolidated("us-gaap:FinanceLeaseLiability", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CapitalLeaseObligations", bsTokens, "instant", usdUnits),
	})
	financeLeaseCurrentConfigs := withFallback(b.resolveConfigs("finance_lease_liabilities_current"), []SearchConfig{
		consolidated("us-gaap:FinanceLeaseLiabilityCurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CapitalLeaseObligationsCurrent", bsTokens, "instant", usdUnits),
	})
	financeLeaseNoncurrentConfigs := withFallback(b.resolveConfigs("finance_lease_liabilities_noncurrent"), []SearchConfig{
		consolidated("us-gaap:FinanceLeaseLiabilityNoncurrent", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CapitalLeaseObligationsNoncurrent", bsTokens, "instant", usdUnits),
	})

	tfDebtCombined := b.numeric(debtCombinedConfigs, "Total Debt (Combined, Excluding Finance Leases)")
	tfDebtCombinedWithLeases := b.numeric(debtCombinedWithLeasesConfigs, "Total Debt (Combined, Including Finance Leases)")
	tfDebtShort := b.numeric(debtShortConfigs, "Short-Term Debt")
	tfDebtLong := b.numeric(debtLongConfigs, "Long-Term Debt")

	if b.industry == "Real Estate" {
		tfNotesPayable := b.numeric(notesPayableConfigs, "Notes Payable")
		tfNotesPayableCurrent := b.numeric(notesPayableCurrentConfigs, "Notes Payable (Current)")
		tfNotesPayableNoncurrent := b.numeric(notesPayableNoncurrentConfigs, "Notes Payable (Noncurrent)")
		tfLoansPayable := b.numeric(loansPayableConfigs, "Loans Payable")
		tfLoansPayableCurrent := b.numeric(loansPayableCurrentConfigs, "Loans Payable (Current)")
		tfCommercialPaper := b.numeric(commercialPaperConfigs, "Commercial Paper")

		reconstructed := realEstateDebtComponents(tfNotesPayable, tfNotesPayableCurrent, tfNotesPayableNoncurrent,
			tfLoansPayable, tfLoansPayableCurrent, tfCommercialPaper)
		if reconstructed.HasValue() {
			tfDebtCombined = reconstructed
			emit(b.sink, Diagnostic{
				Kind: DiagRealEstateDebtComponentsApplied, Level: "info", Message: "applied real-estate debt component aggregation",
				Fields: map[string]any{"ticker": b.ticker, "total_debt_combined_ex_leases": reconstructed.ValueString()},
			})
		}
	}

	tfFinanceLeaseCombined := b.numeric(financeLeaseCombinedConfigs, "Finance Lease Liabilities (Combined)")
	tfFinanceLeaseCurrent := b.numeric(financeLeaseCurrentConfigs, "Finance Lease Liabilities (Current)")
	tfFinanceLeaseNoncurrent := b.numeric(financeLeaseNoncurrentConfigs, "Finance Lease Liabilities (Noncurrent)")

	totalDebt, components, source := buildTotalDebtWithPolicy(totalDebtComponents{
		debtCombinedExLeases:   tfDebtCombined,
		debtShort:              tfDebtShort,
		debtLong:               tfDebtLong,
		debtCombinedWithLeases: tfDebtCombinedWithLeases,
		financeLeaseCombined:   tfFinanceLeaseCombined,
		financeLeaseCurrent:    tfFinanceLeaseCurrent,
		financeLeaseNoncurrent: tfFinanceLeaseNoncurrent,
	}, policy)

	if !totalDebt.HasValue() {
		emit(b.sink, Diagnostic{
			Kind: DiagTotalDebtRelaxedSearchStarted, Level: "warning",
			Message: "retrying total debt extraction without statement_type filter",
			Fields:  map[string]any{"policy": string(policy)},
		})

		tfDebtCombinedRelaxed := b.relaxed(debtCombinedConfigs, "Total Debt (Combined, Excluding Finance Leases, Relaxed)")
		tfDebtCombinedWithLeasesRelaxed := b.relaxed(debtCombinedWithLeasesConfigs, "Total Debt (Combined, Including Finance Leases, Relaxed)")
		tfDebtShortRelaxed := b.relaxed(debtShortConfigs, "Short-Term Debt (Relaxed)")
		tfDebtLongRelaxed := b.relaxed(debtLongConfigs, "Long-Term Debt (Relaxed)")
		tfFinanceLeaseCombinedRelaxed := b.relaxed(financeLeaseCombinedConfigs, "Finance Lease Liabilities (Combined, Relaxed)")
		tfFinanceLeaseCurrentRelaxed := b.relaxed(financeLeaseCurrentConfigs, "Finance Lease Liabilities (Current, Relaxed)")
		tfFinanceLeaseNoncurrentRelaxed := b.relaxed(financeLeaseNoncurrentConfigs, "Finance Lease Liabilities (Noncurrent, Relaxed)")

		if b.industry == "Real Estate" {
			tfNotesPayableRelaxed := b.relaxed(notesPayableConfigs, "Notes Payable (Relaxed)")
			tfNotesPayableCurrentRelaxed := b.relaxed(notesPayableCurrentConfigs, "Notes Payable (Current, Relaxed)")
			tfNotesPayableNoncurrentRelaxed := b.relaxed(notesPayableNoncurrentConfigs, "Notes Payable (Noncurrent, Relaxed)")
			tfLoansPayableRelaxed := b.relaxed(loansPayableConfigs, "Loans Payable (Relaxed)")
			tfLoansPayableCurrentRelaxed := b.relaxed(loansPayableCurrentConfigs, "Loans Payable (Current, Relaxed)")
			tfCommercialPaperRelaxed := b.relaxed(commercialPaperConfigs, "Commercial Paper (Relaxed)")

			reconstructedRelaxed := realEstateDebtComponents(tfNotesPayableRelaxed, tfNotesPayableCurrentRelaxed, tfNotesPayableNoncurrentRelaxed,
				tfLoansPayableRelaxed, tfLoansPayableCurrentRelaxed, tfCommercialPaperRelaxed)
			if reconstructedRelaxed.HasValue() {
				tfDebtCombinedRelaxed = reconstructedRelaxed
				emit(b.sink, Diagnostic{
					Kind: DiagRealEstateDebtComponentsRelaxedApplied, Level: "info",
					Message: "applied relaxed real-estate debt component aggregation",
					Fields:  map[string]any{"ticker": b.ticker, "total_debt_combined_ex_leases": reconstructedRelaxed.ValueString()},
				})
			}
		}

		totalDebtRelaxed, componentsRelaxed, relaxedSource := buildTotalDebtWithPolicy(totalDebtComponents{
			debtCombinedExLeases:   tfDebtCombinedRelaxed,
			debtShort:              tfDebtShortRelaxed,
			debtLong:               tfDebtLongRelaxed,
			debtCombinedWithLeases: tfDebtCombinedWithLeasesRelaxed,
			financeLeaseCombined:   tfFinanceLeaseCombinedRelaxed,
			financeLeaseCurrent:    tfFinanceLeaseCurrentRelaxed,
			financeLeaseNoncurrent: tfFinanceLeaseNoncurrentRelaxed,
		}, policy)

		emit(b.sink, Diagnostic{
			Kind: DiagTotalDebtRelaxedSearchCompleted, Level: "warning", Message: "completed relaxed total debt extraction retry",
			Fields: map[string]any{"resolved": totalDebtRelaxed.HasValue(), "resolution_source": relaxedSource, "total_debt": totalDebtRelaxed.ValueString()},
		})

		if totalDebtRelaxed.HasValue() {
			totalDebt = totalDebtRelaxed
			components = componentsRelaxed
			source = relaxedSource + "_relaxed_statement_filter"
		}
	}

	b.logTotalDebtDiagnostics(policy, source, totalDebt, components)
	return totalDebt
}

// BuildBaseModel extracts every base-model field (§4.5) from table for the
// given ticker/SIC code, using reg for mapping lookups and applying policy
// to the total-debt resolution.
func BuildBaseModel(table *FactTable, ticker, sicCode string, reg *MappingRegistry, policy TotalDebtPolicy, sink DiagnosticSink) (BaseFinancialModel, string, error) {
	industry := ResolveIndustryType(sicCode)
	b := &reportBuilder{table: table, reg: reg, ticker: ticker, industry: industry, sink: sink}

	tfTicker := NewTraceableField("Ticker", ticker, AssumedProvenance{Description: "Input Ticker"})

	cikResults, cikRejections, err := Search(table, consolidated("dei:EntityCentralIndexKey", nil, "", nil))
	if err != nil {
		b.fail(err)
	}
	emitRejections(sink, "CIK", cikRejections)
	tfCIK := contextField("CIK", "dei:EntityCentralIndexKey", cikResults)

	nameResults, nameRejections, err := Search(table, consolidated("dei:EntityRegistrantName", nil, "", nil))
	if err != nil {
		b.fail(err)
	}
	emitRejections(sink, "Company Name", nameRejections)
	tfName := contextField("Company Name", "dei:EntityRegistrantName", nameResults)

	tfSIC := NewTraceableField("SIC Code", sicCode, AssumedProvenance{Description: "From Company Profile"})

	tfShares := b.field("shares_outstanding", "Shares Outstanding", []SearchConfig{
		consolidated("dei:EntityCommonStockSharesOutstanding", nil, "", sharesUnits),
		consolidated("us-gaap:CommonStockSharesOutstanding", nil, "", sharesUnits),
	})

	tfFY, errFY := ResolveStringField(table, []SearchConfig{consolidated("dei:DocumentFiscalYearFocus", nil, "", nil)}, "Fiscal Year", sink)
	if errFY != nil {
		b.fail(errFY)
	}
	tfFP, errFP := ResolveStringField(table, []SearchConfig{consolidated("dei:DocumentFiscalPeriodFocus", nil, "", nil)}, "Fiscal Period", sink)
	if errFP != nil {
		b.fail(errFP)
	}

	tfAssets := b.field("total_assets", "Total Assets", []SearchConfig{
		consolidated("us-gaap:Assets", bsTokens, "instant", usdUnits),
	})
	tfLiabilities := b.field("total_liabilities", "Total Liabilities", []SearchConfig{
		consolidated("us-gaap:Liabilities", bsTokens, "instant", usdUnits),
	})
	tfEquity := b.field("total_equity", "Total Equity", []SearchConfig{
		consolidated("us-gaap:StockholdersEquity", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest", bsTokens, "instant", usdUnits),
	})
	tfCash := b.field("cash_and_equivalents", "Cash & Cash Equivalents", []SearchConfig{
		consolidated("us-gaap:CashAndCashEquivalentsAtCarryingValue", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CashAndCashEquivalents", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CashAndCashEquivalentsRestrictedCashAndCashEquivalents", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:Cash", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CashAndDueFromBanks", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CashAndDueFromBanksAndInterestBearingDeposits", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:CashEquivalentsAtCarryingValue", bsTokens, "instant", usdUnits),
	})
	tfCurrentAssets := b.field("current_assets", "Current Assets", []SearchConfig{
		consolidated("us-gaap:AssetsCurrent", bsTokens, "instant", usdUnits),
	})
	tfCurrentLiabilities := b.field("current_liabilities", "Current Liabilities", []SearchConfig{
		consolidated("us-gaap:LiabilitiesCurrent", bsTokens, "instant", usdUnits),
	})

	tfTotalDebt := b.resolveTotalDebt(policy)

	tfPreferred := b.field("preferred_stock", "Preferred Stock", []SearchConfig{
		consolidated("us-gaap:PreferredStockValue", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:PreferredStockCarryingAmount", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:PreferredStock", bsTokens, "instant", usdUnits),
	})
	if !tfPreferred.HasValue() {
		tfPreferred = NewTraceableField("Preferred Stock", 0.0, AssumedProvenance{Description: "Assumed 0 due to no disclosure"})
	}

	tfRevenue := b.field("total_revenue", "Total Revenue", []SearchConfig{
		consolidated("us-gaap:Revenues", isTokens, "duration", usdUnits),
		consolidated("us-gaap:SalesRevenueNet", isTokens, "duration", usdUnits),
		consolidated("us-gaap:RevenueFromContractWithCustomerExcludingAssessedTax", isTokens, "duration", usdUnits),
	})
	tfOperatingIncome := b.field("operating_income", "Operating Income (EBIT)", []SearchConfig{
		consolidated("us-gaap:OperatingIncomeLoss", isTokens, "duration", usdUnits),
		consolidated("us-gaap:OperatingIncomeLossContinuingOperations", isTokens, "duration", usdUnits),
	})
	tfIncomeBeforeTax := b.field("income_before_tax", "Income Before Tax", []SearchConfig{
		consolidated("us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest", isTokens, "duration", usdUnits),
		consolidated("us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxes", isTokens, "duration", usdUnits),
		consolidated("us-gaap:IncomeBeforeTax", isTokens, "duration", usdUnits),
		consolidated("us-gaap:PretaxIncome", isTokens, "duration", usdUnits),
	})
	tfInterestExpense := b.field("interest_expense", "Interest Expense", []SearchConfig{
		consolidated("us-gaap:InterestExpense", isTokens, "duration", usdUnits),
		consolidated("us-gaap:InterestExpenseDebt", isTokens, "duration", usdUnits),
	})
	tfDA := b.field("depreciation_and_amortization", "Depreciation & Amortization", []SearchConfig{
		consolidated("us-gaap:DepreciationAndAmortization", isTokens, "duration", usdUnits),
		consolidated("us-gaap:DepreciationAndAmortization", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:DepreciationDepletionAndAmortization", isTokens, "duration", usdUnits),
		consolidated("us-gaap:DepreciationDepletionAndAmortization", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:DepreciationAmortizationAndAccretionNet", isTokens, "duration", usdUnits),
		consolidated("us-gaap:DepreciationAmortizationAndAccretionNet", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:Depreciation", isTokens, "duration", usdUnits),
		consolidated("us-gaap:Depreciation", cfTokens, "duration", usdUnits),
	})
	tfSBC := b.field("share_based_compensation", "Share-Based Compensation", []SearchConfig{
		consolidated("us-gaap:ShareBasedCompensation", isTokens, "duration", usdUnits),
		consolidated("us-gaap:ShareBasedCompensation", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:ShareBasedCompensationExpense", isTokens, "duration", usdUnits),
		consolidated("us-gaap:ShareBasedCompensationExpense", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:ShareBasedCompensationCost", isTokens, "duration", usdUnits),
		consolidated("us-gaap:ShareBasedCompensationCost", cfTokens, "duration", usdUnits),
	})
	tfNetIncome := b.field("net_income", "Net Income", []SearchConfig{
		consolidated("us-gaap:NetIncomeLoss", isTokens, "duration", usdUnits),
	})
	tfTax := b.field("income_tax_expense", "Income Tax Expense", []SearchConfig{
		consolidated("us-gaap:IncomeTaxExpenseBenefit", isTokens, "duration", usdUnits),
	})

	tfEBITDA := calcAdd("EBITDA", "EBITDA_CALC", tfOperatingIncome, tfDA, "OperatingIncome + DepreciationAndAmortization")

	tfOCF := b.field("operating_cash_flow", "Operating Cash Flow (OCF)", []SearchConfig{
		consolidated("us-gaap:NetCashProvidedByUsedInOperatingActivities", cfTokens, "duration", usdUnits),
	})
	tfDividends := b.field("dividends_paid", "Dividends Paid", []SearchConfig{
		consolidated("us-gaap:PaymentsOfDividends", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:PaymentsOfDividendsCommonStock", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:DividendsCommonStockCash", cfTokens, "duration", usdUnits),
		consolidated("us-gaap:DividendsPaid", cfTokens, "duration", usdUnits),
	})

	tfWorkingCapital := calcSubtract("Working Capital", tfCurrentAssets, tfCurrentLiabilities, "CurrentAssets - CurrentLiabilities")
	tfEffectiveTaxRate := calcRatio("Effective Tax Rate", tfTax, tfIncomeBeforeTax, "IncomeTaxExpense / IncomeBeforeTax")
	tfInterestCostRate := calcRatio("Interest Cost Rate", tfInterestExpense, tfTotalDebt, "InterestExpense / TotalDebt")
	tfEBITMargin := calcRatio("EBIT Margin", tfOperatingIncome, tfRevenue, "OperatingIncome / Revenue")
	tfNetMargin := calcRatio("Net Margin", tfNetIncome, tfRevenue, "NetIncome / Revenue")
	tfInvestedCapital := calcInvestedCapital(tfEquity, tfTotalDebt, tfCash)
	tfNOPAT := calcNopat(tfOperatingIncome, tfEffectiveTaxRate)
	tfROIC := calcRatio("ROIC", tfNOPAT, tfInvestedCapital, "NOPAT / InvestedCapital")

	model := BaseFinancialModel{
		Ticker: tfTicker, CIK: tfCIK, CompanyName: tfName, SICCode: tfSIC,
		FiscalYear: tfFY, FiscalPeriod: tfFP,
		SharesOutstanding: tfShares, TotalAssets: tfAssets, TotalLiabilities: tfLiabilities,
		TotalEquity: tfEquity, CashAndEquivalents: tfCash, CurrentAssets: tfCurrentAssets,
		CurrentLiabilities: tfCurrentLiabilities, TotalDebt: tfTotalDebt, PreferredStock: tfPreferred,
		TotalRevenue: tfRevenue, OperatingIncome: tfOperatingIncome, IncomeBeforeTax: tfIncomeBeforeTax,
		InterestExpense: tfInterestExpense, NetIncome: tfNetIncome, IncomeTaxExpense: tfTax,
		OperatingCashFlow: tfOCF, DividendsPaid: tfDividends,
		DepreciationAndAmortization: tfDA, EBITDA: tfEBITDA,
		WorkingCapital: tfWorkingCapital, EffectiveTaxRate: tfEffectiveTaxRate, InterestCostRate: tfInterestCostRate,
		EBITMargin: tfEBITMargin, NetMargin: tfNetMargin, InvestedCapital: tfInvestedCapital,
		NOPAT: tfNOPAT, ROIC: tfROIC,
		WorkingCapitalDelta: MissingBecause[float64]("Working Capital Delta", "Requires prior period working capital"),
		ReinvestmentRate:    MissingBecause[float64]("Reinvestment Rate", "Requires CapEx, D&A, delta WC, NOPAT"),
	}

	// depreciation_and_amortization is surfaced on the model above already;
	// share_based_compensation has no base-model field slot, so it is
	// intentionally dropped here (it feeds no downstream metric in scope).
	_ = tfSBC

	return model, industry, b.err
}

// contextField builds a context field (ticker/CIK/name) from a direct,
// unstaged search - these fields are looked up once rather than through the
// staged resolver, mirroring the factory's context-field extraction.
func contextField(name, concept string, results []SearchResult) TraceableField[string] {
	if len(results) == 0 {
		return MissingBecause[string](name, "Missing")
	}
	return NewTraceableField(name, results[0].Value, XBRLProvenance{Concept: concept, Period: results[0].PeriodKey})
}

// createIndustrialExtension extracts the Industrial-specific fields (§4.5,
// §12) using the "Industrial" registry context.
func createIndustrialExtension(table *FactTable, ticker string, reg *MappingRegistry, sink DiagnosticSink) (IndustrialExtension, error) {
	b := &reportBuilder{table: table, reg: reg, ticker: ticker, industry: "Industrial", sink: sink}

	tfInventory := b.field("inventory", "Inventory", []SearchConfig{
		consolidated("us-gaap:InventoryNet", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:InventoryGross", bsTokens, "instant", usdUnits),
	})
	tfAR := b.field("accounts_receivable", "Accounts Receivable", []SearchConfig{
		consolidated("us-gaap:AccountsReceivableNetCurrent", bsTokens, "instant", usdUnits),
	})
	tfCOGS := b.field("cogs", "Cost of Goods Sold (COGS)", []SearchConfig{
		consolidated("us-gaap:CostOfGoodsAndServicesSold", isTokens, "duration", usdUnits),
		consolidated("us-gaap:CostOfRevenue", isTokens, "duration", usdUnits),
	})
	tfRD := b.field("rd_expense", "R&D Expense", []SearchConfig{
		consolidated("us-gaap:ResearchAndDevelopmentExpense", isTokens, "duration", usdUnits),
	})
	tfSelling := b.field("selling_expense", "Selling Expense", []SearchConfig{
		consolidated("us-gaap:SellingExpense", isTokens, "duration", usdUnits),
		consolidated("us-gaap:SellingAndMarketingExpense", isTokens, "duration", usdUnits),
	})
	tfGA := b.field("ga_expense", "G&A Expense", []SearchConfig{
		consolidated("us-gaap:GeneralAndAdministrativeExpense", isTokens, "duration", usdUnits),
	})
	tfSGAAggregate := b.field("sga_expense", "SG&A Expense", []SearchConfig{
		consolidated("us-gaap:SellingGeneralAndAdministrativeExpense", isTokens, "duration", usdUnits),
	})
	tfSGA := tfSGAAggregate
	if !tfSGAAggregate.HasValue() {
		tfSGA = sumFields("SG&A Expense (Calculated)", tfSelling, tfGA)
	}
	tfCapEx := b.field("capex", "Capital Expenditures (CapEx)", []SearchConfig{
		consolidated("us-gaap:PaymentsToAcquirePropertyPlantAndEquipment", cfTokens, "duration", usdUnits),
	})

	return IndustrialExtension{
		Inventory: tfInventory, AccountsReceivable: tfAR, COGS: tfCOGS, RDExpense: tfRD,
		SGAExpense: tfSGA, SellingExpense: tfSelling, GAExpense: tfGA, CapEx: tfCapEx,
	}, b.err
}

// createFinancialServicesExtension extracts the Financial Services-specific
// fields using the "Financial Services" registry context.
func createFinancialServicesExtension(table *FactTable, ticker string, reg *MappingRegistry, sink DiagnosticSink) (FinancialServicesExtension, error) {
	b := &reportBuilder{table: table, reg: reg, ticker: ticker, industry: "Financial Services", sink: sink}

	tfLoans := b.field("loans_and_leases", "Loans and Leases", []SearchConfig{
		consolidated("us-gaap:LoansAndLeasesReceivableNetReportedAmount", bsTokens, "instant", usdUnits),
	})
	tfDeposits := b.field("deposits", "Deposits", []SearchConfig{
		consolidated("us-gaap:Deposits", bsTokens, "instant", usdUnits),
	})
	tfAllowance := b.field("allowance_for_credit_losses", "Allowance for Credit Losses", []SearchConfig{
		consolidated("us-gaap:FinancingReceivableAllowanceForCreditLosses", bsTokens, "instant", usdUnits),
		consolidated("us-gaap:AllowanceForLoanAndLeaseLosses", bsTokens, "instant", usdUnits),
	})
	tfIntIncome := b.field("interest_income", "Interest Income", []SearchConfig{
		consolidated("us-gaap:InterestIncome", isTokens, "duration", usdUnits),
	})
	tfIntExpense := b.field("interest_expense_financial", "Interest Expense", []SearchConfig{
		consolidated("us-gaap:InterestExpense", isTokens, "duration", usdUnits),
	})
	tfProvision := b.field("provision_for_loan_losses", "Provision for Loan Losses", []SearchConfig{
		consolidated("us-gaap:ProvisionForCreditLosses", isTokens, "duration", usdUnits),
		consolidated("us-gaap:ProvisionForLoanLeaseAndOtherLosses", isTokens, "duration", usdUnits),
	})
	tfRWA := b.field("risk_weighted_assets", "Risk-Weighted Assets", []SearchConfig{
		consolidated("us-gaap:RiskWeightedAssets", nil, "instant", usdUnits),
	})
	tfTier1 := b.field("tier1_capital_ratio", "Tier 1 Capital Ratio", []SearchConfig{
		consolidated("us-gaap:Tier1CapitalRatio", nil, "instant", ratioUnits),
		consolidated("us-gaap:Tier1RiskBasedCapitalRatio", nil, "instant", ratioUnits),
		consolidated("us-gaap:TierOneRiskBasedCapitalToRiskWeightedAssets", nil, "instant", ratioUnits),
	})

	return FinancialServicesExtension{
		LoansAndLeases: tfLoans, Deposits: tfDeposits, AllowanceForCreditLosses: tfAllowance,
		InterestIncome: tfIntIncome, InterestExpense: tfIntExpense, ProvisionForLoanLosses: tfProvision,
		RiskWeightedAssets: tfRWA, Tier1CapitalRatio: tfTier1,
	}, b.err
}

// createRealEstateExtension extracts the Real Estate-specific fields and
// computes FFO = NetIncome + Depreciation - GainOnSale, treating missing
// operands as zero in the sum (only the sign of NetIncome being genuinely
// absent would make FFO meaningless, which is left as-is per spec.md).
func createRealEstateExtension(table *FactTable, ticker string, reg *MappingRegistry, netIncome TraceableField[float64], sink DiagnosticSink) (RealEstateExtension, error) {
	b := &reportBuilder{table: table, reg: reg, ticker: ticker, industry: "Real Estate", sink: sink}

	tfREAssets := b.field("real_estate_assets", "Real Estate Assets (at cost)", []SearchConfig{
		consolidated("us-gaap:RealEstateInvestmentPropertyNet", bsTokens, "instant", usdUnits),
	})
	tfAccDep := b.field("accumulated_depreciation", "Accumulated Depreciation", []SearchConfig{
		consolidated("us-gaap:RealEstateInvestmentPropertyAccumulatedDepreciation", bsTokens, "instant", usdUnits),
	})
	tfDep := b.field("real_estate_dep_amort", "Depreciation & Amortization", []SearchConfig{
		consolidated("us-gaap:DepreciationAndAmortizationInRealEstate", isTokens, "duration", usdUnits),
		consolidated("us-gaap:DepreciationAndAmortization", isTokens, "duration", usdUnits),
	})
	tfGain := b.field("gain_on_sale", "Gain on Sale of Properties", []SearchConfig{
		consolidated("us-gaap:GainLossOnSaleOfRealEstateInvestmentProperty", isTokens, "duration", usdUnits),
		consolidated("us-gaap:GainLossOnSaleOfProperties", isTokens, "duration", usdUnits),
	})

	niVal, _ := netIncome.Get()
	depVal, _ := tfDep.Get()
	gainVal, _ := tfGain.Get()
	ffoVal := niVal + depVal - gainVal

	tfFFO := NewTraceableField("FFO (Funds From Operations)", ffoVal, ComputedProvenance{
		OpCode: "FFO_CALC", Expression: "NetIncome + Depreciation - GainOnSale",
		Inputs: map[string]AnyTraceableField{
			"Net Income": netIncome, "Depreciation": tfDep, "Gain on Sale": tfGain,
		},
	})

	return RealEstateExtension{
		RealEstateAssets: tfREAssets, AccumulatedDepreciation: tfAccDep,
		DepreciationAndAmortization: tfDep, GainOnSale: tfGain, FFO: tfFFO,
	}, b.err
}

// BuildFinancialReport resolves a complete FinancialReport for one filing:
// SIC-based industry dispatch, base model extraction, and the matching
// industry extension.
func BuildFinancialReport(table *FactTable, ticker, sicCode string, reg *MappingRegistry, policy TotalDebtPolicy, sink DiagnosticSink) (FinancialReport, error) {
	base, industry, err := BuildBaseModel(table, ticker, sicCode, reg, policy, sink)
	if err != nil {
		return FinancialReport{}, err
	}

	var extension IndustryExtension
	switch industry {
	case "Financial Services":
		ext, err := createFinancialServicesExtension(table, ticker, reg, sink)
		if err != nil {
			return FinancialReport{}, err
		}
		extension = ext
	case "Real Estate":
		ext, err := createRealEstateExtension(table, ticker, reg, base.NetIncome, sink)
		if err != nil {
			return FinancialReport{}, err
		}
		extension = ext
	default:
		ext, err := createIndustrialExtension(table, ticker, reg, sink)
		if err != nil {
			return FinancialReport{}, err
		}
		extension = ext
		if industry == "General" {
			industry = "Industrial"
		}
	}

	return FinancialReport{Base: base, IndustryType: industry, Extension: extension}, nil
}
