package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RxDataLab/fundamental"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	extractTicker string
	extractSIC    string
	extractPretty bool
)

// extractCmd resolves one filing's fact table CSV into a FinancialReport.
var extractCmd = &cobra.Command{
	Use:   "extract <fact-table.csv>",
	Short: "Resolve a FinancialReport from a flattened XBRL fact table CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening fact table: %w", err)
		}
		defer file.Close()

		sink := fundamental.NewCollectingSink()

		table, err := fundamental.LoadFactTableCSV(file, sink)
		if err != nil {
			return fmt.Errorf("loading fact table: %w", err)
		}

		registry, err := fundamental.DefaultMappingRegistry()
		if err != nil {
			return fmt.Errorf("loading mapping registry: %w", err)
		}

		policy := resolveTotalDebtPolicy(sink)

		report, err := fundamental.BuildFinancialReport(table, extractTicker, extractSIC, registry, policy, sink)
		if err != nil {
			return fmt.Errorf("resolving financial report: %w", err)
		}

		if viper.GetBool("verbose") {
			for _, d := range sink.Events {
				log.Debug().Str("event", string(d.Kind)).Interface("fields", d.Fields).Msg(d.Message)
			}
		}

		if extractPretty {
			printReportTable(report)
			return nil
		}

		return printReportJSON(report)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractTicker, "ticker", "", "issuer ticker (required)")
	extractCmd.Flags().StringVar(&extractSIC, "sic", "", "issuer SIC code, from the company profile")
	extractCmd.Flags().BoolVar(&extractPretty, "pretty", false, "print a human-readable table instead of JSON")
	_ = extractCmd.MarkFlagRequired("ticker")

	rootCmd.AddCommand(extractCmd)
}

func resolveTotalDebtPolicy(sink fundamental.DiagnosticSink) fundamental.TotalDebtPolicy {
	if flagValue := viper.GetString("total_debt_policy"); flagValue != "" {
		policy := fundamental.TotalDebtPolicy(flagValue)
		if policy == fundamental.IncludeFinanceLeases || policy == fundamental.ExcludeFinanceLeases {
			return policy
		}
	}
	return fundamental.ResolveTotalDebtPolicyFromEnv(sink)
}

func printReportJSON(report fundamental.FinancialReport) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportToJSON(report))
}

// jsonField is the wire shape for one TraceableField: its value (null when
// missing), a human label for its provenance, and the provenance kind.
type jsonField struct {
	Value     any    `json:"value"`
	Source    string `json:"source"`
	SourceKind string `json:"source_kind"`
}

func numField(f fundamental.TraceableField[float64]) jsonField {
	v, ok := f.Get()
	var value any
	if ok {
		value = v
	}
	return jsonField{Value: value, Source: f.Provenance.Label(), SourceKind: f.Provenance.Kind().String()}
}

func strField(f fundamental.TraceableField[string]) jsonField {
	v, ok := f.Get()
	var value any
	if ok {
		value = v
	}
	return jsonField{Value: value, Source: f.Provenance.Label(), SourceKind: f.Provenance.Kind().String()}
}

func reportToJSON(report fundamental.FinancialReport) map[string]any {
	base := report.Base
	out := map[string]any{
		"industry_type": report.IndustryType,
		"ticker":        strField(base.Ticker),
		"cik":           strField(base.CIK),
		"company_name":  strField(base.CompanyName),
		"sic_code":      strField(base.SICCode),
		"fiscal_year":   strField(base.FiscalYear),
		"fiscal_period": strField(base.FiscalPeriod),

		"shares_outstanding":  numField(base.SharesOutstanding),
		"total_assets":        numField(base.TotalAssets),
		"total_liabilities":   numField(base.TotalLiabilities),
		"total_equity":        numField(base.TotalEquity),
		"cash_and_equivalents": numField(base.CashAndEquivalents),
		"current_assets":      numField(base.CurrentAssets),
		"current_liabilities": numField(base.CurrentLiabilities),
		"total_debt":          numField(base.TotalDebt),
		"preferred_stock":     numField(base.PreferredStock),
		"total_revenue":       numField(base.TotalRevenue),
		"operating_income":    numField(base.OperatingIncome),
		"income_before_tax":   numField(base.IncomeBeforeTax),
		"interest_expense":    numField(base.InterestExpense),
		"net_income":          numField(base.NetIncome),
		"income_tax_expense":  numField(base.IncomeTaxExpense),
		"operating_cash_flow": numField(base.OperatingCashFlow),
		"dividends_paid":      numField(base.DividendsPaid),
		"depreciation_and_amortization": numField(base.DepreciationAndAmortization),
		"ebitda":              numField(base.EBITDA),

		"working_capital":     numField(base.WorkingCapital),
		"effective_tax_rate":  numField(base.EffectiveTaxRate),
		"interest_cost_rate":  numField(base.InterestCostRate),
		"ebit_margin":         numField(base.EBITMargin),
		"net_margin":          numField(base.NetMargin),
		"invested_capital":    numField(base.InvestedCapital),
		"nopat":               numField(base.NOPAT),
		"roic":                numField(base.ROIC),

		"working_capital_delta": numField(base.WorkingCapitalDelta),
		"reinvestment_rate":     numField(base.ReinvestmentRate),
	}

	switch ext := report.Extension.(type) {
	case fundamental.IndustrialExtension:
		out["industrial"] = map[string]any{
			"inventory":           numField(ext.Inventory),
			"accounts_receivable": numField(ext.AccountsReceivable),
			"cogs":                numField(ext.COGS),
			"rd_expense":          numField(ext.RDExpense),
			"selling_expense":     numField(ext.SellingExpense),
			"ga_expense":          numField(ext.GAExpense),
			"sga_expense":         numField(ext.SGAExpense),
			"capex":               numField(ext.CapEx),
		}
	case fundamental.FinancialServicesExtension:
		out["financial_services"] = map[string]any{
			"loans_and_leases":             numField(ext.LoansAndLeases),
			"deposits":                     numField(ext.Deposits),
			"allowance_for_credit_losses":  numField(ext.AllowanceForCreditLosses),
			"interest_income":              numField(ext.InterestIncome),
			"interest_expense":             numField(ext.InterestExpense),
			"provision_for_loan_losses":    numField(ext.ProvisionForLoanLosses),
			"risk_weighted_assets":         numField(ext.RiskWeightedAssets),
			"tier1_capital_ratio":          numField(ext.Tier1CapitalRatio),
		}
	case fundamental.RealEstateExtension:
		out["real_estate"] = map[string]any{
			"real_estate_assets":          numField(ext.RealEstateAssets),
			"accumulated_depreciation":    numField(ext.AccumulatedDepreciation),
			"depreciation_and_amortization": numField(ext.DepreciationAndAmortization),
			"gain_on_sale":                numField(ext.GainOnSale),
			"ffo":                         numField(ext.FFO),
		}
	}

	return out
}

func printReportTable(report fundamental.FinancialReport) {
	base := report.Base
	name, _ := base.CompanyName.Get()
	ticker, _ := base.Ticker.Get()

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════")
	if name != "" {
		fmt.Printf("  %s (%s)\n", name, ticker)
	}
	fmt.Printf("  Industry: %s\n", report.IndustryType)
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Printf("%-35s %15s\n", "Metric", "Value")
	fmt.Printf("%-35s %15s\n", "─────────────────────────────────", "──────────────")

	printMetric("Total Assets", base.TotalAssets)
	printMetric("Total Liabilities", base.TotalLiabilities)
	printMetric("Total Equity", base.TotalEquity)
	printMetric("Cash & Equivalents", base.CashAndEquivalents)
	printMetric("Total Debt", base.TotalDebt)
	printMetric("Total Revenue", base.TotalRevenue)
	printMetric("Operating Income (EBIT)", base.OperatingIncome)
	printMetric("EBITDA", base.EBITDA)
	printMetric("Net Income", base.NetIncome)
	printMetric("ROIC", base.ROIC)
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Println()
}

func printMetric(label string, field fundamental.TraceableField[float64]) {
	v, ok := field.Get()
	if !ok {
		fmt.Printf("%-35s %15s\n", label, "(missing)")
		return
	}
	billions := v / 1_000_000_000
	millions := v / 1_000_000
	switch {
	case billions >= 1 || billions <= -1:
		fmt.Printf("%-35s %12.2fB\n", label, billions)
	case millions >= 1 || millions <= -1:
		fmt.Printf("%-35s %12.1fM\n", label, millions)
	default:
		fmt.Printf("%-35s %15.4f\n", label, v)
	}
}
