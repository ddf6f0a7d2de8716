package fundamental

// BaseFinancialModel holds the fields every industry shares (§4.5), each
// traced back to the XBRL fact (or derivation) it came from.
type BaseFinancialModel struct {
	Ticker      TraceableField[string]
	CIK         TraceableField[string]
	CompanyName TraceableField[string]
	SICCode     TraceableField[string]
	FiscalYear  TraceableField[string]
	FiscalPeriod TraceableField[string]

	SharesOutstanding   TraceableField[float64]
	TotalAssets         TraceableField[float64]
	TotalLiabilities    TraceableField[float64]
	TotalEquity         TraceableField[float64]
	CashAndEquivalents  TraceableField[float64]
	CurrentAssets       TraceableField[float64]
	CurrentLiabilities  TraceableField[float64]
	TotalDebt           TraceableField[float64]
	PreferredStock      TraceableField[float64]
	TotalRevenue        TraceableField[float64]
	OperatingIncome     TraceableField[float64]
	IncomeBeforeTax     TraceableField[float64]
	InterestExpense     TraceableField[float64]
	NetIncome           TraceableField[float64]
	IncomeTaxExpense    TraceableField[float64]
	OperatingCashFlow   TraceableField[float64]
	DividendsPaid       TraceableField[float64]

	DepreciationAndAmortization TraceableField[float64]
	EBITDA                      TraceableField[float64]

	// Single-period derived metrics (§4.5), each missing-propagating.
	WorkingCapital    TraceableField[float64]
	EffectiveTaxRate  TraceableField[float64]
	InterestCostRate  TraceableField[float64]
	EBITMargin        TraceableField[float64]
	NetMargin         TraceableField[float64]
	InvestedCapital   TraceableField[float64]
	NOPAT             TraceableField[float64]
	ROIC              TraceableField[float64]

	// Cross-period derived metrics (§4.6); left Missing until a prior-period
	// report is available to pair with.
	WorkingCapitalDelta  TraceableField[float64]
	ReinvestmentRate     TraceableField[float64]
}

// IndustrialExtension carries the Industrial-specific fields factory.py
// actually constructs (8 fields) - models.py's own schema lists only 6 and
// is stale relative to the factory's construction code; SPEC_FULL.md §12
// follows the factory, not the model dataclass. See DESIGN.md.
type IndustrialExtension struct {
	Inventory           TraceableField[float64]
	AccountsReceivable  TraceableField[float64]
	COGS                TraceableField[float64]
	RDExpense           TraceableField[float64]
	SGAExpense          TraceableField[float64]
	SellingExpense      TraceableField[float64]
	GAExpense           TraceableField[float64]
	CapEx               TraceableField[float64]
}

// FinancialServicesExtension carries the Financial Services-specific fields.
type FinancialServicesExtension struct {
	LoansAndLeases           TraceableField[float64]
	Deposits                 TraceableField[float64]
	AllowanceForCreditLosses TraceableField[float64]
	InterestIncome           TraceableField[float64]
	InterestExpense          TraceableField[float64]
	ProvisionForLoanLosses   TraceableField[float64]
	RiskWeightedAssets       TraceableField[float64]
	Tier1CapitalRatio        TraceableField[float64]
}

// RealEstateExtension carries the Real Estate-specific fields, including
// GainOnSale and FFO as first-class fields: models.py omits gain_on_sale
// from its dataclass, but spec.md's text and factory.py's construction both
// include it, so it is kept here per SPEC_FULL.md.
type RealEstateExtension struct {
	RealEstateAssets          TraceableField[float64]
	AccumulatedDepreciation   TraceableField[float64]
	DepreciationAndAmortization TraceableField[float64]
	GainOnSale                TraceableField[float64]
	FFO                       TraceableField[float64]
}

// IndustryExtension is satisfied by each of the three extension types, and
// lets FinancialReport hold whichever one applies without an empty
// interface at every call site.
type IndustryExtension interface {
	industryExtension()
}

func (IndustrialExtension) industryExtension()        {}
func (FinancialServicesExtension) industryExtension() {}
func (RealEstateExtension) industryExtension()        {}

// FinancialReport is one resolved filing: the shared base model plus
// whichever industry extension its SIC code dispatched to.
type FinancialReport struct {
	Base         BaseFinancialModel
	IndustryType string
	Extension    IndustryExtension
}
