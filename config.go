package fundamental

import (
	"os"
	"strings"
)

// TotalDebtPolicy selects whether Total Debt combines finance lease
// liabilities into the headline figure (§4.5).
type TotalDebtPolicy string

const (
	IncludeFinanceLeases TotalDebtPolicy = "include_finance_leases"
	ExcludeFinanceLeases TotalDebtPolicy = "exclude_finance_leases"

	DefaultTotalDebtPolicy TotalDebtPolicy = IncludeFinanceLeases
	totalDebtPolicyEnvVar                  = "FUNDAMENTAL_TOTAL_DEBT_POLICY"
)

// Options groups the settings of one resolution run. Nothing in this module
// constructs or reads it: BuildFinancialReport and BuildBaseModel take the
// TotalDebtPolicy directly as a parameter, and no package-level globals are
// read at resolution time (§5).
type Options struct {
	TotalDebtPolicy TotalDebtPolicy
}

// ResolveTotalDebtPolicyFromEnv reads FUNDAMENTAL_TOTAL_DEBT_POLICY, falling
// back to DefaultTotalDebtPolicy and emitting a DiagTotalDebtPolicyInvalid
// diagnostic when the value is set but unrecognized.
func ResolveTotalDebtPolicyFromEnv(sink DiagnosticSink) TotalDebtPolicy {
	raw, set := os.LookupEnv(totalDebtPolicyEnvVar)
	if !set {
		return DefaultTotalDebtPolicy
	}
	trimmed := strings.TrimSpace(raw)
	normalized := TotalDebtPolicy(strings.ToLower(trimmed))
	if normalized == IncludeFinanceLeases || normalized == ExcludeFinanceLeases {
		return normalized
	}

	emit(sink, Diagnostic{
		Kind: DiagTotalDebtPolicyInvalid, Level: "warning",
		Message:   "invalid total debt policy; falling back to default",
		ErrorCode: "FUNDAMENTAL_TOTAL_DEBT_POLICY_INVALID",
		Fields: map[string]any{
			"env_var":         totalDebtPolicyEnvVar,
			"raw_value":       raw,
			"fallback_policy": string(DefaultTotalDebtPolicy),
		},
	})
	return DefaultTotalDebtPolicy
}
