package fundamental

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTotalDebtPolicyFromEnvDefault(t *testing.T) {
	require.NoError(t, os.Unsetenv("FUNDAMENTAL_TOTAL_DEBT_POLICY"))
	policy := ResolveTotalDebtPolicyFromEnv(nil)
	assert.Equal(t, DefaultTotalDebtPolicy, policy)
}

func TestResolveTotalDebtPolicyFromEnvValid(t *testing.T) {
	t.Setenv("FUNDAMENTAL_TOTAL_DEBT_POLICY", "exclude_finance_leases")
	policy := ResolveTotalDebtPolicyFromEnv(nil)
	assert.Equal(t, ExcludeFinanceLeases, policy)
}

func TestResolveTotalDebtPolicyFromEnvInvalidFallsBackAndDiagnoses(t *testing.T) {
	t.Setenv("FUNDAMENTAL_TOTAL_DEBT_POLICY", "not_a_real_policy")
	sink := NewCollectingSink()
	policy := ResolveTotalDebtPolicyFromEnv(sink)
	assert.Equal(t, DefaultTotalDebtPolicy, policy)
	require.Len(t, sink.Events, 1)
	assert.Equal(t, DiagTotalDebtPolicyInvalid, sink.Events[0].Kind)
}
