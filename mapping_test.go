package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingRegistryResolvePriority(t *testing.T) {
	reg := NewMappingRegistry()
	reg.Register("total_assets", FieldSpec{Name: "Total Assets", Configs: []SearchConfig{NewConsolidatedSearch("us-gaap:Assets")}})
	reg.RegisterIndustryOverride("Financial Services", "total_assets",
		FieldSpec{Name: "Total Assets", Configs: []SearchConfig{NewConsolidatedSearch("us-gaap:AssetsFS")}})
	reg.RegisterIssuerOverride("ACME", "total_assets",
		FieldSpec{Name: "Total Assets", Configs: []SearchConfig{NewConsolidatedSearch("us-gaap:AssetsACME")}})

	resolved, ok := reg.Resolve("total_assets", "", "")
	require.True(t, ok)
	assert.Equal(t, "default", resolved.Source)

	resolved, ok = reg.Resolve("total_assets", "Financial Services", "")
	require.True(t, ok)
	assert.Equal(t, "industry", resolved.Source)

	resolved, ok = reg.Resolve("total_assets", "Financial Services", "ACME")
	require.True(t, ok)
	assert.Equal(t, "issuer", resolved.Source)
	assert.Equal(t, "us-gaap:AssetsACME", resolved.Spec.Configs[0].ConceptRegex)
}

func TestMappingRegistryResolveMissing(t *testing.T) {
	reg := NewMappingRegistry()
	_, ok := reg.Resolve("no_such_field", "Industrial", "")
	assert.False(t, ok)
}

func TestParseMappingsFileOnEmbeddedJSON(t *testing.T) {
	mf, err := parseMappingsFile(domainMappingsJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, mf.Fields)
}

func TestDefaultMappingRegistryLoadsEmbeddedCatalog(t *testing.T) {
	reg, err := DefaultMappingRegistry()
	require.NoError(t, err)
	fields := reg.ListFields()
	assert.NotEmpty(t, fields)

	_, ok := reg.Resolve("total_assets", "Industrial", "")
	assert.True(t, ok, "total_assets should be registered in domain_mappings.json")
}

func TestJsonConfigToSearchConfigDefaultsRespectAnchorDateTrue(t *testing.T) {
	jc := jsonConfig{Concept: "us-gaap:Assets", Type: "consolidated"}
	cfg := jc.toSearchConfig()
	assert.True(t, cfg.RespectAnchorDate)
}

func TestJsonConfigToSearchConfigHonorsExplicitRespectAnchorDate(t *testing.T) {
	f := false
	jc := jsonConfig{Concept: "us-gaap:Assets", Type: "dimensional", RespectAnchorDate: &f}
	cfg := jc.toSearchConfig()
	assert.False(t, cfg.RespectAnchorDate)
	assert.Equal(t, Dimensional, cfg.TypeName)
}
