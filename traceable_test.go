package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceableFieldGet(t *testing.T) {
	present := NewTraceableField("Revenue", 100.0, XBRLProvenance{Concept: "us-gaap:Revenues", Period: "instant_2023-12-31"})
	v, ok := present.Get()
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)
	assert.True(t, present.HasValue())
	assert.Equal(t, "100", present.ValueString())

	missing := MissingBecause[float64]("Revenue", "Not found")
	_, ok = missing.Get()
	assert.False(t, ok)
	assert.False(t, missing.HasValue())
	assert.Equal(t, "<missing>", missing.ValueString())
}

func TestTraceableFieldRenamed(t *testing.T) {
	f := NewTraceableField("Old Name", 5.0, AssumedProvenance{Description: "test"})
	r := f.Renamed("New Name")
	assert.Equal(t, "New Name", r.Name)
	assert.Equal(t, "Old Name", f.Name)
	v, ok := r.Get()
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestAnyTraceableFieldErasure(t *testing.T) {
	f := NewTraceableField("X", 1.0, XBRLProvenance{Concept: "us-gaap:X", Period: "instant_2023-01-01"})
	var any AnyTraceableField = f
	assert.Equal(t, "X", any.FieldName())
	assert.True(t, any.HasValue())
	assert.Equal(t, ProvenanceXBRL, any.ProvenanceOf().Kind())
}

func TestProvenanceLabels(t *testing.T) {
	assert.Equal(t, "us-gaap:Assets", XBRLProvenance{Concept: "us-gaap:Assets"}.Label())
	assert.Equal(t, "A + B", ComputedProvenance{Expression: "A + B"}.Label())
	assert.Equal(t, "no disclosure", AssumedProvenance{Description: "no disclosure"}.Label())

	assert.Equal(t, ProvenanceXBRL, XBRLProvenance{}.Kind())
	assert.Equal(t, ProvenanceComputed, ComputedProvenance{}.Kind())
	assert.Equal(t, ProvenanceAssumed, AssumedProvenance{}.Kind())
}
