package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectingSinkTagsEventsWithRunID(t *testing.T) {
	sink := NewCollectingSink()
	sink.Emit(Diagnostic{Kind: DiagFieldHit, Message: "first"})
	sink.Emit(Diagnostic{Kind: DiagFieldNoMatches, Message: "second"})

	require.Len(t, sink.Events, 2)
	assert.Equal(t, sink.RunID, sink.Events[0].RunID)
	assert.Equal(t, sink.RunID, sink.Events[1].RunID)
	assert.NotEmpty(t, sink.RunID)
}

func TestMultiSinkBroadcasts(t *testing.T) {
	a := NewCollectingSink()
	b := NewCollectingSink()
	multi := MultiSink{a, b}
	multi.Emit(Diagnostic{Kind: DiagFieldHit, Message: "hit"})

	require.Len(t, a.Events, 1)
	require.Len(t, b.Events, 1)
}

func TestEmitIsNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		emit(nil, Diagnostic{Kind: DiagFieldHit})
	})
}

func TestProvenanceKindStringValues(t *testing.T) {
	assert.Equal(t, ProvenanceKind(0), ProvenanceXBRL)
	assert.Equal(t, "xbrl", ProvenanceXBRL.String())
	assert.Equal(t, "computed", ProvenanceComputed.String())
	assert.Equal(t, "assumed", ProvenanceAssumed.String())
}
