package fundamental

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DiagnosticKind enumerates every diagnostic event kind this module emits
// (§6, plus the supplemental kinds recovered from original_source/ per
// SPEC_FULL.md §12).
type DiagnosticKind string

const (
	DiagMappingResolved     DiagnosticKind = "mapping_resolved"
	DiagMappingMissing      DiagnosticKind = "mapping_missing"
	DiagFieldHit            DiagnosticKind = "field_hit"
	DiagFieldNoMatches      DiagnosticKind = "field_no_matches"
	DiagFieldSkipEmpty      DiagnosticKind = "field_skip_empty"
	DiagFieldSkipNonNumeric DiagnosticKind = "field_skip_non_numeric"

	DiagTotalDebtPolicyApplied          DiagnosticKind = "total_debt_policy_applied"
	DiagTotalDebtPolicyInvalid          DiagnosticKind = "total_debt_policy_invalid"
	DiagTotalDebtUnresolved             DiagnosticKind = "total_debt_unresolved"
	DiagTotalDebtRelaxedSearchStarted   DiagnosticKind = "total_debt_relaxed_search_started"
	DiagTotalDebtRelaxedSearchCompleted DiagnosticKind = "total_debt_relaxed_search_completed"
	DiagRealEstateDebtComponentsApplied DiagnosticKind = "real_estate_debt_components_applied"
	// DiagRealEstateDebtComponentsRelaxedApplied is emitted when the
	// relaxed retry (§4.5) successfully rebuilds the Real Estate debt
	// reconstruction. Present in the Python original but not enumerated
	// in spec.md's §6 diagnostics list - carried over per SPEC_FULL.md §12.
	DiagRealEstateDebtComponentsRelaxedApplied DiagnosticKind = "real_estate_debt_components_relaxed_applied"

	DiagSearchRejection DiagnosticKind = "search_rejection"

	// DiagAnchorDateLocked is supplemental: emitted once per FactTable when
	// construction locks in the anchor date (or finds none), mirroring the
	// original's anchor-date-locked event.
	DiagAnchorDateLocked DiagnosticKind = "anchor_date_locked"
)

// Diagnostic is one structured event, carrying enough fields to reconstruct
// the audit trail of a resolution without re-running it.
type Diagnostic struct {
	Kind      DiagnosticKind
	Level     string // "debug", "info", or "warning"
	Message   string
	Fields    map[string]any
	ErrorCode string
	RunID     string
}

// DiagnosticSink receives Diagnostic events as they occur. Implementations
// must be safe for the single run that constructs them; callers driving
// many Resolvers in parallel (§5) should give each run its own sink.
type DiagnosticSink interface {
	Emit(d Diagnostic)
}

// CollectingSink accumulates every Diagnostic it receives, for callers that
// want the full stream as a value rather than as log lines.
type CollectingSink struct {
	RunID   string
	Events  []Diagnostic
}

// NewCollectingSink returns a sink tagged with a fresh run ID, so diagnostics
// from concurrent resolver runs can be told apart after the fact.
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{RunID: uuid.NewString()}
}

func (s *CollectingSink) Emit(d Diagnostic) {
	d.RunID = s.RunID
	s.Events = append(s.Events, d)
}

// ZerologSink forwards every Diagnostic to a zerolog.Logger, one structured
// event per Diagnostic, matching the field-carries-the-audit-trail idiom
// the Python original's log_event helper follows.
type ZerologSink struct {
	Logger zerolog.Logger
	RunID  string
}

func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{Logger: logger, RunID: uuid.NewString()}
}

func (s *ZerologSink) Emit(d Diagnostic) {
	var evt *zerolog.Event
	switch d.Level {
	case "warning":
		evt = s.Logger.Warn()
	case "debug":
		evt = s.Logger.Debug()
	default:
		evt = s.Logger.Info()
	}
	evt = evt.Str("event", string(d.Kind)).Str("run_id", s.RunID)
	if d.ErrorCode != "" {
		evt = evt.Str("error_code", d.ErrorCode)
	}
	for k, v := range d.Fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg(d.Message)
}

// MultiSink broadcasts every Diagnostic to each of its members, letting a
// caller both collect the stream and log it.
type MultiSink []DiagnosticSink

func (m MultiSink) Emit(d Diagnostic) {
	for _, s := range m {
		s.Emit(d)
	}
}

// emit is a nil-safe helper so callers can pass a nil DiagnosticSink when
// they want no diagnostics at all.
func emit(sink DiagnosticSink, d Diagnostic) {
	if sink == nil {
		return
	}
	sink.Emit(d)
}
