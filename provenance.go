package fundamental

// ProvenanceKind identifies which concrete Provenance variant a field carries.
type ProvenanceKind int

const (
	// ProvenanceXBRL marks a value read directly from a fact table row.
	ProvenanceXBRL ProvenanceKind = iota
	// ProvenanceComputed marks a value derived from other TraceableFields.
	ProvenanceComputed
	// ProvenanceAssumed marks a value supplied by hand (an input or a
	// default) or explains why a value could not be located or computed.
	ProvenanceAssumed
)

func (k ProvenanceKind) String() string {
	switch k {
	case ProvenanceXBRL:
		return "xbrl"
	case ProvenanceComputed:
		return "computed"
	case ProvenanceAssumed:
		return "assumed"
	default:
		return "unknown"
	}
}

// Provenance explains where a TraceableField's value came from. Exactly one
// of XBRLProvenance, ComputedProvenance, or AssumedProvenance satisfies it;
// there is no other implementation outside this package.
type Provenance interface {
	Kind() ProvenanceKind
	// Label is the short human string used when a caller needs one string to
	// describe a provenance regardless of kind (diagnostics, debt-component
	// source reporting).
	Label() string
}

// XBRLProvenance attributes a value to a single located fact.
type XBRLProvenance struct {
	Concept string
	Period  string
}

func (p XBRLProvenance) Kind() ProvenanceKind { return ProvenanceXBRL }
func (p XBRLProvenance) Label() string        { return p.Concept }

// ComputedProvenance attributes a value to an arithmetic combination of other
// TraceableFields. Inputs holds the named operands so a caller can walk the
// derivation graph; nodes are created once and never mutated, so the graph
// is a DAG by construction and needs no cycle detection.
type ComputedProvenance struct {
	OpCode     string
	Expression string
	Inputs     map[string]AnyTraceableField
}

func (p ComputedProvenance) Kind() ProvenanceKind { return ProvenanceComputed }
func (p ComputedProvenance) Label() string        { return p.Expression }

// AssumedProvenance attributes a value (present or absent) to a human-readable
// explanation rather than a located or computed fact: a manual default, or a
// description of what was searched and not found.
type AssumedProvenance struct {
	Description string
}

func (p AssumedProvenance) Kind() ProvenanceKind { return ProvenanceAssumed }
func (p AssumedProvenance) Label() string        { return p.Description }

// AnyTraceableField is the type-erased view of a TraceableField[T], used
// where ComputedProvenance needs to reference operands of possibly differing
// T without making Provenance itself generic.
type AnyTraceableField interface {
	FieldName() string
	HasValue() bool
	ValueString() string
	ProvenanceOf() Provenance
}
