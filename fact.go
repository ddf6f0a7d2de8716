package fundamental

import (
	"fmt"
	"sort"
	"strings"
)

// dimensionColumnTokens are substrings that mark a column as an open XBRL
// dimension column when it does not already start with the dim_ prefix.
var dimensionColumnTokens = []string{"axis", "member", "segment", "dimension"}

// unitColumnAliases lists the header names FactTable accepts for the unit
// column, tried in order. The first one present in the input wins.
var unitColumnAliases = []string{"unit", "unit_ref", "unit_ref_id", "unit_id", "unit_key"}

// isDimensionColumn reports whether a raw column header names an open XBRL
// dimension column. This rule is expressed exactly once; every place that
// needs to tell a dimension column from a named one calls here.
func isDimensionColumn(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(lower, "dim_") {
		return true
	}
	for _, tok := range dimensionColumnTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// consolidatedBlankValues are the dimension-column values that count as
// "no dimension applied" for the purpose of the consolidated/dimensional
// split (§3). Comparison is case-insensitive after trimming.
var consolidatedBlankValues = map[string]bool{
	"":                true,
	"none":            true,
	"none (total)":    true,
	"total":           true,
}

func isConsolidatedDimensionValue(v string) bool {
	return consolidatedBlankValues[strings.ToLower(strings.TrimSpace(v))]
}

// RawRecord is one input row keyed by its original column header text.
// FactTable construction treats this as the opaque tabular contract an
// external fetcher hands the resolver: column names and meaning are fixed
// by convention (concept/value/period_key/...), everything else not
// recognized as one of those is either an open dimension column or ignored.
type RawRecord map[string]string

// FactRow is one resolved fact: the recognized named columns plus whatever
// open dimension columns were present on that row.
type FactRow struct {
	Concept       string
	Value         string
	Label         string
	StatementType string
	PeriodKey     string
	PeriodType    string
	PeriodEnd     string
	Decimals      string
	Scale         string
	Unit          string
	// Dimensions holds every dimension column present in the input, keyed
	// by its original (lowercased) header text, including blank values -
	// blankness is what makes a row consolidated, so it must not be dropped.
	Dimensions map[string]string
}

// IsConsolidated reports whether every dimension column on this row is
// blank or one of the "no dimension applied" sentinels (§3).
func (r FactRow) IsConsolidated() bool {
	for _, v := range r.Dimensions {
		if !isConsolidatedDimensionValue(v) {
			return false
		}
	}
	return true
}

// FactTable is an immutable, ordered collection of facts plus the column
// metadata computed once at construction time: the set of open dimension
// columns and the anchor date. Rows are never removed after construction;
// every search is a filter over the full row set.
type FactTable struct {
	rows       []FactRow
	dimColumns []string
	anchorDate string
	hasAnchor  bool
}

func findColumn(headerSet map[string]string, aliases ...string) (string, bool) {
	for _, alias := range aliases {
		if orig, ok := headerSet[strings.ToLower(alias)]; ok {
			return orig, true
		}
	}
	return "", false
}

// NewFactTable builds a FactTable from raw tabular records. It detects open
// dimension columns and locates the anchor date once; both are then fixed
// for the table's lifetime. Returns a structural error if the mandatory
// concept/value/period_key columns cannot be found in the input header set.
// sink may be nil; when non-nil it receives one DiagAnchorDateLocked event
// reporting whether an anchor date was found.
func NewFactTable(records []RawRecord, sink DiagnosticSink) (*FactTable, error) {
	headerSet := map[string]string{} // lowercased header -> original header
	for _, rec := range records {
		for h := range rec {
			headerSet[strings.ToLower(strings.TrimSpace(h))] = h
		}
	}

	conceptCol, ok := findColumn(headerSet, "concept")
	if !ok {
		return nil, fmt.Errorf("fundamental: fact table missing mandatory column %q", "concept")
	}
	valueCol, ok := findColumn(headerSet, "value")
	if !ok {
		return nil, fmt.Errorf("fundamental: fact table missing mandatory column %q", "value")
	}
	periodKeyCol, ok := findColumn(headerSet, "period_key")
	if !ok {
		return nil, fmt.Errorf("fundamental: fact table missing mandatory column %q", "period_key")
	}

	labelCol, _ := findColumn(headerSet, "label")
	statementCol, _ := findColumn(headerSet, "statement_type")
	periodTypeCol, _ := findColumn(headerSet, "period_type")
	periodEndCol, _ := findColumn(headerSet, "period_end")
	decimalsCol, _ := findColumn(headerSet, "decimals")
	scaleCol, _ := findColumn(headerSet, "scale")
	unitCol, _ := findColumn(headerSet, unitColumnAliases...)

	recognized := map[string]bool{
		strings.ToLower(conceptCol): true,
		strings.ToLower(valueCol):   true,
		strings.ToLower(periodKeyCol): true,
	}
	for _, c := range []string{labelCol, statementCol, periodTypeCol, periodEndCol, decimalsCol, scaleCol, unitCol} {
		if c != "" {
			recognized[strings.ToLower(c)] = true
		}
	}

	var dimColumns []string
	seenDim := map[string]bool{}
	for lower, orig := range headerSet {
		if recognized[lower] {
			continue
		}
		if isDimensionColumn(orig) && !seenDim[lower] {
			seenDim[lower] = true
			dimColumns = append(dimColumns, orig)
		}
	}
	sort.Strings(dimColumns)

	rows := make([]FactRow, 0, len(records))
	var anchorDate string
	hasAnchor := false

	for _, rec := range records {
		row := FactRow{
			Concept:       rec[conceptCol],
			Value:         rec[valueCol],
			PeriodKey:     rec[periodKeyCol],
			Dimensions:    map[string]string{},
		}
		if labelCol != "" {
			row.Label = rec[labelCol]
		}
		if statementCol != "" {
			row.StatementType = rec[statementCol]
		}
		if periodTypeCol != "" {
			row.PeriodType = rec[periodTypeCol]
		}
		if periodEndCol != "" {
			row.PeriodEnd = rec[periodEndCol]
		}
		if decimalsCol != "" {
			row.Decimals = rec[decimalsCol]
		}
		if scaleCol != "" {
			row.Scale = rec[scaleCol]
		}
		if unitCol != "" {
			row.Unit = rec[unitCol]
		}
		for _, dc := range dimColumns {
			row.Dimensions[strings.ToLower(dc)] = rec[dc]
		}

		if !hasAnchor && strings.Contains(strings.ToLower(row.Concept), "documentperiodenddate") {
			v := strings.TrimSpace(row.Value)
			if len(v) >= 10 {
				anchorDate = v[:10]
			} else {
				anchorDate = v
			}
			if anchorDate != "" {
				hasAnchor = true
			}
		}

		rows = append(rows, row)
	}

	emit(sink, Diagnostic{
		Kind: DiagAnchorDateLocked, Level: "debug", Message: "fact table anchor date locked",
		Fields: map[string]any{"anchor_date": anchorDate, "found": hasAnchor, "row_count": len(rows)},
	})

	return &FactTable{
		rows:       rows,
		dimColumns: dimColumns,
		anchorDate: anchorDate,
		hasAnchor:  hasAnchor,
	}, nil
}

// Rows returns every row in the table, in input order. Callers must not
// mutate the returned slice's FactRow.Dimensions maps.
func (t *FactTable) Rows() []FactRow { return t.rows }

// DimensionColumns returns the open dimension columns detected at
// construction time, sorted.
func (t *FactTable) DimensionColumns() []string { return t.dimColumns }

// AnchorDate returns the first ten characters of the DocumentPeriodEndDate
// fact's value and whether one was found.
func (t *FactTable) AnchorDate() (string, bool) { return t.anchorDate, t.hasAnchor }
