package fundamental

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// SearchType distinguishes a search for consolidated (no open dimensions)
// facts from one for dimensional facts.
type SearchType int

const (
	Consolidated SearchType = iota
	Dimensional
)

func (t SearchType) String() string {
	if t == Dimensional {
		return "dimensional"
	}
	return "consolidated"
}

// SearchConfig describes one search over a FactTable (§3, §4.2). Two
// SearchConfig values are interchangeable for staging/dedup purposes when
// every field below compares equal; see searchConfigKey.
type SearchConfig struct {
	ConceptRegex      string
	TypeName          SearchType
	DimensionRegex    string
	StatementTypes    []string
	PeriodType        string
	UnitWhitelist     []string
	UnitBlacklist     []string
	RespectAnchorDate bool
}

// ConfigOption mutates a SearchConfig under construction.
type ConfigOption func(*SearchConfig)

func WithStatementTypes(tokens ...string) ConfigOption {
	return func(c *SearchConfig) { c.StatementTypes = tokens }
}

func WithPeriodType(periodType string) ConfigOption {
	return func(c *SearchConfig) { c.PeriodType = periodType }
}

func WithUnitWhitelist(units ...string) ConfigOption {
	return func(c *SearchConfig) { c.UnitWhitelist = units }
}

func WithUnitBlacklist(units ...string) ConfigOption {
	return func(c *SearchConfig) { c.UnitBlacklist = units }
}

func WithDimensionRegex(re string) ConfigOption {
	return func(c *SearchConfig) { c.DimensionRegex = re }
}

func WithRespectAnchorDate(respect bool) ConfigOption {
	return func(c *SearchConfig) { c.RespectAnchorDate = respect }
}

// NewConsolidatedSearch builds a SearchConfig for SearchType Consolidated.
// respect_anchor_date defaults to true, as spec.md §3 requires.
func NewConsolidatedSearch(conceptRegex string, opts ...ConfigOption) SearchConfig {
	cfg := SearchConfig{ConceptRegex: conceptRegex, TypeName: Consolidated, RespectAnchorDate: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// NewDimensionalSearch builds a SearchConfig for SearchType Dimensional.
func NewDimensionalSearch(conceptRegex string, opts ...ConfigOption) SearchConfig {
	cfg := SearchConfig{ConceptRegex: conceptRegex, TypeName: Dimensional, RespectAnchorDate: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// searchConfigKey is the exact tuple spec.md §4.4 names for deduplicating
// configs across resolution stages: (concept_regex, type_name,
// dimension_regex, statement_types, period_type, unit_whitelist,
// unit_blacklist, respect_anchor_date).
type searchConfigKey string

func (c SearchConfig) key() searchConfigKey {
	return searchConfigKey(fmt.Sprintf("%s\x1f%s\x1f%s\x1f%s\x1f%s\x1f%s\x1f%s\x1f%v",
		c.ConceptRegex, c.TypeName, c.DimensionRegex,
		strings.Join(c.StatementTypes, ","), c.PeriodType,
		strings.Join(c.UnitWhitelist, ","), strings.Join(c.UnitBlacklist, ","),
		c.RespectAnchorDate))
}

var plainTagPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+:[A-Za-z0-9_-]+$`)

func isPlainTag(conceptRegex string) bool {
	return plainTagPattern.MatchString(conceptRegex)
}

var regexCompileCache sync.Map // string -> *regexp.Regexp

func compiledRegex(pattern string) (*regexp.Regexp, error) {
	if v, ok := regexCompileCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCompileCache.Store(pattern, re)
	return re, nil
}

// conceptMatcher compiles the regex §4.2 step 1 describes: a plain ns:Tag
// form matches case-insensitively anchored to end-of-string on the literal
// text; anything else is matched as a regex, rewriting a bare (colon-less)
// tag into ".*:X$".
func conceptMatcher(conceptRegex string) (*regexp.Regexp, error) {
	if isPlainTag(conceptRegex) {
		return compiledRegex("(?i)" + regexp.QuoteMeta(conceptRegex) + "$")
	}
	pattern := conceptRegex
	if !strings.Contains(pattern, ":") {
		pattern = ".*:" + pattern + "$"
	}
	return compiledRegex("(?i)" + pattern)
}

// SearchResult is one fact that passed every gate and filter in a search.
type SearchResult struct {
	Concept         string
	Value           string
	Label           string
	StatementType   string
	PeriodKey       string
	Unit            string
	Decimals        string
	Scale           string
	DimensionText   string
	DimensionDetail map[string]string
}

// RejectionReason enumerates why a row-level filter dropped a candidate row
// that otherwise passed the concept and dimension gates.
type RejectionReason string

const (
	RejectStatementMismatch RejectionReason = "statement_mismatch"
	RejectPeriodMismatch    RejectionReason = "period_mismatch"
	RejectUnitMismatch      RejectionReason = "unit_mismatch"
)

// Rejection records one row failing one predicate during a search. A row
// failing more than one predicate yields one Rejection per failing
// predicate, independently evaluated.
type Rejection struct {
	Reason        RejectionReason
	Concept       string
	PeriodKey     string
	StatementType string
	Unit          string
	ValuePreview  string
}

// emitRejections turns Search's returned Rejections into one
// search_rejection Diagnostic apiece, mirroring the original's
// SearchStats.log - every search logs its row-level rejections, not just
// the ones that end up mattering to a field's resolution.
func emitRejections(sink DiagnosticSink, fieldName string, rejections []Rejection) {
	for _, r := range rejections {
		emit(sink, Diagnostic{
			Kind: DiagSearchRejection, Level: "debug", Message: "row rejected by search filter",
			Fields: map[string]any{
				"field_name": fieldName, "reason": string(r.Reason), "concept": r.Concept,
				"period_key": r.PeriodKey, "statement_type": r.StatementType,
				"unit": r.Unit, "value_preview": r.ValuePreview,
			},
		})
	}
}

func valuePreview(raw string) string {
	const max = 80
	if len(raw) <= max {
		return raw
	}
	return raw[:max] + "..."
}

// normalizeUnit trims, takes the segment after the last ":", strips a
// leading "u_", and lowercases — the exact §4.2 unit normalization rule.
func normalizeUnit(raw string) string {
	u := strings.TrimSpace(raw)
	if idx := strings.LastIndex(u, ":"); idx >= 0 {
		u = u[idx+1:]
	}
	u = strings.TrimPrefix(u, "u_")
	return strings.ToLower(u)
}

func statementMatches(tokens []string, statementType string) bool {
	if len(tokens) == 0 {
		return true
	}
	lower := strings.ToLower(statementType)
	for _, tok := range tokens {
		if strings.Contains(lower, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

func periodMatches(wanted string, row FactRow) bool {
	if wanted == "" {
		return true
	}
	return strings.EqualFold(rowPeriodType(row), wanted)
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func unitMatches(cfg SearchConfig, normalizedUnit string) bool {
	if len(cfg.UnitWhitelist) > 0 && !containsFold(cfg.UnitWhitelist, normalizedUnit) {
		return false
	}
	if len(cfg.UnitBlacklist) > 0 && containsFold(cfg.UnitBlacklist, normalizedUnit) {
		return false
	}
	return true
}

// dimensionDetail extracts the display key/value pairs for a row's
// non-blank dimension values. The display key is the last underscore-
// delimited segment of the column name, matching the original's
// column.split("_")[-1] convention.
func dimensionDetail(row FactRow) map[string]string {
	detail := map[string]string{}
	for col, val := range row.Dimensions {
		if isConsolidatedDimensionValue(val) {
			continue
		}
		segs := strings.Split(col, "_")
		key := segs[len(segs)-1]
		detail[key] = val
	}
	return detail
}

func dimensionText(detail map[string]string) string {
	if len(detail) == 0 {
		return "None (Total)"
	}
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+detail[k])
	}
	return strings.Join(parts, "\n")
}

func dedupKey(concept, periodKey, unit string, detail map[string]string, rawValue string) string {
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s;", k, detail[k])
	}
	return strings.Join([]string{concept, periodKey, unit, b.String(), rawValue}, "\x1f")
}

// Search runs one SearchConfig over table, applying the matching pipeline in
// §4.2 order: concept match, anchor-date gate, dimension gate, then
// independently-evaluated row filters with per-predicate rejection
// recording. Results are ordered latest period first, unparseable last.
// Structural errors (an invalid concept or dimension regex) are returned as
// errors; an empty result set is not an error.
func Search(table *FactTable, cfg SearchConfig) ([]SearchResult, []Rejection, error) {
	matcher, err := conceptMatcher(cfg.ConceptRegex)
	if err != nil {
		return nil, nil, fmt.Errorf("fundamental: invalid concept regex %q: %w", cfg.ConceptRegex, err)
	}

	var dimMatcher *regexp.Regexp
	if cfg.TypeName == Dimensional && cfg.DimensionRegex != "" {
		dimMatcher, err = compiledRegex("(?i)" + cfg.DimensionRegex)
		if err != nil {
			return nil, nil, fmt.Errorf("fundamental: invalid dimension regex %q: %w", cfg.DimensionRegex, err)
		}
	}

	anchorDate, hasAnchor := table.AnchorDate()
	respectAnchor := cfg.RespectAnchorDate && hasAnchor

	var results []SearchResult
	var rejections []Rejection
	seen := map[string]bool{}

	for _, row := range table.Rows() {
		if !matcher.MatchString(row.Concept) {
			continue
		}

		if respectAnchor {
			if row.PeriodEnd != anchorDate && !periodKeyContainsDate(row.PeriodKey, anchorDate) {
				continue
			}
		}

		consolidated := row.IsConsolidated()
		if cfg.TypeName == Consolidated {
			if !consolidated {
				continue
			}
		} else {
			if consolidated {
				continue
			}
			if dimMatcher != nil {
				matchedAny := false
				for _, v := range row.Dimensions {
					if dimMatcher.MatchString(v) {
						matchedAny = true
						break
					}
				}
				if !matchedAny {
					continue
				}
			}
		}

		statementOK := statementMatches(cfg.StatementTypes, row.StatementType)
		periodOK := periodMatches(cfg.PeriodType, row)
		normUnit := normalizeUnit(row.Unit)
		unitOK := unitMatches(cfg, normUnit)

		preview := valuePreview(row.Value)
		if !statementOK {
			rejections = append(rejections, Rejection{
				Reason: RejectStatementMismatch, Concept: row.Concept, PeriodKey: row.PeriodKey,
				StatementType: row.StatementType, Unit: row.Unit, ValuePreview: preview,
			})
		}
		if !periodOK {
			rejections = append(rejections, Rejection{
				Reason: RejectPeriodMismatch, Concept: row.Concept, PeriodKey: row.PeriodKey,
				StatementType: row.StatementType, Unit: row.Unit, ValuePreview: preview,
			})
		}
		if !unitOK {
			rejections = append(rejections, Rejection{
				Reason: RejectUnitMismatch, Concept: row.Concept, PeriodKey: row.PeriodKey,
				StatementType: row.StatementType, Unit: row.Unit, ValuePreview: preview,
			})
		}
		if !statementOK || !periodOK || !unitOK {
			continue
		}

		detail := dimensionDetail(row)
		dk := dedupKey(row.Concept, row.PeriodKey, normUnit, detail, row.Value)
		if seen[dk] {
			continue
		}
		seen[dk] = true

		results = append(results, SearchResult{
			Concept:         row.Concept,
			Value:           row.Value,
			Label:           row.Label,
			StatementType:   row.StatementType,
			PeriodKey:       row.PeriodKey,
			Unit:            normUnit,
			Decimals:        row.Decimals,
			Scale:           row.Scale,
			DimensionText:   dimensionText(detail),
			DimensionDetail: detail,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return periodSortKey(results[i].PeriodKey).After(periodSortKey(results[j].PeriodKey))
	})

	return results, rejections, nil
}
