package fundamental

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RankedResult augments a SearchResult with the ranking inputs §4.4
// describes: its position in the (already period-sorted) result list, the
// period date it sorts on, whether its statement type matched, and its
// dimension preference score.
type RankedResult struct {
	Result              SearchResult
	ResultIndex         int
	PeriodRank          time.Time
	StatementMatch      bool
	DimensionPreference int
}

// rankResults computes the ranking inputs for one search's results against
// the SearchConfig that produced them.
func rankResults(results []SearchResult, cfg SearchConfig) []RankedResult {
	ranked := make([]RankedResult, 0, len(results))
	for i, r := range results {
		dimPref := 0
		switch {
		case cfg.TypeName == Consolidated && len(r.DimensionDetail) == 0:
			dimPref = 1
		case cfg.TypeName == Dimensional:
			dimPref = len(r.DimensionDetail)
		}
		ranked = append(ranked, RankedResult{
			Result:              r,
			ResultIndex:         i,
			PeriodRank:          periodSortKey(r.PeriodKey),
			StatementMatch:      statementMatches(cfg.StatementTypes, r.StatementType),
			DimensionPreference: dimPref,
		})
	}
	return ranked
}

// parsedCandidate is one RankedResult whose raw value parsed successfully
// to T, tagged with the index of the SearchConfig (within its stage) that
// produced it.
type parsedCandidate[T any] struct {
	configIndex int
	ranked      RankedResult
	value       T
}

// candidateKey is the exact tie-break tuple from resolver.py's
// choose_best_candidate: (-config_index, statement_match,
// dimension_preference, period_rank, -result_index, concept), compared
// lexicographically with the largest tuple winning. Negating config_index
// and result_index means smaller original indices win ties - earlier
// configs and earlier-listed results are preferred (§9, confirmed
// intentional).
type candidateKey struct {
	negConfigIndex int
	statementMatch bool
	dimensionPref  int
	periodRank     time.Time
	negResultIndex int
	concept        string
}

func keyOf[T any](c parsedCandidate[T]) candidateKey {
	return candidateKey{
		negConfigIndex: -c.configIndex,
		statementMatch: c.ranked.StatementMatch,
		dimensionPref:  c.ranked.DimensionPreference,
		periodRank:     c.ranked.PeriodRank,
		negResultIndex: -c.ranked.ResultIndex,
		concept:        c.ranked.Result.Concept,
	}
}

// less reports whether k sorts before other in the tuple ordering used by
// choose_best_candidate (false < true for bools, earlier time.Time before
// later).
func (k candidateKey) less(other candidateKey) bool {
	if k.negConfigIndex != other.negConfigIndex {
		return k.negConfigIndex < other.negConfigIndex
	}
	if k.statementMatch != other.statementMatch {
		return !k.statementMatch
	}
	if k.dimensionPref != other.dimensionPref {
		return k.dimensionPref < other.dimensionPref
	}
	if !k.periodRank.Equal(other.periodRank) {
		return k.periodRank.Before(other.periodRank)
	}
	if k.negResultIndex != other.negResultIndex {
		return k.negResultIndex < other.negResultIndex
	}
	return k.concept < other.concept
}

// chooseBestCandidate returns the candidate with the greatest tie-break
// tuple, keeping the first one encountered on an exact tie.
func chooseBestCandidate[T any](candidates []parsedCandidate[T]) (parsedCandidate[T], bool) {
	if len(candidates) == 0 {
		var zero parsedCandidate[T]
		return zero, false
	}
	best := candidates[0]
	bestKey := keyOf(best)
	for _, c := range candidates[1:] {
		k := keyOf(c)
		if bestKey.less(k) {
			best = c
			bestKey = k
		}
	}
	return best, true
}

// resolutionStage is one named phase of the staged field resolver (§4.4).
type resolutionStage struct {
	name    string
	configs []SearchConfig
}

// asDimensionalConfigs coerces every config to SearchType Dimensional,
// defaulting DimensionRegex to ".*" where unset, per §4.4 stage 2.
func asDimensionalConfigs(configs []SearchConfig) []SearchConfig {
	out := make([]SearchConfig, 0, len(configs))
	for _, c := range configs {
		if c.TypeName == Dimensional {
			out = append(out, c)
			continue
		}
		d := c
		d.TypeName = Dimensional
		if d.DimensionRegex == "" {
			d.DimensionRegex = ".*"
		}
		out = append(out, d)
	}
	return out
}

// asRelaxedContextConfigs builds §4.4 stage 3 from the concatenation of the
// strict primary and strict dimensional configs: statement_types cleared
// and respect_anchor_date forced false, everything else unchanged.
func asRelaxedContextConfigs(primary, dimensional []SearchConfig) []SearchConfig {
	out := make([]SearchConfig, 0, len(primary)+len(dimensional))
	for _, c := range append(append([]SearchConfig{}, primary...), dimensional...) {
		r := c
		r.StatementTypes = nil
		r.RespectAnchorDate = false
		out = append(out, r)
	}
	return out
}

// buildResolutionStages builds the three planned stages and deduplicates
// configs using one running set shared ACROSS all three stages - a config
// key seen in an earlier stage never reappears in a later one, even if the
// later stage would otherwise produce it in a different shape. Stages left
// with zero configs after dedup are dropped entirely.
func buildResolutionStages(configs []SearchConfig) []resolutionStage {
	dimensional := asDimensionalConfigs(configs)
	relaxed := asRelaxedContextConfigs(configs, dimensional)

	planned := []resolutionStage{
		{name: "strict_primary", configs: configs},
		{name: "strict_dimensional", configs: dimensional},
		{name: "relaxed_context", configs: relaxed},
	}

	seen := map[searchConfigKey]bool{}
	var stages []resolutionStage
	for _, stage := range planned {
		var unique []SearchConfig
		for _, c := range stage.configs {
			k := c.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			unique = append(unique, c)
		}
		if len(unique) > 0 {
			stages = append(stages, resolutionStage{name: stage.name, configs: unique})
		}
	}
	return stages
}

// parseScale parses a fact's scale column; "" or an unparseable value
// yields (0, false) meaning no scale adjustment is applied.
func parseScale(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

var numericPattern = regexp.MustCompile(`^[-+]?((\d+(\.\d*)?)|(\.\d+))([eE][-+]?\d+)?$`)

// parseNumeric parses a fact's raw value exactly as §4.4 describes:
// trimming, stripping thousands separators (commas and spaces) and
// non-breaking spaces,
// rewriting a parenthesized value to its negative, rejecting comparison
// operators, validating against a signed-decimal/scientific-notation regex,
// and finally applying 10^scale if a scale was present.
func parseNumeric(raw string, scale int, hasScale bool) (float64, bool) {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, " ", "")
	if text == "" {
		return 0, false
	}
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = "-" + text[1:len(text)-1]
	}
	if strings.Contains(text, "<") || strings.Contains(text, ">") {
		return 0, false
	}
	if !numericPattern.MatchString(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if hasScale {
		v *= pow10(scale)
	}
	return v, true
}

func pow10(n int) float64 {
	result := 1.0
	if n >= 0 {
		for i := 0; i < n; i++ {
			result *= 10
		}
		return result
	}
	for i := 0; i < -n; i++ {
		result /= 10
	}
	return result
}

// ResolveNumericField runs the staged field resolver (§4.4) for a float64
// field, parsing each candidate's raw value with §4.4's numeric rules.
func ResolveNumericField(table *FactTable, configs []SearchConfig, fieldName string, sink DiagnosticSink) (TraceableField[float64], error) {
	return resolveField(table, configs, fieldName, sink, func(sr SearchResult) (float64, bool, DiagnosticKind) {
		if strings.TrimSpace(sr.Value) == "" {
			return 0, false, DiagFieldSkipEmpty
		}
		scale, hasScale := parseScale(sr.Scale)
		v, ok := parseNumeric(sr.Value, scale, hasScale)
		if !ok {
			return 0, false, DiagFieldSkipNonNumeric
		}
		return v, true, ""
	})
}

// ResolveStringField runs the staged field resolver for a string field: the
// raw value is used as-is, with only the empty-value skip applied.
func ResolveStringField(table *FactTable, configs []SearchConfig, fieldName string, sink DiagnosticSink) (TraceableField[string], error) {
	return resolveField(table, configs, fieldName, sink, func(sr SearchResult) (string, bool, DiagnosticKind) {
		if strings.TrimSpace(sr.Value) == "" {
			return "", false, DiagFieldSkipEmpty
		}
		return sr.Value, true, ""
	})
}

// resolveField implements the staged resolution pipeline shared by
// ResolveNumericField and ResolveStringField: strict primary, strict
// dimensional, relaxed context, first stage to yield any parsable candidate
// wins. parse converts a SearchResult's raw value to T, returning the skip
// diagnostic kind to emit (if any) when it cannot.
func resolveField[T any](table *FactTable, configs []SearchConfig, fieldName string, sink DiagnosticSink, parse func(SearchResult) (T, bool, DiagnosticKind)) (TraceableField[T], error) {
	stages := buildResolutionStages(configs)

	var stageNames []string
	for _, s := range stages {
		stageNames = append(stageNames, s.name)
	}

	for _, stage := range stages {
		var candidates []parsedCandidate[T]
		for configIdx, cfg := range stage.configs {
			results, rejections, err := Search(table, cfg)
			if err != nil {
				var zero TraceableField[T]
				return zero, err
			}
			emitRejections(sink, fieldName, rejections)
			if len(results) == 0 {
				emit(sink, Diagnostic{Kind: DiagFieldNoMatches, Level: "debug", Message: "no matching facts for config",
					Fields: map[string]any{"field_name": fieldName, "concept_regex": cfg.ConceptRegex, "stage": stage.name}})
				continue
			}
			for _, ranked := range rankResults(results, cfg) {
				v, ok, skipKind := parse(ranked.Result)
				if !ok {
					emit(sink, Diagnostic{Kind: skipKind, Level: "debug", Message: "skipped candidate",
						Fields: map[string]any{
							"field_name": fieldName, "concept": ranked.Result.Concept,
							"period_key": ranked.Result.PeriodKey, "statement_type": ranked.Result.StatementType,
							"stage": stage.name,
						}})
					continue
				}
				candidates = append(candidates, parsedCandidate[T]{configIndex: configIdx, ranked: ranked, value: v})
			}
		}

		if best, ok := chooseBestCandidate(candidates); ok {
			emit(sink, Diagnostic{Kind: DiagFieldHit, Level: "debug", Message: "field resolved",
				Fields: map[string]any{
					"field_name": fieldName, "concept": best.ranked.Result.Concept,
					"period_key": best.ranked.Result.PeriodKey, "value_preview": valuePreview(best.ranked.Result.Value),
					"selected_config_index": best.configIndex, "selected_result_index": best.ranked.ResultIndex,
					"resolution_stage": stage.name,
				}})
			return NewTraceableField(fieldName, best.value, XBRLProvenance{
				Concept: best.ranked.Result.Concept,
				Period:  best.ranked.Result.PeriodKey,
			}), nil
		}
	}

	tags := make([]string, 0, len(configs))
	for _, c := range configs {
		tags = append(tags, c.ConceptRegex)
	}
	desc := fmt.Sprintf("Not found in XBRL. Searched tags: %s; stages: %s",
		strings.Join(tags, ", "), strings.Join(stageNames, ", "))
	return MissingBecause[T](fieldName, desc), nil
}
