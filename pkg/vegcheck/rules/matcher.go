// Package rules implements the multi-stage ingredient matcher and the
// status/verdict determination built on top of it.
//
// Matching precedence for general tokens, short-circuiting on first hit:
// blacklist, whitelist, then the merged ingredient/code database (exact
// name or English name, alias, fuzzy). Additive codes match exactly first,
// then fuzzily. Fuzzy tiers accept the first candidate in table order whose
// similarity reaches FuzzyThreshold.
package rules

import (
	"strings"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
)

// MatchType identifies which tier produced a match.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchAlias     MatchType = "alias"
	MatchFuzzy     MatchType = "fuzzy"
	MatchBlacklist MatchType = "blacklist"
	MatchWhitelist MatchType = "whitelist"
	MatchAI        MatchType = "ai"
)

// MatchResult is the classifier output for one token or code.
type MatchResult struct {
	Input      string
	Matched    bool
	Type       MatchType
	Confidence float64
	Item       *dataset.Record
}

// Matcher resolves tokens and additive codes against a Dataset. It is
// read-only after construction and safe for concurrent use.
type Matcher struct {
	data *dataset.Dataset

	// merged general search space: ingredients first, then code records,
	// preserving table order for the fuzzy tie-break.
	merged []*dataset.Record
}

// NewMatcher builds a matcher over the given reference tables. A nil
// dataset is a programming error.
func NewMatcher(ds *dataset.Dataset) *Matcher {
	if ds == nil {
		panic("rules: nil dataset")
	}

	m := &Matcher{data: ds}
	m.merged = make([]*dataset.Record, 0, len(ds.Ingredients)+len(ds.Codes))
	for i := range ds.Ingredients {
		m.merged = append(m.merged, &ds.Ingredients[i])
	}
	for i := range ds.Codes {
		m.merged = append(m.merged, &ds.Codes[i].Record)
	}
	return m
}

// MatchECode resolves an additive code: exact case-insensitive equality
// first, else the first code in table order with similarity at or above
// the threshold.
func (m *Matcher) MatchECode(code string) (MatchResult, bool) {
	normalized := strings.ToUpper(code)

	for i := range m.data.Codes {
		if strings.ToUpper(m.data.Codes[i].Code) == normalized {
			return MatchResult{
				Input:      code,
				Matched:    true,
				Type:       MatchExact,
				Confidence: 1.0,
				Item:       &m.data.Codes[i].Record,
			}, true
		}
	}

	for i := range m.data.Codes {
		if sim := Similarity(normalized, m.data.Codes[i].Code); sim >= FuzzyThreshold {
			return MatchResult{
				Input:      code,
				Matched:    true,
				Type:       MatchFuzzy,
				Confidence: sim,
				Item:       &m.data.Codes[i].Record,
			}, true
		}
	}

	return MatchResult{}, false
}

// MatchIngredient resolves a general token against the merged search space
// (ingredients plus additive codes): exact name/English-name match, then
// alias match, then fuzzy. Each tier returns immediately if found.
func (m *Matcher) MatchIngredient(token string) (MatchResult, bool) {
	normalized := strings.ToLower(token)

	for _, rec := range m.merged {
		if strings.ToLower(rec.Name) == normalized ||
			(rec.NameEn != "" && strings.ToLower(rec.NameEn) == normalized) {
			return MatchResult{
				Input:      token,
				Matched:    true,
				Type:       MatchExact,
				Confidence: 1.0,
				Item:       rec,
			}, true
		}
	}

	for _, rec := range m.merged {
		if matchesAlias(rec, normalized) {
			return MatchResult{
				Input:      token,
				Matched:    true,
				Type:       MatchAlias,
				Confidence: 1.0,
				Item:       rec,
			}, true
		}
	}

	for _, rec := range m.merged {
		sim := Similarity(normalized, rec.Name)
		if rec.NameEn != "" {
			if enSim := Similarity(normalized, rec.NameEn); enSim > sim {
				sim = enSim
			}
		}
		if sim >= FuzzyThreshold {
			return MatchResult{
				Input:      token,
				Matched:    true,
				Type:       MatchFuzzy,
				Confidence: sim,
				Item:       rec,
			}, true
		}
	}

	return MatchResult{}, false
}

// matchFromList finds a record by exact name or alias, case-insensitively.
// Used for the blacklist and whitelist tiers.
func matchFromList(token string, list []dataset.Record) *dataset.Record {
	normalized := strings.ToLower(token)
	for i := range list {
		if strings.ToLower(list[i].Name) == normalized {
			return &list[i]
		}
		if matchesAlias(&list[i], normalized) {
			return &list[i]
		}
	}
	return nil
}

func matchesAlias(rec *dataset.Record, normalized string) bool {
	for _, alias := range rec.Aliases {
		if strings.ToLower(alias) == normalized {
			return true
		}
	}
	return false
}

// blacklistResult synthesizes an unconditional danger record for a
// blacklist hit, regardless of what the general database says.
func blacklistResult(token string, hit *dataset.Record) MatchResult {
	rec := *hit
	rec.Vegetarian = dataset.Bool(false)
	rec.Vegan = dataset.Bool(false)
	rec.Risk = dataset.RiskHigh
	rec.Source = dataset.SourceBlacklist
	return MatchResult{
		Input:      token,
		Matched:    true,
		Type:       MatchBlacklist,
		Confidence: 1.0,
		Item:       &rec,
	}
}

// whitelistResult synthesizes an unconditional safe record for a
// whitelist hit.
func whitelistResult(token string, hit *dataset.Record) MatchResult {
	rec := *hit
	rec.Vegetarian = dataset.Bool(true)
	rec.Vegan = dataset.Bool(true)
	rec.Risk = dataset.RiskLow
	rec.Source = dataset.SourceWhitelist
	return MatchResult{
		Input:      token,
		Matched:    true,
		Type:       MatchWhitelist,
		Confidence: 1.0,
		Item:       &rec,
	}
}
