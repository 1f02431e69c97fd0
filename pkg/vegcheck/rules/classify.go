package rules

import (
	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/tokenize"
)

// Status is the suitability bucket for one matched item, and doubles as
// the overall verdict type (which never takes the value unknown).
type Status string

const (
	StatusSafe    Status = "safe"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
	StatusUnknown Status = "unknown"
)

// Buckets groups match results by status. Within a bucket, entries appear
// in processing order: codes before tokens, each in extraction order.
type Buckets struct {
	Safe    []MatchResult
	Warning []MatchResult
	Danger  []MatchResult
	Unknown []MatchResult
}

// Append adds a result to the bucket named by status.
func (b *Buckets) Append(status Status, r MatchResult) {
	switch status {
	case StatusSafe:
		b.Safe = append(b.Safe, r)
	case StatusWarning:
		b.Warning = append(b.Warning, r)
	case StatusDanger:
		b.Danger = append(b.Danger, r)
	default:
		b.Unknown = append(b.Unknown, r)
	}
}

// Total counts entries across all four buckets.
func (b *Buckets) Total() int {
	return len(b.Safe) + len(b.Warning) + len(b.Danger) + len(b.Unknown)
}

// StatusOf determines the suitability bucket for a matched record:
//
//   - vegetarian explicitly false: danger
//   - vegan explicitly true with low risk: safe
//   - medium or high risk: warning
//   - anything else (missing fields, low-risk non-vegan): warning
//
// The conservative default means an item is never safe unless the
// low-risk-and-vegan condition is explicitly met. The explainer uses this
// same function, so a displayed reason never contradicts its bucket.
func StatusOf(rec *dataset.Record) Status {
	if rec == nil {
		return StatusUnknown
	}
	if rec.Vegetarian != nil && !*rec.Vegetarian {
		return StatusDanger
	}
	if rec.Vegan != nil && *rec.Vegan && rec.Risk == dataset.RiskLow {
		return StatusSafe
	}
	return StatusWarning
}

// Classify resolves every additive code and token into a bucketed result
// set. Codes are processed first (in extraction order), then tokens (in
// tokenizer output order); every input lands in exactly one bucket.
func (m *Matcher) Classify(td tokenize.TokenData) Buckets {
	var b Buckets

	for _, code := range td.ECodes {
		if res, ok := m.MatchECode(code); ok {
			b.Append(StatusOf(res.Item), res)
		} else {
			b.Append(StatusUnknown, MatchResult{Input: code})
		}
	}

	for _, token := range td.Tokens {
		if hit := matchFromList(token, m.data.Blacklist); hit != nil {
			b.Append(StatusDanger, blacklistResult(token, hit))
			continue
		}
		if hit := matchFromList(token, m.data.Whitelist); hit != nil {
			b.Append(StatusSafe, whitelistResult(token, hit))
			continue
		}
		if res, ok := m.MatchIngredient(token); ok {
			b.Append(StatusOf(res.Item), res)
			continue
		}
		b.Append(StatusUnknown, MatchResult{Input: token})
	}

	return b
}
