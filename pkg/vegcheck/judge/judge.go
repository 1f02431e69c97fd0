// Package judge defines the optional post-classification augmentation
// hook: an external collaborator that renders verdicts on ingredients the
// reference tables did not recognize. The collaborator is best-effort; the
// deterministic classification never depends on it.
package judge

import (
	"context"
	"strings"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/rules"
)

// Confidence assigned to every accepted external judgment.
const Confidence = 0.8

// Judgment is one collaborator verdict. Vegetarian and Vegan are tri-state;
// a nil Vegetarian (or Fallback set) marks the judgment as unusable and it
// is ignored by Augment.
type Judgment struct {
	Ingredient string       `json:"ingredient"`
	Vegetarian *bool        `json:"vegetarian"`
	Vegan      *bool        `json:"vegan"`
	Risk       dataset.Risk `json:"risk"`
	Reason     string       `json:"reason"`
	Fallback   bool         `json:"_fallback,omitempty"`
}

// Judge renders verdicts for a batch of unknown ingredient names. The
// locale hints the language of Reason strings. Implementations must honor
// ctx cancellation; a late result is discarded, never merged.
type Judge interface {
	JudgeBatch(ctx context.Context, names []string, locale string) ([]Judgment, error)
}

// Cache stores judgments across requests, keyed by normalized ingredient
// name. A cache miss behaves identically to a cold start; the cache is
// never required for correctness.
type Cache interface {
	Get(ctx context.Context, name string) (Judgment, bool, error)
	Set(ctx context.Context, name string, j Judgment) error
	Close() error
}

// CacheKey normalizes an ingredient name for cache storage.
func CacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Fallback builds the unusable-judgment placeholder a collaborator returns
// when it cannot judge an ingredient.
func Fallback(name string) Judgment {
	return Judgment{
		Ingredient: name,
		Risk:       dataset.RiskUnknown,
		Reason:     "無法判斷，建議人工確認",
		Fallback:   true,
	}
}

// Usable reports whether a judgment may reclassify an item.
func (j Judgment) Usable() bool {
	return !j.Fallback && j.Vegetarian != nil
}

// StatusFor derives the bucket for an accepted judgment: danger if
// explicitly non-vegetarian; warning if non-vegan (or unknown) or the risk
// is medium or high; safe otherwise.
func StatusFor(j Judgment) rules.Status {
	if j.Vegetarian != nil && !*j.Vegetarian {
		return rules.StatusDanger
	}
	if j.Vegan == nil || !*j.Vegan || j.Risk == dataset.RiskMedium || j.Risk == dataset.RiskHigh {
		return rules.StatusWarning
	}
	return rules.StatusSafe
}

// Augment moves unknown-bucket items with a usable judgment into the
// bucket StatusFor derives, tagged as AI-sourced at fixed confidence.
// Items without a usable judgment stay unknown. Counts are conserved:
// nothing is duplicated or lost.
func Augment(b *rules.Buckets, judgments []Judgment) {
	if len(judgments) == 0 || len(b.Unknown) == 0 {
		return
	}

	byName := make(map[string]Judgment, len(judgments))
	for _, j := range judgments {
		if j.Usable() {
			byName[j.Ingredient] = j
		}
	}
	if len(byName) == 0 {
		return
	}

	remaining := b.Unknown[:0:0]
	for _, item := range b.Unknown {
		j, ok := byName[item.Input]
		if !ok {
			remaining = append(remaining, item)
			continue
		}
		b.Append(StatusFor(j), rules.MatchResult{
			Input:      item.Input,
			Matched:    true,
			Type:       rules.MatchAI,
			Confidence: Confidence,
			Item: &dataset.Record{
				Name:       item.Input,
				Vegetarian: j.Vegetarian,
				Vegan:      j.Vegan,
				Risk:       j.Risk,
				Notes:      j.Reason,
				Category:   "AI判斷",
				Source:     dataset.SourceAI,
			},
		})
	}
	b.Unknown = remaining
}
