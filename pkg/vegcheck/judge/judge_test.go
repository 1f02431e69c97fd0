package judge

import (
	"testing"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/rules"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		j    Judgment
		want rules.Status
	}{
		{
			"non-vegetarian",
			Judgment{Vegetarian: dataset.Bool(false), Vegan: dataset.Bool(false), Risk: dataset.RiskHigh},
			rules.StatusDanger,
		},
		{
			"non-vegan",
			Judgment{Vegetarian: dataset.Bool(true), Vegan: dataset.Bool(false), Risk: dataset.RiskLow},
			rules.StatusWarning,
		},
		{
			"vegan nil treated cautiously",
			Judgment{Vegetarian: dataset.Bool(true), Risk: dataset.RiskLow},
			rules.StatusWarning,
		},
		{
			"medium risk",
			Judgment{Vegetarian: dataset.Bool(true), Vegan: dataset.Bool(true), Risk: dataset.RiskMedium},
			rules.StatusWarning,
		},
		{
			"high risk",
			Judgment{Vegetarian: dataset.Bool(true), Vegan: dataset.Bool(true), Risk: dataset.RiskHigh},
			rules.StatusWarning,
		},
		{
			"vegan low risk",
			Judgment{Vegetarian: dataset.Bool(true), Vegan: dataset.Bool(true), Risk: dataset.RiskLow},
			rules.StatusSafe,
		},
	}
	for _, c := range cases {
		if got := StatusFor(c.j); got != c.want {
			t.Errorf("%s: StatusFor = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestAugmentMovesJudgedItems(t *testing.T) {
	b := rules.Buckets{
		Safe: []rules.MatchResult{{Input: "水", Matched: true}},
		Unknown: []rules.MatchResult{
			{Input: "肉鬆"},
			{Input: "玉米筍"},
			{Input: "神秘成分"},
		},
	}

	Augment(&b, []Judgment{
		{Ingredient: "肉鬆", Vegetarian: dataset.Bool(false), Vegan: dataset.Bool(false), Risk: dataset.RiskHigh, Reason: "含肉類，非素食"},
		{Ingredient: "玉米筍", Vegetarian: dataset.Bool(true), Vegan: dataset.Bool(true), Risk: dataset.RiskLow, Reason: "植物來源"},
	})

	if len(b.Danger) != 1 || b.Danger[0].Input != "肉鬆" {
		t.Errorf("danger = %+v", b.Danger)
	}
	if len(b.Safe) != 2 {
		t.Errorf("safe = %+v", b.Safe)
	}
	if len(b.Unknown) != 1 || b.Unknown[0].Input != "神秘成分" {
		t.Errorf("unknown = %+v", b.Unknown)
	}

	moved := b.Danger[0]
	if moved.Type != rules.MatchAI || moved.Confidence != Confidence {
		t.Errorf("moved = %+v", moved)
	}
	if moved.Item == nil || moved.Item.Source != dataset.SourceAI {
		t.Errorf("moved item = %+v", moved.Item)
	}
	if moved.Item.Notes != "含肉類，非素食" {
		t.Errorf("judgment reason should land in notes, got %q", moved.Item.Notes)
	}
}

func TestAugmentConservesCounts(t *testing.T) {
	b := rules.Buckets{
		Unknown: []rules.MatchResult{{Input: "a"}, {Input: "b"}, {Input: "c"}},
	}
	before := b.Total()

	Augment(&b, []Judgment{
		{Ingredient: "a", Vegetarian: dataset.Bool(true), Vegan: dataset.Bool(true), Risk: dataset.RiskLow},
		{Ingredient: "b", Vegetarian: dataset.Bool(false), Risk: dataset.RiskHigh},
	})

	if b.Total() != before {
		t.Errorf("total changed: %d -> %d", before, b.Total())
	}
}

func TestAugmentIgnoresUnusableJudgments(t *testing.T) {
	b := rules.Buckets{Unknown: []rules.MatchResult{{Input: "a"}, {Input: "b"}}}

	Augment(&b, []Judgment{
		Fallback("a"),
		{Ingredient: "b", Vegan: dataset.Bool(true), Risk: dataset.RiskLow}, // nil vegetarian
	})

	if len(b.Unknown) != 2 {
		t.Errorf("unknown = %+v, want both retained", b.Unknown)
	}
	if len(b.Safe)+len(b.Warning)+len(b.Danger) != 0 {
		t.Error("unusable judgments must not reclassify anything")
	}
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("  Gelatin "); got != "gelatin" {
		t.Errorf("CacheKey = %q", got)
	}
}

func TestFallbackUnusable(t *testing.T) {
	f := Fallback("x")
	if f.Usable() {
		t.Error("fallback judgment must be unusable")
	}
	if f.Risk != dataset.RiskUnknown {
		t.Errorf("risk = %q", f.Risk)
	}
}
