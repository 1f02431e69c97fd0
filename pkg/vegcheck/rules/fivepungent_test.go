package rules

import (
	"testing"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/textnorm"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/tokenize"
)

// The five pungent vegetables (五辛) are plant ingredients that many
// vegetarians abstain from; the default tables carry them as category
// 五辛 with medium risk so they land in warning, never safe.

func classifyLabel(t *testing.T, input string) Buckets {
	t.Helper()
	m := NewMatcher(dataset.Default())
	td := tokenize.Default().WithECodes(textnorm.NormalizeIngredients(input))
	return m.Classify(td)
}

func findWarning(b Buckets, input string) *MatchResult {
	for i := range b.Warning {
		if b.Warning[i].Input == input {
			return &b.Warning[i]
		}
	}
	return nil
}

func TestFivePungentWarning(t *testing.T) {
	for _, name := range []string{"大蒜", "洋蔥", "韭菜", "蔥", "蒜粉", "洋蔥粉"} {
		b := classifyLabel(t, "水、糖、"+name+"、鹽")

		hit := findWarning(b, name)
		if hit == nil {
			t.Errorf("%s not in warning bucket: %+v", name, b.Warning)
			continue
		}
		if hit.Item.Category != "五辛" {
			t.Errorf("%s category = %q, want 五辛", name, hit.Item.Category)
		}
		if hit.Item.Risk != dataset.RiskMedium {
			t.Errorf("%s risk = %q, want %q", name, hit.Item.Risk, dataset.RiskMedium)
		}
	}
}

func TestFivePungentAliases(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"蒜頭", "大蒜"},
		{"青蔥", "蔥"},
		{"蔥花", "蔥"},
		{"韭黃", "韭菜"},
	}
	for _, c := range cases {
		b := classifyLabel(t, c.input)

		hit := findWarning(b, c.input)
		if hit == nil {
			t.Errorf("%s not in warning bucket: %+v", c.input, b.Warning)
			continue
		}
		if hit.Item.Name != c.want {
			t.Errorf("%s resolved to %q, want %q", c.input, hit.Item.Name, c.want)
		}
		if hit.Item.Category != "五辛" {
			t.Errorf("%s category = %q, want 五辛", c.input, hit.Item.Category)
		}
	}
}

func TestFivePungentForcesWarningVerdict(t *testing.T) {
	b := classifyLabel(t, "水、糖、大蒜、洋蔥、韭菜、蔥、鹽")

	count := 0
	for _, r := range b.Warning {
		if r.Item != nil && r.Item.Category == "五辛" {
			count++
		}
	}
	if count != 4 {
		t.Errorf("五辛 warnings = %d, want 4: %+v", count, b.Warning)
	}
	if v := FinalVerdict(b); v != StatusWarning {
		t.Errorf("verdict = %q, want %q", v, StatusWarning)
	}
}
