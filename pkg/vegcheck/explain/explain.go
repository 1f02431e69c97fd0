// Package explain converts bucketed match results into display-ready
// per-item explanations and a one-line summary.
package explain

import (
	"fmt"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/rules"
)

// Detail is the display-ready explanation for one classified item.
type Detail struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Status      rules.Status `json:"status"`
	Reason      string       `json:"reason"`
	Notes       string       `json:"notes,omitempty"`
	Category    string       `json:"category"`
	Vegetarian  *bool        `json:"vegetarian,omitempty"`
	Vegan       *bool        `json:"vegan,omitempty"`
	Risk        dataset.Risk `json:"risk,omitempty"`
}

// Details holds per-status explanation lists in processing order.
type Details struct {
	Safe    []Detail `json:"safe"`
	Warning []Detail `json:"warning"`
	Danger  []Detail `json:"danger"`
	Unknown []Detail `json:"unknown"`
}

// Summary carries the bucket sizes.
type Summary struct {
	Total   int `json:"total"`
	Safe    int `json:"safe"`
	Warning int `json:"warning"`
	Danger  int `json:"danger"`
	Unknown int `json:"unknown"`
}

// Explanation is the full human-readable result for one classification.
type Explanation struct {
	Verdict     rules.Status `json:"verdict"`
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Details     Details      `json:"details"`
	Summary     Summary      `json:"summary"`
}

var (
	icons = map[rules.Status]string{
		rules.StatusSafe:    "✅",
		rules.StatusWarning: "⚠️",
		rules.StatusDanger:  "❌",
		rules.StatusUnknown: "❓",
	}
	titles = map[rules.Status]string{
		rules.StatusSafe:    "可食用",
		rules.StatusWarning: "需確認",
		rules.StatusDanger:  "不可食用",
		rules.StatusUnknown: "未知成分",
	}
	descriptions = map[rules.Status]string{
		rules.StatusSafe:    "此產品的成分皆為素食可食用",
		rules.StatusWarning: "此產品含有需要確認來源的成分，建議進一步查證",
		rules.StatusDanger:  "此產品含有動物來源成分，不適合素食者",
		rules.StatusUnknown: "部分成分無法識別，建議人工確認",
	}
)

// Icon returns the display icon for a status.
func Icon(status rules.Status) string {
	if ic, ok := icons[status]; ok {
		return ic
	}
	return "❓"
}

// Build creates the full explanation for a classified result set.
func Build(b rules.Buckets, verdict rules.Status) Explanation {
	e := Explanation{
		Verdict:     verdict,
		Icon:        Icon(verdict),
		Title:       titles[verdict],
		Description: descriptions[verdict],
	}
	if e.Title == "" {
		e.Title = "未知"
	}
	if e.Description == "" {
		e.Description = "無法判斷"
	}

	e.Details.Safe = explainAll(b.Safe)
	e.Details.Warning = explainAll(b.Warning)
	e.Details.Danger = explainAll(b.Danger)
	e.Details.Unknown = explainAll(b.Unknown)

	e.Summary = Summary{
		Safe:    len(b.Safe),
		Warning: len(b.Warning),
		Danger:  len(b.Danger),
		Unknown: len(b.Unknown),
	}
	e.Summary.Total = b.Total()

	return e
}

func explainAll(results []rules.MatchResult) []Detail {
	details := make([]Detail, len(results))
	for i, r := range results {
		details[i] = explainMatch(r)
	}
	return details
}

// explainMatch synthesizes the reason string from the record's
// vegetarian/vegan/risk fields. The precedence mirrors rules.StatusOf so
// the displayed reason never contradicts the bucket the item is in.
func explainMatch(r rules.MatchResult) Detail {
	if !r.Matched || r.Item == nil {
		return Detail{
			Name:        r.Input,
			DisplayName: r.Input,
			Status:      rules.StatusUnknown,
			Reason:      "此成分不在資料庫中",
			Notes:       "建議手動查證或聯繫製造商確認",
			Category:    "未知",
		}
	}

	item := r.Item
	displayName := item.Name
	if displayName == "" {
		displayName = item.NameEn
	}
	if displayName == "" {
		displayName = r.Input
	}

	var reason string
	switch {
	case item.Vegetarian != nil && !*item.Vegetarian:
		reason = "含有動物成分，非素食"
	case item.Vegan != nil && !*item.Vegan:
		reason = "可能含有蛋奶等動物產品，非純素"
	case item.Risk == dataset.RiskHigh:
		reason = "可能含有動物來源，需確認製程"
	case item.Risk == dataset.RiskMedium:
		reason = "來源不確定，建議確認"
	default:
		reason = "植物來源，素食可食"
	}

	if r.Type == rules.MatchFuzzy {
		reason += fmt.Sprintf(" (相似度: %.0f%%)", r.Confidence*100)
	}

	category := item.Category
	if category == "" {
		category = "E添加物"
	}

	return Detail{
		Name:        r.Input,
		DisplayName: displayName,
		Status:      rules.StatusOf(item),
		Reason:      reason,
		Notes:       item.Notes,
		Category:    category,
		Vegetarian:  item.Vegetarian,
		Vegan:       item.Vegan,
		Risk:        item.Risk,
	}
}

// SummaryText renders the one-line verdict summary. Warning and unknown
// items are presented as a single needs-confirmation figure even though
// they stay in separate buckets internally.
func SummaryText(e Explanation) string {
	switch e.Verdict {
	case rules.StatusSafe:
		return fmt.Sprintf("✅ 全部 %d 項成分皆為素食可食用", e.Summary.Total)
	case rules.StatusDanger:
		return fmt.Sprintf("❌ 發現 %d 項不可食用成分", e.Summary.Danger)
	case rules.StatusWarning:
		return fmt.Sprintf("⚠️ 有 %d 項成分需要確認來源", e.Summary.Warning+e.Summary.Unknown)
	}
	return "❓ 無法判斷"
}
