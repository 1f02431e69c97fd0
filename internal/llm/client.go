// Package llm calls an OpenAI-compatible chat completion endpoint to
// judge ingredients the rule database cannot resolve. Every failure mode
// degrades to fallback judgments; the client never blocks classification.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
	"github.com/vegcheck/vegcheck/pkg/vegcheck/judge"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

var _ judge.Judge = (*Client)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// judgeItem is the wire shape the model is asked to return per ingredient.
type judgeItem struct {
	Ingredient string `json:"ingredient"`
	Vegetarian *bool  `json:"vegetarian"`
	Vegan      *bool  `json:"vegan"`
	Risk       string `json:"risk"`
	Reason     string `json:"reason"`
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.Chinese,
	language.English,
})

// JudgeBatch asks the model to judge a batch of ingredient names. An
// unconfigured client or any transport, parse, or validation failure
// yields fallback judgments instead of an error.
func (c *Client) JudgeBatch(ctx context.Context, names []string, locale string) ([]judge.Judgment, error) {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			valid = append(valid, name)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	if c.BaseURL == "" || c.Model == "" {
		return fallbacks(valid), nil
	}

	raw, err := c.chat(ctx, judgeSystemPrompt(locale), judgeUserPrompt(valid, locale))
	if err != nil {
		return fallbacks(valid), nil
	}

	var items []judgeItem
	if err := json.Unmarshal([]byte(stripFences(raw)), &items); err != nil {
		return fallbacks(valid), nil
	}

	out := make([]judge.Judgment, len(valid))
	for i, name := range valid {
		if i >= len(items) {
			out[i] = judge.Fallback(name)
			continue
		}
		out[i] = toJudgment(items[i], name)
	}
	return out, nil
}

// toJudgment validates one wire item; structurally incomplete items
// become fallbacks so a half-answered batch never poisons the result.
func toJudgment(item judgeItem, name string) judge.Judgment {
	if item.Vegetarian == nil || item.Vegan == nil || item.Risk == "" || item.Reason == "" {
		return judge.Fallback(name)
	}
	risk := dataset.Risk(item.Risk)
	switch risk {
	case dataset.RiskLow, dataset.RiskMedium, dataset.RiskHigh:
	default:
		return judge.Fallback(name)
	}
	ingredient := item.Ingredient
	if ingredient == "" {
		ingredient = name
	}
	return judge.Judgment{
		Ingredient: ingredient,
		Vegetarian: item.Vegetarian,
		Vegan:      item.Vegan,
		Risk:       risk,
		Reason:     item.Reason,
	}
}

func fallbacks(names []string) []judge.Judgment {
	out := make([]judge.Judgment, len(names))
	for i, name := range names {
		out[i] = judge.Fallback(name)
	}
	return out
}

// stripFences removes Markdown code block markers some models wrap
// around their JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// isChinese resolves a BCP 47 locale tag against the supported prompt
// languages; anything that does not match Chinese gets the English prompt.
func isChinese(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return true
	}
	_, idx, _ := localeMatcher.Match(tag)
	return idx == 0
}

func judgeSystemPrompt(locale string) string {
	if isChinese(locale) {
		return "你是一位專業的食品成分分析師，專門判斷食品成分是否適合素食者食用。"
	}
	return "You are a professional food ingredient analyst specializing in determining whether ingredients are suitable for vegetarians."
}

func judgeUserPrompt(names []string, locale string) string {
	var list bytes.Buffer
	for i, name := range names {
		fmt.Fprintf(&list, "%d. %s\n", i+1, name)
	}

	if !isChinese(locale) {
		return fmt.Sprintf(`Analyze these %d ingredients for vegetarian suitability:
%s
Criteria:
1. vegetarian: Suitable for lacto-ovo vegetarians (no meat/seafood, but may contain eggs/dairy)
2. vegan: Suitable for vegans (no animal-derived ingredients)
3. risk: Risk level ("low", "medium", "high")
4. reason: Brief explanation (under 50 characters)

Respond with a JSON array without any Markdown, one object per ingredient:
[{"ingredient": "name", "vegetarian": true/false, "vegan": true/false, "risk": "low/medium/high", "reason": "explanation"}]`,
			len(names), list.String())
	}

	return fmt.Sprintf(`請判斷以下 %d 個成分：
%s
判斷標準：
1. vegetarian（蛋奶素）：是否適合蛋奶素食者
   - false：含肉類、海鮮、動物油脂、明膠、葷食調味料（如沙茶、肉鬆、魚露）
   - true：植物來源、礦物質、蛋、奶製品

2. vegan（純素）：是否適合純素食者
   - false：含任何動物來源（包括蛋、奶、蜂蜜）
   - true：完全植物來源或礦物質

3. risk（風險等級）：
   - "low"：明確的植物來源（如玉米、小麥、大豆油）或礦物質（如鹽）
   - "medium"：可能有動物來源或需確認製程（如乳化劑、香料、調味料）
   - "high"：通常含動物成分（如奶精、起司粉）

4. reason：簡短說明判斷理由（15字以內）

重要原則：
- 明確的植物性食材（玉米、地瓜粉、花椒、大茴香等）→ vegetarian=true, vegan=true, risk="low"
- 明確的動物性食材（肉鬆、沙茶、魚露等）→ vegetarian=false, vegan=false, risk="high"
- 含乳製品（奶精、起司）→ vegetarian=true, vegan=false, risk="high"
- 來源不明的添加物（香料、調味料）→ risk="medium"

請以 JSON 陣列格式回覆（不要包含任何 Markdown 標記），陣列中每個物件對應一個成分：
[{"ingredient": "成分", "vegetarian": true/false, "vegan": true/false, "risk": "low/medium/high", "reason": "判斷理由"}]`,
		len(names), list.String())
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	messages := []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages, Temperature: 0.1})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
