package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/dataset"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func newClient(t *testing.T, handler roundTrip) *Client {
	t.Helper()
	return &Client{
		BaseURL:    "https://api.test/v1/chat/completions",
		Model:      "gpt-test",
		HTTPClient: &http.Client{Transport: handler},
	}
}

func chatReply(content string) *http.Response {
	payload := `{"choices":[{"message":{"role":"assistant","content":` + string(mustJSON(content)) + `}}]}`
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(payload)),
		Header:     make(http.Header),
	}
}

func mustJSON(s string) []byte {
	out, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return out
}

func TestJudgeBatchSuccess(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		body, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(body), "肉鬆") {
			t.Fatalf("ingredient name missing from prompt payload")
		}
		return chatReply(`[
{"ingredient": "肉鬆", "vegetarian": false, "vegan": false, "risk": "high", "reason": "含肉類，非素食"},
{"ingredient": "玉米", "vegetarian": true, "vegan": true, "risk": "low", "reason": "植物來源，素食可食"}
]`)
	})

	out, err := client.JudgeBatch(context.Background(), []string{"肉鬆", "玉米"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d judgments, want 2", len(out))
	}
	if out[0].Fallback || out[0].Vegetarian == nil || *out[0].Vegetarian {
		t.Errorf("first judgment = %+v, want usable non-vegetarian", out[0])
	}
	if out[1].Risk != dataset.RiskLow || !out[1].Usable() {
		t.Errorf("second judgment = %+v, want usable low risk", out[1])
	}
}

func TestJudgeBatchStripsCodeFences(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		return chatReply("```json\n[{\"ingredient\": \"玉米\", \"vegetarian\": true, \"vegan\": true, \"risk\": \"low\", \"reason\": \"植物來源\"}]\n```")
	})

	out, err := client.JudgeBatch(context.Background(), []string{"玉米"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 1 || out[0].Fallback {
		t.Fatalf("got %+v, want one usable judgment", out)
	}
}

func TestJudgeBatchMalformedResponseFallsBack(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		return chatReply("definitely not json")
	})

	out, err := client.JudgeBatch(context.Background(), []string{"神秘成分"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 1 || !out[0].Fallback {
		t.Fatalf("got %+v, want one fallback judgment", out)
	}
}

func TestJudgeBatchInvalidItemFallsBack(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		return chatReply(`[
{"ingredient": "玉米", "vegetarian": true, "vegan": true, "risk": "low", "reason": "植物來源"},
{"ingredient": "神秘成分", "risk": "banana", "reason": ""}
]`)
	})

	out, err := client.JudgeBatch(context.Background(), []string{"玉米", "神秘成分"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if out[0].Fallback {
		t.Errorf("valid item became fallback: %+v", out[0])
	}
	if !out[1].Fallback {
		t.Errorf("invalid item not replaced by fallback: %+v", out[1])
	}
}

func TestJudgeBatchShortResponsePadsWithFallbacks(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		return chatReply(`[{"ingredient": "玉米", "vegetarian": true, "vegan": true, "risk": "low", "reason": "植物來源"}]`)
	})

	out, err := client.JudgeBatch(context.Background(), []string{"玉米", "神秘成分"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d judgments, want 2", len(out))
	}
	if !out[1].Fallback {
		t.Errorf("missing item not padded with fallback: %+v", out[1])
	}
}

func TestJudgeBatchUnconfiguredClient(t *testing.T) {
	client := &Client{}
	out, err := client.JudgeBatch(context.Background(), []string{"玉米"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 1 || !out[0].Fallback {
		t.Fatalf("got %+v, want fallback from unconfigured client", out)
	}
}

func TestJudgeBatchSkipsBlankNames(t *testing.T) {
	client := &Client{}
	out, err := client.JudgeBatch(context.Background(), []string{"", "  "}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d judgments, want none for blank input", len(out))
	}
}

func TestJudgeBatchEnglishLocalePrompt(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		body, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(body), "vegetarian suitability") {
			t.Fatalf("expected English prompt, got %s", body)
		}
		return chatReply(`[{"ingredient": "corn", "vegetarian": true, "vegan": true, "risk": "low", "reason": "plant source"}]`)
	})

	if _, err := client.JudgeBatch(context.Background(), []string{"corn"}, "en-US"); err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
}

func TestJudgeBatchTransportErrorFallsBack(t *testing.T) {
	client := newClient(t, func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"quota exceeded"}}`)),
			Header:     make(http.Header),
		}
	})

	out, err := client.JudgeBatch(context.Background(), []string{"玉米"}, "zh")
	if err != nil {
		t.Fatalf("JudgeBatch: %v", err)
	}
	if len(out) != 1 || !out[0].Fallback {
		t.Fatalf("got %+v, want fallback on provider error", out)
	}
}
