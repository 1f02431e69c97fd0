package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vegcheck/vegcheck/pkg/vegcheck"
)

func newTestMux() *http.ServeMux {
	return newMux(vegcheck.New(vegcheck.Options{}))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestClassifyOK(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/classify",
		strings.NewReader(`{"text": "水、糖、豬油"}`))
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body classifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Verdict != "danger" {
		t.Errorf("verdict = %q, want danger", body.Verdict)
	}
	if body.ID == "" {
		t.Error("empty report ID")
	}
	if len(body.Debug.Tokens) != 3 {
		t.Errorf("debug tokens = %v, want 3 entries", body.Debug.Tokens)
	}
}

func TestClassifyEmptyTextRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/classify",
		strings.NewReader(`{"text": ""}`))
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" {
		t.Errorf("status = %q, want error", body.Status)
	}
}

func TestClassifyInvalidJSONRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/classify",
		strings.NewReader(`{"text": `))
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestClassifyMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/classify", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestClassifyLinesFiltered(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/classify",
		strings.NewReader(`{"lines": ["品名：某牌餅乾", "水、糖", "淨重：120g"]}`))
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body classifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Verdict != "safe" {
		t.Errorf("verdict = %q, want safe", body.Verdict)
	}
	if len(body.RejectedLines) != 2 {
		t.Errorf("rejectedLines = %v, want the two metadata lines", body.RejectedLines)
	}
	if len(body.Debug.Tokens) != 2 {
		t.Errorf("debug tokens = %v, want [水 糖]", body.Debug.Tokens)
	}
}

func TestClassifyAllLinesRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/classify",
		strings.NewReader(`{"lines": ["品名：某牌餅乾", "淨重：120g"]}`))
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when nothing survives filtering", rec.Code)
	}
}
