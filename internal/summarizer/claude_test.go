package summarizer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LJTian/AINewsHub/internal/collector"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`[{"summary":"s"}]`, `[{"summary":"s"}]`},
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n[1,2]\n```", "[1,2]"},
		{"  ```json\n[]\n```  ", "[]"},
	}

	for _, c := range cases {
		if got := stripFences(c.in); got != c.want {
			t.Fatalf("stripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseResultsValidatesSchema(t *testing.T) {
	text := "```json\n" + `[
		{"summary": " ok ", "category": "Research", "tags": ["LLM", "", "Safety", "Agent", "Business"]},
		{"summary": "second", "category": "not-a-category"},
		{"summary": "third"}
	]` + "\n```"

	results, err := parseResults(text)
	if err != nil {
		t.Fatalf("parseResults error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Summary != "ok" {
		t.Fatalf("summary not trimmed: %q", results[0].Summary)
	}
	// 分类大小写归一后在枚举内则保留
	if results[0].Category != "research" {
		t.Fatalf("category = %q, want research", results[0].Category)
	}
	// 空白标签被剔除，最多保留 3 个
	if len(results[0].Tags) != 3 {
		t.Fatalf("tags = %v, want 3 entries", results[0].Tags)
	}

	// 枚举之外的分类回退到兜底值
	if results[1].Category != DefaultCategory {
		t.Fatalf("unknown category should default, got %q", results[1].Category)
	}
	// 分类缺失同样回退
	if results[2].Category != DefaultCategory {
		t.Fatalf("missing category should default, got %q", results[2].Category)
	}
	if results[2].Tags == nil || len(results[2].Tags) != 0 {
		t.Fatalf("missing tags should be empty slice, got %#v", results[2].Tags)
	}
}

func TestParseResultsRejectsGarbage(t *testing.T) {
	if _, err := parseResults("Sorry, I cannot summarise these."); err == nil {
		t.Fatal("expected parse error for non-JSON text")
	}
}

func TestSummarizeBatchEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("anthropic-version header missing")
		}

		body, _ := io.ReadAll(r.Body)
		var req claudeRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		// 提示词里应包含带下标的文章清单
		if !strings.Contains(req.Messages[0].Content, "[0] First title") {
			t.Errorf("prompt missing indexed entry:\n%s", req.Messages[0].Content)
		}
		if !strings.Contains(req.Messages[0].Content, "Info: some context") {
			t.Errorf("prompt missing description line")
		}

		resp := map[string]any{
			"content": []map[string]string{{
				"type": "text",
				"text": "```json\n[{\"summary\":\"s1\",\"category\":\"llm\",\"tags\":[\"LLM\"]},{\"summary\":\"s2\",\"category\":\"funding\",\"tags\":[]}]\n```",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClaudeClient("sk-test", "test-model")
	c.BaseURL = srv.URL

	items := []collector.NewsItem{
		{ID: "devto-1", Title: "First title", Description: "some context"},
		{ID: "hn-2", Title: "Second title"},
	}
	results, err := c.SummarizeBatch(items)
	if err != nil {
		t.Fatalf("SummarizeBatch error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Summary != "s1" || results[1].Category != "funding" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSummarizeBatchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("sk-test", "test-model")
	c.BaseURL = srv.URL

	if _, err := c.SummarizeBatch(makeItems(1)); err == nil {
		t.Fatal("expected error on 429")
	}
}
