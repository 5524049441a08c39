package summarizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LJTian/AINewsHub/internal/collector"
)

const (
	anthropicBaseURL       = "https://api.anthropic.com"
	anthropicVersion       = "2023-06-01"
	claudeMaxTokens        = 4096
	claudeClientTimeout    = 120 * time.Second
	claudeMaxResponseBytes = 1 << 20 // 1MB
)

// DefaultCategory 摘要缺失或不合法时的兜底分类
const DefaultCategory = "all"

const maxTags = 3

// validCategories 闭合的分类枚举，响应里出现集合之外的值一律回退 DefaultCategory
var validCategories = map[string]struct{}{
	"llm": {}, "research": {}, "openai": {}, "google": {},
	"robotics": {}, "opensource": {}, "funding": {}, "all": {},
}

// BatchResult 一条新闻对应的摘要结果
type BatchResult struct {
	Summary  string
	Category string
	Tags     []string
}

// DefaultResult 默认摘要：空摘要、兜底分类、空标签
func DefaultResult() BatchResult {
	return BatchResult{Summary: "", Category: DefaultCategory, Tags: []string{}}
}

// BatchSummarizer 抽象批量摘要能力，返回值与请求批次按位置一一对应
type BatchSummarizer interface {
	SummarizeBatch(items []collector.NewsItem) ([]BatchResult, error)
}

// ClaudeClient 通过 Anthropic messages API 生成摘要与分类
type ClaudeClient struct {
	APIKey  string
	Model   string
	BaseURL string // 留空时使用官方地址；测试时指向 httptest server

	client *http.Client
}

func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return &ClaudeClient{
		APIKey: apiKey,
		Model:  model,
		client: &http.Client{Timeout: claudeClientTimeout},
	}
}

const systemPrompt = `You are an expert AI news editor. Your job is to write concise,
insightful summaries of AI news articles for a tech-savvy audience.`

// buildPrompt 把一个批次的标题与简介拼成带下标的清单，
// 并要求模型按原顺序返回等长的 JSON 数组
func buildPrompt(items []collector.NewsItem) string {
	var lines []string
	for i, it := range items {
		entry := fmt.Sprintf("[%d] %s", i, it.Title)
		if it.Description != "" {
			entry += "\n    Info: " + it.Description
		}
		lines = append(lines, entry)
	}

	return fmt.Sprintf(`Summarise each of the %d AI news articles below.

Return ONLY a valid JSON array (no markdown, no extra text) with one object per article:
{
  "summary":  "2-3 sentences. Sentence 1: what happened. Sentences 2-3: why it matters / implications.",
  "category": one of: llm | research | openai | google | robotics | opensource | funding | all,
  "tags":     array of 1-3 strings from: LLM | Research | Open Source | Robotics | Image/Video | Safety | Funding | Acquisition | Business | Agent
}

Articles:
%s`, len(items), strings.Join(lines, "\n"))
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type rawResult struct {
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// SummarizeBatch 对整个批次发起一次生成调用并解析结构化结果。
// 返回的数组长度以模型实际返回为准，可能短于批次，由调用方按位置兜底。
func (c *ClaudeClient) SummarizeBatch(items []collector.NewsItem) ([]BatchResult, error) {
	base := c.BaseURL
	if base == "" {
		base = anthropicBaseURL
	}

	body, err := json.Marshal(claudeRequest{
		Model:     c.Model,
		MaxTokens: claudeMaxTokens,
		System:    systemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: buildPrompt(items)}},
	})
	if err != nil {
		return nil, fmt.Errorf("claude: marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, base+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("claude: new request: %w", err)
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: claudeClientTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("claude: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("claude: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload claudeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, claudeMaxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("claude: decode response: %w", err)
	}
	if len(payload.Content) == 0 {
		return nil, fmt.Errorf("claude: empty content")
	}

	return parseResults(payload.Content[0].Text)
}

// parseResults 去掉可能的 markdown 围栏后按 JSON 数组解析，
// 并在边界处把每一条规范成合法的类型安全结果
func parseResults(text string) ([]BatchResult, error) {
	raw := stripFences(text)

	var parsed []rawResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("claude: parse results: %w", err)
	}

	results := make([]BatchResult, 0, len(parsed))
	for _, r := range parsed {
		results = append(results, normalizeResult(r))
	}
	return results, nil
}

// stripFences 模型偶尔会把 JSON 包在 ``` 或 ```json 里
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.SplitN(s, "```", 3)
	if len(parts) >= 2 {
		s = parts[1]
	}
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}

// normalizeResult 对单条结果做模式校验：
// 分类必须在闭合枚举内，标签最多 3 个且去掉空白项
func normalizeResult(r rawResult) BatchResult {
	out := DefaultResult()
	out.Summary = strings.TrimSpace(r.Summary)

	category := strings.ToLower(strings.TrimSpace(r.Category))
	if _, ok := validCategories[category]; ok {
		out.Category = category
	}

	for _, tag := range r.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out.Tags = append(out.Tags, tag)
		if len(out.Tags) == maxTags {
			break
		}
	}
	return out
}
