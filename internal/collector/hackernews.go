package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	hnBaseURL          = "https://hn.algolia.com"
	hnClientTimeout    = 15 * time.Second
	hnMaxResponseBytes = 1 << 20 // 1MB
)

// HackerNewsFetcher 通过 Algolia 搜索 API 按关键词抓取 Hacker News 故事
type HackerNewsFetcher struct {
	// BaseURL 留空时使用官方地址；测试时指向 httptest server
	BaseURL string
}

func (h *HackerNewsFetcher) Name() string {
	return "hn"
}

type hnHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAt   string `json:"created_at"`
}

// Fetch 按关键词搜索 story 类型的条目。
// 没有标题的 hit 直接跳过；没有外链的用 HN 讨论页地址代替。
func (h *HackerNewsFetcher) Fetch(query string, limit int) ([]NewsItem, error) {
	base := h.BaseURL
	if base == "" {
		base = hnBaseURL
	}
	apiURL := fmt.Sprintf("%s/api/v1/search?query=%s&tags=story&hitsPerPage=%d", base, url.QueryEscape(query), limit)

	client := &http.Client{Timeout: hnClientTimeout}
	resp, err := client.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("hackernews: search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hackernews: search %q unexpected status %d", query, resp.StatusCode)
	}

	var payload struct {
		Hits []hnHit `json:"hits"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, hnMaxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("hackernews: decode %q: %w", query, err)
	}

	results := make([]NewsItem, 0, len(payload.Hits))
	for _, hit := range payload.Hits {
		if hit.Title == "" {
			continue
		}

		itemURL := hit.URL
		if itemURL == "" {
			itemURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%s", hit.ObjectID)
		}

		results = append(results, NewsItem{
			ID:          fmt.Sprintf("hn-%s", hit.ObjectID),
			Title:       truncateRunes(hit.Title, 512),
			Description: "",
			URL:         itemURL,
			Source:      hostLabel(itemURL),
			Points:      hit.Points,
			Comments:    hit.NumComments,
			PublishedAt: hit.CreatedAt,
		})
	}

	return results, nil
}

// hostLabel 取链接的 host 作为来源标签（HN 是链接聚合器，真正的发布方是原文站点）
func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "news.ycombinator.com"
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
