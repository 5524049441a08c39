package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	devtoBaseURL          = "https://dev.to"
	devtoClientTimeout    = 15 * time.Second
	devtoMaxResponseBytes = 2 << 20 // 2MB
)

// DevtoFetcher 通过 dev.to 公开文章 API 按 tag 拉取热门文章
type DevtoFetcher struct {
	// BaseURL 留空时使用官方地址；测试时指向 httptest server
	BaseURL string
}

func (d *DevtoFetcher) Name() string {
	return "devto"
}

type devtoArticle struct {
	ID                     int    `json:"id"`
	Title                  string `json:"title"`
	Description            string `json:"description"`
	URL                    string `json:"url"`
	PositiveReactionsCount int    `json:"positive_reactions_count"`
	CommentsCount          int    `json:"comments_count"`
	PublishedAt            string `json:"published_at"`
}

// Fetch 拉取一个 tag 下最近 7 天的热门文章。
// 缺少 id 或标题的记录直接跳过，不影响其余记录。
func (d *DevtoFetcher) Fetch(tag string, limit int) ([]NewsItem, error) {
	base := d.BaseURL
	if base == "" {
		base = devtoBaseURL
	}
	apiURL := fmt.Sprintf("%s/api/articles?tag=%s&per_page=%d&top=7", base, url.QueryEscape(tag), limit)

	client := &http.Client{Timeout: devtoClientTimeout}
	resp, err := client.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("devto: fetch tag %q: %w", tag, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("devto: tag %q unexpected status %d", tag, resp.StatusCode)
	}

	var articles []devtoArticle
	if err := json.NewDecoder(io.LimitReader(resp.Body, devtoMaxResponseBytes)).Decode(&articles); err != nil {
		return nil, fmt.Errorf("devto: decode tag %q: %w", tag, err)
	}

	results := make([]NewsItem, 0, len(articles))
	for _, a := range articles {
		if a.ID == 0 || a.Title == "" {
			continue
		}
		results = append(results, NewsItem{
			// 同一篇文章重复拉取时 id 必须稳定，全局去重依赖这一点
			ID:          fmt.Sprintf("devto-%d", a.ID),
			Title:       truncateRunes(a.Title, 512),
			Description: truncateRunes(a.Description, descriptionMaxRunes),
			URL:         a.URL,
			Source:      "dev.to",
			Points:      a.PositiveReactionsCount,
			Comments:    a.CommentsCount,
			PublishedAt: a.PublishedAt,
		})
	}

	return results, nil
}
