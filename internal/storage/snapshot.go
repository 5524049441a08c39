package storage

import (
	"time"

	"github.com/LJTian/AINewsHub/internal/collector"
)

// updatedAtLayout 快照时间戳的固定格式（UTC）。
// 字段名与格式都是下游消费方的兼容面，不能改。
const updatedAtLayout = "2006-01-02T15:04:05Z"

// Article 持久化工件里一条新闻的形状
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Points      int      `json:"points"`
	Comments    int      `json:"comments"`
	PublishedAt string   `json:"published_at"`
	Summary     string   `json:"summary"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// Snapshot 一次运行的最终产物，创建后不再修改
type Snapshot struct {
	UpdatedAt string    `json:"updated_at"`
	Count     int       `json:"count"`
	Articles  []Article `json:"articles"`
}

// Sink 接收最终快照的去处；单个 sink 失败不影响其余 sink
type Sink interface {
	Name() string
	Write(snap Snapshot) error
}

// Assemble 盖上生成时间与条数，组装最终快照
func Assemble(items []collector.NewsItem, now time.Time) Snapshot {
	articles := make([]Article, 0, len(items))
	for _, it := range items {
		tags := it.Tags
		if tags == nil {
			tags = []string{}
		}
		articles = append(articles, Article{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			URL:         it.URL,
			Source:      it.Source,
			Points:      it.Points,
			Comments:    it.Comments,
			PublishedAt: it.PublishedAt,
			Summary:     it.Summary,
			Category:    it.Category,
			Tags:        tags,
		})
	}

	return Snapshot{
		UpdatedAt: now.UTC().Format(updatedAtLayout),
		Count:     len(articles),
		Articles:  articles,
	}
}
