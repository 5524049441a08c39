package collector

import "strings"

// NewsItem 统一采集后的基础结构。
// Summary / Category / Tags 采集阶段为空，由 summarizer 做一次性回填。
type NewsItem struct {
	ID          string
	Title       string
	Description string
	URL         string
	// Source 为展示用的来源标签：dev.to 固定为 "dev.to"，
	// HN 这类链接聚合器取原文链接的 host
	Source      string
	Points      int // 热度信号：dev.to 是 reactions，HN 是 points，不做跨源归一
	Comments    int
	PublishedAt string // 保留源站原始格式，仅展示，不参与任何流程判断

	Summary  string
	Category string
	Tags     []string
}

// Fetcher 抽象每一个数据源：一次调用对应一个（源，查询词）组合
type Fetcher interface {
	Name() string
	Fetch(query string, limit int) ([]NewsItem, error)
}

const descriptionMaxRunes = 400

// truncateRunes 按 rune 数截断，避免多字节字符被切断
func truncateRunes(s string, limit int) string {
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return strings.TrimSpace(string(rs[:limit]))
}
