package processor

import (
	"sort"
	"strings"

	"github.com/LJTian/AINewsHub/internal/collector"
	"github.com/LJTian/AINewsHub/internal/metrics"
)

// titlePrefixRunes 近似去重用的标题前缀长度。
// 继承自线上行为：短标题或模板化标题存在少量误杀/漏杀，属于已知取舍。
const titlePrefixRunes = 60

// Processor 负责去重、按热度排序并截断到工作集上限
type Processor struct {
	MaxArticles int
}

func New(maxArticles int) *Processor {
	return &Processor{MaxArticles: maxArticles}
}

// seenSet 去重累加器：一次遍历内已见过的 id 与标题前缀
type seenSet struct {
	ids    map[string]struct{}
	titles map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{
		ids:    make(map[string]struct{}),
		titles: make(map[string]struct{}),
	}
}

// admit 判断条目是否首次出现，是则同时登记 id 与标题前缀
func (s *seenSet) admit(it collector.NewsItem) bool {
	titleKey := titleKey(it.Title)
	if _, dup := s.ids[it.ID]; dup {
		return false
	}
	if _, dup := s.titles[titleKey]; dup {
		return false
	}
	s.ids[it.ID] = struct{}{}
	s.titles[titleKey] = struct{}{}
	return true
}

func titleKey(title string) string {
	rs := []rune(strings.ToLower(title))
	if len(rs) > titlePrefixRunes {
		rs = rs[:titlePrefixRunes]
	}
	return string(rs)
}

// Deduplicate 单次从左到右遍历：id 或标题前缀任一重复即丢弃。
// 先到先留——聚合顺序（bucket 顺序 + 源内顺序）决定谁存活，
// 故意不按热度挑“更好”的那条。
func (p *Processor) Deduplicate(items []collector.NewsItem) []collector.NewsItem {
	seen := newSeenSet()
	out := make([]collector.NewsItem, 0, len(items))
	for _, it := range items {
		if !seen.admit(it) {
			continue
		}
		out = append(out, it)
	}

	metrics.Global.AddDuplicatesFiltered(len(items) - len(out))
	return out
}

// Rank 按热度降序稳定排序后截断到 MaxArticles。
// 热度相同的条目保持排序前的相对顺序。
func (p *Processor) Rank(items []collector.NewsItem) []collector.NewsItem {
	out := make([]collector.NewsItem, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})

	if p.MaxArticles > 0 && len(out) > p.MaxArticles {
		out = out[:p.MaxArticles]
	}
	return out
}

// Process 去重 + 排序截断
func (p *Processor) Process(items []collector.NewsItem) []collector.NewsItem {
	return p.Rank(p.Deduplicate(items))
}
