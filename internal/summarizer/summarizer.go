package summarizer

import (
	"log"
	"time"

	"github.com/LJTian/AINewsHub/internal/collector"
	"github.com/LJTian/AINewsHub/internal/metrics"
)

// Coordinator 把排序后的工作集切成固定大小的批次依次提交摘要服务。
// 批次必须串行处理：批间停顿的意义就是拉开对同一外部服务的调用间隔。
type Coordinator struct {
	Client    BatchSummarizer
	BatchSize int

	// Pause 批与批之间的固定停顿，只为尊重服务端限流，与正确性无关
	Pause time.Duration
	// Sleep 为空时使用 time.Sleep；测试里注入记录函数即可关闭真实等待
	Sleep func(time.Duration)
}

func NewCoordinator(client BatchSummarizer, batchSize int, pause time.Duration) *Coordinator {
	return &Coordinator{Client: client, BatchSize: batchSize, Pause: pause}
}

// Enrich 为每条新闻回填 Summary / Category / Tags，每个字段只写一次。
// 结果与批次按位置合并：第 j 个结果对应批内第 j 条，不按 id 匹配。
// 整批失败或响应偏短时，受影响的条目拿默认值，流水线继续往下走。
func (c *Coordinator) Enrich(items []collector.NewsItem) []collector.NewsItem {
	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = 15
	}

	total := len(items)
	out := make([]collector.NewsItem, 0, total)

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := items[start:end]
		log.Printf("summarize articles %d-%d of %d...", start+1, end, total)

		results, err := c.Client.SummarizeBatch(batch)
		if err != nil {
			log.Printf("warn: summarize batch %d-%d: %v", start+1, end, err)
			metrics.Global.IncrementBatchesFailed()
			results = nil
		}

		for j, it := range batch {
			r := DefaultResult()
			if j < len(results) {
				r = results[j]
			}
			it.Summary = r.Summary
			it.Category = r.Category
			it.Tags = r.Tags
			if it.Tags == nil {
				it.Tags = []string{}
			}
			out = append(out, it)
		}

		// 最后一批之后不再停顿
		if end < total && c.Pause > 0 {
			sleep(c.Pause)
		}
	}

	return out
}
