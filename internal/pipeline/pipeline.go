package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/LJTian/AINewsHub/internal/collector"
	"github.com/LJTian/AINewsHub/internal/config"
	"github.com/LJTian/AINewsHub/internal/metrics"
	"github.com/LJTian/AINewsHub/internal/processor"
	"github.com/LJTian/AINewsHub/internal/storage"
	"github.com/LJTian/AINewsHub/internal/summarizer"
)

// Pipeline 一次完整的采集任务：聚合 → 去重 → 排序截断 → 批量摘要 → 落盘。
// 中途不持久化任何状态，挂了就整轮重跑。
type Pipeline struct {
	Aggregator *collector.Aggregator
	Buckets    []collector.Bucket
	Processor  *processor.Processor
	Summarizer *summarizer.Coordinator
	Sinks      []storage.Sink

	// Now 为空时用 time.Now，测试里注入固定时间
	Now func() time.Time
}

// FromConfig 按配置组装默认流水线：dev.to + HN 两个源、
// 文件 sink 必开，数据库 sink 在配置了 DSN 时附加
func FromConfig(cfg *config.Config) *Pipeline {
	sinks := []storage.Sink{&storage.FileSink{Path: cfg.OutputPath}}
	if cfg.PostgresDSN != "" {
		store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
		if err != nil {
			// 数据库不可用只降级掉这个 sink，不阻止产出快照文件
			log.Printf("warn: init store failed, db sink disabled: %v", err)
		} else {
			sinks = append(sinks, store)
		}
	}

	return &Pipeline{
		Aggregator: &collector.Aggregator{
			Devto:    &collector.DevtoFetcher{},
			HN:       &collector.HackerNewsFetcher{},
			PerQuery: cfg.FetchPerQuery,
		},
		Buckets:   collector.DefaultBuckets,
		Processor: processor.New(cfg.MaxArticles),
		Summarizer: summarizer.NewCoordinator(
			summarizer.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel),
			cfg.BatchSize,
			cfg.BatchPause,
		),
		Sinks: sinks,
	}
}

// Run 执行一轮采集。除摘要服务未配置外不返回错误：
// 单查询、单批次的失败都已在各自阶段吸收，宁可产出降级快照也不中断。
func (p *Pipeline) Run() error {
	if p.Summarizer == nil || p.Summarizer.Client == nil {
		return fmt.Errorf("pipeline: summarizer not configured")
	}

	start := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(start))
	}()

	log.Println("start collect job...")
	raw := p.Aggregator.Collect(p.Buckets)

	items := p.Processor.Process(raw)
	log.Printf("collected %d unique articles", len(items))

	items = p.Summarizer.Enrich(items)

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	snap := storage.Assemble(items, now())
	metrics.Global.SetSnapshotCount(snap.Count)

	for _, sink := range p.Sinks {
		if err := sink.Write(snap); err != nil {
			log.Printf("warn: sink %s: %v", sink.Name(), err)
		}
	}

	metrics.Global.SetLastRun()
	log.Printf("collect job done: %d articles", snap.Count)
	return nil
}
