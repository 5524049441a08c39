package collector

import (
	"log"
	"sync"

	"github.com/LJTian/AINewsHub/internal/metrics"
)

// Bucket 一个主题通道：dev.to 的若干 tag 搭配一条 HN 搜索词
type Bucket struct {
	DevtoTags []string
	HNQuery   string
}

// DefaultBuckets 固定的采集配置，决定扇出范围
var DefaultBuckets = []Bucket{
	{DevtoTags: []string{"artificial-intelligence", "machinelearning"}, HNQuery: "artificial intelligence"},
	{DevtoTags: []string{"llm", "gpt", "openai"}, HNQuery: "large language model GPT"},
	{DevtoTags: []string{"deeplearning", "datascience"}, HNQuery: "machine learning research paper"},
	{DevtoTags: []string{"startup", "venturecapital"}, HNQuery: "AI startup funding raises million billion"},
	{DevtoTags: []string{"robotics"}, HNQuery: "AI robotics autonomous"},
	{DevtoTags: []string{"opensource", "huggingface"}, HNQuery: "open source AI model"},
}

const aggregateConcurrency = 4

// Aggregator 按 bucket 顺序扇出到各个数据源并拼接结果
type Aggregator struct {
	Devto    Fetcher
	HN       Fetcher
	PerQuery int
}

type fetchTask struct {
	fetcher Fetcher
	query   string
}

// Collect 对每个 bucket 依次发起 dev.to（逐个 tag）与 HN 查询。
// 拉取本身是并发的，但结果按任务的配置顺序写回各自的槽位再拼接，
// 保证拼接顺序与配置顺序一致，而不是依赖完成顺序。
// 单个（源，查询词）失败只记一条告警，贡献零条结果。
func (a *Aggregator) Collect(buckets []Bucket) []NewsItem {
	var tasks []fetchTask
	for _, b := range buckets {
		for _, tag := range b.DevtoTags {
			tasks = append(tasks, fetchTask{fetcher: a.Devto, query: tag})
		}
		tasks = append(tasks, fetchTask{fetcher: a.HN, query: b.HNQuery})
	}

	var (
		wg    sync.WaitGroup
		sem   = make(chan struct{}, aggregateConcurrency)
		slots = make([][]NewsItem, len(tasks))
	)

	for i, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, t fetchTask) {
			defer wg.Done()
			defer func() { <-sem }()

			items, err := t.fetcher.Fetch(t.query, a.PerQuery)
			if err != nil {
				log.Printf("warn: fetch %s query=%q: %v", t.fetcher.Name(), t.query, err)
				metrics.Global.IncrementQueriesFailed()
				return
			}
			slots[slot] = items
		}(i, task)
	}
	wg.Wait()

	var all []NewsItem
	for _, items := range slots {
		all = append(all, items...)
	}

	metrics.Global.AddArticlesFetched(len(all))
	log.Printf("aggregate done: %d queries, %d items", len(tasks), len(all))
	return all
}
