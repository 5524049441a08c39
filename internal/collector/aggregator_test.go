package collector

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// stubFetcher 测试用的采集器：按查询词返回固定结果，可指定失败的查询
type stubFetcher struct {
	name    string
	results map[string][]NewsItem
	failOn  map[string]bool
	delay   map[string]time.Duration

	mu    sync.Mutex
	calls []string
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(query string, limit int) ([]NewsItem, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	s.mu.Unlock()

	if d := s.delay[query]; d > 0 {
		time.Sleep(d)
	}
	if s.failOn[query] {
		return nil, fmt.Errorf("stub: query %q failed", query)
	}
	return s.results[query], nil
}

func item(id string) NewsItem {
	return NewsItem{ID: id, Title: "title " + id}
}

func TestCollectPreservesConfiguredOrder(t *testing.T) {
	devto := &stubFetcher{
		name: "devto",
		results: map[string][]NewsItem{
			"tag-a": {item("devto-1"), item("devto-2")},
			"tag-b": {item("devto-3")},
		},
		// 第一个查询故意最慢：若按完成顺序拼接，结果顺序就会翻转
		delay: map[string]time.Duration{"tag-a": 50 * time.Millisecond},
	}
	hn := &stubFetcher{
		name: "hn",
		results: map[string][]NewsItem{
			"query-1": {item("hn-1")},
			"query-2": {item("hn-2")},
		},
	}

	a := &Aggregator{Devto: devto, HN: hn, PerQuery: 15}
	buckets := []Bucket{
		{DevtoTags: []string{"tag-a"}, HNQuery: "query-1"},
		{DevtoTags: []string{"tag-b"}, HNQuery: "query-2"},
	}

	out := a.Collect(buckets)
	want := []string{"devto-1", "devto-2", "hn-1", "devto-3", "hn-2"}
	if len(out) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(out))
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("out[%d].ID = %q, want %q", i, out[i].ID, id)
		}
	}
}

func TestCollectIsolatesQueryFailures(t *testing.T) {
	devto := &stubFetcher{
		name: "devto",
		results: map[string][]NewsItem{
			"ok-tag": {item("devto-1")},
		},
		failOn: map[string]bool{"bad-tag": true},
	}
	hn := &stubFetcher{
		name:    "hn",
		results: map[string][]NewsItem{"q": {item("hn-1")}},
	}

	a := &Aggregator{Devto: devto, HN: hn, PerQuery: 15}
	buckets := []Bucket{{DevtoTags: []string{"bad-tag", "ok-tag"}, HNQuery: "q"}}

	out := a.Collect(buckets)
	// 失败的查询贡献零条，不影响其余查询
	want := []string{"devto-1", "hn-1"}
	if len(out) != len(want) {
		t.Fatalf("expected %d items, got %d: %+v", len(want), len(out), out)
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("out[%d].ID = %q, want %q", i, out[i].ID, id)
		}
	}
}

func TestCollectFansOutAllQueries(t *testing.T) {
	devto := &stubFetcher{name: "devto"}
	hn := &stubFetcher{name: "hn"}

	a := &Aggregator{Devto: devto, HN: hn, PerQuery: 15}
	a.Collect(DefaultBuckets)

	var wantDevto int
	for _, b := range DefaultBuckets {
		wantDevto += len(b.DevtoTags)
	}
	if len(devto.calls) != wantDevto {
		t.Fatalf("devto calls = %d, want %d", len(devto.calls), wantDevto)
	}
	if len(hn.calls) != len(DefaultBuckets) {
		t.Fatalf("hn calls = %d, want %d", len(hn.calls), len(DefaultBuckets))
	}
}
