package metrics

import (
	"sync"
	"time"
)

// Metrics 进程内的运行统计，供监控端点读取
type Metrics struct {
	mu sync.RWMutex

	ArticlesFetched    int64
	DuplicatesFiltered int64
	QueriesFailed      int64
	BatchesFailed      int64
	SnapshotCount      int64

	LastProcessingTime time.Duration

	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementQueriesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueriesFailed++
}

func (m *Metrics) IncrementBatchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchesFailed++
}

func (m *Metrics) SetSnapshotCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotCount = int64(n)
}

func (m *Metrics) RecordProcessingTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastProcessingTime = d
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":        m.ArticlesFetched,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"queries_failed":          m.QueriesFailed,
		"batches_failed":          m.BatchesFailed,
		"snapshot_count":          m.SnapshotCount,
		"last_processing_time_ms": m.LastProcessingTime.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
