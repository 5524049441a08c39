package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// News 入库的一条新闻；id 即流水线内的全局 id（如 devto-123 / hn-456）
type News struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Title       string `gorm:"size:512" json:"title"`
	Description string `gorm:"size:600" json:"description"`
	URL         string `gorm:"size:1024;index" json:"url"`
	Source      string `gorm:"size:64;index" json:"source"`
	Points      int    `gorm:"index" json:"points"`
	Comments    int    `json:"comments"`
	// 保留源站原始时间文本，不入库为 timestamp，避免各源格式差异带来的解析失败
	PublishedAt string                      `gorm:"size:64" json:"publishedAt"`
	Summary     string                      `gorm:"type:text" json:"summary"`
	Category    string                      `gorm:"size:32;index" json:"category"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// snapshotCacheKey 最新快照在 Redis 里的位置，供下游直接读取
const snapshotCacheKey = "ainews:snapshot:latest"

const snapshotCacheTTL = 48 * time.Hour

// Store 可选的数据库 sink：文章入库 + 最新快照写入 Redis 缓存
type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&News{}); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	return &Store{DB: db, Redis: rdb}, nil
}

func (s *Store) Name() string {
	return "store"
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB 按 rune 数截断字符串，确保不会超过数据库字段长度。
// 这是对上游采集截断的双保险，防止外部服务返回异常长文本导致入库失败。
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// Write 把快照里的文章逐条落库（以 id 作幂等键，已存在则更新摘要等字段），
// 并把整份快照 JSON 放进 Redis 供下游低成本读取
func (s *Store) Write(snap Snapshot) error {
	for _, a := range snap.Articles {
		n := &News{
			ID:          a.ID,
			Title:       truncateRunesDB(toValidUTF8(a.Title), 512),
			Description: truncateRunesDB(toValidUTF8(a.Description), 600),
			URL:         a.URL,
			Source:      a.Source,
			Points:      a.Points,
			Comments:    a.Comments,
			PublishedAt: a.PublishedAt,
			Summary:     toValidUTF8(a.Summary),
			Category:    a.Category,
			Tags:        datatypes.NewJSONSlice(a.Tags),
		}

		// 以 id 作为幂等键，避免重复插入；已存在时更新热度与摘要字段
		if err := s.DB.Where("id = ?", a.ID).FirstOrCreate(n).Error; err != nil {
			return fmt.Errorf("store: save %s: %w", a.ID, err)
		}
		_ = s.DB.Model(n).Updates(map[string]any{
			"title":       n.Title,
			"description": n.Description,
			"points":      n.Points,
			"comments":    n.Comments,
			"summary":     n.Summary,
			"category":    n.Category,
			"tags":        n.Tags,
		}).Error
	}

	if s.Redis != nil {
		if bs, err := json.Marshal(snap); err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := s.Redis.Set(ctx, snapshotCacheKey, bs, snapshotCacheTTL).Err(); err != nil {
				log.Printf("warn: cache snapshot failed: %v", err)
			}
		}
	}

	return nil
}
