package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	// Anthropic 摘要服务凭证：缺失时整个流水线拒绝运行（见 Validate）
	AnthropicAPIKey string
	AnthropicModel  string

	PostgresDSN string
	RedisAddr   string

	OutputPath string
	CronSpec   string

	// 采集与摘要的规模参数
	MaxArticles   int
	BatchSize     int
	FetchPerQuery int
	BatchPause    time.Duration
}

// ErrMissingAPIKey 表示缺少摘要服务凭证，属于致命的启动前置条件
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY environment variable is not set")

func Load() *Config {
	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "9000"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5"),
		PostgresDSN:     getEnv("POSTGRES_DSN", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		OutputPath:      getEnv("OUTPUT_PATH", "articles.json"),
		CronSpec:        getEnv("CRON_SPEC", "0 6 * * *"),
		MaxArticles:     getEnvInt("MAX_ARTICLES", 60),
		BatchSize:       getEnvInt("BATCH_SIZE", 15),
		FetchPerQuery:   getEnvInt("FETCH_PER_QUERY", 15),
		BatchPause:      time.Duration(getEnvInt("BATCH_PAUSE_MS", 1000)) * time.Millisecond,
	}

	log.Printf("config loaded: port=%s cron=%s max=%d batch=%d out=%s",
		cfg.AppPort, cfg.CronSpec, cfg.MaxArticles, cfg.BatchSize, cfg.OutputPath)
	return cfg
}

// Validate 检查运行流水线前必须满足的条件。
// 凭证缺失时直接失败，避免产出一份没有任何摘要的快照。
func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
