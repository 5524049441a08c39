package main

import (
	"log"

	"github.com/LJTian/AINewsHub/internal/config"
	"github.com/LJTian/AINewsHub/internal/pipeline"
)

// 一个仅执行一轮采集的命令行入口：适合 CI 定时任务或手动触发
func main() {
	cfg := config.Load()

	// 凭证缺失属于致命前置条件：在发起任何抓取之前就退出
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	p := pipeline.FromConfig(cfg)
	if err := p.Run(); err != nil {
		log.Fatalf("collect failed: %v", err)
	}

	log.Printf("done, wrote snapshot to %s", cfg.OutputPath)
}
