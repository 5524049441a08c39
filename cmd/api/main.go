package main

import (
	"log"

	"github.com/LJTian/AINewsHub/internal/api"
	"github.com/LJTian/AINewsHub/internal/config"
	"github.com/LJTian/AINewsHub/internal/pipeline"
	"github.com/LJTian/AINewsHub/internal/scheduler"
	"github.com/gin-gonic/gin"
)

// 常驻进程入口：cron 周期性跑采集流水线，gin 暴露健康与统计端点
func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	p := pipeline.FromConfig(cfg)

	s, err := scheduler.New(cfg.CronSpec, func() {
		if err := p.Run(); err != nil {
			log.Printf("collect job error: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	apiServer := api.NewServer()
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting monitoring server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
