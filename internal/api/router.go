package api

import (
	"net/http"

	"github.com/LJTian/AINewsHub/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Server 监控端点：只暴露健康状态与运行统计，不提供新闻查询接口
type Server struct{}

func NewServer() *Server {
	return &Server{}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", s.stats)
}

func (s *Server) health(c *gin.Context) {
	stats := metrics.Global.GetStats()

	status := http.StatusOK
	state := "ok"
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = http.StatusServiceUnavailable
		state = "error"
	}

	c.JSON(status, gin.H{
		"status":     state,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Global.GetStats())
}
