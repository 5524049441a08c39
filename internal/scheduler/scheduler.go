package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler 用 cron 周期性触发采集任务
type Scheduler struct {
	cron *cron.Cron
	run  func()
}

func New(spec string, run func()) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{cron: c, run: run}
	if _, err := c.AddFunc(spec, run); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮采集，避免与进程启动期的其它初始化争抢资源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.run()
	})
	log.Println("scheduler started")
}

// RunOnce 对外暴露的单次执行入口，方便手动触发采集
func (s *Scheduler) RunOnce() {
	s.run()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
