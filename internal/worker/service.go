package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/pie-rfid/inventory-next/internal/config"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	cron     *cron.Cron
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	s := &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}
	if spec := strings.TrimSpace(cfg.CacheFlushCron); spec != "" {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(spec, s.flushCache); err != nil {
			logger.Warnw("worker_cache_flush_cron_invalid", "spec", spec, "error", err)
			s.cron = nil
		}
	}
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	_ = ctx
	if s.cron != nil {
		s.cron.Start()
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	if s.cron != nil {
		s.cron.Stop()
	}
	s.server.Shutdown()
	return nil
}

// flushCache 夜间清空缓存，哈希映射与明细快照次日重建
func (s *Service) flushCache() {
	if s == nil || s.consumer == nil || s.consumer.CacheStore == nil {
		return
	}
	if err := s.consumer.CacheStore.Flush(context.Background()); err != nil {
		logger.Warnw("worker_cache_flush_failed", "error", err)
		return
	}
	logger.Infow("worker_cache_flushed")
}
