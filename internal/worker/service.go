package worker

import (
	"context"
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 后台任务消费服务
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	tasks  []string
}

// NewService 创建后台任务消费服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	redisOpt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	tasks := consumer.Register(mux)
	if len(tasks) == 0 {
		return nil, errors.New("no task handlers registered")
	}
	return &Service{
		server: asynq.NewServer(redisOpt, serverCfg),
		mux:    mux,
		tasks:  tasks,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Tasks 已注册的任务类型
func (s *Service) Tasks() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.tasks...)
}

// Start 启动消费并阻塞至 ctx 结束
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	logger.Infow("worker_started", "tasks", s.tasks)
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束，超过 ctx 期限则直接返回
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Warnw("worker_shutdown_timeout", "error", ctx.Err())
		return ctx.Err()
	}
}
