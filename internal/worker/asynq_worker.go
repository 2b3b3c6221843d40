package worker

import (
	"context"
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/provider"
	"github.com/whimsicalfrog/wf-admin/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者，返回已注册的任务类型
func (c *Consumer) Register(mux *asynq.ServeMux) []string {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return nil
	}
	mux.HandleFunc(queue.TaskCategorySKURewrite, c.handleCategorySKURewrite)
	return []string{queue.TaskCategorySKURewrite}
}

func (c *Consumer) handleCategorySKURewrite(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_sku_rewrite_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCategorySKURewritePayload(task)
	if err != nil {
		logger.Warnw("worker_sku_rewrite_unmarshal_failed", "error", err)
		return err
	}
	if payload.OldCode == "" || payload.NewCode == "" {
		logger.Debugw("worker_sku_rewrite_skip_invalid_payload", "category_id", payload.CategoryID)
		return nil
	}
	if c.Container == nil || c.SKURewriteJob == nil {
		logger.Warnw("worker_sku_rewrite_skip_job_nil", "category_id", payload.CategoryID)
		return nil
	}
	stats, err := c.SKURewriteJob.Run(ctx, payload)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warnw("worker_sku_rewrite_cancelled", "category_id", payload.CategoryID, "rewritten", stats.Rewritten)
		}
		return err
	}
	logger.Infow("worker_sku_rewrite_done",
		"category_id", payload.CategoryID,
		"old_code", payload.OldCode,
		"new_code", payload.NewCode,
		"rewritten", stats.Rewritten,
		"skipped", stats.Skipped,
	)
	return nil
}
