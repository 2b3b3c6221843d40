package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const skuRewriteTimeout = 10 * time.Minute

// ErrDisabled 队列未启用
var ErrDisabled = errors.New("queue disabled")

// Client 任务投递客户端，未启用队列时所有投递返回 ErrDisabled
type Client struct {
	inner *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueCategorySKURewrite 投递 SKU 改写任务
// 同一分类同一对编码只保留一个待执行任务，重复投递视为成功
func (c *Client) EnqueueCategorySKURewrite(payload CategorySKURewritePayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	task, err := NewCategorySKURewriteTask(payload)
	if err != nil {
		return err
	}
	base := []asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(0),
		asynq.Timeout(skuRewriteTimeout),
		asynq.TaskID(skuRewriteTaskID(payload)),
	}
	_, err = c.inner.Enqueue(task, append(base, opts...)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func skuRewriteTaskID(payload CategorySKURewritePayload) string {
	return fmt.Sprintf("%s:%d:%s:%s", TaskCategorySKURewrite, payload.CategoryID,
		strings.ToUpper(payload.OldCode), strings.ToUpper(payload.NewCode))
}

// BuildServerConfig 生成消费端配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 4,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
