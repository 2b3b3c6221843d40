package queue

import (
	"errors"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/config"
)

func TestDisabledClient(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	err = client.EnqueueCategorySKURewrite(CategorySKURewritePayload{CategoryID: 1, OldCode: "TS", NewCode: "TE"})
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client: %v", err)
	}
}

func TestSKURewriteTaskIDNormalizesCase(t *testing.T) {
	a := skuRewriteTaskID(CategorySKURewritePayload{CategoryID: 3, OldCode: "ts", NewCode: "te"})
	b := skuRewriteTaskID(CategorySKURewritePayload{CategoryID: 3, OldCode: "TS", NewCode: "TE"})
	if a != b {
		t.Fatalf("task ids differ: %s vs %s", a, b)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 8})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 8 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}

	opt, cfg = BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" || cfg.Concurrency != 4 {
		t.Fatalf("unexpected defaults: %+v %+v", opt, cfg)
	}
}

func TestParseCategorySKURewritePayload(t *testing.T) {
	task, err := NewCategorySKURewriteTask(CategorySKURewritePayload{CategoryID: 5, OldCode: "AR", NewCode: "AX"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	payload, err := ParseCategorySKURewritePayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.CategoryID != 5 || payload.OldCode != "AR" || payload.NewCode != "AX" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
