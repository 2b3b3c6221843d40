package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/provider"
	"github.com/whimsicalfrog/wf-admin/internal/queue"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	job := service.NewSKURewriteJob(
		repository.NewItemRepository(db),
		repository.NewSKURewriteRepository(db),
		metrics.NewCollector(nil),
		2,
	)
	return NewConsumer(&provider.Container{SKURewriteJob: job}), db
}

func TestHandleCategorySKURewrite(t *testing.T) {
	consumer, db := setupConsumer(t)
	for _, sku := range []string{"WF-TS-001", "WF-TS-002", "WF-TS-003", "WF-MG-001"} {
		if err := db.Create(&models.Item{SKU: sku, Name: sku, IsActive: true}).Error; err != nil {
			t.Fatalf("seed item failed: %v", err)
		}
	}

	task, err := queue.NewCategorySKURewriteTask(queue.CategorySKURewritePayload{CategoryID: 1, OldCode: "TS", NewCode: "TE"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleCategorySKURewrite(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Item{}).Where("sku LIKE ?", "WF-TE-%").Count(&count).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rewritten skus, got %d", count)
	}
	var untouched models.Item
	if err := db.First(&untouched, "sku = ?", "WF-MG-001").Error; err != nil {
		t.Fatalf("other category item changed: %v", err)
	}
}

func TestHandleCategorySKURewriteInvalidPayload(t *testing.T) {
	consumer, _ := setupConsumer(t)
	if err := consumer.handleCategorySKURewrite(context.Background(), asynq.NewTask(queue.TaskCategorySKURewrite, []byte("{"))); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	empty := asynq.NewTask(queue.TaskCategorySKURewrite, []byte(`{"category_id":1}`))
	if err := consumer.handleCategorySKURewrite(context.Background(), empty); err != nil {
		t.Fatalf("empty codes should be skipped: %v", err)
	}
}

func TestHandleCategorySKURewriteNilJob(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, _ := queue.NewCategorySKURewriteTask(queue.CategorySKURewritePayload{OldCode: "TS", NewCode: "TE"})
	if err := consumer.handleCategorySKURewrite(context.Background(), task); err != nil {
		t.Fatalf("nil job should be skipped: %v", err)
	}
}

func TestConsumerRegister(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	tasks := consumer.Register(asynq.NewServeMux())
	if len(tasks) != 1 || tasks[0] != queue.TaskCategorySKURewrite {
		t.Fatalf("unexpected tasks: %v", tasks)
	}
	var nilConsumer *Consumer
	if got := nilConsumer.Register(asynq.NewServeMux()); got != nil {
		t.Fatalf("nil consumer should register nothing, got %v", got)
	}
}

func TestNewServiceQueueDisabled(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(&provider.Container{})); err == nil {
		t.Fatalf("expected error when queue disabled")
	}
}
