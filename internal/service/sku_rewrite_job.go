package service

import (
	"context"
	"strings"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/queue"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

const defaultSKURewriteBatchSize = 50

// SKURewriteJob 分类编码变更后批量改写 SKU
type SKURewriteJob struct {
	itemRepo    repository.ItemRepository
	rewriteRepo repository.SKURewriteRepository
	metrics     *metrics.Collector
	batchSize   int
}

// SKURewriteStats 改写统计
type SKURewriteStats struct {
	Rewritten int `json:"rewritten"`
	Skipped   int `json:"skipped"`
	Batches   int `json:"batches"`
}

// NewSKURewriteJob 创建 SKU 改写任务
func NewSKURewriteJob(itemRepo repository.ItemRepository, rewriteRepo repository.SKURewriteRepository, collector *metrics.Collector, batchSize int) *SKURewriteJob {
	if batchSize <= 0 {
		batchSize = defaultSKURewriteBatchSize
	}
	return &SKURewriteJob{
		itemRepo:    itemRepo,
		rewriteRepo: rewriteRepo,
		metrics:     collector,
		batchSize:   batchSize,
	}
}

// Run 按批次改写，每批一次提交；目标 SKU 已存在时跳过
func (j *SKURewriteJob) Run(ctx context.Context, payload queue.CategorySKURewritePayload) (stats SKURewriteStats, err error) {
	started := time.Now()
	defer func() {
		j.metrics.ObserveJob(constants.JobSKURewrite, time.Since(started), err)
		j.metrics.AddJobRecords(constants.JobSKURewrite, "rewritten", stats.Rewritten)
		j.metrics.AddJobRecords(constants.JobSKURewrite, "skipped", stats.Skipped)
	}()

	oldCode := strings.ToUpper(strings.TrimSpace(payload.OldCode))
	newCode := strings.ToUpper(strings.TrimSpace(payload.NewCode))
	if oldCode == "" || newCode == "" || oldCode == newCode {
		return stats, nil
	}
	oldPrefix := skuPrefix(oldCode)
	newPrefix := skuPrefix(newCode)
	log := logger.SW("job", constants.JobSKURewrite, "category_id", payload.CategoryID, "old_code", oldCode, "new_code", newCode)

	cursor := ""
	for {
		if err = ctx.Err(); err != nil {
			log.Warnw("sku_rewrite_cancelled", "rewritten", stats.Rewritten, "error", err)
			return stats, err
		}
		var skus []string
		skus, err = j.itemRepo.ListSKUsByPrefix(oldPrefix, cursor, j.batchSize)
		if err != nil {
			log.Errorw("sku_rewrite_list_failed", "cursor", cursor, "error", err)
			return stats, err
		}
		if len(skus) == 0 {
			break
		}

		rewritten, skipped := 0, 0
		err = j.itemRepo.Transaction(func(tx *gorm.DB) error {
			repo := j.rewriteRepo.WithTx(tx)
			for _, oldSKU := range skus {
				newSKU := newPrefix + strings.TrimPrefix(oldSKU, oldPrefix)
				ok, err := repo.RewriteSKU(oldSKU, newSKU)
				if err != nil {
					return err
				}
				if !ok {
					skipped++
					log.Warnw("sku_rewrite_conflict_skipped", "old_sku", oldSKU, "new_sku", newSKU)
					continue
				}
				rewritten++
			}
			return nil
		})
		if err != nil {
			log.Errorw("sku_rewrite_batch_failed", "cursor", cursor, "error", err)
			return stats, err
		}
		stats.Batches++
		stats.Rewritten += rewritten
		stats.Skipped += skipped
		cursor = skus[len(skus)-1]
		if len(skus) < j.batchSize {
			break
		}
	}
	log.Infow("sku_rewrite_completed", "rewritten", stats.Rewritten, "skipped", stats.Skipped, "batches", stats.Batches)
	return stats, nil
}
