package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/queue"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

var categoryCodePattern = regexp.MustCompile(`^[A-Z]{2,4}$`)

// SKU 改写派发方式
const (
	SKURewriteQueued     = "queued"
	SKURewriteBackground = "background"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo        repository.CategoryRepository
	itemRepo    repository.ItemRepository
	cascadeRepo repository.CascadeSettingRepository
	roomRepo    repository.RoomRepository
	queueClient *queue.Client
	rewriteJob  *SKURewriteJob
	detach      func(fn func())
}

// NewCategoryService 创建分类服务
func NewCategoryService(
	repo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	cascadeRepo repository.CascadeSettingRepository,
	roomRepo repository.RoomRepository,
	queueClient *queue.Client,
	rewriteJob *SKURewriteJob,
) *CategoryService {
	return &CategoryService{
		repo:        repo,
		itemRepo:    itemRepo,
		cascadeRepo: cascadeRepo,
		roomRepo:    roomRepo,
		queueClient: queueClient,
		rewriteJob:  rewriteJob,
		detach:      func(fn func()) { go fn() },
	}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name         string
	Code         string
	Description  string
	DisplayOrder int
}

// CategoryUpdateResult 分类更新结果
type CategoryUpdateResult struct {
	Category   *models.Category `json:"category"`
	SKURewrite string           `json:"sku_rewrite,omitempty"`
}

// List 获取分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Get 获取分类
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	input, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(input, 0); err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:         input.Name,
		Code:         input.Code,
		Description:  input.Description,
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
// 改名同步到商品与分类级联设置；改编码派发 SKU 改写任务
func (s *CategoryService) Update(id uint, input CategoryInput) (*CategoryUpdateResult, error) {
	input, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(input, id); err != nil {
		return nil, err
	}

	oldName, oldCode := category.Name, category.Code
	category.Name = input.Name
	category.Code = input.Code
	category.Description = input.Description
	category.DisplayOrder = input.DisplayOrder

	err = s.itemRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(category); err != nil {
			return err
		}
		if oldName == category.Name {
			return nil
		}
		if err := s.itemRepo.WithTx(tx).RenameCategory(oldName, category.Name); err != nil {
			return err
		}
		return s.cascadeRepo.WithTx(tx).RenameScopeKey(constants.CascadeScopeCategory, oldName, category.Name)
	})
	if err != nil {
		return nil, err
	}

	result := &CategoryUpdateResult{Category: category}
	if oldCode != category.Code {
		mode, err := s.dispatchSKURewrite(queue.CategorySKURewritePayload{
			CategoryID: category.ID,
			OldCode:    oldCode,
			NewCode:    category.Code,
		})
		if err != nil {
			return nil, err
		}
		result.SKURewrite = mode
	}
	return result, nil
}

// Delete 删除分类，仍有商品时拒绝
func (s *CategoryService) Delete(id uint) error {
	category, err := s.Get(id)
	if err != nil {
		return err
	}
	count, err := s.itemRepo.CountByCategory(category.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.itemRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.roomRepo.WithTx(tx).DeleteByCategory(category.ID); err != nil {
			return err
		}
		if _, err := s.cascadeRepo.WithTx(tx).Delete(constants.CascadeScopeCategory, category.Name); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(category.ID)
	})
}

// dispatchSKURewrite 队列可用时入队，否则在响应后于后台协程执行
func (s *CategoryService) dispatchSKURewrite(payload queue.CategorySKURewritePayload) (string, error) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueCategorySKURewrite(payload)
		if err == nil {
			return SKURewriteQueued, nil
		}
		logger.Warnw("sku_rewrite_enqueue_failed", "category_id", payload.CategoryID, "error", err)
	}
	if s.rewriteJob == nil {
		return "", ErrSKURewriteEnqueueFail
	}
	s.detach(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("sku_rewrite_panic", "category_id", payload.CategoryID, "panic", r)
			}
		}()
		if _, err := s.rewriteJob.Run(context.Background(), payload); err != nil {
			logger.Errorw("sku_rewrite_background_failed", "category_id", payload.CategoryID, "error", err)
		}
	})
	return SKURewriteBackground, nil
}

func (s *CategoryService) ensureUnique(input CategoryInput, excludeID uint) error {
	count, err := s.repo.CountByName(input.Name, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryExists
	}
	count, err = s.repo.CountByCode(input.Code, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryExists
	}
	return nil
}

func normalizeCategoryInput(input CategoryInput) (CategoryInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" {
		return input, newValidationError("name", "required")
	}
	if !categoryCodePattern.MatchString(input.Code) {
		return input, newValidationError("code", "must be 2-4 letters")
	}
	if input.DisplayOrder < 0 {
		return input, newValidationError("display_order", "must be >= 0")
	}
	return input, nil
}
