package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuggestionRepository 营销与定价建议数据访问接口
type SuggestionRepository interface {
	GetMarketing(sku string) (*models.MarketingSuggestion, error)
	UpsertMarketing(suggestion *models.MarketingSuggestion) error
	GetPricing(sku, kind string) (*models.PricingSuggestion, error)
	ListPricing(sku string) ([]models.PricingSuggestion, error)
	UpsertPricing(suggestion *models.PricingSuggestion) error
}

// GormSuggestionRepository GORM 实现
type GormSuggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository 创建建议仓库
func NewSuggestionRepository(db *gorm.DB) *GormSuggestionRepository {
	return &GormSuggestionRepository{db: db}
}

// GetMarketing 获取营销建议
func (r *GormSuggestionRepository) GetMarketing(sku string) (*models.MarketingSuggestion, error) {
	var suggestion models.MarketingSuggestion
	if err := r.db.Where("sku = ?", sku).First(&suggestion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &suggestion, nil
}

// UpsertMarketing 整体覆盖 SKU 的营销建议
func (r *GormSuggestionRepository) UpsertMarketing(suggestion *models.MarketingSuggestion) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"suggested_title", "suggested_description", "keywords", "selling_points", "seo_keywords",
			"target_audience", "call_to_action", "confidence", "source", "provider", "model", "updated_at",
		}),
	}).Create(suggestion).Error
}

// GetPricing 获取某类定价建议
func (r *GormSuggestionRepository) GetPricing(sku, kind string) (*models.PricingSuggestion, error) {
	var suggestion models.PricingSuggestion
	if err := r.db.Where("sku = ? AND kind = ?", sku, kind).First(&suggestion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &suggestion, nil
}

// ListPricing 获取 SKU 全部定价建议
func (r *GormSuggestionRepository) ListPricing(sku string) ([]models.PricingSuggestion, error) {
	var suggestions []models.PricingSuggestion
	if err := r.db.Where("sku = ?", sku).Order("kind ASC").Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

// UpsertPricing 按 (sku, kind) 覆盖定价建议
func (r *GormSuggestionRepository) UpsertPricing(suggestion *models.PricingSuggestion) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"suggested_amount", "components", "reasoning", "confidence", "source", "updated_at",
		}),
	}).Create(suggestion).Error
}
