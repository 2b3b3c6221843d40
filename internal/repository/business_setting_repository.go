package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BusinessSettingRepository 业务设置数据访问接口
type BusinessSettingRepository interface {
	ListByCategory(category string) ([]models.BusinessSetting, error)
	ListAll() ([]models.BusinessSetting, error)
	Get(category, key string) (*models.BusinessSetting, error)
	Upsert(setting *models.BusinessSetting) error
}

// GormBusinessSettingRepository GORM 实现
type GormBusinessSettingRepository struct {
	db *gorm.DB
}

// NewBusinessSettingRepository 创建业务设置仓库
func NewBusinessSettingRepository(db *gorm.DB) *GormBusinessSettingRepository {
	return &GormBusinessSettingRepository{db: db}
}

// ListByCategory 获取分类下全部设置
func (r *GormBusinessSettingRepository) ListByCategory(category string) ([]models.BusinessSetting, error) {
	var settings []models.BusinessSetting
	if err := r.db.Where("category = ?", category).Order("setting_key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// ListAll 获取全部设置
func (r *GormBusinessSettingRepository) ListAll() ([]models.BusinessSetting, error) {
	var settings []models.BusinessSetting
	if err := r.db.Order("category ASC, setting_key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Get 获取单个设置
func (r *GormBusinessSettingRepository) Get(category, key string) (*models.BusinessSetting, error) {
	var setting models.BusinessSetting
	if err := r.db.Where("category = ? AND setting_key = ?", category, key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert 按 (category, setting_key) 写入设置
func (r *GormBusinessSettingRepository) Upsert(setting *models.BusinessSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "setting_type", "display_name", "description", "updated_at"}),
	}).Create(setting).Error
}
