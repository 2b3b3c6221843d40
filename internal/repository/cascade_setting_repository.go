package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CascadeSettingRepository 选项级联设置数据访问接口
type CascadeSettingRepository interface {
	Get(scopeType, scopeKey string) (*models.CascadeSetting, error)
	Upsert(setting *models.CascadeSetting) error
	Delete(scopeType, scopeKey string) (bool, error)
	RenameScopeKey(scopeType, oldKey, newKey string) error
	WithTx(tx *gorm.DB) CascadeSettingRepository
}

// GormCascadeSettingRepository GORM 实现
type GormCascadeSettingRepository struct {
	db *gorm.DB
}

// NewCascadeSettingRepository 创建级联设置仓库
func NewCascadeSettingRepository(db *gorm.DB) *GormCascadeSettingRepository {
	return &GormCascadeSettingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCascadeSettingRepository) WithTx(tx *gorm.DB) CascadeSettingRepository {
	if tx == nil {
		return r
	}
	return &GormCascadeSettingRepository{db: tx}
}

// Get 获取某作用域的覆盖配置
func (r *GormCascadeSettingRepository) Get(scopeType, scopeKey string) (*models.CascadeSetting, error) {
	var setting models.CascadeSetting
	if err := r.db.Where("scope_type = ? AND scope_key = ?", scopeType, scopeKey).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert 按作用域写入覆盖配置
func (r *GormCascadeSettingRepository) Upsert(setting *models.CascadeSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope_type"}, {Name: "scope_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled_dimensions", "cascade_order", "grouping_rules", "updated_at"}),
	}).Create(setting).Error
}

// Delete 删除覆盖配置，返回是否存在
func (r *GormCascadeSettingRepository) Delete(scopeType, scopeKey string) (bool, error) {
	result := r.db.Where("scope_type = ? AND scope_key = ?", scopeType, scopeKey).Delete(&models.CascadeSetting{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RenameScopeKey 同步作用域键（SKU 或分类改名）
func (r *GormCascadeSettingRepository) RenameScopeKey(scopeType, oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}
	return r.db.Model(&models.CascadeSetting{}).
		Where("scope_type = ? AND scope_key = ?", scopeType, oldKey).
		Update("scope_key", newKey).Error
}
