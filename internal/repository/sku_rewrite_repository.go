package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SKURewriteRepository 跨表改写 SKU 的数据访问接口
type SKURewriteRepository interface {
	RewriteSKU(oldSKU, newSKU string) (bool, error)
	WithTx(tx *gorm.DB) SKURewriteRepository
}

// GormSKURewriteRepository GORM 实现
type GormSKURewriteRepository struct {
	db *gorm.DB
}

// NewSKURewriteRepository 创建 SKU 改写仓库
func NewSKURewriteRepository(db *gorm.DB) *GormSKURewriteRepository {
	return &GormSKURewriteRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSKURewriteRepository) WithTx(tx *gorm.DB) SKURewriteRepository {
	if tx == nil {
		return r
	}
	return &GormSKURewriteRepository{db: tx}
}

// RewriteSKU 将 oldSKU 在所有引用表中改为 newSKU
// 先插入新商品行，再迁移子表引用，最后删除旧行，外键约束全程成立
// newSKU 已存在或 oldSKU 不存在时不做任何修改并返回 false
func (r *GormSKURewriteRepository) RewriteSKU(oldSKU, newSKU string) (bool, error) {
	if oldSKU == newSKU {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.Item{}).Where("sku = ?", newSKU).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	var item models.Item
	if err := r.db.Where("sku = ?", oldSKU).Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	item.SKU = newSKU
	if err := r.db.Select("*").Omit(clause.Associations).Create(&item).Error; err != nil {
		return false, err
	}

	updates := []struct {
		model  interface{}
		column string
	}{
		{model: &models.ItemColor{}, column: "item_sku"},
		{model: &models.ItemSize{}, column: "item_sku"},
		{model: &models.OrderItem{}, column: "sku"},
		{model: &models.ItemImage{}, column: "sku"},
		{model: &models.MarketingSuggestion{}, column: "sku"},
		{model: &models.PricingSuggestion{}, column: "sku"},
	}
	for _, u := range updates {
		if err := r.db.Model(u.model).Where(u.column+" = ?", oldSKU).Update(u.column, newSKU).Error; err != nil {
			return false, err
		}
	}
	if err := r.db.Model(&models.CascadeSetting{}).
		Where("scope_type = ? AND scope_key = ?", constants.CascadeScopeSKU, oldSKU).
		Update("scope_key", newSKU).Error; err != nil {
		return false, err
	}
	if err := r.db.Where("sku = ?", oldSKU).Delete(&models.Item{}).Error; err != nil {
		return false, err
	}
	return true, nil
}
