package repository

import (
	"errors"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
)

// ItemRepository 商品数据访问接口
type ItemRepository interface {
	List(filter ItemListFilter) ([]models.Item, int64, error)
	GetBySKU(sku string) (*models.Item, error)
	GetBySKUForUpdate(sku string) (*models.Item, error)
	Create(item *models.Item) error
	Update(item *models.Item) error
	Delete(sku string) error
	CountBySKU(sku string) (int64, error)
	CountByCategory(category string) (int64, error)
	ListSKUsByPrefix(prefix string, afterSKU string, limit int) ([]string, error)
	RenameCategory(oldName, newName string) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ItemRepository
}

// GormItemRepository GORM 实现
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓库
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormItemRepository) WithTx(tx *gorm.DB) ItemRepository {
	if tx == nil {
		return r
	}
	return &GormItemRepository{db: tx}
}

// Transaction 执行事务
func (r *GormItemRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormItemRepository) List(filter ItemListFilter) ([]models.Item, int64, error) {
	var items []models.Item

	query := r.db.Model(&models.Item{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.LowStock {
		query = query.Where("stock_level <= reorder_point")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := buildLikeCondition(r.db, search, "sku", "name", "description")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("category ASC, sku ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetBySKU 根据 SKU 获取商品（含颜色、尺码）
func (r *GormItemRepository) GetBySKU(sku string) (*models.Item, error) {
	var item models.Item
	query := r.db.
		Preload("Colors", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		})
	if err := query.Where("sku = ?", sku).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetBySKUForUpdate 在事务内锁定商品行
func (r *GormItemRepository) GetBySKUForUpdate(sku string) (*models.Item, error) {
	var item models.Item
	if err := lockForUpdate(r.db).Where("sku = ?", sku).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建商品
func (r *GormItemRepository) Create(item *models.Item) error {
	return r.db.Omit("Colors", "Sizes").Create(item).Error
}

// Update 更新商品（不含库存字段，库存只能通过同步更新）
func (r *GormItemRepository) Update(item *models.Item) error {
	return r.db.Model(&models.Item{}).Where("sku = ?", item.SKU).Select(
		"name", "description", "category", "cost_price", "retail_price", "reorder_point",
		"package_weight_oz", "package_length_in", "package_width_in", "package_height_in",
		"image_path", "is_active", "updated_at",
	).Updates(item).Error
}

// Delete 删除商品及其颜色、尺码
func (r *GormItemRepository) Delete(sku string) error {
	if err := r.db.Where("item_sku = ?", sku).Delete(&models.ItemSize{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("item_sku = ?", sku).Delete(&models.ItemColor{}).Error; err != nil {
		return err
	}
	return r.db.Where("sku = ?", sku).Delete(&models.Item{}).Error
}

// CountBySKU 统计 SKU 数量
func (r *GormItemRepository) CountBySKU(sku string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Item{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory 统计分类下商品数
func (r *GormItemRepository) CountByCategory(category string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Item{}).Where("category = ?", category).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListSKUsByPrefix 按前缀分页列出 SKU（游标为上一批最后一个 SKU）
func (r *GormItemRepository) ListSKUsByPrefix(prefix string, afterSKU string, limit int) ([]string, error) {
	var skus []string
	query := r.db.Model(&models.Item{}).Where("sku LIKE ?", prefix+"%")
	if afterSKU != "" {
		query = query.Where("sku > ?", afterSKU)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("sku ASC").Pluck("sku", &skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// RenameCategory 分类改名时同步商品上的分类名称
func (r *GormItemRepository) RenameCategory(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	return r.db.Model(&models.Item{}).Where("category = ?", oldName).Update("category", newName).Error
}
