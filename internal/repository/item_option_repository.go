package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
)

// ItemOptionRepository 商品颜色/尺码与库存汇总数据访问接口
type ItemOptionRepository interface {
	ListColors(sku string, onlyActive bool) ([]models.ItemColor, error)
	GetColor(sku string, id uint) (*models.ItemColor, error)
	CreateColor(color *models.ItemColor) error
	UpdateColor(color *models.ItemColor) error
	DeleteColor(sku string, id uint) error
	ListSizes(sku string, colorID *uint, onlyActive bool) ([]models.ItemSize, error)
	GetSize(sku string, id uint) (*models.ItemSize, error)
	CreateSize(size *models.ItemSize) error
	UpdateSize(size *models.ItemSize) error
	DeleteSize(sku string, id uint) error
	SyncColorStockFromSizes(colorID uint) error
	SyncTotalStock(sku string) (int, error)
	WithTx(tx *gorm.DB) ItemOptionRepository
}

// GormItemOptionRepository GORM 实现
type GormItemOptionRepository struct {
	db *gorm.DB
}

// NewItemOptionRepository 创建颜色/尺码仓库
func NewItemOptionRepository(db *gorm.DB) *GormItemOptionRepository {
	return &GormItemOptionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormItemOptionRepository) WithTx(tx *gorm.DB) ItemOptionRepository {
	if tx == nil {
		return r
	}
	return &GormItemOptionRepository{db: tx}
}

// ListColors 颜色列表
func (r *GormItemOptionRepository) ListColors(sku string, onlyActive bool) ([]models.ItemColor, error) {
	var colors []models.ItemColor
	query := r.db.Where("item_sku = ?", sku)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("display_order ASC, id ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

// GetColor 获取颜色（限定 SKU）
func (r *GormItemOptionRepository) GetColor(sku string, id uint) (*models.ItemColor, error) {
	var color models.ItemColor
	if err := r.db.Where("id = ? AND item_sku = ?", id, sku).First(&color).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &color, nil
}

// CreateColor 创建颜色
func (r *GormItemOptionRepository) CreateColor(color *models.ItemColor) error {
	return r.db.Create(color).Error
}

// UpdateColor 更新颜色
func (r *GormItemOptionRepository) UpdateColor(color *models.ItemColor) error {
	return r.db.Save(color).Error
}

// DeleteColor 删除颜色，并解除尺码绑定
func (r *GormItemOptionRepository) DeleteColor(sku string, id uint) error {
	if err := r.db.Model(&models.ItemSize{}).
		Where("item_sku = ? AND color_id = ?", sku, id).
		Update("color_id", nil).Error; err != nil {
		return err
	}
	return r.db.Where("id = ? AND item_sku = ?", id, sku).Delete(&models.ItemColor{}).Error
}

// ListSizes 尺码列表，colorID 非空时按颜色过滤
func (r *GormItemOptionRepository) ListSizes(sku string, colorID *uint, onlyActive bool) ([]models.ItemSize, error) {
	var sizes []models.ItemSize
	query := r.db.Where("item_sku = ?", sku)
	if colorID != nil {
		query = query.Where("color_id = ?", *colorID)
	}
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("display_order ASC, id ASC").Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

// GetSize 获取尺码（限定 SKU）
func (r *GormItemOptionRepository) GetSize(sku string, id uint) (*models.ItemSize, error) {
	var size models.ItemSize
	if err := r.db.Where("id = ? AND item_sku = ?", id, sku).First(&size).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &size, nil
}

// CreateSize 创建尺码
func (r *GormItemOptionRepository) CreateSize(size *models.ItemSize) error {
	return r.db.Create(size).Error
}

// UpdateSize 更新尺码
func (r *GormItemOptionRepository) UpdateSize(size *models.ItemSize) error {
	return r.db.Save(size).Error
}

// DeleteSize 删除尺码
func (r *GormItemOptionRepository) DeleteSize(sku string, id uint) error {
	return r.db.Where("id = ? AND item_sku = ?", id, sku).Delete(&models.ItemSize{}).Error
}

// SyncColorStockFromSizes 颜色库存 = 绑定该颜色的启用尺码库存之和
// 颜色下已没有任何尺码时保留其手工库存
func (r *GormItemOptionRepository) SyncColorStockFromSizes(colorID uint) error {
	const sumSizesSQL = "(SELECT COALESCE(SUM(item_sizes.stock_level), 0) FROM item_sizes WHERE item_sizes.color_id = ? AND item_sizes.is_active = ?)"
	const hasSizesSQL = "EXISTS (SELECT 1 FROM item_sizes WHERE item_sizes.color_id = ?)"
	return r.db.Model(&models.ItemColor{}).
		Where("id = ?", colorID).
		Where(hasSizesSQL, colorID).
		Update("stock_level", gorm.Expr(sumSizesSQL, colorID, true)).Error
}

// SyncTotalStock 以单条 UPDATE 重算商品总库存并递增版本号，返回新库存
// 有启用颜色（或没有启用尺码）时取颜色之和，否则取尺码之和
func (r *GormItemOptionRepository) SyncTotalStock(sku string) (int, error) {
	const activeColorCountSQL = "(SELECT COUNT(*) FROM item_colors WHERE item_colors.item_sku = ? AND item_colors.is_active = ?)"
	const activeSizeCountSQL = "(SELECT COUNT(*) FROM item_sizes WHERE item_sizes.item_sku = ? AND item_sizes.is_active = ?)"
	const sumColorsSQL = "(SELECT COALESCE(SUM(item_colors.stock_level), 0) FROM item_colors WHERE item_colors.item_sku = ? AND item_colors.is_active = ?)"
	const sumSizesSQL = "(SELECT COALESCE(SUM(item_sizes.stock_level), 0) FROM item_sizes WHERE item_sizes.item_sku = ? AND item_sizes.is_active = ?)"
	expr := "CASE WHEN " + activeColorCountSQL + " > 0 OR " + activeSizeCountSQL + " = 0 THEN " + sumColorsSQL + " ELSE " + sumSizesSQL + " END"

	result := r.db.Model(&models.Item{}).Where("sku = ?", sku).Updates(map[string]interface{}{
		"stock_level":   gorm.Expr(expr, sku, true, sku, true, sku, true, sku, true),
		"stock_version": gorm.Expr("stock_version + 1"),
	})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var stock int
	if err := r.db.Model(&models.Item{}).Where("sku = ?", sku).Select("stock_level").Scan(&stock).Error; err != nil {
		return 0, err
	}
	return stock, nil
}
