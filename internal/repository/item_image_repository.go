package repository

import (
	"errors"

	"github.com/whimsicalfrog/wf-admin/internal/models"

	"gorm.io/gorm"
)

// ItemImageRepository 商品图片数据访问接口
type ItemImageRepository interface {
	ListBySKU(sku string) ([]models.ItemImage, error)
	GetByPath(sku, imagePath string) (*models.ItemImage, error)
	Save(image *models.ItemImage) error
	ListReferencedPaths() ([]string, error)
}

// GormItemImageRepository GORM 实现
type GormItemImageRepository struct {
	db *gorm.DB
}

// NewItemImageRepository 创建商品图片仓库
func NewItemImageRepository(db *gorm.DB) *GormItemImageRepository {
	return &GormItemImageRepository{db: db}
}

// ListBySKU 获取 SKU 的图片
func (r *GormItemImageRepository) ListBySKU(sku string) ([]models.ItemImage, error) {
	var images []models.ItemImage
	if err := r.db.Where("sku = ?", sku).Order("is_primary DESC, id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// GetByPath 根据处理后路径获取图片记录
func (r *GormItemImageRepository) GetByPath(sku, imagePath string) (*models.ItemImage, error) {
	var image models.ItemImage
	if err := r.db.Where("sku = ? AND image_path = ?", sku, imagePath).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// Save 创建或更新图片记录
func (r *GormItemImageRepository) Save(image *models.ItemImage) error {
	return r.db.Save(image).Error
}

// ListReferencedPaths 汇总数据库中引用的全部图片路径（未规范化）
func (r *GormItemImageRepository) ListReferencedPaths() ([]string, error) {
	sources := []struct {
		model  interface{}
		column string
	}{
		{model: &models.Item{}, column: "image_path"},
		{model: &models.ItemColor{}, column: "image_path"},
		{model: &models.ItemImage{}, column: "image_path"},
		{model: &models.ItemImage{}, column: "original_path"},
	}

	paths := make([]string, 0)
	for _, source := range sources {
		var batch []string
		if err := r.db.Model(source.model).
			Where(source.column+" <> ?", "").
			Distinct(source.column).
			Pluck(source.column, &batch).Error; err != nil {
			return nil, err
		}
		paths = append(paths, batch...)
	}

	var values []string
	if err := r.db.Model(&models.BusinessSetting{}).
		Where("setting_value <> ?", "").
		Pluck("setting_value", &values).Error; err != nil {
		return nil, err
	}
	return append(paths, values...), nil
}
