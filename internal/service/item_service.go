package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemService 商品业务服务
type ItemService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
}

// NewItemService 创建商品服务
func NewItemService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository) *ItemService {
	return &ItemService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
	}
}

// ItemInput 创建/更新商品输入
// SKU 为空时按分类编码生成 WF-<CODE>-NNN
type ItemInput struct {
	SKU             string
	Name            string
	Description     string
	Category        string
	CostPrice       models.Money
	RetailPrice     models.Money
	ReorderPoint    *int
	PackageWeightOz *decimal.Decimal
	PackageLengthIn *decimal.Decimal
	PackageWidthIn  *decimal.Decimal
	PackageHeightIn *decimal.Decimal
	ImagePath       string
	IsActive        *bool
}

// List 商品列表
func (s *ItemService) List(filter repository.ItemListFilter) ([]models.Item, int64, error) {
	return s.itemRepo.List(filter)
}

// Get 获取商品详情
func (s *ItemService) Get(sku string) (*models.Item, error) {
	item, err := s.itemRepo.GetBySKU(strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Create 创建商品
func (s *ItemService) Create(input ItemInput) (*models.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(input.Category)
	if err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		if category == nil {
			return nil, newValidationError("category", "required to generate sku")
		}
		sku, err = s.NextSKU(category.Code)
		if err != nil {
			return nil, err
		}
	} else {
		count, err := s.itemRepo.CountBySKU(sku)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrItemExists
		}
	}

	item := &models.Item{
		SKU:      sku,
		IsActive: true,
	}
	applyItemInput(item, input)
	if category != nil {
		item.Category = category.Name
	}
	if input.ReorderPoint == nil {
		item.ReorderPoint = 5
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return s.Get(sku)
}

// Update 更新商品基础信息，库存字段只由同步维护
func (s *ItemService) Update(sku string, input ItemInput) (*models.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item, err := s.Get(sku)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(input.Category)
	if err != nil {
		return nil, err
	}
	applyItemInput(item, input)
	if category != nil {
		item.Category = category.Name
	}
	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return s.Get(item.SKU)
}

// Delete 删除商品（连同颜色、尺码）
func (s *ItemService) Delete(sku string) error {
	sku = strings.TrimSpace(sku)
	return s.itemRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.itemRepo.WithTx(tx)
		item, err := repo.GetBySKUForUpdate(sku)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
		return repo.Delete(sku)
	})
}

// NextSKU 生成分类下的下一个 SKU
func (s *ItemService) NextSKU(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", newValidationError("category", "has no sku code")
	}
	prefix := skuPrefix(code)
	skus, err := s.itemRepo.ListSKUsByPrefix(prefix, "", 0)
	if err != nil {
		return "", err
	}
	next := 1
	for _, sku := range skus {
		n, err := strconv.Atoi(strings.TrimPrefix(sku, prefix))
		if err != nil {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, constants.SKUSequenceDigits, next), nil
}

func (s *ItemService) resolveCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func skuPrefix(code string) string {
	return constants.SKUPrefix + "-" + code + "-"
}

func validateItemInput(input ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return newValidationError("name", "required")
	}
	if input.CostPrice.IsNegative() {
		return newValidationError("cost_price", "must be >= 0")
	}
	if input.RetailPrice.IsNegative() {
		return newValidationError("retail_price", "must be >= 0")
	}
	if input.ReorderPoint != nil && *input.ReorderPoint < 0 {
		return newValidationError("reorder_point", "must be >= 0")
	}
	dims := map[string]*decimal.Decimal{
		"package_weight_oz": input.PackageWeightOz,
		"package_length_in": input.PackageLengthIn,
		"package_width_in":  input.PackageWidthIn,
		"package_height_in": input.PackageHeightIn,
	}
	for field, value := range dims {
		if value != nil && value.IsNegative() {
			return newValidationError(field, "must be >= 0")
		}
	}
	return nil
}

func applyItemInput(item *models.Item, input ItemInput) {
	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)
	item.CostPrice = input.CostPrice
	item.RetailPrice = input.RetailPrice
	item.PackageWeightOz = input.PackageWeightOz
	item.PackageLengthIn = input.PackageLengthIn
	item.PackageWidthIn = input.PackageWidthIn
	item.PackageHeightIn = input.PackageHeightIn
	item.ImagePath = strings.TrimSpace(input.ImagePath)
	if input.ReorderPoint != nil {
		item.ReorderPoint = *input.ReorderPoint
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
}
