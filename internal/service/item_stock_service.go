package service

import (
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

// ItemStockService 颜色/尺码库存服务
// 每次变更在同一事务内重算商品总库存
type ItemStockService struct {
	itemRepo   repository.ItemRepository
	optionRepo repository.ItemOptionRepository
}

// NewItemStockService 创建库存服务
func NewItemStockService(itemRepo repository.ItemRepository, optionRepo repository.ItemOptionRepository) *ItemStockService {
	return &ItemStockService{
		itemRepo:   itemRepo,
		optionRepo: optionRepo,
	}
}

// ColorInput 颜色输入
type ColorInput struct {
	ColorName    string
	ColorCode    string
	ImagePath    string
	StockLevel   *int
	DisplayOrder *int
	IsActive     *bool
}

// SizeInput 尺码输入
// ColorSet 为 true 时以 ColorID 覆盖绑定（nil 表示解绑）
type SizeInput struct {
	ColorID         *uint
	ColorSet        bool
	SizeName        string
	SizeCode        string
	StockLevel      *int
	PriceAdjustment *models.Money
	DisplayOrder    *int
	IsActive        *bool
}

// ColorMutationResult 颜色变更结果
type ColorMutationResult struct {
	Color         *models.ItemColor `json:"color,omitempty"`
	NewTotalStock int               `json:"new_total_stock"`
}

// SizeMutationResult 尺码变更结果
type SizeMutationResult struct {
	Size          *models.ItemSize `json:"size,omitempty"`
	NewTotalStock int              `json:"new_total_stock"`
}

// ListColors 获取商品颜色
func (s *ItemStockService) ListColors(sku string, onlyActive bool) ([]models.ItemColor, error) {
	if err := s.ensureItem(sku); err != nil {
		return nil, err
	}
	return s.optionRepo.ListColors(sku, onlyActive)
}

// CreateColor 新增颜色
func (s *ItemStockService) CreateColor(sku string, input ColorInput) (*ColorMutationResult, error) {
	name := strings.TrimSpace(input.ColorName)
	if name == "" {
		return nil, newValidationError("color_name", "required")
	}
	if err := validateStockFields(input.StockLevel, input.DisplayOrder); err != nil {
		return nil, err
	}
	color := &models.ItemColor{
		ItemSKU:   sku,
		ColorName: name,
		IsActive:  true,
	}
	applyColorInput(color, input)

	result := &ColorMutationResult{Color: color}
	err := s.withStockTx(sku, func(repo repository.ItemOptionRepository) error {
		return repo.CreateColor(color)
	}, &result.NewTotalStock)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateColor 更新颜色
func (s *ItemStockService) UpdateColor(sku string, id uint, input ColorInput) (*ColorMutationResult, error) {
	if err := validateStockFields(input.StockLevel, input.DisplayOrder); err != nil {
		return nil, err
	}
	result := &ColorMutationResult{}
	err := s.withStockTx(sku, func(repo repository.ItemOptionRepository) error {
		color, err := repo.GetColor(sku, id)
		if err != nil {
			return err
		}
		if color == nil {
			return ErrColorNotFound
		}
		if name := strings.TrimSpace(input.ColorName); name != "" {
			color.ColorName = name
		}
		applyColorInput(color, input)
		if err := repo.UpdateColor(color); err != nil {
			return err
		}
		result.Color = color
		return nil
	}, &result.NewTotalStock)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteColor 删除颜色，绑定的尺码解绑
func (s *ItemStockService) DeleteColor(sku string, id uint) (*ColorMutationResult, error) {
	result := &ColorMutationResult{}
	err := s.withStockTx(sku, func(repo repository.ItemOptionRepository) error {
		color, err := repo.GetColor(sku, id)
		if err != nil {
			return err
		}
		if color == nil {
			return ErrColorNotFound
		}
		return repo.DeleteColor(sku, id)
	}, &result.NewTotalStock)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListSizes 获取商品尺码，可按颜色过滤
func (s *ItemStockService) ListSizes(sku string, colorID *uint, onlyActive bool) ([]models.ItemSize, error) {
	if err := s.ensureItem(sku); err != nil {
		return nil, err
	}
	return s.optionRepo.ListSizes(sku, colorID, onlyActive)
}

// CreateSize 新增尺码
func (s *ItemStockService) CreateSize(sku string, input SizeInput) (*SizeMutationResult, error) {
	name := strings.TrimSpace(input.SizeName)
	if name == "" {
		return nil, newValidationError("size_name", "required")
	}
	if err := validateStockFields(input.StockLevel, input.DisplayOrder); err != nil {
		return nil, err
	}
	size := &models.ItemSize{
		ItemSKU:  sku,
		SizeName: name,
		IsActive: true,
	}
	applySizeInput(size, input)

	result := &SizeMutationResult{Size: size}
	err := s.withStockTx(sku, func(repo repository.ItemOptionRepository) error {
		if err := ensureColorBelongs(repo, sku, size.ColorID); err != nil {
			return err
		}
		if err := repo.CreateSize(size); err != nil {
			return err
		}
		return syncColors(repo, size.ColorID)
	}, &result.NewTotalStock)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateSize 更新尺码；绑定颜色变化时新旧颜色都重算
func (s *ItemStockService) UpdateSize(sku string, id uint, input SizeInput) (*SizeMutationResult, error) {
	if err := validateStockFields(input.StockLevel, input.DisplayOrder); err != nil {
		return nil, err
	}
	result := &SizeMutationResult{}
	err := s.withStockTx(sku, func(repo repository.ItemOptionRepository) error {
		size, err := repo.GetSize(sku, id)
		if err != nil {
			return err
		}
		if size == nil {
			return ErrSizeNotFound
		}
		previous := size.ColorID
		if name := strings.TrimSpace(input.SizeName); name != "" {
			size.SizeName = name
		}
		applySizeInput(size, input)
		if err := ensureColorBelongs(repo, sku, size.ColorID); err != nil {
			return err
		}
		if err := repo.UpdateSize(size); err != nil {
			return err
		}
		result.Size = size
		return syncColors(repo, previous, size.ColorID)
	}, &result.NewTotalStock)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSize 删除尺码
func (s *ItemStockService) DeleteSize(sku string, id uint) (*SizeMutationResult, error) {
	result := &SizeMutationResult{}
	err := s.withStockTx(sku, func(repo repository.ItemOptionRepository) error {
		size, err := repo.GetSize(sku, id)
		if err != nil {
			return err
		}
		if size == nil {
			return ErrSizeNotFound
		}
		if err := repo.DeleteSize(sku, id); err != nil {
			return err
		}
		return syncColors(repo, size.ColorID)
	}, &result.NewTotalStock)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncStock 手动重算总库存
func (s *ItemStockService) SyncStock(sku string) (int, error) {
	var total int
	err := s.withStockTx(sku, func(repository.ItemOptionRepository) error {
		return nil
	}, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// withStockTx 锁定商品行，执行变更后重算总库存
func (s *ItemStockService) withStockTx(sku string, fn func(repo repository.ItemOptionRepository) error, total *int) error {
	sku = strings.TrimSpace(sku)
	return s.itemRepo.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.WithTx(tx).GetBySKUForUpdate(sku)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
		repo := s.optionRepo.WithTx(tx)
		if err := fn(repo); err != nil {
			return err
		}
		value, err := repo.SyncTotalStock(sku)
		if err != nil {
			return err
		}
		*total = value
		return nil
	})
}

func (s *ItemStockService) ensureItem(sku string) error {
	count, err := s.itemRepo.CountBySKU(strings.TrimSpace(sku))
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrItemNotFound
	}
	return nil
}

func ensureColorBelongs(repo repository.ItemOptionRepository, sku string, colorID *uint) error {
	if colorID == nil {
		return nil
	}
	color, err := repo.GetColor(sku, *colorID)
	if err != nil {
		return err
	}
	if color == nil {
		return newValidationError("color_id", "color %d does not belong to %s", *colorID, sku)
	}
	return nil
}

// syncColors 按尺码重算颜色库存，重复 ID 只处理一次
func syncColors(repo repository.ItemOptionRepository, ids ...*uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		if err := repo.SyncColorStockFromSizes(*id); err != nil {
			return err
		}
	}
	return nil
}

func validateStockFields(stock, displayOrder *int) error {
	if stock != nil && *stock < 0 {
		return newValidationError("stock_level", "must be >= 0")
	}
	if displayOrder != nil && *displayOrder < 0 {
		return newValidationError("display_order", "must be >= 0")
	}
	return nil
}

func applyColorInput(color *models.ItemColor, input ColorInput) {
	if code := strings.TrimSpace(input.ColorCode); code != "" {
		color.ColorCode = code
	}
	if path := strings.TrimSpace(input.ImagePath); path != "" {
		color.ImagePath = path
	}
	if input.StockLevel != nil {
		color.StockLevel = *input.StockLevel
	}
	if input.DisplayOrder != nil {
		color.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		color.IsActive = *input.IsActive
	}
}

func applySizeInput(size *models.ItemSize, input SizeInput) {
	if input.ColorSet {
		size.ColorID = input.ColorID
	}
	if code := strings.TrimSpace(input.SizeCode); code != "" {
		size.SizeCode = code
	}
	if input.StockLevel != nil {
		size.StockLevel = *input.StockLevel
	}
	if input.PriceAdjustment != nil {
		size.PriceAdjustment = *input.PriceAdjustment
	}
	if input.DisplayOrder != nil {
		size.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		size.IsActive = *input.IsActive
	}
}
