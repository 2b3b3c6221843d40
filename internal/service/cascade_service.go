package service

import (
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

// CascadeService 选项级联设置服务
type CascadeService struct {
	repo     repository.CascadeSettingRepository
	itemRepo repository.ItemRepository
}

// NewCascadeService 创建级联设置服务
func NewCascadeService(repo repository.CascadeSettingRepository, itemRepo repository.ItemRepository) *CascadeService {
	return &CascadeService{repo: repo, itemRepo: itemRepo}
}

// EffectiveCascade 解析后的级联设置
type EffectiveCascade struct {
	ItemSKU           string      `json:"item_sku"`
	Source            string      `json:"source"`
	ScopeKey          string      `json:"scope_key,omitempty"`
	EnabledDimensions []string    `json:"enabled_dimensions"`
	CascadeOrder      []string    `json:"cascade_order"`
	GroupingRules     models.JSON `json:"grouping_rules"`
}

// CascadeInput 写入级联设置输入
type CascadeInput struct {
	ScopeType         string
	ScopeKey          string
	EnabledDimensions []string
	CascadeOrder      []string
	GroupingRules     map[string]interface{}
}

// DefaultCascade 默认级联：全部维度启用，按 gender/size/color 排序
func DefaultCascade(sku string) *EffectiveCascade {
	return &EffectiveCascade{
		ItemSKU:           sku,
		Source:            constants.CascadeSourceDefault,
		EnabledDimensions: append([]string(nil), constants.CascadeDimensions...),
		CascadeOrder:      append([]string(nil), constants.CascadeDimensions...),
		GroupingRules:     models.JSON{},
	}
}

// Effective 按 SKU → 分类 → 默认 的顺序解析
func (s *CascadeService) Effective(sku string) (*EffectiveCascade, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, newValidationError("item_sku", "required")
	}
	row, err := s.repo.Get(constants.CascadeScopeSKU, sku)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return effectiveFromRow(sku, row), nil
	}

	item, err := s.itemRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item != nil && strings.TrimSpace(item.Category) != "" {
		row, err = s.repo.Get(constants.CascadeScopeCategory, item.Category)
		if err != nil {
			return nil, err
		}
		if row != nil {
			return effectiveFromRow(sku, row), nil
		}
	}
	return DefaultCascade(sku), nil
}

// Get 获取某作用域的覆盖配置
func (s *CascadeService) Get(scopeType, scopeKey string) (*models.CascadeSetting, error) {
	scopeType, scopeKey, err := normalizeCascadeScope(scopeType, scopeKey)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.Get(scopeType, scopeKey)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrCascadeNotFound
	}
	return row, nil
}

// Upsert 写入覆盖配置
func (s *CascadeService) Upsert(input CascadeInput) (*models.CascadeSetting, error) {
	scopeType, scopeKey, err := normalizeCascadeScope(input.ScopeType, input.ScopeKey)
	if err != nil {
		return nil, err
	}
	enabled, err := normalizeDimensions("enabled_dimensions", input.EnabledDimensions)
	if err != nil {
		return nil, err
	}
	order, err := normalizeDimensions("cascade_order", input.CascadeOrder)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		order = enabled
	}
	rules := models.JSON(input.GroupingRules)
	if rules == nil {
		rules = models.JSON{}
	}
	row := &models.CascadeSetting{
		ScopeType:         scopeType,
		ScopeKey:          scopeKey,
		EnabledDimensions: models.StringArray(enabled),
		CascadeOrder:      models.StringArray(order),
		GroupingRules:     rules,
	}
	if err := s.repo.Upsert(row); err != nil {
		return nil, err
	}
	return s.repo.Get(scopeType, scopeKey)
}

// Delete 删除覆盖配置
func (s *CascadeService) Delete(scopeType, scopeKey string) error {
	scopeType, scopeKey, err := normalizeCascadeScope(scopeType, scopeKey)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(scopeType, scopeKey)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCascadeNotFound
	}
	return nil
}

func effectiveFromRow(sku string, row *models.CascadeSetting) *EffectiveCascade {
	rules := row.GroupingRules
	if rules == nil {
		rules = models.JSON{}
	}
	return &EffectiveCascade{
		ItemSKU:           sku,
		Source:            row.ScopeType,
		ScopeKey:          row.ScopeKey,
		EnabledDimensions: []string(row.EnabledDimensions),
		CascadeOrder:      []string(row.CascadeOrder),
		GroupingRules:     rules,
	}
}

func normalizeCascadeScope(scopeType, scopeKey string) (string, string, error) {
	scopeType = strings.ToLower(strings.TrimSpace(scopeType))
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeType != constants.CascadeScopeSKU && scopeType != constants.CascadeScopeCategory {
		return "", "", newValidationError("scope_type", "must be sku or category")
	}
	if scopeKey == "" {
		return "", "", newValidationError("scope_key", "required")
	}
	return scopeType, scopeKey, nil
}

func normalizeDimensions(field string, dims []string) ([]string, error) {
	out := make([]string, 0, len(dims))
	seen := make(map[string]struct{}, len(dims))
	for _, raw := range dims {
		dim := strings.ToLower(strings.TrimSpace(raw))
		if !containsString(constants.CascadeDimensions, dim) {
			return nil, newValidationError(field, "unknown dimension %q", raw)
		}
		if _, ok := seen[dim]; ok {
			return nil, newValidationError(field, "duplicate dimension %q", dim)
		}
		seen[dim] = struct{}{}
		out = append(out, dim)
	}
	return out, nil
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
