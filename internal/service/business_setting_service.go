package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/cache"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

type settingCacheEntry struct {
	values   map[string]models.BusinessSetting
	loadedAt time.Time
}

// BusinessSettingService 业务设置服务（进程内缓存 → Redis → 数据库）
type BusinessSettingService struct {
	repo  repository.BusinessSettingRepository
	ttl   time.Duration
	mu    sync.RWMutex
	local map[string]settingCacheEntry
}

// NewBusinessSettingService 创建业务设置服务
func NewBusinessSettingService(repo repository.BusinessSettingRepository, ttl time.Duration) *BusinessSettingService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BusinessSettingService{
		repo:  repo,
		ttl:   ttl,
		local: make(map[string]settingCacheEntry),
	}
}

// UpsertBusinessSettingInput 写入业务设置输入
type UpsertBusinessSettingInput struct {
	Category    string
	Key         string
	Value       string
	Type        string
	DisplayName string
	Description string
}

// List 按分类列出设置，分类为空时返回全部
func (s *BusinessSettingService) List(ctx context.Context, category string) ([]models.BusinessSetting, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.repo.ListAll()
	}
	values, err := s.loadCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	result := make([]models.BusinessSetting, 0, len(values))
	for _, setting := range values {
		result = append(result, setting)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SettingKey < result[j].SettingKey
	})
	return result, nil
}

// Get 获取单个设置，不存在返回 nil
func (s *BusinessSettingService) Get(ctx context.Context, category, key string) (*models.BusinessSetting, error) {
	values, err := s.loadCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	setting, ok := values[key]
	if !ok {
		return nil, nil
	}
	return &setting, nil
}

// GetString 获取字符串设置
func (s *BusinessSettingService) GetString(ctx context.Context, category, key, defaultValue string) string {
	setting, err := s.Get(ctx, category, key)
	if err != nil || setting == nil {
		return defaultValue
	}
	value := strings.TrimSpace(setting.SettingValue)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBool 获取布尔设置
func (s *BusinessSettingService) GetBool(ctx context.Context, category, key string, defaultValue bool) bool {
	setting, err := s.Get(ctx, category, key)
	if err != nil || setting == nil {
		return defaultValue
	}
	parsed, ok := parseSettingBool(setting.SettingValue)
	if !ok {
		return defaultValue
	}
	return parsed
}

// GetFloat 获取数值设置
func (s *BusinessSettingService) GetFloat(ctx context.Context, category, key string, defaultValue float64) float64 {
	setting, err := s.Get(ctx, category, key)
	if err != nil || setting == nil {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(setting.SettingValue), 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetJSON 解析 JSON 设置到 dest，返回是否存在
func (s *BusinessSettingService) GetJSON(ctx context.Context, category, key string, dest interface{}) (bool, error) {
	setting, err := s.Get(ctx, category, key)
	if err != nil || setting == nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(setting.SettingValue), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Location 业务时区：business_info.business_timezone → fallback → UTC
func (s *BusinessSettingService) Location(ctx context.Context, fallback string) *time.Location {
	candidates := []string{fallback}
	if s != nil {
		candidates = append([]string{
			s.GetString(ctx, constants.SettingCategoryBusinessInfo, constants.SettingKeyBusinessTimezone, ""),
		}, candidates...)
	}
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		loc, err := time.LoadLocation(name)
		if err == nil {
			return loc
		}
		logger.Warnw("business_timezone_invalid", "timezone", name, "error", err)
	}
	return time.UTC
}

// Upsert 校验并写入设置，成功后清空缓存
func (s *BusinessSettingService) Upsert(ctx context.Context, input UpsertBusinessSettingInput) (*models.BusinessSetting, error) {
	category := strings.TrimSpace(input.Category)
	key := strings.TrimSpace(input.Key)
	if category == "" {
		return nil, newValidationError("category", "required")
	}
	if key == "" {
		return nil, newValidationError("setting_key", "required")
	}

	existing, err := s.repo.Get(category, key)
	if err != nil {
		return nil, err
	}
	settingType := strings.ToLower(strings.TrimSpace(input.Type))
	if settingType == "" && existing != nil {
		settingType = existing.SettingType
	}
	if settingType == "" {
		settingType = constants.SettingTypeText
	}
	value := strings.TrimSpace(input.Value)
	if err := validateSettingValue(settingType, value); err != nil {
		return nil, err
	}

	setting := &models.BusinessSetting{
		Category:     category,
		SettingKey:   key,
		SettingValue: value,
		SettingType:  settingType,
		DisplayName:  input.DisplayName,
		Description:  input.Description,
	}
	if existing != nil {
		if setting.DisplayName == "" {
			setting.DisplayName = existing.DisplayName
		}
		if setting.Description == "" {
			setting.Description = existing.Description
		}
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}
	s.ClearCache(ctx)
	return s.repo.Get(category, key)
}

// ClearCache 清空进程内与 Redis 缓存
func (s *BusinessSettingService) ClearCache(ctx context.Context) {
	s.mu.Lock()
	s.local = make(map[string]settingCacheEntry)
	s.mu.Unlock()
	if err := cache.DelPattern(ctx, cache.BusinessSettingsPattern()); err != nil {
		logger.Warnw("business_settings_cache_clear_failed", "error", err)
	}
}

func (s *BusinessSettingService) loadCategory(ctx context.Context, category string) (map[string]models.BusinessSetting, error) {
	s.mu.RLock()
	entry, ok := s.local[category]
	s.mu.RUnlock()
	if ok && time.Since(entry.loadedAt) < s.ttl {
		return entry.values, nil
	}

	var values map[string]models.BusinessSetting
	hit, err := cache.GetJSON(ctx, cache.BusinessSettingsKey(category), &values)
	if err != nil {
		logger.Warnw("business_settings_cache_get_failed", "category", category, "error", err)
	}
	if !hit || values == nil {
		settings, err := s.repo.ListByCategory(category)
		if err != nil {
			return nil, err
		}
		values = make(map[string]models.BusinessSetting, len(settings))
		for _, setting := range settings {
			values[setting.SettingKey] = setting
		}
		if err := cache.SetJSON(ctx, cache.BusinessSettingsKey(category), values, s.ttl); err != nil {
			logger.Warnw("business_settings_cache_set_failed", "category", category, "error", err)
		}
	}

	s.mu.Lock()
	s.local[category] = settingCacheEntry{values: values, loadedAt: time.Now()}
	s.mu.Unlock()
	return values, nil
}

func validateSettingValue(settingType, value string) error {
	switch settingType {
	case constants.SettingTypeText:
		return nil
	case constants.SettingTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return newValidationError("setting_value", "must be a number")
		}
	case constants.SettingTypeBoolean:
		if _, ok := parseSettingBool(value); !ok {
			return newValidationError("setting_value", "must be a boolean")
		}
	case constants.SettingTypeJSON:
		if !json.Valid([]byte(value)) {
			return newValidationError("setting_value", "must be valid json")
		}
	case constants.SettingTypeColor:
		if !validHexColor(value) {
			return newValidationError("setting_value", "must be a hex color")
		}
	case constants.SettingTypeEmail:
		if !validEmail(value) {
			return newValidationError("setting_value", "must be an email address")
		}
	case constants.SettingTypeURL:
		if !validHTTPURL(value) {
			return newValidationError("setting_value", "must be an http(s) url")
		}
	default:
		return newValidationError("setting_type", "unsupported type %q", settingType)
	}
	return nil
}

func parseSettingBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off", "":
		return false, true
	default:
		return false, false
	}
}
