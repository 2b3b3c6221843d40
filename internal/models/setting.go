package models

import "time"

// BusinessSetting 业务设置表（分类 + 键唯一）
type BusinessSetting struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                               // 主键
	Category     string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_business_setting_key" json:"category"`     // 分类
	SettingKey   string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_business_setting_key" json:"setting_key"` // 键
	SettingValue string    `gorm:"type:text" json:"setting_value"`                                                     // 原始值
	SettingType  string    `gorm:"type:varchar(20);not null;default:text" json:"setting_type"`                         // 值类型
	DisplayName  string    `gorm:"type:varchar(200)" json:"display_name"`                                              // 展示名称
	Description  string    `gorm:"type:text" json:"description"`                                                       // 描述
	CreatedAt    time.Time `json:"created_at"`                                                                         // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                                         // 更新时间
}

// TableName 指定表名
func (BusinessSetting) TableName() string {
	return "business_settings"
}

// CascadeSetting 选项级联覆盖（按 SKU 或分类）
type CascadeSetting struct {
	ID                uint        `gorm:"primarykey" json:"id"`                                                      // 主键
	ScopeType         string      `gorm:"type:varchar(16);not null;uniqueIndex:idx_cascade_scope" json:"scope_type"` // sku / category
	ScopeKey          string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_cascade_scope" json:"scope_key"` // SKU 或分类名称
	EnabledDimensions StringArray `gorm:"type:json" json:"enabled_dimensions"`                                       // 启用维度
	CascadeOrder      StringArray `gorm:"type:json" json:"cascade_order"`                                            // 维度顺序
	GroupingRules     JSON        `gorm:"type:json" json:"grouping_rules"`                                           // 分组规则
	CreatedAt         time.Time   `json:"created_at"`                                                                // 创建时间
	UpdatedAt         time.Time   `json:"updated_at"`                                                                // 更新时间
}

// TableName 指定表名
func (CascadeSetting) TableName() string {
	return "cascade_settings"
}
