package models

import "time"

// MarketingSuggestion 营销文案建议（每个 SKU 一条，整体覆盖）
type MarketingSuggestion struct {
	ID                   uint        `gorm:"primarykey" json:"id"`                             // 主键
	SKU                  string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"` // SKU
	SuggestedTitle       string      `gorm:"type:varchar(255)" json:"suggested_title"`         // 建议标题
	SuggestedDescription string      `gorm:"type:text" json:"suggested_description"`           // 建议描述
	Keywords             StringArray `gorm:"type:json" json:"keywords"`                        // 关键词
	SellingPoints        StringArray `gorm:"type:json" json:"selling_points"`                  // 卖点
	SEOKeywords          StringArray `gorm:"type:json" json:"seo_keywords"`                    // SEO 关键词
	TargetAudience       string      `gorm:"type:varchar(255)" json:"target_audience"`         // 目标人群
	CallToAction         string      `gorm:"type:varchar(255)" json:"call_to_action"`          // 行动号召
	Confidence           float64     `gorm:"not null;default:0" json:"confidence"`             // 置信度
	Source               string      `gorm:"type:varchar(20);not null" json:"source"`          // ai / heuristic
	Provider             string      `gorm:"type:varchar(32)" json:"provider"`                 // 服务商
	Model                string      `gorm:"type:varchar(64)" json:"model"`                    // 模型
	CreatedAt            time.Time   `json:"created_at"`                                       // 创建时间
	UpdatedAt            time.Time   `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (MarketingSuggestion) TableName() string {
	return "marketing_suggestions"
}

// PricingSuggestion 成本/售价建议（SKU + 类型唯一）
type PricingSuggestion struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                                   // 主键
	SKU             string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_pricing_sku_kind" json:"sku"`  // SKU
	Kind            string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_pricing_sku_kind" json:"kind"` // cost / price
	SuggestedAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"suggested_amount"`          // 建议金额
	Components      JSON      `gorm:"type:json" json:"components"`                                            // 组成明细
	Reasoning       string    `gorm:"type:text" json:"reasoning"`                                             // 推理说明
	Confidence      float64   `gorm:"not null;default:0" json:"confidence"`                                   // 置信度
	Source          string    `gorm:"type:varchar(20);not null" json:"source"`                                // ai / heuristic
	CreatedAt       time.Time `json:"created_at"`                                                             // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                             // 更新时间
}

// TableName 指定表名
func (PricingSuggestion) TableName() string {
	return "pricing_suggestions"
}
