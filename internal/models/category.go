package models

import "time"

// Category 商品分类表
// Code 为 SKU 中间段（WF-<Code>-NNN）
type Category struct {
	ID           uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 分类名称
	Code         string    `gorm:"type:varchar(8);uniqueIndex;not null" json:"code"`   // SKU 编码
	Description  string    `gorm:"type:text" json:"description"`                       // 描述
	DisplayOrder int       `gorm:"default:0;index" json:"display_order"`               // 排序
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
