package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item 商品表（以 SKU 为主键）
type Item struct {
	SKU             string           `gorm:"primaryKey;type:varchar(64)" json:"sku"`                    // SKU
	Name            string           `gorm:"type:varchar(255);not null" json:"name"`                    // 名称
	Description     string           `gorm:"type:text" json:"description"`                              // 描述
	Category        string           `gorm:"type:varchar(100);index" json:"category"`                   // 分类名称
	CostPrice       Money            `gorm:"type:decimal(20,2);not null;default:0" json:"cost_price"`   // 成本价
	RetailPrice     Money            `gorm:"type:decimal(20,2);not null;default:0" json:"retail_price"` // 零售价
	StockLevel      int              `gorm:"not null;default:0" json:"stock_level"`                     // 总库存
	ReorderPoint    int              `gorm:"not null;default:5" json:"reorder_point"`                   // 补货阈值
	StockVersion    int64            `gorm:"not null;default:0" json:"stock_version"`                   // 库存版本号，每次同步递增
	PackageWeightOz *decimal.Decimal `gorm:"type:decimal(10,2)" json:"package_weight_oz"`               // 包装重量（盎司）
	PackageLengthIn *decimal.Decimal `gorm:"type:decimal(10,2)" json:"package_length_in"`               // 包装长度（英寸）
	PackageWidthIn  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"package_width_in"`                // 包装宽度（英寸）
	PackageHeightIn *decimal.Decimal `gorm:"type:decimal(10,2)" json:"package_height_in"`               // 包装高度（英寸）
	ImagePath       string           `gorm:"type:varchar(500)" json:"image_path"`                       // 主图路径
	IsActive        bool             `gorm:"not null" json:"is_active"`                                 // 是否上架
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time        `json:"updated_at"`                                                // 更新时间

	Colors []ItemColor `gorm:"foreignKey:ItemSKU;references:SKU" json:"colors,omitempty"` // 颜色
	Sizes  []ItemSize  `gorm:"foreignKey:ItemSKU;references:SKU" json:"sizes,omitempty"`  // 尺码
}

// TableName 指定表名
func (Item) TableName() string {
	return "items"
}

// ItemColor 商品颜色表
type ItemColor struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                            // 主键
	ItemSKU      string    `gorm:"column:item_sku;type:varchar(64);index;not null" json:"item_sku"` // 所属 SKU
	ColorName    string    `gorm:"type:varchar(100);not null" json:"color_name"`                    // 颜色名称
	ColorCode    string    `gorm:"type:varchar(20)" json:"color_code"`                              // 色值
	ImagePath    string    `gorm:"type:varchar(500)" json:"image_path"`                             // 颜色图片
	StockLevel   int       `gorm:"not null;default:0" json:"stock_level"`                           // 库存
	DisplayOrder int       `gorm:"default:0" json:"display_order"`                                  // 排序
	IsActive     bool      `gorm:"not null;index" json:"is_active"`                                 // 是否启用
	CreatedAt    time.Time `json:"created_at"`                                                      // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (ItemColor) TableName() string {
	return "item_colors"
}

// ItemSize 商品尺码表，可选绑定颜色
type ItemSize struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                            // 主键
	ItemSKU         string    `gorm:"column:item_sku;type:varchar(64);index;not null" json:"item_sku"` // 所属 SKU
	ColorID         *uint     `gorm:"index" json:"color_id"`                                           // 绑定颜色
	SizeName        string    `gorm:"type:varchar(50);not null" json:"size_name"`                      // 尺码名称
	SizeCode        string    `gorm:"type:varchar(20)" json:"size_code"`                               // 尺码编码
	StockLevel      int       `gorm:"not null;default:0" json:"stock_level"`                           // 库存
	PriceAdjustment Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_adjustment"`   // 价格调整
	DisplayOrder    int       `gorm:"default:0" json:"display_order"`                                  // 排序
	IsActive        bool      `gorm:"not null;index" json:"is_active"`                                 // 是否启用
	CreatedAt       time.Time `json:"created_at"`                                                      // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (ItemSize) TableName() string {
	return "item_sizes"
}

// ItemImage 商品图片表，记录处理来源
type ItemImage struct {
	ID              uint       `gorm:"primarykey" json:"id"`                            // 主键
	SKU             string     `gorm:"type:varchar(64);index;not null" json:"sku"`      // SKU
	ImagePath       string     `gorm:"type:varchar(500);not null" json:"image_path"`    // 处理后路径
	OriginalPath    string     `gorm:"type:varchar(500)" json:"original_path"`          // 原图路径
	ProcessedWithAI bool       `gorm:"not null;default:false" json:"processed_with_ai"` // 是否经过 AI 识别
	TrimData        JSON       `gorm:"type:json" json:"trim_data"`                      // 裁剪元数据
	IsPrimary       bool       `gorm:"not null;default:false" json:"is_primary"`        // 是否主图
	ProcessedAt     *time.Time `json:"processed_at"`                                    // 处理时间
	CreatedAt       time.Time  `json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (ItemImage) TableName() string {
	return "item_images"
}
