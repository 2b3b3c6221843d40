package main

import (
	"fmt"
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/constants"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/models"

	"github.com/shopspring/decimal"
)

func money(v float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, logger.NewGormLogger(cfg.Server.Mode, time.Duration(cfg.Log.SlowQueryMillis)*time.Millisecond)); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "T-Shirts", Code: "TS", Description: "Screen printed tees", DisplayOrder: 1},
		{Name: "Tumblers", Code: "TU", Description: "Insulated tumblers", DisplayOrder: 2},
		{Name: "Artwork", Code: "AR", Description: "Prints and canvas", DisplayOrder: 3},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("code = ?", cat.Code).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Code, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Code)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Code)
		}
	}

	// 添加商品
	items := []models.Item{
		{
			SKU:          "WF-TS-001",
			Name:         "Frog Pond Tee",
			Description:  "Soft cotton tee with a lily pad print",
			Category:     "T-Shirts",
			CostPrice:    money(8.50),
			RetailPrice:  money(24.99),
			ReorderPoint: 5,
			ImagePath:    "images/items/WF-TS-001A.webp",
			IsActive:     true,
			Colors: []models.ItemColor{
				{ColorName: "Forest Green", ColorCode: "#228B22", StockLevel: 12, DisplayOrder: 1, IsActive: true},
				{ColorName: "Charcoal", ColorCode: "#36454F", StockLevel: 6, DisplayOrder: 2, IsActive: true},
			},
		},
		{
			SKU:          "WF-TU-001",
			Name:         "Whimsical Tumbler 20oz",
			Description:  "Double wall stainless tumbler",
			Category:     "Tumblers",
			CostPrice:    money(6.25),
			RetailPrice:  money(19.99),
			ReorderPoint: 3,
			ImagePath:    "images/items/WF-TU-001A.webp",
			IsActive:     true,
		},
		{
			SKU:          "WF-AR-001",
			Name:         "Moonlit Frog Print",
			Description:  "11x14 archival art print",
			Category:     "Artwork",
			CostPrice:    money(4.00),
			RetailPrice:  money(35.00),
			ReorderPoint: 2,
			IsActive:     true,
		},
	}
	for _, item := range items {
		var count int64
		models.DB.Model(&models.Item{}).Where("sku = ?", item.SKU).Count(&count)
		if count > 0 {
			stdLog.Printf("Item already exists: %s", item.SKU)
			continue
		}
		for _, color := range item.Colors {
			item.StockLevel += color.StockLevel
		}
		if len(item.Colors) == 0 {
			item.StockLevel = 10
		}
		if err := models.DB.Create(&item).Error; err != nil {
			stdLog.Printf("Failed to create item %s: %v", item.SKU, err)
		} else {
			stdLog.Printf("Created item: %s", item.SKU)
		}
	}

	// 业务设置
	settings := []models.BusinessSetting{
		{
			Category:     constants.SettingCategoryBusinessInfo,
			SettingKey:   constants.SettingKeyBusinessTimezone,
			SettingValue: "America/New_York",
			SettingType:  constants.SettingTypeText,
			DisplayName:  "Business Timezone",
		},
		{
			Category:     constants.SettingCategoryAI,
			SettingKey:   constants.SettingKeyAIProvider,
			SettingValue: constants.AIProviderJonsAI,
			SettingType:  constants.SettingTypeText,
			DisplayName:  "AI Provider",
		},
		{
			Category:     constants.SettingCategoryAI,
			SettingKey:   constants.SettingKeyAIBrandVoice,
			SettingValue: "playful",
			SettingType:  constants.SettingTypeText,
			DisplayName:  "Brand Voice",
		},
	}
	for _, setting := range settings {
		var existing models.BusinessSetting
		if err := models.DB.Where("category = ? AND setting_key = ?", setting.Category, setting.SettingKey).First(&existing).Error; err == nil {
			stdLog.Printf("Setting already exists: %s.%s", setting.Category, setting.SettingKey)
			continue
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			stdLog.Printf("Failed to create setting %s: %v", setting.SettingKey, err)
		} else {
			stdLog.Printf("Created setting: %s.%s", setting.Category, setting.SettingKey)
		}
	}

	// 邮件模板
	var templateCount int64
	models.DB.Model(&models.EmailTemplate{}).Count(&templateCount)
	if templateCount == 0 {
		tpl := models.EmailTemplate{
			TemplateName: "Order Confirmation",
			TemplateType: constants.EmailTypeOrderConfirmation,
			Subject:      "Your order {order_id} is confirmed",
			HTMLContent:  "<p>Hi {customer_name}, thanks for your order {order_id}.</p>",
			TextContent:  "Hi {customer_name}, thanks for your order {order_id}.",
			Variables:    models.StringArray{"customer_name", "order_id"},
			IsActive:     true,
		}
		if err := models.DB.Create(&tpl).Error; err != nil {
			stdLog.Printf("Failed to create email template: %v", err)
		} else if err := models.DB.Create(&models.EmailTemplateAssignment{
			EmailType:  constants.EmailTypeOrderConfirmation,
			TemplateID: tpl.ID,
		}).Error; err != nil {
			stdLog.Printf("Failed to assign email template: %v", err)
		} else {
			stdLog.Println("Created order confirmation template")
		}
	}

	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 3 Items (1 with colors)")
	fmt.Println("- 3 Business settings")
	fmt.Println("- 1 Email template")
}
