package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/cache"
	"github.com/whimsicalfrog/wf-admin/internal/config"
	adminhandlers "github.com/whimsicalfrog/wf-admin/internal/http/handlers/admin"
	"github.com/whimsicalfrog/wf-admin/internal/http/response"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const adminRoutePrefix = "/api/v1/admin/"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "wf"
	}
	aiRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:ai", redisPrefix),
		WindowSeconds: cfg.AI.RateLimit.WindowSeconds,
		MaxRequests:   cfg.AI.RateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}
	adminRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   600,
		MessageKey:    "error.rate_limited",
	}
	redisClient := cache.Client()
	aiLimit := RateLimitMiddleware(redisClient, aiRule, KeyByAdminSubject)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 图片静态目录
	if root := strings.TrimSpace(cfg.Images.Root); root != "" {
		r.Static("/"+strings.Trim(cfg.Images.PublicPrefix, "/"), root)
	}

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		admin.Use(RateLimitMiddleware(redisClient, adminRule, KeyByIP))
		admin.Use(AdminAuthMiddleware(cfg.Admin))
		{
			// 订单管理
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PATCH("/orders/:id", adminHandler.AdminUpdateOrder)

			// 商品与库存
			admin.GET("/items", adminHandler.ListItems)
			admin.POST("/items", adminHandler.CreateItem)
			admin.GET("/items/:sku", adminHandler.GetItem)
			admin.PUT("/items/:sku", adminHandler.UpdateItem)
			admin.DELETE("/items/:sku", adminHandler.DeleteItem)
			admin.GET("/items/:sku/colors", adminHandler.ListItemColors)
			admin.POST("/items/:sku/colors", adminHandler.CreateItemColor)
			admin.PUT("/items/:sku/colors/:id", adminHandler.UpdateItemColor)
			admin.DELETE("/items/:sku/colors/:id", adminHandler.DeleteItemColor)
			admin.GET("/items/:sku/sizes", adminHandler.ListItemSizes)
			admin.POST("/items/:sku/sizes", adminHandler.CreateItemSize)
			admin.PUT("/items/:sku/sizes/:id", adminHandler.UpdateItemSize)
			admin.DELETE("/items/:sku/sizes/:id", adminHandler.DeleteItemSize)
			admin.POST("/items/:sku/stock/sync", adminHandler.SyncItemStock)
			admin.GET("/items/:sku/images", adminHandler.ListItemImages)

			// AI 内容
			admin.GET("/items/:sku/marketing", adminHandler.GetMarketingSuggestion)
			admin.POST("/items/:sku/marketing/generate", aiLimit, adminHandler.GenerateMarketingSuggestion)
			admin.GET("/items/:sku/pricing", adminHandler.ListPricingSuggestions)
			admin.POST("/items/:sku/pricing/:kind", aiLimit, adminHandler.GeneratePricingSuggestion)
			admin.POST("/ai/cost-estimate", aiLimit, adminHandler.EstimateAICost)

			// 图片处理
			admin.POST("/images/auto-crop", aiLimit, adminHandler.AutoCropImage)
			admin.POST("/images/background/dual-format", adminHandler.GenerateBackground)
			admin.POST("/image-cleanup", adminHandler.RunImageCleanup)
			admin.GET("/image-cleanup/:job_id", adminHandler.GetImageCleanupStatus)

			// 级联选项
			admin.GET("/option-cascade/effective", adminHandler.GetEffectiveCascade)
			admin.GET("/option-cascade/:scope_type/:scope_key", adminHandler.GetCascadeSetting)
			admin.PUT("/option-cascade/:scope_type/:scope_key", adminHandler.UpsertCascadeSetting)
			admin.DELETE("/option-cascade/:scope_type/:scope_key", adminHandler.DeleteCascadeSetting)

			// 业务设置
			admin.GET("/settings/business", adminHandler.ListBusinessSettings)
			admin.PUT("/settings/business", adminHandler.UpsertBusinessSetting)

			// 分类管理
			admin.GET("/categories", adminHandler.ListCategories)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			// 房间陈列
			admin.GET("/rooms/:room/categories", adminHandler.ListRoomCategories)
			admin.POST("/rooms/:room/categories", adminHandler.AssignRoomCategory)
			admin.PUT("/rooms/:room/categories/order", adminHandler.ReorderRoomCategories)
			admin.DELETE("/rooms/:room/categories/:category_id", adminHandler.RemoveRoomCategory)
			admin.PUT("/rooms/:room/categories/:category_id/primary", adminHandler.SetRoomPrimaryCategory)

			// 邮件模板
			admin.GET("/email-templates", adminHandler.ListEmailTemplates)
			admin.POST("/email-templates", adminHandler.CreateEmailTemplate)
			admin.GET("/email-templates/assignments", adminHandler.ListEmailTemplateAssignments)
			admin.PUT("/email-templates/assignments/:email_type", adminHandler.AssignEmailTemplate)
			admin.GET("/email-templates/:id", adminHandler.GetEmailTemplate)
			admin.PUT("/email-templates/:id", adminHandler.UpdateEmailTemplate)
			admin.DELETE("/email-templates/:id", adminHandler.DeleteEmailTemplate)
			admin.POST("/email-templates/:id/preview", adminHandler.PreviewEmailTemplate)

			// 通讯
			admin.GET("/newsletter/campaigns", adminHandler.ListCampaigns)
			admin.POST("/newsletter/campaigns", adminHandler.CreateCampaign)
			admin.GET("/newsletter/campaigns/:id", adminHandler.GetCampaign)
			admin.PUT("/newsletter/campaigns/:id", adminHandler.UpdateCampaign)
			admin.DELETE("/newsletter/campaigns/:id", adminHandler.DeleteCampaign)
			admin.GET("/newsletter/subscribers", adminHandler.ListSubscribers)
			admin.POST("/newsletter/subscribers", adminHandler.AddSubscriber)
			admin.POST("/newsletter/subscribers/:id/deactivate", adminHandler.DeactivateSubscriber)

			// 路由目录
			admin.GET("/routes", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminRouteCatalog(r))
			})
		}
	}

	if c.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminRouteCatalogItem struct {
	Module string `json:"module"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// buildAdminRouteCatalog 列出管理端路由，按模块、路径、方法排序
func buildAdminRouteCatalog(engine *gin.Engine) []adminRouteCatalogItem {
	if engine == nil {
		return []adminRouteCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminRouteCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, adminRoutePrefix) {
			continue
		}
		key := method + " " + item.Path
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, adminRouteCatalogItem{
			Module: deriveAdminRouteModule(item.Path),
			Method: method,
			Path:   item.Path,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Path == items[j].Path {
				return items[i].Method < items[j].Method
			}
			return items[i].Path < items[j].Path
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminRouteModule(path string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(path), adminRoutePrefix)
	if normalized == "" {
		return "system"
	}
	segment := strings.SplitN(normalized, "/", 2)[0]
	if strings.HasPrefix(segment, ":") {
		return "system"
	}
	return segment
}
