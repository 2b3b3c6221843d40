package provider

import (
	"time"

	"github.com/whimsicalfrog/wf-admin/internal/cache"
	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/metrics"
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/queue"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
	"github.com/whimsicalfrog/wf-admin/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer

	// Repositories
	ItemRepo            repository.ItemRepository
	ItemOptionRepo      repository.ItemOptionRepository
	ItemImageRepo       repository.ItemImageRepository
	CategoryRepo        repository.CategoryRepository
	OrderRepo           repository.OrderRepository
	SequenceRepo        repository.SequenceRepository
	BusinessSettingRepo repository.BusinessSettingRepository
	CascadeSettingRepo  repository.CascadeSettingRepository
	SuggestionRepo      repository.SuggestionRepository
	SKURewriteRepo      repository.SKURewriteRepository
	EmailTemplateRepo   repository.EmailTemplateRepository
	NewsletterRepo      repository.NewsletterRepository
	RoomRepo            repository.RoomRepository

	// Services
	BusinessSettingService *service.BusinessSettingService
	AIProviderService      *service.AIProviderService
	OrderService           *service.OrderService
	ItemService            *service.ItemService
	ItemStockService       *service.ItemStockService
	CategoryService        *service.CategoryService
	SKURewriteJob          *service.SKURewriteJob
	CascadeService         *service.CascadeService
	AICostService          *service.AICostService
	ImageProcessorService  *service.ImageProcessorService
	ImageCleanupService    *service.ImageCleanupService
	MarketingService       *service.MarketingService
	PricingService         *service.PricingService
	EmailTemplateService   *service.EmailTemplateService
	NewsletterService      *service.NewsletterService
	RoomService            *service.RoomService
}

// NewContainer 初始化容器
// reg 为空时不暴露指标
func NewContainer(cfg *config.Config, reg *prometheus.Registry) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	if reg != nil {
		c.Metrics = metrics.NewCollector(reg)
		c.Gatherer = reg
	} else {
		c.Metrics = metrics.NewCollector(nil)
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.ItemRepo = repository.NewItemRepository(db)
	c.ItemOptionRepo = repository.NewItemOptionRepository(db)
	c.ItemImageRepo = repository.NewItemImageRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SequenceRepo = repository.NewSequenceRepository(db)
	c.BusinessSettingRepo = repository.NewBusinessSettingRepository(db)
	c.CascadeSettingRepo = repository.NewCascadeSettingRepository(db)
	c.SuggestionRepo = repository.NewSuggestionRepository(db)
	c.SKURewriteRepo = repository.NewSKURewriteRepository(db)
	c.EmailTemplateRepo = repository.NewEmailTemplateRepository(db)
	c.NewsletterRepo = repository.NewNewsletterRepository(db)
	c.RoomRepo = repository.NewRoomRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	ttl := time.Duration(cfg.Settings.CacheTTLSeconds) * time.Second

	c.BusinessSettingService = service.NewBusinessSettingService(c.BusinessSettingRepo, ttl)
	c.AIProviderService = service.NewAIProviderService(c.BusinessSettingService, cfg.AI, c.Metrics)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ItemRepo, c.SequenceRepo, c.BusinessSettingService, cfg.Order.Timezone)
	c.ItemService = service.NewItemService(c.ItemRepo, c.CategoryRepo)
	c.ItemStockService = service.NewItemStockService(c.ItemRepo, c.ItemOptionRepo)
	c.SKURewriteJob = service.NewSKURewriteJob(c.ItemRepo, c.SKURewriteRepo, c.Metrics, cfg.Jobs.SKURewriteBatchSize)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.ItemRepo, c.CascadeSettingRepo, c.RoomRepo, c.QueueClient, c.SKURewriteJob)
	c.CascadeService = service.NewCascadeService(c.CascadeSettingRepo, c.ItemRepo)
	c.AICostService = service.NewAICostService(c.AIProviderService)
	c.ImageProcessorService = service.NewImageProcessorService(cfg.Images, c.AIProviderService, c.ItemImageRepo)
	c.ImageCleanupService = service.NewImageCleanupService(cfg.Images, c.ItemImageRepo, c.Metrics)
	c.MarketingService = service.NewMarketingService(c.ItemRepo, c.SuggestionRepo, c.AIProviderService)
	c.PricingService = service.NewPricingService(c.ItemRepo, c.SuggestionRepo, c.AIProviderService)
	c.EmailTemplateService = service.NewEmailTemplateService(c.EmailTemplateRepo)
	c.NewsletterService = service.NewNewsletterService(c.NewsletterRepo)
	c.RoomService = service.NewRoomService(c.RoomRepo, c.CategoryRepo)
}
