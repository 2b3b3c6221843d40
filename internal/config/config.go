package config

import (
	"fmt"
	"strings"

	"github.com/whimsicalfrog/wf-admin/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	AI       AIConfig       `mapstructure:"ai"`
	Images   ImagesConfig   `mapstructure:"images"`
	Order    OrderConfig    `mapstructure:"order"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Settings SettingsConfig `mapstructure:"settings"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host                     string `mapstructure:"host"`
	Port                     string `mapstructure:"port"`
	Mode                     string `mapstructure:"mode"` // debug / release
	ReadHeaderTimeoutSeconds int    `mapstructure:"read_header_timeout_seconds"`
	WriteTimeoutSeconds      int    `mapstructure:"write_timeout_seconds"` // 需大于 AI 调用超时
	IdleTimeoutSeconds       int    `mapstructure:"idle_timeout_seconds"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level           string `mapstructure:"level"`
	Stdout          bool   `mapstructure:"stdout"`
	Dir             string `mapstructure:"dir"`
	Filename        string `mapstructure:"filename"`
	MaxSizeMB       int    `mapstructure:"max_size_mb"`
	MaxBackups      int    `mapstructure:"max_backups"`
	MaxAgeDays      int    `mapstructure:"max_age_days"`
	Compress        bool   `mapstructure:"compress"`
	SlowQueryMillis int    `mapstructure:"slow_query_ms"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Stdout:     c.Stdout,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres/mysql）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// AdminConfig 管理端鉴权配置
type AdminConfig struct {
	APIToken  string `mapstructure:"api_token"`  // 静态令牌，留空则禁用
	JWTSecret string `mapstructure:"jwt_secret"` // HS256 密钥
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// AIConfig AI 服务商配置
// 业务设置（ai 分类）中的同名项优先于此处
type AIConfig struct {
	Provider       string            `mapstructure:"provider"`
	Model          string            `mapstructure:"model"`
	APIKey         string            `mapstructure:"api_key"`
	BaseURLs       map[string]string `mapstructure:"base_urls"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	RateLimit      RateLimitConfig   `mapstructure:"rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// ImagesConfig 图片处理与清理配置
type ImagesConfig struct {
	Root                string   `mapstructure:"root"`
	PublicPrefix        string   `mapstructure:"public_prefix"`
	ProcessedDir        string   `mapstructure:"processed_dir"`
	BackgroundDir       string   `mapstructure:"background_dir"`
	CleanupJobDir       string   `mapstructure:"cleanup_job_dir"`
	CleanupBatchSize    int      `mapstructure:"cleanup_batch_size"`
	CleanupWhitelist    []string `mapstructure:"cleanup_whitelist"`
	FallbackTrimPercent float64  `mapstructure:"fallback_trim_percent"`
	JPEGQuality         int      `mapstructure:"jpeg_quality"`
	MaxDimension        int      `mapstructure:"max_dimension"`
}

// OrderConfig 订单配置
type OrderConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// JobsConfig 后台任务配置
type JobsConfig struct {
	SKURewriteBatchSize int `mapstructure:"sku_rewrite_batch_size"`
}

// SettingsConfig 业务设置缓存配置
type SettingsConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	return LoadFile("")
}

// LoadFile 从指定文件加载配置，path 为空时按默认目录查找 config.yml
func LoadFile(path string) *Config {
	if path = strings.TrimSpace(path); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // 从当前目录查找
		viper.AddConfigPath("../")   // 如果从 cmd/server 运行
		viper.AddConfigPath("./etc") // etc 文件夹
	}

	setDefaults()

	// 环境变量支持（例如 server.port -> SERVER_PORT）
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_header_timeout_seconds", 10)
	viper.SetDefault("server.write_timeout_seconds", 120)
	viper.SetDefault("server.idle_timeout_seconds", 60)
	viper.SetDefault("log.level", "")
	viper.SetDefault("log.stdout", false)
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "wf-admin.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("log.slow_query_ms", 200)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/whimsicalfrog.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("admin.api_token", "")
	viper.SetDefault("admin.jwt_secret", "change-me-in-production")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "wf")
	viper.SetDefault("queue.enabled", false)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 4)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("ai.provider", "jons_ai")
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.base_urls", map[string]string{
		"openai":    "https://api.openai.com/v1/chat/completions",
		"anthropic": "https://openrouter.ai/api/v1/chat/completions",
		"google":    "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
		"meta":      "https://openrouter.ai/api/v1/chat/completions",
	})
	viper.SetDefault("ai.timeout_seconds", 30)
	viper.SetDefault("ai.rate_limit.window_seconds", 60)
	viper.SetDefault("ai.rate_limit.max_requests", 30)
	viper.SetDefault("images.root", "./images")
	viper.SetDefault("images.public_prefix", "images/")
	viper.SetDefault("images.processed_dir", "items/processed")
	viper.SetDefault("images.background_dir", "backgrounds")
	viper.SetDefault("images.cleanup_job_dir", "./backups/image_cleanup")
	viper.SetDefault("images.cleanup_batch_size", 50)
	viper.SetDefault("images.cleanup_whitelist", []string{
		"logos/**",
		"backgrounds/**",
		"signs/**",
		"**/placeholder*",
		"**/*.svg",
		"**/.htaccess",
		"**/index.*",
	})
	viper.SetDefault("images.fallback_trim_percent", 5)
	viper.SetDefault("images.jpeg_quality", 90)
	viper.SetDefault("images.max_dimension", 0)
	viper.SetDefault("order.timezone", "America/New_York")
	viper.SetDefault("jobs.sku_rewrite_batch_size", 50)
	viper.SetDefault("settings.cache_ttl_seconds", 300)
}
