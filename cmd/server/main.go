package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/whimsicalfrog/wf-admin/internal/app"
	"github.com/whimsicalfrog/wf-admin/internal/config"
	"github.com/whimsicalfrog/wf-admin/internal/logger"
	"github.com/whimsicalfrog/wf-admin/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	var mode, configPath string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认查找 ./config.yml")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.LoadFile(configPath)
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Admin.JWTSecret != "" && isWeakSecret(cfg.Admin.JWTSecret) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("管理端 JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: 管理端 JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}
	if cfg.Admin.APIToken == "" && cfg.Admin.JWTSecret == "" {
		stdLog.Printf("警告: 未配置 admin.api_token 或 admin.jwt_secret，管理端接口将全部拒绝")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, logger.NewGormLogger(cfg.Server.Mode, time.Duration(cfg.Log.SlowQueryMillis)*time.Millisecond)); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║                    🐸 WhimsicalFrog Admin API 启动中                   ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "██╗    ██╗███████╗     █████╗ ██████╗ ███╗   ███╗██╗███╗   ██╗" + ansiReset)
	fmt.Println(ansiCyan + "██║    ██║██╔════╝    ██╔══██╗██╔══██╗████╗ ████║██║████╗  ██║" + ansiReset)
	fmt.Println(ansiCyan + "██║ █╗ ██║█████╗      ███████║██║  ██║██╔████╔██║██║██╔██╗ ██║" + ansiReset)
	fmt.Println(ansiCyan + "██║███╗██║██╔══╝      ██╔══██║██║  ██║██║╚██╔╝██║██║██║╚██╗██║" + ansiReset)
	fmt.Println(ansiCyan + "╚███╔███╔╝██║         ██║  ██║██████╔╝██║ ╚═╝ ██║██║██║ ╚████║" + ansiReset)
	fmt.Println(ansiCyan + " ╚══╝╚══╝ ╚═╝         ╚═╝  ╚═╝╚═════╝ ╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Endpoints" + ansiReset)
	fmt.Println(ansiBlue + "• Admin:   /api/v1/admin" + ansiReset)
	fmt.Println(ansiBlue + "• Metrics: /metrics" + ansiReset)
	fmt.Println(ansiBlue + "• Health:  /health" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
