package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"revenuelens/internal/config"
	"revenuelens/internal/server"
	"revenuelens/internal/util"
)

var (
	port     = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode  = flag.Bool("dev", false, "开发模式")
	dataDir  = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	backend  = flag.String("store", "", "历史记录存储: json / sqlite / postgres (覆盖配置文件)")
	logLevel = flag.String("log", "", "日志级别 (覆盖配置文件)")
	noOpen   = flag.Bool("no-browser", false, "启动后不自动打开浏览器")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  RevenueLens - Phân tích thu nhập nội dung")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("服务初始化失败", zap.Error(err))
	}
	defer srv.Close()

	fmt.Printf("数据目录: %s (存储: %s)\n", config.ResolveDataDir(cfg), srv.Backend())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			logger.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	if cfg.Server.DevMode {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	} else if !*noOpen {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("关闭 HTTP 服务失败", zap.Error(err))
	}
	if err := srv.SaveNow(); err != nil {
		logger.Error("退出前保存失败", zap.Error(err))
	}
}
