package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revenuelens/internal/api"
	"revenuelens/internal/config"
	"revenuelens/internal/importer"
	"revenuelens/internal/service/cache"
	"revenuelens/internal/service/history"
	"revenuelens/internal/service/insight"
	"revenuelens/internal/store"
)

// 存储后端
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	hub        *Hub
	history    *history.Manager
	dispatcher *insight.Dispatcher
	store      *store.Store
	cache      *cache.CacheService
	backend    string
	logger     *zap.Logger
}

// NewServer 按配置装配存储、点评服务与 API
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Warn("ensure data dir failed", zap.Error(err))
		dataDir = config.ResolveDataDir(cfg)
	}

	s := &Server{hub: NewHub(logger), logger: logger}

	persister, err := s.openPersistence(cfg, dataDir)
	if err != nil {
		return nil, err
	}
	hist, err := history.NewManager(cfg.Business.HistoryCapacity, persister, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.history = hist

	svc := s.buildInsight(cfg)
	s.dispatcher = insight.NewDispatcher(svc, hist, logger)
	s.dispatcher.OnReady(func(evt insight.ReadyEvent) {
		s.hub.Publish(api.EventInsightReady, evt)
	})

	handler := api.NewHandler(api.Deps{
		Business:    cfg.Business,
		Coordinator: importer.NewCoordinator(importer.Options{DateLayout: cfg.Business.DateLayout}, logger),
		History:     hist,
		Dispatcher:  s.dispatcher,
		Insight:     svc,
		Store:       s.store,
		Events:      s.hub,
		Backend:     s.backend,
		Logger:      logger,
	})

	s.router = gin.New()
	s.setupRoutes(handler, devMode)
	s.httpServer = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	return s, nil
}

// openPersistence 选择历史记录的持久化方式
func (s *Server) openPersistence(cfg *config.AppConfig, dataDir string) (history.Persister, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch backend {
	case BackendJSON:
		s.backend = BackendJSON
		return history.NewJSONPersister(filepath.Join(dataDir, "history.json"))
	case BackendPostgres:
		st, err := store.NewPostgres(cfg.Store.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		s.store, s.backend = st, BackendPostgres
	default:
		st, err := store.New(filepath.Join(dataDir, "revenuelens.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.store, s.backend = st, BackendSQLite
	}
	return store.NewHistoryStore(s.store), nil
}

// buildInsight 主服务 Gemini，备用 OpenAI；Redis 不可用时不缓存
func (s *Server) buildInsight(cfg *config.AppConfig) *insight.Service {
	ic := cfg.Insight
	providers := []insight.Provider{}
	if ic.Enabled {
		gemini, err := insight.NewGeminiProvider(context.Background(), ic.GeminiAPIKey, ic.GeminiModel, ic.MaxOutputTokens, s.logger)
		if err != nil {
			s.logger.Warn("gemini provider unavailable", zap.Error(err))
		} else if gemini != nil {
			providers = append(providers, gemini)
		}
		if openai := insight.NewOpenAIProvider(ic.OpenAIAPIKey, ic.OpenAIModel, ic.MaxOutputTokens, s.logger); openai != nil {
			providers = append(providers, openai)
		}
	}

	var insightCache insight.Cache
	if cfg.Redis.Addr != "" && len(providers) > 0 {
		c, err := cache.NewCacheService(cache.CacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, s.logger)
		if err != nil {
			s.logger.Warn("insight cache disabled", zap.Error(err))
		} else {
			s.cache = c
			insightCache = c
		}
	}

	return insight.NewService(providers, insightCache, insight.Options{
		Timeout:          time.Duration(ic.TimeoutSeconds) * time.Second,
		CacheTTL:         time.Duration(cfg.Redis.TTLMinutes) * time.Minute,
		FailureThreshold: ic.FailureThreshold,
		ResetTimeout:     time.Duration(ic.ResetSeconds) * time.Second,
	}, s.logger)
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(handler *api.Handler, devMode bool) {
	s.router.Use(gin.Recovery(), s.requestLogger())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		handler.RegisterRoutes(apiGroup)
		apiGroup.GET("/events", s.hub.ServeWS)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}

	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
	})
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// requestLogger 请求日志
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/api/events" {
			return
		}
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Handler 返回路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Backend 当前持久化后端
func (s *Server) Backend() string {
	return s.backend
}

// Run 启动服务器，Shutdown 后返回 nil（包括 Run 之前已经 Shutdown 的情况）
func (s *Server) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 停止接收请求
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// SaveNow 等待进行中的点评任务后立即持久化
func (s *Server) SaveNow() error {
	if s.dispatcher != nil {
		s.dispatcher.Wait()
	}
	if s.history == nil {
		return nil
	}
	return s.history.SaveNow()
}

// Close 释放存储与缓存连接
func (s *Server) Close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn("close cache failed", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close store failed", zap.Error(err))
		}
	}
}

const indexPage = `<!doctype html>
<html lang="vi">
<head><meta charset="utf-8"><title>RevenueLens</title></head>
<body>
<h1>RevenueLens</h1>
<p>API: <code>POST /api/analyses</code> (multipart, field <code>file</code>), <code>POST /api/analyses/:id/view</code>, <code>POST /api/analyses/:id/export</code>.</p>
<p>Sự kiện: <code>/api/events</code> (websocket).</p>
</body>
</html>
`
