package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revenuelens/internal/config"
	"revenuelens/internal/importer"
	"revenuelens/internal/service/excel"
	"revenuelens/internal/service/history"
	"revenuelens/internal/service/insight"
	"revenuelens/internal/store"
	apperrors "revenuelens/pkg/errors"
)

// 事件类型
const (
	EventIngestProgress = "ingest_progress"
	EventHistoryChanged = "history_changed"
	EventInsightReady   = "insight_ready"
)

// Publisher 事件推送（websocket hub 实现）
type Publisher interface {
	Publish(eventType string, data any)
}

// Deps 处理器依赖
type Deps struct {
	Business    config.BusinessConfig
	Coordinator *importer.Coordinator
	History     *history.Manager
	Dispatcher  *insight.Dispatcher
	Insight     *insight.Service
	Store       *store.Store // 可为 nil（JSON 持久化模式）
	Events      Publisher    // 可为 nil
	Backend     string
	Logger      *zap.Logger
}

// Handler API 处理器
type Handler struct {
	business    config.BusinessConfig
	coordinator *importer.Coordinator
	history     *history.Manager
	dispatcher  *insight.Dispatcher
	insight     *insight.Service
	store       *store.Store
	events      Publisher
	exporter    *excel.Exporter
	backend     string
	logger      *zap.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		business:    deps.Business,
		coordinator: deps.Coordinator,
		history:     deps.History,
		dispatcher:  deps.Dispatcher,
		insight:     deps.Insight,
		store:       deps.Store,
		events:      deps.Events,
		exporter:    excel.NewExporter(),
		backend:     deps.Backend,
		logger:      logger,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/analyses", h.Upload)
	router.GET("/analyses", h.ListAnalyses)
	router.GET("/analyses/current", h.GetCurrent)
	router.GET("/analyses/:id", h.GetAnalysis)
	router.DELETE("/analyses/:id", h.DeleteAnalysis)
	router.POST("/analyses/:id/select", h.SelectAnalysis)

	router.POST("/analyses/:id/view", h.View)
	router.POST("/analyses/:id/export", h.Export)

	router.GET("/imports", h.ListImports)
}

func (h *Handler) publish(eventType string, data any) {
	if h.events != nil {
		h.events.Publish(eventType, data)
	}
}

// respondError AppError 按其状态码返回，其余错误返回 500
func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		c.JSON(appErr.StatusCode, gin.H{"error": appErr.Error(), "code": appErr.Code})
		return
	}
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
