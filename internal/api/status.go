package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	HistorySize      int      `json:"historySize"`
	HistoryCapacity  int      `json:"historyCapacity"`
	CurrentID        string   `json:"currentId"`
	InsightProviders []string `json:"insightProviders"`
	Backend          string   `json:"backend"`
	BonusPercentage  float64  `json:"bonusPercentage"`
	ExchangeRate     float64  `json:"exchangeRate"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	providers := []string{}
	if h.insight != nil {
		providers = h.insight.ProviderNames()
	}
	c.JSON(http.StatusOK, StatusResponse{
		HistorySize:      h.history.Len(),
		HistoryCapacity:  h.history.Capacity(),
		CurrentID:        h.history.CurrentID(),
		InsightProviders: providers,
		Backend:          h.backend,
		BonusPercentage:  h.business.BonusPercentage,
		ExchangeRate:     h.business.ExchangeRate,
	})
}
