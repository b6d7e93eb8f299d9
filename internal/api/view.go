package api

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"revenuelens/internal/model"
	"revenuelens/internal/service/calculator"
	"revenuelens/internal/service/filter"
	apperrors "revenuelens/pkg/errors"
)

// ViewRequest 筛选视图请求。SelectedLabels 缺省表示全部标签，显式 [] 表示不选。
type ViewRequest struct {
	SelectedLabels       *[]string `json:"selectedLabels"`
	SelectedHashtags     []string  `json:"selectedHashtags"`
	HideLowEarningVideos bool      `json:"hideLowEarningVideos"`
	HideLowEarningLabels bool      `json:"hideLowEarningLabels"`
	BonusPercentage      *float64  `json:"bonusPercentage"`
	ExchangeRate         *float64  `json:"exchangeRate"`
}

// ViewResponse 筛选视图 + 效率报告
type ViewResponse struct {
	Result     *model.FilteredResult   `json:"result"`
	Efficiency *model.EfficiencyReport `json:"efficiency"`
}

func (h *Handler) buildView(c *gin.Context) (*model.FilteredResult, *model.EfficiencyReport, bool) {
	id := c.Param("id")
	base, ok := h.history.Get(id)
	if !ok {
		h.respondError(c, apperrors.NewNotFoundError("analysis", id))
		return nil, nil, false
	}

	var req ViewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, apperrors.NewValidationError("invalid view request: "+err.Error(), "body", nil))
			return nil, nil, false
		}
	}

	state := model.DefaultFilterState(base)
	if req.SelectedLabels != nil {
		state.SelectedLabels = *req.SelectedLabels
	}
	if req.SelectedHashtags != nil {
		state.SelectedHashtags = req.SelectedHashtags
	}
	state.HideLowEarningVideos = req.HideLowEarningVideos
	state.HideLowEarningLabels = req.HideLowEarningLabels

	opts := calculator.BonusOptions{
		BonusPercentage: h.business.BonusPercentage,
		ExchangeRate:    h.business.ExchangeRate,
	}
	if req.BonusPercentage != nil {
		opts.BonusPercentage = *req.BonusPercentage
	}
	if req.ExchangeRate != nil {
		opts.ExchangeRate = *req.ExchangeRate
	}

	view := filter.Apply(base, state)
	return view, calculator.Classify(view.LabelSummaries, opts), true
}

// View 计算筛选视图
// POST /api/analyses/:id/view
func (h *Handler) View(c *gin.Context) {
	view, report, ok := h.buildView(c)
	if !ok {
		return
	}
	roundReportInPlace(report)
	c.JSON(http.StatusOK, ViewResponse{Result: view, Efficiency: report})
}

// Export 导出筛选视图为 xlsx
// POST /api/analyses/:id/export
func (h *Handler) Export(c *gin.Context) {
	view, report, ok := h.buildView(c)
	if !ok {
		return
	}

	file, err := h.exporter.Export(&view.AnalysisResult, report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed: " + err.Error()})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildExportContentDisposition(view.FileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		h.respondError(c, fmt.Errorf("write export: %w", err))
	}
}

// buildExportContentDisposition ASCII 文件名 + RFC 5987 的 UTF-8 文件名
func buildExportContentDisposition(sourceName string) string {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	if base == "" || base == "." {
		base = "bao-cao"
	}
	utf8Name := base + "-bao-cao.xlsx"
	return fmt.Sprintf("attachment; filename=\"revenue-report.xlsx\"; filename*=UTF-8''%s", url.PathEscape(utf8Name))
}
