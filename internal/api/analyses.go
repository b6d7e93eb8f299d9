package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revenuelens/internal/importer"
	"revenuelens/internal/model"
	"revenuelens/internal/store"
	apperrors "revenuelens/pkg/errors"
)

// UploadResponse 上传响应
type UploadResponse struct {
	Result  *model.AnalysisResult `json:"result"`
	Report  *importer.Report      `json:"report"`
	Evicted []string              `json:"evicted"`
}

// Upload 上传导出文件并生成分析结果
// POST /api/analyses
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload field \"file\""})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	result, report, err := h.coordinator.Ingest(c.Request.Context(), importer.IngestOptions{
		FileName: header.Filename,
		Reader:   file,
		Progress: func(evt importer.ProgressEvent) { h.publish(EventIngestProgress, evt) },
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	evicted, err := h.history.Add(result)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.store != nil {
		logErr := h.store.CreateImportLog(store.ImportLog{
			AnalysisID:     result.ID,
			FileName:       result.FileName,
			TotalRows:      report.Stats.Rows,
			DroppedRows:    report.Stats.DroppedRows,
			VideoCount:     report.Stats.Videos,
			LabelCount:     report.Stats.Labels,
			MissingColumns: result.MissingColumns,
			GrandTotal:     result.GrandTotal,
		})
		if logErr != nil {
			h.logger.Warn("write import log failed", zap.Error(logErr))
		}
	}

	if h.dispatcher != nil {
		h.dispatcher.Dispatch(result, h.business.BonusPercentage)
	}
	h.publish(EventHistoryChanged, gin.H{"currentId": result.ID, "evicted": evicted})

	if evicted == nil {
		evicted = []string{}
	}
	c.JSON(http.StatusCreated, UploadResponse{Result: result, Report: report, Evicted: evicted})
}

// ListAnalyses 历史列表
// GET /api/analyses
func (h *Handler) ListAnalyses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":     h.history.List(),
		"currentId": h.history.CurrentID(),
		"capacity":  h.history.Capacity(),
	})
}

// GetCurrent 当前分析结果
// GET /api/analyses/current
func (h *Handler) GetCurrent(c *gin.Context) {
	result, ok := h.history.Current()
	if !ok {
		h.respondError(c, apperrors.NewNotFoundError("analysis", "current"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAnalysis 按 ID 获取分析结果
// GET /api/analyses/:id
func (h *Handler) GetAnalysis(c *gin.Context) {
	result, ok := h.history.Get(c.Param("id"))
	if !ok {
		h.respondError(c, apperrors.NewNotFoundError("analysis", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteAnalysis 从历史中删除
// DELETE /api/analyses/:id
func (h *Handler) DeleteAnalysis(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.history.Remove(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		h.respondError(c, apperrors.NewNotFoundError("analysis", id))
		return
	}
	h.publish(EventHistoryChanged, gin.H{"currentId": h.history.CurrentID(), "removed": id})
	c.Status(http.StatusNoContent)
}

// SelectAnalysis 切换当前分析
// POST /api/analyses/:id/select
func (h *Handler) SelectAnalysis(c *gin.Context) {
	id := c.Param("id")
	if err := h.history.Select(id); err != nil {
		h.respondError(c, err)
		return
	}
	h.publish(EventHistoryChanged, gin.H{"currentId": id})
	c.JSON(http.StatusOK, gin.H{"currentId": id})
}

// ListImports 最近的导入日志（仅 SQL 存储）
// GET /api/imports
func (h *Handler) ListImports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.ImportLog{}})
		return
	}
	logs, err := h.store.ListImportLogs(20)
	if err != nil {
		h.respondError(c, apperrors.NewStoreError("list import logs", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
