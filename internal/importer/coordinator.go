package importer

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"revenuelens/internal/model"
	"revenuelens/internal/parser"
	"revenuelens/internal/service/aggregate"
	"revenuelens/internal/service/excel"
)

// Coordinator 导入协调器：读取 -> 字段解析 -> 聚合 -> 汇总
type Coordinator struct {
	loader     *excel.Parser
	resolver   *parser.FieldResolver
	dateLayout string
	logger     *zap.Logger
	now        func() time.Time
}

// Options 协调器配置
type Options struct {
	Aliases    parser.AliasTable
	DateLayout string
}

// NewCoordinator 创建导入协调器
func NewCoordinator(opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = parser.DefaultDateLayout
	}
	return &Coordinator{
		loader:     excel.NewParser(),
		resolver:   parser.NewFieldResolver(opts.Aliases),
		dateLayout: layout,
		logger:     logger,
		now:        time.Now,
	}
}

// IngestOptions 单次导入参数
type IngestOptions struct {
	FileName string
	Reader   io.Reader
	// Progress 可选的进度回调
	Progress func(ProgressEvent)
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"` // start/loaded/done/error
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report 导入报告
type Report struct {
	FileName       string          `json:"fileName"`
	Sheet          string          `json:"sheet,omitempty"`
	Headers        []string        `json:"headers"`
	MissingColumns []string        `json:"missingColumns"`
	Stats          aggregate.Stats `json:"stats"`
	Duration       time.Duration   `json:"duration"`
}

// Ingest 执行一次导入。只有文件无法解析为表格时返回错误（FILE_UNREADABLE），
// 缺列只记为警告，单元格解析失败按缺失/0 处理。
func (c *Coordinator) Ingest(ctx context.Context, opts IngestOptions) (*model.AnalysisResult, *Report, error) {
	start := c.now()
	c.emit(opts, ProgressEvent{Type: "start", Message: "bắt đầu đọc tệp", Data: map[string]string{"filename": opts.FileName}})

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	table, err := c.loader.LoadFile(opts.FileName, opts.Reader)
	if err != nil {
		c.logger.Warn("file unreadable", zap.String("file", opts.FileName), zap.Error(err))
		c.emit(opts, ProgressEvent{Type: "error", Message: err.Error()})
		return nil, nil, err
	}
	c.emit(opts, ProgressEvent{Type: "loaded", Message: "đã đọc tệp", Data: map[string]int{"rows": len(table.Rows)}})

	headerReport := c.resolver.InspectHeaders(table.Headers)
	if headerReport.HasMissing() {
		c.logger.Warn("missing required columns",
			zap.String("file", opts.FileName),
			zap.Strings("missing", headerReport.MissingColumns),
		)
	}

	agg := aggregate.NewAggregator()
	for _, raw := range table.Rows {
		agg.Add(c.resolver.Resolve(raw))
	}

	result := agg.Build(aggregate.SummaryOptions{DateLayout: c.dateLayout})
	result.ID = uuid.New().String()
	result.FileName = opts.FileName
	result.CreatedAt = c.now().UTC().Round(0)
	result.MissingColumns = append([]string{}, headerReport.MissingColumns...)

	report := &Report{
		FileName:       opts.FileName,
		Sheet:          table.Sheet,
		Headers:        table.Headers,
		MissingColumns: result.MissingColumns,
		Stats:          agg.Stats(),
		Duration:       c.now().Sub(start),
	}

	c.logger.Info("ingest completed",
		zap.String("id", result.ID),
		zap.String("file", opts.FileName),
		zap.Int("rows", report.Stats.Rows),
		zap.Int("dropped_rows", report.Stats.DroppedRows),
		zap.Int("videos", report.Stats.Videos),
		zap.Int("labels", report.Stats.Labels),
		zap.Float64("grand_total", result.GrandTotal),
		zap.Int("warnings", len(result.MissingColumns)),
	)
	if report.Stats.InvalidDates > 0 {
		c.logger.Debug("unparsable date cells", zap.Int("count", report.Stats.InvalidDates))
	}

	c.emit(opts, ProgressEvent{Type: "done", Message: "hoàn tất", Data: report})
	return result, report, nil
}

func (c *Coordinator) emit(opts IngestOptions, evt ProgressEvent) {
	if opts.Progress == nil {
		return
	}
	evt.Timestamp = c.now()
	opts.Progress(evt)
}
