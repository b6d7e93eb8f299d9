package insight

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"revenuelens/internal/model"
)

// ReadyEvent 点评到达事件
type ReadyEvent struct {
	AnalysisID string `json:"analysisId"`
	Insight    string `json:"insight"`
	Attached   bool   `json:"attached"`
}

// Dispatcher 异步生成点评并按 ID 回写历史；不支持取消，失败只会得到占位文本
type Dispatcher struct {
	generator Generator
	attacher  Attacher
	logger    *zap.Logger

	mu       sync.Mutex
	handlers []func(ReadyEvent)

	wg conc.WaitGroup
}

// NewDispatcher 创建调度器
func NewDispatcher(generator Generator, attacher Attacher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{generator: generator, attacher: attacher, logger: logger}
}

// OnReady 注册点评到达回调
func (d *Dispatcher) OnReady(fn func(ReadyEvent)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

// Dispatch 发起一次点评生成，立即返回
func (d *Dispatcher) Dispatch(result *model.AnalysisResult, bonusPercentage float64) {
	id := result.ID
	in := InputFromResult(result, bonusPercentage)

	d.wg.Go(func() {
		text := d.generator.Generate(context.Background(), in)
		attached := d.attacher.AttachInsight(id, text)
		d.logger.Info("insight resolved", zap.String("id", id), zap.Bool("attached", attached))
		d.publish(ReadyEvent{AnalysisID: id, Insight: text, Attached: attached})
	})
}

func (d *Dispatcher) publish(evt ReadyEvent) {
	d.mu.Lock()
	handlers := append([]func(ReadyEvent){}, d.handlers...)
	d.mu.Unlock()

	for _, fn := range handlers {
		fn(evt)
	}
}

// Wait 等待所有进行中的任务；任务中的 panic 被恢复并记录
func (d *Dispatcher) Wait() {
	if recovered := d.wg.WaitAndRecover(); recovered != nil {
		d.logger.Error("insight task panicked", zap.String("panic", recovered.String()))
	}
}
