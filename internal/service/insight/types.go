package insight

import (
	"context"
	"time"

	"revenuelens/internal/model"
)

// FailurePlaceholder 点评生成失败时使用的固定文本
const FailurePlaceholder = "Xin lỗi, hiện không thể tạo nhận xét tự động cho báo cáo này. Vui lòng thử lại sau."

// Input 点评输入
type Input struct {
	GrandTotal      float64              `json:"grandTotal"`
	BonusPercentage float64              `json:"bonusPercentage"`
	VideoCount      int                  `json:"videoCount"`
	LowEarningCount int                  `json:"lowEarningCount"`
	LabelSummaries  []model.LabelSummary `json:"labelSummaries"`
}

// InputFromResult 从分析结果构造点评输入
func InputFromResult(result *model.AnalysisResult, bonusPercentage float64) Input {
	return Input{
		GrandTotal:      result.GrandTotal,
		BonusPercentage: bonusPercentage,
		VideoCount:      len(result.VideoEarnings),
		LowEarningCount: result.LowEarningCount,
		LabelSummaries:  append([]model.LabelSummary{}, result.LabelSummaries...),
	}
}

// Provider 文本生成服务
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Cache 点评缓存
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Generator 点评生成（Service 实现）
type Generator interface {
	Generate(ctx context.Context, in Input) string
}

// Attacher 按 ID 回写点评（history.Manager 实现）
type Attacher interface {
	AttachInsight(id, text string) bool
}
