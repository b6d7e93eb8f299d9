package model

// Tier 效率分档
type Tier string

const (
	TierTop      Tier = "top"      // > 1.5 倍均值
	TierMiddle   Tier = "middle"   // > 均值
	TierBaseline Tier = "baseline" // 其余
)

// DisplayName 展示名称
func (t Tier) DisplayName() string {
	switch t {
	case TierTop:
		return "Hiệu quả cao"
	case TierMiddle:
		return "Khá"
	default:
		return "Trung bình"
	}
}

// HighestMarker 效率最高标签的附加标记
const HighestMarker = "Cao nhất"

// LabelEfficiency 单个标签的效率与奖金
type LabelEfficiency struct {
	Label           string  `json:"label"`
	TotalEarning    float64 `json:"totalEarning"`
	VideoCount      int     `json:"videoCount"`
	Efficiency      float64 `json:"efficiency"`
	Tier            Tier    `json:"tier"`
	Highest         bool    `json:"highest"`
	BonusAmount     float64 `json:"bonusAmount"`
	ConvertedAmount float64 `json:"convertedAmount"`
}

// EfficiencyReport 当前可见标签的效率分档与奖金汇总
type EfficiencyReport struct {
	BonusPercentage float64           `json:"bonusPercentage"`
	ExchangeRate    float64           `json:"exchangeRate"`
	MeanEfficiency  float64           `json:"meanEfficiency"`
	MaxEfficiency   float64           `json:"maxEfficiency"`
	Labels          []LabelEfficiency `json:"labels"`
	TotalBonus      float64           `json:"totalBonus"`
	TotalConverted  float64           `json:"totalConverted"`
}
