package calculator

import "revenuelens/internal/model"

// 分档阈值（相对于可见标签的平均效率）
const (
	topTierFactor    = 1.5
	middleTierFactor = 1.0
)

// BonusOptions 奖金参数；不做取值校验，负数与零照常参与计算
type BonusOptions struct {
	BonusPercentage float64 `json:"bonusPercentage"`
	ExchangeRate    float64 `json:"exchangeRate"`
}

// Classify 计算当前可见标签的效率、分档、最高标记与奖金
func Classify(labels []model.LabelSummary, opts BonusOptions) *model.EfficiencyReport {
	report := &model.EfficiencyReport{
		BonusPercentage: opts.BonusPercentage,
		ExchangeRate:    opts.ExchangeRate,
		Labels:          make([]model.LabelEfficiency, 0, len(labels)),
	}
	if len(labels) == 0 {
		return report
	}

	var sum float64
	for _, l := range labels {
		e := Efficiency(l.TotalEarning, l.VideoCount)
		sum += e
		if len(report.Labels) == 0 || e > report.MaxEfficiency {
			report.MaxEfficiency = e
		}

		bonus := BonusAmount(l.TotalEarning, opts.BonusPercentage)
		report.Labels = append(report.Labels, model.LabelEfficiency{
			Label:           l.Label,
			TotalEarning:    l.TotalEarning,
			VideoCount:      l.VideoCount,
			Efficiency:      e,
			BonusAmount:     bonus,
			ConvertedAmount: ConvertedAmount(bonus, opts.ExchangeRate),
		})
	}
	report.MeanEfficiency = sum / float64(len(labels))

	highestAssigned := false
	for i := range report.Labels {
		l := &report.Labels[i]
		l.Tier = TierFor(l.Efficiency, report.MeanEfficiency)
		// 多个并列最大值时只标记排序中的第一个
		if !highestAssigned && l.Efficiency == report.MaxEfficiency {
			l.Highest = true
			highestAssigned = true
		}
		report.TotalBonus += l.BonusAmount
		report.TotalConverted += l.ConvertedAmount
	}
	return report
}

// Efficiency 每视频收益；视频数为 0 时返回 0
func Efficiency(total float64, videoCount int) float64 {
	if videoCount == 0 {
		return 0
	}
	return total / float64(videoCount)
}

// TierFor 按优先级判断分档：> 1.5 倍均值 -> top；> 均值 -> middle；否则 baseline
func TierFor(efficiency, mean float64) model.Tier {
	switch {
	case efficiency > topTierFactor*mean:
		return model.TierTop
	case efficiency > middleTierFactor*mean:
		return model.TierMiddle
	default:
		return model.TierBaseline
	}
}

// BonusAmount 奖金 = 收益 * 比例 / 100
func BonusAmount(total, percentage float64) float64 {
	return total * percentage / 100
}

// ConvertedAmount 奖金按汇率换算
func ConvertedAmount(bonus, rate float64) float64 {
	return bonus * rate
}
