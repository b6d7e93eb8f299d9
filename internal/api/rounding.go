package api

import (
	"revenuelens/internal/model"
	"revenuelens/internal/util"
)

// roundReportInPlace 效率与奖金金额按两位小数展示；收益总额保持原值
func roundReportInPlace(report *model.EfficiencyReport) {
	report.MeanEfficiency = util.RoundMoney(report.MeanEfficiency)
	report.MaxEfficiency = util.RoundMoney(report.MaxEfficiency)
	report.TotalBonus = util.RoundMoney(report.TotalBonus)
	report.TotalConverted = util.RoundMoney(report.TotalConverted)
	for i := range report.Labels {
		l := &report.Labels[i]
		l.Efficiency = util.RoundMoney(l.Efficiency)
		l.BonusAmount = util.RoundMoney(l.BonusAmount)
		l.ConvertedAmount = util.RoundMoney(l.ConvertedAmount)
	}
}
