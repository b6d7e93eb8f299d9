package aggregate

import (
	"sort"

	"revenuelens/internal/model"
	"revenuelens/internal/parser"
)

// SummaryOptions 汇总选项
type SummaryOptions struct {
	// DateLayout 日期范围的输出格式，默认 vi-VN（日/月/年）
	DateLayout string
}

// Build 把累加器转换为基础分析结果（不含 ID / 文件名 / 创建时间）
func (a *Aggregator) Build(opts SummaryOptions) *model.AnalysisResult {
	result := &model.AnalysisResult{
		VideoEarnings:  make([]model.VideoEarning, 0, len(a.videoOrder)),
		LabelSummaries: make([]model.LabelSummary, 0, len(a.labelOrder)),
		Hashtags:       make([]string, 0, len(a.hashtags)),
		MissingColumns: []string{},
	}

	for _, key := range a.videoOrder {
		v := *a.videos[key]
		v.Hashtags = append([]string{}, v.Hashtags...)
		v.Date = parser.DisplayDate(v.Date, opts.DateLayout)
		result.VideoEarnings = append(result.VideoEarnings, v)
	}

	SortVideos(result.VideoEarnings)
	result.LabelSummaries = LabelTotals(a.labelOrder, result.VideoEarnings)
	SortLabels(result.LabelSummaries)

	result.GrandTotal = SumLabels(result.LabelSummaries)
	result.LowEarningCount = CountLowEarning(result.VideoEarnings)

	for h := range a.hashtags {
		result.Hashtags = append(result.Hashtags, h)
	}
	sort.Strings(result.Hashtags)

	if a.hasDate {
		result.StartDate = parser.FormatDate(a.minDate, opts.DateLayout)
		result.EndDate = parser.FormatDate(a.maxDate, opts.DateLayout)
	}
	return result
}

// SortVideos 按收益降序；并列保持发现顺序
func SortVideos(videos []model.VideoEarning) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].TotalEarning > videos[j].TotalEarning
	})
}

// SortLabels 按收益降序；并列保持发现顺序
func SortLabels(labels []model.LabelSummary) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].TotalEarning > labels[j].TotalEarning
	})
}

// LabelTotals 按视频列表顺序累加各标签的收益与视频数，输出顺序与 order 一致。
// 基础结果与筛选视图共用这一累加方式，全选时两者的总额逐位相同。
func LabelTotals(order []string, videos []model.VideoEarning) []model.LabelSummary {
	out := make([]model.LabelSummary, 0, len(order))
	index := make(map[string]int, len(order))
	for _, name := range order {
		index[name] = len(out)
		out = append(out, model.LabelSummary{Label: name})
	}
	for i := range videos {
		idx, ok := index[videos[i].Label]
		if !ok {
			continue
		}
		out[idx].TotalEarning += videos[i].TotalEarning
		out[idx].VideoCount++
	}
	return out
}

// SumLabels 按列表顺序累加标签收益
func SumLabels(labels []model.LabelSummary) float64 {
	var total float64
	for _, l := range labels {
		total += l.TotalEarning
	}
	return total
}

// CountLowEarning 低收益视频数量
func CountLowEarning(videos []model.VideoEarning) int {
	n := 0
	for i := range videos {
		if videos[i].IsLowEarning() {
			n++
		}
	}
	return n
}

// Summarize 便捷入口：聚合所有行并生成结果
func Summarize(rows []model.NormalizedRow, opts SummaryOptions) *model.AnalysisResult {
	agg := NewAggregator()
	for _, row := range rows {
		agg.Add(row)
	}
	return agg.Build(opts)
}
