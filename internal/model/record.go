package model

// NoLabel 未打标签（或标签为空白）时使用的哨兵标签
const NoLabel = "Không có nhãn"

// LowEarningThreshold 低收益阈值：收益严格小于该值视为低收益。
// 汇总低收益计数、视频隐藏开关、标签隐藏开关共用这一个常量。
const LowEarningThreshold = 1.0

// RawRow 原始行：列名（双语别名之一）-> 单元格值（string / float64 / int / nil）
type RawRow map[string]any

// NormalizedRow 统一口径的一行数据。
// Title/AssetID/DateText 为空串表示缺失。
type NormalizedRow struct {
	Title       string  `json:"title,omitempty"`
	Label       string  `json:"label"`
	AssetID     string  `json:"assetId,omitempty"`
	DateText    string  `json:"dateText,omitempty"`
	Description string  `json:"description"`
	Earning     float64 `json:"earning"`

	// Hashtags 从 Description 中提取的话题标签（小写、去重、首次出现顺序）
	Hashtags []string `json:"hashtags"`
}

// HasTitle 是否可以作为视频聚合的键
func (r *NormalizedRow) HasTitle() bool {
	return r.Title != ""
}
