package model

import "time"

// VideoKey 视频聚合键：(标题, 标签)。同一标题在不同标签下是不同的视频条目。
type VideoKey struct {
	Title string
	Label string
}

// VideoEarning 单个 (标题, 标签) 的累计收益
type VideoEarning struct {
	Title        string   `json:"title"`
	Label        string   `json:"label"`
	TotalEarning float64  `json:"totalEarning"`
	AssetID      string   `json:"assetId,omitempty"`
	Date         string   `json:"date,omitempty"`
	Hashtags     []string `json:"hashtags"`
}

// IsLowEarning 是否低收益
func (v *VideoEarning) IsLowEarning() bool {
	return v.TotalEarning < LowEarningThreshold
}

// HasAnyHashtag 是否包含集合中任意一个标签
func (v *VideoEarning) HasAnyHashtag(tags map[string]struct{}) bool {
	for _, h := range v.Hashtags {
		if _, ok := tags[h]; ok {
			return true
		}
	}
	return false
}

// LabelSummary 按标签汇总
type LabelSummary struct {
	Label        string  `json:"label"`
	TotalEarning float64 `json:"totalEarning"`
	VideoCount   int     `json:"videoCount"`
}

// AnalysisResult 一次导入产生的分析快照。
// 除了异步到达的 Insight 之外，创建后不再修改。
type AnalysisResult struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	CreatedAt time.Time `json:"createdAt"`

	VideoEarnings   []VideoEarning `json:"videoEarnings"`
	LabelSummaries  []LabelSummary `json:"labelSummaries"`
	GrandTotal      float64        `json:"grandTotal"`
	LowEarningCount int            `json:"lowEarningCount"`

	// StartDate/EndDate 同时存在或同时为空
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	Hashtags       []string `json:"hashtags"`
	Insight        *string  `json:"insight"`
	MissingColumns []string `json:"missingColumns"`
}

// Origin 基础结果的来源就是自己
func (r *AnalysisResult) Origin() *AnalysisResult {
	return r
}

// HasDateRange 是否有日期范围
func (r *AnalysisResult) HasDateRange() bool {
	return r.StartDate != "" && r.EndDate != ""
}

// LabelNames 按当前排序返回全部标签名
func (r *AnalysisResult) LabelNames() []string {
	names := make([]string, 0, len(r.LabelSummaries))
	for _, l := range r.LabelSummaries {
		names = append(names, l.Label)
	}
	return names
}

// Clone 深拷贝
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	if r.VideoEarnings != nil {
		out.VideoEarnings = make([]VideoEarning, len(r.VideoEarnings))
		for i, v := range r.VideoEarnings {
			v.Hashtags = cloneStrings(v.Hashtags)
			out.VideoEarnings[i] = v
		}
	}
	if r.LabelSummaries != nil {
		out.LabelSummaries = append([]LabelSummary(nil), r.LabelSummaries...)
	}
	out.Hashtags = cloneStrings(r.Hashtags)
	out.MissingColumns = cloneStrings(r.MissingColumns)
	if r.Insight != nil {
		insight := *r.Insight
		out.Insight = &insight
	}
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
