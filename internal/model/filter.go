package model

// FilterState 用户当前的筛选状态（不可变值）
type FilterState struct {
	SelectedLabels       []string `json:"selectedLabels"`
	SelectedHashtags     []string `json:"selectedHashtags"`
	HideLowEarningVideos bool     `json:"hideLowEarningVideos"`
	HideLowEarningLabels bool     `json:"hideLowEarningLabels"`
}

// DefaultFilterState 初始状态：选中全部标签，不选话题，不隐藏
func DefaultFilterState(base *AnalysisResult) FilterState {
	return FilterState{
		SelectedLabels:   base.LabelNames(),
		SelectedHashtags: []string{},
	}
}

// ResultSource 可以作为筛选输入的结果（基础结果或已筛选结果）
type ResultSource interface {
	Origin() *AnalysisResult
}

// FilteredResult 基于基础结果和筛选状态派生的视图。
// 结构与 AnalysisResult 相同，VideoEarnings/LabelSummaries/GrandTotal/LowEarningCount 为重算值。
type FilteredResult struct {
	AnalysisResult
	Filter FilterState `json:"filter"`

	origin *AnalysisResult
}

// NewFilteredResult 以基础结果的元信息创建空视图
func NewFilteredResult(origin *AnalysisResult, state FilterState) *FilteredResult {
	return &FilteredResult{
		AnalysisResult: AnalysisResult{
			ID:             origin.ID,
			FileName:       origin.FileName,
			CreatedAt:      origin.CreatedAt,
			VideoEarnings:  []VideoEarning{},
			LabelSummaries: []LabelSummary{},
			StartDate:      origin.StartDate,
			EndDate:        origin.EndDate,
			Hashtags:       cloneStrings(origin.Hashtags),
			Insight:        origin.Insight,
			MissingColumns: cloneStrings(origin.MissingColumns),
		},
		Filter: state,
		origin: origin,
	}
}

// Origin 返回派生该视图的基础结果
func (f *FilteredResult) Origin() *AnalysisResult {
	return f.origin
}
