// Package filter 根据筛选状态从基础结果重算视图。
//
// 每一步只处理上一步的输出；标签汇总从最终可见的视频重新计算，
// 不沿用基础结果中的汇总值（第 2 步的标签隐藏除外，它使用基础总额）。
package filter

import (
	"revenuelens/internal/model"
	"revenuelens/internal/parser"
	"revenuelens/internal/service/aggregate"
)

// Apply 纯函数：同样的输入总是得到同样的输出。
// 传入已筛选结果时从其基础结果重新开始，因此重复应用同一状态是幂等的。
func Apply(src model.ResultSource, state model.FilterState) *model.FilteredResult {
	base := src.Origin()
	out := model.NewFilteredResult(base, cloneState(state))

	// 1. 保留选中的标签
	selected := toSet(state.SelectedLabels)
	labels := make([]model.LabelSummary, 0, len(base.LabelSummaries))
	for _, l := range base.LabelSummaries {
		if _, ok := selected[l.Label]; ok {
			labels = append(labels, l)
		}
	}

	// 2. 按基础总额隐藏低收益标签
	if state.HideLowEarningLabels {
		kept := labels[:0]
		for _, l := range labels {
			if l.TotalEarning >= model.LowEarningThreshold {
				kept = append(kept, l)
			}
		}
		labels = kept
	}

	visible := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		visible[l.Label] = struct{}{}
	}

	// 3-5. 视频：标签 -> 话题（任一命中）-> 低收益
	tags := hashtagSet(state.SelectedHashtags)
	videos := make([]model.VideoEarning, 0, len(base.VideoEarnings))
	for i := range base.VideoEarnings {
		v := &base.VideoEarnings[i]
		if _, ok := visible[v.Label]; !ok {
			continue
		}
		if len(tags) > 0 && !v.HasAnyHashtag(tags) {
			continue
		}
		if state.HideLowEarningVideos && v.IsLowEarning() {
			continue
		}
		cp := *v
		cp.Hashtags = append([]string{}, v.Hashtags...)
		videos = append(videos, cp)
	}

	// 6. 从可见视频重算标签汇总；沿用第 2 步后的标签顺序作为并列顺序
	order := make([]string, 0, len(labels))
	for _, l := range labels {
		order = append(order, l.Label)
	}
	recomputed := aggregate.LabelTotals(order, videos)
	nonEmpty := recomputed[:0]
	for _, l := range recomputed {
		if l.VideoCount > 0 {
			nonEmpty = append(nonEmpty, l)
		}
	}

	// 7. 重新排序
	aggregate.SortLabels(nonEmpty)

	// 8. 总额与低收益计数
	out.VideoEarnings = videos
	out.LabelSummaries = nonEmpty
	out.GrandTotal = aggregate.SumLabels(nonEmpty)
	out.LowEarningCount = aggregate.CountLowEarning(videos)
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func hashtagSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		if tag := parser.NormalizeHashtag(s); tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

func cloneState(state model.FilterState) model.FilterState {
	out := state
	out.SelectedLabels = append([]string{}, state.SelectedLabels...)
	out.SelectedHashtags = append([]string{}, state.SelectedHashtags...)
	return out
}
