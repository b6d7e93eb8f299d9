package aggregate

import (
	"time"

	"revenuelens/internal/model"
	"revenuelens/internal/parser"
)

// Aggregator 单次聚合过程的累加器（非并发安全，每次导入新建一个）
type Aggregator struct {
	videos map[model.VideoKey]*model.VideoEarning
	labels map[string]struct{}

	// 发现顺序，用于稳定排序的并列项
	videoOrder []model.VideoKey
	labelOrder []string

	hashtags map[string]struct{}

	minDate time.Time
	maxDate time.Time
	hasDate bool

	rowCount     int
	droppedRows  int
	invalidDates int
}

// NewAggregator 创建聚合器
func NewAggregator() *Aggregator {
	return &Aggregator{
		videos:   make(map[model.VideoKey]*model.VideoEarning),
		labels:   make(map[string]struct{}),
		hashtags: make(map[string]struct{}),
	}
}

// Add 累加一行。日期范围与键无关：无标题的行也会参与日期统计。
func (a *Aggregator) Add(row model.NormalizedRow) {
	a.rowCount++
	a.observeDate(row.DateText)

	if !row.HasTitle() {
		a.droppedRows++
		return
	}

	for _, h := range row.Hashtags {
		a.hashtags[h] = struct{}{}
	}

	key := model.VideoKey{Title: row.Title, Label: row.Label}
	video, ok := a.videos[key]
	if !ok {
		video = &model.VideoEarning{
			Title:    row.Title,
			Label:    row.Label,
			AssetID:  row.AssetID,
			Date:     row.DateText,
			Hashtags: append([]string{}, row.Hashtags...),
		}
		a.videos[key] = video
		a.videoOrder = append(a.videoOrder, key)

		if _, ok := a.labels[row.Label]; !ok {
			a.labels[row.Label] = struct{}{}
			a.labelOrder = append(a.labelOrder, row.Label)
		}
	} else {
		if video.AssetID == "" {
			video.AssetID = row.AssetID
		}
		video.Hashtags = parser.MergeHashtags(video.Hashtags, row.Hashtags)
	}

	video.TotalEarning += row.Earning
}

func (a *Aggregator) observeDate(text string) {
	if text == "" {
		return
	}
	t, ok := parser.ParseDate(text)
	if !ok {
		a.invalidDates++
		return
	}
	if !a.hasDate || t.Before(a.minDate) {
		a.minDate = t
	}
	if !a.hasDate || t.After(a.maxDate) {
		a.maxDate = t
	}
	a.hasDate = true
}

// Stats 聚合统计（用于日志）
type Stats struct {
	Rows         int `json:"rows"`
	DroppedRows  int `json:"droppedRows"`
	InvalidDates int `json:"invalidDates"`
	Videos       int `json:"videos"`
	Labels       int `json:"labels"`
}

// Stats 返回当前统计
func (a *Aggregator) Stats() Stats {
	return Stats{
		Rows:         a.rowCount,
		DroppedRows:  a.droppedRows,
		InvalidDates: a.invalidDates,
		Videos:       len(a.videos),
		Labels:       len(a.labels),
	}
}
