package history

import (
	"time"

	"revenuelens/internal/model"
)

const schemaVersion = 1

// DefaultCapacity 默认保留最近 10 次分析
const DefaultCapacity = 10

// Snapshot 持久化的历史快照：最新的在前
type Snapshot struct {
	SchemaVersion int                     `json:"schemaVersion"`
	CurrentID     string                  `json:"currentId"`
	Items         []*model.AnalysisResult `json:"items"`
}

// NewSnapshot 空快照
func NewSnapshot() *Snapshot {
	return &Snapshot{
		SchemaVersion: schemaVersion,
		Items:         []*model.AnalysisResult{},
	}
}

// Persister 历史持久化接口（JSON 文件或 SQL 存储）
type Persister interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
}

// Summary 历史列表项
type Summary struct {
	ID             string    `json:"id"`
	FileName       string    `json:"fileName"`
	CreatedAt      time.Time `json:"createdAt"`
	GrandTotal     float64   `json:"grandTotal"`
	VideoCount     int       `json:"videoCount"`
	LabelCount     int       `json:"labelCount"`
	HasInsight     bool      `json:"hasInsight"`
	MissingColumns []string  `json:"missingColumns"`
	Current        bool      `json:"current"`
}
