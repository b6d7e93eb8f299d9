package history

import (
	"sync"

	"go.uber.org/zap"

	"revenuelens/internal/model"
	apperrors "revenuelens/pkg/errors"
)

// Manager 有界历史：最新在前，超出容量淘汰最旧；按 ID 回写点评
type Manager struct {
	capacity  int
	persister Persister
	logger    *zap.Logger

	mu        sync.Mutex
	items     []*model.AnalysisResult
	currentID string
}

// NewManager 创建历史管理器并加载已保存的快照；persister 可为 nil（仅内存）
func NewManager(capacity int, persister Persister, logger *zap.Logger) (*Manager, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		capacity:  capacity,
		persister: persister,
		logger:    logger,
		items:     []*model.AnalysisResult{},
	}

	if persister != nil {
		snap, err := persister.Load()
		if err != nil {
			return nil, apperrors.NewStoreError("load history", err)
		}
		for _, item := range snap.Items {
			if item != nil {
				m.items = append(m.items, item)
			}
		}
		if len(m.items) > capacity {
			m.items = m.items[:capacity]
		}
		m.currentID = snap.CurrentID
		if m.indexLocked(m.currentID) < 0 {
			m.currentID = ""
		}
	}
	return m, nil
}

// Capacity 容量
func (m *Manager) Capacity() int {
	return m.capacity
}

// Len 当前条数
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Add 新结果置顶并设为当前；超出容量时淘汰最旧的，返回被淘汰的 ID
func (m *Manager) Add(result *model.AnalysisResult) ([]string, error) {
	if result == nil || result.ID == "" {
		return nil, apperrors.NewValidationError("analysis id is required", "id", "")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prevItems := append([]*model.AnalysisResult(nil), m.items...)
	prevCurrent := m.currentID

	if idx := m.indexLocked(result.ID); idx >= 0 {
		m.items = append(m.items[:idx], m.items[idx+1:]...)
	}

	m.items = append([]*model.AnalysisResult{result.Clone()}, m.items...)

	var evicted []string
	if len(m.items) > m.capacity {
		for _, item := range m.items[m.capacity:] {
			evicted = append(evicted, item.ID)
		}
		m.items = m.items[:m.capacity]
	}
	m.currentID = result.ID

	// 持久化失败时回滚，内存与存储保持一致
	if err := m.saveLocked(); err != nil {
		m.items, m.currentID = prevItems, prevCurrent
		return nil, err
	}
	if len(evicted) > 0 {
		m.logger.Info("history evicted", zap.Strings("ids", evicted))
	}
	return evicted, nil
}

// List 历史列表（最新在前）
func (m *Manager) List() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Summary, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, Summary{
			ID:             item.ID,
			FileName:       item.FileName,
			CreatedAt:      item.CreatedAt,
			GrandTotal:     item.GrandTotal,
			VideoCount:     len(item.VideoEarnings),
			LabelCount:     len(item.LabelSummaries),
			HasInsight:     item.Insight != nil,
			MissingColumns: append([]string{}, item.MissingColumns...),
			Current:        item.ID == m.currentID,
		})
	}
	return out
}

// Get 按 ID 获取（返回副本）
func (m *Manager) Get(id string) (*model.AnalysisResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		return nil, false
	}
	return m.items[idx].Clone(), true
}

// Remove 删除；若删除的是当前项，当前项改为最新的一条
func (m *Manager) Remove(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		return false, nil
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	if m.currentID == id {
		m.currentID = ""
		if len(m.items) > 0 {
			m.currentID = m.items[0].ID
		}
	}
	return true, m.saveLocked()
}

// Select 切换当前结果
func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(id) < 0 {
		return apperrors.NewNotFoundError("analysis", id)
	}
	m.currentID = id
	return m.saveLocked()
}

// CurrentID 当前结果 ID（可能为空）
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Current 当前结果（副本）
func (m *Manager) Current() (*model.AnalysisResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(m.currentID)
	if idx < 0 {
		return nil, false
	}
	return m.items[idx].Clone(), true
}

// AttachInsight 按 ID 回写点评；条目已被淘汰或删除时静默忽略。
// 不改变当前选中项。
func (m *Manager) AttachInsight(id, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.logger.Debug("insight dropped, analysis no longer in history", zap.String("id", id))
		return false
	}
	insight := text
	m.items[idx].Insight = &insight

	if err := m.saveLocked(); err != nil {
		m.logger.Warn("persist history after insight failed", zap.String("id", id), zap.Error(err))
	}
	return true
}

// SaveNow 立即持久化
func (m *Manager) SaveNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked()
}

func (m *Manager) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range m.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) saveLocked() error {
	if m.persister == nil {
		return nil
	}
	snap := &Snapshot{
		SchemaVersion: schemaVersion,
		CurrentID:     m.currentID,
		Items:         m.items,
	}
	if err := m.persister.Save(snap); err != nil {
		return apperrors.NewStoreError("save history", err)
	}
	return nil
}
