package store

import (
	"encoding/json"
	"fmt"
	"time"

	"revenuelens/internal/model"
	"revenuelens/internal/service/history"
)

// HistoryStore 以数据库表保存分析历史，实现 history.Persister
type HistoryStore struct {
	store *Store
}

// NewHistoryStore 创建历史存储
func NewHistoryStore(store *Store) *HistoryStore {
	return &HistoryStore{store: store}
}

// Load 按 position 顺序读取全部历史
func (h *HistoryStore) Load() (*history.Snapshot, error) {
	rows, err := h.store.Query("SELECT payload FROM analysis_history ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	snap := history.NewSnapshot()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		var result model.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("failed to decode history payload: %w", err)
		}
		snap.Items = append(snap.Items, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	current, err := h.store.GetConfig(configKeyCurrentAnalysis)
	if err != nil {
		return nil, err
	}
	snap.CurrentID = current
	return snap, nil
}

// Save 在一个事务内整体替换历史
func (h *HistoryStore) Save(snap *history.Snapshot) error {
	tx, err := h.store.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM analysis_history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	insert := h.store.rebind(`
		INSERT INTO analysis_history (id, position, file_name, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	for i, item := range snap.Items {
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode analysis %s: %w", item.ID, err)
		}
		if _, err := tx.Exec(insert, item.ID, i, item.FileName, item.CreatedAt.Format(time.RFC3339Nano), string(payload)); err != nil {
			return fmt.Errorf("failed to insert analysis %s: %w", item.ID, err)
		}
	}

	if err := setConfig(h.store, tx, configKeyCurrentAnalysis, snap.CurrentID); err != nil {
		return err
	}
	return tx.Commit()
}
