package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// 配置键
const configKeyCurrentAnalysis = "current_analysis_id"

// GetConfig 获取配置项；不存在时返回空串
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	return setConfig(s, s.db, key, value)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setConfig(s *Store, db execer, key, value string) error {
	_, err := db.Exec(s.rebind(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}
