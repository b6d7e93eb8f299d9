package store

import (
	"fmt"
	"strings"
	"time"
)

// ImportLog 导入日志
type ImportLog struct {
	AnalysisID     string    `json:"analysisId"`
	FileName       string    `json:"fileName"`
	TotalRows      int       `json:"totalRows"`
	DroppedRows    int       `json:"droppedRows"`
	VideoCount     int       `json:"videoCount"`
	LabelCount     int       `json:"labelCount"`
	MissingColumns []string  `json:"missingColumns"`
	GrandTotal     float64   `json:"grandTotal"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateImportLog 记录一次导入
func (s *Store) CreateImportLog(log ImportLog) error {
	err := s.Exec(`
		INSERT INTO import_logs (analysis_id, filename, total_rows, dropped_rows, video_count, label_count, missing_columns, grand_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, log.AnalysisID, log.FileName, log.TotalRows, log.DroppedRows, log.VideoCount, log.LabelCount,
		strings.Join(log.MissingColumns, "\n"), log.GrandTotal)
	if err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Query(`
		SELECT analysis_id, filename, total_rows, dropped_rows, video_count, label_count, missing_columns, grand_total, created_at
		FROM import_logs ORDER BY created_at DESC, analysis_id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	logs := []ImportLog{}
	for rows.Next() {
		var l ImportLog
		var missing string
		if err := rows.Scan(&l.AnalysisID, &l.FileName, &l.TotalRows, &l.DroppedRows, &l.VideoCount,
			&l.LabelCount, &missing, &l.GrandTotal, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		l.MissingColumns = []string{}
		if missing != "" {
			l.MissingColumns = strings.Split(missing, "\n")
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
