package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func writeJSONAtomic(path string, v any) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func requireNonEmptyString(value string, message string) error {
	if value == "" {
		return errors.New(message)
	}
	return nil
}

// JSONPersister 以单个 JSON 文件保存历史（临时文件 + rename 原子替换）
type JSONPersister struct {
	path string
}

// NewJSONPersister 创建 JSON 持久化
func NewJSONPersister(path string) (*JSONPersister, error) {
	if err := requireNonEmptyString(path, "history path is required"); err != nil {
		return nil, err
	}
	return &JSONPersister{path: path}, nil
}

// Path 文件路径
func (p *JSONPersister) Path() string {
	return p.path
}

// Load 读取快照；文件不存在时返回空快照
func (p *JSONPersister) Load() (*Snapshot, error) {
	if !fileExists(p.path) {
		return NewSnapshot(), nil
	}
	var snap Snapshot
	if err := readJSON(p.path, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save 写入快照
func (p *JSONPersister) Save(snap *Snapshot) error {
	return writeJSONAtomic(p.path, snap)
}
