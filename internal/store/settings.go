package store

import (
	"database/sql"
	"errors"
	"fmt"

	"livestats/internal/model"
)

const settingOutputMode = "output_mode"

// GetSetting 读取设置项，不存在返回 ErrNotFound
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("setting %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetSetting 写入设置项
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// GetOutputMode 读取默认输出模式；未设置时返回 fallback
func (s *Store) GetOutputMode(fallback model.OutputMode) model.OutputMode {
	v, err := s.GetSetting(settingOutputMode)
	if err != nil || v == "" {
		return fallback
	}
	return model.ParseOutputMode(v)
}

// SetOutputMode 设置默认输出模式
func (s *Store) SetOutputMode(mode model.OutputMode) error {
	return s.SetSetting(settingOutputMode, string(mode))
}
