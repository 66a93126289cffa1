package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"livestats/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// CreateProcessLog 创建处理日志（状态 processing），返回日志 ID
func (s *Store) CreateProcessLog(log *model.ProcessLog) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO process_logs (job_id, filename, file_size, file_hash, mode, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, log.JobID, log.Filename, log.FileSize, log.FileHash, string(log.Mode), string(model.ProcessStatusProcessing))
	if err != nil {
		return 0, fmt.Errorf("failed to create process log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get process log id: %w", err)
	}
	log.ID = id
	return id, nil
}

// CompleteProcessLog 写入处理结果；summary 为空时只更新状态与错误信息
func (s *Store) CompleteProcessLog(id int64, summary *model.ProcessSummary, status model.ProcessStatus, errorMessage string) error {
	var (
		format, variant    string
		rows, days, months int
		headersJSON        = "[]"
	)
	if summary != nil {
		format = string(summary.Format)
		variant = string(summary.Variant)
		rows, days, months = summary.Rows, summary.Days, summary.Months
		headersJSON = BuildHeadersJSON(summary.Headers)
	}

	_, err := s.db.Exec(`
		UPDATE process_logs SET
			format = ?,
			variant = ?,
			rows_count = ?,
			days_count = ?,
			months_count = ?,
			headers_json = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, format, variant, rows, days, months, headersJSON, string(status), errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update process log: %w", err)
	}
	return nil
}

// GetProcessLog 按 job ID 查询
func (s *Store) GetProcessLog(jobID string) (*model.ProcessLog, error) {
	row := s.db.QueryRow(processLogSelect+` WHERE job_id = ?`, jobID)
	log, err := scanProcessLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return log, err
}

// ListProcessLogs 按创建时间倒序列出最近的处理日志
func (s *Store) ListProcessLogs(limit int) ([]*model.ProcessLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(processLogSelect+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query process logs failed: %w", err)
	}
	defer rows.Close()

	var out []*model.ProcessLog
	for rows.Next() {
		log, err := scanProcessLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate process logs failed: %w", err)
	}
	return out, nil
}

// FormatStat 各格式的处理量统计
type FormatStat struct {
	Format model.FormatID `json:"format"`
	Files  int            `json:"files"`
	Rows   int            `json:"rows"`
}

// ListFormatStats 按格式汇总已完成的处理（按文件数倒序）
func (s *Store) ListFormatStats() ([]FormatStat, error) {
	rows, err := s.db.Query(`
		SELECT format, COUNT(1), COALESCE(SUM(rows_count), 0)
		FROM process_logs
		WHERE status IN ('done', 'empty') AND format <> ''
		GROUP BY format
		ORDER BY COUNT(1) DESC, format
	`)
	if err != nil {
		return nil, fmt.Errorf("query format stats failed: %w", err)
	}
	defer rows.Close()

	var out []FormatStat
	for rows.Next() {
		var it FormatStat
		var format string
		if err := rows.Scan(&format, &it.Files, &it.Rows); err != nil {
			return nil, fmt.Errorf("scan format stats failed: %w", err)
		}
		it.Format = model.FormatID(format)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate format stats failed: %w", err)
	}
	return out, nil
}

// BuildHeadersJSON 将表头序列化为 JSON
func BuildHeadersJSON(headers []string) string {
	if headers == nil {
		headers = []string{}
	}
	b, err := json.Marshal(headers)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ParseHeadersJSON 解析表头 JSON，失败返回空切片
func ParseHeadersJSON(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}

const processLogSelect = `
	SELECT id, job_id, filename, file_size, file_hash, format, variant, mode,
		rows_count, days_count, months_count, headers_json, status, error_message,
		created_at, completed_at
	FROM process_logs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProcessLog(r rowScanner) (*model.ProcessLog, error) {
	var (
		log                           model.ProcessLog
		format, variant, mode, status string
		completed                     sql.NullTime
		created                       time.Time
	)
	err := r.Scan(
		&log.ID, &log.JobID, &log.Filename, &log.FileSize, &log.FileHash,
		&format, &variant, &mode,
		&log.Rows, &log.Days, &log.Months, &log.HeadersJSON,
		&status, &log.ErrorMessage,
		&created, &completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan process log failed: %w", err)
	}
	log.Format = model.FormatID(format)
	log.Variant = model.Variant(variant)
	log.Mode = model.OutputMode(mode)
	log.Status = model.ProcessStatus(status)
	log.CreatedAt = created
	if completed.Valid {
		t := completed.Time
		log.CompletedAt = &t
	}
	return &log, nil
}
