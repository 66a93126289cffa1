package model

import "time"

// ProcessStatus 单个文件的处理状态
type ProcessStatus string

const (
	ProcessStatusProcessing ProcessStatus = "processing"
	ProcessStatusDone       ProcessStatus = "done"
	ProcessStatusEmpty      ProcessStatus = "empty"
	ProcessStatusRejected   ProcessStatus = "rejected"
	ProcessStatusError      ProcessStatus = "error"
)

// ProcessSummary 单文件处理结果摘要（用于 API 响应与处理日志）
type ProcessSummary struct {
	JobID     string        `json:"jobId"`
	Filename  string        `json:"filename"`
	Format    FormatID      `json:"format"`
	Variant   Variant       `json:"variant,omitempty"`
	Mode      OutputMode    `json:"mode"`
	Shape     DataShape     `json:"shape"`
	Rows      int           `json:"rows"`
	Days      int           `json:"days"`
	Months    int           `json:"months"`
	Headers   []string      `json:"headers"`
	Status    ProcessStatus `json:"status"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ProcessLog 处理日志记录
type ProcessLog struct {
	ID           int64         `json:"id"`
	JobID        string        `json:"jobId"`
	Filename     string        `json:"filename"`
	FileSize     int64         `json:"fileSize"`
	FileHash     string        `json:"fileHash"`
	Format       FormatID      `json:"format"`
	Variant      Variant       `json:"variant"`
	Mode         OutputMode    `json:"mode"`
	Rows         int           `json:"rows"`
	Days         int           `json:"days"`
	Months       int           `json:"months"`
	HeadersJSON  string        `json:"headersJson"`
	Status       ProcessStatus `json:"status"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
}
