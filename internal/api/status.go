package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"livestats/internal/model"
	"livestats/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Status          string             `json:"status"`                    // ok / degraded
	Database        bool               `json:"database"`                  // 数据库是否可用
	Formats         int                `json:"formats"`                   // 已注册格式数
	DefaultMode     model.OutputMode   `json:"defaultMode"`               // 当前默认输出模式
	TotalProcessed  int                `json:"totalProcessed"`            // 已处理文件数（成功）
	LastProcessedAt *time.Time         `json:"lastProcessedAt,omitempty"` // 最后处理时间
	FormatStats     []store.FormatStat `json:"formatStats"`
	Uptime          string             `json:"uptime"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Status:      "ok",
		Formats:     len(h.coordinator.Registry().Definitions()),
		DefaultMode: h.resolveMode(""),
		FormatStats: []store.FormatStat{},
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
	}

	if h.store == nil || h.store.Ping() != nil {
		resp.Status = "degraded"
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Database = true

	if stats, err := h.store.ListFormatStats(); err == nil && stats != nil {
		resp.FormatStats = stats
		for _, s := range stats {
			resp.TotalProcessed += s.Files
		}
	}
	if logs, err := h.store.ListProcessLogs(1); err == nil && len(logs) > 0 {
		resp.LastProcessedAt = &logs[0].CreatedAt
	}

	c.JSON(http.StatusOK, resp)
}
