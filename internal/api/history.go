package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"livestats/internal/model"
	"livestats/internal/store"
)

// HistoryQuery 历史查询参数
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// HistoryItem 处理历史条目
type HistoryItem struct {
	*model.ProcessLog
	Headers []string `json:"headers"`
}

func toHistoryItem(log *model.ProcessLog) HistoryItem {
	return HistoryItem{ProcessLog: log, Headers: store.ParseHeadersJSON(log.HeadersJSON)}
}

// ListHistory 最近的处理记录
// GET /api/history
func (h *Handler) ListHistory(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数: " + err.Error()})
		return
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if !h.storeReady(c) {
		return
	}

	logs, err := h.store.ListProcessLogs(q.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询处理历史失败"})
		return
	}

	items := make([]HistoryItem, 0, len(logs))
	for _, log := range logs {
		items = append(items, toHistoryItem(log))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GetHistory 单条处理记录
// GET /api/history/:jobId
func (h *Handler) GetHistory(c *gin.Context) {
	if !h.storeReady(c) {
		return
	}
	log, err := h.store.GetProcessLog(c.Param("jobId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "处理记录不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询处理记录失败"})
		return
	}
	c.JSON(http.StatusOK, toHistoryItem(log))
}
