package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestats/internal/model"
)

// SettingsResponse 设置
type SettingsResponse struct {
	Mode model.OutputMode `json:"mode"`
}

// UpdateSettingsRequest 更新设置请求
type UpdateSettingsRequest struct {
	Mode string `json:"mode" binding:"required,oneof=formula value"`
}

// GetSettings 获取设置
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, SettingsResponse{Mode: h.resolveMode("")})
}

// UpdateSettings 更新默认输出模式
// PUT /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求: " + err.Error()})
		return
	}

	if !h.storeReady(c) {
		return
	}

	mode := model.ParseOutputMode(req.Mode)
	if err := h.store.SetOutputMode(mode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存设置失败"})
		return
	}
	h.logger.Info().Str("mode", string(mode)).Msg("default output mode updated")
	c.JSON(http.StatusOK, SettingsResponse{Mode: mode})
}
