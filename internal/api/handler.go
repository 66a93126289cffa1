// Package api 提供上传处理、格式目录、处理历史与设置的 HTTP 接口
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"livestats/internal/importer"
	"livestats/internal/model"
	"livestats/internal/store"
)

// DefaultDownloadTTL 一次性下载链接有效期
const DefaultDownloadTTL = 10 * time.Minute

// Options 处理器选项
type Options struct {
	OutputDir      string           // 处理结果暂存目录
	MaxUploadBytes int64            // 上传大小上限，<=0 不限制
	DefaultMode    model.OutputMode // 未设置时的输出模式
	DownloadTTL    time.Duration
	Logger         zerolog.Logger
}

// Handler API 处理器
type Handler struct {
	coordinator *importer.Coordinator
	store       *store.Store
	downloads   *downloadStore
	opts        Options
	logger      zerolog.Logger
	startedAt   time.Time
}

// NewHandler 创建 API 处理器
func NewHandler(coordinator *importer.Coordinator, st *store.Store, opts Options) *Handler {
	if opts.DownloadTTL <= 0 {
		opts.DownloadTTL = DefaultDownloadTTL
	}
	if opts.DefaultMode == "" {
		opts.DefaultMode = model.OutputFormula
	}
	return &Handler{
		coordinator: coordinator,
		store:       st,
		downloads:   newDownloadStore(),
		opts:        opts,
		logger:      opts.Logger,
		startedAt:   time.Now(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 支持的格式
	router.GET("/formats", h.ListFormats)

	// 文件处理
	router.POST("/process", h.Process)
	router.POST("/process/sync", h.ProcessSync)
	router.GET("/process/download/:token", h.Download)

	// 处理历史
	router.GET("/history", h.ListHistory)
	router.GET("/history/:jobId", h.GetHistory)

	// 设置
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
}

// storeReady 未配置处理日志库时返回 503
func (h *Handler) storeReady(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "处理日志库不可用"})
		return false
	}
	return true
}

// Close 清理未被下载的结果文件
func (h *Handler) Close() {
	h.downloads.purgeAll()
}
