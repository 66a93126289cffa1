package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"livestats/internal/importer"
	"livestats/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
	".txt":  true,
	".tsv":  true,
}

type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

// readUpload 读取表单中的 file 字段与 mode 参数
func (h *Handler) readUpload(c *gin.Context) (importer.ProcessOptions, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return importer.ProcessOptions{}, &uploadError{http.StatusBadRequest, "未找到上传文件"}
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return importer.ProcessOptions{}, &uploadError{http.StatusBadRequest, "不支持的文件类型: " + ext}
	}
	limit := h.opts.MaxUploadBytes
	if limit > 0 && fh.Size > limit {
		return importer.ProcessOptions{}, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("文件超过 %d MB 上限", limit>>20)}
	}

	f, err := fh.Open()
	if err != nil {
		return importer.ProcessOptions{}, &uploadError{http.StatusBadRequest, "读取上传文件失败"}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return importer.ProcessOptions{}, &uploadError{http.StatusBadRequest, "读取上传文件失败"}
	}

	return importer.ProcessOptions{
		Filename: fh.Filename,
		Data:     data,
		Mode:     h.resolveMode(c.PostForm("mode")),
	}, nil
}

// resolveMode 请求参数优先，其次为已保存的设置
func (h *Handler) resolveMode(requested string) model.OutputMode {
	if requested != "" {
		return model.ParseOutputMode(requested)
	}
	if h.store == nil {
		return h.opts.DefaultMode
	}
	return h.store.GetOutputMode(h.opts.DefaultMode)
}

func writeUploadError(c *gin.Context, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		c.JSON(ue.status, gin.H{"error": ue.message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// Process 处理上传文件（SSE 进度 + 完成后提供一次性下载地址）
// POST /api/process
func (h *Handler) Process(c *gin.Context) {
	opts, err := h.readUpload(c)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(event importer.ProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	for event := range h.coordinator.Process(c.Request.Context(), opts) {
		if event.Type == "done" {
			event = h.finishDownload(c, event)
		}
		send(event)
	}
}

// finishDownload 保存结果文件并把 done 事件改写为摘要 + 下载地址
func (h *Handler) finishDownload(c *gin.Context, event importer.ProgressEvent) importer.ProgressEvent {
	res, ok := event.Data.(*importer.Result)
	if !ok || res.Book == nil {
		return importer.ProgressEvent{Type: "error", Message: "处理结果为空", Timestamp: time.Now()}
	}
	defer res.Book.Close()

	path := filepath.Join(h.opts.OutputDir, res.Summary.JobID+".xlsx")
	if err := res.Book.SaveAs(path); err != nil {
		h.logger.Error().Err(err).Str("job", res.Summary.JobID).Msg("save output failed")
		return importer.ProgressEvent{Type: "error", Message: "写入结果文件失败: " + err.Error(), Timestamp: time.Now()}
	}

	token := h.downloads.put(path, outputFilename(res.Summary.Filename), h.opts.DownloadTTL)
	prefix := strings.TrimSuffix(c.FullPath(), "/process")
	event.Data = gin.H{
		"summary":     res.Summary,
		"downloadUrl": fmt.Sprintf("%s/process/download/%s", prefix, token),
	}
	return event
}

// ProcessSync 同步处理并直接返回结果工作簿
// POST /api/process/sync
func (h *Handler) ProcessSync(c *gin.Context) {
	opts, err := h.readUpload(c)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	res, err := h.coordinator.Run(c.Request.Context(), opts, nil)
	if err != nil {
		if errors.Is(err, model.ErrUnsupportedFormat) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "无法识别的文件格式",
				"format": model.FormatUnsupported,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "处理失败: " + err.Error()})
		return
	}
	defer res.Book.Close()

	c.Header("Content-Disposition", buildContentDisposition(outputFilename(res.Summary.Filename)))
	c.Header("X-Job-Id", res.Summary.JobID)
	c.Header("X-Detected-Format", string(res.Summary.Format))
	c.Header("X-Process-Status", string(res.Summary.Status))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)

	if _, err := res.Book.WriteTo(c.Writer); err != nil {
		h.logger.Error().Err(err).Str("job", res.Summary.JobID).Msg("write response failed")
	}
}

// Download 下载处理结果（一次性）
// GET /api/process/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.filename))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	_ = os.Remove(item.filePath)
}

// outputFilename 结果文件名：原文件名去扩展名加 _livestats.xlsx
func outputFilename(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "output"
	}
	return base + "_livestats.xlsx"
}

// buildContentDisposition 同时提供 ASCII 回退文件名与 UTF-8 文件名
func buildContentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", fallback, url.PathEscape(filename))
}
