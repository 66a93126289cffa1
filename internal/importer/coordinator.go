package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"livestats/internal/exporter"
	"livestats/internal/format"
	"livestats/internal/metrics"
	"livestats/internal/model"
	"livestats/internal/workbook"
)

// LogStore 处理日志存储
type LogStore interface {
	CreateProcessLog(log *model.ProcessLog) (int64, error)
	CompleteProcessLog(id int64, summary *model.ProcessSummary, status model.ProcessStatus, errorMessage string) error
}

// Coordinator 处理协调器：读取上传文件，执行流水线，记录日志与指标
type Coordinator struct {
	pipeline *Pipeline
	store    LogStore
	logger   zerolog.Logger
	timeout  time.Duration
}

// CoordinatorOption 协调器选项
type CoordinatorOption func(*Coordinator)

// WithTimeout 单文件处理超时
func WithTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.timeout = d }
}

// WithLogger 设置日志
func WithLogger(l zerolog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = l }
}

// NewCoordinator 创建处理协调器；store 可为 nil（不记录日志）
func NewCoordinator(pipeline *Pipeline, store LogStore, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		pipeline: pipeline,
		store:    store,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry 流水线使用的格式注册表
func (c *Coordinator) Registry() *format.Registry { return c.pipeline.Registry() }

// ProcessOptions 处理选项
type ProcessOptions struct {
	Filename string
	Data     []byte
	Mode     model.OutputMode
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/progress/warning/done/error
	Message   string    `json:"message"` // 事件消息
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result 处理结果
type Result struct {
	Summary model.ProcessSummary
	Book    *workbook.XLSXBook
}

// Process 异步处理，返回进度通道；最后一个事件为 done（Data 为 *Result）或 error
func (c *Coordinator) Process(ctx context.Context, opts ProcessOptions) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 100)

	go func() {
		// 超时后流水线 goroutine 可能仍在上报进度，关闭通道前需加锁
		var mu sync.Mutex
		closed := false
		emit := func(evt ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			if !closed {
				sendProgress(ch, evt)
			}
		}

		res, err := c.Run(ctx, opts, emit)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			ch <- ProgressEvent{Type: "error", Message: err.Error(), Timestamp: time.Now()}
		} else {
			ch <- ProgressEvent{Type: "done", Message: "处理完成", Data: res, Timestamp: time.Now()}
		}
		closed = true
		close(ch)
	}()

	return ch
}

// Run 同步处理单个文件
func (c *Coordinator) Run(ctx context.Context, opts ProcessOptions, emit func(ProgressEvent)) (*Result, error) {
	if emit == nil {
		emit = func(ProgressEvent) {}
	}
	startTime := time.Now()
	mode := model.ParseOutputMode(string(opts.Mode))
	filename := filepath.Base(opts.Filename)

	metrics.TrackActiveJob(true)
	defer metrics.TrackActiveJob(false)

	summary := model.ProcessSummary{
		JobID:     uuid.NewString(),
		Filename:  filename,
		Format:    model.FormatUnsupported,
		Mode:      mode,
		Status:    model.ProcessStatusProcessing,
		CreatedAt: startTime,
	}
	logID := c.createLog(summary, opts.Data)

	emit(ProgressEvent{
		Type:      "start",
		Message:   "开始处理文件",
		Data:      map[string]string{"filename": filename, "jobId": summary.JobID},
		Timestamp: time.Now(),
	})

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.transform(ctx, filename, opts.Data, mode, emit)
	if res != nil {
		summary.Format = res.outcome.Detection.Format
		summary.Variant = res.outcome.Detection.Variant
	}

	switch {
	case errors.Is(err, model.ErrUnsupportedFormat):
		summary.Status = model.ProcessStatusRejected
	case err != nil:
		summary.Status = model.ProcessStatusError
	case res.outcome.Shape.Empty():
		summary.Status = model.ProcessStatusEmpty
		emit(ProgressEvent{Type: "warning", Message: model.ErrEmptyDataset.Error(), Timestamp: time.Now()})
	default:
		summary.Status = model.ProcessStatusDone
	}

	if err == nil {
		out := res.outcome
		summary.Shape = out.Shape
		summary.Rows = len(out.Records)
		summary.Days = len(out.Report.Days)
		summary.Months = len(out.Report.Months)
		summary.Headers = out.Detection.Schema.AllHeaders()
	}
	summary.Duration = time.Since(startTime)

	c.completeLog(logID, &summary, err)
	metrics.RecordProcessing(string(summary.Format), string(summary.Status), summary.Rows, summary.Duration)

	evt := c.logger.Info()
	if err != nil {
		evt = c.logger.Warn().Err(err)
	}
	evt.Str("job", summary.JobID).
		Str("file", filename).
		Str("format", string(summary.Format)).
		Str("status", string(summary.Status)).
		Int("rows", summary.Rows).
		Dur("duration", summary.Duration).
		Msg("file processed")

	if err != nil {
		return nil, err
	}
	return &Result{Summary: summary, Book: res.book}, nil
}

type transformResult struct {
	outcome *Outcome
	book    *workbook.XLSXBook
}

// transform 读取并转换；超时或取消时立即返回
func (c *Coordinator) transform(ctx context.Context, filename string, data []byte, mode model.OutputMode, emit func(ProgressEvent)) (*transformResult, error) {
	in, err := workbook.Load(filename, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	ch := make(chan transformDone, 1)

	go func() {
		book := workbook.NewXLSXBook()
		outcome, err := c.pipeline.Transform(in, book, mode, func(p exporter.ProgressEvent) {
			if ctx.Err() != nil {
				return
			}
			emit(ProgressEvent{Type: "progress", Message: p.Stage, Data: p, Timestamp: time.Now()})
		})
		if err != nil {
			_ = book.Close()
			var res *transformResult
			if outcome != nil {
				res = &transformResult{outcome: outcome}
			}
			ch <- transformDone{res: res, err: err}
			return
		}
		ch <- transformDone{res: &transformResult{outcome: outcome, book: book}}
	}()

	return awaitTransform(ctx, ch, (*transformResult).close)
}

type transformDone struct {
	res *transformResult
	err error
}

// awaitTransform 等待转换结果；ctx 先结束时在后台接收迟到的结果并交给 release
func awaitTransform(ctx context.Context, ch <-chan transformDone, release func(*transformResult)) (*transformResult, error) {
	select {
	case d := <-ch:
		return d.res, d.err
	case <-ctx.Done():
		go func() {
			if d := <-ch; d.res != nil {
				release(d.res)
			}
		}()
		return nil, fmt.Errorf("处理超时或已取消: %w", ctx.Err())
	}
}

func (r *transformResult) close() {
	if r.book != nil {
		_ = r.book.Close()
	}
}

func (c *Coordinator) createLog(summary model.ProcessSummary, data []byte) int64 {
	if c.store == nil {
		return 0
	}
	sum := sha256.Sum256(data)
	id, err := c.store.CreateProcessLog(&model.ProcessLog{
		JobID:    summary.JobID,
		Filename: summary.Filename,
		FileSize: int64(len(data)),
		FileHash: hex.EncodeToString(sum[:]),
		Mode:     summary.Mode,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("job", summary.JobID).Msg("create process log failed")
		return 0
	}
	return id
}

func (c *Coordinator) completeLog(id int64, summary *model.ProcessSummary, procErr error) {
	if c.store == nil || id == 0 {
		return
	}
	msg := ""
	if procErr != nil {
		msg = procErr.Error()
	}
	if err := c.store.CompleteProcessLog(id, summary, summary.Status, msg); err != nil {
		c.logger.Warn().Err(err).Str("job", summary.JobID).Msg("update process log failed")
	}
}

// sendProgress 发送进度事件，通道满时丢弃
func sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}
