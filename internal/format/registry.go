package format

import (
	"sync"

	"github.com/rs/zerolog"

	"livestats/internal/model"
	"livestats/internal/workbook"
)

// Registry 有序的格式注册表
//
// 启动时注册完毕后只读；探测按注册顺序取第一个命中的格式。
type Registry struct {
	mu        sync.RWMutex
	defs      []Definition
	byID      map[model.FormatID]Definition
	probeRows int
	logger    zerolog.Logger
}

// Option 注册表选项
type Option func(*Registry)

// WithLogger 设置日志（重复注册时告警）
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithProbeRows 设置探测扫描行数
func WithProbeRows(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.probeRows = n
		}
	}
}

// NewRegistry 创建空注册表
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byID:      make(map[model.FormatID]Definition),
		probeRows: DefaultProbeRows,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry 创建并注册内置格式：TikTok、Shopee
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.Register(NewTikTok())
	r.Register(NewShopee())
	return r
}

// Register 注册格式；同一 ID 重复注册只告警，不覆盖
func (r *Registry) Register(def Definition) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[def.ID()]; exists {
		r.logger.Warn().Str("format", string(def.ID())).Msg("format already registered, ignoring")
		return false
	}
	r.defs = append(r.defs, def)
	r.byID[def.ID()] = def
	return true
}

// DetectFormat 探测输入所属格式；全部未命中时返回 Unsupported 与默认起始行
func (r *Registry) DetectFormat(in workbook.Input) Detection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.defs {
		m, ok := def.Detect(in, r.probeRows)
		if !ok {
			continue
		}
		return Detection{
			Format:   def.ID(),
			Variant:  m.Variant,
			StartRow: m.StartRow,
			Schema:   def.Schema(m.Variant),
		}
	}
	return Detection{Format: model.FormatUnsupported, StartRow: DefaultStartRow}
}

// Definition 按 ID 查找
func (r *Registry) Definition(id model.FormatID) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byID[id]
	return def, ok
}

// Definitions 按注册顺序返回全部格式
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Definition(nil), r.defs...)
}

// ProbeRows 探测扫描行数
func (r *Registry) ProbeRows() int {
	return r.probeRows
}
