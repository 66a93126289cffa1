// Package format 定义各平台导出格式：表头识别、规范列与清洗规则、
// 派生列、以及 Metrics/Summary/Trend 的公式生成与 Go 侧求值。
package format

import (
	"time"

	"livestats/internal/model"
	"livestats/internal/workbook"
)

// DefaultProbeRows 格式探测扫描的最大行数
const DefaultProbeRows = 10

// DefaultStartRow 无法识别时回报的数据起始行
const DefaultStartRow = 2

// 显示格式
const (
	DisplayCurrency   = "#,##0"
	DisplayPercentage = "0.00%"
	DisplayDecimal    = "0.00"
	DisplayDate       = "yyyy-mm-dd"
	DisplayTime       = "hh:mm"
)

// 派生列（追加在规范列之后，顺序固定）
const (
	DerivedStartDate = iota
	DerivedStartTime
	DerivedEndTime
	DerivedWeek
	DerivedMonthIndex
	DerivedRevenuePerHour
	derivedCount
)

var derivedHeaders = []string{"Start date", "Start time", "End time", "Week", "Month index", "Revenue per hour"}

// Match 单个格式的探测结果
type Match struct {
	StartRow int
	Variant  model.Variant
}

// Definition 平台格式定义
//
// Detect 只读取前 probeRows 行；命中时返回数据起始行和子格式。
type Definition interface {
	ID() model.FormatID
	Label() string
	Detect(in workbook.Input, probeRows int) (Match, bool)
	Schema(v model.Variant) *Schema
	Variants() []model.Variant
}

// Detection 注册表的探测结果
type Detection struct {
	Format   model.FormatID `json:"format"`
	Variant  model.Variant  `json:"variant,omitempty"`
	StartRow int            `json:"startRow"`
	Schema   *Schema        `json:"-"`
}

// Supported 是否识别成功
func (d Detection) Supported() bool {
	return d.Format != model.FormatUnsupported && d.Schema != nil
}

// Schema 某个格式（子格式）的规范数据结构
type Schema struct {
	Format  model.FormatID
	Variant model.Variant
	Label   string

	Headers []string                   // 规范表头，位置即契约
	Rules   map[int]model.CleaningKind // 0-based 列 → 清洗规则，缺省为文本
	Anchors [2]int                     // 判定数据结束的两个锚列（1-based，指向原始输入）

	Metrics []Column
	Summary []Stat
	Trend   []Column

	fields          map[model.Field]int
	derive          func(raw, clean []any, loc *time.Location) model.Derived
	derivedFormulas func(s *Schema, rec *model.CleanRecord) map[int]string
}

func (s *Schema) init(fields map[model.Field]int) *Schema {
	n := len(s.Headers)
	s.fields = map[model.Field]int{
		model.FieldStartDate:  n + DerivedStartDate,
		model.FieldStartTime:  n + DerivedStartTime,
		model.FieldWeek:       n + DerivedWeek,
		model.FieldMonthIndex: n + DerivedMonthIndex,
	}
	for f, idx := range fields {
		s.fields[f] = idx
	}
	return s
}

// DerivedHeaders 派生列表头
func (s *Schema) DerivedHeaders() []string {
	return append([]string(nil), derivedHeaders...)
}

// AllHeaders 规范列 + 派生列
func (s *Schema) AllHeaders() []string {
	return append(append([]string(nil), s.Headers...), derivedHeaders...)
}

// Rule 第 idx 列（0-based）的清洗规则
func (s *Schema) Rule(idx int) model.CleaningKind {
	if k, ok := s.Rules[idx]; ok {
		return k
	}
	return model.CleanText
}

// FieldIndex 字段在 Clean Data 中的列（0-based）
func (s *Schema) FieldIndex(f model.Field) (int, bool) {
	idx, ok := s.fields[f]
	return idx, ok
}

// DerivedColumn 第 i 个派生列在 Clean Data 中的列号（1-based）
func (s *Schema) DerivedColumn(i int) int {
	return len(s.Headers) + i + 1
}

// Derive 由原始行与清洗后的行计算派生字段
func (s *Schema) Derive(raw, clean []any, loc *time.Location) model.Derived {
	if s.derive == nil {
		return model.Derived{}
	}
	return s.derive(raw, clean, loc)
}

// DerivedFormulas 公式模式下某行的派生列公式（key 为派生列序号），
// 未返回的派生列写入 Go 侧计算的值
func (s *Schema) DerivedFormulas(rec *model.CleanRecord) map[int]string {
	if s.derivedFormulas == nil || rec == nil {
		return nil
	}
	return s.derivedFormulas(s, rec)
}

// DisplayFormat Clean Data 第 col 列（1-based）的显示格式
func (s *Schema) DisplayFormat(col int) string {
	idx := col - 1
	if idx < len(s.Headers) {
		switch s.Rule(idx) {
		case model.CleanCurrency:
			return DisplayCurrency
		case model.CleanPercentage:
			return DisplayPercentage
		case model.CleanDuration:
			return DisplayDecimal
		}
		return ""
	}
	switch idx - len(s.Headers) {
	case DerivedStartDate:
		return DisplayDate
	case DerivedStartTime, DerivedEndTime:
		return DisplayTime
	case DerivedRevenuePerHour:
		return DisplayCurrency
	}
	return ""
}
