package model

import "time"

// DataShape 源 sheet 中连续数据块的行边界（1-based，指向原始输入）
//
// LastRow < StartRow 表示空数据集。
type DataShape struct {
	StartRow int `json:"startRow"`
	LastRow  int `json:"lastRow"`
}

// Rows 数据行数
func (s DataShape) Rows() int {
	if s.LastRow < s.StartRow {
		return 0
	}
	return s.LastRow - s.StartRow + 1
}

// Empty 是否为空数据集
func (s DataShape) Empty() bool {
	return s.Rows() == 0
}

// Field 聚合时引用的规范列语义
type Field string

const (
	FieldGMV             Field = "gmv"
	FieldItems           Field = "items"
	FieldAvgViewDuration Field = "avg_view_duration"
	FieldViewers         Field = "viewers"
	FieldLikes           Field = "likes"
	FieldComments        Field = "comments"
	FieldShares          Field = "shares"
	FieldCTR             Field = "ctr"
	FieldCTOR            Field = "ctor"
	FieldStartDate       Field = "start_date"
	FieldStartTime       Field = "start_time"
	FieldWeek            Field = "week"
	FieldMonthIndex      Field = "month_index"
)

// Derived 规范列之后追加的派生字段（Go 侧求值结果）
type Derived struct {
	Date           time.Time `json:"date"` // 日历日期（Asia/Jakarta 零点）
	HasDate        bool      `json:"hasDate"`
	StartTime      float64   `json:"startTime"` // 一天中的比例 [0,1)
	EndTime        float64   `json:"endTime"`
	HasTime        bool      `json:"hasTime"`
	Week           int       `json:"week"`       // ISO 周
	MonthIndex     int       `json:"monthIndex"` // 0-11
	RevenuePerHour float64   `json:"revenuePerHour"`
}

// CleanRecord 清洗后的一行规范数据
//
// Values 与格式的规范表头一一对应：数值类列为 float64，文本列为 string。
type CleanRecord struct {
	SourceRow int     `json:"sourceRow"` // 原始输入中的行号
	Row       int     `json:"row"`       // Clean Data sheet 中的行号（从 2 开始）
	Values    []any   `json:"values"`
	Derived   Derived `json:"derived"`
}

// Float 取第 idx 列的数值，非数值返回 0
func (r *CleanRecord) Float(idx int) float64 {
	if idx < 0 || idx >= len(r.Values) {
		return 0
	}
	if f, ok := r.Values[idx].(float64); ok {
		return f
	}
	return 0
}

// Text 取第 idx 列的文本
func (r *CleanRecord) Text(idx int) string {
	if idx < 0 || idx >= len(r.Values) {
		return ""
	}
	if s, ok := r.Values[idx].(string); ok {
		return s
	}
	return ""
}
