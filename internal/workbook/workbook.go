// Package workbook 提供流水线使用的两个表格接口：输入源与输出 sink，
// 以及它们基于 excelize / CSV / 内存网格的实现。
package workbook

import (
	"io"
	"path/filepath"
	"strings"
)

// Input 表格输入源，坐标均从 1 开始
//
// Cell 返回 nil / string / float64 / bool / time.Time 之一；越界返回 nil。
type Input interface {
	Name() string
	Cell(row, col int) any
	MaxRow() int
	MaxCol() int
	EachRow(fn func(row int, values []any) bool)
}

// Sheet 输出 sheet，每个单元格只写一次
type Sheet interface {
	Name() string
	Cell(row, col int) any
	SetValue(row, col int, v any) error
	SetFormula(row, col int, expr string) error
	SetDisplayFormat(row, col int, pattern string) error
}

// Output 输出工作簿
type Output interface {
	AddSheet(name string) (Sheet, error)
}

// Load 按扩展名选择读取方式（.csv / .txt 为分隔文本，其余按 xlsx）
func Load(filename string, r io.Reader) (*Grid, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", ".tsv":
		return ReadCSV(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)), r)
	default:
		return ReadXLSX(r)
	}
}
