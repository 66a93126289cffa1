package format

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"livestats/internal/model"
)

// Range Clean Data 中某一列的绝对引用
type Range struct {
	Ref    string `json:"ref"`    // 'Clean Data'!$D$2:$D$10
	Column int    `json:"column"` // 1-based
}

// RangeSet 参与聚合的各字段引用
type RangeSet map[model.Field]Range

// Ref 字段引用，未知字段返回空串
func (rs RangeSet) Ref(f model.Field) string {
	return rs[f].Ref
}

// BuildRanges 根据源数据边界构造 Clean Data 中的列引用
//
// Clean Data 从第 2 行开始，与源数据行一一对应。
func (s *Schema) BuildRanges(startRow, lastRow int) RangeSet {
	last := 1 + (lastRow - startRow + 1)
	if last < 2 {
		last = 2
	}
	rs := make(RangeSet, len(s.fields))
	for f, idx := range s.fields {
		rs[f] = Range{
			Ref:    ColumnRange(model.SheetCleanData, idx+1, 2, last),
			Column: idx + 1,
		}
	}
	return rs
}

// ColumnRange 生成 'Sheet'!$X$a:$X$b
func ColumnRange(sheet string, col, from, to int) string {
	letter := ColumnLetter(col)
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", QuoteSheet(sheet), letter, from, letter, to)
}

// CellRef 生成同一 sheet 内的相对引用，如 C2
func CellRef(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnLetter(col), row)
}

// ColumnLetter 列号转字母
func ColumnLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "A"
	}
	return name
}

// QuoteSheet 按需给 sheet 名加单引号
func QuoteSheet(name string) string {
	if strings.ContainsAny(name, " -'!()") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
