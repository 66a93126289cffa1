package format

import (
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

// headerMarker 某列表头需包含的关键词之一（大小写不敏感的子串匹配）
type headerMarker struct {
	Col      int
	Keywords []string
}

func (m headerMarker) match(in workbook.Input, row int) bool {
	text := parser.NormalizeHeader(parser.CellText(in.Cell(row, m.Col)))
	return text != "" && parser.ContainsAny(text, m.Keywords...)
}

// matchRow 该行满足全部标记
func matchRow(in workbook.Input, row int, markers ...headerMarker) bool {
	for _, m := range markers {
		if !m.match(in, row) {
			return false
		}
	}
	return true
}

// scanHeader 在前 probeRows 行中查找第一个满足全部标记的行，返回行号
func scanHeader(in workbook.Input, probeRows int, markers ...headerMarker) (int, bool) {
	last := probeRows
	if n := in.MaxRow(); n < last {
		last = n
	}
	for row := 1; row <= last; row++ {
		if matchRow(in, row, markers...) {
			return row, true
		}
	}
	return 0, false
}
