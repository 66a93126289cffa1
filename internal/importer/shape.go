package importer

import (
	"livestats/internal/format"
	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

// DetectDataLength 从 startRow 向下扫描，两个锚列同时为空的第一行即数据结束
//
// 返回的 LastRow < StartRow 表示空数据集。
func DetectDataLength(in workbook.Input, startRow int, schema *format.Schema) model.DataShape {
	anchors := [2]int{1, 2}
	if schema != nil {
		anchors = schema.Anchors
	}
	if startRow < 1 {
		startRow = 1
	}

	last := startRow - 1
	for row := startRow; row <= in.MaxRow(); row++ {
		if parser.IsEmpty(in.Cell(row, anchors[0])) && parser.IsEmpty(in.Cell(row, anchors[1])) {
			break
		}
		last = row
	}
	return model.DataShape{StartRow: startRow, LastRow: last}
}
