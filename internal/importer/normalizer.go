package importer

import (
	"fmt"
	"time"

	"livestats/internal/format"
	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

// Normalizer 把原始行按格式的清洗规则写入 Clean Data
type Normalizer struct {
	loc  *time.Location
	mode model.OutputMode
}

// NewNormalizer 创建清洗器
func NewNormalizer(loc *time.Location, mode model.OutputMode) *Normalizer {
	if loc == nil {
		loc = parser.LoadLocation(parser.DefaultTimeZone)
	}
	return &Normalizer{loc: loc, mode: mode}
}

// CleanAndCopy 写表头到第 1 行，源数据第 startRow 行写到第 2 行，依次对应；
// 派生列追加在规范列之后。返回的记录与 Clean Data 行一一对应。
//
// 单元格解析失败只会得到零值，不会中断整行。
func (n *Normalizer) CleanAndCopy(in workbook.Input, out workbook.Sheet, shape model.DataShape, schema *format.Schema) ([]*model.CleanRecord, error) {
	if schema == nil {
		return nil, model.ErrUnsupportedFormat
	}

	headers := schema.AllHeaders()
	for i, h := range headers {
		if err := out.SetValue(1, i+1, h); err != nil {
			return nil, fmt.Errorf("write clean header: %w", err)
		}
	}

	width := len(schema.Headers)
	records := make([]*model.CleanRecord, 0, shape.Rows())
	for src := shape.StartRow; src <= shape.LastRow; src++ {
		row := 2 + (src - shape.StartRow)

		raw := make([]any, width)
		clean := make([]any, width)
		for idx := 0; idx < width; idx++ {
			raw[idx] = in.Cell(src, idx+1)
			clean[idx] = parser.Clean(schema.Rule(idx), raw[idx])
			if err := n.write(out, row, idx+1, clean[idx], schema); err != nil {
				return nil, err
			}
		}

		rec := &model.CleanRecord{
			SourceRow: src,
			Row:       row,
			Values:    clean,
			Derived:   schema.Derive(raw, clean, n.loc),
		}
		if err := n.writeDerived(out, rec, schema); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (n *Normalizer) writeDerived(out workbook.Sheet, rec *model.CleanRecord, schema *format.Schema) error {
	var formulas map[int]string
	if n.mode != model.OutputValue {
		formulas = schema.DerivedFormulas(rec)
	}
	values := format.DerivedValues(rec.Derived)

	for i, v := range values {
		col := schema.DerivedColumn(i)
		if expr, ok := formulas[i]; ok {
			if err := out.SetFormula(rec.Row, col, expr); err != nil {
				return fmt.Errorf("write derived formula row %d: %w", rec.Row, err)
			}
			if err := setDisplay(out, rec.Row, col, schema.DisplayFormat(col)); err != nil {
				return err
			}
			continue
		}
		if err := n.write(out, rec.Row, col, v, schema); err != nil {
			return err
		}
	}
	return nil
}

func (n *Normalizer) write(out workbook.Sheet, row, col int, v any, schema *format.Schema) error {
	if err := out.SetValue(row, col, v); err != nil {
		return fmt.Errorf("write clean cell (%d,%d): %w", row, col, err)
	}
	if _, isNumber := v.(float64); isNumber {
		return setDisplay(out, row, col, schema.DisplayFormat(col))
	}
	return nil
}

func setDisplay(out workbook.Sheet, row, col int, pattern string) error {
	if pattern == "" {
		return nil
	}
	if err := out.SetDisplayFormat(row, col, pattern); err != nil {
		return fmt.Errorf("set display format (%d,%d): %w", row, col, err)
	}
	return nil
}
