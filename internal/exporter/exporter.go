package exporter

import (
	"fmt"

	"livestats/internal/format"
	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

// Exporter 写出 Raw Data 之外的聚合 sheet：Metrics / Summary / Trend
//
// 公式模式下每个聚合单元格写公式文本，值模式下写 Go 中求得的值；两种模式的
// sheet 顺序、表头与列布局完全一致。
type Exporter struct {
	mode model.OutputMode
}

// NewExporter 创建导出器
func NewExporter(mode model.OutputMode) *Exporter {
	return &Exporter{mode: mode}
}

// Dataset 已清洗的数据集
type Dataset struct {
	Schema  *format.Schema
	Shape   model.DataShape
	Ranges  format.RangeSet
	Records []*model.CleanRecord
}

// NewDataset 由清洗结果构造数据集并生成列引用
func NewDataset(schema *format.Schema, shape model.DataShape, records []*model.CleanRecord) *Dataset {
	return &Dataset{
		Schema:  schema,
		Shape:   shape,
		Ranges:  schema.BuildRanges(shape.StartRow, shape.LastRow),
		Records: records,
	}
}

// Report 聚合结果
type Report struct {
	Days   []DayGroup
	Months []MonthGroup
}

// Export 依次写 Metrics、Summary、Trend；sheets 需按此顺序提供
func (e *Exporter) Export(metrics, summary, trend workbook.Sheet, ds *Dataset, progress ProgressFunc) (*Report, error) {
	reportProgress(progress, 70, "metrics")
	days, err := e.WriteMetrics(metrics, ds)
	if err != nil {
		return nil, err
	}

	reportProgress(progress, 80, "summary")
	if err := e.WriteSummary(summary, ds, days); err != nil {
		return nil, err
	}

	reportProgress(progress, 90, "trend")
	months, err := e.WriteTrend(trend, ds)
	if err != nil {
		return nil, err
	}
	return &Report{Days: days, Months: months}, nil
}

// WriteMetrics 每个日期一行，日期升序
func (e *Exporter) WriteMetrics(sheet workbook.Sheet, ds *Dataset) ([]DayGroup, error) {
	s := ds.Schema
	if err := writeHeaderRow(sheet, format.Headers(s.Metrics)); err != nil {
		return nil, err
	}
	if ds.Shape.Empty() {
		return nil, nil
	}

	days := GroupByDate(ds.Records)
	for i, day := range days {
		row := i + 2
		var values []any
		var formulas map[int]string
		if e.mode == model.OutputValue {
			values = s.MetricValues(day.Date, day.Records)
		} else {
			formulas = s.MetricFormulas(ds.Ranges, row)
		}

		for j, col := range s.Metrics {
			c := j + 1
			var err error
			switch {
			case values != nil:
				err = sheet.SetValue(row, c, values[j])
			case formulas[c] != "":
				err = sheet.SetFormula(row, c, formulas[c])
			default:
				err = sheet.SetValue(row, c, parser.ExcelSerial(day.Date))
			}
			if err != nil {
				return nil, fmt.Errorf("write metrics row %d: %w", row, err)
			}
			if err := setDisplay(sheet, row, c, col.Display); err != nil {
				return nil, err
			}
		}
	}
	return days, nil
}

// WriteSummary 固定的命名统计，日均值引用 Metrics 的日汇总列
func (e *Exporter) WriteSummary(sheet workbook.Sheet, ds *Dataset, days []DayGroup) error {
	if err := writeHeaderRow(sheet, []string{"Statistic", "Value"}); err != nil {
		return err
	}
	if ds.Shape.Empty() {
		return nil
	}

	s := ds.Schema
	var values []any
	var formulas []string
	if e.mode == model.OutputValue {
		values = s.SummaryValues(ds.Records, dayRecords(days))
	} else {
		formulas = s.SummaryFormulas(ds.Ranges, len(days))
	}

	for i, st := range s.Summary {
		row := i + 2
		if err := sheet.SetValue(row, 1, st.Name); err != nil {
			return fmt.Errorf("write summary row %d: %w", row, err)
		}
		var err error
		if values != nil {
			err = sheet.SetValue(row, 2, values[i])
		} else {
			err = sheet.SetFormula(row, 2, formulas[i])
		}
		if err != nil {
			return fmt.Errorf("write summary row %d: %w", row, err)
		}
		if err := setDisplay(sheet, row, 2, st.Display); err != nil {
			return err
		}
	}
	return nil
}

// WriteTrend 每个月序号一行，序号升序
func (e *Exporter) WriteTrend(sheet workbook.Sheet, ds *Dataset) ([]MonthGroup, error) {
	s := ds.Schema
	if err := writeHeaderRow(sheet, format.Headers(s.Trend)); err != nil {
		return nil, err
	}
	if ds.Shape.Empty() {
		return nil, nil
	}

	months := GroupByMonth(ds.Records)
	for i, m := range months {
		row := i + 2
		var values []any
		var formulas map[int]string
		if e.mode == model.OutputValue {
			values = s.TrendValues(m.Index, m.Records)
		} else {
			formulas = s.TrendFormulas(ds.Ranges, row)
		}

		for j, col := range s.Trend {
			c := j + 1
			var err error
			switch {
			case values != nil:
				err = sheet.SetValue(row, c, values[j])
			case formulas[c] != "":
				err = sheet.SetFormula(row, c, formulas[c])
			default:
				err = sheet.SetValue(row, c, float64(m.Index))
			}
			if err != nil {
				return nil, fmt.Errorf("write trend row %d: %w", row, err)
			}
			if err := setDisplay(sheet, row, c, col.Display); err != nil {
				return nil, err
			}
		}
	}
	return months, nil
}

// CopyRaw 原样复制输入到 Raw Data
func CopyRaw(in workbook.Input, out workbook.Sheet) error {
	var err error
	in.EachRow(func(row int, values []any) bool {
		for i, v := range values {
			if v == nil {
				continue
			}
			if err = out.SetValue(row, i+1, v); err != nil {
				err = fmt.Errorf("copy raw row %d: %w", row, err)
				return false
			}
		}
		return true
	})
	return err
}

func writeHeaderRow(sheet workbook.Sheet, headers []string) error {
	for i, h := range headers {
		if err := sheet.SetValue(1, i+1, h); err != nil {
			return fmt.Errorf("write %s header: %w", sheet.Name(), err)
		}
	}
	return nil
}

func setDisplay(sheet workbook.Sheet, row, col int, pattern string) error {
	if pattern == "" {
		return nil
	}
	if err := sheet.SetDisplayFormat(row, col, pattern); err != nil {
		return fmt.Errorf("set %s display format: %w", sheet.Name(), err)
	}
	return nil
}
