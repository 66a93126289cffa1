package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// 内置日期/时间数字格式 ID
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// ReadXLSX 读取工作簿第一个 sheet 的全部内容
//
// 数值按原始值读取（不经显示格式），带日期格式的数值单元格转为 time.Time（UTC 表示墙上时间）。
func ReadXLSX(r io.Reader) (*Grid, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	dateStyles := map[int]bool{}
	out := make([][]any, len(rows))
	for i, row := range rows {
		values := make([]any, len(row))
		for j, raw := range row {
			if raw == "" {
				continue
			}
			axis, _ := excelize.CoordinatesToCellName(j+1, i+1)
			values[j] = typedCell(f, sheet, axis, raw, dateStyles)
		}
		out[i] = values
	}
	return NewGrid(sheet, out), nil
}

func typedCell(f *excelize.File, sheet, axis, raw string, dateStyles map[int]bool) any {
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC()
		}
		return raw
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	styleID, err := f.GetCellStyle(sheet, axis)
	if err == nil && isDateStyle(f, styleID, dateStyles) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return t
		}
	}
	return n
}

func isDateStyle(f *excelize.File, styleID int, cache map[int]bool) bool {
	if styleID <= 0 {
		return false
	}
	if v, ok := cache[styleID]; ok {
		return v
	}
	style, err := f.GetStyle(styleID)
	v := err == nil && style != nil && (builtinDateFormats[style.NumFmt] ||
		(style.CustomNumFmt != nil && isDatePattern(*style.CustomNumFmt)))
	cache[styleID] = v
	return v
}

// isDatePattern 自定义格式是否为日期格式（忽略引号与方括号中的内容）
func isDatePattern(pattern string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(pattern) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd':
			return true
		}
	}
	return false
}

// XLSXBook 基于 excelize 的输出工作簿
type XLSXBook struct {
	file   *excelize.File
	styles map[string]int
	sheets int
}

// NewXLSXBook 创建空的输出工作簿
func NewXLSXBook() *XLSXBook {
	return &XLSXBook{
		file:   excelize.NewFile(),
		styles: map[string]int{},
	}
}

// AddSheet 追加 sheet；第一个 sheet 复用默认的 Sheet1
func (b *XLSXBook) AddSheet(name string) (Sheet, error) {
	if b.sheets == 0 {
		first := b.file.GetSheetName(0)
		if err := b.file.SetSheetName(first, name); err != nil {
			return nil, fmt.Errorf("rename sheet %s: %w", first, err)
		}
	} else if _, err := b.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", name, err)
	}
	b.sheets++
	return &xlsxSheet{book: b, name: name}, nil
}

// File 底层 excelize 文件
func (b *XLSXBook) File() *excelize.File { return b.file }

// WriteTo 序列化为 xlsx
func (b *XLSXBook) WriteTo(w io.Writer) (int64, error) {
	return b.file.WriteTo(w)
}

// SaveAs 保存到文件
func (b *XLSXBook) SaveAs(path string) error {
	return b.file.SaveAs(path)
}

// Close 释放资源
func (b *XLSXBook) Close() error {
	return b.file.Close()
}

func (b *XLSXBook) styleFor(pattern string) (int, error) {
	if id, ok := b.styles[pattern]; ok {
		return id, nil
	}
	p := pattern
	id, err := b.file.NewStyle(&excelize.Style{CustomNumFmt: &p})
	if err != nil {
		return 0, fmt.Errorf("create style %q: %w", pattern, err)
	}
	b.styles[pattern] = id
	return id, nil
}

type xlsxSheet struct {
	book *XLSXBook
	name string
}

func (s *xlsxSheet) Name() string { return s.name }

func (s *xlsxSheet) Cell(row, col int) any {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil
	}
	v, err := s.book.file.GetCellValue(s.name, axis, excelize.Options{RawCellValue: true})
	if err != nil || v == "" {
		return nil
	}
	return v
}

func (s *xlsxSheet) SetValue(row, col int, v any) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.book.file.SetCellValue(s.name, axis, v)
}

func (s *xlsxSheet) SetFormula(row, col int, expr string) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.book.file.SetCellFormula(s.name, axis, expr)
}

func (s *xlsxSheet) SetDisplayFormat(row, col int, pattern string) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	id, err := s.book.styleFor(pattern)
	if err != nil {
		return err
	}
	return s.book.file.SetCellStyle(s.name, axis, axis, id)
}
