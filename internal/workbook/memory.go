package workbook

import "fmt"

type coord struct{ row, col int }

// MemoryBook 内存输出工作簿（测试与值模式校验用）
type MemoryBook struct {
	sheets []*MemorySheet
}

// NewMemoryBook 创建空的内存工作簿
func NewMemoryBook() *MemoryBook {
	return &MemoryBook{}
}

// AddSheet 追加 sheet
func (b *MemoryBook) AddSheet(name string) (Sheet, error) {
	if b.Sheet(name) != nil {
		return nil, fmt.Errorf("sheet %q already exists", name)
	}
	s := &MemorySheet{
		name:     name,
		values:   map[coord]any{},
		formulas: map[coord]string{},
		formats:  map[coord]string{},
	}
	b.sheets = append(b.sheets, s)
	return s, nil
}

// Sheet 按名称查找
func (b *MemoryBook) Sheet(name string) *MemorySheet {
	for _, s := range b.sheets {
		if s.name == name {
			return s
		}
	}
	return nil
}

// SheetNames 按添加顺序返回 sheet 名
func (b *MemoryBook) SheetNames() []string {
	names := make([]string, 0, len(b.sheets))
	for _, s := range b.sheets {
		names = append(names, s.name)
	}
	return names
}

// MemorySheet 内存 sheet
type MemorySheet struct {
	name     string
	values   map[coord]any
	formulas map[coord]string
	formats  map[coord]string
	maxRow   int
	maxCol   int
}

func (s *MemorySheet) Name() string { return s.name }

func (s *MemorySheet) Cell(row, col int) any { return s.values[coord{row, col}] }

func (s *MemorySheet) SetValue(row, col int, v any) error {
	if err := s.touch(row, col); err != nil {
		return err
	}
	s.values[coord{row, col}] = v
	return nil
}

func (s *MemorySheet) SetFormula(row, col int, expr string) error {
	if err := s.touch(row, col); err != nil {
		return err
	}
	s.formulas[coord{row, col}] = expr
	return nil
}

func (s *MemorySheet) SetDisplayFormat(row, col int, pattern string) error {
	if err := s.touch(row, col); err != nil {
		return err
	}
	s.formats[coord{row, col}] = pattern
	return nil
}

// Formula 读取单元格公式
func (s *MemorySheet) Formula(row, col int) string { return s.formulas[coord{row, col}] }

// Format 读取单元格显示格式
func (s *MemorySheet) Format(row, col int) string { return s.formats[coord{row, col}] }

// MaxRow 写入过的最大行号
func (s *MemorySheet) MaxRow() int { return s.maxRow }

// MaxCol 写入过的最大列号
func (s *MemorySheet) MaxCol() int { return s.maxCol }

// Row 读取整行的值（1..MaxCol）
func (s *MemorySheet) Row(row int) []any {
	out := make([]any, s.maxCol)
	for c := 1; c <= s.maxCol; c++ {
		out[c-1] = s.values[coord{row, c}]
	}
	return out
}

func (s *MemorySheet) touch(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell (%d,%d)", row, col)
	}
	if row > s.maxRow {
		s.maxRow = row
	}
	if col > s.maxCol {
		s.maxCol = col
	}
	return nil
}
