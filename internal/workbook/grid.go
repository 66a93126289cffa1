package workbook

// Grid 内存中的二维表格，实现 Input
type Grid struct {
	name string
	rows [][]any
}

// NewGrid 由行数据创建表格（rows[0] 即第 1 行）
func NewGrid(name string, rows [][]any) *Grid {
	return &Grid{name: name, rows: rows}
}

// Name sheet 名
func (g *Grid) Name() string { return g.name }

// Cell 读取单元格
func (g *Grid) Cell(row, col int) any {
	if row < 1 || row > len(g.rows) {
		return nil
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return nil
	}
	return r[col-1]
}

// MaxRow 最大行号
func (g *Grid) MaxRow() int { return len(g.rows) }

// MaxCol 最宽一行的列数
func (g *Grid) MaxCol() int {
	n := 0
	for _, r := range g.rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// EachRow 按行号顺序遍历，fn 返回 false 时停止
func (g *Grid) EachRow(fn func(row int, values []any) bool) {
	for i, r := range g.rows {
		if !fn(i+1, r) {
			return
		}
	}
}
