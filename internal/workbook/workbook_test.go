package workbook

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGridAddressing(t *testing.T) {
	g := NewGrid("s", [][]any{
		{"a", "b"},
		{1.0},
	})
	assert.Equal(t, "a", g.Cell(1, 1))
	assert.Equal(t, 1.0, g.Cell(2, 1))
	assert.Nil(t, g.Cell(2, 2))
	assert.Nil(t, g.Cell(0, 1))
	assert.Nil(t, g.Cell(3, 1))
	assert.Equal(t, 2, g.MaxRow())
	assert.Equal(t, 2, g.MaxCol())

	var seen []int
	g.EachRow(func(row int, _ []any) bool {
		seen = append(seen, row)
		return false
	})
	assert.Equal(t, []int{1}, seen)
}

func TestMemoryBook(t *testing.T) {
	b := NewMemoryBook()
	s, err := b.AddSheet("Metrics")
	require.NoError(t, err)
	_, err = b.AddSheet("Metrics")
	require.Error(t, err)

	require.NoError(t, s.SetValue(2, 3, 10.0))
	require.NoError(t, s.SetFormula(2, 4, "SUM(A1:A2)"))
	require.NoError(t, s.SetDisplayFormat(2, 4, "#,##0"))
	require.Error(t, s.SetValue(0, 1, "x"))

	ms := b.Sheet("Metrics")
	assert.Equal(t, 10.0, ms.Cell(2, 3))
	assert.Equal(t, "SUM(A1:A2)", ms.Formula(2, 4))
	assert.Equal(t, "#,##0", ms.Format(2, 4))
	assert.Equal(t, 2, ms.MaxRow())
	assert.Equal(t, 4, ms.MaxCol())
	assert.Equal(t, []string{"Metrics"}, b.SheetNames())
}

func TestReadCSVSemicolonWithBOM(t *testing.T) {
	raw := "\xEF\xBB\xBFPeriode Data;Pesanan;Penjualan\n01-05-2024;3;\"Rp1.500.000\"\n;;\n"
	g, err := ReadCSV("orders", strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "Periode Data", g.Cell(1, 1))
	assert.Equal(t, "Rp1.500.000", g.Cell(2, 3))
	assert.Nil(t, g.Cell(3, 1))
	assert.Equal(t, "orders", g.Name())
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', SniffDelimiter([]byte("a,b,c\n1,2,3\n")))
	assert.Equal(t, ';', SniffDelimiter([]byte("a;b;c\n\"1,5\";2;3\n")))
	assert.Equal(t, '\t', SniffDelimiter([]byte("a\tb\tc\n")))
	assert.Equal(t, ',', SniffDelimiter(nil))
}

func TestReadXLSXTypes(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Livestream", "Start time", "Duration"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Morning", "2024-05-01 08:00:00", 1.5}))
	require.NoError(t, f.SetCellValue(sheet, "D2", 45413))
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D2", dateStyle))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	g, err := ReadXLSX(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Livestream", g.Cell(1, 1))
	assert.Equal(t, "2024-05-01 08:00:00", g.Cell(2, 2))
	assert.Equal(t, 1.5, g.Cell(2, 3))
	d, ok := g.Cell(2, 4).(time.Time)
	require.True(t, ok, "date-styled cell should be time.Time, got %T", g.Cell(2, 4))
	assert.Equal(t, "2024-05-01", d.Format("2006-01-02"))
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	g, err := Load("orders.CSV", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "orders", g.Name())
	assert.Equal(t, "2", g.Cell(2, 2))
}

func TestIsDatePattern(t *testing.T) {
	assert.True(t, isDatePattern("yyyy-mm-dd"))
	assert.True(t, isDatePattern("dd/mm/yyyy hh:mm"))
	assert.False(t, isDatePattern("#,##0"))
	assert.False(t, isDatePattern(`0.00"d"`))
	assert.False(t, isDatePattern("[$-421]#,##0"))
}

func TestXLSXBookWritesFormulasAndFormats(t *testing.T) {
	b := NewXLSXBook()
	defer func() { _ = b.Close() }()

	raw, err := b.AddSheet("Raw Data")
	require.NoError(t, err)
	metrics, err := b.AddSheet("Metrics")
	require.NoError(t, err)

	require.NoError(t, raw.SetValue(1, 1, 1500.0))
	require.NoError(t, metrics.SetFormula(2, 1, "SUM('Raw Data'!$A$1:$A$1)"))
	require.NoError(t, metrics.SetDisplayFormat(2, 1, "#,##0"))
	require.NoError(t, metrics.SetDisplayFormat(3, 1, "#,##0"))

	var buf bytes.Buffer
	_, err = b.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Raw Data", "Metrics"}, f.GetSheetList())
	formula, err := f.GetCellFormula("Metrics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "SUM('Raw Data'!$A$1:$A$1)", formula)

	s2, _ := f.GetCellStyle("Metrics", "A2")
	s3, _ := f.GetCellStyle("Metrics", "A3")
	assert.Equal(t, s2, s3, "same pattern should reuse one style")
	assert.Len(t, b.styles, 1)
}
