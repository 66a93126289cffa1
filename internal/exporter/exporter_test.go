package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livestats/internal/format"
	"livestats/internal/model"
	"livestats/internal/workbook"
)

func ordersSchema() *format.Schema {
	return format.NewShopee().Schema(model.VariantShopeeOrders)
}

// orderRecord Shopee 订单记录；day 为 0 表示没有日期
func orderRecord(row, day int, sales float64) *model.CleanRecord {
	values := make([]any, 13)
	for i := range values {
		values[i] = 0.0
	}
	values[0] = ""
	values[2] = sales
	rec := &model.CleanRecord{SourceRow: row + 1, Row: row, Values: values}
	if day > 0 {
		date := time.Date(2024, time.May, day, 0, 0, 0, 0, time.UTC)
		_, week := date.ISOWeek()
		rec.Derived = model.Derived{Date: date, HasDate: true, Week: week, MonthIndex: 4}
	}
	return rec
}

func orderDataset() *Dataset {
	records := []*model.CleanRecord{
		orderRecord(2, 2, 100),
		orderRecord(3, 1, 300),
		orderRecord(4, 2, 200),
		orderRecord(5, 0, 999),
	}
	return NewDataset(ordersSchema(), model.DataShape{StartRow: 3, LastRow: 6}, records)
}

type exportSheets struct {
	book                    *workbook.MemoryBook
	metrics, summary, trend *workbook.MemorySheet
}

func newExportSheets(t *testing.T) exportSheets {
	t.Helper()
	book := workbook.NewMemoryBook()
	for _, name := range []string{model.SheetMetrics, model.SheetSummary, model.SheetTrend} {
		_, err := book.AddSheet(name)
		require.NoError(t, err)
	}
	return exportSheets{
		book:    book,
		metrics: book.Sheet(model.SheetMetrics),
		summary: book.Sheet(model.SheetSummary),
		trend:   book.Sheet(model.SheetTrend),
	}
}

func TestGroupByDate(t *testing.T) {
	days := GroupByDate(orderDataset().Records)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Date.Day())
	assert.Len(t, days[0].Records, 1)
	assert.Equal(t, 2, days[1].Date.Day())
	assert.Equal(t, []int{2, 4}, []int{days[1].Records[0].Row, days[1].Records[1].Row})
}

func TestGroupByMonthNumericOrder(t *testing.T) {
	recs := []*model.CleanRecord{
		{Derived: model.Derived{HasDate: true, MonthIndex: 11}},
		{Derived: model.Derived{HasDate: true, MonthIndex: 0}},
		{Derived: model.Derived{HasDate: false, MonthIndex: 3}},
		{Derived: model.Derived{HasDate: true, MonthIndex: 11}},
	}
	months := GroupByMonth(recs)
	require.Len(t, months, 2)
	assert.Equal(t, 0, months[0].Index)
	assert.Equal(t, 11, months[1].Index)
	assert.Len(t, months[1].Records, 2)
}

func TestExportFormulaMode(t *testing.T) {
	s := newExportSheets(t)

	var stages []string
	rep, err := NewExporter(model.OutputFormula).Export(s.metrics, s.summary, s.trend, orderDataset(), func(p ProgressEvent) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"metrics", "summary", "trend"}, stages)
	assert.Len(t, rep.Days, 2)
	assert.Len(t, rep.Months, 1)

	assert.Equal(t, "Median sales", s.metrics.Cell(1, 9))
	assert.Equal(t, 45413.0, s.metrics.Cell(2, 2))
	assert.Equal(t, "yyyy-mm-dd", s.metrics.Format(2, 2))
	assert.Equal(t, `TEXT($B2,"dddd")`, s.metrics.Formula(2, 1))
	assert.Equal(t, `IFERROR(INDEX('Clean Data'!$Q$2:$Q$5,MATCH($B2,'Clean Data'!$N$2:$N$5,0)),"")`, s.metrics.Formula(2, 3))
	assert.Equal(t, `SUMIFS('Clean Data'!$C$2:$C$5,'Clean Data'!$N$2:$N$5,$B3)`, s.metrics.Formula(3, 8))
	assert.Equal(t, `IFERROR(MEDIAN(_xlfn._xlws.FILTER('Clean Data'!$C$2:$C$5,'Clean Data'!$N$2:$N$5=$B3)),0)`, s.metrics.Formula(3, 9))
	assert.Equal(t, "#,##0", s.metrics.Format(3, 9))

	assert.Equal(t, "IFERROR(AVERAGE('Clean Data'!$C$2:$C$5),0)", s.summary.Formula(2, 2))
	assert.Equal(t, "IFERROR(AVERAGE(Metrics!$H$2:$H$3),0)", s.summary.Formula(3, 2))
	assert.Equal(t, "0.00%", s.summary.Format(4, 2))

	assert.Equal(t, 4.0, s.trend.Cell(2, 1))
	assert.Equal(t, `TEXT(DATE(2000,$A2+1,1),"mmmm")`, s.trend.Formula(2, 2))
	assert.Equal(t, `COUNTIF('Clean Data'!$R$2:$R$5,$A2)`, s.trend.Formula(2, 3))
}

func TestExportValueMode(t *testing.T) {
	s := newExportSheets(t)

	_, err := NewExporter(model.OutputValue).Export(s.metrics, s.summary, s.trend, orderDataset(), nil)
	require.NoError(t, err)

	assert.Equal(t, []any{"Wednesday", 45413.0, 18.0, 1.0, 300.0, 300.0, 300.0, 300.0, 300.0}, s.metrics.Row(2)[:9])
	assert.Equal(t, []any{"Thursday", 45414.0, 18.0, 2.0, 200.0, 100.0, 150.0, 300.0, 150.0}, s.metrics.Row(3)[:9])
	assert.Empty(t, s.metrics.Formula(2, 1))

	assert.Equal(t, 399.75, s.summary.Cell(2, 2))
	assert.Equal(t, 300.0, s.summary.Cell(3, 2))

	assert.Equal(t, []any{4.0, "May", 3.0}, s.trend.Row(2)[:3])
}

func TestExportEmptyDatasetHeadersOnly(t *testing.T) {
	s := newExportSheets(t)
	ds := NewDataset(ordersSchema(), model.DataShape{StartRow: 3, LastRow: 2}, nil)

	rep, err := NewExporter(model.OutputFormula).Export(s.metrics, s.summary, s.trend, ds, nil)
	require.NoError(t, err)
	assert.Empty(t, rep.Days)

	for _, sheet := range []*workbook.MemorySheet{s.metrics, s.summary, s.trend} {
		assert.Equal(t, 1, sheet.MaxRow(), sheet.Name())
	}
	assert.Equal(t, []any{"Statistic", "Value"}, s.summary.Row(1))
}

func TestCopyRaw(t *testing.T) {
	in := workbook.NewGrid("raw", [][]any{
		{"Periode Data", nil, "Penjualan"},
		{},
		{"01-05-2024", 3.0, "Rp1.000"},
	})
	book := workbook.NewMemoryBook()
	out, err := book.AddSheet(model.SheetRawData)
	require.NoError(t, err)

	require.NoError(t, CopyRaw(in, out))
	raw := book.Sheet(model.SheetRawData)
	assert.Equal(t, "Penjualan", raw.Cell(1, 3))
	assert.Nil(t, raw.Cell(1, 2))
	assert.Equal(t, 3.0, raw.Cell(3, 2))
	assert.Equal(t, 3, raw.MaxRow())
}
