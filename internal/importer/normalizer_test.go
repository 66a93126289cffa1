package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livestats/internal/format"
	"livestats/internal/model"
	"livestats/internal/workbook"
)

func TestCleanAndCopyShopeeLivestream(t *testing.T) {
	schema := format.NewShopee().Schema(model.VariantShopeeLivestream)
	row := make([]any, len(schema.Headers))
	row[0] = "01-05-2024"
	row[3] = "Flash sale"
	row[4] = "01-05-2024 19:30"
	row[5] = "2:00:00"
	row[6] = "1.500"
	row[18] = "Rp2.000.000"
	row[19] = "12,5%"

	in := workbook.NewGrid("shopee", [][]any{{"Periode Data"}, row})
	out := workbook.NewMemoryBook()
	sheet, err := out.AddSheet(model.SheetCleanData)
	require.NoError(t, err)
	clean := out.Sheet(model.SheetCleanData)

	records, err := NewNormalizer(nil, model.OutputFormula).CleanAndCopy(in, sheet, model.DataShape{StartRow: 2, LastRow: 2}, schema)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 2, rec.SourceRow)
	assert.Equal(t, 2, rec.Row)
	assert.True(t, rec.Derived.HasTime)
	assert.Equal(t, 1000000.0, rec.Derived.RevenuePerHour)

	assert.Equal(t, "Periode Data", clean.Cell(1, 1))
	assert.Equal(t, "Start date", clean.Cell(1, 22))
	assert.Equal(t, "Flash sale", clean.Cell(2, 4))
	assert.Equal(t, 2.0, clean.Cell(2, 6))
	assert.Equal(t, 1500.0, clean.Cell(2, 7))
	assert.Equal(t, 2000000.0, clean.Cell(2, 19))
	assert.Equal(t, 0.125, clean.Cell(2, 20))
	assert.Equal(t, "0.00%", clean.Format(2, 20))

	// 开始日期/时间只能在 Go 中解析，公式模式下仍写值
	assert.Equal(t, 45413.0, clean.Cell(2, 22))
	assert.InDelta(t, 19.5/24, clean.Cell(2, 23), 1e-9)
	assert.InDelta(t, 21.5/24, clean.Cell(2, 24), 1e-9)
	assert.Equal(t, "hh:mm", clean.Format(2, 23))
	assert.Equal(t, `IF(V2="","",_xlfn.ISOWEEKNUM(V2))`, clean.Formula(2, 25))
	assert.Equal(t, `IF(V2="","",MONTH(V2)-1)`, clean.Formula(2, 26))
	assert.Equal(t, `IF(F2>0,S2/F2,0)`, clean.Formula(2, 27))
}

func TestCleanAndCopyPeriodeFallback(t *testing.T) {
	schema := format.NewShopee().Schema(model.VariantShopeeLivestream)
	row := make([]any, len(schema.Headers))
	row[0] = "15-06-2024"
	row[3] = "No start time"
	row[4] = "-"

	in := workbook.NewGrid("shopee", [][]any{{"Periode Data"}, row})
	out := workbook.NewMemoryBook()
	sheet, err := out.AddSheet(model.SheetCleanData)
	require.NoError(t, err)

	records, err := NewNormalizer(nil, model.OutputValue).CleanAndCopy(in, sheet, model.DataShape{StartRow: 2, LastRow: 2}, schema)
	require.NoError(t, err)
	require.Len(t, records, 1)

	d := records[0].Derived
	assert.True(t, d.HasDate)
	assert.False(t, d.HasTime)
	assert.Equal(t, 5, d.MonthIndex)

	clean := out.Sheet(model.SheetCleanData)
	assert.Equal(t, "", clean.Cell(2, 23))
	assert.Equal(t, "", clean.Cell(2, 24))
	assert.Equal(t, 5.0, clean.Cell(2, 26))
	assert.Equal(t, 0.0, clean.Cell(2, 27))
}

func TestCleanAndCopyBadCellsBecomeZero(t *testing.T) {
	schema := format.NewTikTok().Schema(model.VariantDefault)
	row := tiktokRow("Broken", "not a date", "n/a", "free", 0, "??")

	in := workbook.NewGrid("tiktok", [][]any{tiktokHeaderRow(), row})
	out := workbook.NewMemoryBook()
	sheet, err := out.AddSheet(model.SheetCleanData)
	require.NoError(t, err)

	records, err := NewNormalizer(nil, model.OutputValue).CleanAndCopy(in, sheet, model.DataShape{StartRow: 2, LastRow: 2}, schema)
	require.NoError(t, err)
	require.Len(t, records, 1)

	clean := out.Sheet(model.SheetCleanData)
	assert.Equal(t, 0.0, clean.Cell(2, 3))
	assert.Equal(t, 0.0, clean.Cell(2, 4))
	assert.Equal(t, 0.0, clean.Cell(2, 18))
	assert.Equal(t, "", clean.Cell(2, 20))
	assert.Equal(t, "", clean.Cell(2, 23))
	assert.False(t, records[0].Derived.HasDate)
}

func TestCleanAndCopyRequiresSchema(t *testing.T) {
	out := workbook.NewMemoryBook()
	sheet, err := out.AddSheet(model.SheetCleanData)
	require.NoError(t, err)

	_, err = NewNormalizer(nil, model.OutputFormula).CleanAndCopy(workbook.NewGrid("x", nil), sheet, model.DataShape{}, nil)
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}
