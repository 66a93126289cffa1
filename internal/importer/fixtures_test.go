package importer

import (
	"livestats/internal/format"
	"livestats/internal/model"
)

// tiktokRow 构造一行 19 列的 TikTok 原始数据
func tiktokRow(name, start, duration, revenue string, viewers float64, ctr string) []any {
	row := make([]any, 19)
	row[0] = name
	row[1] = start
	row[2] = duration
	row[3] = revenue
	row[4] = 10.0
	row[8] = viewers
	row[11] = "1.234"
	row[12] = 5.0
	row[13] = "2,000"
	row[17] = ctr
	row[18] = "10%"
	return row
}

func tiktokHeaderRow() []any {
	headers := format.NewTikTok().Schema(model.VariantDefault).Headers
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

// tiktokFixture 三行数据：两行 2024-05-01、一行 2024-05-02，第 5 行为空终止行
func tiktokFixture() [][]any {
	return [][]any{
		tiktokHeaderRow(),
		tiktokRow("Morning", "2024-05-01 08:00:00", "1:30:00", "Rp1.500.000", 100, "2,5%"),
		tiktokRow("Evening", "2024-05-01 20:00:00", "2:00:00", "Rp1.500.000", 300, "5%"),
		tiktokRow("Next day", "2024-05-02 09:15:00", "1:00:00", "Rp600.000", 200, "0.04"),
		{},
		{"Total", "-", "-"},
	}
}
