package format

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livestats/internal/model"
	"livestats/internal/workbook"
)

func tiktokHeader() []any {
	return []any{"Livestream", "Start time", "Duration", "Gross revenue"}
}

func TestDetectFormat(t *testing.T) {
	reg := NewDefaultRegistry()

	cases := []struct {
		name    string
		rows    [][]any
		format  model.FormatID
		variant model.Variant
		start   int
	}{
		{
			name:   "tiktok header on first row",
			rows:   [][]any{tiktokHeader(), {"Morning", "2024-05-01 08:00:00", 1.5, 1000}},
			format: model.FormatTikTokLivestream,
			start:  2,
		},
		{
			name: "tiktok indonesian header below preamble",
			rows: [][]any{
				{"Laporan"},
				{},
				{"Streaming Langsung", "Waktu Mulai", "Durasi"},
			},
			format: model.FormatTikTokLivestream,
			start:  4,
		},
		{
			name: "shopee livestream",
			rows: [][]any{
				{"Periode Data", "Username", "ID Livestream", "Nama Livestream", "Waktu Mulai"},
				{"01-05-2024", "shop", "1", "Flash sale", "01-05-2024 19:00"},
			},
			format:  model.FormatShopeeMonthlyOrDaily,
			variant: model.VariantShopeeLivestream,
			start:   2,
		},
		{
			name: "shopee orders single header",
			rows: [][]any{
				{"Periode Data", "Pesanan (Pesanan Dibuat)", "Penjualan (Pesanan Dibuat)"},
				{"01-05-2024", "3", "Rp150.000"},
			},
			format:  model.FormatShopeeMonthlyOrDaily,
			variant: model.VariantShopeeOrders,
			start:   2,
		},
		{
			name: "shopee orders with secondary header",
			rows: [][]any{
				{"Data Period", "Orders", "Sales (Placed Order) Penjualan"},
				{"Periode Data", "Pesanan", "Penjualan"},
				{"01-05-2024", "3", "Rp150.000"},
			},
			format:  model.FormatShopeeMonthlyOrDaily,
			variant: model.VariantShopeeOrders,
			start:   3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			det := reg.DetectFormat(workbook.NewGrid("s", tc.rows))
			assert.Equal(t, tc.format, det.Format)
			assert.Equal(t, tc.variant, det.Variant)
			assert.Equal(t, tc.start, det.StartRow)
			require.NotNil(t, det.Schema)
			assert.True(t, det.Supported())
		})
	}
}

func TestDetectFormatUnsupported(t *testing.T) {
	reg := NewDefaultRegistry()

	det := reg.DetectFormat(workbook.NewGrid("s", [][]any{
		{"Name", "Amount"},
		{"a", 1.0},
	}))
	assert.Equal(t, model.FormatUnsupported, det.Format)
	assert.Equal(t, DefaultStartRow, det.StartRow)
	assert.False(t, det.Supported())

	// 表头在第 11 行，超出探测范围
	rows := make([][]any, 10)
	rows = append(rows, tiktokHeader())
	det = reg.DetectFormat(workbook.NewGrid("s", rows))
	assert.Equal(t, model.FormatUnsupported, det.Format)

	det = NewDefaultRegistry(WithProbeRows(11)).DetectFormat(workbook.NewGrid("s", rows))
	assert.Equal(t, model.FormatTikTokLivestream, det.Format)
	assert.Equal(t, 12, det.StartRow)
}

func TestRegisterIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	reg := NewDefaultRegistry(WithLogger(zerolog.New(&buf)))
	before := reg.Definitions()

	assert.False(t, reg.Register(NewTikTok()))
	assert.False(t, reg.Register(NewShopee()))

	after := reg.Definitions()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i])
	}
	assert.Contains(t, buf.String(), "already registered")

	def, ok := reg.Definition(model.FormatShopeeMonthlyOrDaily)
	require.True(t, ok)
	assert.Equal(t, model.VariantShopeeOrders, def.Schema(model.VariantShopeeOrders).Variant)

	_, ok = reg.Definition(model.FormatUnsupported)
	assert.False(t, ok)
}

func TestRegistryFirstMatchWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewShopee())
	reg.Register(NewTikTok())

	det := reg.DetectFormat(workbook.NewGrid("s", [][]any{tiktokHeader()}))
	assert.Equal(t, model.FormatTikTokLivestream, det.Format)
	assert.Equal(t, []model.FormatID{model.FormatShopeeMonthlyOrDaily, model.FormatTikTokLivestream},
		[]model.FormatID{reg.Definitions()[0].ID(), reg.Definitions()[1].ID()})
}
