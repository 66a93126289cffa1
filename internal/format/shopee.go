package format

import (
	"fmt"
	"time"

	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

var (
	periodeMarker = headerMarker{Col: 1, Keywords: []string{"periode data", "data period"}}

	shopeeLivestreamMarkers = []headerMarker{
		periodeMarker,
		{Col: 4, Keywords: []string{"nama livestream", "livestream"}},
	}
	shopeeOrdersMarkers = []headerMarker{
		periodeMarker,
		{Col: 3, Keywords: []string{"penjualan"}},
		{Col: 3, Keywords: []string{"pesanan dibuat", "placed order"}},
	}
)

// Shopee Shopee 直播月报（xlsx）与每日订单（CSV）导出
type Shopee struct {
	livestream *Schema
	orders     *Schema
}

// NewShopee 创建 Shopee 格式定义
func NewShopee() *Shopee {
	return &Shopee{
		livestream: shopeeLivestreamSchema(),
		orders:     shopeeOrdersSchema(),
	}
}

func (s *Shopee) ID() model.FormatID { return model.FormatShopeeMonthlyOrDaily }

func (s *Shopee) Label() string { return "Shopee Monthly / Daily" }

func (s *Shopee) Variants() []model.Variant {
	return []model.Variant{model.VariantShopeeLivestream, model.VariantShopeeOrders}
}

func (s *Shopee) Schema(v model.Variant) *Schema {
	if v == model.VariantShopeeOrders {
		return s.orders
	}
	return s.livestream
}

// Detect 逐行探测两种子格式
//
// 订单导出可能带第二行表头（同样以 Periode Data 开头），此时数据从表头下两行开始。
func (s *Shopee) Detect(in workbook.Input, probeRows int) (Match, bool) {
	last := probeRows
	if n := in.MaxRow(); n < last {
		last = n
	}
	for row := 1; row <= last; row++ {
		if matchRow(in, row, shopeeLivestreamMarkers...) {
			return Match{StartRow: row + 1, Variant: model.VariantShopeeLivestream}, true
		}
		if matchRow(in, row, shopeeOrdersMarkers...) {
			start := row + 1
			if periodeMarker.match(in, row+1) {
				start = row + 2
			}
			return Match{StartRow: start, Variant: model.VariantShopeeOrders}, true
		}
	}
	return Match{}, false
}

const (
	slPeriode = iota
	slUsername
	slLivestreamID
	slLivestreamName
	slStartTime
	slDuration
	slViewers
	slActiveViewers
	slAvgViewDuration
	slComments
	slLikes
	slShares
	slAddToCart
	slOrdersPlaced
	slOrdersShipped
	slItemsPlaced
	slItemsShipped
	slSalesPlaced
	slSalesShipped
	slCTR
	slCTOR
)

func shopeeLivestreamSchema() *Schema {
	s := &Schema{
		Format:  model.FormatShopeeMonthlyOrDaily,
		Variant: model.VariantShopeeLivestream,
		Label:   "Shopee Livestream (monthly)",
		Headers: []string{
			"Periode Data", "Username", "ID Livestream", "Nama Livestream", "Waktu Mulai", "Durasi",
			"Penonton", "Penonton Aktif", "Rata-rata Durasi Ditonton", "Komentar", "Suka", "Bagikan",
			"Tambah ke Keranjang", "Pesanan (Pesanan Dibuat)", "Pesanan (Pesanan Siap Dikirim)",
			"Produk Terjual (Pesanan Dibuat)", "Produk Terjual (Pesanan Siap Dikirim)",
			"Penjualan (Pesanan Dibuat)", "Penjualan (Pesanan Siap Dikirim)",
			"Tingkat Klik (CTR)", "Tingkat Konversi (CTOR)",
		},
		Rules: map[int]model.CleaningKind{
			slDuration:        model.CleanDuration,
			slViewers:         model.CleanNumeric,
			slActiveViewers:   model.CleanNumeric,
			slAvgViewDuration: model.CleanDuration,
			slComments:        model.CleanNumeric,
			slLikes:           model.CleanNumeric,
			slShares:          model.CleanNumeric,
			slAddToCart:       model.CleanNumeric,
			slOrdersPlaced:    model.CleanNumeric,
			slOrdersShipped:   model.CleanNumeric,
			slItemsPlaced:     model.CleanNumeric,
			slItemsShipped:    model.CleanNumeric,
			slSalesPlaced:     model.CleanCurrency,
			slSalesShipped:    model.CleanCurrency,
			slCTR:             model.CleanPercentage,
			slCTOR:            model.CleanPercentage,
		},
		Anchors: [2]int{1, 4},
		Metrics: medianMetrics("sales"),
		Summary: summaryStats("sales"),
		Trend:   trendColumns(),
		derive:  deriveShopeeLivestream,
	}
	s.derivedFormulas = shopeeLivestreamFormulas
	return s.init(map[model.Field]int{
		model.FieldGMV:             slSalesShipped,
		model.FieldItems:           slItemsShipped,
		model.FieldViewers:         slViewers,
		model.FieldAvgViewDuration: slAvgViewDuration,
		model.FieldComments:        slComments,
		model.FieldLikes:           slLikes,
		model.FieldShares:          slShares,
		model.FieldCTR:             slCTR,
		model.FieldCTOR:            slCTOR,
	})
}

// deriveShopeeLivestream Waktu Mulai 是本地时间的 "DD-MM-YYYY HH:MM" 组合文本，只能在 Go 中解析；
// 解析失败时日期回落到 Periode Data
func deriveShopeeLivestream(raw, clean []any, loc *time.Location) model.Derived {
	var d model.Derived
	duration := floatAt(clean, slDuration)
	if duration > 0 {
		d.RevenuePerHour = floatAt(clean, slSalesShipped) / duration
	}

	if start, ok := parser.ParseDateTime(valueAt(raw, slStartTime), loc); ok {
		setDate(&d, start)
		d.HasTime = true
		d.StartTime = parser.DayFraction(start)
		d.EndTime = endOfSession(d.StartTime, duration)
		return d
	}
	if date, ok := parser.ParseDate(valueAt(raw, slPeriode), loc); ok {
		setDate(&d, date)
	}
	return d
}

func shopeeLivestreamFormulas(s *Schema, rec *model.CleanRecord) map[int]string {
	row := rec.Row
	date := CellRef(s.DerivedColumn(DerivedStartDate), row)
	duration := CellRef(slDuration+1, row)
	sales := CellRef(slSalesShipped+1, row)
	return map[int]string{
		DerivedWeek:           weekFormula(date),
		DerivedMonthIndex:     monthFormula(date),
		DerivedRevenuePerHour: fmt.Sprintf(`IF(%s>0,%s/%s,0)`, duration, sales, duration),
	}
}

const (
	soPeriode = iota
	soOrdersPlaced
	soSalesPlaced
	soItemsPlaced
	soViewers
	soActiveViewers
	soAvgViewDuration
	soComments
	soLikes
	soShares
	soCTR
	soCTOR
	soSalesShipped
)

func shopeeOrdersSchema() *Schema {
	s := &Schema{
		Format:  model.FormatShopeeMonthlyOrDaily,
		Variant: model.VariantShopeeOrders,
		Label:   "Shopee Orders (daily)",
		Headers: []string{
			"Periode Data", "Pesanan (Pesanan Dibuat)", "Penjualan (Pesanan Dibuat)",
			"Produk Terjual (Pesanan Dibuat)", "Penonton", "Penonton Aktif", "Rata-rata Durasi Ditonton",
			"Komentar", "Suka", "Bagikan", "Tingkat Klik (CTR)", "Tingkat Konversi (CTOR)",
			"Penjualan (Pesanan Siap Dikirim)",
		},
		Rules: map[int]model.CleaningKind{
			soOrdersPlaced:    model.CleanNumeric,
			soSalesPlaced:     model.CleanCurrency,
			soItemsPlaced:     model.CleanNumeric,
			soViewers:         model.CleanNumeric,
			soActiveViewers:   model.CleanNumeric,
			soAvgViewDuration: model.CleanDuration,
			soComments:        model.CleanNumeric,
			soLikes:           model.CleanNumeric,
			soShares:          model.CleanNumeric,
			soCTR:             model.CleanPercentage,
			soCTOR:            model.CleanPercentage,
			soSalesShipped:    model.CleanCurrency,
		},
		Anchors: [2]int{1, 3},
		Metrics: medianMetrics("sales"),
		Summary: summaryStats("sales"),
		Trend:   trendColumns(),
		derive:  deriveShopeeOrders,
	}
	s.derivedFormulas = shopeeOrdersFormulas
	return s.init(map[model.Field]int{
		model.FieldGMV:             soSalesPlaced,
		model.FieldItems:           soItemsPlaced,
		model.FieldViewers:         soViewers,
		model.FieldAvgViewDuration: soAvgViewDuration,
		model.FieldComments:        soComments,
		model.FieldLikes:           soLikes,
		model.FieldShares:          soShares,
		model.FieldCTR:             soCTR,
		model.FieldCTOR:            soCTOR,
	})
}

// deriveShopeeOrders 只有日期可推导：开始/结束时间留空，时均销售额固定为 0
func deriveShopeeOrders(raw, _ []any, loc *time.Location) model.Derived {
	var d model.Derived
	if date, ok := parser.ParseDate(valueAt(raw, soPeriode), loc); ok {
		setDate(&d, date)
	}
	return d
}

func shopeeOrdersFormulas(s *Schema, rec *model.CleanRecord) map[int]string {
	date := CellRef(s.DerivedColumn(DerivedStartDate), rec.Row)
	return map[int]string{
		DerivedWeek:       weekFormula(date),
		DerivedMonthIndex: monthFormula(date),
	}
}
