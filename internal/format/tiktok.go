package format

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"livestats/internal/model"
	"livestats/internal/parser"
	"livestats/internal/workbook"
)

var tiktokMarkers = []headerMarker{
	{Col: 1, Keywords: []string{"livestream", "streaming langsung"}},
	{Col: 2, Keywords: []string{"start time", "waktu mulai"}},
	{Col: 3, Keywords: []string{"duration", "durasi"}},
}

// TikTok TikTok 直播导出格式
type TikTok struct {
	schema *Schema
}

// NewTikTok 创建 TikTok 格式定义
func NewTikTok() *TikTok {
	return &TikTok{schema: tiktokSchema()}
}

func (t *TikTok) ID() model.FormatID { return model.FormatTikTokLivestream }

func (t *TikTok) Label() string { return "TikTok Livestream" }

func (t *TikTok) Variants() []model.Variant { return []model.Variant{model.VariantDefault} }

func (t *TikTok) Schema(model.Variant) *Schema { return t.schema }

// Detect 表头行：A 列 livestream，B 列 start time，C 列 duration；数据从下一行开始
func (t *TikTok) Detect(in workbook.Input, probeRows int) (Match, bool) {
	row, ok := scanHeader(in, probeRows, tiktokMarkers...)
	if !ok {
		return Match{}, false
	}
	return Match{StartRow: row + 1, Variant: model.VariantDefault}, true
}

const (
	ttLivestream = iota
	ttStartTime
	ttDuration
	ttGrossRevenue
	ttItemsSold
	ttCustomers
	ttAveragePrice
	ttOrdersPaid
	ttViewers
	ttViews
	ttAvgViewDuration
	ttComments
	ttShares
	ttLikes
	ttNewFollowers
	ttProductImpressions
	ttProductClicks
	ttCTR
	ttCTOR
)

func tiktokSchema() *Schema {
	s := &Schema{
		Format:  model.FormatTikTokLivestream,
		Variant: model.VariantDefault,
		Label:   "TikTok Livestream",
		Headers: []string{
			"Livestream", "Start time", "Duration", "Gross revenue", "Items sold", "Customers",
			"Average price", "Orders paid for", "Viewers", "Views", "Avg. viewing duration",
			"Comments", "Shares", "Likes", "New followers", "Product impressions", "Product clicks",
			"CTR", "CTOR",
		},
		Rules: map[int]model.CleaningKind{
			ttDuration:           model.CleanDuration,
			ttGrossRevenue:       model.CleanCurrency,
			ttItemsSold:          model.CleanNumeric,
			ttCustomers:          model.CleanNumeric,
			ttAveragePrice:       model.CleanCurrency,
			ttOrdersPaid:         model.CleanNumeric,
			ttViewers:            model.CleanNumeric,
			ttViews:              model.CleanNumeric,
			ttAvgViewDuration:    model.CleanNumeric,
			ttComments:           model.CleanNumeric,
			ttShares:             model.CleanNumeric,
			ttLikes:              model.CleanNumeric,
			ttNewFollowers:       model.CleanNumeric,
			ttProductImpressions: model.CleanNumeric,
			ttProductClicks:      model.CleanNumeric,
			ttCTR:                model.CleanPercentage,
			ttCTOR:               model.CleanPercentage,
		},
		Anchors: [2]int{1, 2},
		Metrics: primeTimeMetrics("GMV"),
		Summary: summaryStats("GMV"),
		Trend:   trendColumns(),
		derive:  deriveTikTok,
	}
	s.derivedFormulas = tiktokFormulas
	return s.init(map[model.Field]int{
		model.FieldGMV:             ttGrossRevenue,
		model.FieldItems:           ttItemsSold,
		model.FieldViewers:         ttViewers,
		model.FieldAvgViewDuration: ttAvgViewDuration,
		model.FieldComments:        ttComments,
		model.FieldShares:          ttShares,
		model.FieldLikes:           ttLikes,
		model.FieldCTR:             ttCTR,
		model.FieldCTOR:            ttCTOR,
	})
}

// deriveTikTok 开始时间为 "YYYY-MM-DD HH:MM:SS" 文本或原生日期
func deriveTikTok(raw, clean []any, loc *time.Location) model.Derived {
	var d model.Derived
	duration := floatAt(clean, ttDuration)
	if duration > 0 {
		d.RevenuePerHour = floatAt(clean, ttGrossRevenue) / duration
	}

	start, ok := parser.ParseDateTime(valueAt(raw, ttStartTime), loc)
	if !ok {
		return d
	}
	setDate(&d, start)
	d.HasTime = true
	d.StartTime = parser.DayFraction(start)
	d.EndTime = endOfSession(d.StartTime, duration)
	return d
}

// 定长的开始时间文本，公式按字符位置取年月日，不依赖 DATEVALUE 的区域设置
var (
	ttYMDStart = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(:\d{2})?$`)
	ttDMYStart = regexp.MustCompile(`^\d{2}[-/.]\d{2}[-/.]\d{4}[ T]\d{2}:\d{2}(:\d{2})?$`)
)

func tiktokFormulas(s *Schema, rec *model.CleanRecord) map[int]string {
	row := rec.Row
	startText := CellRef(ttStartTime+1, row)
	duration := CellRef(ttDuration+1, row)
	revenue := CellRef(ttGrossRevenue+1, row)
	date := CellRef(s.DerivedColumn(DerivedStartDate), row)
	clock := CellRef(s.DerivedColumn(DerivedStartTime), row)

	formulas := map[int]string{
		DerivedEndTime:        fmt.Sprintf(`IF(%s="","",MOD(%s+%s/24,1))`, clock, clock, duration),
		DerivedWeek:           weekFormula(date),
		DerivedMonthIndex:     monthFormula(date),
		DerivedRevenuePerHour: fmt.Sprintf(`IF(%s>0,%s/%s,0)`, duration, revenue, duration),
	}

	// 其余写法（原生日期、不补零、非法值）写入 Go 解析结果，与 Metrics 的日期键保持一致
	if !rec.Derived.HasTime {
		return formulas
	}
	text, _ := valueAt(rec.Values, ttStartTime).(string)
	switch {
	case ttYMDStart.MatchString(text):
		formulas[DerivedStartDate] = fmt.Sprintf(`IFERROR(DATE(VALUE(LEFT(%s,4)),VALUE(MID(%s,6,2)),VALUE(MID(%s,9,2))),"")`,
			startText, startText, startText)
	case ttDMYStart.MatchString(text):
		formulas[DerivedStartDate] = fmt.Sprintf(`IFERROR(DATE(VALUE(MID(%s,7,4)),VALUE(MID(%s,4,2)),VALUE(LEFT(%s,2))),"")`,
			startText, startText, startText)
	default:
		return formulas
	}
	formulas[DerivedStartTime] = fmt.Sprintf(`IFERROR(TIME(VALUE(MID(%s,12,2)),VALUE(MID(%s,15,2)),IFERROR(VALUE(MID(%s,18,2)),0)),"")`,
		startText, startText, startText)
	return formulas
}

func weekFormula(date string) string {
	return fmt.Sprintf(`IF(%s="","",_xlfn.ISOWEEKNUM(%s))`, date, date)
}

func monthFormula(date string) string {
	return fmt.Sprintf(`IF(%s="","",MONTH(%s)-1)`, date, date)
}

func setDate(d *model.Derived, t time.Time) {
	d.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	d.HasDate = true
	_, d.Week = t.ISOWeek()
	d.MonthIndex = int(t.Month()) - 1
}

// endOfSession 开始时间加时长（小时），按一天取模
func endOfSession(start, hours float64) float64 {
	end := math.Mod(start+hours/24, 1)
	if end < 0 {
		end += 1
	}
	return end
}

func valueAt(values []any, idx int) any {
	if idx < 0 || idx >= len(values) {
		return nil
	}
	return values[idx]
}

func floatAt(values []any, idx int) float64 {
	if f, ok := valueAt(values, idx).(float64); ok {
		return f
	}
	return 0
}
