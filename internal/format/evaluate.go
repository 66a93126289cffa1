package format

import (
	"sort"
	"strings"
	"time"

	"livestats/internal/model"
	"livestats/internal/parser"
)

// DerivedValues 派生列的值（按派生列顺序）；缺失的日期/时间写空串
func DerivedValues(d model.Derived) []any {
	out := make([]any, derivedCount)
	for i := range out {
		out[i] = ""
	}
	if d.HasDate {
		out[DerivedStartDate] = parser.ExcelSerial(d.Date)
		out[DerivedWeek] = float64(d.Week)
		out[DerivedMonthIndex] = float64(d.MonthIndex)
	}
	if d.HasTime {
		out[DerivedStartTime] = d.StartTime
		out[DerivedEndTime] = d.EndTime
	}
	out[DerivedRevenuePerHour] = d.RevenuePerHour
	return out
}

// MetricValues 值模式下 Metrics 一行：date 当天的所有记录
func (s *Schema) MetricValues(date time.Time, day []*model.CleanRecord) []any {
	out := make([]any, len(s.Metrics))
	for i, c := range s.Metrics {
		switch c.Kind {
		case AggKey:
			out[i] = parser.ExcelSerial(date)
		case AggWeekday:
			out[i] = date.Weekday().String()
		default:
			out[i] = s.evaluate(c, day)
		}
	}
	return out
}

// TrendValues 值模式下 Trend 一行：month 月（0-11）的所有记录
func (s *Schema) TrendValues(month int, recs []*model.CleanRecord) []any {
	out := make([]any, len(s.Trend))
	for i, c := range s.Trend {
		switch c.Kind {
		case AggKey:
			out[i] = float64(month)
		case AggMonthName:
			out[i] = time.Month(month + 1).String()
		default:
			out[i] = s.evaluate(c, recs)
		}
	}
	return out
}

// SummaryValues 值模式下的汇总统计；days 为按日期分组后的记录（与 Metrics 行一致）
func (s *Schema) SummaryValues(all []*model.CleanRecord, days [][]*model.CleanRecord) []any {
	out := make([]any, len(s.Summary))
	for i, st := range s.Summary {
		switch st.Kind {
		case StatDailyAverage:
			sums := make([]float64, 0, len(days))
			for _, day := range days {
				sums = append(sums, sum(s.values(st.Field, day)))
			}
			out[i] = mean(sums)
		default:
			out[i] = mean(s.values(st.Field, all))
		}
	}
	return out
}

func (s *Schema) evaluate(c Column, recs []*model.CleanRecord) any {
	switch c.Kind {
	case AggWeek:
		for _, r := range recs {
			if r.Derived.HasDate {
				return float64(r.Derived.Week)
			}
		}
		return ""
	case AggCount:
		return float64(len(recs))
	case AggSum:
		return sum(s.values(c.Field, recs))
	case AggAvg:
		return mean(s.values(c.Field, recs))
	case AggMin:
		return extreme(s.values(c.Field, recs), func(a, b float64) bool { return a < b })
	case AggMax:
		return extreme(s.values(c.Field, recs), func(a, b float64) bool { return a > b })
	case AggMedian:
		return median(s.values(c.Field, recs))
	case AggPrimeTime:
		return s.primeTime(c.Field, recs)
	}
	return ""
}

// primeTime 取得最大值的所有场次的开始时间，按行序以 ", " 连接（并列全部保留）
func (s *Schema) primeTime(f model.Field, recs []*model.CleanRecord) string {
	vals := s.values(f, recs)
	if len(vals) == 0 {
		return ""
	}
	peak := extreme(vals, func(a, b float64) bool { return a > b })
	var labels []string
	for i, r := range recs {
		if vals[i] == peak && r.Derived.HasTime {
			labels = append(labels, parser.FormatClock(r.Derived.StartTime))
		}
	}
	return strings.Join(labels, ", ")
}

func (s *Schema) values(f model.Field, recs []*model.CleanRecord) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		out = append(out, s.value(f, r))
	}
	return out
}

func (s *Schema) value(f model.Field, r *model.CleanRecord) float64 {
	switch f {
	case model.FieldStartDate:
		if r.Derived.HasDate {
			return parser.ExcelSerial(r.Derived.Date)
		}
		return 0
	case model.FieldStartTime:
		return r.Derived.StartTime
	case model.FieldWeek:
		return float64(r.Derived.Week)
	case model.FieldMonthIndex:
		return float64(r.Derived.MonthIndex)
	}
	idx, ok := s.fields[f]
	if !ok {
		return 0
	}
	return r.Float(idx)
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return sum(vals) / float64(len(vals))
}

func extreme(vals []float64, better func(a, b float64) bool) float64 {
	if len(vals) == 0 {
		return 0
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if better(v, best) {
			best = v
		}
	}
	return best
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
