package format

import (
	"fmt"

	"livestats/internal/model"
)

// AggKind 聚合列类型
type AggKind int

const (
	AggKey       AggKind = iota // 分组键本身（日期 / 月序号）
	AggWeekday                  // 星期名
	AggWeek                     // ISO 周（查表得到，不重新计算）
	AggMonthName                // 月份名
	AggCount                    // 场次数
	AggSum
	AggAvg
	AggMin
	AggMax
	AggMedian
	AggPrimeTime // 取得当日最大值的所有场次开始时间
)

// Column Metrics / Trend 的一列
type Column struct {
	Header  string
	Kind    AggKind
	Field   model.Field
	Display string
}

// StatKind 汇总统计类型
type StatKind int

const (
	StatAverage      StatKind = iota // 全量数据上的平均
	StatDailyAverage                 // Metrics 日汇总列的平均
)

// Stat Summary 的一行
type Stat struct {
	Name    string
	Kind    StatKind
	Field   model.Field
	Display string
}

// 聚合公式中的分组条件
type groupKey struct {
	cell  string // 当前行的键单元格，如 $B2
	field model.Field
}

// MetricFormulas Metrics 第 row 行的公式（key 为 1-based 列号）
//
// 日期键写在 Date 列，其余列都以它为条件。
func (s *Schema) MetricFormulas(rs RangeSet, row int) map[int]string {
	key := groupKey{cell: "$" + CellRef(s.metricKeyColumn(), row), field: model.FieldStartDate}
	return renderColumns(s.Metrics, rs, key)
}

// TrendFormulas Trend 第 row 行的公式
func (s *Schema) TrendFormulas(rs RangeSet, row int) map[int]string {
	key := groupKey{cell: "$" + CellRef(s.trendKeyColumn(), row), field: model.FieldMonthIndex}
	return renderColumns(s.Trend, rs, key)
}

// SummaryFormulas Summary 各统计值的公式（按 s.Summary 顺序）
//
// days 为 Metrics 中的日期行数，日均值引用 Metrics 的日汇总列。
func (s *Schema) SummaryFormulas(rs RangeSet, days int) []string {
	out := make([]string, len(s.Summary))
	for i, st := range s.Summary {
		switch st.Kind {
		case StatDailyAverage:
			col := s.MetricSumColumn(st.Field)
			if col == 0 || days == 0 {
				out[i] = "0"
				continue
			}
			ref := ColumnRange(model.SheetMetrics, col, 2, days+1)
			out[i] = fmt.Sprintf("IFERROR(AVERAGE(%s),0)", ref)
		default:
			out[i] = fmt.Sprintf("IFERROR(AVERAGE(%s),0)", rs.Ref(st.Field))
		}
	}
	return out
}

// MetricSumColumn Metrics 中字段日汇总列的列号（1-based），不存在返回 0
func (s *Schema) MetricSumColumn(f model.Field) int {
	for i, c := range s.Metrics {
		if c.Kind == AggSum && c.Field == f {
			return i + 1
		}
	}
	return 0
}

func (s *Schema) metricKeyColumn() int { return keyColumn(s.Metrics) }

func (s *Schema) trendKeyColumn() int { return keyColumn(s.Trend) }

func keyColumn(cols []Column) int {
	for i, c := range cols {
		if c.Kind == AggKey {
			return i + 1
		}
	}
	return 1
}

func renderColumns(cols []Column, rs RangeSet, key groupKey) map[int]string {
	out := make(map[int]string, len(cols))
	crit := rs.Ref(key.field)
	for i, c := range cols {
		if f := c.formula(rs, crit, key.cell); f != "" {
			out[i+1] = f
		}
	}
	return out
}

func (c Column) formula(rs RangeSet, crit, key string) string {
	rng := rs.Ref(c.Field)
	switch c.Kind {
	case AggWeekday:
		return fmt.Sprintf(`TEXT(%s,"dddd")`, key)
	case AggWeek:
		return fmt.Sprintf(`IFERROR(INDEX(%s,MATCH(%s,%s,0)),"")`, rs.Ref(model.FieldWeek), key, crit)
	case AggMonthName:
		return fmt.Sprintf(`TEXT(DATE(2000,%s+1,1),"mmmm")`, key)
	case AggCount:
		return fmt.Sprintf(`COUNTIF(%s,%s)`, crit, key)
	case AggSum:
		return fmt.Sprintf(`SUMIFS(%s,%s,%s)`, rng, crit, key)
	case AggAvg:
		return fmt.Sprintf(`IFERROR(AVERAGEIFS(%s,%s,%s),0)`, rng, crit, key)
	case AggMin:
		return fmt.Sprintf(`_xlfn.MINIFS(%s,%s,%s)`, rng, crit, key)
	case AggMax:
		return fmt.Sprintf(`_xlfn.MAXIFS(%s,%s,%s)`, rng, crit, key)
	case AggMedian:
		return fmt.Sprintf(`IFERROR(MEDIAN(_xlfn._xlws.FILTER(%s,%s=%s)),0)`, rng, crit, key)
	case AggPrimeTime:
		peak := fmt.Sprintf(`_xlfn.MAXIFS(%s,%s,%s)`, rng, crit, key)
		return fmt.Sprintf(`IFERROR(_xlfn.TEXTJOIN(", ",TRUE,TEXT(_xlfn._xlws.FILTER(%s,(%s=%s)*(%s=%s)),"hh:mm")),"")`,
			rs.Ref(model.FieldStartTime), crit, key, rng, peak)
	}
	return ""
}

// Headers 列表头
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}
