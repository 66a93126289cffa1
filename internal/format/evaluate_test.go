package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livestats/internal/model"
	"livestats/internal/parser"
)

// tiktokRecord 构造一条 TikTok 清洗后记录
func tiktokRecord(t *testing.T, start string, hours, gmv, ctr float64) *model.CleanRecord {
	t.Helper()
	s := NewTikTok().Schema(model.VariantDefault)
	clean := make([]any, len(s.Headers))
	clean[ttStartTime] = start
	clean[ttDuration] = hours
	clean[ttGrossRevenue] = gmv
	clean[ttCTR] = ctr
	clean[ttViewers] = 100.0
	raw := []any{"live", start}
	return &model.CleanRecord{
		Values:  clean,
		Derived: s.Derive(raw, clean, parser.LoadLocation(parser.DefaultTimeZone)),
	}
}

func metricIndex(t *testing.T, s *Schema, header string) int {
	t.Helper()
	for i, c := range s.Metrics {
		if c.Header == header {
			return i
		}
	}
	t.Fatalf("missing metrics column %q", header)
	return -1
}

func TestMetricValuesPrimeTimeIncludesTies(t *testing.T) {
	s := NewTikTok().Schema(model.VariantDefault)
	day := []*model.CleanRecord{
		tiktokRecord(t, "2024-05-01 08:00:00", 1, 500, 0.1),
		tiktokRecord(t, "2024-05-01 13:00:00", 2, 200, 0.3),
		tiktokRecord(t, "2024-05-01 20:30:00", 1, 500, 0.2),
	}
	date := day[0].Derived.Date
	vals := s.MetricValues(date, day)

	assert.Equal(t, "Wednesday", vals[metricIndex(t, s, "Day")])
	assert.Equal(t, 45413.0, vals[metricIndex(t, s, "Date")])
	assert.Equal(t, 18.0, vals[metricIndex(t, s, "Week")])
	assert.Equal(t, 3.0, vals[metricIndex(t, s, "Sessions")])
	assert.Equal(t, 500.0, vals[metricIndex(t, s, "Max GMV")])
	assert.Equal(t, 200.0, vals[metricIndex(t, s, "Min GMV")])
	assert.Equal(t, 400.0, vals[metricIndex(t, s, "Avg GMV")])
	assert.Equal(t, 1200.0, vals[metricIndex(t, s, "Total GMV")])
	assert.Equal(t, "08:00, 20:30", vals[metricIndex(t, s, "GMV prime time")])
	assert.Equal(t, "13:00", vals[metricIndex(t, s, "CTR prime time")])
}

func TestMedianOfEmptyIsZero(t *testing.T) {
	s := NewShopee().Schema(model.VariantShopeeOrders)
	vals := s.MetricValues(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil)
	assert.Equal(t, 0.0, vals[metricIndex(t, s, "Median sales")])
	assert.Equal(t, 0.0, vals[metricIndex(t, s, "Avg sales")])
	assert.Equal(t, "", vals[metricIndex(t, s, "Week")])

	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 3.0, median([]float64{5, 3, 1}))
}

func TestSummaryValuesDailyAverageUsesDaySums(t *testing.T) {
	s := NewTikTok().Schema(model.VariantDefault)
	d1 := []*model.CleanRecord{
		tiktokRecord(t, "2024-05-01 08:00:00", 1, 100, 0.1),
		tiktokRecord(t, "2024-05-01 10:00:00", 1, 200, 0.1),
	}
	d2 := []*model.CleanRecord{
		tiktokRecord(t, "2024-05-02 08:00:00", 1, 600, 0.4),
	}
	all := append(append([]*model.CleanRecord{}, d1...), d2...)

	vals := s.SummaryValues(all, [][]*model.CleanRecord{d1, d2})
	require.Len(t, vals, 8)
	assert.Equal(t, 300.0, vals[0]) // 每场平均
	assert.Equal(t, 450.0, vals[1]) // 每日平均 = (300 + 600) / 2
	assert.InDelta(t, 0.2, vals[2], 1e-9)
	assert.Equal(t, 100.0, vals[4])
}

func TestTrendValues(t *testing.T) {
	s := NewTikTok().Schema(model.VariantDefault)
	recs := []*model.CleanRecord{
		tiktokRecord(t, "2024-05-01 08:00:00", 1, 100, 0.1),
		tiktokRecord(t, "2024-05-21 08:00:00", 1, 100, 0.3),
	}
	vals := s.TrendValues(4, recs)
	assert.Equal(t, 4.0, vals[0])
	assert.Equal(t, "May", vals[1])
	assert.Equal(t, 2.0, vals[2])
	assert.InDelta(t, 0.2, vals[3], 1e-9)
}

func TestDerivedValues(t *testing.T) {
	vals := DerivedValues(model.Derived{})
	assert.Equal(t, []any{"", "", "", "", "", 0.0}, vals)

	loc := parser.LoadLocation(parser.DefaultTimeZone)
	vals = DerivedValues(model.Derived{
		Date:      time.Date(2024, 5, 1, 0, 0, 0, 0, loc),
		HasDate:   true,
		Week:      18,
		HasTime:   true,
		StartTime: 0.5,
		EndTime:   0.75,
	})
	assert.Equal(t, []any{45413.0, 0.5, 0.75, 18.0, 0.0, 0.0}, vals)
}
