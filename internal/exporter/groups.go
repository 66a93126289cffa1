package exporter

import (
	"sort"
	"time"

	"livestats/internal/model"
)

// DayGroup 同一日历日期的记录
type DayGroup struct {
	Date    time.Time
	Records []*model.CleanRecord
}

// MonthGroup 同一月序号（0-11）的记录
type MonthGroup struct {
	Index   int
	Records []*model.CleanRecord
}

// GroupByDate 按日期去重分组，日期升序；没有日期的记录不参与
func GroupByDate(records []*model.CleanRecord) []DayGroup {
	index := map[string]int{}
	var groups []DayGroup
	for _, r := range records {
		if !r.Derived.HasDate {
			continue
		}
		key := r.Derived.Date.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: r.Derived.Date})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Date.Before(groups[b].Date)
	})
	return groups
}

// GroupByMonth 按月序号分组，按序号数值升序（跨年数据不按时间先后）
func GroupByMonth(records []*model.CleanRecord) []MonthGroup {
	index := map[int]int{}
	var groups []MonthGroup
	for _, r := range records {
		if !r.Derived.HasDate {
			continue
		}
		m := r.Derived.MonthIndex
		i, ok := index[m]
		if !ok {
			i = len(groups)
			index[m] = i
			groups = append(groups, MonthGroup{Index: m})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Index < groups[b].Index
	})
	return groups
}

func dayRecords(days []DayGroup) [][]*model.CleanRecord {
	out := make([][]*model.CleanRecord, len(days))
	for i, d := range days {
		out[i] = d.Records
	}
	return out
}
