package format

import "livestats/internal/model"

func keyColumns() []Column {
	return []Column{
		{Header: "Day", Kind: AggWeekday},
		{Header: "Date", Kind: AggKey, Display: DisplayDate},
		{Header: "Week", Kind: AggWeek},
		{Header: "Sessions", Kind: AggCount},
	}
}

// primeTimeMetrics 带开始时间的格式：各指标附带“高峰场次”标签
func primeTimeMetrics(revenue string) []Column {
	cols := keyColumns()
	return append(cols,
		Column{Header: "Max " + revenue, Kind: AggMax, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Min " + revenue, Kind: AggMin, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Avg " + revenue, Kind: AggAvg, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Total " + revenue, Kind: AggSum, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: revenue + " prime time", Kind: AggPrimeTime, Field: model.FieldGMV},
		Column{Header: "Total items sold", Kind: AggSum, Field: model.FieldItems, Display: DisplayCurrency},
		Column{Header: "Max items sold", Kind: AggMax, Field: model.FieldItems, Display: DisplayCurrency},
		Column{Header: "Items prime time", Kind: AggPrimeTime, Field: model.FieldItems},
		Column{Header: "Avg CTR", Kind: AggAvg, Field: model.FieldCTR, Display: DisplayPercentage},
		Column{Header: "Max CTR", Kind: AggMax, Field: model.FieldCTR, Display: DisplayPercentage},
		Column{Header: "CTR prime time", Kind: AggPrimeTime, Field: model.FieldCTR},
		Column{Header: "Avg CTOR", Kind: AggAvg, Field: model.FieldCTOR, Display: DisplayPercentage},
		Column{Header: "Max CTOR", Kind: AggMax, Field: model.FieldCTOR, Display: DisplayPercentage},
		Column{Header: "CTOR prime time", Kind: AggPrimeTime, Field: model.FieldCTOR},
		Column{Header: "Total viewers", Kind: AggSum, Field: model.FieldViewers, Display: DisplayCurrency},
		Column{Header: "Avg viewers", Kind: AggAvg, Field: model.FieldViewers, Display: DisplayCurrency},
		Column{Header: "Total likes", Kind: AggSum, Field: model.FieldLikes, Display: DisplayCurrency},
		Column{Header: "Total comments", Kind: AggSum, Field: model.FieldComments, Display: DisplayCurrency},
		Column{Header: "Total shares", Kind: AggSum, Field: model.FieldShares, Display: DisplayCurrency},
		Column{Header: "Avg viewing duration", Kind: AggAvg, Field: model.FieldAvgViewDuration, Display: DisplayDecimal},
	)
}

// medianMetrics 无可比开始时间的格式：用中位数代替高峰标签
func medianMetrics(revenue string) []Column {
	cols := keyColumns()
	return append(cols,
		Column{Header: "Max " + revenue, Kind: AggMax, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Min " + revenue, Kind: AggMin, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Avg " + revenue, Kind: AggAvg, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Total " + revenue, Kind: AggSum, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Median " + revenue, Kind: AggMedian, Field: model.FieldGMV, Display: DisplayCurrency},
		Column{Header: "Total items sold", Kind: AggSum, Field: model.FieldItems, Display: DisplayCurrency},
		Column{Header: "Max items sold", Kind: AggMax, Field: model.FieldItems, Display: DisplayCurrency},
		Column{Header: "Median items sold", Kind: AggMedian, Field: model.FieldItems, Display: DisplayCurrency},
		Column{Header: "Avg CTR", Kind: AggAvg, Field: model.FieldCTR, Display: DisplayPercentage},
		Column{Header: "Max CTR", Kind: AggMax, Field: model.FieldCTR, Display: DisplayPercentage},
		Column{Header: "Median CTR", Kind: AggMedian, Field: model.FieldCTR, Display: DisplayPercentage},
		Column{Header: "Avg CTOR", Kind: AggAvg, Field: model.FieldCTOR, Display: DisplayPercentage},
		Column{Header: "Max CTOR", Kind: AggMax, Field: model.FieldCTOR, Display: DisplayPercentage},
		Column{Header: "Median CTOR", Kind: AggMedian, Field: model.FieldCTOR, Display: DisplayPercentage},
		Column{Header: "Total viewers", Kind: AggSum, Field: model.FieldViewers, Display: DisplayCurrency},
		Column{Header: "Avg viewers", Kind: AggAvg, Field: model.FieldViewers, Display: DisplayCurrency},
		Column{Header: "Total likes", Kind: AggSum, Field: model.FieldLikes, Display: DisplayCurrency},
		Column{Header: "Total comments", Kind: AggSum, Field: model.FieldComments, Display: DisplayCurrency},
		Column{Header: "Total shares", Kind: AggSum, Field: model.FieldShares, Display: DisplayCurrency},
		Column{Header: "Avg viewing duration", Kind: AggAvg, Field: model.FieldAvgViewDuration, Display: DisplayDecimal},
	)
}

// summaryStats 固定 8 项汇总统计
func summaryStats(revenue string) []Stat {
	return []Stat{
		{Name: "Average " + revenue + " per session", Kind: StatAverage, Field: model.FieldGMV, Display: DisplayCurrency},
		{Name: "Average " + revenue + " per day", Kind: StatDailyAverage, Field: model.FieldGMV, Display: DisplayCurrency},
		{Name: "Average CTR", Kind: StatAverage, Field: model.FieldCTR, Display: DisplayPercentage},
		{Name: "Average CTOR", Kind: StatAverage, Field: model.FieldCTOR, Display: DisplayPercentage},
		{Name: "Average viewers", Kind: StatAverage, Field: model.FieldViewers, Display: DisplayCurrency},
		{Name: "Average likes", Kind: StatAverage, Field: model.FieldLikes, Display: DisplayCurrency},
		{Name: "Average comments", Kind: StatAverage, Field: model.FieldComments, Display: DisplayCurrency},
		{Name: "Average shares", Kind: StatAverage, Field: model.FieldShares, Display: DisplayCurrency},
	}
}

func trendColumns() []Column {
	return []Column{
		{Header: "Month index", Kind: AggKey},
		{Header: "Month", Kind: AggMonthName},
		{Header: "Sessions", Kind: AggCount},
		{Header: "Avg CTR", Kind: AggAvg, Field: model.FieldCTR, Display: DisplayPercentage},
		{Header: "Avg CTOR", Kind: AggAvg, Field: model.FieldCTOR, Display: DisplayPercentage},
		{Header: "Avg viewers", Kind: AggAvg, Field: model.FieldViewers, Display: DisplayCurrency},
		{Header: "Avg likes", Kind: AggAvg, Field: model.FieldLikes, Display: DisplayCurrency},
		{Header: "Avg comments", Kind: AggAvg, Field: model.FieldComments, Display: DisplayCurrency},
		{Header: "Avg shares", Kind: AggAvg, Field: model.FieldShares, Display: DisplayCurrency},
	}
}
