package model

// FormatID 源文件平台格式（封闭枚举）
type FormatID string

const (
	FormatTikTokLivestream     FormatID = "tiktok_livestream"       // TikTok 直播导出
	FormatShopeeMonthlyOrDaily FormatID = "shopee_monthly_or_daily" // Shopee 直播月报 / 每日订单
	FormatUnsupported          FormatID = "unsupported"             // 无法识别（终止状态）
)

// Variant 同一平台下的子格式
type Variant string

const (
	VariantDefault          Variant = ""
	VariantShopeeLivestream Variant = "shopee_livestream" // Shopee 直播月度导出（xlsx）
	VariantShopeeOrders     Variant = "shopee_orders"     // Shopee 每日订单导出（常见为 CSV）
)

// CleaningKind 列清洗规则
type CleaningKind int

const (
	CleanText CleaningKind = iota // 默认
	CleanCurrency
	CleanPercentage
	CleanNumeric
	CleanDuration
)

func (k CleaningKind) String() string {
	switch k {
	case CleanCurrency:
		return "currency"
	case CleanPercentage:
		return "percentage"
	case CleanNumeric:
		return "numeric"
	case CleanDuration:
		return "duration"
	default:
		return "text"
	}
}

// OutputMode 聚合结果写出方式
type OutputMode string

const (
	OutputFormula OutputMode = "formula" // 写公式文本，可在表格内追溯/重算
	OutputValue   OutputMode = "value"   // 在 Go 中求值后写入数值
)

// ParseOutputMode 解析输出模式，未知值回落到公式模式
func ParseOutputMode(s string) OutputMode {
	if OutputMode(s) == OutputValue {
		return OutputValue
	}
	return OutputFormula
}

// 输出工作簿的 sheet 名称（顺序即输出顺序）
const (
	SheetRawData   = "Raw Data"
	SheetCleanData = "Clean Data"
	SheetMetrics   = "Metrics"
	SheetSummary   = "Summary"
	SheetTrend     = "Trend"
)

// OutputSheets 输出 sheet 顺序
func OutputSheets() []string {
	return []string{SheetRawData, SheetCleanData, SheetMetrics, SheetSummary, SheetTrend}
}
