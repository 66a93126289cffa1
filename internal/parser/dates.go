package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DefaultTimeZone Shopee 本地时间所在时区
const DefaultTimeZone = "Asia/Jakarta"

var (
	// DD-MM-YYYY，可带时间部分
	dmyRe = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})(?:[ T]+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
	// YYYY-MM-DD，可带时间部分
	ymdRe = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[ T]+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)

	excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
)

// LoadLocation 加载时区，失败时回落到固定 UTC+7
func LoadLocation(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

// ParseDate 解析日期，兼容三种编码：Excel 序列号、原生日期值、"DD-MM-YYYY[ 时间]" 文本
//
// 返回 loc 时区下当天零点；无法识别时 ok=false。
func ParseDate(v any, loc *time.Location) (time.Time, bool) {
	t, ok := ParseDateTime(v, loc)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}

// ParseDateTime 解析日期时间（语义同 ParseDate，但保留时间部分）
func ParseDateTime(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = LoadLocation(DefaultTimeZone)
	}

	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		// 表格里的原生日期没有时区，UTC 表示的是墙上时间，按组件重建，避免换算造成跨日
		if x.Location() == time.UTC {
			return time.Date(x.Year(), x.Month(), x.Day(), x.Hour(), x.Minute(), x.Second(), 0, loc), true
		}
		return x.In(loc), true
	case string:
		return parseDateTimeText(x, loc)
	}

	if n, ok := asNumber(v); ok {
		return fromSerial(n, loc)
	}
	return time.Time{}, false
}

func fromSerial(serial float64, loc *time.Location) (time.Time, bool) {
	if serial <= 0 || serial > 2958465 {
		return time.Time{}, false
	}
	// excelize 返回的是不带时区含义的“墙上时间”，直接按组件在 loc 中重建
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
}

func parseDateTimeText(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	var day, month, year int
	var m []string
	if m = dmyRe.FindStringSubmatch(s); m != nil {
		day, month, year = atoi(m[1]), atoi(m[2]), atoi(m[3])
	} else if m = ymdRe.FindStringSubmatch(s); m != nil {
		year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
	} else {
		// 纯数字文本（CSV 中的序列号）
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(f, loc)
		}
		return time.Time{}, false
	}

	hour, minute, second := atoi(m[4]), atoi(m[5]), atoi(m[6])
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DayFraction 时间在一天中的比例（Excel 时间值）
func DayFraction(t time.Time) float64 {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return float64(secs) / 86400
}

// ExcelSerial 日期的 Excel 序列号（只取日期部分）
func ExcelSerial(t time.Time) float64 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.Sub(excelEpoch).Hours() / 24
}

// FormatClock 将一天中的比例格式化为 "15:04"
func FormatClock(fraction float64) string {
	secs := int(fraction*86400 + 0.5)
	secs %= 86400
	if secs < 0 {
		secs += 86400
	}
	return time.Date(2000, 1, 1, 0, 0, secs, 0, time.UTC).Format("15:04")
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
