package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"livestats/internal/model"
)

// 清洗函数均为全函数：任何输入都不 panic，无法解析时回落到零值。

var (
	durationRe      = regexp.MustCompile(`^(\d+):([0-5]?\d):([0-5]?\d)$`)
	dotThousandsRe  = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
	spaceReplacer   = strings.NewReplacer(" ", "", " ", "", "\t", "")
	percentReplacer = strings.NewReplacer("％", "%")
)

// Clean 按清洗规则转换单元格值
func Clean(kind model.CleaningKind, v any) any {
	switch kind {
	case model.CleanCurrency:
		return CleanCurrency(v)
	case model.CleanPercentage:
		return CleanPercentage(v)
	case model.CleanNumeric:
		return CleanNumeric(v)
	case model.CleanDuration:
		return CleanDuration(v)
	default:
		return CleanText(v)
	}
}

// CleanCurrency 金额清洗
//
// 去掉货币符号和所有 "." "," 分隔符，按整数重建金额。
// 例外：最后一个分隔符后只有 1-2 位数字时视为小数部分，整段丢弃而不是拼进整数
// （"$1,500.00" → 1500 而非 150000，"1.5" → 1 而非 15；"Rp1.500.000" → 1500000）。
// 原生数值直接截断小数。
func CleanCurrency(v any) float64 {
	if n, ok := asNumber(v); ok {
		return math.Trunc(n)
	}
	s := strings.TrimSpace(CellText(v))
	if s == "" {
		return 0
	}

	negative := false
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r), r == '.', r == ',':
			return r
		case r == '-':
			negative = true
			return -1
		default:
			return -1
		}
	}, s)
	kept = strings.Trim(kept, ".,")
	if kept == "" {
		return 0
	}

	if i := strings.LastIndexAny(kept, ".,"); i >= 0 {
		if tail := len(kept) - i - 1; tail == 1 || tail == 2 {
			kept = kept[:i]
		}
	}
	kept = strings.NewReplacer(".", "", ",", "").Replace(kept)

	n, err := strconv.ParseFloat(kept, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -n
	}
	return n
}

// CleanPercentage 百分比清洗
//
// 含 "%" 时除以 100（"15%" → 0.15），否则视为已是小数原样返回。"," 视为小数点。
func CleanPercentage(v any) float64 {
	if n, ok := asNumber(v); ok {
		return n
	}
	s := percentReplacer.Replace(strings.TrimSpace(CellText(v)))
	if s == "" {
		return 0
	}
	hasPercent := strings.Contains(s, "%")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = spaceReplacer.Replace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if hasPercent {
		return f / 100
	}
	return f
}

// CleanNumeric 普通数值清洗（去千分位与空白）
func CleanNumeric(v any) float64 {
	if n, ok := asNumber(v); ok {
		return n
	}
	s := spaceReplacer.Replace(strings.TrimSpace(CellText(v)))
	if s == "" {
		return 0
	}
	// 印尼习惯 "1.234.567" 以点作千分位
	if dotThousandsRe.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CleanDuration 时长清洗，统一为小时
//
// "H:MM:SS" → 小时数（保留 2 位小数）；数值视为已是小时，原样返回。
func CleanDuration(v any) float64 {
	if n, ok := asNumber(v); ok {
		return n
	}
	s := strings.TrimSpace(CellText(v))
	if m := durationRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		ss, _ := strconv.Atoi(m[3])
		return Round2(float64(h) + float64(mm)/60 + float64(ss)/3600)
	}
	return CleanNumeric(s)
}

// CleanText 文本清洗
func CleanText(v any) string {
	return strings.TrimSpace(CellText(v))
}

// Round2 四舍五入到 2 位小数
func Round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
