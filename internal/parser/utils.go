package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var reMultiSpace = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名：去除 BOM、换行、首尾空白，压缩连续空白。
// 大小写保持不变（别名匹配大小写敏感）。
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = reMultiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// CellString 单元格值转字符串
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseEarning 解析收益值：空 -> 0；数值原样返回；字符串去掉千分位逗号后按小数解析；
// 无法解析 -> 0，从不报错。
func ParseEarning(v any) float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		s = strings.ReplaceAll(s, ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// 文本日期格式（按顺序尝试）；斜杠日期按 月/日/年 解析
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Excel 序列日期的合理区间（1954 ~ 2119），避免把普通数字误判为日期
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseDate 解析日期文本；不可解析时返回 false（该行日期视为缺失）
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}

	if serial, err := strconv.ParseFloat(text, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDate Excel 序列日期转换为本地化日期字符串；文本日期原样返回
func DisplayDate(text, layout string) string {
	trimmed := strings.TrimSpace(text)
	serial, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || serial < minExcelSerial || serial > maxExcelSerial {
		return text
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return text
	}
	return FormatDate(t, layout)
}

// FormatDate 按本地化格式输出日期
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.Format(layout)
}

// DefaultDateLayout vi-VN 的日期格式（日/月/年）
const DefaultDateLayout = "02/01/2006"
