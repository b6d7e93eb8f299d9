package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundMoney 金额按两位小数四舍五入（展示用）
func RoundMoney(value float64) float64 {
	f, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return f
}

// FormatMoney 按 vi-VN 习惯格式化金额：'.' 千分位，',' 小数点
func FormatMoney(value float64, places int32) string {
	s := decimal.NewFromFloat(value).StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return sign + b.String()
}

// FormatPercent 格式化百分比（0.25 -> 25,0%）
func FormatPercent(ratio float64) string {
	return FormatMoney(ratio*100, 1) + "%"
}
