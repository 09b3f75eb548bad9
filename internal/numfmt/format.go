package numfmt

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const placeholder = "-"

var printer = message.NewPrinter(language.Korean)

// Round 소수 places 자리 반올림 (0.5 는 0 에서 멀어지는 쪽)
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(SafeNum(v, 0)).Round(places).Float64()
	return f
}

// Number 정수로 반올림 후 천 단위 구분 (예: 1,234,568). 해석 불가면 "-".
func Number(v any) string {
	f, ok := Parse(v)
	if !ok {
		return placeholder
	}
	return grouped(f)
}

// Signed 양수에 "+" 를 붙인 Number
func Signed(v float64) string {
	if math.IsNaN(v) {
		return placeholder
	}
	s := grouped(v)
	if v > 0 && s != "0" {
		return "+" + s
	}
	return s
}

// Rate 부호 포함 소수 1자리 퍼센트 (예: +12.3%)
func Rate(v float64) string {
	if math.IsNaN(v) {
		return placeholder
	}
	s := decimal.NewFromFloat(SafeNum(v, 0)).StringFixed(1)
	if v > 0 {
		s = "+" + s
	}
	return s + "%"
}

func grouped(f float64) string {
	n := decimal.NewFromFloat(SafeNum(f, 0)).Round(0).IntPart()
	return printer.Sprintf("%d", n)
}
