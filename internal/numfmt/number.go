// Package numfmt 숫자 변환 및 표시 형식
package numfmt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Parse 값을 숫자로 해석한다. 숫자로 볼 수 없으면 ok=false.
// 문자열은 앞뒤 공백과 천 단위 구분자(,)를 제거한 뒤 해석한다.
func Parse(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToNumber Parse 결과, 실패 시 0
func ToNumber(v any) float64 {
	f, _ := Parse(v)
	return f
}

// IsNumeric 숫자로 해석 가능한지 여부
func IsNumeric(v any) bool {
	_, ok := Parse(v)
	return ok
}

// SafeNum NaN/Inf 를 d 로 대체
func SafeNum(v, d float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return d
	}
	return v
}

// IsBlank nil 또는 빈 문자열
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// KeyString 그룹 키 문자열화. 정수 값은 소수점 없이 표기한다.
func KeyString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
