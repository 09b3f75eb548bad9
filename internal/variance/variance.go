// Package variance 당기/전기 증감 계산
package variance

import (
	"math"

	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// Epsilon 이 값보다 작은 절대값은 0 으로 본다.
const Epsilon = 1e-12

// Result 증감액과 증감률(%)
type Result struct {
	Diff float64 `json:"diff"`
	Rate float64 `json:"rate"`
}

// Compute cur - prev 와 증감률을 계산한다.
//
// 전기가 0 이면 증감이 없을 때 0, 늘었으면 +100, 줄었으면 -100 을 돌려준다.
// 그 외에는 diff / |prev| * 100 이라 전기가 음수여도 부호가 뒤집히지 않는다.
func Compute(cur, prev float64) Result {
	c := numfmt.SafeNum(cur, 0)
	p := numfmt.SafeNum(prev, 0)
	d := c - p
	return Result{Diff: d, Rate: rateOf(d, p)}
}

func rateOf(diff, prev float64) float64 {
	if math.Abs(prev) < Epsilon {
		if math.Abs(diff) < Epsilon {
			return 0
		}
		if diff > 0 {
			return 100
		}
		return -100
	}
	return diff / math.Abs(prev) * 100
}
