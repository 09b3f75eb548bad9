// Package forecast 결산 실적 시계열 정규화와 예측 시나리오 영향도 계산
package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// 예측 기간 (개월)
const (
	DefaultMonths = 12
	MaxMonths     = 120
)

// 예측 행의 손익 항목 키
const (
	KeySales           = "매출액"
	KeyCOGS            = "매출원가"
	KeyOperatingIncome = "영업이익"
)

// Drivers 시나리오로 조정할 수 있는 주요 비용 드라이버
var Drivers = []string{"원재료비", "부재료비(전체)", "급여(전체)", "판관비(전체)"}

// 백엔드 버전마다 실적 행의 키 이름이 다르다 (앞쪽 우선)
var (
	yearKeys  = []string{"year", "연도", "년도"}
	monthKeys = []string{"month", "월"}
	salesKeys = []string{"sales", KeySales}
	cogsKeys  = []string{"cogs", "매출원가계", KeyCOGS}
	opKeys    = []string{"op", KeyOperatingIncome}
)

// ClampMonths 0 이하는 기본값, 최대 MaxMonths
func ClampMonths(n int) int {
	if n <= 0 {
		return DefaultMonths
	}
	return min(n, MaxMonths)
}

// HistoryPoint 월별 실적
type HistoryPoint struct {
	Label           string  `json:"label"` // YYYY-MM
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Sales           float64 `json:"sales"`
	COGS            float64 `json:"cogs"`
	OperatingIncome float64 `json:"operatingIncome"`
}

// NormalizeHistory 키 이름이 제각각인 실적 행을 HistoryPoint 로 맞춘다.
// 연도나 월이 없거나 0 인 행은 버리고, 금액이 숫자가 아니면 0.
func NormalizeHistory(rows []map[string]any) []HistoryPoint {
	out := make([]HistoryPoint, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		year := int(numfmt.ToNumber(first(r, yearKeys)))
		month := int(numfmt.ToNumber(first(r, monthKeys)))
		if year == 0 || month == 0 {
			continue
		}
		out = append(out, HistoryPoint{
			Label:           fmt.Sprintf("%d-%02d", year, month),
			Year:            year,
			Month:           month,
			Sales:           numfmt.ToNumber(first(r, salesKeys)),
			COGS:            numfmt.ToNumber(first(r, cogsKeys)),
			OperatingIncome: numfmt.ToNumber(first(r, opKeys)),
		})
	}
	return out
}

// first 값이 있는 첫 키의 값
func first(r map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// ScenarioInput 드라이버별 증감률 입력 (%)
type ScenarioInput struct {
	Driver  string  `json:"driver"`
	Percent float64 `json:"percent"`
}

// Driver 적용할 드라이버와 비율 (200% -> 2.0)
type Driver struct {
	Key  string  `json:"key"`
	Rate float64 `json:"rate"`
}

// BuildScenario 0 이 아닌 입력만 남겨 백엔드 시나리오 맵과 드라이버 목록을 만든다.
// 같은 드라이버가 여러 번 오면 마지막 값을 쓰고 순서는 처음 나온 자리.
func BuildScenario(inputs []ScenarioInput) (map[string]float64, []Driver) {
	scenario := make(map[string]float64)
	drivers := make([]Driver, 0, len(inputs))
	pos := make(map[string]int)
	for _, in := range inputs {
		if in.Driver == "" || in.Percent == 0 || math.IsNaN(in.Percent) || math.IsInf(in.Percent, 0) {
			continue
		}
		rate := in.Percent / 100
		scenario[in.Driver] = rate
		if i, ok := pos[in.Driver]; ok {
			drivers[i].Rate = rate
			continue
		}
		pos[in.Driver] = len(drivers)
		drivers = append(drivers, Driver{Key: in.Driver, Rate: rate})
	}
	return scenario, drivers
}

// LastOperatingIncome 마지막 예측 월의 영업이익. 없으면 0.
func LastOperatingIncome(predictions []map[string]any) float64 {
	if len(predictions) == 0 {
		return 0
	}
	return numfmt.ToNumber(predictions[len(predictions)-1][KeyOperatingIncome])
}

// Impact 드라이버 하나만 적용했을 때 마지막 달 영업이익 변화
type Impact struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Diff  float64 `json:"diff"`
	Rate  float64 `json:"rate"`  // 기준 대비 %, 기준이 0 이면 0
	Level float64 `json:"level"` // 100 + Rate
}

// RankImpacts drivers[i] 만 적용한 결과의 마지막 달 영업이익이 lastOps[i] 일 때
// 기준 대비 영향도를 |Rate| 내림차순으로 돌려준다. 동률은 입력 순서.
func RankImpacts(baseLastOp float64, drivers []Driver, lastOps []float64) []Impact {
	out := make([]Impact, 0, len(drivers))
	denom := math.Abs(baseLastOp)
	for i, d := range drivers {
		var op float64
		if i < len(lastOps) {
			op = lastOps[i]
		}
		diff := op - baseLastOp
		var rate float64
		if denom != 0 {
			rate = diff / denom * 100
		}
		out = append(out, Impact{Key: d.Key, Name: d.Key, Diff: diff, Rate: rate, Level: 100 + rate})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Rate) > math.Abs(out[j].Rate)
	})
	return out
}
