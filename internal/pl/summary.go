package pl

import (
	"sort"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

// Summary 전체 합계
type Summary struct {
	Sales       float64 `json:"sales"`
	COGS        float64 `json:"cogs"`
	SGA         float64 `json:"sga"`
	NonOpRev    float64 `json:"nonOpRev"`
	NonOpExp    float64 `json:"nonOpExp"`
	NonOpProfit float64 `json:"nonOpProfit"`
	Tax         float64 `json:"tax"`
	PreTax      float64 `json:"preTax"`
	NetIncome   float64 `json:"netIncome"`
}

// Summarize 집계 행 합계. 행이 없으면 nil.
func Summarize(rows []model.GroupedRow) *Summary {
	if len(rows) == 0 {
		return nil
	}
	s := &Summary{}
	for _, r := range rows {
		s.Sales += r.Sales
		s.COGS += r.COGS
		s.SGA += r.SGA
		s.NonOpRev += r.NonOpRev
		s.NonOpExp += r.NonOpExp
		s.NonOpProfit += r.NonOpProfit
		s.Tax += r.Tax
		s.PreTax += r.PreTax
		s.NetIncome += r.NetIncome
	}
	return s
}

// WaterfallStep 워터폴 차트 한 단계 (Start 는 직전까지의 누계)
type WaterfallStep struct {
	Name   string  `json:"name"`
	Start  float64 `json:"start"`
	Amount float64 `json:"amount"`
}

// Waterfall 매출액에서 당기순이익까지의 단계
func Waterfall(s *Summary) []WaterfallStep {
	if s == nil {
		return []WaterfallStep{}
	}
	labels := []string{"매출액", "매출원가", "판관비", "영업외손익", "법인세비용", "당기순이익"}
	values := []float64{s.Sales, -s.COGS, -s.SGA, s.NonOpProfit, -s.Tax, s.NetIncome}

	steps := make([]WaterfallStep, 0, len(labels))
	var cumulative float64
	for i, name := range labels {
		steps = append(steps, WaterfallStep{Name: name, Start: cumulative, Amount: values[i]})
		cumulative += values[i]
	}
	return steps
}

const (
	rankingTop    = 5
	rankingBottom = 3
)

// MarginRanking 매출이 있는 행을 영업이익률 내림차순으로 정렬해 상위 5 + 하위 3.
// 행이 적으면 상위와 하위가 겹칠 수 있다.
func MarginRanking(rows []model.GroupedRow) []model.GroupedRow {
	valid := make([]model.GroupedRow, 0, len(rows))
	for _, r := range rows {
		if r.Sales > 0 {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return []model.GroupedRow{}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].OpMargin > valid[j].OpMargin
	})

	top := valid[:min(rankingTop, len(valid))]
	bottom := valid[max(0, len(valid)-rankingBottom):]

	out := make([]model.GroupedRow, 0, len(top)+len(bottom))
	out = append(out, top...)
	out = append(out, bottom...)
	return out
}

const salesTop = 10

// bySalesDesc 매출액 내림차순 복사본 (동률은 입력 순서)
func bySalesDesc(rows []model.GroupedRow) []model.GroupedRow {
	sorted := append([]model.GroupedRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sales > sorted[j].Sales
	})
	return sorted
}

// TopSales 매출액 상위 10개
func TopSales(rows []model.GroupedRow) []model.GroupedRow {
	if len(rows) == 0 {
		return []model.GroupedRow{}
	}
	sorted := bySalesDesc(rows)
	return sorted[:min(salesTop, len(sorted))]
}

// StructureItem 손익 구조 한 항목
type StructureItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// UnitStructure 한 단위의 매출액부터 당기순이익까지
type UnitStructure struct {
	Name  string          `json:"name"`
	Items []StructureItem `json:"items"`
}

// TopUnitStructure 매출액 1위 단위의 손익 구조. 행이 없으면 nil.
func TopUnitStructure(rows []model.GroupedRow) *UnitStructure {
	if len(rows) == 0 {
		return nil
	}
	top := bySalesDesc(rows)[0]
	return &UnitStructure{
		Name: top.Name,
		Items: []StructureItem{
			{Label: "매출액", Value: top.Sales},
			{Label: "매출원가", Value: top.COGS},
			{Label: "판관비", Value: top.SGA},
			{Label: "영업이익", Value: top.OperatingIncome},
			{Label: "영업외손익", Value: top.NonOpProfit},
			{Label: "법인세비용", Value: top.Tax},
			{Label: "당기순이익", Value: top.NetIncome},
		},
	}
}

// Report P&L 화면 한 번에 필요한 파생 데이터
type Report struct {
	Dimension Dimension          `json:"dimension"`
	Period    string             `json:"period"`
	Periods   []string           `json:"periods"`
	Rows      []model.GroupedRow `json:"rows"`
	Summary   *Summary           `json:"summary"`
	Waterfall []WaterfallStep    `json:"waterfall"`
	Ranking   []model.GroupedRow `json:"ranking"`
	TopSales  []model.GroupedRow `json:"topSales"`
	TopUnit   *UnitStructure     `json:"topUnit"`
}

// BuildReport 집계/합계/워터폴/랭킹/매출 상위를 한 번에 계산
func BuildReport(rows []model.FlatRow, dim Dimension, period string, codeNames model.CodeNameMap, opts GroupOptions) *Report {
	if period == "" {
		period = PeriodAll
	}
	grouped := GroupByDimension(rows, dim.Column, period, codeNames, opts)
	summary := Summarize(grouped)
	return &Report{
		Dimension: dim,
		Period:    period,
		Periods:   AvailablePeriods(rows, opts.PeriodColumn),
		Rows:      grouped,
		Summary:   summary,
		Waterfall: Waterfall(summary),
		Ranking:   MarginRanking(grouped),
		TopSales:  TopSales(grouped),
		TopUnit:   TopUnitStructure(grouped),
	}
}
