package pl

import (
	"sort"
	"strings"
	"unicode"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// PeriodAll 기간 필터 해제
const PeriodAll = "all"

// GroupOptions 집계 설정
type GroupOptions struct {
	PeriodColumn string
	Sets         ColumnSets
}

// DefaultGroupOptions 기본 기간 컬럼 + 기본 계정 묶음
func DefaultGroupOptions() GroupOptions {
	return GroupOptions{
		PeriodColumn: DefaultPeriodColumn,
		Sets:         DefaultColumnSets(),
	}
}

type bucket struct {
	name     string
	sales    float64
	cogs     float64
	sga      float64
	nonOpRev float64
	nonOpExp float64
	tax      float64
}

// GroupByDimension dimColumn 기준으로 손익을 집계해 매출액 내림차순으로 돌려준다.
// 입력이 비었거나 필터 후 남는 행이 없으면 빈 슬라이스.
func GroupByDimension(rows []model.FlatRow, dimColumn, period string, codeNames model.CodeNameMap, opts GroupOptions) []model.GroupedRow {
	if len(rows) == 0 || dimColumn == "" {
		return []model.GroupedRow{}
	}

	filtered := FilterPeriod(rows, opts.PeriodColumn, period)
	if len(filtered) == 0 {
		return []model.GroupedRow{}
	}

	groups := make(map[string]*bucket)
	order := make([]string, 0)

	for _, row := range filtered {
		name := DisplayName(GroupKey(row, dimColumn), codeNames)

		g, ok := groups[name]
		if !ok {
			g = &bucket{name: name}
			groups[name] = g
			order = append(order, name)
		}

		g.sales += SumColumns(row, opts.Sets.Sales)
		g.cogs += SumColumns(row, opts.Sets.COGS)
		g.sga += SumColumns(row, opts.Sets.SGA)
		g.nonOpRev += SumColumns(row, opts.Sets.NonOpRev)
		g.nonOpExp += SumColumns(row, opts.Sets.NonOpExp)
		g.tax += SumColumns(row, opts.Sets.Tax)
	}

	out := make([]model.GroupedRow, 0, len(order))
	for _, name := range order {
		out = append(out, derive(groups[name]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sales > out[j].Sales
	})
	return out
}

// FilterPeriod 기간 컬럼 값이 period 와 숫자로 같은 행만 남긴다.
// period 가 "all" 또는 빈 값이면 그대로 돌려준다.
func FilterPeriod(rows []model.FlatRow, periodColumn, period string) []model.FlatRow {
	if period == "" || period == PeriodAll {
		return rows
	}
	target, ok := numfmt.Parse(period)
	if !ok {
		return nil
	}
	out := make([]model.FlatRow, 0, len(rows))
	for _, row := range rows {
		v, ok := numfmt.Parse(row[periodColumn])
		if ok && v == target {
			out = append(out, row)
		}
	}
	return out
}

// GroupKey 분류 키. 비어 있으면 "(미지정)".
func GroupKey(row model.FlatRow, dimColumn string) string {
	v := row[dimColumn]
	if numfmt.IsBlank(v) {
		return model.Unspecified
	}
	return numfmt.KeyString(v)
}

// DisplayName 코드분류표로 표시명을 정한다.
// 정확히 일치하면 내역, 첫 토큰("/" 또는 공백 앞)이 일치하면 "내역 (원래키)", 아니면 키 그대로.
func DisplayName(key string, codeNames model.CodeNameMap) string {
	if len(codeNames) == 0 {
		return key
	}
	if name := codeNames[key]; name != "" {
		return name
	}
	if name := codeNames[firstToken(key)]; name != "" {
		return name + " (" + key + ")"
	}
	return key
}

func firstToken(key string) string {
	idx := strings.IndexFunc(key, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
	if idx < 0 {
		return key
	}
	return key[:idx]
}

func derive(g *bucket) model.GroupedRow {
	grossProfit := g.sales - g.cogs
	operatingIncome := g.sales - g.cogs - g.sga
	nonOpProfit := g.nonOpRev - g.nonOpExp
	preTax := operatingIncome + nonOpProfit
	netIncome := preTax - g.tax

	var opMargin, netMargin float64
	if g.sales != 0 {
		opMargin = operatingIncome / g.sales * 100
		netMargin = netIncome / g.sales * 100
	}

	return model.GroupedRow{
		Name:            g.name,
		Sales:           g.sales,
		COGS:            g.cogs,
		GrossProfit:     grossProfit,
		SGA:             g.sga,
		OperatingIncome: operatingIncome,
		NonOpRev:        g.nonOpRev,
		NonOpExp:        g.nonOpExp,
		NonOpProfit:     nonOpProfit,
		Tax:             g.tax,
		PreTax:          preTax,
		NetIncome:       netIncome,
		OpMargin:        opMargin,
		NetMargin:       netMargin,
	}
}
