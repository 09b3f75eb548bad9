package months

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

const (
	// TopGroups 계정군 비중에서 따로 보여주는 개수
	TopGroups = 5
	// TopCenters 코스트센터 순위 개수
	TopCenters = 5

	otherLabel = "기타"
)

// NamedValue 이름별 금액
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// 계정명 앞 "(X)" 표시로 정하는 계정군
var accountMarkGroups = map[string]string{
	"제": "제조원가(제)",
	"판": "판관비(판)",
	"영": "영업비용(영)",
	"연": "연구개발비(연)",
}

// AccountGroupOf 계정군 컬럼이 있으면 그 값, 없으면 계정명 접두사로 판단
func AccountGroupOf(row model.FlatRow, cols CostColumns) string {
	if cols.AccountGroup != "" {
		v := row[cols.AccountGroup]
		if numfmt.IsBlank(v) {
			return otherLabel
		}
		if s := numfmt.KeyString(v); s != "" {
			return s
		}
		return otherLabel
	}
	if cols.AccountName == "" {
		return otherLabel
	}
	name := ""
	if v := row[cols.AccountName]; !numfmt.IsBlank(v) {
		name = numfmt.KeyString(v)
	}
	return groupFromMark(name)
}

func groupFromMark(name string) string {
	const fallback = "기타(기)"
	if !strings.HasPrefix(name, "(") {
		return fallback
	}
	rest := []rune(name[1:])
	if len(rest) < 2 || rest[1] != ')' {
		return fallback
	}
	if g, ok := accountMarkGroups[string(rest[0])]; ok {
		return g
	}
	return fallback
}

// AccountGroupShare 선택 월 금액 절대값을 계정군별로 합산해 상위 5개와 나머지("기타")로 돌려준다.
func AccountGroupShare(rows []model.FlatRow, columns []string, meta model.MonthMeta) []NamedValue {
	cols := DetectCostColumns(columns)

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range rows {
		num, ok := numfmt.Parse(row[meta.Col])
		if !ok || num == 0 {
			continue
		}
		group := AccountGroupOf(row, cols)
		if _, seen := totals[group]; !seen {
			order = append(order, group)
		}
		totals[group] += math.Abs(num)
	}

	entries := lo.FilterMap(order, func(name string, _ int) (NamedValue, bool) {
		return NamedValue{Name: name, Value: totals[name]}, totals[name] != 0
	})
	if len(entries) == 0 {
		return []NamedValue{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	out := entries[:min(TopGroups, len(entries))]
	if rest := entries[len(out):]; len(rest) > 0 {
		etc := lo.SumBy(rest, func(v NamedValue) float64 { return v.Value })
		out = append(out[:len(out):len(out)], NamedValue{Name: otherLabel, Value: etc})
	}
	return lo.Map(out, func(v NamedValue, _ int) NamedValue {
		v.Value = numfmt.Round(v.Value, 0)
		return v
	})
}

// TopCostCenters 선택 월 금액을 코스트센터명(없으면 코드)별로 합산한 상위 n개
func TopCostCenters(rows []model.FlatRow, columns []string, meta model.MonthMeta, n int) []NamedValue {
	if n <= 0 {
		n = TopCenters
	}
	cols := DetectCostColumns(columns)

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range rows {
		amount := numfmt.ToNumber(row[meta.Col])
		if amount == 0 {
			continue
		}
		name := costCenterOf(row, cols)
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += amount
	}

	out := lo.Map(order, func(name string, _ int) NamedValue {
		return NamedValue{Name: name, Value: numfmt.Round(totals[name], 0)}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out[:min(n, len(out))]
}

func costCenterOf(row model.FlatRow, cols CostColumns) string {
	for _, col := range []string{cols.CostCenterName, cols.CostCenterCode} {
		if col == "" {
			continue
		}
		v := row[col]
		if numfmt.IsBlank(v) {
			continue
		}
		if f, ok := v.(float64); ok && f == 0 {
			continue
		}
		return numfmt.KeyString(v)
	}
	return otherLabel
}
