package drilldown

import (
	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// 특수 처리되는 손익 항목명
const (
	NonOpProfit  = "영업외손익"
	NonOpRevenue = "영업외수익"
	NonOpExpense = "영업외비용"
	COGSTotal    = "매출원가계"
	COGS         = "매출원가"
)

// Resolver 백엔드가 준 항목별 하위 목록(drilldowns)을 우선 쓰고,
// 없으면 경로 항목(items)에서 합산한다.
//
// 영업외손익은 영업외수익/영업외비용 두 갈래로 나누고,
// 매출원가계 아래의 매출원가 행은 중복이라 제외한다.
type Resolver struct {
	drilldowns map[string][]model.DrillNode
	items      []model.PathItem
}

// NewResolver drilldowns 는 항목명 → [{name, cur, prev}, ...] 형태의 백엔드 응답
func NewResolver(drilldowns map[string][]map[string]any, items []model.PathItem) *Resolver {
	r := &Resolver{
		drilldowns: make(map[string][]model.DrillNode, len(drilldowns)),
		items:      items,
	}
	for key, list := range drilldowns {
		nodes := make([]model.DrillNode, 0, len(list))
		for _, raw := range list {
			if raw == nil {
				continue
			}
			nodes = append(nodes, newNode(
				numfmt.KeyString(raw["name"]),
				numfmt.SafeNum(numfmt.ToNumber(raw["cur"]), 0),
				numfmt.SafeNum(numfmt.ToNumber(raw["prev"]), 0),
				0,
			))
		}
		if len(nodes) > 0 {
			r.drilldowns[key] = nodes
		}
	}
	return r
}

// Items 경로 항목
func (r *Resolver) Items() []model.PathItem {
	return r.items
}

// Children parts 마지막 항목의 자식 (|diff| 내림차순)
func (r *Resolver) Children(parts []string) []model.DrillNode {
	if len(parts) == 0 {
		return ChildrenAt(r.items, nil)
	}
	key := parts[len(parts)-1]

	if key == NonOpProfit {
		return r.nonOpChildren()
	}

	if list, ok := r.drilldowns[key]; ok {
		out := make([]model.DrillNode, 0, len(list))
		for _, n := range list {
			if key == COGSTotal && n.Name == COGS {
				continue
			}
			out = append(out, n)
		}
		sortByAbsDiff(out)
		return out
	}

	if len(r.items) == 0 {
		return []model.DrillNode{}
	}
	built := ChildrenAt(r.items, parts)
	if len(built) == 0 && isNonOpSide(key) {
		built = ChildrenAt(r.items, []string{key})
	}
	if key != COGSTotal {
		return built
	}
	out := built[:0]
	for _, n := range built {
		if n.Name != COGS {
			out = append(out, n)
		}
	}
	return out
}

// HasNext parts 아래로 더 내려갈 수 있는지
func (r *Resolver) HasNext(parts []string) bool {
	if len(parts) == 0 {
		return len(r.items) > 0
	}
	key := parts[len(parts)-1]
	if key == NonOpProfit {
		return true
	}
	if _, ok := r.drilldowns[key]; ok {
		return true
	}
	if HasDeeperLevel(r.items, parts) {
		return true
	}
	return isNonOpSide(key) && HasDeeperLevel(r.items, []string{key})
}

// 영업외수익/영업외비용 항목은 최상위 경로로 들어오기도 한다
func isNonOpSide(key string) bool {
	return key == NonOpRevenue || key == NonOpExpense
}

func (r *Resolver) nonOpChildren() []model.DrillNode {
	if list, ok := r.drilldowns[NonOpProfit]; ok {
		for _, n := range list {
			if n.Name == NonOpRevenue || n.Name == NonOpExpense {
				out := append([]model.DrillNode(nil), list...)
				sortByAbsDiff(out)
				return out
			}
		}
	}

	out := make([]model.DrillNode, 0, 2)
	for _, root := range []string{NonOpRevenue, NonOpExpense} {
		if n, ok := RootTotals(r.items, root); ok {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return []model.DrillNode{{Name: NonOpRevenue}, {Name: NonOpExpense}}
	}
	sortByAbsDiff(out)
	return out
}
