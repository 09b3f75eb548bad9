package drilldown

import (
	"math"
	"sort"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
	"github.com/Kr-EIVEN/hosting-project/internal/variance"
)

type accum struct {
	cur   float64
	prev  float64
	count int
}

// ChildrenAt prefix 바로 아래 단계의 자식 노드를 합산한다.
//
// 경로가 prefix 와 세그먼트 단위로 일치하고 더 깊은 항목만 대상이며,
// 자식 이름(prefix 다음 세그먼트)별로 cur/prev 를 더한다.
// |diff| 내림차순 안정 정렬이라 동률은 items 에서 처음 나온 순서를 유지한다.
func ChildrenAt(items []model.PathItem, prefix []string) []model.DrillNode {
	depth := len(prefix)
	groups := make(map[string]*accum)
	order := make([]string, 0)

	for _, it := range items {
		parts := SplitPath(it.Path)
		if !underPrefix(parts, prefix) {
			continue
		}
		child := parts[depth]
		a, ok := groups[child]
		if !ok {
			a = &accum{}
			groups[child] = a
			order = append(order, child)
		}
		a.cur += numfmt.SafeNum(it.Cur, 0)
		a.prev += numfmt.SafeNum(it.Prev, 0)
		a.count++
	}

	nodes := make([]model.DrillNode, 0, len(order))
	for _, name := range order {
		a := groups[name]
		nodes = append(nodes, newNode(name, a.cur, a.prev, a.count))
	}
	sortByAbsDiff(nodes)
	return nodes
}

// HasDeeperLevel prefix 아래에 항목이 하나라도 있으면 true
func HasDeeperLevel(items []model.PathItem, prefix []string) bool {
	for _, it := range items {
		if underPrefix(SplitPath(it.Path), prefix) {
			return true
		}
	}
	return false
}

// RootTotals 첫 세그먼트가 root 인 항목 합계. 해당 항목이 없으면 ok=false.
func RootTotals(items []model.PathItem, root string) (model.DrillNode, bool) {
	var a accum
	for _, it := range items {
		parts := SplitPath(it.Path)
		if len(parts) == 0 || parts[0] != root {
			continue
		}
		a.cur += numfmt.SafeNum(it.Cur, 0)
		a.prev += numfmt.SafeNum(it.Prev, 0)
		a.count++
	}
	if a.count == 0 {
		return model.DrillNode{}, false
	}
	return newNode(root, a.cur, a.prev, a.count), true
}

func newNode(name string, cur, prev float64, count int) model.DrillNode {
	v := variance.Compute(cur, prev)
	return model.DrillNode{
		Name:  name,
		Cur:   cur,
		Prev:  prev,
		Diff:  v.Diff,
		Rate:  v.Rate,
		Count: count,
	}
}

func sortByAbsDiff(nodes []model.DrillNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return math.Abs(nodes[i].Diff) > math.Abs(nodes[j].Diff)
	})
}
