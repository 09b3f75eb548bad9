package drilldown

import "github.com/Kr-EIVEN/hosting-project/internal/model"

// Level 한 드릴다운 단계의 화면 데이터
type Level struct {
	Parts    []string          `json:"parts"`
	Path     string            `json:"path"`
	Label    string            `json:"label"`
	Parent   model.DrillNode   `json:"parent"`
	Children []model.DrillNode `json:"children"`
	Missing  []string          `json:"missing"`

	// 영업외손익 단계에서만 채운다
	NonOpRevenue []model.DrillNode `json:"nonOpRevenue,omitempty"`
	NonOpExpense []model.DrillNode `json:"nonOpExpense,omitempty"`
}

// BuildLevel parts 단계의 자식을 기여도 계산, 검색, 정렬까지 마쳐서 돌려준다.
// Parent 와 Missing 은 검색 전 전체 자식 기준.
func BuildLevel(src Source, parts []string, query string, mode SortMode) Level {
	lv := Level{Parts: append([]string{}, parts...), Path: JoinPath(parts)}
	if len(parts) > 0 {
		lv.Label = parts[len(parts)-1]
	}

	raw := src.Children(parts)
	lv.Parent = Parent(lv.Label, raw)
	lv.Missing = MissingChildren(lv.Label, raw)

	nodes := Filter(WithImpact(raw), query)
	if lv.Label == NonOpProfit {
		kept := nodes[:0]
		for _, n := range nodes {
			if n.Name != NonOpRevenue && n.Name != NonOpExpense {
				kept = append(kept, n)
			}
		}
		nodes = kept
		lv.NonOpRevenue = section(src, parts, NonOpRevenue)
		lv.NonOpExpense = section(src, parts, NonOpExpense)
	}
	lv.Children = markNext(src, parts, Sort(nodes, mode))
	return lv
}

func section(src Source, parts []string, name string) []model.DrillNode {
	sub := append(append([]string{}, parts...), name)
	list := Sort(src.Children(sub), SortAbsDiff)
	return markNext(src, sub, list)
}

func markNext(src Source, parts []string, nodes []model.DrillNode) []model.DrillNode {
	for i := range nodes {
		next := append(append([]string{}, parts...), nodes[i].Name)
		nodes[i].HasNext = src.HasNext(next)
	}
	return nodes
}
