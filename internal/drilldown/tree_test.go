package drilldown

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

func names(nodes []model.DrillNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"A > B > C":  {"A", "B", "C"},
		"A>B":        {"A", "B"},
		" A >> B > ": {"A", "B"},
		"":           nil,
		" > ":        {},
	}
	for in, want := range cases {
		got := SplitPath(in)
		if len(got) != len(want) || (len(want) > 0 && !reflect.DeepEqual(got, want)) {
			t.Fatalf("SplitPath(%q)=%v want %v", in, got, want)
		}
	}
	if JoinPath([]string{"A", "B"}) != "A > B" {
		t.Fatalf("JoinPath mismatch")
	}
}

func TestChildrenAt_TieKeepsEncounterOrder(t *testing.T) {
	t.Parallel()

	items := []model.PathItem{
		NewPathItem("A>B", 10, 5),
		NewPathItem("A>C", 20, 25),
	}
	got := ChildrenAt(items, []string{"A"})
	if !reflect.DeepEqual(names(got), []string{"B", "C"}) {
		t.Fatalf("order=%v", names(got))
	}
	if got[0].Diff != 5 || got[1].Diff != -5 {
		t.Fatalf("diffs=%v,%v", got[0].Diff, got[1].Diff)
	}
	if got[0].Rate != 100 || got[1].Rate != -20 {
		t.Fatalf("rates=%v,%v", got[0].Rate, got[1].Rate)
	}
}

func TestChildrenAt_AggregatesAndSorts(t *testing.T) {
	t.Parallel()

	items := []model.PathItem{
		NewPathItem("매출액 > 국내매출액 > 제품매출", 100, 90),
		NewPathItem("매출액 > 국내매출액 > 상품매출", 10, 40),
		NewPathItem("매출액 > 수출매출액 > 제품매출", 300, 200),
		NewPathItem("매출액", 999, 0),
		NewPathItem("판관비 > 급여", 5, 5),
	}
	got := ChildrenAt(items, []string{"매출액"})
	if !reflect.DeepEqual(names(got), []string{"수출매출액", "국내매출액"}) {
		t.Fatalf("order=%v", names(got))
	}
	if got[1].Cur != 110 || got[1].Prev != 130 || got[1].Count != 2 {
		t.Fatalf("domestic=%+v", got[1])
	}

	roots := ChildrenAt(items, nil)
	if !reflect.DeepEqual(names(roots), []string{"매출액", "판관비"}) {
		t.Fatalf("roots=%v", names(roots))
	}
	if roots[0].Count != 4 {
		t.Fatalf("root count=%d", roots[0].Count)
	}

	if got := ChildrenAt(items, []string{"없음"}); len(got) != 0 {
		t.Fatalf("expected no children, got %v", got)
	}
}

func TestChildrenAt_CompletenessAndOrdering(t *testing.T) {
	t.Parallel()

	items := []model.PathItem{
		NewPathItem("R > a > x", 1, 3),
		NewPathItem("R > b", 7, 1),
		NewPathItem("R > a > y", 4, 0),
		NewPathItem("R>c>z>w", -2, 2),
		NewPathItem("S > a", 100, 0),
		NewPathItem("R", 50, 50),
	}
	for _, prefix := range [][]string{nil, {"R"}, {"R", "a"}, {"R", "c"}, {"S"}} {
		nodes := ChildrenAt(items, prefix)

		var sumNodes, sumItems float64
		for _, n := range nodes {
			sumNodes += n.Cur
		}
		for _, it := range items {
			if underPrefix(SplitPath(it.Path), prefix) {
				sumItems += it.Cur
			}
		}
		if sumNodes != sumItems {
			t.Fatalf("prefix %v: sum nodes=%v items=%v", prefix, sumNodes, sumItems)
		}
		for i := 1; i < len(nodes); i++ {
			if math.Abs(nodes[i-1].Diff) < math.Abs(nodes[i].Diff) {
				t.Fatalf("prefix %v not sorted: %v", prefix, nodes)
			}
		}
		if HasDeeperLevel(items, prefix) != (len(nodes) > 0) {
			t.Fatalf("prefix %v: HasDeeperLevel disagrees with ChildrenAt", prefix)
		}
	}
}

func TestHasDeeperLevel(t *testing.T) {
	t.Parallel()

	items := []model.PathItem{NewPathItem("A > B", 1, 1)}
	if !HasDeeperLevel(items, []string{"A"}) {
		t.Fatalf("A should be drillable")
	}
	if HasDeeperLevel(items, []string{"A", "B"}) {
		t.Fatalf("A > B is a leaf")
	}
	if HasDeeperLevel(nil, nil) {
		t.Fatalf("no items, no levels")
	}
}

func TestRootTotals(t *testing.T) {
	t.Parallel()

	items := []model.PathItem{
		NewPathItem("영업외수익 > 이자수익", 10, 4),
		NewPathItem("영업외수익", 1, 1),
		NewPathItem("영업외비용 > 이자비용", 3, 3),
	}
	n, ok := RootTotals(items, "영업외수익")
	if !ok || n.Cur != 11 || n.Prev != 5+1 || n.Diff != 5 || n.Count != 2 {
		t.Fatalf("unexpected totals: %+v ok=%v", n, ok)
	}
	if _, ok := RootTotals(items, "없음"); ok {
		t.Fatalf("missing root should report ok=false")
	}
}

func TestNormalizeItems(t *testing.T) {
	t.Parallel()

	raw := []map[string]any{
		{"path": "A > B", "cur": 10.0, "prev": "4"},
		{"path": "", "cur": 1.0},
		{"cur": 1.0},
		nil,
		{"path": "C", "cur": "x"},
	}
	got := NormalizeItems(raw)
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Diff != 6 || got[0].Rate != 150 {
		t.Fatalf("item0=%+v", got[0])
	}
	if got[1].Cur != 0 || got[1].Prev != 0 || got[1].Rate != 0 {
		t.Fatalf("item1=%+v", got[1])
	}
}

func TestViewHelpers(t *testing.T) {
	t.Parallel()

	nodes := []model.DrillNode{
		{Name: "Alpha", Cur: 30, Prev: 10},
		{Name: "beta", Cur: 0, Prev: 10},
		{Name: "Gamma", Cur: 15, Prev: 10},
	}
	withImpact := WithImpact(nodes)
	// 합계 diff = 20 - 10 + 5 = 15
	if math.Abs(withImpact[0].Impact-20.0/15*100) > 1e-9 || math.Abs(withImpact[1].Impact+10.0/15*100) > 1e-9 {
		t.Fatalf("impact=%v,%v", withImpact[0].Impact, withImpact[1].Impact)
	}
	if nodes[0].Impact != 0 {
		t.Fatalf("WithImpact must not mutate input")
	}

	byRate := Sort(withImpact, SortRate)
	if !reflect.DeepEqual(names(byRate), []string{"Alpha", "beta", "Gamma"}) {
		t.Fatalf("rate order=%v", names(byRate))
	}
	byDiff := Sort(withImpact, ParseSortMode("bogus"))
	if !reflect.DeepEqual(names(byDiff), []string{"Alpha", "beta", "Gamma"}) {
		t.Fatalf("diff order=%v", names(byDiff))
	}
	byImpact := Sort(withImpact, ParseSortMode(" IMPACT "))
	if byImpact[0].Name != "Alpha" || byImpact[2].Name != "Gamma" {
		t.Fatalf("impact order=%v", names(byImpact))
	}

	if got := Filter(nodes, "  ALP "); len(got) != 1 || got[0].Name != "Alpha" {
		t.Fatalf("filter=%v", names(got))
	}
	if got := Filter(nodes, ""); len(got) != 3 {
		t.Fatalf("empty query should keep all")
	}

	zero := WithImpact([]model.DrillNode{{Name: "a", Cur: 5, Prev: 0}, {Name: "b", Cur: 0, Prev: 5}})
	if zero[0].Impact != 0 || zero[1].Impact != 0 {
		t.Fatalf("zero parent diff should give zero impact: %+v", zero)
	}
}

func TestMissingChildren(t *testing.T) {
	t.Parallel()

	got := MissingChildren("매출액", []model.DrillNode{{Name: "국내매출액"}})
	if !reflect.DeepEqual(got, []string{"수출매출액"}) {
		t.Fatalf("missing=%v", got)
	}
	if got := MissingChildren("정의없음", nil); len(got) != 0 {
		t.Fatalf("unknown label should have nothing missing: %v", got)
	}
	got = MissingChildren("영업외손익", nil)
	if strings.Join(got, ",") != "영업외수익,영업외비용" {
		t.Fatalf("missing=%v", got)
	}
}
