package drilldown

import (
	"math"
	"sort"
	"strings"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
	"github.com/Kr-EIVEN/hosting-project/internal/variance"
)

// SortMode 자식 목록 정렬 기준
type SortMode string

const (
	SortAbsDiff SortMode = "absdiff" // 증감액 절대값
	SortImpact  SortMode = "impact"  // 상위 대비 기여도 절대값
	SortRate    SortMode = "rate"    // 증감률 절대값
)

// ParseSortMode 알 수 없는 값은 absdiff
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortImpact:
		return SortImpact
	case SortRate:
		return SortRate
	default:
		return SortAbsDiff
	}
}

// Parent 자식 목록 합계. 목록이 비면 0 노드.
func Parent(name string, nodes []model.DrillNode) model.DrillNode {
	var cur, prev float64
	count := 0
	for _, n := range nodes {
		cur += numfmt.SafeNum(n.Cur, 0)
		prev += numfmt.SafeNum(n.Prev, 0)
		count += n.Count
	}
	v := variance.Compute(cur, prev)
	return model.DrillNode{Name: name, Cur: cur, Prev: prev, Diff: v.Diff, Rate: v.Rate, Count: count}
}

// WithImpact 각 노드의 diff 를 자식 합계 diff 대비 백분율로 채운 사본.
// 합계 diff 가 0 이면 기여도는 0.
func WithImpact(nodes []model.DrillNode) []model.DrillNode {
	pd := Parent("", nodes).Diff
	out := make([]model.DrillNode, len(nodes))
	for i, n := range nodes {
		v := variance.Compute(n.Cur, n.Prev)
		n.Diff, n.Rate = v.Diff, v.Rate
		n.Impact = 0
		if pd != 0 {
			n.Impact = n.Diff / pd * 100
		}
		out[i] = n
	}
	return out
}

// Sort mode 기준 절대값 내림차순 안정 정렬 사본
func Sort(nodes []model.DrillNode, mode SortMode) []model.DrillNode {
	out := append([]model.DrillNode(nil), nodes...)
	key := func(n model.DrillNode) float64 {
		switch mode {
		case SortImpact:
			return math.Abs(numfmt.SafeNum(n.Impact, 0))
		case SortRate:
			return math.Abs(numfmt.SafeNum(n.Rate, 0))
		default:
			return math.Abs(numfmt.SafeNum(n.Diff, 0))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) > key(out[j])
	})
	return out
}

// Filter 이름에 query 가 포함된 노드 (대소문자 무시). 빈 query 는 전체.
func Filter(nodes []model.DrillNode, query string) []model.DrillNode {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]model.DrillNode(nil), nodes...)
	}
	out := make([]model.DrillNode, 0, len(nodes))
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Name), q) {
			out = append(out, n)
		}
	}
	return out
}
