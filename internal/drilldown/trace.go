package drilldown

import (
	"math"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// DefaultTraceDepth 자동 추적 최대 단계
const DefaultTraceDepth = 10

// Source 드릴다운 자식 조회
type Source interface {
	Children(parts []string) []model.DrillNode
	HasNext(parts []string) bool
}

// TraceStep 자동 추적의 한 단계. 시작 단계의 Node 는 nil.
type TraceStep struct {
	Parts []string         `json:"parts"`
	Path  string           `json:"path"`
	Label string           `json:"label"`
	Node  *model.DrillNode `json:"node,omitempty"`
}

// AutoTrace start 에서 |diff| 가 가장 큰 자식을 따라 내려간다.
// 자식이 없거나 더 내려갈 수 없거나 maxDepth 에 닿으면 멈춘다.
func AutoTrace(src Source, start []string, maxDepth int) []TraceStep {
	if len(start) == 0 {
		return []TraceStep{}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultTraceDepth
	}

	cur := append([]string(nil), start...)
	trace := []TraceStep{{Parts: cur, Path: JoinPath(cur), Label: cur[len(cur)-1]}}

	for step := 0; step < maxDepth; step++ {
		children := src.Children(cur)
		if len(children) == 0 {
			break
		}
		top := children[0]
		for _, c := range children[1:] {
			if math.Abs(numfmt.SafeNum(c.Diff, 0)) > math.Abs(numfmt.SafeNum(top.Diff, 0)) {
				top = c
			}
		}

		next := make([]string, len(cur)+1)
		copy(next, cur)
		next[len(cur)] = top.Name

		node := top
		trace = append(trace, TraceStep{Parts: next, Path: JoinPath(next), Label: top.Name, Node: &node})

		if !src.HasNext(next) {
			break
		}
		cur = next
	}
	return trace
}

// Leaf 추적 끝 단계. 시작 단계뿐이면 ok=false.
func Leaf(trace []TraceStep) (TraceStep, bool) {
	if len(trace) <= 1 {
		return TraceStep{}, false
	}
	return trace[len(trace)-1], true
}
