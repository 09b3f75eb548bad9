// Package drilldown 경로 기반 손익 원인 드릴다운
package drilldown

import (
	"strings"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
	"github.com/Kr-EIVEN/hosting-project/internal/variance"
)

const (
	// Delimiter 경로 구분자
	Delimiter = ">"
	joinSep   = " " + Delimiter + " "
)

// SplitPath "A > B > C" 를 세그먼트로 나눈다. 앞뒤 공백은 자르고 빈 세그먼트는 버린다.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	raw := strings.Split(path, Delimiter)
	parts := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// JoinPath 세그먼트를 " > " 로 잇는다.
func JoinPath(parts []string) string {
	return strings.Join(parts, joinSep)
}

// NewPathItem diff/rate 를 채운 PathItem
func NewPathItem(path string, cur, prev float64) model.PathItem {
	cur = numfmt.SafeNum(cur, 0)
	prev = numfmt.SafeNum(prev, 0)
	v := variance.Compute(cur, prev)
	return model.PathItem{Path: path, Cur: cur, Prev: prev, Diff: v.Diff, Rate: v.Rate}
}

// NormalizeItems 백엔드 JSON 항목({path, cur, prev, ...})을 PathItem 으로 변환한다.
// 경로가 없는 항목은 버린다.
func NormalizeItems(raw []map[string]any) []model.PathItem {
	out := make([]model.PathItem, 0, len(raw))
	for _, r := range raw {
		if r == nil || numfmt.IsBlank(r["path"]) {
			continue
		}
		path := numfmt.KeyString(r["path"])
		if path == "" {
			continue
		}
		out = append(out, NewPathItem(path, numfmt.ToNumber(r["cur"]), numfmt.ToNumber(r["prev"])))
	}
	return out
}

// underPrefix 경로가 prefix 로 시작하고 한 단계 이상 더 깊은지
func underPrefix(parts, prefix []string) bool {
	if len(parts) <= len(prefix) {
		return false
	}
	for i, p := range prefix {
		if parts[i] != p {
			return false
		}
	}
	return true
}
