// Package closing 결산 점검 목록
package closing

import (
	"fmt"
	"math"
	"sort"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// Status 점검 상태
type Status string

const (
	StatusIssue Status = "issue"
	StatusCheck Status = "check"
	StatusOK    Status = "ok"
)

func (s Status) rank() int {
	switch s {
	case StatusIssue:
		return 0
	case StatusCheck:
		return 1
	default:
		return 2
	}
}

const (
	// MaxHeuristicRows 원장 기반 점검 결과 최대 행 수
	MaxHeuristicRows = 30
	// MaxIssueRows 백엔드 이상 탐지 결과 최대 행 수
	MaxIssueRows = 50

	checkRate = 0.5
	okRate    = 0.1
)

// Point 월별 금액
type Point struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Row 점검 목록 한 줄
type Row struct {
	ID          int     `json:"id"`
	Key         string  `json:"key"`
	Month       string  `json:"month"`
	AccountCode string  `json:"accountCode"`
	AccountName string  `json:"accountName"`
	CostCenter  string  `json:"costCenter"`
	Amount      float64 `json:"amount"`
	Status      Status  `json:"status"`
	Reason      string  `json:"reason"`

	// 백엔드 이상 탐지 결과에만 있는 값
	IssueType    string   `json:"issueType,omitempty"`
	Severity     int      `json:"severity,omitempty"`
	PatternMean  *float64 `json:"patternMean,omitempty"`
	PatternUpper *float64 `json:"patternUpper,omitempty"`
	PatternLower *float64 `json:"patternLower,omitempty"`
}

// Result 점검 목록과 키별 월 추이
type Result struct {
	Source  string             `json:"source"` // heuristic / backend
	Rows    []Row              `json:"rows"`
	History map[string][]Point `json:"history"`
}

func emptyResult(source string) *Result {
	return &Result{Source: source, Rows: []Row{}, History: map[string][]Point{}}
}

type series struct {
	key         string
	accountCode string
	accountName string
	costCenter  string
	values      []float64
}

// Analyze 비용 원장을 (계정코드, 계정명, 코스트센터) 단위 월 시계열로 묶어 마지막 월을 점검한다.
//
//   - 마지막 월이 0 인데 이전 평균이 양수면 issue
//   - 전월 대비 변동률이 ±50% 이상이면 check
//   - ±10% 이내면 ok
//
// 그 사이 구간은 목록에서 빠진다.
func Analyze(rows []model.FlatRow, columns []string, metas []model.MonthMeta) *Result {
	res := emptyResult("heuristic")
	if len(rows) == 0 || len(metas) == 0 {
		return res
	}

	cols := months.DetectCostColumns(columns)
	byKey := make(map[string]*series)
	order := make([]string, 0)

	for _, row := range rows {
		code := text(row, cols.AccountCode)
		name := text(row, cols.AccountName)
		cc := text(row, cols.CostCenterName)
		key := code + "|" + name + "|" + cc

		s, ok := byKey[key]
		if !ok {
			s = &series{
				key:         key,
				accountCode: code,
				accountName: orDefault(name, "(계정명 없음)"),
				costCenter:  orDefault(cc, "-"),
				values:      make([]float64, len(metas)),
			}
			byKey[key] = s
			order = append(order, key)
		}
		for i, meta := range metas {
			s.values[i] += numfmt.ToNumber(row[meta.Col])
		}
	}

	last := len(metas) - 1
	for _, key := range order {
		s := byKey[key]
		status, reason := judge(s.values)
		if status == "" {
			continue
		}

		history := make([]Point, len(metas))
		for i, meta := range metas {
			history[i] = Point{Month: meta.Label, Amount: s.values[i]}
		}
		res.History[key] = history

		res.Rows = append(res.Rows, Row{
			Key:         key,
			Month:       metas[last].Label,
			AccountCode: s.accountCode,
			AccountName: s.accountName,
			CostCenter:  s.costCenter,
			Amount:      s.values[last],
			Status:      status,
			Reason:      reason,
		})
	}

	sort.SliceStable(res.Rows, func(i, j int) bool {
		a, b := res.Rows[i], res.Rows[j]
		if a.Status.rank() != b.Status.rank() {
			return a.Status.rank() < b.Status.rank()
		}
		return math.Abs(a.Amount) > math.Abs(b.Amount)
	})
	if len(res.Rows) > MaxHeuristicRows {
		res.Rows = res.Rows[:MaxHeuristicRows]
	}
	for i := range res.Rows {
		res.Rows[i].ID = i + 1
	}
	return res
}

func judge(values []float64) (Status, string) {
	last := len(values) - 1
	lastVal := values[last]

	var prevVal, prevAvg float64
	if last > 0 {
		prevVal = values[last-1]
		var sum float64
		for _, v := range values[:last] {
			sum += v
		}
		prevAvg = sum / float64(last)
	}

	if lastVal == 0 && prevAvg > 0 {
		return StatusIssue, "이전 기간 대비 갑작스러운 0원 발생 (누락 가능성)"
	}

	diff := lastVal - prevVal
	var rate float64
	if prevVal != 0 {
		rate = diff / prevVal
	}
	switch {
	case math.Abs(rate) >= checkRate && diff != 0:
		return StatusCheck, fmt.Sprintf("전월 대비 %d%% 변동", int64(numfmt.Round(rate*100, 0)))
	case math.Abs(rate) <= okRate:
		return StatusOK, "전월과 유사한 수준 (안정 구간)"
	}
	return "", ""
}

func text(row model.FlatRow, col string) string {
	if col == "" {
		return ""
	}
	v := row[col]
	if numfmt.IsBlank(v) {
		return ""
	}
	return numfmt.KeyString(v)
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
