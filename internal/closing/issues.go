package closing

import (
	"math"
	"sort"

	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

const (
	issueTypeNormal  = "정상"
	issueTypeMissing = "결측 의심"
	issueTypeOutlier = "이상치 의심"

	outlierIssueSeverity = 4
)

// 백엔드 버전마다 패턴 밴드 필드명이 다르다
var (
	patternMeanKeys  = []string{"patternMean", "pattern_mean", "base_mean", "pattern_avg"}
	patternUpperKeys = []string{"patternUpper", "pattern_upper", "base_upper"}
	patternLowerKeys = []string{"patternLower", "pattern_lower", "base_lower"}
)

// FromIssues 백엔드 이상 탐지 결과를 점검 목록으로 변환한다.
// 정상 행은 빼고, 심각도 내림차순, 같으면 금액 절대값 내림차순으로 상위 50건.
func FromIssues(issues []map[string]any) *Result {
	res := emptyResult("backend")

	filtered := make([]map[string]any, 0, len(issues))
	for _, r := range issues {
		if r == nil {
			continue
		}
		if t := str(r, "issue_type"); t == "" || t == issueTypeNormal {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return res
	}

	for _, r := range filtered {
		key := issueKey(r)
		res.History[key] = append(res.History[key], Point{
			Month:  str(r, "year_month"),
			Amount: numfmt.ToNumber(r["amount"]),
		})
	}
	for key := range res.History {
		h := res.History[key]
		sort.SliceStable(h, func(i, j int) bool { return h[i].Month < h[j].Month })
	}

	rows := make([]Row, 0, len(filtered))
	for _, r := range filtered {
		severity := int(numfmt.ToNumber(r["severity_rank"]))
		issueType := str(r, "issue_type")

		status := StatusCheck
		if issueType == issueTypeMissing || (issueType == issueTypeOutlier && severity >= outlierIssueSeverity) {
			status = StatusIssue
		}

		costCenter := str(r, "cc_name")
		if costCenter == "" {
			costCenter = str(r, "cost_center")
		}

		rows = append(rows, Row{
			Key:          issueKey(r),
			Month:        str(r, "year_month"),
			AccountCode:  str(r, "account_code"),
			AccountName:  str(r, "account_name"),
			CostCenter:   costCenter,
			Amount:       numfmt.ToNumber(r["amount"]),
			Status:       status,
			Reason:       str(r, "reason_kor"),
			IssueType:    issueType,
			Severity:     severity,
			PatternMean:  firstNumber(r, patternMeanKeys),
			PatternUpper: firstNumber(r, patternUpperKeys),
			PatternLower: firstNumber(r, patternLowerKeys),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Severity != rows[j].Severity {
			return rows[i].Severity > rows[j].Severity
		}
		return math.Abs(rows[i].Amount) > math.Abs(rows[j].Amount)
	})
	if len(rows) > MaxIssueRows {
		rows = rows[:MaxIssueRows]
	}
	for i := range rows {
		rows[i].ID = i + 1
	}
	res.Rows = rows
	return res
}

func issueKey(r map[string]any) string {
	return str(r, "account_code") + "|" + str(r, "account_name") + "|" + str(r, "cost_center")
}

func str(r map[string]any, key string) string {
	v := r[key]
	if numfmt.IsBlank(v) {
		return ""
	}
	return numfmt.KeyString(v)
}

func firstNumber(r map[string]any, keys []string) *float64 {
	for _, k := range keys {
		v, present := r[k]
		if !present || v == nil {
			continue
		}
		f, ok := numfmt.Parse(v)
		if !ok {
			return nil
		}
		return &f
	}
	return nil
}
