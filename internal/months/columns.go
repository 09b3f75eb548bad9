package months

import (
	"regexp"
	"strings"
)

// CostColumns 비용 원장에서 찾은 속성 컬럼. 못 찾으면 빈 문자열.
type CostColumns struct {
	AccountGroup   string `json:"accountGroup"`
	AccountName    string `json:"accountName"`
	AccountCode    string `json:"accountCode"`
	CostCenterName string `json:"costCenterName"`
	CostCenterCode string `json:"costCenterCode"`
}

var (
	accountGroupRe   = regexp.MustCompile(`(?i)account.?group`)
	accountNameRe    = regexp.MustCompile(`(?i)account.?name`)
	accountCodeRe    = regexp.MustCompile(`(?i)account.?code`)
	costCenterNameRe = regexp.MustCompile(`(?i)cost.?center.?name`)
	costCenterCodeRe = regexp.MustCompile(`(?i)cost.?center.?code`)
)

// DetectCostColumns 헤더 이름으로 계정/코스트센터 컬럼을 찾는다.
// 규칙마다 앞 순서의 조건이 우선이고, 같은 조건이면 헤더 순서상 먼저 나온 컬럼.
func DetectCostColumns(columns []string) CostColumns {
	return CostColumns{
		AccountGroup: findFirst(columns,
			contains("계정군"),
			contains("비용군"),
			accountGroupRe.MatchString,
		),
		AccountName: findFirst(columns,
			contains("계정명"),
			func(k string) bool { return strings.Contains(k, "계정") && !strings.Contains(k, "코드") },
			accountNameRe.MatchString,
		),
		AccountCode: findFirst(columns,
			contains("계정코드"),
			accountCodeRe.MatchString,
		),
		CostCenterName: findFirst(columns,
			contains("코스트센터명"),
			func(k string) bool { return strings.Contains(k, "코스트센터") && !strings.Contains(k, "코드") },
			costCenterNameRe.MatchString,
		),
		CostCenterCode: findFirst(columns,
			contains("코스트센터코드"),
			costCenterCodeRe.MatchString,
		),
	}
}

func contains(sub string) func(string) bool {
	return func(k string) bool { return strings.Contains(k, sub) }
}

func findFirst(columns []string, preds ...func(string) bool) string {
	for _, pred := range preds {
		for _, col := range columns {
			if pred(col) {
				return col
			}
		}
	}
	return ""
}
