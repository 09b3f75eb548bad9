package drilldown

import "github.com/Kr-EIVEN/hosting-project/internal/model"

// 손익 항목별로 화면에 있어야 하는 하위 항목
var expectedTree = map[string][]string{
	"매출액": {"국내매출액", "수출매출액"},
	"국내매출액": {
		"판매수량(국내)",
		"제품매출",
		"상품매출",
		"설비매출",
		"시작차매출",
		"부산물매출 (영업)",
		"부산물매출",
		"기타매출",
		"기타매출(금창)",
		"사급",
	},
	"수출매출액":  {"판매수량(수출)", "제품매출", "상품매출", "설비매출", "기타매출"},
	COGSTotal: {"국내매출원가", "수출매출원가"},
	"국내매출원가": {"제품", "상품", "기타"},
	"수출매출원가": {"제품", "상품", "기타"},
	"판매비와일반관리비": {
		"급여",
		"퇴직급여",
		"복리후생비",
		"감가상각비",
		"지급수수료",
		"운반비",
		"광고선전비",
		"기타",
	},
	NonOpProfit: {NonOpRevenue, NonOpExpense},
}

// MissingChildren 기대 하위 항목 중 nodes 에 없는 것 (기대 순서 유지)
func MissingChildren(label string, nodes []model.DrillNode) []string {
	expected := expectedTree[label]
	if len(expected) == 0 {
		return []string{}
	}
	have := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		have[n.Name] = struct{}{}
	}
	missing := make([]string, 0)
	for _, name := range expected {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
