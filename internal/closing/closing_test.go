package closing

import (
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	columns := []string{"계정코드", "계정명", "코스트센터명", "m1", "m2", "m3"}
	metas := []model.MonthMeta{
		{Col: "m1", Label: "2024-01", Year: 2024, Month: 1},
		{Col: "m2", Label: "2024-02", Year: 2024, Month: 2, Index: 1},
		{Col: "m3", Label: "2024-03", Year: 2024, Month: 3, Index: 2},
	}
	rows := []model.FlatRow{
		// 마지막 월 0 → issue
		{"계정코드": "100", "계정명": "급여", "코스트센터명": "A", "m1": 100.0, "m2": 100.0, "m3": 0.0},
		// +100% → check
		{"계정코드": "200", "계정명": "광고비", "코스트센터명": "A", "m1": 10.0, "m2": 50.0, "m3": 100.0},
		// +5% → ok
		{"계정코드": "300", "계정명": "임차료", "코스트센터명": "B", "m1": 20.0, "m2": 20.0, "m3": 21.0},
		// +30% → 목록 제외
		{"계정코드": "400", "계정명": "소모품", "코스트센터명": "B", "m1": 10.0, "m2": 10.0, "m3": 13.0},
		// 같은 키는 합산된다: 임차료/B 의 m3 = 21 + 0
		{"계정코드": "300", "계정명": "임차료", "코스트센터명": "B", "m1": nil, "m2": "", "m3": "x"},
		// 계정명/센터 없음
		{"계정코드": "500", "m1": 5.0, "m2": 5.0, "m3": 5.0},
	}

	res := Analyze(rows, columns, metas)
	if res.Source != "heuristic" {
		t.Fatalf("source=%q", res.Source)
	}
	if len(res.Rows) != 4 {
		t.Fatalf("rows=%+v", res.Rows)
	}

	wantKeys := []string{"100|급여|A", "200|광고비|A", "300|임차료|B", "500||"}
	wantStatus := []Status{StatusIssue, StatusCheck, StatusOK, StatusOK}
	for i, r := range res.Rows {
		if r.Key != wantKeys[i] || r.Status != wantStatus[i] || r.ID != i+1 {
			t.Fatalf("row %d=%+v", i, r)
		}
		if r.Month != "2024-03" {
			t.Fatalf("row %d month=%q", i, r.Month)
		}
	}
	if res.Rows[1].Reason != "전월 대비 100% 변동" {
		t.Fatalf("reason=%q", res.Rows[1].Reason)
	}
	if res.Rows[3].AccountName != "(계정명 없음)" || res.Rows[3].CostCenter != "-" {
		t.Fatalf("defaults=%+v", res.Rows[3])
	}

	h := res.History["300|임차료|B"]
	if len(h) != 3 || h[2].Amount != 21 || h[0].Month != "2024-01" {
		t.Fatalf("history=%+v", h)
	}
	if _, ok := res.History["400|소모품|B"]; ok {
		t.Fatalf("excluded series should have no history")
	}
}

func TestAnalyze_Limit(t *testing.T) {
	t.Parallel()

	metas := []model.MonthMeta{{Col: "m1", Label: "1"}, {Col: "m2", Label: "2", Index: 1}}
	var rows []model.FlatRow
	for i := 0; i < 40; i++ {
		rows = append(rows, model.FlatRow{"계정코드": float64(i), "m1": 100.0, "m2": float64(300 + i)})
	}
	res := Analyze(rows, []string{"계정코드", "m1", "m2"}, metas)
	if len(res.Rows) != MaxHeuristicRows {
		t.Fatalf("len=%d", len(res.Rows))
	}
	if res.Rows[0].AccountCode != "39" || res.Rows[0].Reason != "전월 대비 239% 변동" {
		t.Fatalf("first=%+v", res.Rows[0])
	}
}

func TestAnalyze_NegativeRate(t *testing.T) {
	t.Parallel()

	metas := []model.MonthMeta{{Col: "m1", Label: "1"}, {Col: "m2", Label: "2", Index: 1}}
	rows := []model.FlatRow{
		{"계정코드": "drop", "m1": 100.0, "m2": 40.0},
		{"계정코드": "between", "m1": 100.0, "m2": 70.0},
	}
	res := Analyze(rows, []string{"계정코드", "m1", "m2"}, metas)
	if len(res.Rows) != 1 {
		t.Fatalf("rows=%+v", res.Rows)
	}
	if res.Rows[0].Status != StatusCheck || res.Rows[0].Reason != "전월 대비 -60% 변동" {
		t.Fatalf("row=%+v", res.Rows[0])
	}
}

func TestAnalyze_Empty(t *testing.T) {
	t.Parallel()

	res := Analyze(nil, nil, nil)
	if len(res.Rows) != 0 || res.History == nil {
		t.Fatalf("unexpected empty result: %+v", res)
	}
}

func TestFromIssues(t *testing.T) {
	t.Parallel()

	issues := []map[string]any{
		{"issue_type": "정상", "amount": 999.0},
		{"issue_type": "이상치 의심", "severity_rank": 3.0, "amount": -500.0, "account_code": "A", "cost_center": "C1", "year_month": "2024-02", "pattern_mean": 10.0},
		{"issue_type": "이상치 의심", "severity_rank": "4", "amount": 10.0, "account_code": "B", "cc_name": "센터", "cost_center": "C2", "year_month": "2024-03", "base_upper": "20", "patternLower": nil, "pattern_lower": 1.0},
		{"issue_type": "결측 의심", "severity_rank": 1.0, "amount": 0.0, "account_code": "A", "cost_center": "C1", "year_month": "2024-01", "reason_kor": "누락"},
		{"issue_type": "", "amount": 1.0},
		nil,
	}

	res := FromIssues(issues)
	if res.Source != "backend" || len(res.Rows) != 3 {
		t.Fatalf("rows=%+v", res.Rows)
	}

	first := res.Rows[0]
	if first.AccountCode != "B" || first.Status != StatusIssue || first.Severity != 4 || first.CostCenter != "센터" {
		t.Fatalf("first=%+v", first)
	}
	if first.PatternUpper == nil || *first.PatternUpper != 20 || first.PatternLower == nil || *first.PatternLower != 1 || first.PatternMean != nil {
		t.Fatalf("bands=%v %v %v", first.PatternMean, first.PatternUpper, first.PatternLower)
	}

	second := res.Rows[1]
	if second.Status != StatusCheck || second.Amount != -500 || second.PatternMean == nil || *second.PatternMean != 10 {
		t.Fatalf("second=%+v", second)
	}
	if res.Rows[2].Status != StatusIssue || res.Rows[2].Reason != "누락" {
		t.Fatalf("third=%+v", res.Rows[2])
	}

	h := res.History["A||C1"]
	if len(h) != 2 || h[0].Month != "2024-01" || h[1].Month != "2024-02" {
		t.Fatalf("history=%+v", h)
	}
}

func TestFromIssues_AllNormal(t *testing.T) {
	t.Parallel()

	res := FromIssues([]map[string]any{{"issue_type": "정상"}})
	if len(res.Rows) != 0 || len(res.History) != 0 {
		t.Fatalf("expected empty result: %+v", res)
	}
}
