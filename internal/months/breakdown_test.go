package months

import (
	"reflect"
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

func TestDetectCostColumns(t *testing.T) {
	t.Parallel()

	got := DetectCostColumns([]string{"코스트센터코드", "코스트센터명", "계정코드", "계정명", "비용군"})
	want := CostColumns{
		AccountGroup:   "비용군",
		AccountName:    "계정명",
		AccountCode:    "계정코드",
		CostCenterName: "코스트센터명",
		CostCenterCode: "코스트센터코드",
	}
	if got != want {
		t.Fatalf("columns=%+v", got)
	}

	en := DetectCostColumns([]string{"Cost Center Name", "account_code", "AccountName"})
	if en.CostCenterName != "Cost Center Name" || en.AccountCode != "account_code" || en.AccountName != "AccountName" {
		t.Fatalf("english columns=%+v", en)
	}
}

func TestAccountGroupShare_FromAccountNamePrefix(t *testing.T) {
	t.Parallel()

	rows, columns := costFixture()
	meta := model.MonthMeta{Col: "2024-12", Label: "2024-12"}
	got := AccountGroupShare(rows, columns, meta)
	want := []NamedValue{
		{Name: "제조원가(제)", Value: 150},
		{Name: "판관비(판)", Value: 50},
		{Name: "기타(기)", Value: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("share=%+v", got)
	}
}

func TestAccountGroupShare_GroupColumnAndRemainder(t *testing.T) {
	t.Parallel()

	columns := []string{"계정군", "m"}
	var rows []model.FlatRow
	for i, g := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		rows = append(rows, model.FlatRow{"계정군": g, "m": float64(100 - i*10)})
	}
	rows = append(rows, model.FlatRow{"계정군": nil, "m": 1.0}, model.FlatRow{"계정군": "A", "m": 0.0})

	got := AccountGroupShare(rows, columns, model.MonthMeta{Col: "m"})
	if len(got) != 6 {
		t.Fatalf("len=%d: %+v", len(got), got)
	}
	if got[0].Name != "A" || got[4].Name != "E" {
		t.Fatalf("top groups=%+v", got)
	}
	// F(50) + G(40) + 기타(1)
	if got[5].Name != "기타" || got[5].Value != 91 {
		t.Fatalf("remainder=%+v", got[5])
	}
	if got := AccountGroupShare(nil, columns, model.MonthMeta{Col: "m"}); len(got) != 0 {
		t.Fatalf("expected empty share")
	}
}

func TestTopCostCenters(t *testing.T) {
	t.Parallel()

	rows, columns := costFixture()
	got := TopCostCenters(rows, columns, model.MonthMeta{Col: "2024-12"}, 5)
	want := []NamedValue{
		{Name: "생산1팀", Value: 150},
		{Name: "영업팀", Value: 50},
		{Name: "기타", Value: -20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("centers=%+v", got)
	}
	if got := TopCostCenters(rows, columns, model.MonthMeta{Col: "2024-12"}, 1); len(got) != 1 {
		t.Fatalf("limit ignored: %+v", got)
	}
}

func TestBuildOverview(t *testing.T) {
	t.Parallel()

	rows, columns := costFixture()
	metas := ExtractMonthMeta(rows, columns, DefaultOptions())

	ov := BuildOverview(rows, columns, metas, "없는월")
	if ov.Month != "2024-12" || ov.KPI.CurrentTotal != 180 || ov.KPI.YoYDiff != 30 {
		t.Fatalf("overview=%+v", ov)
	}
	if len(ov.TopCostCenters) != 3 || len(ov.AccountGroups) != 3 {
		t.Fatalf("breakdowns=%+v %+v", ov.TopCostCenters, ov.AccountGroups)
	}

	empty := BuildOverview(nil, nil, nil, "")
	if empty.Month != "" || len(empty.MonthlyTotals) != 0 {
		t.Fatalf("empty overview=%+v", empty)
	}
}
