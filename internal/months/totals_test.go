package months

import (
	"math"
	"reflect"
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

func costFixture() ([]model.FlatRow, []string) {
	columns := []string{"계정코드", "계정명", "코스트센터명", "2023-12", "2024-01", "2024-12"}
	rows := []model.FlatRow{
		{"계정코드": "510100", "계정명": "(제)급여", "코스트센터명": "생산1팀", "2023-12": 100.0, "2024-01": 200.0, "2024-12": 150.4},
		{"계정코드": "610200", "계정명": "(판)광고선전비", "코스트센터명": "영업팀", "2023-12": 50.0, "2024-01": "x", "2024-12": 49.7},
		{"계정코드": "710300", "계정명": "잡비", "코스트센터명": nil, "2023-12": nil, "2024-01": 10.0, "2024-12": -20.0},
	}
	return rows, columns
}

func TestMonthlyTotals(t *testing.T) {
	t.Parallel()

	rows, columns := costFixture()
	metas := ExtractMonthMeta(rows, columns, DefaultOptions())
	got := MonthlyTotals(rows, metas)

	want := []MonthTotal{
		{Month: "2023-12", Year: 2023, Total: 150, LastYear: 0},
		{Month: "2024-01", Year: 2024, Total: 210, LastYear: 0},
		{Month: "2024-12", Year: 2024, Total: 180, LastYear: 150},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("totals=%+v\nwant %+v", got, want)
	}
	if got := MonthlyTotals(nil, metas); len(got) != 0 {
		t.Fatalf("expected empty totals")
	}
}

func TestComputeKPI(t *testing.T) {
	t.Parallel()

	totals := []MonthTotal{
		{Month: "2023-12", Year: 2023, Total: 150},
		{Month: "2024-01", Year: 2024, Total: 200},
		{Month: "2024-12", Year: 2024, Total: 150, LastYear: 120},
	}
	k := ComputeKPI(totals, "2024-12")
	if k.CurrentTotal != 150 || k.Diff != -50 || k.DiffRate != -25 {
		t.Fatalf("mom kpi=%+v", k)
	}
	if k.YTDTotal != 500 || k.CalendarYTD != 350 {
		t.Fatalf("ytd=%v calendar=%v", k.YTDTotal, k.CalendarYTD)
	}
	if k.YoYDiff != 30 || math.Abs(k.YoYRate-25) > 1e-9 {
		t.Fatalf("yoy kpi=%+v", k)
	}
	if k.Text.Diff != "-50" || k.Text.DiffRate != "-25.0%" || k.Text.YoYDiff != "+30" || k.Text.YoYRate != "+25.0%" {
		t.Fatalf("kpi text=%+v", k.Text)
	}

	first := ComputeKPI(totals, "2023-12")
	if first.Diff != 0 || first.DiffRate != 0 || first.YTDTotal != 150 || first.CalendarYTD != 150 || first.YoYRate != 0 {
		t.Fatalf("first month kpi=%+v", first)
	}

	if missing := ComputeKPI(totals, "2030-01"); missing.CurrentTotal != 0 || missing.Month != "2030-01" {
		t.Fatalf("missing month kpi=%+v", missing)
	}

	zeroPrev := ComputeKPI([]MonthTotal{{Month: "a"}, {Month: "b", Total: 10}}, "b")
	if zeroPrev.Diff != 10 || zeroPrev.DiffRate != 0 || zeroPrev.YTDTotal != 10 || zeroPrev.CalendarYTD != 10 {
		t.Fatalf("zero prev kpi=%+v", zeroPrev)
	}
}

func TestComputeKPI_YTDCrossesYearBoundary(t *testing.T) {
	t.Parallel()

	totals := []MonthTotal{
		{Month: "2023-12", Year: 2023, Total: 100},
		{Month: "2024-01", Year: 2024, Total: 40},
	}
	k := ComputeKPI(totals, "2024-01")
	if k.YTDTotal != 140 || k.CalendarYTD != 40 {
		t.Fatalf("ytd=%v calendar=%v", k.YTDTotal, k.CalendarYTD)
	}
	if k.Text.YTDTotal != "140" || k.Text.CalendarYTD != "40" {
		t.Fatalf("text=%+v", k.Text)
	}
}
