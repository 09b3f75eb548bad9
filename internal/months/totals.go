package months

import (
	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// MonthTotal 월별 총비용과 전년 동월 총비용 (원 단위 반올림)
type MonthTotal struct {
	Month    string  `json:"month"`
	Year     int     `json:"year,omitempty"`
	Total    float64 `json:"total"`
	LastYear float64 `json:"lastYear"`
}

// KPI 선택 월 기준 지표
type KPI struct {
	Month        string  `json:"month"`
	CurrentTotal float64 `json:"currentTotal"`
	Diff         float64 `json:"diff"`
	DiffRate     float64 `json:"diffRate"`
	YTDTotal     float64 `json:"ytdTotal"`    // 첫 월부터 선택 월까지
	CalendarYTD  float64 `json:"calendarYtd"` // 같은 연도만
	YoYDiff      float64 `json:"yoyDiff"`
	YoYRate      float64 `json:"yoyRate"`
	Text         KPIText `json:"text"`
}

// KPIText 카드 표시용 문자열 (예: 1,234 / +56 / -12.3%)
type KPIText struct {
	CurrentTotal string `json:"currentTotal"`
	Diff         string `json:"diff"`
	DiffRate     string `json:"diffRate"`
	YTDTotal     string `json:"ytdTotal"`
	CalendarYTD  string `json:"calendarYtd"`
	YoYDiff      string `json:"yoyDiff"`
	YoYRate      string `json:"yoyRate"`
}

func (k KPI) withText() KPI {
	k.Text = KPIText{
		CurrentTotal: numfmt.Number(k.CurrentTotal),
		Diff:         numfmt.Signed(k.Diff),
		DiffRate:     numfmt.Rate(k.DiffRate),
		YTDTotal:     numfmt.Number(k.YTDTotal),
		CalendarYTD:  numfmt.Number(k.CalendarYTD),
		YoYDiff:      numfmt.Signed(k.YoYDiff),
		YoYRate:      numfmt.Rate(k.YoYRate),
	}
	return k
}

// ColumnTotal 컬럼의 숫자 값 합계
func ColumnTotal(rows []model.FlatRow, col string) float64 {
	var total float64
	for _, row := range rows {
		if v, ok := numfmt.Parse(row[col]); ok {
			total += v
		}
	}
	return total
}

// MonthlyTotals 월마다 전체 행 합계를 내고, 전년 같은 월 컬럼이 있으면 그 합계도 붙인다.
func MonthlyTotals(rows []model.FlatRow, metas []model.MonthMeta) []MonthTotal {
	out := make([]MonthTotal, 0, len(metas))
	if len(rows) == 0 {
		return out
	}
	for _, meta := range metas {
		mt := MonthTotal{
			Month: meta.Label,
			Year:  meta.Year,
			Total: numfmt.Round(ColumnTotal(rows, meta.Col), 0),
		}
		if meta.Parsed() {
			for _, p := range metas {
				if p.Parsed() && p.Month == meta.Month && p.Year == meta.Year-1 {
					mt.LastYear = numfmt.Round(ColumnTotal(rows, p.Col), 0)
					break
				}
			}
		}
		out = append(out, mt)
	}
	return out
}

// ComputeKPI selected 월의 전월 대비, 누계, 전년 동월 대비.
// 전월 대비 증감률은 전월 합계로 나누고, 전월 합계가 0 이면 0.
// 누계는 첫 월부터 선택 월까지의 합이고, 연 누계는 그중 같은 연도만 더한다
// (연도를 모르면 누계와 같다).
func ComputeKPI(totals []MonthTotal, selected string) KPI {
	idx := -1
	for i, t := range totals {
		if t.Month == selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		return KPI{Month: selected}.withText()
	}

	cur := totals[idx]
	k := KPI{Month: cur.Month, CurrentTotal: cur.Total}

	if idx > 0 {
		prev := totals[idx-1]
		k.Diff = cur.Total - prev.Total
		if prev.Total != 0 {
			k.DiffRate = k.Diff / prev.Total * 100
		}
	}

	for i := 0; i <= idx; i++ {
		k.YTDTotal += totals[i].Total
		if cur.Year == 0 || totals[i].Year == cur.Year {
			k.CalendarYTD += totals[i].Total
		}
	}

	if cur.LastYear != 0 {
		k.YoYDiff = cur.Total - cur.LastYear
		k.YoYRate = k.YoYDiff / cur.LastYear * 100
	}
	return k.withText()
}
