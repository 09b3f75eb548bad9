package backend

// InitData /api/init-data 응답
type InitData struct {
	CostData    []map[string]any  `json:"costData"`
	BackData    []map[string]any  `json:"backData"`
	CodeNameMap map[string]string `json:"codeNameMap"`
	AnomalyData []map[string]any  `json:"anomalyData"`
}

// AnalyzeResult 이상 탐지 응답
type AnalyzeResult struct {
	Month   string           `json:"month,omitempty"`
	Issues  []map[string]any `json:"issues"`
	Summary map[string]any   `json:"summary,omitempty"`
}

// Period 원인 분석 가능 기간
type Period struct {
	YM    int    `json:"ym"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Tag   string `json:"tag,omitempty"`
	File  string `json:"file,omitempty"`
}

// CauseResult 손익 원인 분석 응답
type CauseResult struct {
	KPICards   []map[string]any            `json:"kpi_cards"`
	Drivers    map[string]any              `json:"drivers"`
	Drilldowns map[string][]map[string]any `json:"drilldowns"`
	AllItems   []map[string]any            `json:"all_items,omitempty"`
	Items      []map[string]any            `json:"items,omitempty"`
	TopItems   []map[string]any            `json:"top_items,omitempty"`
}

// PathItems all_items, items, top_items 중 처음 비어 있지 않은 목록
func (r *CauseResult) PathItems() []map[string]any {
	if r == nil {
		return nil
	}
	for _, list := range [][]map[string]any{r.AllItems, r.Items, r.TopItems} {
		if len(list) > 0 {
			return list
		}
	}
	return nil
}

// HistoryResult /api/closing/history 응답.
// series 를 지정하면 Rows, 아니면 SeriesMap 에 시리즈별 행이 온다.
type HistoryResult struct {
	SeriesNames    []string                    `json:"series_names"`
	DefaultSeries  string                      `json:"default_series,omitempty"`
	SelectedSeries string                      `json:"selected_series,omitempty"`
	Rows           []map[string]any            `json:"rows,omitempty"`
	SeriesMap      map[string][]map[string]any `json:"series_map,omitempty"`
}

// SelectedRows Rows, 없으면 선택/기본 시리즈의 행
func (r *HistoryResult) SelectedRows() []map[string]any {
	if r == nil {
		return nil
	}
	if len(r.Rows) > 0 {
		return r.Rows
	}
	name := r.SelectedSeries
	if name == "" {
		name = r.DefaultSeries
	}
	return r.SeriesMap[name]
}

// ForecastResult /api/closing/forecast 응답. 예측 행은 "연도", "월", 손익 항목 키를 가진다.
type ForecastResult struct {
	Months      int                `json:"months"`
	Predictions []map[string]any   `json:"predictions"`
	Scenario    map[string]float64 `json:"scenario,omitempty"`
	History     *HistoryResult     `json:"history,omitempty"`
}

// FXForecast 환율 예측 (월 -> 환율)
type FXForecast struct {
	Rates map[string]float64 `json:"rates"`
	Meta  map[string]any     `json:"meta,omitempty"`
}

// FXTariffOptions 환율/관세 분석 필터 선택지
type FXTariffOptions struct {
	Cars    []string `json:"cars"`
	Groups  []string `json:"groups"`
	Markets []string `json:"markets"`
	Months  []string `json:"months"`
}
