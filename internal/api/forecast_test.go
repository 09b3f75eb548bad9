package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/forecast"
)

// forecastBackend 마지막 달 영업이익 = 100 - 10*원재료비 - 40*급여(전체)
func forecastBackend(t *testing.T, failHistory *atomic.Bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/closing/history":
			if failHistory != nil && failHistory.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{
				"series_names":["전사","1공장"],
				"default_series":"전사",
				"series_map":{"전사":[
					{"연도":2024,"월":6,"매출액":100,"매출원가계":60,"영업이익":10},
					{"year":2024,"month":7,"sales":120,"cogs":70,"op":12},
					{"year":0,"month":8,"sales":1}
				]}
			}`))
		case "/api/closing/forecast":
			var req struct {
				Months   int                `json:"months"`
				Scenario map[string]float64 `json:"scenario"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			op := 100 - 10*req.Scenario["원재료비"] - 40*req.Scenario["급여(전체)"]
			fmt.Fprintf(w, `{"months":%d,"predictions":[{"연도":2024,"월":8,"영업이익":50},{"연도":2024,"월":9,"영업이익":%g}],
				"history":{"series_names":["전사"],"default_series":"전사","series_map":{"전사":[{"year":2024,"month":7,"op":12}]}}}`,
				req.Months, op)
		case "/api/closing/sync-and-retrain":
			_, _ = w.Write([]byte(`{"ok":true,"job_id":"j1"}`))
		case "/api/closing/sync-and-retrain/status":
			_, _ = w.Write([]byte(`{"state":"running","progress":40}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestForecastHistory_NormalizesAndFallsBackToStale(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	e := newTestEnv(t, forecastBackend(t, &fail).URL)

	var resp struct {
		Rows           []forecast.HistoryPoint `json:"rows"`
		SeriesNames    []string                `json:"seriesNames"`
		SelectedSeries string                  `json:"selectedSeries"`
		Stale          bool                    `json:"stale"`
		BackendError   string                  `json:"backendError"`
	}
	w := e.do(t, http.MethodGet, "/api/forecast/history?months=6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &resp)
	if resp.SelectedSeries != "전사" || len(resp.SeriesNames) != 2 || resp.Stale {
		t.Fatalf("history = %+v", resp)
	}
	want := []forecast.HistoryPoint{
		{Label: "2024-06", Year: 2024, Month: 6, Sales: 100, COGS: 60, OperatingIncome: 10},
		{Label: "2024-07", Year: 2024, Month: 7, Sales: 120, COGS: 70, OperatingIncome: 12},
	}
	if len(resp.Rows) != len(want) || resp.Rows[0] != want[0] || resp.Rows[1] != want[1] {
		t.Fatalf("rows = %+v", resp.Rows)
	}

	fail.Store(true)
	resp = struct {
		Rows           []forecast.HistoryPoint `json:"rows"`
		SeriesNames    []string                `json:"seriesNames"`
		SelectedSeries string                  `json:"selectedSeries"`
		Stale          bool                    `json:"stale"`
		BackendError   string                  `json:"backendError"`
	}{}
	decodeBody(t, e.do(t, http.MethodGet, "/api/forecast/history?months=6", nil), &resp)
	if !resp.Stale || resp.BackendError == "" || len(resp.Rows) != 2 {
		t.Fatalf("stale history = %+v", resp)
	}

	// 다른 기간은 이전 응답이 없으므로 502
	if w := e.do(t, http.MethodGet, "/api/forecast/history?months=3", nil); w.Code != http.StatusBadGateway {
		t.Fatalf("uncached status %d", w.Code)
	}
}

func TestRunForecast_RanksDriverImpacts(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, forecastBackend(t, nil).URL)

	body, _ := json.Marshal(map[string]any{
		"months": 6,
		"scenario": []map[string]any{
			{"driver": "원재료비", "percent": 10},
			{"driver": "부재료비(전체)", "percent": 0},
			{"driver": "급여(전체)", "percent": 50},
		},
	})
	w := e.do(t, http.MethodPost, "/api/forecast/run", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	var resp forecastResponse
	decodeBody(t, w, &resp)

	if resp.Months != 6 || len(resp.Scenario) != 2 || resp.Scenario["급여(전체)"] != 0.5 {
		t.Fatalf("scenario = %+v", resp)
	}
	if got := forecast.LastOperatingIncome(resp.BasePredictions); got != 100 {
		t.Fatalf("base last op = %v", got)
	}
	if got := forecast.LastOperatingIncome(resp.ScenarioPredictions); got != 79 {
		t.Fatalf("scenario last op = %v", got)
	}
	if len(resp.DriverImpacts) != 2 {
		t.Fatalf("impacts = %+v", resp.DriverImpacts)
	}
	if resp.DriverImpacts[0].Key != "급여(전체)" || resp.DriverImpacts[0].Diff != -20 {
		t.Fatalf("first impact = %+v", resp.DriverImpacts[0])
	}
	if resp.DriverImpacts[1].Key != "원재료비" || resp.DriverImpacts[1].Diff != -1 {
		t.Fatalf("second impact = %+v", resp.DriverImpacts[1])
	}
	if len(resp.History) != 1 || resp.History[0].OperatingIncome != 12 {
		t.Fatalf("history = %+v", resp.History)
	}
}

func TestRunForecast_BaseOnly(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, forecastBackend(t, nil).URL)

	w := e.do(t, http.MethodPost, "/api/forecast/run", []byte(`{"months":0,"scenario":[]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	var resp forecastResponse
	decodeBody(t, w, &resp)
	if resp.Months != forecast.DefaultMonths || len(resp.DriverImpacts) != 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if forecast.LastOperatingIncome(resp.ScenarioPredictions) != 100 {
		t.Fatalf("scenario predictions = %+v", resp.ScenarioPredictions)
	}

	if w := e.do(t, http.MethodPost, "/api/forecast/run", []byte(`{`)); w.Code != http.StatusBadRequest {
		t.Fatalf("bad body status %d", w.Code)
	}
}

func TestRetrain(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, forecastBackend(t, nil).URL)

	w := e.do(t, http.MethodPost, "/api/forecast/retrain", nil)
	if w.Code != http.StatusAccepted || !strings.Contains(w.Body.String(), `"job_id":"j1"`) {
		t.Fatalf("retrain status %d body=%s", w.Code, w.Body.String())
	}
	var status map[string]any
	decodeBody(t, e.do(t, http.MethodGet, "/api/forecast/retrain/status", nil), &status)
	if status["state"] != "running" {
		t.Fatalf("status = %v", status)
	}
}

func TestForecast_NoBackend(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, "")
	var drivers struct {
		Drivers       []string `json:"drivers"`
		DefaultMonths int      `json:"defaultMonths"`
	}
	decodeBody(t, e.do(t, http.MethodGet, "/api/forecast/drivers", nil), &drivers)
	if len(drivers.Drivers) != len(forecast.Drivers) || drivers.DefaultMonths != forecast.DefaultMonths {
		t.Fatalf("drivers = %+v", drivers)
	}
	for _, path := range []string{"/api/forecast/history", "/api/fx/forecast"} {
		if w := e.do(t, http.MethodGet, path, nil); w.Code != http.StatusBadGateway {
			t.Fatalf("%s: status %d", path, w.Code)
		}
	}
}

func fxBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/external/fx/forecast":
			if r.URL.Query().Get("months") != "3" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"rates":{"2024-08":1350.5,"2024-09":1342},"meta":{"model":"arima"}}`))
		case "/api/external/fx-tariff/v2/options":
			if _, _, err := r.FormFile("file"); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"options":{"cars":["A1"],"groups":["G"],"markets":["US"],"months":["2024-08"]}}`))
		case "/api/external/fx-tariff/v2/analyze":
			if r.FormValue("market") != "US" || r.FormValue("unknown") != "" {
				_, _ = w.Write([]byte(`{"ok":false,"error":"필터 조건이 맞지 않습니다."}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"kpis":{"revenue":10}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFXForecast(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, fxBackend(t).URL)
	var resp struct {
		Months int                `json:"months"`
		Rates  map[string]float64 `json:"rates"`
	}
	decodeBody(t, e.do(t, http.MethodGet, "/api/fx/forecast?months=3", nil), &resp)
	if resp.Months != 3 || resp.Rates["2024-08"] != 1350.5 {
		t.Fatalf("fx = %+v", resp)
	}
}

func TestFXTariff(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, fxBackend(t).URL)
	plan := buildWorkbook(t, "판매계획", [][]interface{}{{"차종", "시장"}, {"A1", "US"}})

	var opts struct {
		Options struct {
			Cars    []string `json:"cars"`
			Markets []string `json:"markets"`
		} `json:"options"`
	}
	w := e.postFile(t, "/api/fx-tariff/options", "plan.xlsx", plan, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("options status %d body=%s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &opts)
	if len(opts.Options.Cars) != 1 || opts.Options.Markets[0] != "US" {
		t.Fatalf("options = %+v", opts)
	}

	// 허용하지 않은 필드는 전달하지 않는다
	w = e.postFile(t, "/api/fx-tariff/analyze", "plan.xlsx", plan, map[string]string{"market": " US ", "unknown": "x"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"revenue":10`) {
		t.Fatalf("analyze status %d body=%s", w.Code, w.Body.String())
	}

	w = e.postFile(t, "/api/fx-tariff/analyze", "plan.xlsx", plan, map[string]string{"market": "EU"})
	if w.Code != http.StatusBadGateway || !strings.Contains(w.Body.String(), "필터 조건이 맞지 않습니다.") {
		t.Fatalf("rejected status %d body=%s", w.Code, w.Body.String())
	}

	if w := e.postFile(t, "/api/fx-tariff/options", "plan.csv", []byte("a,b"), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("csv status %d", w.Code)
	}
}
