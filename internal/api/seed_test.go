package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/importer"
	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

const initDataBody = `{
	"backData":[
		{"전기 기간":7,"손익 센터":"1010","매출액-일반-제품":1000},
		{"전기 기간":7,"손익 센터":"2020","매출액-일반-제품":400}
	],
	"codeNameMap":{"1010":"Plant1"},
	"costData":[
		{"코스트센터명":"생산1팀","계정코드":"100","계정명":"(제)전력비","2024-01":100,"2024-02":300}
	],
	"anomalyData":[]
}`

func initDataBackend(t *testing.T, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/init-data" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(initDataBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSeedFromBackend_FillsEmptyStore(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	e := newTestEnv(t, initDataBackend(t, http.StatusOK, &calls).URL)

	w := e.do(t, http.MethodGet, "/api/pl/report?dimension=profitCenter", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", w.Code, w.Body.String())
	}
	var report struct {
		Rows []model.GroupedRow `json:"rows"`
	}
	decodeBody(t, w, &report)
	if len(report.Rows) != 2 || report.Rows[0].Name != "Plant1" || report.Rows[0].Sales != 1000 {
		t.Fatalf("report rows = %+v", report.Rows)
	}

	var monthsResp struct {
		Items   []model.MonthMeta `json:"items"`
		Default string            `json:"default"`
	}
	decodeBody(t, e.do(t, http.MethodGet, "/api/cost/months", nil), &monthsResp)
	if len(monthsResp.Items) != 2 || monthsResp.Default != "2024-02" {
		t.Fatalf("months = %+v", monthsResp)
	}

	ds, err := e.store.GetDataset(context.Background(), model.DatasetCostData)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if ds.SourceFile != importer.SourceBackend {
		t.Fatalf("source = %q", ds.SourceFile)
	}
	if calls.Load() != 1 {
		t.Fatalf("init-data calls = %d", calls.Load())
	}
}

func TestSeedFromBackend_KeepsUploadedSnapshot(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	e := newTestEnv(t, initDataBackend(t, http.StatusOK, &calls).URL)
	seedBackData(t, e)

	// 원장이 없어 초기 데이터를 받지만 Back data 는 업로드한 것을 유지
	if w := e.do(t, http.MethodGet, "/api/cost/months", nil); w.Code != http.StatusOK {
		t.Fatalf("months status %d", w.Code)
	}
	ds, err := e.store.GetDataset(context.Background(), model.DatasetBackData)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if ds.ID != "back-1" {
		t.Fatalf("back data replaced by %s (%s)", ds.ID, ds.SourceFile)
	}
	if _, err := e.store.GetDataset(context.Background(), model.DatasetCostData); err != nil {
		t.Fatalf("cost data not seeded: %v", err)
	}
}

func TestSeedFromBackend_FailureWaitsBeforeRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	e := newTestEnv(t, initDataBackend(t, http.StatusInternalServerError, &calls).URL)

	for i := 0; i < 2; i++ {
		if w := e.do(t, http.MethodGet, "/api/pl/report", nil); w.Code != http.StatusNotFound {
			t.Fatalf("attempt %d: status %d", i, w.Code)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("init-data calls = %d, want 1", calls.Load())
	}
}
