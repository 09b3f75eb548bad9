package importer

import (
	"context"
	"reflect"
	"testing"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
)

func TestApplyFetched_CostData(t *testing.T) {
	t.Parallel()

	coord, st := newTestCoordinator(t)
	ctx := context.Background()

	res, err := coord.ApplyFetched(ctx, FetchedData{
		Kind: model.DatasetCostData,
		Rows: []map[string]any{
			{"코스트센터명": "생산1팀", "계정명": "전력비", "2024-02": 20.0, "2024-01": 10.0, "확정": true},
			{"코스트센터명": "생산2팀", "계정명": "소모품비", "2024-02": nil, "2024-01": 5.0},
		},
	})
	if err != nil {
		t.Fatalf("ApplyFetched: %v", err)
	}
	if res == nil || res.Report.ImportedRows != 2 {
		t.Fatalf("result = %+v", res)
	}
	if got := months.Labels(res.Months); !reflect.DeepEqual(got, []string{"2024-01", "2024-02"}) {
		t.Fatalf("months = %v", got)
	}

	ds, err := st.GetDataset(ctx, model.DatasetCostData)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if ds.ID != res.DatasetID || ds.SourceFile != SourceBackend {
		t.Fatalf("dataset = %s %s", ds.ID, ds.SourceFile)
	}
	want := []string{"2024-01", "2024-02", "계정명", "코스트센터명", "확정"}
	if !reflect.DeepEqual(ds.Columns, want) {
		t.Fatalf("columns = %v", ds.Columns)
	}
	if ds.Rows[0]["확정"] != "true" {
		t.Fatalf("bool value = %#v", ds.Rows[0]["확정"])
	}

	logs, err := st.ListImportLogs(ctx, 5)
	if err != nil {
		t.Fatalf("ListImportLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != model.ImportApplied || logs[0].Filename != SourceBackend {
		t.Fatalf("logs = %+v", logs)
	}
}

func TestApplyFetched_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	coord, _ := newTestCoordinator(t)
	ctx := context.Background()

	res, err := coord.ApplyFetched(ctx, FetchedData{Kind: model.DatasetBackData})
	if err != nil || res != nil {
		t.Fatalf("empty rows: res=%+v err=%v", res, err)
	}
	if _, err := coord.ApplyFetched(ctx, FetchedData{Kind: "other", Rows: []map[string]any{{"a": 1.0}}}); err == nil {
		t.Fatal("expected invalid kind error")
	}
}
