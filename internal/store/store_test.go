package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "data", "closing.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestApplyDataset_ReplacesPrevious(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.GetDataset(ctx, model.DatasetBackData); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	logID, err := st.CreateImportLog(ctx, model.DatasetBackData, "a.xlsx", "/tmp/a.xlsx", 10, "hash")
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	first := &model.Dataset{
		ID:         "ds-1",
		Kind:       model.DatasetBackData,
		SourceFile: "a.xlsx",
		SheetName:  "Back data",
		Columns:    []string{"손익 센터", "매출"},
		Rows: []model.FlatRow{
			{"손익 센터": "1010", "매출": 100.5},
			{"손익 센터": nil, "매출": "n/a"},
		},
		CodeNames: model.CodeNameMap{"1010": "Plant1"},
		AppliedAt: time.Now().UTC().Truncate(time.Second),
	}
	metas := []model.SheetMeta{{SheetName: "Back data", SheetType: model.SheetTypeBackData, Confidence: 1, Status: "imported"}}
	if err := st.ApplyDataset(ctx, first, logID, metas); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, err := st.GetDataset(ctx, model.DatasetBackData)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "ds-1" || !reflect.DeepEqual(got.Columns, first.Columns) || !reflect.DeepEqual(got.Rows, first.Rows) {
		t.Fatalf("unexpected dataset: %+v", got)
	}
	if got.CodeNames["1010"] != "Plant1" || !got.AppliedAt.Equal(first.AppliedAt) {
		t.Fatalf("unexpected code names / time: %+v", got)
	}

	second := &model.Dataset{ID: "ds-2", Kind: model.DatasetBackData, Rows: []model.FlatRow{}, AppliedAt: time.Now()}
	if err := st.ApplyDataset(ctx, second, 0, nil); err != nil {
		t.Fatalf("apply second: %v", err)
	}
	got, err = st.GetDataset(ctx, model.DatasetBackData)
	if err != nil || got.ID != "ds-2" || len(got.CodeNames) != 0 {
		t.Fatalf("second dataset: %+v err=%v", got, err)
	}

	infos, err := st.ListDatasets(ctx)
	if err != nil || len(infos) != 1 || infos[0].ID != "ds-2" {
		t.Fatalf("list datasets: %+v err=%v", infos, err)
	}

	logs, err := st.ListImportLogs(ctx, 10)
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs: %+v err=%v", logs, err)
	}
	if logs[0].Status != model.ImportApplied || logs[0].DatasetID != "ds-1" || logs[0].TotalRows != 2 {
		t.Fatalf("log: %+v", logs[0])
	}

	sheetMetas, err := st.ListSheetMeta(ctx, logID)
	if err != nil || len(sheetMetas) != 1 || sheetMetas[0].ImportLogID != logID {
		t.Fatalf("sheet metas: %+v err=%v", sheetMetas, err)
	}
}

func TestApplyDataset_InvalidKindKeepsPrevious(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := openTestStore(t)

	ok := &model.Dataset{ID: "keep", Kind: model.DatasetCostData, Rows: []model.FlatRow{{"a": 1.0}}, AppliedAt: time.Now()}
	if err := st.ApplyDataset(ctx, ok, 0, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := st.ApplyDataset(ctx, &model.Dataset{ID: "bad", Kind: "other"}, 0, nil); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	// 같은 id 충돌 → 트랜잭션 롤백
	dup := &model.Dataset{ID: "keep", Kind: model.DatasetBackData, AppliedAt: time.Now()}
	if err := st.ApplyDataset(ctx, dup, 0, nil); err == nil {
		t.Fatalf("expected primary key conflict")
	}
	if _, err := st.GetDataset(ctx, model.DatasetBackData); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed apply must not leave a dataset: %v", err)
	}
	got, err := st.GetDataset(ctx, model.DatasetCostData)
	if err != nil || got.ID != "keep" {
		t.Fatalf("previous dataset lost: %+v err=%v", got, err)
	}
}

func TestFailImportLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := openTestStore(t)

	id, err := st.CreateImportLog(ctx, model.DatasetCostData, "c.xlsx", "", 0, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.FailImportLog(ctx, id, 2, "boom"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	logs, err := st.ListImportLogs(ctx, 0)
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs: %+v err=%v", logs, err)
	}
	if logs[0].Status != model.ImportFailed || logs[0].ErrorMessage != "boom" || logs[0].TotalSheets != 2 {
		t.Fatalf("log: %+v", logs[0])
	}
}

func TestSettings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.GetSetting(ctx, SettingDimension); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.SetSettings(ctx, map[string]string{SettingDimension: "channel", SettingPeriod: "3"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.SetSettings(ctx, map[string]string{SettingPeriod: "all"}); err != nil {
		t.Fatalf("set again: %v", err)
	}
	all, err := st.AllSettings(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	want := map[string]string{SettingDimension: "channel", SettingPeriod: "all"}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("settings=%v", all)
	}
}
