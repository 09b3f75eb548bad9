package importer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
	"github.com/Kr-EIVEN/hosting-project/internal/parser"
)

// SourceBackend 백엔드 초기 데이터로 적용한 스냅샷의 SourceFile
const SourceBackend = "backend:init-data"

// FetchedData 파일 없이 백엔드에서 받은 행
type FetchedData struct {
	Kind      model.DatasetKind
	Rows      []map[string]any
	CodeNames model.CodeNameMap
}

// ApplyFetched 받은 행을 업로드와 같은 경로로 스냅샷에 적용한다.
// 행이 없으면 아무것도 하지 않고 nil, nil.
func (c *Coordinator) ApplyFetched(ctx context.Context, data FetchedData) (*Result, error) {
	if !data.Kind.Valid() {
		return nil, fmt.Errorf("unknown dataset kind %q", data.Kind)
	}
	if len(data.Rows) == 0 {
		return nil, nil
	}
	start := time.Now()
	log := c.logger.With(zap.String("kind", string(data.Kind)), zap.String("file", SourceBackend))

	columns, rows := flattenRows(data.Rows)
	logID, err := c.store.CreateImportLog(ctx, data.Kind, SourceBackend, "", 0, "")
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{
		ID:         uuid.NewString(),
		Kind:       data.Kind,
		SourceFile: SourceBackend,
		Columns:    columns,
		Rows:       rows,
		CodeNames:  data.CodeNames,
		AppliedAt:  time.Now(),
	}
	var monthMeta []model.MonthMeta
	if data.Kind == model.DatasetCostData {
		monthMeta = months.ExtractMonthMeta(rows, columns, c.months)
	}

	meta := model.SheetMeta{
		SheetName:    SourceBackend,
		SheetType:    sheetTypeOf(data.Kind),
		Confidence:   1,
		TotalRows:    len(rows),
		TotalColumns: len(columns),
		ImportedRows: len(rows),
		Status:       "imported",
		SourceFile:   SourceBackend,
	}
	if err := c.store.ApplyDataset(ctx, ds, logID, []model.SheetMeta{meta}); err != nil {
		if ferr := c.store.FailImportLog(context.WithoutCancel(ctx), logID, 1, err.Error()); ferr != nil {
			log.Warn("failed to mark import failed", zap.Error(ferr))
		}
		return nil, err
	}

	report := &parser.ImportReport{
		Filename:       SourceBackend,
		TotalSheets:    1,
		ImportedSheets: 1,
		TotalRows:      len(rows),
		ImportedRows:   len(rows),
		Duration:       time.Since(start),
		Sheets: []parser.ParseResult{{
			SheetName:    SourceBackend,
			SheetType:    meta.SheetType,
			Status:       "imported",
			ImportedRows: len(rows),
			Duration:     time.Since(start),
		}},
	}
	log.Info("fetched dataset applied", zap.String("dataset_id", ds.ID), zap.Int("rows", len(rows)))
	return &Result{
		DatasetID:   ds.ID,
		Kind:        ds.Kind,
		ImportLogID: logID,
		Months:      monthMeta,
		Report:      report,
	}, nil
}

func sheetTypeOf(kind model.DatasetKind) model.SheetType {
	if kind == model.DatasetCostData {
		return model.SheetTypeCostLedger
	}
	return model.SheetTypeBackData
}

// flattenRows JSON 객체에는 키 순서가 없으므로 컬럼은 이름순.
// 값은 float64 / string / nil 로 맞춘다.
func flattenRows(in []map[string]any) ([]string, []model.FlatRow) {
	seen := make(map[string]struct{})
	rows := make([]model.FlatRow, 0, len(in))
	for _, r := range in {
		if r == nil {
			continue
		}
		row := make(model.FlatRow, len(r))
		for k, v := range r {
			seen[k] = struct{}{}
			row[k] = flatValue(v)
		}
		rows = append(rows, row)
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns, rows
}

func flatValue(v any) any {
	switch x := v.(type) {
	case nil, float64, string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}
