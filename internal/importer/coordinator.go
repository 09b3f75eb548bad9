// Package importer 업로드 파일을 파싱해 스냅샷으로 적용하고 진행 상황을 스트리밍한다.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
	"github.com/Kr-EIVEN/hosting-project/internal/parser"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// 이벤트 종류
const (
	EventStart     = "start"
	EventInfo      = "info"
	EventSheetDone = "sheet_done"
	EventWarning   = "warning"
	EventError     = "error"
	EventDone      = "done"
)

// Config 시트 판별/월 컬럼 인식 설정
type Config struct {
	PeriodColumn     string
	DimensionColumns []string
	Months           months.Options
}

// Coordinator 업로드 코디네이터
type Coordinator struct {
	store      *store.Store
	recognizer *parser.SheetRecognizer
	months     months.Options
	logger     *zap.Logger
}

// NewCoordinator 코디네이터 생성
func NewCoordinator(st *store.Store, cfg Config, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:      st,
		recognizer: parser.NewSheetRecognizer(cfg.PeriodColumn, cfg.DimensionColumns),
		months:     cfg.Months,
		logger:     logger,
	}
}

// ImportOptions 업로드 옵션
type ImportOptions struct {
	Kind     model.DatasetKind
	FilePath string
	Filename string // 원본 파일명, 비어 있으면 FilePath 의 base
}

// ProgressEvent 진행 이벤트
type ProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result done 이벤트 데이터
type Result struct {
	DatasetID   string               `json:"datasetId"`
	Kind        model.DatasetKind    `json:"kind"`
	ImportLogID int64                `json:"importLogId"`
	Months      []model.MonthMeta    `json:"months,omitempty"`
	Report      *parser.ImportReport `json:"report"`
}

type importContext struct {
	opts     ImportOptions
	file     *excelize.File
	logID    int64
	report   *parser.ImportReport
	metas    []model.SheetMeta
	progress chan ProgressEvent
}

// Import 백그라운드에서 업로드를 처리하고 진행 채널을 돌려준다.
// 채널은 error 또는 done 이벤트 뒤에 닫힌다.
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)

	go func() {
		defer close(progress)
		c.doImport(ctx, opts, progress)
	}()

	return progress
}

func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progress chan ProgressEvent) {
	start := time.Now()
	if opts.Filename == "" {
		opts.Filename = filepath.Base(opts.FilePath)
	}
	ic := &importContext{
		opts:     opts,
		progress: progress,
		report:   &parser.ImportReport{Filename: opts.Filename, Sheets: []parser.ParseResult{}},
	}
	log := c.logger.With(zap.String("kind", string(opts.Kind)), zap.String("file", opts.Filename))

	c.send(ic, EventStart, "업로드 처리 시작", map[string]string{"filename": opts.Filename, "kind": string(opts.Kind)})

	if !opts.Kind.Valid() {
		c.fail(ctx, ic, log, fmt.Errorf("unknown dataset kind %q", opts.Kind))
		return
	}

	size, hash, err := fileDigest(opts.FilePath)
	if err != nil {
		c.fail(ctx, ic, log, fmt.Errorf("파일 읽기 실패: %w", err))
		return
	}
	ic.logID, err = c.store.CreateImportLog(ctx, opts.Kind, opts.Filename, opts.FilePath, size, hash)
	if err != nil {
		c.fail(ctx, ic, log, err)
		return
	}

	f, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		c.fail(ctx, ic, log, fmt.Errorf("파일 열기 실패: %w", err))
		return
	}
	defer f.Close()
	ic.file = f

	sheets := f.GetSheetList()
	ic.report.TotalSheets = len(sheets)
	if err := c.store.SetImportSheets(ctx, ic.logID, len(sheets)); err != nil {
		log.Warn("failed to record sheet count", zap.Error(err))
	}
	c.send(ic, EventInfo, fmt.Sprintf("시트 %d개 발견", len(sheets)), map[string]any{"total_sheets": len(sheets)})

	recognitions := c.recognize(ic, sheets)

	var (
		ds        *model.Dataset
		used      map[string]int
		monthMeta []model.MonthMeta
	)
	switch opts.Kind {
	case model.DatasetBackData:
		ds, used, err = c.parseBackData(ic)
	case model.DatasetCostData:
		ds, used, monthMeta, err = c.parseCostData(ic)
	}
	if err != nil {
		c.fail(ctx, ic, log, err)
		return
	}
	if err := ctx.Err(); err != nil {
		c.fail(ctx, ic, log, err)
		return
	}

	for _, name := range sheets {
		rec := recognitions[name]
		if rows, ok := used[name]; ok {
			c.record(ic, rec, "imported", rows, start)
			c.send(ic, EventSheetDone, fmt.Sprintf("시트 \"%s\" 적용: %s행", name, numfmt.Number(rows)), map[string]any{
				"sheet_name":    name,
				"sheet_type":    rec.Type,
				"imported_rows": rows,
			})
			continue
		}
		c.record(ic, rec, "skipped", 0, start)
	}

	ds.ID = uuid.NewString()
	ds.Kind = opts.Kind
	ds.SourceFile = opts.Filename
	ds.AppliedAt = time.Now()

	if err := c.store.ApplyDataset(ctx, ds, ic.logID, ic.metas); err != nil {
		// 적용 실패 시 메타는 실패 이력 쪽에 남긴다
		c.fail(ctx, ic, log, err)
		return
	}

	ic.report.Duration = time.Since(start)
	log.Info("dataset applied",
		zap.String("dataset_id", ds.ID),
		zap.Int("rows", len(ds.Rows)),
		zap.Duration("duration", ic.report.Duration),
	)
	c.sendFinal(ctx, ic, EventDone, "업로드 완료", &Result{
		DatasetID:   ds.ID,
		Kind:        ds.Kind,
		ImportLogID: ic.logID,
		Months:      monthMeta,
		Report:      ic.report,
	})
}

// recognize 시트별 유형 판별 결과를 info 이벤트로 알린다
func (c *Coordinator) recognize(ic *importContext, sheets []string) map[string]model.SheetRecognition {
	out := make(map[string]model.SheetRecognition, len(sheets))
	for _, name := range sheets {
		header, err := parser.HeaderRow(ic.file, name)
		if err != nil {
			c.send(ic, EventWarning, fmt.Sprintf("시트 \"%s\" 헤더 읽기 실패: %v", name, err), nil)
			out[name] = model.SheetRecognition{SheetName: name, Type: model.SheetTypeUnknown}
			continue
		}
		rec := c.recognizer.Recognize(name, header)
		out[name] = rec
		c.send(ic, EventInfo, fmt.Sprintf("시트 \"%s\" 인식: %s (%.2f)", name, rec.Type, rec.Score), map[string]any{
			"sheet_name": name,
			"sheet_type": rec.Type,
			"confidence": rec.Score,
		})
	}
	return out
}

func (c *Coordinator) parseBackData(ic *importContext) (*model.Dataset, map[string]int, error) {
	bd, err := parser.ParseBackData(ic.file)
	if err != nil {
		return nil, nil, err
	}
	used := map[string]int{bd.Sheet.Name: len(bd.Sheet.Rows)}
	if bd.CodeMapSheet != "" {
		used[bd.CodeMapSheet] = len(bd.CodeNames)
		c.send(ic, EventInfo, fmt.Sprintf("코드분류표 %d건", len(bd.CodeNames)), map[string]any{
			"sheet_name": bd.CodeMapSheet,
			"codes":      len(bd.CodeNames),
		})
	} else {
		c.send(ic, EventWarning, "코드분류표 시트가 없어 코드명을 표시할 수 없습니다", nil)
	}
	return &model.Dataset{
		SheetName: bd.Sheet.Name,
		Columns:   bd.Sheet.Columns,
		Rows:      bd.Sheet.Rows,
		CodeNames: bd.CodeNames,
	}, used, nil
}

func (c *Coordinator) parseCostData(ic *importContext) (*model.Dataset, map[string]int, []model.MonthMeta, error) {
	sheet, err := parser.ParseCostLedger(ic.file)
	if err != nil {
		return nil, nil, nil, err
	}
	metas := months.ExtractMonthMeta(sheet.Rows, sheet.Columns, c.months)
	if len(metas) == 0 {
		c.send(ic, EventWarning, "월 컬럼을 찾지 못했습니다", map[string]any{"sheet_name": sheet.Name})
	} else {
		c.send(ic, EventInfo, fmt.Sprintf("월 컬럼 %d개 인식 (%s ~ %s)", len(metas), metas[0].Label, metas[len(metas)-1].Label), map[string]any{
			"sheet_name": sheet.Name,
			"months":     months.Labels(metas),
		})
	}
	return &model.Dataset{
		SheetName: sheet.Name,
		Columns:   sheet.Columns,
		Rows:      sheet.Rows,
	}, map[string]int{sheet.Name: len(sheet.Rows)}, metas, nil
}

// fail 이력을 실패로 닫는다. 요청이 취소돼도 기록은 남긴다.
func (c *Coordinator) fail(ctx context.Context, ic *importContext, log *zap.Logger, err error) {
	log.Error("import failed", zap.Error(err))
	if ic.logID > 0 {
		bg := context.WithoutCancel(ctx)
		if ferr := c.store.FailImportLog(bg, ic.logID, ic.report.TotalSheets, err.Error()); ferr != nil {
			log.Warn("failed to mark import failed", zap.Error(ferr))
		}
		for _, meta := range ic.metas {
			meta.ImportLogID = ic.logID
			if merr := c.store.InsertSheetMeta(bg, meta); merr != nil {
				log.Warn("failed to record sheet meta", zap.Error(merr))
				break
			}
		}
	}
	c.sendFinal(ctx, ic, EventError, errorMessage(err), map[string]any{"importLogId": ic.logID})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, parser.ErrNoSheet):
		return "워크북에 시트가 없습니다"
	case errors.Is(err, parser.ErrEmptySheet):
		return fmt.Sprintf("데이터 행이 없습니다: %v", err)
	case errors.Is(err, context.Canceled):
		return "업로드가 취소되었습니다"
	default:
		return err.Error()
	}
}

// record 시트 결과를 보고서와 메타에 반영
func (c *Coordinator) record(ic *importContext, rec model.SheetRecognition, status string, rows int, start time.Time) {
	ic.report.Sheets = append(ic.report.Sheets, parser.ParseResult{
		SheetName:    rec.SheetName,
		SheetType:    rec.Type,
		Status:       status,
		ImportedRows: rows,
		Duration:     time.Since(start),
	})
	switch status {
	case "imported":
		ic.report.ImportedSheets++
		ic.report.ImportedRows += rows
	case "skipped":
		ic.report.SkippedSheets++
	}
	ic.report.TotalRows += rows

	var columns []string
	if ic.file != nil {
		columns, _ = parser.HeaderRow(ic.file, rec.SheetName)
	}
	ic.metas = append(ic.metas, model.SheetMeta{
		SheetName:    rec.SheetName,
		SheetType:    rec.Type,
		Confidence:   rec.Score,
		TotalColumns: len(columns),
		TotalRows:    rows,
		ImportedRows: rows,
		ColumnsJSON:  store.BuildColumnsJSON(columns),
		Status:       status,
		SourceFile:   ic.opts.Filename,
	})
}

// send 채널이 가득 차면 버린다
func (c *Coordinator) send(ic *importContext, typ, msg string, data any) {
	select {
	case ic.progress <- ProgressEvent{Type: typ, Message: msg, Data: data, Timestamp: time.Now()}:
	default:
	}
}

// sendFinal 종료 이벤트는 버리지 않는다
func (c *Coordinator) sendFinal(ctx context.Context, ic *importContext, typ, msg string, data any) {
	select {
	case ic.progress <- ProgressEvent{Type: typ, Message: msg, Data: data, Timestamp: time.Now()}:
	case <-ctx.Done():
	}
}

func fileDigest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
