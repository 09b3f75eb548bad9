package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

// DatasetInfo 행 데이터를 뺀 스냅샷 요약
type DatasetInfo struct {
	ID          string            `json:"id"`
	Kind        model.DatasetKind `json:"kind"`
	SourceFile  string            `json:"sourceFile"`
	SheetName   string            `json:"sheetName"`
	RowCount    int               `json:"rowCount"`
	ImportLogID int64             `json:"importLogId"`
	AppliedAt   string            `json:"appliedAt"`
}

// ApplyDataset 한 트랜잭션 안에서 같은 종류의 스냅샷을 교체하고,
// 시트 메타를 기록하고, 업로드 이력을 applied 로 바꾼다.
// 중간에 실패하면 이전 스냅샷이 그대로 남는다.
func (s *Store) ApplyDataset(ctx context.Context, ds *model.Dataset, importLogID int64, metas []model.SheetMeta) error {
	if !ds.Kind.Valid() {
		return fmt.Errorf("unknown dataset kind %q", ds.Kind)
	}

	columnsJSON, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}
	rowsJSON, err := json.Marshal(ds.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	codes := ds.CodeNames
	if codes == nil {
		codes = model.CodeNameMap{}
	}
	codesJSON, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("marshal code names: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE kind = ?`, ds.Kind); err != nil {
			return fmt.Errorf("delete previous dataset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO datasets (
				id, kind, source_file, sheet_name,
				columns_json, rows_json, code_names_json,
				row_count, import_log_id, applied_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			ds.ID, ds.Kind, ds.SourceFile, ds.SheetName,
			string(columnsJSON), string(rowsJSON), string(codesJSON),
			len(ds.Rows), importLogID, ds.AppliedAt,
		); err != nil {
			return fmt.Errorf("insert dataset: %w", err)
		}

		for _, meta := range metas {
			meta.ImportLogID = importLogID
			if err := insertSheetMeta(ctx, tx, meta); err != nil {
				return err
			}
		}

		if importLogID > 0 {
			if _, err := tx.ExecContext(ctx, `
				UPDATE import_logs SET
					status = ?, dataset_id = ?, total_rows = ?, completed_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, model.ImportApplied, ds.ID, len(ds.Rows), importLogID); err != nil {
				return fmt.Errorf("mark import applied: %w", err)
			}
		}
		return nil
	})
}

// GetDataset kind 의 현재 스냅샷. 없으면 ErrNotFound.
func (s *Store) GetDataset(ctx context.Context, kind model.DatasetKind) (*model.Dataset, error) {
	var (
		ds                               model.Dataset
		columnsJSON, rowsJSON, codesJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, source_file, sheet_name, columns_json, rows_json, code_names_json, applied_at
		FROM datasets WHERE kind = ?
	`, kind).Scan(&ds.ID, &ds.Kind, &ds.SourceFile, &ds.SheetName, &columnsJSON, &rowsJSON, &codesJSON, &ds.AppliedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %s: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query dataset %s: %w", kind, err)
	}

	if err := json.Unmarshal([]byte(columnsJSON), &ds.Columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &ds.Rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if err := json.Unmarshal([]byte(codesJSON), &ds.CodeNames); err != nil {
		return nil, fmt.Errorf("decode code names: %w", err)
	}
	return &ds, nil
}

// ListDatasets 적용된 스냅샷 요약 (행 데이터 제외)
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, source_file, sheet_name, row_count, COALESCE(import_log_id, 0), applied_at
		FROM datasets ORDER BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	out := make([]DatasetInfo, 0, 2)
	for rows.Next() {
		var (
			info DatasetInfo
			at   sql.NullTime
		)
		if err := rows.Scan(&info.ID, &info.Kind, &info.SourceFile, &info.SheetName, &info.RowCount, &info.ImportLogID, &at); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		if at.Valid {
			info.AppliedAt = at.Time.Format("2006-01-02 15:04:05")
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
