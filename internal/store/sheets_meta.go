package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

// InsertSheetMeta 시트 인식 결과 기록 (실패한 업로드 추적용)
func (s *Store) InsertSheetMeta(ctx context.Context, meta model.SheetMeta) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertSheetMeta(ctx, tx, meta)
	})
}

func insertSheetMeta(ctx context.Context, tx *sql.Tx, meta model.SheetMeta) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sheets_meta (
			import_log_id, sheet_name, sheet_type, confidence,
			total_rows, total_columns, imported_rows,
			columns_json, status, error_message, source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		meta.ImportLogID, meta.SheetName, meta.SheetType, meta.Confidence,
		meta.TotalRows, meta.TotalColumns, meta.ImportedRows,
		meta.ColumnsJSON, meta.Status, meta.ErrorMessage, meta.SourceFile,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sheets_meta: %w", err)
	}
	return nil
}

// ListSheetMeta 업로드 한 건의 시트 목록
func (s *Store) ListSheetMeta(ctx context.Context, importLogID int64) ([]model.SheetMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sheet_name, sheet_type, confidence, total_rows, total_columns, imported_rows,
			columns_json, status, error_message, import_log_id, source_file
		FROM sheets_meta WHERE import_log_id = ? ORDER BY id
	`, importLogID)
	if err != nil {
		return nil, fmt.Errorf("query sheets_meta: %w", err)
	}
	defer rows.Close()

	out := make([]model.SheetMeta, 0)
	for rows.Next() {
		var m model.SheetMeta
		if err := rows.Scan(&m.SheetName, &m.SheetType, &m.Confidence, &m.TotalRows, &m.TotalColumns, &m.ImportedRows,
			&m.ColumnsJSON, &m.Status, &m.ErrorMessage, &m.ImportLogID, &m.SourceFile); err != nil {
			return nil, fmt.Errorf("scan sheets_meta: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// BuildColumnsJSON 컬럼명 JSON
func BuildColumnsJSON(columns []string) string {
	b, err := json.Marshal(columns)
	if err != nil {
		return "[]"
	}
	return string(b)
}
