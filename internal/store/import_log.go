package store

import (
	"context"
	"fmt"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

// CreateImportLog processing 상태 이력 생성, id 반환
func (s *Store) CreateImportLog(ctx context.Context, kind model.DatasetKind, filename, filePath string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (kind, filename, file_path, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, kind, filename, filePath, fileSize, fileHash, model.ImportProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FailImportLog 실패 처리. 적용된 스냅샷은 건드리지 않는다.
func (s *Store) FailImportLog(ctx context.Context, id int64, totalSheets int, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			total_sheets = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalSheets, model.ImportFailed, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// SetImportSheets 시트 수 기록
func (s *Store) SetImportSheets(ctx context.Context, id int64, totalSheets int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE import_logs SET total_sheets = ? WHERE id = ?`, totalSheets, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 최근 이력 (최신순)
func (s *Store) ListImportLogs(ctx context.Context, limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, filename, file_size, file_hash, dataset_id,
			total_sheets, total_rows, status, error_message, created_at
		FROM import_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs: %w", err)
	}
	defer rows.Close()

	out := make([]model.ImportLog, 0)
	for rows.Next() {
		var l model.ImportLog
		if err := rows.Scan(&l.ID, &l.Kind, &l.Filename, &l.FileSize, &l.FileHash, &l.DatasetID,
			&l.TotalSheets, &l.TotalRows, &l.Status, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
