package parser

import (
	"errors"
	"time"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

var (
	// ErrNoSheet 워크북에 시트가 없음
	ErrNoSheet = errors.New("workbook has no sheets")
	// ErrEmptySheet 헤더 아래에 데이터 행이 없음
	ErrEmptySheet = errors.New("sheet has no data rows")
)

// Sheet 헤더 순서와 행 데이터
type Sheet struct {
	Name      string          `json:"name"`
	Columns   []string        `json:"columns"`
	Rows      []model.FlatRow `json:"rows"`
	TotalRows int             `json:"totalRows"` // 헤더 제외, 빈 행 포함
}

// ParseResult 시트별 처리 결과
type ParseResult struct {
	SheetName    string          `json:"sheetName"`
	SheetType    model.SheetType `json:"sheetType"`
	Status       string          `json:"status"` // imported/skipped/error
	ImportedRows int             `json:"importedRows"`
	Errors       []string        `json:"errors,omitempty"`
	Duration     time.Duration   `json:"duration"`
}

// ImportReport 파일 단위 처리 결과
type ImportReport struct {
	Filename       string        `json:"filename"`
	TotalSheets    int           `json:"totalSheets"`
	ImportedSheets int           `json:"importedSheets"`
	SkippedSheets  int           `json:"skippedSheets"`
	TotalRows      int           `json:"totalRows"`
	ImportedRows   int           `json:"importedRows"`
	Duration       time.Duration `json:"duration"`
	Sheets         []ParseResult `json:"sheets"`
}
