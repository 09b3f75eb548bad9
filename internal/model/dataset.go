package model

import "time"

// DatasetKind 업로드 데이터 종류
type DatasetKind string

const (
	DatasetBackData DatasetKind = "back_data" // 결산보고서 Back data (P&L)
	DatasetCostData DatasetKind = "cost_data" // 코스트센터 비용 원장
)

// Valid 알려진 종류인지 여부
func (k DatasetKind) Valid() bool {
	return k == DatasetBackData || k == DatasetCostData
}

// Dataset 현재 적용된 업로드 스냅샷
type Dataset struct {
	ID         string      `json:"id"`
	Kind       DatasetKind `json:"kind"`
	SourceFile string      `json:"sourceFile"`
	SheetName  string      `json:"sheetName"`
	Columns    []string    `json:"columns"` // 헤더 순서
	Rows       []FlatRow   `json:"rows"`
	CodeNames  CodeNameMap `json:"codeNames,omitempty"`
	AppliedAt  time.Time   `json:"appliedAt"`
}
