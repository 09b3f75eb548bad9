package model

import "time"

// ImportStatus 업로드 처리 상태
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportApplied    ImportStatus = "applied"
	ImportFailed     ImportStatus = "failed"
)

// ImportLog 업로드 이력
type ImportLog struct {
	ID           int64        `json:"id"`
	Kind         DatasetKind  `json:"kind"`
	Filename     string       `json:"filename"`
	FileSize     int64        `json:"fileSize"`
	FileHash     string       `json:"fileHash"`
	DatasetID    string       `json:"datasetId,omitempty"`
	TotalSheets  int          `json:"totalSheets"`
	TotalRows    int          `json:"totalRows"`
	Status       ImportStatus `json:"status"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}
