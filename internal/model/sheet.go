package model

// SheetType 워크시트 유형
type SheetType string

const (
	SheetTypeUnknown    SheetType = "unknown"
	SheetTypeBackData   SheetType = "back_data"   // P&L Back data
	SheetTypeCodeMap    SheetType = "code_map"    // 코드분류표
	SheetTypeCostLedger SheetType = "cost_ledger" // 코스트센터 월별 비용
)

// SheetRecognition 단일 시트 인식 결과
type SheetRecognition struct {
	SheetName     string    `json:"sheetName"`
	Type          SheetType `json:"type"`
	Score         float64   `json:"score"`
	MissingFields []string  `json:"missingFields,omitempty"`
}

// SheetMeta 시트 메타 정보 (추적용)
type SheetMeta struct {
	SheetName    string
	SheetType    SheetType
	Confidence   float64
	TotalRows    int
	TotalColumns int
	ImportedRows int
	ColumnsJSON  string
	Status       string // imported/skipped/error
	ErrorMessage string
	ImportLogID  int64
	SourceFile   string
}
