package model

// MonthMeta 비용 데이터에서 인식한 월 컬럼
// Year/Month 가 0 이면 파싱 실패 (Label 은 원본 컬럼명)
type MonthMeta struct {
	Col   string `json:"col"`
	Label string `json:"label"`
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Index int    `json:"index"`
}

// Parsed 연/월 파싱 성공 여부
func (m MonthMeta) Parsed() bool {
	return m.Year != 0 && m.Month != 0
}
