package pl

// Dimension 분류 기준
type Dimension struct {
	ID     string `toml:"id" json:"id"`
	Label  string `toml:"label" json:"label"`
	Column string `toml:"column" json:"column"`
}

// DefaultDimensions 손익센터 / 계층구조 / 평가클래스 / 유통경로 / 대표차종
func DefaultDimensions() []Dimension {
	return []Dimension{
		{ID: "profitCenter", Label: "손익센터", Column: "손익 센터"},
		{ID: "hierarchy", Label: "계층구조(Prod.계층구조01-2)", Column: "Prod.계층구조01-2"},
		{ID: "evalClass", Label: "평가클래스", Column: "평가클래스"},
		{ID: "channel", Label: "유통경로", Column: "유통 경로"},
		{ID: "vehicle", Label: "대표차종(차종)", Column: "대표차종"},
	}
}

// FindDimension id 로 분류 기준 검색
func FindDimension(dims []Dimension, id string) (Dimension, bool) {
	for _, d := range dims {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}
