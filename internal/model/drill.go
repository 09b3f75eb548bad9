package model

// PathItem 경로가 달린 말단 항목 (예: "매출액 > 국내매출액 > 제품매출")
type PathItem struct {
	Path string  `json:"path"`
	Cur  float64 `json:"cur"`
	Prev float64 `json:"prev"`
	Diff float64 `json:"diff"`
	Rate float64 `json:"rate"`
}

// DrillNode 특정 경로 깊이에서 합산된 노드
type DrillNode struct {
	Name   string  `json:"name"`
	Cur    float64 `json:"cur"`
	Prev   float64 `json:"prev"`
	Diff   float64 `json:"diff"`
	Rate   float64 `json:"rate"`
	Count  int     `json:"count"`
	Impact float64 `json:"impact"` // 상위 증감 대비 기여도 (%)

	HasNext bool `json:"hasNext"`
}
