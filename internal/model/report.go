package model

// GroupedRow 분류 기준별 손익 집계 한 줄
type GroupedRow struct {
	Name            string  `json:"name"`
	Sales           float64 `json:"sales"`
	COGS            float64 `json:"cogs"`
	GrossProfit     float64 `json:"grossProfit"`
	SGA             float64 `json:"sga"`
	OperatingIncome float64 `json:"operatingIncome"`
	NonOpRev        float64 `json:"nonOpRev"`
	NonOpExp        float64 `json:"nonOpExp"`
	NonOpProfit     float64 `json:"nonOpProfit"`
	Tax             float64 `json:"tax"`
	PreTax          float64 `json:"preTax"`
	NetIncome       float64 `json:"netIncome"`
	OpMargin        float64 `json:"opMargin"`  // %
	NetMargin       float64 `json:"netMargin"` // %
}
