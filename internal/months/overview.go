package months

import "github.com/Kr-EIVEN/hosting-project/internal/model"

// Overview 비용 개요 화면 데이터
type Overview struct {
	Month          string            `json:"month"`
	Months         []model.MonthMeta `json:"months"`
	MonthlyTotals  []MonthTotal      `json:"monthlyTotals"`
	KPI            KPI               `json:"kpi"`
	AccountGroups  []NamedValue      `json:"accountGroups"`
	TopCostCenters []NamedValue      `json:"topCostCenters"`
}

// BuildOverview selected 가 월 목록에 없으면 마지막 월을 쓴다.
func BuildOverview(rows []model.FlatRow, columns []string, metas []model.MonthMeta, selected string) *Overview {
	ov := &Overview{
		Months:         metas,
		MonthlyTotals:  MonthlyTotals(rows, metas),
		AccountGroups:  []NamedValue{},
		TopCostCenters: []NamedValue{},
	}
	meta, ok := Find(metas, selected)
	if !ok {
		return ov
	}
	ov.Month = meta.Label
	ov.KPI = ComputeKPI(ov.MonthlyTotals, meta.Label)
	ov.AccountGroups = AccountGroupShare(rows, columns, meta)
	ov.TopCostCenters = TopCostCenters(rows, columns, meta, TopCenters)
	return ov
}
