// Package pl 결산 P&L Back data 집계
package pl

import (
	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// DefaultPeriodColumn 전기 기간 컬럼
const DefaultPeriodColumn = "전기 기간"

// ColumnSets 손익 버킷별 합산 컬럼
type ColumnSets struct {
	Sales    model.ColumnSet `toml:"sales" json:"sales"`
	COGS     model.ColumnSet `toml:"cogs" json:"cogs"`
	SGA      model.ColumnSet `toml:"sga" json:"sga"`
	NonOpRev model.ColumnSet `toml:"nonop_rev" json:"nonOpRev"`
	NonOpExp model.ColumnSet `toml:"nonop_exp" json:"nonOpExp"`
	Tax      model.ColumnSet `toml:"tax" json:"tax"`
}

// DefaultColumnSets Back data 표준 계정 묶음
func DefaultColumnSets() ColumnSets {
	return ColumnSets{
		Sales: model.ColumnSet{
			"매출액-일반-제품",
			"매출액-일반-상품",
			"매출액-일반-설비",
			"매출액-일반-시작차",
			"매출액-일반-부산물",
			"매출액-일반-기타매출",
			"매출액-일반-기타",
			"매출액-일반-사급",
			"매출액-일반-유상사급",
		},
		COGS: model.ColumnSet{"(제실)매출원가(A)", "기타매출원가"},
		SGA: model.ColumnSet{
			"(판)급여",
			"(판)퇴직급여",
			"(판)복리후생비",
			"(판)여비교통비",
			"(판)광고선전비",
			"(판)사무용품비",
			"(판)인쇄료",
			"(판)잡비",
			"(판)대손상각비",
			"(판)수도광열비",
			"(판)통신비",
			"(판)수선비",
			"(판)차량유지비",
			"(판)세금과공과",
			"(판)감가상각비",
			"(판)보험료",
			"(판)교육훈련비",
			"(판)용역비",
			"(판)수출제비용",
			"(판)무형자산상각비",
			"(판)지급임차료",
			"판관기타",
			"수동-판관관리",
		},
		NonOpRev: model.ColumnSet{
			"(영수)이자수익",
			"(영수)임대료",
			"(영수)유가증권처분이익",
			"(영수)에펙처분이익",
			"(영수)외환차익",
			"(영수)외화환산이익",
			"(영수)잡이익",
			"영업외수익-기타",
		},
		NonOpExp: model.ColumnSet{
			"(영비)외환차손",
			"(영비)이자비용",
			"(영비)잡손실",
			"(영비)기부금",
			"(영비)장기투자증권평가손실",
			"(영비)당기손익인식자산평가손실",
			"(영비)당기손익인식자산처분손실",
			"(영비)파생상품자산거래손실",
			"(영비)파생상품자산평가손실",
			"(영비)유형자산처분손실",
			"(영비)종속기업투자손상차손",
			"(영비)외화환산손실",
			"영업외비용기타",
		},
		Tax: model.ColumnSet{"법인세비용"},
	}
}

// WithDefaults 비어 있는 버킷을 기본값으로 채운다.
func (s ColumnSets) WithDefaults() ColumnSets {
	d := DefaultColumnSets()
	if len(s.Sales) == 0 {
		s.Sales = d.Sales
	}
	if len(s.COGS) == 0 {
		s.COGS = d.COGS
	}
	if len(s.SGA) == 0 {
		s.SGA = d.SGA
	}
	if len(s.NonOpRev) == 0 {
		s.NonOpRev = d.NonOpRev
	}
	if len(s.NonOpExp) == 0 {
		s.NonOpExp = d.NonOpExp
	}
	if len(s.Tax) == 0 {
		s.Tax = d.Tax
	}
	return s
}

// SumColumns cols 에 해당하는 값의 합. 없는 컬럼/숫자가 아닌 값은 0.
func SumColumns(row model.FlatRow, cols model.ColumnSet) float64 {
	var total float64
	for _, col := range cols {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		total += numfmt.ToNumber(v)
	}
	return total
}
