package pl

import (
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// AvailablePeriods 기간 컬럼에 등장하는 값 (숫자 오름차순, 중복 제거)
func AvailablePeriods(rows []model.FlatRow, periodColumn string) []string {
	values := lo.FilterMap(rows, func(row model.FlatRow, _ int) (float64, bool) {
		if numfmt.IsBlank(row[periodColumn]) {
			return 0, false
		}
		return numfmt.Parse(row[periodColumn])
	})
	values = lo.Uniq(values)
	sort.Float64s(values)

	return lo.Map(values, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	})
}
