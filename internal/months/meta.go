// Package months 비용 데이터 월 컬럼 인식과 월별 집계
package months

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

var (
	monthHeaderPattern = regexp.MustCompile(`(20\d{2}.*\d{1,2}|^\d{4}-\d{2}$|^\d{4}\.\d{2}$|20\d{2}년\s*\d{1,2}월)`)
	yearMonthPattern   = regexp.MustCompile(`(20\d{2})\D?(\d{1,2})`)
)

// Options 숫자 밀도 기준 월 컬럼 추정 설정
type Options struct {
	DensityThreshold float64 `toml:"density_threshold" json:"densityThreshold"`
	SampleRows       int     `toml:"sample_rows" json:"sampleRows"`
}

// DefaultOptions 앞 50행 중 비어 있지 않은 값의 70% 이상이 숫자
func DefaultOptions() Options {
	return Options{DensityThreshold: 0.7, SampleRows: 50}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DensityThreshold <= 0 || o.DensityThreshold > 1 {
		o.DensityThreshold = d.DensityThreshold
	}
	if o.SampleRows <= 0 {
		o.SampleRows = d.SampleRows
	}
	return o
}

// IsMonthHeader 헤더 이름이 연/월 패턴인지
func IsMonthHeader(col string) bool {
	return monthHeaderPattern.MatchString(col)
}

// ExtractMonthMeta 월 컬럼을 찾아 라벨을 붙이고 정렬한다.
//
// columns 는 헤더 순서 그대로의 컬럼 목록이다. 헤더 이름이 연/월 패턴과 맞는 컬럼을
// 먼저 고르고, 하나도 없으면 숫자 밀도로 추정한다.
// 정렬은 비교하는 두 항목이 모두 연/월을 가질 때만 (연, 월) 순이고 아니면 원래 순서다.
func ExtractMonthMeta(rows []model.FlatRow, columns []string, opts Options) []model.MonthMeta {
	if len(rows) == 0 || len(columns) == 0 {
		return []model.MonthMeta{}
	}
	opts = opts.withDefaults()

	candidates := make([]string, 0)
	for _, col := range columns {
		if IsMonthHeader(col) {
			candidates = append(candidates, col)
		}
	}
	if len(candidates) == 0 {
		for _, col := range columns {
			if isDense(rows, col, opts) {
				candidates = append(candidates, col)
			}
		}
	}

	metas := make([]model.MonthMeta, 0, len(candidates))
	for idx, col := range candidates {
		metas = append(metas, parseMeta(col, idx))
	}
	sortMetas(metas)
	return metas
}

// ParseYearMonth 컬럼명에서 연/월 추출
func ParseYearMonth(col string) (year, month int, ok bool) {
	m := yearMonthPattern.FindStringSubmatch(col)
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	if year == 0 || month == 0 {
		return 0, 0, false
	}
	return year, month, true
}

// Label "YYYY-MM"
func Label(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func parseMeta(col string, idx int) model.MonthMeta {
	meta := model.MonthMeta{Col: col, Label: col, Index: idx}
	if year, month, ok := ParseYearMonth(col); ok {
		meta.Year = year
		meta.Month = month
		meta.Label = Label(year, month)
	}
	return meta
}

func isDense(rows []model.FlatRow, col string, opts Options) bool {
	limit := min(len(rows), opts.SampleRows)
	nonEmpty, numeric := 0, 0
	for i := 0; i < limit; i++ {
		v := rows[i][col]
		if numfmt.IsBlank(v) {
			continue
		}
		nonEmpty++
		if numfmt.IsNumeric(v) {
			numeric++
		}
	}
	return nonEmpty > 0 && float64(numeric)/float64(nonEmpty) >= opts.DensityThreshold
}

func less(a, b model.MonthMeta) bool {
	if a.Parsed() && b.Parsed() {
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	}
	return a.Index < b.Index
}

// 비교 함수가 전순서가 아니라서 삽입 정렬로 결과를 고정한다
func sortMetas(metas []model.MonthMeta) {
	for i := 1; i < len(metas); i++ {
		for j := i; j > 0 && less(metas[j], metas[j-1]); j-- {
			metas[j], metas[j-1] = metas[j-1], metas[j]
		}
	}
}

// Find label 과 같은 월. 없으면 마지막 월, 월이 없으면 ok=false.
func Find(metas []model.MonthMeta, label string) (model.MonthMeta, bool) {
	if len(metas) == 0 {
		return model.MonthMeta{}, false
	}
	for _, m := range metas {
		if m.Label == label {
			return m, true
		}
	}
	return metas[len(metas)-1], true
}

// DefaultMonth 선택된 월이 목록에 없을 때 쓰는 마지막 월 라벨
func DefaultMonth(metas []model.MonthMeta) string {
	if len(metas) == 0 {
		return ""
	}
	return metas[len(metas)-1].Label
}

// Labels 월 라벨 목록
func Labels(metas []model.MonthMeta) []string {
	out := make([]string, len(metas))
	for i, m := range metas {
		out[i] = m.Label
	}
	return out
}
