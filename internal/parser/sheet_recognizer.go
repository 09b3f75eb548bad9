package parser

import (
	"regexp"
	"strings"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/months"
)

var codeMapSheetRe = regexp.MustCompile(`(?i)코드분류표|code.?map|코드맵`)

// Back data 시트 이름 (우선순위 순)
var backDataSheetNames = []string{"Back data", "BackData"}

// 코드분류표 코드/내역 컬럼 동의어 (앞쪽 우선)
var (
	codeColumns = []string{"코드", "계정코드", "코스트센터", "코드값", "Code"}
	nameColumns = []string{"내역", "계정명", "코스트센터명", "Name", "설명"}
)

// SheetRecognizer 시트 유형 판별
type SheetRecognizer struct {
	backDataFields []string
	ledgerFields   []string
}

// NewSheetRecognizer periodColumn/dimensionColumns 는 Back data 판별에 쓰는 핵심 컬럼
func NewSheetRecognizer(periodColumn string, dimensionColumns []string) *SheetRecognizer {
	fields := make([]string, 0, len(dimensionColumns)+2)
	fields = append(fields, NormalizeColumnName(periodColumn))
	for _, c := range dimensionColumns {
		fields = append(fields, NormalizeColumnName(c))
	}
	fields = append(fields, "매출액")
	return &SheetRecognizer{
		backDataFields: fields,
		ledgerFields:   []string{"코스트센터|costcenter", "계정|account"},
	}
}

// Recognize 시트 이름과 헤더로 유형을 판별한다. 점수는 0~1.
func (r *SheetRecognizer) Recognize(sheetName string, columnNames []string) model.SheetRecognition {
	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeColumnName(col)
	}

	if res := r.recognizeCodeMap(sheetName, normalized); res.Score >= 0.5 {
		return res
	}
	if res := r.recognizeBackData(sheetName, normalized); res.Score >= 0.5 {
		return res
	}
	if res := r.recognizeCostLedger(sheetName, columnNames, normalized); res.Score >= 0.5 {
		return res
	}
	return model.SheetRecognition{SheetName: sheetName, Type: model.SheetTypeUnknown}
}

func (r *SheetRecognizer) recognizeCodeMap(sheetName string, columns []string) model.SheetRecognition {
	res := model.SheetRecognition{SheetName: sheetName, Type: model.SheetTypeCodeMap}
	if !codeMapSheetRe.MatchString(sheetName) {
		return model.SheetRecognition{SheetName: sheetName, Type: model.SheetTypeUnknown}
	}
	res.Score = 0.6
	if hasAnyColumn(columns, codeColumns) {
		res.Score += 0.2
	} else {
		res.MissingFields = append(res.MissingFields, "코드")
	}
	if hasAnyColumn(columns, nameColumns) {
		res.Score += 0.2
	} else {
		res.MissingFields = append(res.MissingFields, "내역")
	}
	return res
}

func (r *SheetRecognizer) recognizeBackData(sheetName string, columns []string) model.SheetRecognition {
	res := model.SheetRecognition{SheetName: sheetName, Type: model.SheetTypeBackData}
	for _, name := range backDataSheetNames {
		if sheetName == name {
			res.Score = 1
			return res
		}
	}

	matched := 0
	for _, field := range r.backDataFields {
		if matchAny(columns, func(col string) bool { return strings.Contains(col, field) }) {
			matched++
		} else {
			res.MissingFields = append(res.MissingFields, field)
		}
	}
	res.Score = float64(matched) / float64(len(r.backDataFields))
	if strings.Contains(NormalizeColumnName(sheetName), "back") {
		res.Score += 0.2
	}
	res.Score = min(res.Score, 1)
	return res
}

func (r *SheetRecognizer) recognizeCostLedger(sheetName string, raw, columns []string) model.SheetRecognition {
	res := model.SheetRecognition{SheetName: sheetName, Type: model.SheetTypeCostLedger}

	monthCols := 0
	for _, col := range raw {
		if months.IsMonthHeader(strings.TrimSpace(col)) {
			monthCols++
		}
	}
	if monthCols == 0 {
		res.MissingFields = append(res.MissingFields, "월 컬럼")
	} else {
		res.Score += 0.5
	}

	for _, field := range r.ledgerFields {
		if matchAny(columns, func(col string) bool { return MatchPattern(col, field) }) {
			res.Score += 0.25
		} else {
			res.MissingFields = append(res.MissingFields, field)
		}
	}
	return res
}

// FindBackDataSheet "Back data" / "BackData" 시트, 없으면 첫 시트
func FindBackDataSheet(sheets []string) string {
	for _, name := range backDataSheetNames {
		for _, s := range sheets {
			if s == name {
				return s
			}
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}

// FindCodeMapSheet 이름이 코드분류표 패턴과 맞는 첫 시트. 없으면 "".
func FindCodeMapSheet(sheets []string) string {
	for _, s := range sheets {
		if codeMapSheetRe.MatchString(s) {
			return s
		}
	}
	return ""
}

func hasAnyColumn(normalized, candidates []string) bool {
	for _, c := range candidates {
		n := NormalizeColumnName(c)
		for _, col := range normalized {
			if col == n {
				return true
			}
		}
	}
	return false
}

func matchAny(columns []string, pred func(string) bool) bool {
	for _, col := range columns {
		if pred(col) {
			return true
		}
	}
	return false
}
