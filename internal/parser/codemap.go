package parser

import (
	"strings"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
	"github.com/Kr-EIVEN/hosting-project/internal/numfmt"
)

// ParseCodeMap 코드분류표 행에서 코드 → 내역 매핑을 만든다.
// 행마다 동의어 컬럼 중 처음으로 비어 있지 않은 값을 쓰고, 코드나 내역이 없으면 건너뛴다.
// 같은 코드가 여러 번 나오면 뒤의 값이 이긴다.
func ParseCodeMap(rows []model.FlatRow) model.CodeNameMap {
	out := make(model.CodeNameMap)
	for _, row := range rows {
		code := firstNonEmpty(row, codeColumns)
		name := firstNonEmpty(row, nameColumns)
		if code == "" || name == "" {
			continue
		}
		out[code] = name
	}
	return out
}

func firstNonEmpty(row model.FlatRow, columns []string) string {
	for _, col := range columns {
		v := row[col]
		if numfmt.IsBlank(v) {
			continue
		}
		if f, ok := v.(float64); ok && f == 0 {
			continue
		}
		if s := strings.TrimSpace(numfmt.KeyString(v)); s != "" {
			return s
		}
	}
	return ""
}
