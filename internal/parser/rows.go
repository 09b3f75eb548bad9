package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

const emptyHeader = "__EMPTY"

// ReadSheet 첫 행을 헤더로 보고 나머지 행을 FlatRow 로 읽는다.
// 빈 셀은 nil, 숫자 셀은 float64, 나머지는 문자열. 값이 하나도 없는 행은 건너뛴다.
func ReadSheet(f *excelize.File, sheet string) (*Sheet, error) {
	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return sheetFromGrid(sheet, grid), nil
}

// HeaderRow 시트 첫 행 (인식용)
func HeaderRow(f *excelize.File, sheet string) ([]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("open rows %q: %w", sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return []string{}, rows.Error()
	}
	header, err := rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read header %q: %w", sheet, err)
	}
	return header, nil
}

func sheetFromGrid(name string, grid [][]string) *Sheet {
	s := &Sheet{Name: name, Columns: []string{}, Rows: []model.FlatRow{}}
	if len(grid) == 0 {
		return s
	}

	width := 0
	for _, r := range grid {
		width = max(width, len(r))
	}
	s.Columns = uniqueHeaders(grid[0], width)
	s.TotalRows = len(grid) - 1

	for _, cells := range grid[1:] {
		row := make(model.FlatRow, len(s.Columns))
		blank := true
		for i, col := range s.Columns {
			var v any
			if i < len(cells) {
				v = CellValue(cells[i])
			}
			if v != nil {
				blank = false
			}
			row[col] = v
		}
		if !blank {
			s.Rows = append(s.Rows, row)
		}
	}
	return s
}

// uniqueHeaders 빈 헤더는 __EMPTY, __EMPTY_1 ..., 중복 헤더는 name_1, name_2 ...
func uniqueHeaders(raw []string, width int) []string {
	seen := make(map[string]bool, width)
	counts := make(map[string]int)
	out := make([]string, width)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(raw) {
			base = strings.TrimSpace(raw[i])
		}
		if base == "" {
			base = emptyHeader
		}
		name := base
		for seen[name] {
			counts[base]++
			name = base + "_" + strconv.Itoa(counts[base])
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// CellValue 셀 원시 문자열 변환. 빈 값은 nil, 숫자 표기는 float64.
// "0010" 처럼 앞에 0 이 붙은 코드는 문자열로 둔다.
func CellValue(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return raw
}

func looksNumeric(s string) bool {
	body := strings.TrimPrefix(s, "-")
	if body == "" {
		return false
	}
	c := body[0]
	if c != '.' && (c < '0' || c > '9') {
		return false
	}
	if len(body) > 1 && body[0] == '0' && body[1] != '.' && body[1] != 'e' && body[1] != 'E' {
		return false
	}
	for i := 0; i < len(body); i++ {
		switch ch := body[i]; {
		case ch >= '0' && ch <= '9', ch == '.', ch == 'e', ch == 'E', ch == '+', ch == '-':
		default:
			return false
		}
	}
	return true
}
