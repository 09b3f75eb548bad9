package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Kr-EIVEN/hosting-project/internal/model"
)

// BackData 결산 Back data 워크북 파싱 결과
type BackData struct {
	Sheet        *Sheet            `json:"sheet"`
	CodeMapSheet string            `json:"codeMapSheet,omitempty"`
	CodeNames    model.CodeNameMap `json:"codeNames"`
}

// ParseBackData "Back data"(없으면 첫 시트)를 읽고, 코드분류표 시트가 있으면 매핑도 읽는다.
func ParseBackData(f *excelize.File) (*BackData, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	name := FindBackDataSheet(sheets)
	sheet, err := ReadSheet(f, name)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("back data sheet %q: %w", name, ErrEmptySheet)
	}

	out := &BackData{Sheet: sheet, CodeNames: model.CodeNameMap{}}
	if mapName := FindCodeMapSheet(sheets); mapName != "" && mapName != name {
		mapSheet, err := ReadSheet(f, mapName)
		if err != nil {
			return nil, err
		}
		out.CodeMapSheet = mapName
		out.CodeNames = ParseCodeMap(mapSheet.Rows)
	}
	return out, nil
}

// ParseCostLedger 비용 원장은 첫 시트
func ParseCostLedger(f *excelize.File) (*Sheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	sheet, err := ReadSheet(f, sheets[0])
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("cost sheet %q: %w", sheets[0], ErrEmptySheet)
	}
	return sheet, nil
}
