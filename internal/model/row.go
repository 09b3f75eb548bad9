package model

// FlatRow 원장 한 줄 (컬럼명 -> 값)
// 값은 float64 / string / nil 중 하나다. 업로드마다 통째로 교체되며 수정하지 않는다.
type FlatRow map[string]any

// ColumnSet 하나의 손익 버킷을 이루는 컬럼 목록 (순서 유지)
type ColumnSet []string

// CodeNameMap 코드분류표 (코드 -> 내역)
type CodeNameMap map[string]string

// Unspecified 그룹 키가 비어 있을 때 쓰는 표시값
const Unspecified = "(미지정)"
