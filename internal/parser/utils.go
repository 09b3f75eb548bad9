package parser

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 비교용 컬럼명: 공백/개행 제거, 소문자
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// MatchPattern 정규식 매칭. 잘못된 패턴은 false.
func MatchPattern(text, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
