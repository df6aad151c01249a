package logger

import "regexp"

// pinField 는 JSON 본문의 PIN 값(직원 등록, PIN 출입)을 찾는다.
var pinField = regexp.MustCompile(`(?i)("pin"\s*:\s*)"[^"]*"`)

// RedactBody 는 로그에 남길 요청 본문에서 PIN 값을 가린다.
func RedactBody(body string) string {
	return pinField.ReplaceAllString(body, `$1"***"`)
}
