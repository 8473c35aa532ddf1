package transform

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tidwall/pretty"
)

// MalformedInputError reports text that does not parse as JSON.
// MalformedInputError 表示输入无法解析为 JSON
type MalformedInputError struct {
	Diagnostic string
}

func (e *MalformedInputError) Error() string {
	return "malformed JSON: " + e.Diagnostic
}

// two-space indentation, arrays never collapsed onto one line
var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// numbers stay json.Number so out-of-range literals such as 1e400 are not rejected
var diagnosticAPI = sonic.Config{UseNumber: true}.Froze()

// parse checks grammar only; number literals are never converted.
// parse 只做语法检查，不转换数字字面量
func parse(input string) error {
	if sonic.ValidString(input) {
		return nil
	}
	var v interface{}
	err := diagnosticAPI.UnmarshalFromString(input, &v)
	if err == nil {
		return &MalformedInputError{Diagnostic: "Syntax error: invalid JSON document"}
	}
	return &MalformedInputError{Diagnostic: diagnostic(err)}
}

// diagnostic keeps the first line of the decoder message, without quoting or the source excerpt.
func diagnostic(err error) string {
	msg := err.Error()
	if unquoted, uerr := strconv.Unquote(msg); uerr == nil {
		msg = unquoted
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "Syntax error: invalid JSON document"
	}
	return msg
}

// FormatJSON pretty-prints input with two-space indentation.
// Key order and the literal number and string tokens of the input are preserved.
// FormatJSON 以两个空格缩进重新排版，保持键顺序与原始字面量
func FormatJSON(input string) (string, error) {
	if err := parse(input); err != nil {
		return "", err
	}
	out := pretty.PrettyOptions([]byte(input), prettyOptions)
	return string(bytes.TrimRight(out, "\n")), nil
}

// ValidateJSON never fails; an invalid document yields false and the parser diagnostic.
// ValidateJSON 不返回错误，无效时返回 false 与解析诊断信息
func ValidateJSON(input string) (bool, string) {
	if err := parse(input); err != nil {
		return false, err.(*MalformedInputError).Diagnostic
	}
	return true, ""
}

// IsJSON reports whether s parses as a JSON document.
func IsJSON(s string) bool {
	return parse(s) == nil
}
