package transform

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidEncoding is returned when the input is outside the Base64 alphabet.
var ErrInvalidEncoding = errors.New("invalid base64 input")

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// Encode returns the standard padded Base64 encoding of the UTF-8 bytes of text.
// Encode 返回文本 UTF-8 字节的标准 Base64 编码（带填充）
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode checks the alphabet first, then decodes leniently:
// padding may be missing and a dangling final character is ignored.
// Invalid UTF-8 in the result is replaced with U+FFFD.
// Decode 先校验字符集，再宽松解码；无效 UTF-8 字节替换为 U+FFFD
func Decode(encoded string) (string, error) {
	if !base64Pattern.MatchString(encoded) {
		return "", ErrInvalidEncoding
	}

	raw := strings.TrimRight(encoded, "=")
	if len(raw)%4 == 1 {
		raw = raw[:len(raw)-1]
	}

	b, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrInvalidEncoding
	}

	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}
