package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		body      string
		wantField string
		wantMsg   string
	}{
		{"missing json", JSONFormat, `{}`, "json", "JSON input is required"},
		{"empty json", JSONFormat, `{"json":""}`, "json", "JSON input cannot be empty"},
		{"non-string json", JSONValidate, `{"json":{"a":1}}`, "json", "JSON input must be a string"},
		{"null json", JSONValidate, `{"json":null}`, "json", "JSON input must be a string"},
		{"unknown key", JSONFormat, `{"json":"{}","extra":1}`, "extra", `"extra" is not allowed`},
		{"missing text", Base64Encode, `{"encoded":"x"}`, "encoded", `"encoded" is not allowed`},
		{"empty text", Base64Encode, `{"text":""}`, "text", "Text input cannot be empty"},
		{"missing encoded", Base64Decode, `{}`, "encoded", "Base64 input is required"},
		{"not an object", Base64Decode, `["a"]`, "", "request body must be a JSON object"},
		{"not json", Base64Decode, `encoded=abc`, "", "request body must be a JSON object"},
		{"null body", JSONFormat, `null`, "", "request body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.kind, []byte(tt.body))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, tt.wantMsg, vErr.Message)
		})
	}
}

func TestValidatePassesPayloadThrough(t *testing.T) {
	p, err := Validate(JSONFormat, []byte(`{"json":"{\"name\": \"John\"}"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"name": "John"}`, p.String("json"))

	p, err = Validate(Base64Encode, []byte(`{"text":"Hello World"}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", p.String("text"))

	// 空白字符串不是空串，交给后续的解析步骤处理
	p, err = Validate(JSONFormat, []byte(`{"json":"   "}`))
	require.NoError(t, err)
	assert.Equal(t, "   ", p.String("json"))
}

// 长度与字母表不在这里检查：前者由请求体大小限制负责，后者由解码步骤负责
func TestValidateHasNoLengthOrAlphabetRule(t *testing.T) {
	long := strings.Repeat("a", 1<<20)
	p, err := Validate(Base64Encode, []byte(`{"text":"`+long+`"}`))
	require.NoError(t, err)
	assert.Len(t, p.String("text"), 1<<20)

	p, err = Validate(Base64Decode, []byte(`{"encoded":"!!!not base64"}`))
	require.NoError(t, err)
	assert.Equal(t, "!!!not base64", p.String("encoded"))
}

func TestValidateUnknownKind(t *testing.T) {
	_, err := Validate(Kind("csv"), []byte(`{}`))
	assert.Error(t, err)
}
