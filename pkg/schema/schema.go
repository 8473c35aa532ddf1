package schema

import (
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
)

// Kind identifies an operation whose request body is checked against a rule table.
type Kind string

const (
	JSONFormat   Kind = "json-format"
	JSONValidate Kind = "json-validate"
	Base64Encode Kind = "base64-encode"
	Base64Decode Kind = "base64-decode"
)

// Rule is one field constraint.
// Rule 单个字段约束
type Rule struct {
	Field    string
	Label    string
	Required bool
	NonEmpty bool
}

var jsonInput = Rule{Field: "json", Label: "JSON input", Required: true, NonEmpty: true}

// Rules is the constraint table keyed by operation kind.
// Rules 按操作类型组织的约束表
var Rules = map[Kind][]Rule{
	JSONFormat:   {jsonInput},
	JSONValidate: {jsonInput},
	Base64Encode: {{Field: "text", Label: "Text input", Required: true, NonEmpty: true}},
	Base64Decode: {{Field: "encoded", Label: "Base64 input", Required: true, NonEmpty: true}},
}

// ValidationError names the offending field and a human readable message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Payload is a request body that passed validation. All declared fields are strings.
type Payload map[string]interface{}

// String returns the named field, empty when absent.
func (p Payload) String(field string) string {
	s, _ := p[field].(string)
	return s
}

// Validate decodes body and checks it against the rules of kind.
// The first violated rule short-circuits.
// Validate 解析请求体并按约束表校验，遇到第一个错误即返回
func Validate(kind Kind, body []byte) (Payload, error) {
	rules, ok := Rules[kind]
	if !ok {
		return nil, fmt.Errorf("schema: unknown kind %q", kind)
	}

	var payload Payload
	if err := sonic.Unmarshal(body, &payload); err != nil || payload == nil {
		return nil, &ValidationError{Message: "request body must be a JSON object"}
	}

	declared := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		declared[r.Field] = struct{}{}
	}

	// sorted so the reported key is stable
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := declared[k]; !ok {
			return nil, &ValidationError{Field: k, Message: fmt.Sprintf("%q is not allowed", k)}
		}
	}

	for _, r := range rules {
		if err := r.check(payload); err != nil {
			return nil, err
		}
	}

	return payload, nil
}

func (r Rule) check(p Payload) error {
	v, present := p[r.Field]
	if !present {
		if r.Required {
			return &ValidationError{Field: r.Field, Message: r.Label + " is required"}
		}
		return nil
	}

	s, ok := v.(string)
	if !ok {
		return &ValidationError{Field: r.Field, Message: r.Label + " must be a string"}
	}

	if r.NonEmpty && s == "" {
		return &ValidationError{Field: r.Field, Message: r.Label + " cannot be empty"}
	}
	return nil
}
