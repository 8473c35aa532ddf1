package code

import (
	"fmt"
	"net/http"
)

// Code is a response descriptor: success payload or error kind with its HTTP status.
// Code 是响应描述：成功数据或错误类型及其 HTTP 状态码
type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误类型（信封中的 error 字段）
	kind string
	// HTTP 状态码
	statusCode int
	// 错误消息
	Lang lang
	// 覆盖消息
	msg string
	// 数据
	data interface{}
	// 出错字段
	field string
	// 错误详细信息
	details []string
	// 是否含有Data
	haveData bool
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

func NewError(code int, statusCode int, kind string, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()

	return &Code{code: code, status: false, kind: kind, statusCode: statusCode, Lang: l}
}

func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()

	return &Code{code: code, status: true, statusCode: http.StatusOK, Lang: l}
}

// Clone 创建一个新的 Code 副本，包级变量本身永远不会被修改
func (e *Code) Clone() *Code {
	c := *e
	c.details = append([]string(nil), e.details...)
	return &c
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Kind() string {
	return e.kind
}

func (e *Code) Msg() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Lang.GetMessage()
}

func (e *Code) Field() string {
	return e.field
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// Is reports whether err carries the same code number as e.
// Is 判断错误码是否一致，配合 errors.Is 使用
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code && t.status == e.status
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithMessage overrides the language message.
// WithMessage 覆盖默认的多语言消息
func (e *Code) WithMessage(msg string) *Code {
	c := e.Clone()
	c.msg = msg
	return c
}

func (e *Code) WithField(field string) *Code {
	c := e.Clone()
	c.field = field
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = len(details) > 0
	c.details = append([]string{}, details...)
	return c
}

func (e *Code) StatusCode() int {
	if e.statusCode == 0 {
		return http.StatusOK
	}
	return e.statusCode
}
