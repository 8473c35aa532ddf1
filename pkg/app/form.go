package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// First returns the first failed field, nil when there is none.
func (v ValidErrors) First() *ValidError {
	if len(v) == 0 {
		return nil
	}
	return v[0]
}

// BindAndValid binds path parameters and the query string into v, then validates.
// Validation messages are translated with the translator set by the Lang middleware.
// BindAndValid 绑定路径参数与查询参数并校验，错误信息按 Lang 中间件设置的翻译器翻译
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors

	var err error
	if len(c.Params) > 0 {
		err = c.ShouldBindUri(v)
	}
	if err == nil {
		err = c.ShouldBindQuery(v)
	}
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "", Message: err.Error()})
		return false, errs
	}

	trans, _ := c.Value("trans").(ut.Translator)
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fe.Field(), Message: msg})
	}

	return false, errs
}
