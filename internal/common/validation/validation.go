package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error 校验失败，携带所有未通过校验的字段。
// 校验失败必须发生在任何派生计算 / 外部调用 / 持久化之前。
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// Add 追加一个失败字段（去重）。
func (e *Error) Add(field string) {
	for _, f := range e.Fields {
		if f == field {
			return
		}
	}
	e.Fields = append(e.Fields, field)
}

// OrNil 没有任何失败字段时返回 nil，方便直接 return。
func (e *Error) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsError 判断 err 是否为校验错误。
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误信息里用 json 字段名，而不是 Go 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct 按结构体 validate tag 做校验，失败字段收集进 *Error。
func Struct(s interface{}) *Error {
	err := validate.Struct(s)
	if err == nil {
		return &Error{}
	}

	out := &Error{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out.Add(fe.Field())
		}
		return out
	}
	out.Add("input")
	return out
}
