package middleware

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator go-playground/validatorをechoのValidatorとして使う
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator 新しいRequestValidatorを作成
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validator: validator.New()}
}

// Validate 構造体タグに従って検証する
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
