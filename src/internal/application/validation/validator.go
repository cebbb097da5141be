package validation

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct 依 `validate` 標籤驗證指令
//
// 驗證失敗時返回 shared.ErrInvalidInput，context 中的 fields 列出所有違反的欄位。
func Struct(cmd interface{}) error {
	err := instance().Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.ErrInvalidInput.WithContext("reason", err.Error())
	}

	violations := make([]shared.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, shared.FieldViolation{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return shared.ErrInvalidInput.WithContext("fields", violations)
}

// Violations 取出 ErrInvalidInput 的欄位清單
func Violations(err error) []shared.FieldViolation {
	fields, _ := shared.ContextOf(err)["fields"].([]shared.FieldViolation)
	return fields
}
