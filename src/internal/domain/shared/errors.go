package shared

import (
	"errors"
	"fmt"
)

// ===========================
// 錯誤分類
// ===========================

// ErrorKind 錯誤分類
//
// 上層（HTTP / CLI）依分類決定呈現方式，不需要認識每一個錯誤代碼：
// - KindValidation: 輸入格式錯誤或引用不存在，直接回報，不自動重試
// - KindNotAvailable: 卡片或公司狀態不符，屬於客戶端錯誤
// - KindInsufficientCredits: 點數不足（含並發競爭），累積更多點數後可重試
// - KindConfiguration: 程式或資料設定缺陷，不應呈現給使用者
type ErrorKind string

const (
	KindValidation          ErrorKind = "VALIDATION"
	KindNotAvailable        ErrorKind = "NOT_AVAILABLE"
	KindInsufficientCredits ErrorKind = "INSUFFICIENT_CREDITS"
	KindConfiguration       ErrorKind = "CONFIGURATION"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindRepository          ErrorKind = "REPOSITORY"
)

// ErrorCode 錯誤代碼類型
type ErrorCode string

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// 設計原則：
// 1. 結構化錯誤代碼 + 分類（Kind）
// 2. 上下文資訊（card id、需要數量 vs 可用數量）供呼叫端組裝訊息
// 3. 不可變：WithContext 返回新實例
type DomainError struct {
	Code    ErrorCode
	Kind    ErrorKind
	Message string
	Context map[string]interface{}
}

// NewDomainError 建立預定義錯誤
func NewDomainError(code ErrorCode, kind ErrorKind, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Error 實現 error 介面
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// WithContext 添加上下文資訊（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) *DomainError {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Kind:    e.Kind,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 以錯誤代碼比較（errors.Is）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// KindOf 取得錯誤鏈中第一個 DomainError 的分類
//
// 非 DomainError 返回空字串。
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// ContextOf 取得錯誤鏈中 DomainError 的上下文（唯讀使用）
func ContextOf(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Context
	}
	return nil
}

// ErrInvalidInput 指令格式驗證失敗（欄位缺漏、格式錯誤）
//
// 上下文：fields（[]FieldViolation）
var ErrInvalidInput = NewDomainError("INPUT_INVALID", KindValidation, "輸入驗證失敗")

// FieldViolation 單一欄位的驗證失敗
type FieldViolation struct {
	Field string
	Rule  string
	Param string
}
