package credit

import "github.com/jackyeh168/credit_ledger/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

const (
	ErrCodeInvalidCreditID      shared.ErrorCode = "CREDIT_ID_INVALID"
	ErrCodeInvalidUserID        shared.ErrorCode = "USER_ID_INVALID"
	ErrCodeInvalidQuantity      shared.ErrorCode = "CREDIT_QUANTITY_INVALID"
	ErrCodeUnknownCardReference shared.ErrorCode = "CARD_REFERENCE_UNKNOWN"
	ErrCodeInvalidStatus        shared.ErrorCode = "CREDIT_STATUS_INVALID"

	ErrCodeInsufficientCredits shared.ErrorCode = "CREDITS_INSUFFICIENT"

	ErrCodeInvalidTransition shared.ErrorCode = "CREDIT_TRANSITION_INVALID"
	ErrCodeCreditNotOwned    shared.ErrorCode = "CREDIT_NOT_OWNED"

	ErrCodeCorruptedCredit shared.ErrorCode = "CREDIT_CORRUPTED"
	ErrCodeCreditNotFound  shared.ErrorCode = "CREDIT_NOT_FOUND"
	ErrCodeRepositoryError shared.ErrorCode = "CREDIT_REPOSITORY_ERROR"
)

// ===========================
// 預定義錯誤
// ===========================

// 輸入驗證錯誤
var (
	ErrInvalidCreditID      = shared.NewDomainError(ErrCodeInvalidCreditID, shared.KindValidation, "無效的點數 ID")
	ErrInvalidUserID        = shared.NewDomainError(ErrCodeInvalidUserID, shared.KindValidation, "無效的消費者 ID")
	ErrInvalidQuantity      = shared.NewDomainError(ErrCodeInvalidQuantity, shared.KindValidation, "發放數量必須為正整數")
	ErrUnknownCardReference = shared.NewDomainError(ErrCodeUnknownCardReference, shared.KindValidation, "引用的卡片不存在")
	ErrInvalidStatus        = shared.NewDomainError(ErrCodeInvalidStatus, shared.KindValidation, "無效的點數狀態")
)

// ErrInsufficientCredits 可兌換點數不足
//
// 上下文：card_id、required、available；
// 並發兌換搶走點數時 reason = "concurrent_redemption"，可在累積更多點數後重試。
var ErrInsufficientCredits = shared.NewDomainError(ErrCodeInsufficientCredits, shared.KindInsufficientCredits, "可兌換點數不足")

// 狀態轉換錯誤
var (
	ErrInvalidTransition = shared.NewDomainError(ErrCodeInvalidTransition, shared.KindNotAvailable, "點數目前的狀態不允許此操作")
	ErrCreditNotOwned    = shared.NewDomainError(ErrCodeCreditNotOwned, shared.KindNotAvailable, "點數不屬於此公司")
)

// Repository 錯誤
var (
	ErrCorruptedCredit = shared.NewDomainError(ErrCodeCorruptedCredit, shared.KindConfiguration, "資料庫中的點數資料損壞")
	ErrCreditNotFound  = shared.NewDomainError(ErrCodeCreditNotFound, shared.KindNotFound, "點數不存在")
	ErrRepositoryError = shared.NewDomainError(ErrCodeRepositoryError, shared.KindRepository, "點數倉儲操作失敗")
)
