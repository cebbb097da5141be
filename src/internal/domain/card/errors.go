package card

import "github.com/jackyeh168/credit_ledger/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

const (
	// 識別符相關
	ErrCodeInvalidCardID    shared.ErrorCode = "CARD_ID_INVALID"
	ErrCodeInvalidCompanyID shared.ErrorCode = "COMPANY_ID_INVALID"

	// 卡片屬性相關
	ErrCodeInvalidTitle              shared.ErrorCode = "CARD_TITLE_INVALID"
	ErrCodeInvalidCreditsNeeded      shared.ErrorCode = "CARD_CREDITS_NEEDED_INVALID"
	ErrCodeInvalidExpirationPolicy   shared.ErrorCode = "EXPIRATION_POLICY_INVALID"
	ErrCodeUnsupportedExpirationUnit shared.ErrorCode = "EXPIRATION_UNIT_UNSUPPORTED"
	ErrCodeInvalidStatus             shared.ErrorCode = "CARD_STATUS_INVALID"

	// 狀態相關
	ErrCodeCardNotAvailable shared.ErrorCode = "CARD_NOT_AVAILABLE"
	ErrCodeCardNotOwned     shared.ErrorCode = "CARD_NOT_OWNED"
	ErrCodeCardExcluded     shared.ErrorCode = "CARD_EXCLUDED"

	// Repository 相關
	ErrCodeCardNotFound    shared.ErrorCode = "CARD_NOT_FOUND"
	ErrCodeRepositoryError shared.ErrorCode = "CARD_REPOSITORY_ERROR"
)

// ===========================
// 預定義錯誤
// ===========================

// 識別符相關錯誤
var (
	ErrInvalidCardID    = shared.NewDomainError(ErrCodeInvalidCardID, shared.KindValidation, "無效的卡片 ID")
	ErrInvalidCompanyID = shared.NewDomainError(ErrCodeInvalidCompanyID, shared.KindValidation, "無效的公司 ID")
)

// 卡片屬性相關錯誤
var (
	ErrInvalidTitle            = shared.NewDomainError(ErrCodeInvalidTitle, shared.KindValidation, "卡片標題不能為空且不可超過 120 字")
	ErrInvalidCreditsNeeded    = shared.NewDomainError(ErrCodeInvalidCreditsNeeded, shared.KindValidation, "兌換所需點數必須為正整數")
	ErrInvalidExpirationPolicy = shared.NewDomainError(ErrCodeInvalidExpirationPolicy, shared.KindValidation, "無效的點數到期規則")
	ErrInvalidStatus           = shared.NewDomainError(ErrCodeInvalidStatus, shared.KindValidation, "無效的卡片狀態")

	// ErrUnsupportedExpirationUnit 到期單位不支援
	// 建立卡片時會先被 ErrInvalidExpirationPolicy 擋下；
	// 出現此錯誤代表資料庫中存在損壞的規則，屬於設定缺陷
	ErrUnsupportedExpirationUnit = shared.NewDomainError(ErrCodeUnsupportedExpirationUnit, shared.KindConfiguration, "不支援的到期單位")
)

// 狀態相關錯誤
var (
	ErrCardNotAvailable = shared.NewDomainError(ErrCodeCardNotAvailable, shared.KindNotAvailable, "卡片目前無法使用")
	ErrCardNotOwned     = shared.NewDomainError(ErrCodeCardNotOwned, shared.KindNotAvailable, "卡片不屬於此公司")
	ErrCardExcluded     = shared.NewDomainError(ErrCodeCardExcluded, shared.KindNotAvailable, "卡片已刪除")
)

// Repository 錯誤
var (
	ErrCardNotFound    = shared.NewDomainError(ErrCodeCardNotFound, shared.KindNotFound, "卡片不存在")
	ErrRepositoryError = shared.NewDomainError(ErrCodeRepositoryError, shared.KindRepository, "卡片倉儲操作失敗")
)
