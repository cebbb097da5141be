package credit

import (
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// CreditMarker 是 CreditID 的標記類型
type CreditMarker struct{}

// CreditID 點數的唯一標識符
type CreditID = shared.EntityID[CreditMarker]

// NewCreditID 生成新的點數 ID
func NewCreditID() CreditID {
	return shared.NewEntityID[CreditMarker]()
}

// CreditIDFromString 從字串解析點數 ID
func CreditIDFromString(s string) (CreditID, error) {
	return shared.EntityIDFromString[CreditMarker](s, ErrInvalidCreditID)
}

// UserMarker 是 UserID 的標記類型
type UserMarker struct{}

// UserID 消費者的唯一標識符
type UserID = shared.EntityID[UserMarker]

// NewUserID 生成新的消費者 ID
func NewUserID() UserID {
	return shared.NewEntityID[UserMarker]()
}

// UserIDFromString 從字串解析消費者 ID
func UserIDFromString(s string) (UserID, error) {
	return shared.EntityIDFromString[UserMarker](s, ErrInvalidUserID)
}

// CreditIDStrings 轉換為字串切片（持久化層的 IN 查詢用）
func CreditIDStrings(ids []CreditID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
