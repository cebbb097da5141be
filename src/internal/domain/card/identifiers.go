package card

import (
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// CardMarker 是 CardID 的標記類型
type CardMarker struct{}

// CardID 卡片（兌換定義）的唯一標識符
type CardID = shared.EntityID[CardMarker]

// NewCardID 生成新的卡片 ID
func NewCardID() CardID {
	return shared.NewEntityID[CardMarker]()
}

// CardIDFromString 從字串解析卡片 ID
//
// 返回：解析失敗時返回 ErrInvalidCardID
func CardIDFromString(s string) (CardID, error) {
	return shared.EntityIDFromString[CardMarker](s, ErrInvalidCardID)
}

// CompanyMarker 是 CompanyID 的標記類型
type CompanyMarker struct{}

// CompanyID 發卡公司的唯一標識符
//
// 卡片由公司擁有；點數建立時從卡片反正規化複製公司 ID。
type CompanyID = shared.EntityID[CompanyMarker]

// NewCompanyID 生成新的公司 ID
func NewCompanyID() CompanyID {
	return shared.NewEntityID[CompanyMarker]()
}

// CompanyIDFromString 從字串解析公司 ID
func CompanyIDFromString(s string) (CompanyID, error) {
	return shared.EntityIDFromString[CompanyMarker](s, ErrInvalidCompanyID)
}
