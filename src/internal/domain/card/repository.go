package card

import "github.com/jackyeh168/credit_ledger/src/internal/domain/shared"

// CardRepository 卡片倉儲介面
//
// Domain Layer 定義，Infrastructure Layer（GORM、MongoDB）實作。
// 卡片永不硬刪除，因此沒有 Delete 方法。
type CardRepository interface {
	// Save 保存新卡片
	Save(ctx shared.TransactionContext, c *Card) error

	// FindByID 根據 ID 查找卡片（包含已軟刪除的卡片）
	// 返回：找到的卡片，或 ErrCardNotFound
	FindByID(ctx shared.TransactionContext, cardID CardID) (*Card, error)

	// FindByCompanyID 列出公司的卡片
	// includeExcluded 為 false 時不返回已軟刪除的卡片
	FindByCompanyID(ctx shared.TransactionContext, companyID CompanyID, includeExcluded bool) ([]*Card, error)

	// Update 更新卡片
	// 錯誤：ErrCardNotFound（如果卡片不存在）
	Update(ctx shared.TransactionContext, c *Card) error
}
