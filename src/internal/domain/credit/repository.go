package credit

import (
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// 查詢條件
// ===========================

// Filter 點數查詢條件
//
// 零值欄位代表「不限制」：
// - 空 ID 不過濾
// - 空 Statuses 不過濾
// - 零值時間不設邊界；時間區間為 [From, To)
// - IncludeExcluded 為 false 時排除已軟刪除的點數
type Filter struct {
	UserID    UserID
	CardID    card.CardID
	CompanyID card.CompanyID
	Statuses  []Status

	IncludeExcluded bool

	CreatedFrom   time.Time
	CreatedTo     time.Time
	RequestedFrom time.Time
	RequestedTo   time.Time
}

// EligibleFilter 兌換候選點數的查詢條件
//
// {user_id, card_id, status: available, excluded: false}；
// 到期過濾在領域層（SelectForRedemption）完成。
func EligibleFilter(userID UserID, cardID card.CardID) Filter {
	return Filter{
		UserID:   userID,
		CardID:   cardID,
		Statuses: []Status{StatusAvailable},
	}
}

// ===========================
// CreditRepository 介面
// ===========================

// CreditRepository 點數倉儲介面
//
// 點數集合是系統唯一的共享可變狀態；所有寫入都以「ID + 目前狀態」為條件，
// 確保並發下不會重複消耗同一筆點數。
type CreditRepository interface {
	// SaveAll 批次新增點數（單一 bulk insert）
	// 空切片為 no-op
	SaveAll(ctx shared.TransactionContext, credits []*Credit) error

	// FindByID 根據 ID 查找點數
	// 返回：找到的點數，或 ErrCreditNotFound
	FindByID(ctx shared.TransactionContext, creditID CreditID) (*Credit, error)

	// Find 依條件查詢，依 created_at、id 升冪排序
	Find(ctx shared.TransactionContext, filter Filter) ([]*Credit, error)

	// MarkUsed 將指定 ID 的點數標記為 used
	//
	// 條件更新：只匹配 id ∈ ids 且 status = available 且未刪除的點數，
	// 設定 status = used、requested_at = requestedAt。
	// 返回實際更新的筆數；少於 len(ids) 代表有點數被並發消耗，
	// 呼叫者必須回滾事務。
	MarkUsed(ctx shared.TransactionContext, ids []CreditID, requestedAt time.Time) (int64, error)

	// TransitionStatus 條件狀態轉換（from → to）
	// 錯誤：ErrInvalidTransition（目前狀態不是 from）、ErrCreditNotFound
	TransitionStatus(ctx shared.TransactionContext, creditID CreditID, from, to Status, at time.Time) error

	// Exclude 軟刪除點數（狀態不變）
	// 錯誤：ErrCreditNotFound
	Exclude(ctx shared.TransactionContext, creditID CreditID, at time.Time) error
}
