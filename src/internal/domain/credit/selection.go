package credit

import (
	"slices"
	"time"
)

// ===========================
// 兌換選取規則（領域服務）
// ===========================

// SelectForRedemption 選出本次兌換要消耗的點數
//
// 規則：
// 1. 只考慮可兌換的點數（available、未刪除、expiresAt > now）
// 2. 數量不足 needed → ErrInsufficientCredits（required / available）
// 3. 依 createdAt 由舊到新排序，同時間以 ID 排序，取前 needed 筆
//
// 多出來的點數保持 available，不會一併兌換。
// 純函數：不修改輸入切片的順序，也不修改點數本身。
func SelectForRedemption(credits []*Credit, needed int, now time.Time) ([]*Credit, error) {
	if needed <= 0 {
		return nil, ErrInvalidQuantity.WithContext(
			"required", needed,
			"reason", "redemption threshold must be positive",
		)
	}

	eligible := make([]*Credit, 0, len(credits))
	for _, c := range credits {
		if c.IsEligible(now) {
			eligible = append(eligible, c)
		}
	}

	if len(eligible) < needed {
		return nil, ErrInsufficientCredits.WithContext(
			"required", needed,
			"available", len(eligible),
		)
	}

	slices.SortFunc(eligible, compareOldestFirst)
	return eligible[:needed], nil
}

// compareOldestFirst createdAt 由舊到新，同時間以 ID 決定順序
func compareOldestFirst(a, b *Credit) int {
	if c := a.createdAt.Compare(b.createdAt); c != 0 {
		return c
	}
	switch {
	case a.creditID.Less(b.creditID):
		return -1
	case b.creditID.Less(a.creditID):
		return 1
	}
	return 0
}

// IDsOf 取出點數 ID（保持順序）
func IDsOf(credits []*Credit) []CreditID {
	ids := make([]CreditID, len(credits))
	for i, c := range credits {
		ids[i] = c.creditID
	}
	return ids
}
