package redemption

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// GetCardBalanceQuery 查詢消費者在單一卡片上的點數
type GetCardBalanceQuery struct {
	UserID string `validate:"required,uuid"`
	CardID string `validate:"required,uuid"`
}

// GetCardBalanceResult 卡片點數概況
type GetCardBalanceResult struct {
	CardID        string
	CardTitle     string
	CreditsNeeded int
	Eligible      int
	Pending       int
	Expired       int
	CanRedeem     bool
	NextExpiresAt *time.Time
}

// GetCardBalanceUseCase 查詢卡片點數 Use Case
type GetCardBalanceUseCase struct {
	cardRepo   card.CardRepository
	creditRepo credit.CreditRepository
	clock      shared.Clock
}

// NewGetCardBalanceUseCase 創建 Use Case 實例
func NewGetCardBalanceUseCase(
	cardRepo card.CardRepository,
	creditRepo credit.CreditRepository,
	clock shared.Clock,
) *GetCardBalanceUseCase {
	return &GetCardBalanceUseCase{
		cardRepo:   cardRepo,
		creditRepo: creditRepo,
		clock:      clock,
	}
}

// Execute 執行查詢
//
// 錯誤處理：
// - shared.ErrInvalidInput: 查詢格式錯誤
// - card.ErrCardNotFound: 卡片不存在
func (uc *GetCardBalanceUseCase) Execute(query GetCardBalanceQuery) (*GetCardBalanceResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在事務上下文中執行查詢（ctx 可為 nil）
func (uc *GetCardBalanceUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query GetCardBalanceQuery,
) (*GetCardBalanceResult, error) {
	if err := validation.Struct(query); err != nil {
		return nil, err
	}
	userID, err := credit.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	cardID, err := card.CardIDFromString(query.CardID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card ID: %w", err)
	}

	c, err := uc.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, card.ErrCardNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load card: %w", err)
	}

	credits, err := uc.creditRepo.Find(ctx, credit.Filter{
		UserID:   userID,
		CardID:   cardID,
		Statuses: []credit.Status{credit.StatusAvailable, credit.StatusPending},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load credits: %w", err)
	}

	now := uc.clock.Now()
	result := &GetCardBalanceResult{
		CardID:        c.CardID().String(),
		CardTitle:     c.Title(),
		CreditsNeeded: c.CreditsNeeded(),
	}
	for _, cr := range credits {
		switch {
		case cr.Status() == credit.StatusPending:
			result.Pending++
		case cr.IsEligible(now):
			result.Eligible++
			if expiresAt := cr.ExpiresAt(); result.NextExpiresAt == nil || expiresAt.Before(*result.NextExpiresAt) {
				result.NextExpiresAt = &expiresAt
			}
		default:
			result.Expired++
		}
	}
	result.CanRedeem = c.IsUsable() && result.Eligible >= result.CreditsNeeded
	return result, nil
}
