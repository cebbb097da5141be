package cards

import (
	"fmt"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
)

// ListCardsQuery 列出公司卡片
type ListCardsQuery struct {
	CompanyID       string `validate:"required,uuid"`
	IncludeExcluded bool
}

// ListCardsUseCase 查詢公司的卡片（唯讀，不開啟事務）
type ListCardsUseCase struct {
	cardRepo card.CardRepository
}

// NewListCardsUseCase 創建 Use Case 實例
func NewListCardsUseCase(cardRepo card.CardRepository) *ListCardsUseCase {
	return &ListCardsUseCase{cardRepo: cardRepo}
}

// Execute 執行查詢
func (uc *ListCardsUseCase) Execute(query ListCardsQuery) ([]*CardDTO, error) {
	if err := validation.Struct(query); err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(query.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse company ID: %w", err)
	}

	found, err := uc.cardRepo.FindByCompanyID(nil, companyID, query.IncludeExcluded)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	result := make([]*CardDTO, len(found))
	for i, c := range found {
		result[i] = toDTO(c)
	}
	return result, nil
}
