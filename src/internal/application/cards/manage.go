package cards

import (
	"fmt"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// cardRef 管理操作的目標卡片
type cardRef struct {
	companyID card.CompanyID
	cardID    card.CardID
}

func parseRef(rawCompanyID, rawCardID string) (cardRef, error) {
	companyID, err := card.CompanyIDFromString(rawCompanyID)
	if err != nil {
		return cardRef{}, fmt.Errorf("failed to parse company ID: %w", err)
	}
	cardID, err := card.CardIDFromString(rawCardID)
	if err != nil {
		return cardRef{}, fmt.Errorf("failed to parse card ID: %w", err)
	}
	return cardRef{companyID: companyID, cardID: cardID}, nil
}

// loadManaged 讀取卡片並確認公司有管理權限
func loadManaged(
	ctx shared.TransactionContext,
	repo card.CardRepository,
	capability card.Capability,
	ref cardRef,
) (*card.Card, error) {
	c, err := repo.FindByID(ctx, ref.cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if !capability.CanManage(ref.companyID, c) {
		return nil, card.ErrCardNotOwned.WithContext(
			"card_id", ref.cardID.String(),
			"company_id", ref.companyID.String(),
		)
	}
	return c, nil
}
