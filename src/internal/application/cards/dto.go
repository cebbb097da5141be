package cards

import (
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
)

// CardDTO 卡片輸出（原始類型，不暴露 Domain 對象）
type CardDTO struct {
	CardID           string
	CompanyID        string
	Title            string
	CreditsNeeded    int
	ExpirationAmount int
	ExpirationUnit   string
	Status           string
	Excluded         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func toDTO(c *card.Card) *CardDTO {
	return &CardDTO{
		CardID:           c.CardID().String(),
		CompanyID:        c.CompanyID().String(),
		Title:            c.Title(),
		CreditsNeeded:    c.CreditsNeeded(),
		ExpirationAmount: c.ExpirationPolicy().Amount(),
		ExpirationUnit:   string(c.ExpirationPolicy().Unit()),
		Status:           string(c.Status()),
		Excluded:         c.Excluded(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}
