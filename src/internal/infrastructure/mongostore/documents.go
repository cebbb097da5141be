package mongostore

import (
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
)

// ===========================
// BSON 文件
// ===========================

// cardDocument cards 集合文件（_id 為 UUID 字串）
type cardDocument struct {
	ID               string    `bson:"_id"`
	CompanyID        string    `bson:"company_id"`
	Title            string    `bson:"title"`
	CreditsNeeded    int       `bson:"credits_needed"`
	ExpirationAmount int       `bson:"expiration_amount"`
	ExpirationUnit   string    `bson:"expiration_unit"`
	Status           string    `bson:"status"`
	Excluded         bool      `bson:"excluded"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

// creditDocument credits 集合文件
//
// BSON datetime 只保留毫秒；同一毫秒內的點數以 _id 決定先後。
type creditDocument struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"user_id"`
	CardID      string     `bson:"card_id"`
	CompanyID   string     `bson:"company_id"`
	Status      string     `bson:"status"`
	Excluded    bool       `bson:"excluded"`
	ExpiresAt   time.Time  `bson:"expires_at"`
	RequestedAt *time.Time `bson:"requested_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toCardDocument(c *card.Card) cardDocument {
	policy := c.ExpirationPolicy()
	return cardDocument{
		ID:               c.CardID().String(),
		CompanyID:        c.CompanyID().String(),
		Title:            c.Title(),
		CreditsNeeded:    c.CreditsNeeded(),
		ExpirationAmount: policy.Amount(),
		ExpirationUnit:   string(policy.Unit()),
		Status:           string(c.Status()),
		Excluded:         c.Excluded(),
		CreatedAt:        c.CreatedAt().UTC(),
		UpdatedAt:        c.UpdatedAt().UTC(),
	}
}

func (d cardDocument) toDomain() (*card.Card, error) {
	cardID, err := card.CardIDFromString(d.ID)
	if err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(d.CompanyID)
	if err != nil {
		return nil, err
	}
	return card.ReconstructCard(
		cardID,
		companyID,
		d.Title,
		d.CreditsNeeded,
		card.ReconstructExpirationPolicy(d.ExpirationAmount, card.ExpirationUnit(d.ExpirationUnit)),
		card.Status(d.Status),
		d.Excluded,
		d.CreatedAt,
		d.UpdatedAt,
	)
}

func toCreditDocument(c *credit.Credit) creditDocument {
	doc := creditDocument{
		ID:        c.CreditID().String(),
		UserID:    c.UserID().String(),
		CardID:    c.CardID().String(),
		CompanyID: c.CompanyID().String(),
		Status:    string(c.Status()),
		Excluded:  c.Excluded(),
		ExpiresAt: c.ExpiresAt().UTC(),
		CreatedAt: c.CreatedAt().UTC(),
		UpdatedAt: c.UpdatedAt().UTC(),
	}
	if requestedAt := c.RequestedAt(); requestedAt != nil {
		utc := requestedAt.UTC()
		doc.RequestedAt = &utc
	}
	return doc
}

func (d creditDocument) toDomain() (*credit.Credit, error) {
	creditID, err := credit.CreditIDFromString(d.ID)
	if err != nil {
		return nil, err
	}
	userID, err := credit.UserIDFromString(d.UserID)
	if err != nil {
		return nil, err
	}
	cardID, err := card.CardIDFromString(d.CardID)
	if err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(d.CompanyID)
	if err != nil {
		return nil, err
	}
	return credit.ReconstructCredit(
		creditID,
		userID,
		cardID,
		companyID,
		credit.Status(d.Status),
		d.Excluded,
		d.ExpiresAt,
		d.RequestedAt,
		d.CreatedAt,
		d.UpdatedAt,
	)
}
