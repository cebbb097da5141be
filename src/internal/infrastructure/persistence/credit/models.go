package credit

import (
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
)

// ===========================
// GORM Models
// ===========================

// CreditGORM 點數資料表模型
//
// 索引：
// - idx_credits_redemption (user_id, card_id, status)：兌換候選查詢
// - company_id + created_at / requested_at：儀表板統計
type CreditGORM struct {
	ID        string `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID    string `gorm:"column:user_id;type:varchar(36);not null;index:idx_credits_redemption,priority:1"`
	CardID    string `gorm:"column:card_id;type:varchar(36);not null;index:idx_credits_redemption,priority:2"`
	CompanyID string `gorm:"column:company_id;type:varchar(36);not null;index:idx_credits_company_created,priority:1;index:idx_credits_company_requested,priority:1"`

	Status   string `gorm:"column:status;type:varchar(16);not null;index:idx_credits_redemption,priority:3"`
	Excluded bool   `gorm:"column:excluded;not null;default:false"`

	ExpiresAt   time.Time  `gorm:"column:expires_at;not null"`
	RequestedAt *time.Time `gorm:"column:requested_at;index:idx_credits_company_requested,priority:2"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_credits_company_created,priority:2"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

// TableName 指定資料表名稱
func (CreditGORM) TableName() string {
	return "credits"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 模型
func (g *CreditGORM) toDomain() (*credit.Credit, error) {
	creditID, err := credit.CreditIDFromString(g.ID)
	if err != nil {
		return nil, err
	}
	userID, err := credit.UserIDFromString(g.UserID)
	if err != nil {
		return nil, err
	}
	cardID, err := card.CardIDFromString(g.CardID)
	if err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(g.CompanyID)
	if err != nil {
		return nil, err
	}

	return credit.ReconstructCredit(
		creditID,
		userID,
		cardID,
		companyID,
		credit.Status(g.Status),
		g.Excluded,
		g.ExpiresAt,
		g.RequestedAt,
		g.CreatedAt,
		g.UpdatedAt,
	)
}

// toGORM 將 Domain 模型轉換為 GORM 模型（時間一律存 UTC）
func toGORM(c *credit.Credit) CreditGORM {
	model := CreditGORM{
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
		model.RequestedAt = &utc
	}
	return model
}
