package card

import (
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
)

// ===========================
// GORM Models
// ===========================

// CardGORM 卡片資料表模型
//
// 資料庫約束：
// - id: 主鍵（UUID）
// - company_id: 索引（公司卡片列表）
// - credits_needed、expiration_amount > 0
// - 時間欄位由 Domain 設定（關閉 GORM 自動時間戳），確保與注入的 Clock 一致
type CardGORM struct {
	ID        string `gorm:"column:id;type:varchar(36);primaryKey"`
	CompanyID string `gorm:"column:company_id;type:varchar(36);index;not null"`

	Title            string `gorm:"column:title;type:varchar(255);not null"`
	CreditsNeeded    int    `gorm:"column:credits_needed;not null;check:credits_needed > 0"`
	ExpirationAmount int    `gorm:"column:expiration_amount;not null;check:expiration_amount > 0"`
	ExpirationUnit   string `gorm:"column:expiration_unit;type:varchar(8);not null"`

	Status   string `gorm:"column:status;type:varchar(16);not null"`
	Excluded bool   `gorm:"column:excluded;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

// TableName 指定資料表名稱
func (CardGORM) TableName() string {
	return "cards"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 模型
//
// 到期規則以 ReconstructExpirationPolicy 還原（不驗證）；
// 損壞的單位會在計算到期時以 ErrUnsupportedExpirationUnit 浮現。
func (g *CardGORM) toDomain() (*card.Card, error) {
	cardID, err := card.CardIDFromString(g.ID)
	if err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(g.CompanyID)
	if err != nil {
		return nil, err
	}

	return card.ReconstructCard(
		cardID,
		companyID,
		g.Title,
		g.CreditsNeeded,
		card.ReconstructExpirationPolicy(g.ExpirationAmount, card.ExpirationUnit(g.ExpirationUnit)),
		card.Status(g.Status),
		g.Excluded,
		g.CreatedAt,
		g.UpdatedAt,
	)
}

// toGORM 將 Domain 模型轉換為 GORM 模型（時間一律存 UTC）
func toGORM(c *card.Card) *CardGORM {
	return &CardGORM{
		ID:               c.CardID().String(),
		CompanyID:        c.CompanyID().String(),
		Title:            c.Title(),
		CreditsNeeded:    c.CreditsNeeded(),
		ExpirationAmount: c.ExpirationPolicy().Amount(),
		ExpirationUnit:   string(c.ExpirationPolicy().Unit()),
		Status:           string(c.Status()),
		Excluded:         c.Excluded(),
		CreatedAt:        c.CreatedAt().UTC(),
		UpdatedAt:        c.UpdatedAt().UTC(),
	}
}
