package card

import (
	"errors"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"gorm.io/gorm"
)

// gormTransactionContext GORM 事務上下文
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// ===========================
// CardRepositoryImpl
// ===========================

// CardRepositoryImpl 卡片倉儲實現（GORM）
type CardRepositoryImpl struct {
	db *gorm.DB
}

// NewCardRepository 創建卡片倉儲
func NewCardRepository(db *gorm.DB) card.CardRepository {
	return &CardRepositoryImpl{db: db}
}

// Migrate 建立 cards 資料表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&CardGORM{})
}

// Save 保存新卡片
func (r *CardRepositoryImpl) Save(ctx shared.TransactionContext, c *card.Card) error {
	if err := r.getDB(ctx).Create(toGORM(c)).Error; err != nil {
		return mapError("save", err).WithContext("card_id", c.CardID().String())
	}
	return nil
}

// FindByID 根據 ID 查找卡片（包含已軟刪除）
//
// 錯誤處理：
// - gorm.ErrRecordNotFound → card.ErrCardNotFound
func (r *CardRepositoryImpl) FindByID(ctx shared.TransactionContext, cardID card.CardID) (*card.Card, error) {
	var model CardGORM
	err := r.getDB(ctx).Where("id = ?", cardID.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, card.ErrCardNotFound.WithContext("card_id", cardID.String())
		}
		return nil, mapError("find_by_id", err)
	}
	return model.toDomain()
}

// FindByCompanyID 列出公司卡片，依建立時間排序
func (r *CardRepositoryImpl) FindByCompanyID(
	ctx shared.TransactionContext,
	companyID card.CompanyID,
	includeExcluded bool,
) ([]*card.Card, error) {
	query := r.getDB(ctx).Where("company_id = ?", companyID.String())
	if !includeExcluded {
		query = query.Where("excluded = ?", false)
	}

	var models []CardGORM
	if err := query.Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, mapError("find_by_company_id", err)
	}

	cards := make([]*card.Card, 0, len(models))
	for i := range models {
		c, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Update 更新卡片的可變欄位
//
// 只更新 title、門檻、到期規則、狀態、excluded 與 updated_at；
// id、company_id、created_at 不可變。
func (r *CardRepositoryImpl) Update(ctx shared.TransactionContext, c *card.Card) error {
	model := toGORM(c)
	result := r.getDB(ctx).
		Model(&CardGORM{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":             model.Title,
			"credits_needed":    model.CreditsNeeded,
			"expiration_amount": model.ExpirationAmount,
			"expiration_unit":   model.ExpirationUnit,
			"status":            model.Status,
			"excluded":          model.Excluded,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return mapError("update", result.Error).WithContext("card_id", model.ID)
	}
	if result.RowsAffected == 0 {
		return card.ErrCardNotFound.WithContext("card_id", model.ID)
	}
	return nil
}

// ===========================
// Helper Methods
// ===========================

// getDB ctx 為 GORM 事務上下文時使用事務連線，否則使用預設 DB（auto-commit）
func (r *CardRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if txCtx, ok := ctx.(gormTransactionContext); ok {
			return txCtx.GetDB()
		}
	}
	return r.db
}

func mapError(operation string, err error) *shared.DomainError {
	return card.ErrRepositoryError.WithContext(
		"operation", operation,
		"cause", err.Error(),
	)
}
