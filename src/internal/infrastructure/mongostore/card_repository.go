package mongostore

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// CardRepository 卡片倉儲（MongoDB）
type CardRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ card.CardRepository = (*CardRepository)(nil)

// Save 新增卡片
func (r *CardRepository) Save(tc shared.TransactionContext, c *card.Card) error {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toCardDocument(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return card.ErrRepositoryError.WithContext(
				"operation", "save",
				"reason", "duplicate card id",
			)
		}
		return mapCardError("save", err)
	}
	return nil
}

// FindByID 根據 ID 查找卡片（包含已軟刪除的卡片）
func (r *CardRepository) FindByID(tc shared.TransactionContext, cardID card.CardID) (*card.Card, error) {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	var doc cardDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": cardID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, card.ErrCardNotFound.WithContext("card_id", cardID.String())
		}
		return nil, mapCardError("find_by_id", err)
	}
	return doc.toDomain()
}

// FindByCompanyID 列出公司的卡片（依建立時間排序）
func (r *CardRepository) FindByCompanyID(
	tc shared.TransactionContext,
	companyID card.CompanyID,
	includeExcluded bool,
) ([]*card.Card, error) {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, companyCardsFilter(companyID, includeExcluded), options.Find().SetSort(fifoSort))
	if err != nil {
		return nil, mapCardError("find_by_company_id", err)
	}
	var docs []cardDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapCardError("find_by_company_id", err)
	}

	cards := make([]*card.Card, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Update 更新可變欄位（company_id、created_at 不變）
func (r *CardRepository) Update(tc shared.TransactionContext, c *card.Card) error {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	doc := toCardDocument(c)
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"title":             doc.Title,
		"credits_needed":    doc.CreditsNeeded,
		"expiration_amount": doc.ExpirationAmount,
		"expiration_unit":   doc.ExpirationUnit,
		"status":            doc.Status,
		"excluded":          doc.Excluded,
		"updated_at":        doc.UpdatedAt,
	}})
	if err != nil {
		return mapCardError("update", err)
	}
	if result.MatchedCount == 0 {
		return card.ErrCardNotFound.WithContext("card_id", doc.ID)
	}
	return nil
}

func mapCardError(operation string, err error) *shared.DomainError {
	return card.ErrRepositoryError.WithContext(
		"operation", operation,
		"cause", err.Error(),
	)
}
