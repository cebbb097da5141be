package mongostore

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// CreditRepository 點數倉儲（MongoDB）
//
// 狀態寫入一律以 {_id, status} 為條件，與 GORM 實作相同。
type CreditRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ credit.CreditRepository = (*CreditRepository)(nil)

// SaveAll 單一 InsertMany 批次寫入
func (r *CreditRepository) SaveAll(tc shared.TransactionContext, credits []*credit.Credit) error {
	if len(credits) == 0 {
		return nil
	}
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	docs := make([]interface{}, len(credits))
	for i, c := range credits {
		docs[i] = toCreditDocument(c)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return credit.ErrRepositoryError.WithContext(
				"operation", "save_all",
				"reason", "duplicate credit id",
			)
		}
		return mapCreditError("save_all", err)
	}
	return nil
}

// FindByID 根據 ID 查找點數
func (r *CreditRepository) FindByID(tc shared.TransactionContext, creditID credit.CreditID) (*credit.Credit, error) {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	var doc creditDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": creditID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, credit.ErrCreditNotFound.WithContext("credit_id", creditID.String())
		}
		return nil, mapCreditError("find_by_id", err)
	}
	return doc.toDomain()
}

// Find 依條件查詢（created_at、_id 升冪）
func (r *CreditRepository) Find(tc shared.TransactionContext, filter credit.Filter) ([]*credit.Credit, error) {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, creditFilter(filter), options.Find().SetSort(fifoSort))
	if err != nil {
		return nil, mapCreditError("find", err)
	}
	var docs []creditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapCreditError("find", err)
	}

	credits := make([]*credit.Credit, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, nil
}

// MarkUsed 條件批次更新，返回實際修改筆數
func (r *CreditRepository) MarkUsed(tc shared.TransactionContext, ids []credit.CreditID, requestedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	result, err := r.coll.UpdateMany(ctx, markUsedFilter(ids), markUsedUpdate(requestedAt))
	if err != nil {
		return 0, mapCreditError("mark_used", err)
	}
	return result.ModifiedCount, nil
}

// TransitionStatus 條件狀態轉換
func (r *CreditRepository) TransitionStatus(
	tc shared.TransactionContext,
	creditID credit.CreditID,
	from, to credit.Status,
	at time.Time,
) error {
	if !from.CanTransitionTo(to) {
		return credit.ErrInvalidTransition.WithContext(
			"credit_id", creditID.String(),
			"from", string(from),
			"to", string(to),
		)
	}
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, transitionFilter(creditID, from), bson.M{"$set": bson.M{
		"status":     string(to),
		"updated_at": at.UTC(),
	}})
	if err != nil {
		return mapCreditError("transition_status", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	current, err := r.FindByID(tc, creditID)
	if err != nil {
		return err
	}
	return credit.ErrInvalidTransition.WithContext(
		"credit_id", creditID.String(),
		"expected", string(from),
		"current", string(current.Status()),
	)
}

// Exclude 軟刪除（狀態不變）
func (r *CreditRepository) Exclude(tc shared.TransactionContext, creditID credit.CreditID, at time.Time) error {
	ctx, cancel := operationContext(tc, r.timeout)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": creditID.String()}, bson.M{"$set": bson.M{
		"excluded":   true,
		"updated_at": at.UTC(),
	}})
	if err != nil {
		return mapCreditError("exclude", err)
	}
	if result.MatchedCount == 0 {
		return credit.ErrCreditNotFound.WithContext("credit_id", creditID.String())
	}
	return nil
}

func mapCreditError(operation string, err error) *shared.DomainError {
	return credit.ErrRepositoryError.WithContext(
		"operation", operation,
		"cause", err.Error(),
	)
}
