package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
)

// fifoSort 依 created_at、_id 升冪
var fifoSort = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// creditFilter 將 credit.Filter 轉為查詢條件；零值欄位不加條件
func creditFilter(f credit.Filter) bson.M {
	filter := bson.M{}
	if !f.UserID.IsEmpty() {
		filter["user_id"] = f.UserID.String()
	}
	if !f.CardID.IsEmpty() {
		filter["card_id"] = f.CardID.String()
	}
	if !f.CompanyID.IsEmpty() {
		filter["company_id"] = f.CompanyID.String()
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	if !f.IncludeExcluded {
		filter["excluded"] = false
	}
	if r := timeRange(f.CreatedFrom, f.CreatedTo); r != nil {
		filter["created_at"] = r
	}
	if r := timeRange(f.RequestedFrom, f.RequestedTo); r != nil {
		filter["requested_at"] = r
	}
	return filter
}

// timeRange [from, to)；兩端皆為零值時返回 nil
func timeRange(from, to time.Time) bson.M {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	r := bson.M{}
	if !from.IsZero() {
		r["$gte"] = from.UTC()
	}
	if !to.IsZero() {
		r["$lt"] = to.UTC()
	}
	return r
}

// markUsedFilter 只匹配仍可兌換的點數
func markUsedFilter(ids []credit.CreditID) bson.M {
	return bson.M{
		"_id":      bson.M{"$in": credit.CreditIDStrings(ids)},
		"status":   string(credit.StatusAvailable),
		"excluded": false,
	}
}

func markUsedUpdate(requestedAt time.Time) bson.M {
	at := requestedAt.UTC()
	return bson.M{"$set": bson.M{
		"status":       string(credit.StatusUsed),
		"requested_at": at,
		"updated_at":   at,
	}}
}

func transitionFilter(id credit.CreditID, from credit.Status) bson.M {
	return bson.M{"_id": id.String(), "status": string(from)}
}

func companyCardsFilter(companyID card.CompanyID, includeExcluded bool) bson.M {
	filter := bson.M{"company_id": companyID.String()}
	if !includeExcluded {
		filter["excluded"] = false
	}
	return filter
}
