package credit

import (
	"errors"
	"strings"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"gorm.io/gorm"
)

// gormTransactionContext GORM 事務上下文
type gormTransactionContext interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// ===========================
// CreditRepositoryImpl
// ===========================

// CreditRepositoryImpl 點數倉儲實現（GORM）
//
// 所有狀態寫入都是條件更新（WHERE id = ? AND status = ?），
// 由資料庫保證同一筆點數不會被兩個請求同時消耗。
type CreditRepositoryImpl struct {
	db *gorm.DB
}

// NewCreditRepository 創建點數倉儲
func NewCreditRepository(db *gorm.DB) credit.CreditRepository {
	return &CreditRepositoryImpl{db: db}
}

// Migrate 建立 credits 資料表與索引
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&CreditGORM{})
}

// SaveAll 單一 INSERT 批次寫入
func (r *CreditRepositoryImpl) SaveAll(ctx shared.TransactionContext, credits []*credit.Credit) error {
	if len(credits) == 0 {
		return nil
	}

	models := make([]CreditGORM, len(credits))
	for i, c := range credits {
		models[i] = toGORM(c)
	}

	if err := r.getDB(ctx).Create(&models).Error; err != nil {
		if isUniqueConstraintError(err) {
			return credit.ErrRepositoryError.WithContext(
				"operation", "save_all",
				"reason", "duplicate credit id",
			)
		}
		return mapError("save_all", err)
	}
	return nil
}

// FindByID 根據 ID 查找點數
func (r *CreditRepositoryImpl) FindByID(ctx shared.TransactionContext, creditID credit.CreditID) (*credit.Credit, error) {
	var model CreditGORM
	err := r.getDB(ctx).Where("id = ?", creditID.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credit.ErrCreditNotFound.WithContext("credit_id", creditID.String())
		}
		return nil, mapError("find_by_id", err)
	}
	return model.toDomain()
}

// Find 依條件查詢，依 created_at、id 升冪排序
func (r *CreditRepositoryImpl) Find(ctx shared.TransactionContext, filter credit.Filter) ([]*credit.Credit, error) {
	var models []CreditGORM
	err := applyFilter(r.getDB(ctx).Model(&CreditGORM{}), filter).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, mapError("find", err)
	}

	credits := make([]*credit.Credit, 0, len(models))
	for i := range models {
		c, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, nil
}

// MarkUsed 條件批次更新：available 且未刪除 → used
//
// UPDATE credits SET status = 'used', requested_at = ?, updated_at = ?
// WHERE id IN (?) AND status = 'available' AND excluded = false
func (r *CreditRepositoryImpl) MarkUsed(
	ctx shared.TransactionContext,
	ids []credit.CreditID,
	requestedAt time.Time,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	at := requestedAt.UTC()
	result := r.getDB(ctx).
		Model(&CreditGORM{}).
		Where("id IN ? AND status = ? AND excluded = ?",
			credit.CreditIDStrings(ids), string(credit.StatusAvailable), false).
		Updates(map[string]interface{}{
			"status":       string(credit.StatusUsed),
			"requested_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return 0, mapError("mark_used", result.Error)
	}
	return result.RowsAffected, nil
}

// TransitionStatus 條件狀態轉換
//
// 影響 0 筆時再查一次，區分「不存在」與「狀態已改變」。
func (r *CreditRepositoryImpl) TransitionStatus(
	ctx shared.TransactionContext,
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

	db := r.getDB(ctx)
	result := db.Model(&CreditGORM{}).
		Where("id = ? AND status = ?", creditID.String(), string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return mapError("transition_status", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, creditID)
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
func (r *CreditRepositoryImpl) Exclude(ctx shared.TransactionContext, creditID credit.CreditID, at time.Time) error {
	result := r.getDB(ctx).
		Model(&CreditGORM{}).
		Where("id = ?", creditID.String()).
		Updates(map[string]interface{}{
			"excluded":   true,
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return mapError("exclude", result.Error)
	}
	if result.RowsAffected == 0 {
		return credit.ErrCreditNotFound.WithContext("credit_id", creditID.String())
	}
	return nil
}

// ===========================
// Helper Methods
// ===========================

// applyFilter 將 Filter 轉為 WHERE 條件；零值欄位不加條件
func applyFilter(db *gorm.DB, f credit.Filter) *gorm.DB {
	if !f.UserID.IsEmpty() {
		db = db.Where("user_id = ?", f.UserID.String())
	}
	if !f.CardID.IsEmpty() {
		db = db.Where("card_id = ?", f.CardID.String())
	}
	if !f.CompanyID.IsEmpty() {
		db = db.Where("company_id = ?", f.CompanyID.String())
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		db = db.Where("status IN ?", statuses)
	}
	if !f.IncludeExcluded {
		db = db.Where("excluded = ?", false)
	}
	if !f.CreatedFrom.IsZero() {
		db = db.Where("created_at >= ?", f.CreatedFrom.UTC())
	}
	if !f.CreatedTo.IsZero() {
		db = db.Where("created_at < ?", f.CreatedTo.UTC())
	}
	if !f.RequestedFrom.IsZero() {
		db = db.Where("requested_at >= ?", f.RequestedFrom.UTC())
	}
	if !f.RequestedTo.IsZero() {
		db = db.Where("requested_at < ?", f.RequestedTo.UTC())
	}
	return db
}

// getDB ctx 為 GORM 事務上下文時使用事務連線，否則使用預設 DB（auto-commit）
func (r *CreditRepositoryImpl) getDB(ctx shared.TransactionContext) *gorm.DB {
	if ctx != nil {
		if txCtx, ok := ctx.(gormTransactionContext); ok {
			return txCtx.GetDB()
		}
	}
	return r.db
}

func mapError(operation string, err error) *shared.DomainError {
	return credit.ErrRepositoryError.WithContext(
		"operation", operation,
		"cause", err.Error(),
	)
}

// isUniqueConstraintError 判斷是否為唯一約束錯誤
//
// - PostgreSQL: "duplicate key value violates unique constraint"
// - SQLite: "UNIQUE constraint failed"
func isUniqueConstraintError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "unique constraint failed")
}
