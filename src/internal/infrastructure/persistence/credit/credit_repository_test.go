package credit

import (
	"testing"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// CreditRepository Integration Tests
// ===========================

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// setupTestDB 創建測試資料庫（in-memory SQLite）
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db), "failed to migrate database schema")
	return db
}

type seed struct {
	userID    credit.UserID
	card      *card.Card
	companyID card.CompanyID
}

func newSeed(t *testing.T) seed {
	t.Helper()
	companyID := card.NewCompanyID()
	policy, err := card.NewExpirationPolicy(1, card.UnitMonth)
	require.NoError(t, err)
	c, err := card.NewCard(companyID, "Free Coffee", 2, policy, baseTime.AddDate(0, -1, 0))
	require.NoError(t, err)
	return seed{userID: credit.NewUserID(), card: c, companyID: companyID}
}

func (s seed) issue(t *testing.T, issuer card.Issuer, at time.Time) *credit.Credit {
	t.Helper()
	cr, err := credit.IssueCredit(s.userID, s.card, issuer, at)
	require.NoError(t, err)
	return cr
}

func (s seed) grant(t *testing.T, at time.Time) *credit.Credit {
	return s.issue(t, card.CompanyIssuer(s.companyID), at)
}

func TestCreditRepository_SaveAll_BulkInsertsAndRoundTrips(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	s := newSeed(t)
	credits := []*credit.Credit{s.grant(t, baseTime), s.grant(t, baseTime.Add(time.Hour))}

	// Act
	err := repo.SaveAll(nil, credits)

	// Assert
	require.NoError(t, err)
	var count int64
	db.Model(&CreditGORM{}).Count(&count)
	assert.Equal(t, int64(2), count)

	found, err := repo.FindByID(nil, credits[0].CreditID())
	require.NoError(t, err)
	assert.True(t, found.UserID().Equals(s.userID))
	assert.True(t, found.CardID().Equals(s.card.CardID()))
	assert.True(t, found.CompanyID().Equals(s.companyID))
	assert.Equal(t, credit.StatusAvailable, found.Status())
	assert.WithinDuration(t, credits[0].ExpiresAt(), found.ExpiresAt(), 0)
	assert.WithinDuration(t, baseTime, found.CreatedAt(), 0)
	assert.Nil(t, found.RequestedAt())
}

func TestCreditRepository_SaveAll_DuplicateRollsBackWholeBatch(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	s := newSeed(t)
	existing := s.grant(t, baseTime)
	require.NoError(t, repo.SaveAll(nil, []*credit.Credit{existing}))

	// Act: 同一批次含重複 ID
	err := repo.SaveAll(nil, []*credit.Credit{s.grant(t, baseTime), existing})

	// Assert
	assert.ErrorIs(t, err, credit.ErrRepositoryError)
	assert.Equal(t, "duplicate credit id", shared.ContextOf(err)["reason"])
	var count int64
	db.Model(&CreditGORM{}).Count(&count)
	assert.Equal(t, int64(1), count, "單一 INSERT，不會部分寫入")
}

func TestCreditRepository_SaveAll_Empty_IsNoop(t *testing.T) {
	repo := NewCreditRepository(setupTestDB(t))

	assert.NoError(t, repo.SaveAll(nil, nil))
}

func TestCreditRepository_FindByID_NotFound(t *testing.T) {
	repo := NewCreditRepository(setupTestDB(t))

	_, err := repo.FindByID(nil, credit.NewCreditID())

	assert.ErrorIs(t, err, credit.ErrCreditNotFound)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestCreditRepository_Find_EligibleFilter_OrdersOldestFirst(t *testing.T) {
	// Arrange
	repo := NewCreditRepository(setupTestDB(t))
	s := newSeed(t)
	newer := s.grant(t, baseTime.Add(2*time.Hour))
	older := s.grant(t, baseTime)
	pending := s.issue(t, card.SelfIssuer(), baseTime.Add(time.Hour))
	excluded := s.grant(t, baseTime.Add(-time.Hour))
	excluded.Exclude(baseTime)
	otherUser := newSeed(t)
	otherUser.card = s.card
	foreign := otherUser.grant(t, baseTime)
	require.NoError(t, repo.SaveAll(nil, []*credit.Credit{newer, older, pending, excluded, foreign}))

	// Act
	found, err := repo.Find(nil, credit.EligibleFilter(s.userID, s.card.CardID()))

	// Assert
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.True(t, found[0].CreditID().Equals(older.CreditID()))
	assert.True(t, found[1].CreditID().Equals(newer.CreditID()))
}

func TestCreditRepository_Find_TimeRanges(t *testing.T) {
	// Arrange
	repo := NewCreditRepository(setupTestDB(t))
	s := newSeed(t)
	before := s.grant(t, baseTime.Add(-time.Second))
	atStart := s.grant(t, baseTime)
	atEnd := s.grant(t, baseTime.Add(24*time.Hour))
	require.NoError(t, repo.SaveAll(nil, []*credit.Credit{before, atStart, atEnd}))

	// Act
	found, err := repo.Find(nil, credit.Filter{
		CompanyID:   s.companyID,
		CreatedFrom: baseTime,
		CreatedTo:   baseTime.Add(24 * time.Hour),
	})

	// Assert: [From, To)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].CreditID().Equals(atStart.CreditID()))
}

func TestCreditRepository_MarkUsed_OnlyMatchesAvailable(t *testing.T) {
	// Arrange
	repo := NewCreditRepository(setupTestDB(t))
	s := newSeed(t)
	c1 := s.grant(t, baseTime)
	c2 := s.grant(t, baseTime.Add(time.Minute))
	c3 := s.grant(t, baseTime.Add(2*time.Minute))
	c3.Exclude(baseTime)
	require.NoError(t, repo.SaveAll(nil, []*credit.Credit{c1, c2, c3}))
	usedAt := baseTime.Add(time.Hour)

	// 另一個請求已先消耗 c2
	affected, err := repo.MarkUsed(nil, []credit.CreditID{c2.CreditID()}, usedAt)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	// Act
	affected, err = repo.MarkUsed(nil, []credit.CreditID{c1.CreditID(), c2.CreditID(), c3.CreditID()}, usedAt)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected, "只有 c1 仍為 available 且未刪除")

	found, err := repo.FindByID(nil, c1.CreditID())
	require.NoError(t, err)
	assert.Equal(t, credit.StatusUsed, found.Status())
	require.NotNil(t, found.RequestedAt())
	assert.WithinDuration(t, usedAt, *found.RequestedAt(), 0)

	excluded, err := repo.FindByID(nil, c3.CreditID())
	require.NoError(t, err)
	assert.Equal(t, credit.StatusAvailable, excluded.Status())
}

func TestCreditRepository_TransitionStatus(t *testing.T) {
	// Arrange
	repo := NewCreditRepository(setupTestDB(t))
	s := newSeed(t)
	pending := s.issue(t, card.SelfIssuer(), baseTime)
	require.NoError(t, repo.SaveAll(nil, []*credit.Credit{pending}))

	// Act
	err := repo.TransitionStatus(nil, pending.CreditID(), credit.StatusPending, credit.StatusAvailable, baseTime)

	// Assert
	require.NoError(t, err)
	found, _ := repo.FindByID(nil, pending.CreditID())
	assert.Equal(t, credit.StatusAvailable, found.Status())

	// 第二次審核：目前狀態已不是 pending
	err = repo.TransitionStatus(nil, pending.CreditID(), credit.StatusPending, credit.StatusRejected, baseTime)
	assert.ErrorIs(t, err, credit.ErrInvalidTransition)
	assert.Equal(t, "available", shared.ContextOf(err)["current"])
}

func TestCreditRepository_TransitionStatus_Errors(t *testing.T) {
	repo := NewCreditRepository(setupTestDB(t))

	err := repo.TransitionStatus(nil, credit.NewCreditID(), credit.StatusPending, credit.StatusAvailable, baseTime)
	assert.ErrorIs(t, err, credit.ErrCreditNotFound)

	err = repo.TransitionStatus(nil, credit.NewCreditID(), credit.StatusUsed, credit.StatusAvailable, baseTime)
	assert.ErrorIs(t, err, credit.ErrInvalidTransition)
}

func TestCreditRepository_Exclude(t *testing.T) {
	// Arrange
	repo := NewCreditRepository(setupTestDB(t))
	s := newSeed(t)
	c := s.grant(t, baseTime)
	require.NoError(t, repo.SaveAll(nil, []*credit.Credit{c}))

	// Act
	err := repo.Exclude(nil, c.CreditID(), baseTime)

	// Assert
	require.NoError(t, err)
	found, _ := repo.FindByID(nil, c.CreditID())
	assert.True(t, found.Excluded())
	assert.Equal(t, credit.StatusAvailable, found.Status())

	assert.ErrorIs(t, repo.Exclude(nil, credit.NewCreditID(), baseTime), credit.ErrCreditNotFound)
}
