package redemption

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

type fixture struct {
	companyID card.CompanyID
	userID    credit.UserID
	card      *card.Card
	cards     *MockCardRepository
	credits   *MockCreditRepository
	tx        *MockTransactionManager
	publisher *MockEventPublisher
	useCase   *RedeemUseCase
}

func newFixture(t *testing.T, creditsNeeded int) *fixture {
	t.Helper()
	companyID := card.NewCompanyID()
	policy, err := card.NewExpirationPolicy(1, card.UnitMonth)
	require.NoError(t, err)
	c, err := card.NewCard(companyID, "Free Pizza", creditsNeeded, policy, now.AddDate(0, -2, 0))
	require.NoError(t, err)

	f := &fixture{
		companyID: companyID,
		userID:    credit.NewUserID(),
		card:      c,
		cards:     NewMockCardRepository(c),
		credits:   NewMockCreditRepository(),
		publisher: &MockEventPublisher{},
	}
	f.tx = &MockTransactionManager{repo: f.credits}
	f.useCase = NewRedeemUseCase(
		f.cards, f.credits, f.tx,
		card.OwnershipCapability{},
		shared.FixedClock{At: now},
		f.publisher,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

// grant 以公司身分在 issuedAt 發放一筆點數
func (f *fixture) grant(t *testing.T, issuedAt time.Time) *credit.Credit {
	t.Helper()
	cr, err := credit.IssueCredit(f.userID, f.card, card.CompanyIssuer(f.companyID), issuedAt)
	require.NoError(t, err)
	require.NoError(t, f.credits.SaveAll(nil, []*credit.Credit{cr}))
	return cr
}

// stored 返回倉儲中保存的點數
func (f *fixture) stored(cr *credit.Credit) *credit.Credit {
	return f.credits.Stored(cr.CreditID())
}

func (f *fixture) command() RedeemCommand {
	return RedeemCommand{
		CompanyID: f.companyID.String(),
		UserID:    f.userID.String(),
		CardID:    f.card.CardID().String(),
	}
}

// ===========================
// RedeemUseCase Tests
// ===========================

// 情境 A：門檻 3，剛好 3 筆
func TestRedeem_ExactThreshold_ConsumesAll(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	t1 := f.grant(t, now.Add(-72*time.Hour))
	t2 := f.grant(t, now.Add(-48*time.Hour))
	t3 := f.grant(t, now.Add(-24*time.Hour))

	// Act
	result, err := f.useCase.Execute(f.command())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.RedeemedCredits)
	assert.Equal(t, "Free Pizza", result.CardTitle)
	for _, cr := range []*credit.Credit{t1, t2, t3} {
		saved := f.stored(cr)
		assert.Equal(t, credit.StatusUsed, saved.Status())
		require.NotNil(t, saved.RequestedAt())
		assert.Equal(t, now, *saved.RequestedAt())
	}
	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, 3, f.publisher.Events[0].(*credit.CreditsRedeemedEvent).Count())
}

// 情境 B：5 筆、門檻 2 → 消耗最舊的 2 筆
func TestRedeem_Surplus_ConsumesOldestOnly(t *testing.T) {
	// Arrange
	f := newFixture(t, 2)
	var granted []*credit.Credit
	for i := 5; i >= 1; i-- {
		granted = append(granted, f.grant(t, now.Add(-time.Duration(i)*time.Hour)))
	}

	// Act
	result, err := f.useCase.Execute(f.command())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RedeemedCredits)
	assert.Equal(t,
		[]string{granted[0].CreditID().String(), granted[1].CreditID().String()},
		result.CreditIDs,
	)
	assert.Equal(t, credit.StatusUsed, f.stored(granted[0]).Status())
	assert.Equal(t, credit.StatusUsed, f.stored(granted[1]).Status())
	for _, cr := range granted[2:] {
		assert.Equal(t, credit.StatusAvailable, f.stored(cr).Status(), "多出的點數保持 available")
	}
}

// 情境 C：門檻 5，只有 2 筆
func TestRedeem_Insufficient_LeavesCreditsUntouched(t *testing.T) {
	// Arrange
	f := newFixture(t, 5)
	c1 := f.grant(t, now.Add(-2*time.Hour))
	c2 := f.grant(t, now.Add(-time.Hour))

	// Act
	result, err := f.useCase.Execute(f.command())

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, credit.ErrInsufficientCredits)
	assert.Equal(t, shared.KindInsufficientCredits, shared.KindOf(err))
	ctx := shared.ContextOf(err)
	assert.Equal(t, 5, ctx["required"])
	assert.Equal(t, 2, ctx["available"])
	assert.Equal(t, f.card.CardID().String(), ctx["card_id"])

	assert.Equal(t, credit.StatusAvailable, f.stored(c1).Status())
	assert.Equal(t, credit.StatusAvailable, f.stored(c2).Status())
	assert.Equal(t, 0, f.credits.MarkUsedCallCount, "不足時不寫入")
	assert.Empty(t, f.publisher.Events)
}

func TestRedeem_ExpiredCreditsAreNeverSelected(t *testing.T) {
	// Arrange: 最舊的一筆在兩個月前發放，已過 1 個月到期
	f := newFixture(t, 2)
	expired := f.grant(t, now.AddDate(0, -2, 0))
	fresh1 := f.grant(t, now.Add(-2*time.Hour))
	fresh2 := f.grant(t, now.Add(-time.Hour))

	// Act
	result, err := f.useCase.Execute(f.command())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RedeemedCredits)
	assert.Equal(t, credit.StatusAvailable, f.stored(expired).Status())
	assert.Equal(t, credit.StatusUsed, f.stored(fresh1).Status())
	assert.Equal(t, credit.StatusUsed, f.stored(fresh2).Status())
}

func TestRedeem_ExcludedAndPendingCreditsDoNotCount(t *testing.T) {
	// Arrange
	f := newFixture(t, 2)
	excluded := f.grant(t, now.Add(-3*time.Hour))
	excluded.Exclude(now)
	require.NoError(t, f.credits.SaveAll(nil, []*credit.Credit{excluded}))
	pending, err := credit.IssueCredit(f.userID, f.card, card.SelfIssuer(), now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.credits.SaveAll(nil, []*credit.Credit{pending}))
	f.grant(t, now.Add(-time.Hour))

	// Act
	_, err = f.useCase.Execute(f.command())

	// Assert
	assert.ErrorIs(t, err, credit.ErrInsufficientCredits)
	assert.Equal(t, 1, shared.ContextOf(err)["available"])
}

func TestRedeem_OtherUsersCreditsDoNotCount(t *testing.T) {
	// Arrange
	f := newFixture(t, 1)
	other, err := credit.IssueCredit(credit.NewUserID(), f.card, card.CompanyIssuer(f.companyID), now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.credits.SaveAll(nil, []*credit.Credit{other}))

	// Act
	_, err = f.useCase.Execute(f.command())

	// Assert
	assert.ErrorIs(t, err, credit.ErrInsufficientCredits)
	assert.Equal(t, credit.StatusAvailable, f.stored(other).Status())
}

func TestRedeem_ConcurrentRedemption_RollsBackAndReturnsInsufficient(t *testing.T) {
	// Arrange
	f := newFixture(t, 2)
	c1 := f.grant(t, now.Add(-2*time.Hour))
	c2 := f.grant(t, now.Add(-time.Hour))

	// 另一個請求在條件更新前搶先消耗 c2
	f.credits.BeforeMarkUsed = func() {
		require.NoError(t, c2.MarkUsed(now.Add(-time.Minute)))
		require.NoError(t, f.credits.SaveAll(nil, []*credit.Credit{c2}))
		f.credits.BeforeMarkUsed = nil
	}

	// Act
	result, err := f.useCase.Execute(f.command())

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, credit.ErrInsufficientCredits)
	ctx := shared.ContextOf(err)
	assert.Equal(t, "concurrent_redemption", ctx["reason"])
	assert.Equal(t, 2, ctx["required"])
	assert.Equal(t, 1, ctx["available"])

	assert.Equal(t, 1, f.tx.RollbackCount)
	assert.Equal(t, credit.StatusAvailable, f.stored(c1).Status(), "回滾後 c1 恢復 available")
	assert.Equal(t, credit.StatusUsed, f.stored(c2).Status(), "另一個請求的兌換不受影響")
	assert.Empty(t, f.publisher.Events)
}

// 條件更新成功後，use case 載入的實體也要反映 used 狀態
func TestRedeem_SelectedEntitiesReflectRedemption(t *testing.T) {
	// Arrange
	f := newFixture(t, 2)
	oldest := f.grant(t, now.Add(-3*time.Hour))
	middle := f.grant(t, now.Add(-2*time.Hour))
	newest := f.grant(t, now.Add(-time.Hour))

	// Act
	_, err := f.useCase.Execute(f.command())

	// Assert
	require.NoError(t, err)
	require.Len(t, f.credits.Loaded, 3)
	for _, loaded := range f.credits.Loaded {
		switch loaded.CreditID() {
		case oldest.CreditID(), middle.CreditID():
			assert.Equal(t, credit.StatusUsed, loaded.Status())
			require.NotNil(t, loaded.RequestedAt())
			assert.Equal(t, now, *loaded.RequestedAt())
			assert.Equal(t, now, loaded.UpdatedAt())
		case newest.CreditID():
			assert.Equal(t, credit.StatusAvailable, loaded.Status())
			assert.Nil(t, loaded.RequestedAt())
		}
	}
}

func TestRedeem_CardNotFound_ReturnsNotAvailable(t *testing.T) {
	// Arrange
	f := newFixture(t, 1)
	cmd := f.command()
	cmd.CardID = card.NewCardID().String()

	// Act
	_, err := f.useCase.Execute(cmd)

	// Assert
	assert.ErrorIs(t, err, card.ErrCardNotAvailable)
	assert.Equal(t, shared.KindNotAvailable, shared.KindOf(err))
	assert.Equal(t, "card not found", shared.ContextOf(err)["reason"])
}

func TestRedeem_UnavailableCard_ReturnsNotAvailable(t *testing.T) {
	// Arrange
	f := newFixture(t, 1)
	f.grant(t, now.Add(-time.Hour))
	require.NoError(t, f.card.ChangeStatus(card.StatusUnavailable, now))

	// Act
	_, err := f.useCase.Execute(f.command())

	// Assert
	assert.ErrorIs(t, err, card.ErrCardNotAvailable)
	assert.Equal(t, 0, f.credits.MarkUsedCallCount)
}

func TestRedeem_CardOfAnotherCompany_ReturnsNotOwned(t *testing.T) {
	// Arrange
	f := newFixture(t, 1)
	f.grant(t, now.Add(-time.Hour))
	cmd := f.command()
	cmd.CompanyID = card.NewCompanyID().String()

	// Act
	_, err := f.useCase.Execute(cmd)

	// Assert
	assert.ErrorIs(t, err, card.ErrCardNotOwned)
	assert.Equal(t, shared.KindNotAvailable, shared.KindOf(err))
}

func TestRedeem_InvalidCommand_ReturnsValidationError(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.useCase.Execute(RedeemCommand{CompanyID: f.companyID.String()})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, 0, f.tx.InTransactionCallCount)
}

func TestRedeem_ExecuteWithContext_DoesNotPublish(t *testing.T) {
	// Arrange
	f := newFixture(t, 1)
	cr := f.grant(t, now.Add(-time.Hour))

	// Act
	result, err := f.useCase.ExecuteWithContext(nil, f.command())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.RedeemedCredits)
	assert.Equal(t, credit.StatusUsed, f.stored(cr).Status())
	assert.Empty(t, f.publisher.Events)
	assert.Equal(t, 0, f.tx.InTransactionCallCount)
}
