package credit_test

import (
	"testing"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCard(t *testing.T, needed int) *card.Card {
	t.Helper()
	policy, err := card.NewExpirationPolicy(1, card.UnitMonth)
	require.NoError(t, err)
	c, err := card.NewCard(card.NewCompanyID(), "Free Coffee", needed, policy, baseTime)
	require.NoError(t, err)
	return c
}

// buildCredit 直接重建指定狀態的點數
func buildCredit(t *testing.T, status credit.Status, createdAt, expiresAt time.Time, excluded bool) *credit.Credit {
	t.Helper()
	var requestedAt *time.Time
	if status == credit.StatusUsed {
		at := createdAt
		requestedAt = &at
	}
	c, err := credit.ReconstructCredit(
		credit.NewCreditID(),
		credit.NewUserID(),
		card.NewCardID(),
		card.NewCompanyID(),
		status,
		excluded,
		expiresAt,
		requestedAt,
		createdAt,
		createdAt,
	)
	require.NoError(t, err)
	return c
}

func availableCredit(t *testing.T, createdAt time.Time) *credit.Credit {
	t.Helper()
	return buildCredit(t, credit.StatusAvailable, createdAt, createdAt.AddDate(0, 1, 0), false)
}
