package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/credit_ledger/src/internal/application/cards"
	"github.com/jackyeh168/credit_ledger/src/internal/application/issuance"
	"github.com/jackyeh168/credit_ledger/src/internal/application/redemption"
	"github.com/jackyeh168/credit_ledger/src/internal/application/reporting"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// 測試輔助函數
// ===========================

// writeConfig 建立指向暫存 SQLite 檔案的設定檔
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	content := "[log]\nlevel = \"ERROR\"\n\n[db]\ndriver = \"sqlite\"\ndsn = \"" +
		filepath.ToSlash(filepath.Join(dir, "ledger.db")) + "\"\n" + extra
	path := filepath.Join(dir, "credit_ledger.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", configPath, "--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func mustExecute(t *testing.T, configPath string, out interface{}, args ...string) {
	t.Helper()
	stdout, stderr, err := execute(t, configPath, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(stdout), out), "stdout: %s", stdout)
	}
}

type ledger struct {
	configPath string
	companyID  string
	userID     string
	cardID     string
}

func newLedger(t *testing.T, extraConfig string, creditsNeeded string) ledger {
	t.Helper()
	l := ledger{
		configPath: writeConfig(t, extraConfig),
		companyID:  uuid.NewString(),
		userID:     uuid.NewString(),
	}
	mustExecute(t, l.configPath, nil, "migrate")

	var created cards.CardDTO
	mustExecute(t, l.configPath, &created, "card", "create",
		"--company", l.companyID,
		"--title", "Free Coffee",
		"--credits-needed", creditsNeeded,
		"--expiration-amount", "3",
		"--expiration-unit", "month",
	)
	l.cardID = created.CardID
	return l
}

// ===========================
// 端到端流程
// ===========================

func TestCLI_IssueRedeemAndStats(t *testing.T) {
	// Arrange
	l := newLedger(t, "", "2")

	// Act: 發放 3 筆並兌換一次（門檻 2）
	var issued issuance.IssueCreditsResult
	mustExecute(t, l.configPath, &issued, "credits", "issue",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID+":3")
	var redeemed redemption.RedeemResult
	mustExecute(t, l.configPath, &redeemed, "redeem",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID)
	var stats reporting.CompanyDashboardResult
	mustExecute(t, l.configPath, &stats, "stats", "--company", l.companyID)

	var balance redemption.GetCardBalanceResult
	mustExecute(t, l.configPath, &balance, "balance", "--user", l.userID, "--card", l.cardID)

	// Assert
	assert.Equal(t, 3, issued.CreatedCount)
	assert.Equal(t, 1, balance.Eligible)
	assert.False(t, balance.CanRedeem)
	assert.Equal(t, 2, redeemed.RedeemedCredits)
	assert.Equal(t, "Free Coffee", redeemed.CardTitle)
	// 同一批次的 created_at 相同，依 ID 決定先後
	byID := slices.Clone(issued.CreditIDs)
	slices.Sort(byID)
	assert.ElementsMatch(t, byID[:2], redeemed.CreditIDs)

	require.Len(t, stats.CreditsGiven, 4)
	assert.Equal(t, 3, stats.TotalGiven)
	assert.Equal(t, 2, stats.TotalUsed)
	assert.Equal(t, 1, stats.TotalNewClients)
	assert.Equal(t, "66.67", stats.RedemptionRate.String())
}

func TestCLI_RedeemWithoutEnoughCredits_ExitCode(t *testing.T) {
	l := newLedger(t, "", "5")
	mustExecute(t, l.configPath, nil, "credits", "issue",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID+":2")

	_, _, err := execute(t, l.configPath, "redeem",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID)

	require.ErrorIs(t, err, credit.ErrInsufficientCredits)
	assert.Equal(t, 4, exitCode(err))
	assert.Equal(t, 5, shared.ContextOf(err)["required"])
	assert.Equal(t, 2, shared.ContextOf(err)["available"])
}

func TestCLI_SelfServiceRequestNeedsApproval(t *testing.T) {
	l := newLedger(t, "", "1")

	var requested issuance.IssueCreditsResult
	mustExecute(t, l.configPath, &requested, "credits", "issue", "--user", l.userID, "--card", l.cardID)
	require.Len(t, requested.CreditIDs, 1)
	assert.Equal(t, "pending", requested.Status)

	_, _, err := execute(t, l.configPath, "redeem",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID)
	require.ErrorIs(t, err, credit.ErrInsufficientCredits, "pending credits are not redeemable")

	var reviewed issuance.ReviewCreditResult
	mustExecute(t, l.configPath, &reviewed, "credits", "approve", requested.CreditIDs[0], "--company", l.companyID)
	assert.Equal(t, "available", reviewed.Status)

	var redeemed redemption.RedeemResult
	mustExecute(t, l.configPath, &redeemed, "redeem",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID)
	assert.Equal(t, 1, redeemed.RedeemedCredits)
}

func TestCLI_DeletedCardIsNotAvailable(t *testing.T) {
	l := newLedger(t, "", "1")
	mustExecute(t, l.configPath, nil, "card", "delete", l.cardID, "--company", l.companyID)

	_, _, err := execute(t, l.configPath, "credits", "issue",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID)

	require.Error(t, err)
	assert.Equal(t, shared.KindNotAvailable, shared.KindOf(err))
	assert.Equal(t, 3, exitCode(err))

	var listed []cards.CardDTO
	mustExecute(t, l.configPath, &listed, "card", "list", "--company", l.companyID)
	assert.Empty(t, listed)
	mustExecute(t, l.configPath, &listed, "card", "list", "--company", l.companyID, "--all")
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Excluded)
}

func TestCLI_MetricsWrittenToStderr(t *testing.T) {
	l := newLedger(t, "\n[metrics]\nenabled = true\nnamespace = \"ledger\"\n", "1")

	_, stderr, err := execute(t, l.configPath, "credits", "issue",
		"--company", l.companyID, "--user", l.userID, "--card", l.cardID+":2")

	require.NoError(t, err)
	assert.Contains(t, stderr, `ledger_credits_issued_total{status="available"} 2`)
}

// ===========================
// 參數解析
// ===========================

func TestParseCardRequests(t *testing.T) {
	requests, err := parseCardRequests([]string{"a", "b:3"})

	require.NoError(t, err)
	assert.Equal(t, []issuance.CardRequest{
		{CardID: "a", Quantity: 1},
		{CardID: "b", Quantity: 3},
	}, requests)
}

func TestParseCardRequests_InvalidQuantity(t *testing.T) {
	_, err := parseCardRequests([]string{"a:many"})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode_UnknownErrorIsGeneric(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
