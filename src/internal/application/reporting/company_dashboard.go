package reporting

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/report"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// CompanyDashboard Use Case
// ===========================

const userIDKey = "user_id"

// CompanyDashboardQuery 公司儀表板查詢
type CompanyDashboardQuery struct {
	CompanyID string `validate:"required,uuid"`
}

// CompanyDashboardResult 最近 4 週的統計
type CompanyDashboardResult struct {
	CreditsGiven []report.WeekBucket
	CreditsUsed  []report.WeekBucket
	NewClients   []report.WeekBucket

	TotalGiven      int
	TotalUsed       int
	TotalNewClients int
	RedemptionRate  decimal.Decimal
}

// CompanyDashboardUseCase 公司儀表板
//
// 三個序列分別查詢：
// - 發放點數：視窗內建立的 available / used 點數（依 created_at）
// - 兌換點數：視窗內兌換的點數（依 requested_at）
// - 新客戶：每週建立點數的不重複 user_id；總數為整個視窗的不重複 user_id，跨週只算一次
type CompanyDashboardUseCase struct {
	creditRepo credit.CreditRepository
	clock      shared.Clock
	logger     *slog.Logger
}

// NewCompanyDashboardUseCase 創建 Use Case 實例
func NewCompanyDashboardUseCase(
	creditRepo credit.CreditRepository,
	clock shared.Clock,
	logger *slog.Logger,
) *CompanyDashboardUseCase {
	return &CompanyDashboardUseCase{
		creditRepo: creditRepo,
		clock:      clock,
		logger:     logger,
	}
}

// Execute 執行查詢（唯讀，不開啟事務）
func (uc *CompanyDashboardUseCase) Execute(query CompanyDashboardQuery) (*CompanyDashboardResult, error) {
	if err := validation.Struct(query); err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(query.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse company ID: %w", err)
	}

	now := uc.clock.Now()
	span := report.Span(now)

	var given, used []*credit.Credit
	var g errgroup.Group
	g.Go(func() error {
		found, err := uc.creditRepo.Find(nil, credit.Filter{
			CompanyID:   companyID,
			Statuses:    []credit.Status{credit.StatusAvailable, credit.StatusUsed},
			CreatedFrom: span.Start,
			CreatedTo:   span.End,
		})
		if err != nil {
			return fmt.Errorf("failed to load issued credits: %w", err)
		}
		given = found
		return nil
	})
	g.Go(func() error {
		found, err := uc.creditRepo.Find(nil, credit.Filter{
			CompanyID:     companyID,
			Statuses:      []credit.Status{credit.StatusUsed},
			RequestedFrom: span.Start,
			RequestedTo:   span.End,
		})
		if err != nil {
			return fmt.Errorf("failed to load redeemed credits: %w", err)
		}
		used = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	givenRecords := issuedRecords(given)
	result := &CompanyDashboardResult{
		CreditsGiven: report.WeeklyStats(now, givenRecords, ""),
		CreditsUsed:  report.WeeklyStats(now, redeemedRecords(used), ""),
		NewClients:   report.WeeklyStats(now, givenRecords, userIDKey),
	}
	result.TotalGiven = report.Total(result.CreditsGiven)
	result.TotalUsed = report.Total(result.CreditsUsed)
	result.TotalNewClients = distinctUsers(given)
	result.RedemptionRate = report.RedemptionRate(result.TotalGiven, result.TotalUsed)

	uc.logger.Debug("dashboard computed",
		slog.String("company_id", companyID.String()),
		slog.Int("given", result.TotalGiven),
		slog.Int("used", result.TotalUsed),
	)
	return result, nil
}

func issuedRecords(credits []*credit.Credit) []report.Record {
	records := make([]report.Record, len(credits))
	for i, c := range credits {
		records[i] = report.Record{
			At:         c.CreatedAt(),
			Attributes: map[string]string{userIDKey: c.UserID().String()},
		}
	}
	return records
}

func distinctUsers(credits []*credit.Credit) int {
	users := make(map[string]struct{}, len(credits))
	for _, c := range credits {
		users[c.UserID().String()] = struct{}{}
	}
	return len(users)
}

// redeemedRecords 缺少 requested_at 的點數以零值時間表示，WeeklyStats 會視為格式錯誤
func redeemedRecords(credits []*credit.Credit) []report.Record {
	records := make([]report.Record, len(credits))
	for i, c := range credits {
		var rec report.Record
		if requestedAt := c.RequestedAt(); requestedAt != nil {
			rec.At = *requestedAt
		}
		records[i] = rec
	}
	return records
}
