package issuance

import (
	"fmt"
	"log/slog"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// ReviewCredit Use Case（核准 / 駁回）
// ===========================

// Decision 審核結果
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ReviewCreditCommand 審核 pending 點數
type ReviewCreditCommand struct {
	CompanyID string   `validate:"required,uuid"`
	CreditID  string   `validate:"required,uuid"`
	Decision  Decision `validate:"required,oneof=approve reject"`
}

// ReviewCreditResult 審核結果
type ReviewCreditResult struct {
	CreditID string
	Status   string
}

// ReviewCreditUseCase 公司審核消費者申請的點數
//
// pending → available（核准）或 pending → rejected（駁回）。
// 狀態更新以目前狀態為條件，兩個管理者同時審核時只有一個成功。
type ReviewCreditUseCase struct {
	creditRepo credit.CreditRepository
	txManager  shared.TransactionManager
	clock      shared.Clock
	publisher  shared.EventPublisher
	logger     *slog.Logger
}

// NewReviewCreditUseCase 創建 Use Case 實例
func NewReviewCreditUseCase(
	creditRepo credit.CreditRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *ReviewCreditUseCase {
	return &ReviewCreditUseCase{
		creditRepo: creditRepo,
		txManager:  txManager,
		clock:      clock,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute 執行審核
func (uc *ReviewCreditUseCase) Execute(cmd ReviewCreditCommand) (*ReviewCreditResult, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	companyID, creditID, err := parseOwnerAndCredit(cmd.CompanyID, cmd.CreditID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var event shared.DomainEvent
	var target credit.Status

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		cr, err := loadOwnedCredit(ctx, uc.creditRepo, companyID, creditID)
		if err != nil {
			return err
		}

		from := cr.Status()
		switch cmd.Decision {
		case DecisionApprove:
			err = cr.Approve(now)
		case DecisionReject:
			err = cr.Reject(now)
		}
		if err != nil {
			return err
		}
		target = cr.Status()

		if err := uc.creditRepo.TransitionStatus(ctx, creditID, from, target, now); err != nil {
			return fmt.Errorf("failed to transition credit: %w", err)
		}
		event = credit.NewCreditStatusChangedEvent(creditID, from, target, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.publisher.Publish(event); err != nil {
		uc.logger.Warn("failed to publish review event", slog.Any("error", err))
	}
	uc.logger.Info("credit reviewed",
		slog.String("credit_id", creditID.String()),
		slog.String("decision", string(cmd.Decision)),
	)

	return &ReviewCreditResult{
		CreditID: creditID.String(),
		Status:   string(target),
	}, nil
}

func parseOwnerAndCredit(rawCompanyID, rawCreditID string) (card.CompanyID, credit.CreditID, error) {
	companyID, err := card.CompanyIDFromString(rawCompanyID)
	if err != nil {
		return card.CompanyID{}, credit.CreditID{}, fmt.Errorf("failed to parse company ID: %w", err)
	}
	creditID, err := credit.CreditIDFromString(rawCreditID)
	if err != nil {
		return card.CompanyID{}, credit.CreditID{}, fmt.Errorf("failed to parse credit ID: %w", err)
	}
	return companyID, creditID, nil
}

// loadOwnedCredit 讀取點數並確認屬於該公司
func loadOwnedCredit(
	ctx shared.TransactionContext,
	repo credit.CreditRepository,
	companyID card.CompanyID,
	creditID credit.CreditID,
) (*credit.Credit, error) {
	cr, err := repo.FindByID(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit: %w", err)
	}
	if !cr.IsOwnedBy(companyID) {
		return nil, credit.ErrCreditNotOwned.WithContext(
			"credit_id", creditID.String(),
			"company_id", companyID.String(),
		)
	}
	return cr, nil
}
