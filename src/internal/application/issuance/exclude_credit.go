package issuance

import (
	"fmt"
	"log/slog"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ExcludeCreditCommand 軟刪除點數指令
type ExcludeCreditCommand struct {
	CompanyID string `validate:"required,uuid"`
	CreditID  string `validate:"required,uuid"`
}

// ExcludeCreditUseCase 軟刪除點數
//
// 狀態保持不變，但點數立即失去兌換資格。重複刪除為 no-op。
type ExcludeCreditUseCase struct {
	creditRepo credit.CreditRepository
	txManager  shared.TransactionManager
	clock      shared.Clock
	publisher  shared.EventPublisher
	logger     *slog.Logger
}

// NewExcludeCreditUseCase 創建 Use Case 實例
func NewExcludeCreditUseCase(
	creditRepo credit.CreditRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *ExcludeCreditUseCase {
	return &ExcludeCreditUseCase{
		creditRepo: creditRepo,
		txManager:  txManager,
		clock:      clock,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute 執行軟刪除
func (uc *ExcludeCreditUseCase) Execute(cmd ExcludeCreditCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}
	companyID, creditID, err := parseOwnerAndCredit(cmd.CompanyID, cmd.CreditID)
	if err != nil {
		return err
	}

	now := uc.clock.Now()
	var event shared.DomainEvent

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		cr, err := loadOwnedCredit(ctx, uc.creditRepo, companyID, creditID)
		if err != nil {
			return err
		}
		if cr.Excluded() {
			return nil
		}
		if err := uc.creditRepo.Exclude(ctx, creditID, now); err != nil {
			return fmt.Errorf("failed to exclude credit: %w", err)
		}
		event = credit.NewCreditExcludedEvent(creditID, cr.Status(), now)
		return nil
	})
	if err != nil {
		return err
	}

	if event == nil {
		return nil
	}
	if err := uc.publisher.Publish(event); err != nil {
		uc.logger.Warn("failed to publish exclusion event", slog.Any("error", err))
	}
	uc.logger.Info("credit excluded", slog.String("credit_id", creditID.String()))
	return nil
}
