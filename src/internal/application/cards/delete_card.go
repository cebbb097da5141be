package cards

import (
	"fmt"
	"log/slog"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// DeleteCardCommand 刪除卡片指令
type DeleteCardCommand struct {
	CompanyID string `validate:"required,uuid"`
	CardID    string `validate:"required,uuid"`
}

// DeleteCardUseCase 軟刪除卡片（excluded = true、status = unavailable）
//
// 卡片永不硬刪除；已發放的點數保留，但卡片不可用後無法再兌換。
type DeleteCardUseCase struct {
	cardRepo   card.CardRepository
	txManager  shared.TransactionManager
	capability card.Capability
	clock      shared.Clock
	logger     *slog.Logger
}

// NewDeleteCardUseCase 創建 Use Case 實例
func NewDeleteCardUseCase(
	cardRepo card.CardRepository,
	txManager shared.TransactionManager,
	capability card.Capability,
	clock shared.Clock,
	logger *slog.Logger,
) *DeleteCardUseCase {
	return &DeleteCardUseCase{
		cardRepo:   cardRepo,
		txManager:  txManager,
		capability: capability,
		clock:      clock,
		logger:     logger,
	}
}

// Execute 執行軟刪除
func (uc *DeleteCardUseCase) Execute(cmd DeleteCardCommand) error {
	if err := validation.Struct(cmd); err != nil {
		return err
	}
	ref, err := parseRef(cmd.CompanyID, cmd.CardID)
	if err != nil {
		return err
	}

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		c, err := loadManaged(ctx, uc.cardRepo, uc.capability, ref)
		if err != nil {
			return err
		}
		if c.Excluded() {
			return nil
		}
		c.Exclude(uc.clock.Now())
		if err := uc.cardRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to exclude card: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("card deleted", slog.String("card_id", ref.cardID.String()))
	return nil
}
