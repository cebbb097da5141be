package cards

import (
	"fmt"
	"log/slog"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// UpdateCard / SetCardStatus Use Case
// ===========================

// UpdateCardCommand 更新卡片指令
//
// 已發放點數的 expires_at 不受新的到期規則影響。
type UpdateCardCommand struct {
	CompanyID        string `validate:"required,uuid"`
	CardID           string `validate:"required,uuid"`
	Title            string
	CreditsNeeded    int
	ExpirationAmount int
	ExpirationUnit   string
}

// SetCardStatusCommand 切換卡片狀態指令
type SetCardStatusCommand struct {
	CompanyID string `validate:"required,uuid"`
	CardID    string `validate:"required,uuid"`
	Status    string `validate:"required,oneof=available unavailable pending"`
}

// UpdateCardUseCase 擁有者更新卡片內容與狀態
type UpdateCardUseCase struct {
	cardRepo   card.CardRepository
	txManager  shared.TransactionManager
	capability card.Capability
	clock      shared.Clock
	logger     *slog.Logger
}

// NewUpdateCardUseCase 創建 Use Case 實例
func NewUpdateCardUseCase(
	cardRepo card.CardRepository,
	txManager shared.TransactionManager,
	capability card.Capability,
	clock shared.Clock,
	logger *slog.Logger,
) *UpdateCardUseCase {
	return &UpdateCardUseCase{
		cardRepo:   cardRepo,
		txManager:  txManager,
		capability: capability,
		clock:      clock,
		logger:     logger,
	}
}

// Execute 更新標題、門檻與到期規則
func (uc *UpdateCardUseCase) Execute(cmd UpdateCardCommand) (*CardDTO, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	ref, err := parseRef(cmd.CompanyID, cmd.CardID)
	if err != nil {
		return nil, err
	}
	policy, err := card.NewExpirationPolicy(cmd.ExpirationAmount, card.ExpirationUnit(cmd.ExpirationUnit))
	if err != nil {
		return nil, err
	}

	return uc.mutate(ref, func(c *card.Card) error {
		return c.Update(cmd.Title, cmd.CreditsNeeded, policy, uc.clock.Now())
	})
}

// SetStatus 上架、下架或設為待審
func (uc *UpdateCardUseCase) SetStatus(cmd SetCardStatusCommand) (*CardDTO, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	ref, err := parseRef(cmd.CompanyID, cmd.CardID)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ref, func(c *card.Card) error {
		return c.ChangeStatus(card.Status(cmd.Status), uc.clock.Now())
	})
}

func (uc *UpdateCardUseCase) mutate(ref cardRef, change func(c *card.Card) error) (*CardDTO, error) {
	var updated *card.Card
	err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		c, err := loadManaged(ctx, uc.cardRepo, uc.capability, ref)
		if err != nil {
			return err
		}
		if err := change(c); err != nil {
			return err
		}
		if err := uc.cardRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("card updated",
		slog.String("card_id", ref.cardID.String()),
		slog.String("status", string(updated.Status())),
	)
	return toDTO(updated), nil
}
