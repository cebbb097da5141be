package cards

import (
	"fmt"
	"log/slog"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// CreateCard Use Case
// ===========================

// CreateCardCommand 建立卡片指令
//
// 標題、門檻與到期規則的業務驗證在 Domain Layer（card.NewCard）。
type CreateCardCommand struct {
	CompanyID        string `validate:"required,uuid"`
	Title            string
	CreditsNeeded    int
	ExpirationAmount int
	ExpirationUnit   string
}

// CreateCardUseCase 建立卡片
type CreateCardUseCase struct {
	cardRepo  card.CardRepository
	txManager shared.TransactionManager
	clock     shared.Clock
	logger    *slog.Logger
}

// NewCreateCardUseCase 創建 Use Case 實例
func NewCreateCardUseCase(
	cardRepo card.CardRepository,
	txManager shared.TransactionManager,
	clock shared.Clock,
	logger *slog.Logger,
) *CreateCardUseCase {
	return &CreateCardUseCase{
		cardRepo:  cardRepo,
		txManager: txManager,
		clock:     clock,
		logger:    logger,
	}
}

// Execute 執行建立卡片
func (uc *CreateCardUseCase) Execute(cmd CreateCardCommand) (*CardDTO, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	companyID, err := card.CompanyIDFromString(cmd.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse company ID: %w", err)
	}

	policy, err := card.NewExpirationPolicy(cmd.ExpirationAmount, card.ExpirationUnit(cmd.ExpirationUnit))
	if err != nil {
		return nil, err
	}
	c, err := card.NewCard(companyID, cmd.Title, cmd.CreditsNeeded, policy, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := uc.cardRepo.Save(ctx, c); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("card created",
		slog.String("card_id", c.CardID().String()),
		slog.String("company_id", companyID.String()),
	)
	return toDTO(c), nil
}
