package redemption

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/application/validation"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// Redeem Use Case
// ===========================

// RedeemCommand 兌換指令
type RedeemCommand struct {
	CompanyID string `validate:"required,uuid"`
	UserID    string `validate:"required,uuid"`
	CardID    string `validate:"required,uuid"`
}

// RedeemResult 兌換結果
type RedeemResult struct {
	RedeemedCredits int
	CardTitle       string
	CreditIDs       []string
	RequestedAt     time.Time
}

// RedeemUseCase 兌換 Use Case
//
// 兌換範圍為單一卡片：只以該卡片的 credits_needed 對照該卡片的點數。
//
// 業務流程：
// 1. 讀取卡片，確認可用且屬於該公司
// 2. 讀取使用者在該卡片上 available 且未刪除的點數
// 3. 過濾已到期（expires_at <= now）的點數
// 4. 不足 credits_needed → ErrInsufficientCredits，不寫入
// 5. 依 created_at、id 取最舊的 credits_needed 筆
// 6. 一次條件更新（id ∈ selected 且 status = available）標記為 used
// 7. 影響筆數不符 → 回滾並返回 ErrInsufficientCredits（reason = concurrent_redemption）
// 8. 已選取的實體標記為 used，與資料庫一致
type RedeemUseCase struct {
	cardRepo   card.CardRepository
	creditRepo credit.CreditRepository
	txManager  shared.TransactionManager
	capability card.Capability
	clock      shared.Clock
	publisher  shared.EventPublisher
	logger     *slog.Logger
}

// NewRedeemUseCase 創建 Use Case 實例
func NewRedeemUseCase(
	cardRepo card.CardRepository,
	creditRepo credit.CreditRepository,
	txManager shared.TransactionManager,
	capability card.Capability,
	clock shared.Clock,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *RedeemUseCase {
	return &RedeemUseCase{
		cardRepo:   cardRepo,
		creditRepo: creditRepo,
		txManager:  txManager,
		capability: capability,
		clock:      clock,
		publisher:  publisher,
		logger:     logger,
	}
}

type redeemRequest struct {
	companyID card.CompanyID
	userID    credit.UserID
	cardID    card.CardID
}

// Execute 執行兌換
//
// 錯誤處理：
// - shared.ErrInvalidInput: 指令格式錯誤
// - card.ErrCardNotAvailable: 卡片不存在、已下架或已刪除
// - card.ErrCardNotOwned: 卡片不屬於該公司
// - credit.ErrInsufficientCredits: 可兌換點數不足（含並發競爭），可重試
//
// 任何錯誤都不會留下部分寫入。
func (uc *RedeemUseCase) Execute(cmd RedeemCommand) (*RedeemResult, error) {
	req, err := parse(cmd)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var (
		result *RedeemResult
		event  shared.DomainEvent
	)

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		var err error
		result, event, err = uc.redeem(ctx, req, now)
		return err
	})
	if err != nil {
		uc.logger.Debug("redemption refused",
			slog.String("card_id", req.cardID.String()),
			slog.String("user_id", req.userID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := uc.publisher.Publish(event); err != nil {
		uc.logger.Warn("failed to publish redemption event", slog.Any("error", err))
	}
	uc.logger.Info("credits redeemed",
		slog.String("card_id", req.cardID.String()),
		slog.String("user_id", req.userID.String()),
		slog.Int("count", result.RedeemedCredits),
	)
	return result, nil
}

// ExecuteWithContext 在呼叫者的事務中執行兌換
//
// 不開啟新事務，也不發布事件；並發競爭時返回錯誤，由呼叫者的 TransactionManager 回滾。
func (uc *RedeemUseCase) ExecuteWithContext(ctx shared.TransactionContext, cmd RedeemCommand) (*RedeemResult, error) {
	req, err := parse(cmd)
	if err != nil {
		return nil, err
	}
	result, _, err := uc.redeem(ctx, req, uc.clock.Now())
	return result, err
}

func parse(cmd RedeemCommand) (redeemRequest, error) {
	if err := validation.Struct(cmd); err != nil {
		return redeemRequest{}, err
	}
	companyID, err := card.CompanyIDFromString(cmd.CompanyID)
	if err != nil {
		return redeemRequest{}, fmt.Errorf("failed to parse company ID: %w", err)
	}
	userID, err := credit.UserIDFromString(cmd.UserID)
	if err != nil {
		return redeemRequest{}, fmt.Errorf("failed to parse user ID: %w", err)
	}
	cardID, err := card.CardIDFromString(cmd.CardID)
	if err != nil {
		return redeemRequest{}, fmt.Errorf("failed to parse card ID: %w", err)
	}
	return redeemRequest{companyID: companyID, userID: userID, cardID: cardID}, nil
}

func (uc *RedeemUseCase) redeem(
	ctx shared.TransactionContext,
	req redeemRequest,
	now time.Time,
) (*RedeemResult, shared.DomainEvent, error) {
	// 1. 卡片
	c, err := uc.loadRedeemableCard(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	// 2. 候選點數
	candidates, err := uc.creditRepo.Find(ctx, credit.EligibleFilter(req.userID, req.cardID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load credits: %w", err)
	}

	// 3-5. 到期過濾、數量檢查、FIFO 選取
	selected, err := credit.SelectForRedemption(candidates, c.CreditsNeeded(), now)
	if err != nil {
		return nil, nil, withCard(err, c)
	}

	// 6. 條件批次更新
	ids := credit.IDsOf(selected)
	affected, err := uc.creditRepo.MarkUsed(ctx, ids, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mark credits as used: %w", err)
	}
	if affected != int64(len(ids)) {
		return nil, nil, credit.ErrInsufficientCredits.WithContext(
			"card_id", c.CardID().String(),
			"required", len(ids),
			"available", int(affected),
			"reason", "concurrent_redemption",
		)
	}

	// 7. 同步記憶體中的實體
	for _, cr := range selected {
		if err := cr.MarkUsed(now); err != nil {
			return nil, nil, err
		}
	}

	// 8. 結果
	event := credit.NewCreditsRedeemedEvent(c.CardID(), c.CompanyID(), req.userID, ids, now)
	return &RedeemResult{
		RedeemedCredits: len(ids),
		CardTitle:       c.Title(),
		CreditIDs:       credit.CreditIDStrings(ids),
		RequestedAt:     now,
	}, event, nil
}

func (uc *RedeemUseCase) loadRedeemableCard(ctx shared.TransactionContext, req redeemRequest) (*card.Card, error) {
	c, err := uc.cardRepo.FindByID(ctx, req.cardID)
	if err != nil {
		if errors.Is(err, card.ErrCardNotFound) {
			return nil, card.ErrCardNotAvailable.WithContext(
				"card_id", req.cardID.String(),
				"reason", "card not found",
			)
		}
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if !uc.capability.CanRedeem(req.companyID, c) {
		return nil, card.ErrCardNotOwned.WithContext(
			"card_id", c.CardID().String(),
			"company_id", req.companyID.String(),
		)
	}
	if err := c.EnsureUsable(); err != nil {
		return nil, err
	}
	return c, nil
}

// withCard 為領域錯誤補上卡片 ID
func withCard(err error, c *card.Card) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.WithContext("card_id", c.CardID().String())
	}
	return err
}
