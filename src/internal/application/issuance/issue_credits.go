package issuance

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
// IssueCredits Use Case
// ===========================

// CardRequest 單一卡片的發放請求
type CardRequest struct {
	CardID   string `validate:"required,uuid"`
	Quantity int    `validate:"gte=1"`
}

// IssueCreditsCommand 發放點數指令
//
// CompanyID 為空代表消費者自行申請（self-service），每張卡片數量必須為 1，
// 建立的點數為 pending，待公司審核。
type IssueCreditsCommand struct {
	CompanyID string        `validate:"omitempty,uuid"`
	UserID    string        `validate:"required,uuid"`
	Requests  []CardRequest `validate:"required,min=1,dive"`
}

// IssueCreditsResult 發放結果
type IssueCreditsResult struct {
	CreatedCount int
	CreditIDs    []string
	Status       string
}

// IssueCreditsUseCase 發放點數 Use Case
//
// 業務規則：
// 1. 整批驗證：任何一張卡片不存在、不屬於公司或不可用，整批失敗，不寫入任何點數
// 2. 每一單位數量建立一筆點數，expires_at 依卡片到期規則計算
// 3. 整批以一次 SaveAll（bulk insert）在單一事務中寫入
// 4. 事務提交後才發布 credit.issued 事件
type IssueCreditsUseCase struct {
	cardRepo   card.CardRepository
	creditRepo credit.CreditRepository
	txManager  shared.TransactionManager
	capability card.Capability
	clock      shared.Clock
	publisher  shared.EventPublisher
	logger     *slog.Logger
}

// NewIssueCreditsUseCase 創建 Use Case 實例
func NewIssueCreditsUseCase(
	cardRepo card.CardRepository,
	creditRepo credit.CreditRepository,
	txManager shared.TransactionManager,
	capability card.Capability,
	clock shared.Clock,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *IssueCreditsUseCase {
	return &IssueCreditsUseCase{
		cardRepo:   cardRepo,
		creditRepo: creditRepo,
		txManager:  txManager,
		capability: capability,
		clock:      clock,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute 執行發放
//
// 錯誤處理：
// - shared.ErrInvalidInput: 指令格式錯誤
// - credit.ErrInvalidQuantity: self-service 數量不是 1
// - credit.ErrUnknownCardReference: 卡片不存在
// - card.ErrCardNotOwned / card.ErrCardNotAvailable: 卡片不屬於公司或不可用
func (uc *IssueCreditsUseCase) Execute(cmd IssueCreditsCommand) (*IssueCreditsResult, error) {
	issuer, userID, err := uc.parse(cmd)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var (
		issued []*credit.Credit
		events []shared.DomainEvent
	)

	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		var err error
		issued, events, err = uc.issue(ctx, issuer, userID, cmd.Requests, now)
		if err != nil {
			return err
		}
		if err := uc.creditRepo.SaveAll(ctx, issued); err != nil {
			return fmt.Errorf("failed to save credits: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(events)

	status := credit.StatusAvailable
	if issuer.IsSelf() {
		status = credit.StatusPending
	}
	uc.logger.Info("credits issued",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(issued)),
		slog.String("status", string(status)),
	)

	ids := make([]credit.CreditID, len(issued))
	for i, c := range issued {
		ids[i] = c.CreditID()
	}
	return &IssueCreditsResult{
		CreatedCount: len(issued),
		CreditIDs:    credit.CreditIDStrings(ids),
		Status:       string(status),
	}, nil
}

func (uc *IssueCreditsUseCase) parse(cmd IssueCreditsCommand) (card.Issuer, credit.UserID, error) {
	if err := validation.Struct(cmd); err != nil {
		return card.Issuer{}, credit.UserID{}, err
	}

	userID, err := credit.UserIDFromString(cmd.UserID)
	if err != nil {
		return card.Issuer{}, credit.UserID{}, fmt.Errorf("failed to parse user ID: %w", err)
	}

	if cmd.CompanyID == "" {
		for _, req := range cmd.Requests {
			if req.Quantity != 1 {
				return card.Issuer{}, credit.UserID{}, credit.ErrInvalidQuantity.WithContext(
					"card_id", req.CardID,
					"quantity", req.Quantity,
					"reason", "self-service requests are limited to one credit per card",
				)
			}
		}
		return card.SelfIssuer(), userID, nil
	}

	companyID, err := card.CompanyIDFromString(cmd.CompanyID)
	if err != nil {
		return card.Issuer{}, credit.UserID{}, fmt.Errorf("failed to parse company ID: %w", err)
	}
	return card.CompanyIssuer(companyID), userID, nil
}

// issue 驗證所有請求並在記憶體中建立點數；任何錯誤都在寫入前返回
func (uc *IssueCreditsUseCase) issue(
	ctx shared.TransactionContext,
	issuer card.Issuer,
	userID credit.UserID,
	requests []CardRequest,
	now time.Time,
) ([]*credit.Credit, []shared.DomainEvent, error) {
	var (
		issued []*credit.Credit
		events []shared.DomainEvent
	)

	for _, req := range requests {
		c, err := uc.loadCard(ctx, req.CardID)
		if err != nil {
			return nil, nil, err
		}
		if !uc.capability.CanIssue(issuer, c) {
			return nil, nil, card.ErrCardNotOwned.WithContext(
				"card_id", c.CardID().String(),
				"company_id", issuer.CompanyID.String(),
			)
		}
		if err := c.EnsureUsable(); err != nil {
			return nil, nil, err
		}

		var status credit.Status
		for i := 0; i < req.Quantity; i++ {
			cr, err := credit.IssueCredit(userID, c, issuer, now)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to issue credit: %w", err)
			}
			status = cr.Status()
			issued = append(issued, cr)
		}

		events = append(events, credit.NewCreditsIssuedEvent(
			c.CardID(), c.CompanyID(), userID, status, req.Quantity, now,
		))
	}

	return issued, events, nil
}

func (uc *IssueCreditsUseCase) loadCard(ctx shared.TransactionContext, rawID string) (*card.Card, error) {
	cardID, err := card.CardIDFromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card ID: %w", err)
	}

	c, err := uc.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, card.ErrCardNotFound) {
			return nil, credit.ErrUnknownCardReference.WithContext("card_id", rawID)
		}
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	return c, nil
}

func (uc *IssueCreditsUseCase) publish(events []shared.DomainEvent) {
	if err := uc.publisher.PublishBatch(events); err != nil {
		uc.logger.Warn("failed to publish issuance events", slog.Any("error", err))
	}
}
