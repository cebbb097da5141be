package credit

import (
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
)

// ===========================
// Credit 實體
// ===========================

// Credit 一單位的集點進度
//
// 業務不變條件：
// - 建立後 expiresAt、cardID、companyID 不可變更
// - requestedAt 只在 available → used 時設定
// - 可兌換 ⇔ status == available && !excluded && expiresAt > now
//
// Credit 屬於一位消費者與一間公司，只「引用」卡片。
type Credit struct {
	creditID  CreditID
	userID    UserID
	cardID    card.CardID
	companyID card.CompanyID

	status   Status
	excluded bool

	expiresAt   time.Time
	requestedAt *time.Time

	createdAt time.Time
	updatedAt time.Time
}

// IssueCredit 依卡片規則建立一筆新點數
//
// 業務規則：
// - 公司發放 → available；消費者自助申請 → pending
// - expiresAt = ComputeExpiration(now, card.policy)
// - companyID 從卡片反正規化複製
//
// 卡片可用性與發放權限由用例在呼叫前檢查。
func IssueCredit(userID UserID, c *card.Card, issuer card.Issuer, now time.Time) (*Credit, error) {
	if userID.IsEmpty() {
		return nil, ErrInvalidUserID.WithContext("reason", "userID cannot be empty")
	}

	expiresAt, err := c.ExpiresAt(now)
	if err != nil {
		return nil, err
	}

	status := StatusAvailable
	if issuer.IsSelf() {
		status = StatusPending
	}

	return &Credit{
		creditID:  NewCreditID(),
		userID:    userID,
		cardID:    c.CardID(),
		companyID: c.CompanyID(),
		status:    status,
		excluded:  false,
		expiresAt: expiresAt,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCredit 從持久化存儲重建（僅供 Repository 使用）
func ReconstructCredit(
	creditID CreditID,
	userID UserID,
	cardID card.CardID,
	companyID card.CompanyID,
	status Status,
	excluded bool,
	expiresAt time.Time,
	requestedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*Credit, error) {
	if creditID.IsEmpty() || userID.IsEmpty() || cardID.IsEmpty() || companyID.IsEmpty() {
		return nil, ErrCorruptedCredit.WithContext(
			"credit_id", creditID.String(),
			"reason", "missing identifier",
		)
	}
	if !status.IsValid() {
		return nil, ErrCorruptedCredit.WithContext(
			"credit_id", creditID.String(),
			"status", string(status),
		)
	}
	if status == StatusUsed && requestedAt == nil {
		return nil, ErrCorruptedCredit.WithContext(
			"credit_id", creditID.String(),
			"reason", "used credit without requested_at",
		)
	}

	return &Credit{
		creditID:    creditID,
		userID:      userID,
		cardID:      cardID,
		companyID:   companyID,
		status:      status,
		excluded:    excluded,
		expiresAt:   expiresAt,
		requestedAt: requestedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ===========================
// 查詢方法
// ===========================

func (c *Credit) CreditID() CreditID        { return c.creditID }
func (c *Credit) UserID() UserID            { return c.userID }
func (c *Credit) CardID() card.CardID       { return c.cardID }
func (c *Credit) CompanyID() card.CompanyID { return c.companyID }
func (c *Credit) Status() Status            { return c.status }
func (c *Credit) Excluded() bool            { return c.excluded }
func (c *Credit) ExpiresAt() time.Time      { return c.expiresAt }
func (c *Credit) CreatedAt() time.Time      { return c.createdAt }
func (c *Credit) UpdatedAt() time.Time      { return c.updatedAt }

// RequestedAt 兌換時間（未兌換時為 nil）
func (c *Credit) RequestedAt() *time.Time {
	if c.requestedAt == nil {
		return nil
	}
	at := *c.requestedAt
	return &at
}

// IsExpired 到期判斷：expiresAt <= now 即視為到期
func (c *Credit) IsExpired(now time.Time) bool {
	return !c.expiresAt.After(now)
}

// IsEligible 是否可用於兌換
func (c *Credit) IsEligible(now time.Time) bool {
	return c.status == StatusAvailable && !c.excluded && !c.IsExpired(now)
}

// IsOwnedBy 點數是否屬於指定公司
func (c *Credit) IsOwnedBy(companyID card.CompanyID) bool {
	return c.companyID.Equals(companyID)
}

// ===========================
// 命令方法
// ===========================

// Approve 公司核准自助申請（pending → available）
func (c *Credit) Approve(now time.Time) error {
	return c.transition(StatusAvailable, now)
}

// Reject 公司拒絕自助申請（pending → rejected）
func (c *Credit) Reject(now time.Time) error {
	return c.transition(StatusRejected, now)
}

// MarkUsed 兌換（available → used），不可逆
//
// 批次兌換由 Repository.MarkUsed 以條件更新完成；
// 此方法讓記憶體中的實體與資料庫保持一致。
func (c *Credit) MarkUsed(now time.Time) error {
	if c.excluded {
		return ErrInvalidTransition.WithContext(
			"credit_id", c.creditID.String(),
			"reason", "credit is excluded",
		)
	}
	if err := c.transition(StatusUsed, now); err != nil {
		return err
	}
	at := now
	c.requestedAt = &at
	return nil
}

// Exclude 軟刪除，立即失去兌換資格，狀態不變
func (c *Credit) Exclude(now time.Time) {
	if c.excluded {
		return
	}
	c.excluded = true
	c.updatedAt = now
}

func (c *Credit) transition(next Status, now time.Time) error {
	if !c.status.CanTransitionTo(next) {
		return ErrInvalidTransition.WithContext(
			"credit_id", c.creditID.String(),
			"from", string(c.status),
			"to", string(next),
		)
	}
	c.status = next
	c.updatedAt = now
	return nil
}
