package card

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ===========================
// Card 聚合根
// ===========================

// Status 卡片狀態
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusPending     Status = "pending"
)

// IsValid 檢查狀態是否為支援的枚舉值
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusPending:
		return true
	}
	return false
}

const maxTitleLength = 120

// Card 兌換卡片（獎勵定義）聚合根
//
// 業務不變條件：
// - creditsNeeded > 0
// - 可用於發放或兌換 ⇔ status == available && !excluded
// - 軟刪除後（excluded）不可再修改，也不可恢復
type Card struct {
	cardID        CardID
	companyID     CompanyID
	title         string
	creditsNeeded int
	policy        ExpirationPolicy
	status        Status
	excluded      bool

	createdAt time.Time
	updatedAt time.Time
}

// NewCard 創建新的卡片
//
// 業務規則：
// - 新卡片狀態為 available
// - 標題去除前後空白後不可為空
func NewCard(
	companyID CompanyID,
	title string,
	creditsNeeded int,
	policy ExpirationPolicy,
	now time.Time,
) (*Card, error) {
	if companyID.IsEmpty() {
		return nil, ErrInvalidCompanyID.WithContext("reason", "companyID cannot be empty")
	}

	normalized, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if err := validateCreditsNeeded(creditsNeeded); err != nil {
		return nil, err
	}
	if err := validatePolicy(policy); err != nil {
		return nil, err
	}

	return &Card{
		cardID:        NewCardID(),
		companyID:     companyID,
		title:         normalized,
		creditsNeeded: creditsNeeded,
		policy:        policy,
		status:        StatusAvailable,
		excluded:      false,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructCard 從持久化存儲重建聚合根（僅供 Repository 使用）
//
// 仍驗證 ID 與門檻，防止損壞資料進入領域層；到期規則延後到計算時檢查。
func ReconstructCard(
	cardID CardID,
	companyID CompanyID,
	title string,
	creditsNeeded int,
	policy ExpirationPolicy,
	status Status,
	excluded bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*Card, error) {
	if cardID.IsEmpty() {
		return nil, ErrInvalidCardID.WithContext("reason", "invalid card ID in database")
	}
	if companyID.IsEmpty() {
		return nil, ErrInvalidCompanyID.WithContext("reason", "invalid company ID in database")
	}
	if creditsNeeded <= 0 {
		return nil, ErrInvalidCreditsNeeded.WithContext(
			"card_id", cardID.String(),
			"value", creditsNeeded,
		)
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus.WithContext(
			"card_id", cardID.String(),
			"value", string(status),
		)
	}

	return &Card{
		cardID:        cardID,
		companyID:     companyID,
		title:         title,
		creditsNeeded: creditsNeeded,
		policy:        policy,
		status:        status,
		excluded:      excluded,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ===========================
// 查詢方法
// ===========================

func (c *Card) CardID() CardID                     { return c.cardID }
func (c *Card) CompanyID() CompanyID               { return c.companyID }
func (c *Card) Title() string                      { return c.title }
func (c *Card) CreditsNeeded() int                 { return c.creditsNeeded }
func (c *Card) ExpirationPolicy() ExpirationPolicy { return c.policy }
func (c *Card) Status() Status                     { return c.status }
func (c *Card) Excluded() bool                     { return c.excluded }
func (c *Card) CreatedAt() time.Time               { return c.createdAt }
func (c *Card) UpdatedAt() time.Time               { return c.updatedAt }

// IsUsable 卡片是否可用於發放或兌換
func (c *Card) IsUsable() bool {
	return c.status == StatusAvailable && !c.excluded
}

// EnsureUsable 不可用時返回 ErrCardNotAvailable（附卡片上下文）
func (c *Card) EnsureUsable() error {
	if c.IsUsable() {
		return nil
	}
	return ErrCardNotAvailable.WithContext(
		"card_id", c.cardID.String(),
		"status", string(c.status),
		"excluded", c.excluded,
	)
}

// IsOwnedBy 卡片是否屬於指定公司
func (c *Card) IsOwnedBy(companyID CompanyID) bool {
	return c.companyID.Equals(companyID)
}

// ExpiresAt 計算在 issuedAt 發放的點數到期時間
func (c *Card) ExpiresAt(issuedAt time.Time) (time.Time, error) {
	return ComputeExpiration(issuedAt, c.policy)
}

// ===========================
// 命令方法
// ===========================

// Update 更新標題、門檻與到期規則
//
// 已發放點數的 expires_at 不受影響（點數建立時已固定）。
func (c *Card) Update(title string, creditsNeeded int, policy ExpirationPolicy, now time.Time) error {
	if c.excluded {
		return ErrCardExcluded.WithContext("card_id", c.cardID.String())
	}

	normalized, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	if err := validateCreditsNeeded(creditsNeeded); err != nil {
		return err
	}
	if err := validatePolicy(policy); err != nil {
		return err
	}

	c.title = normalized
	c.creditsNeeded = creditsNeeded
	c.policy = policy
	c.updatedAt = now
	return nil
}

// ChangeStatus 切換卡片狀態（上架、下架、待審）
func (c *Card) ChangeStatus(status Status, now time.Time) error {
	if c.excluded {
		return ErrCardExcluded.WithContext("card_id", c.cardID.String())
	}
	if !status.IsValid() {
		return ErrInvalidStatus.WithContext("value", string(status))
	}

	c.status = status
	c.updatedAt = now
	return nil
}

// Exclude 軟刪除：excluded = true 且 status = unavailable
//
// 重複刪除為 no-op。
func (c *Card) Exclude(now time.Time) {
	if c.excluded {
		return
	}
	c.excluded = true
	c.status = StatusUnavailable
	c.updatedAt = now
}

// ===========================
// 私有驗證
// ===========================

func normalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", ErrInvalidTitle.WithContext("title", title)
	}
	return trimmed, nil
}

func validateCreditsNeeded(n int) error {
	if n <= 0 {
		return ErrInvalidCreditsNeeded.WithContext("value", n)
	}
	return nil
}

func validatePolicy(p ExpirationPolicy) error {
	if p.amount <= 0 || !p.unit.IsValid() {
		return ErrInvalidExpirationPolicy.WithContext(
			"amount", p.amount,
			"unit", string(p.unit),
		)
	}
	return nil
}
