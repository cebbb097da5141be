package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
)

// ===========================
// 點數領域事件
// ===========================

const (
	EventTypeIssued        = "credit.issued"
	EventTypeRedeemed      = "credit.redeemed"
	EventTypeStatusChanged = "credit.status_changed"
	EventTypeExcluded      = "credit.excluded"
)

// CreditsIssuedEvent 一張卡片的一批點數已發放
type CreditsIssuedEvent struct {
	eventID    string
	cardID     card.CardID
	companyID  card.CompanyID
	userID     UserID
	status     Status
	count      int
	occurredAt time.Time
}

// NewCreditsIssuedEvent 創建點數發放事件
func NewCreditsIssuedEvent(
	cardID card.CardID,
	companyID card.CompanyID,
	userID UserID,
	status Status,
	count int,
	occurredAt time.Time,
) *CreditsIssuedEvent {
	return &CreditsIssuedEvent{
		eventID:    uuid.New().String(),
		cardID:     cardID,
		companyID:  companyID,
		userID:     userID,
		status:     status,
		count:      count,
		occurredAt: occurredAt,
	}
}

func (e *CreditsIssuedEvent) EventID() string           { return e.eventID }
func (e *CreditsIssuedEvent) EventType() string         { return EventTypeIssued }
func (e *CreditsIssuedEvent) OccurredAt() time.Time     { return e.occurredAt }
func (e *CreditsIssuedEvent) AggregateID() string       { return e.cardID.String() }
func (e *CreditsIssuedEvent) CardID() card.CardID       { return e.cardID }
func (e *CreditsIssuedEvent) CompanyID() card.CompanyID { return e.companyID }
func (e *CreditsIssuedEvent) UserID() UserID            { return e.userID }
func (e *CreditsIssuedEvent) Status() Status            { return e.status }
func (e *CreditsIssuedEvent) Count() int                { return e.count }

// CreditsRedeemedEvent 點數已兌換
type CreditsRedeemedEvent struct {
	eventID    string
	cardID     card.CardID
	companyID  card.CompanyID
	userID     UserID
	creditIDs  []CreditID
	occurredAt time.Time
}

// NewCreditsRedeemedEvent 創建兌換事件
func NewCreditsRedeemedEvent(
	cardID card.CardID,
	companyID card.CompanyID,
	userID UserID,
	creditIDs []CreditID,
	occurredAt time.Time,
) *CreditsRedeemedEvent {
	return &CreditsRedeemedEvent{
		eventID:    uuid.New().String(),
		cardID:     cardID,
		companyID:  companyID,
		userID:     userID,
		creditIDs:  append([]CreditID(nil), creditIDs...),
		occurredAt: occurredAt,
	}
}

func (e *CreditsRedeemedEvent) EventID() string           { return e.eventID }
func (e *CreditsRedeemedEvent) EventType() string         { return EventTypeRedeemed }
func (e *CreditsRedeemedEvent) OccurredAt() time.Time     { return e.occurredAt }
func (e *CreditsRedeemedEvent) AggregateID() string       { return e.cardID.String() }
func (e *CreditsRedeemedEvent) CardID() card.CardID       { return e.cardID }
func (e *CreditsRedeemedEvent) CompanyID() card.CompanyID { return e.companyID }
func (e *CreditsRedeemedEvent) UserID() UserID            { return e.userID }
func (e *CreditsRedeemedEvent) CreditIDs() []CreditID     { return e.creditIDs }
func (e *CreditsRedeemedEvent) Count() int                { return len(e.creditIDs) }

// CreditStatusChangedEvent 點數審核結果（核准或拒絕）或軟刪除
type CreditStatusChangedEvent struct {
	eventID    string
	eventType  string
	creditID   CreditID
	from       Status
	to         Status
	occurredAt time.Time
}

// NewCreditStatusChangedEvent 創建狀態轉換事件
func NewCreditStatusChangedEvent(creditID CreditID, from, to Status, occurredAt time.Time) *CreditStatusChangedEvent {
	return &CreditStatusChangedEvent{
		eventID:    uuid.New().String(),
		eventType:  EventTypeStatusChanged,
		creditID:   creditID,
		from:       from,
		to:         to,
		occurredAt: occurredAt,
	}
}

// NewCreditExcludedEvent 創建軟刪除事件（狀態不變）
func NewCreditExcludedEvent(creditID CreditID, status Status, occurredAt time.Time) *CreditStatusChangedEvent {
	return &CreditStatusChangedEvent{
		eventID:    uuid.New().String(),
		eventType:  EventTypeExcluded,
		creditID:   creditID,
		from:       status,
		to:         status,
		occurredAt: occurredAt,
	}
}

func (e *CreditStatusChangedEvent) EventID() string       { return e.eventID }
func (e *CreditStatusChangedEvent) EventType() string     { return e.eventType }
func (e *CreditStatusChangedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *CreditStatusChangedEvent) AggregateID() string   { return e.creditID.String() }
func (e *CreditStatusChangedEvent) From() Status          { return e.from }
func (e *CreditStatusChangedEvent) To() Status            { return e.to }
