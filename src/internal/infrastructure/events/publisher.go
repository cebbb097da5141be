package events

import (
	"errors"
	"log/slog"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// slog 事件發布器
// ===========================

// SlogEventPublisher 將領域事件寫入結構化日誌
type SlogEventPublisher struct {
	logger *slog.Logger
}

// NewSlogEventPublisher 創建發布器
func NewSlogEventPublisher(logger *slog.Logger) *SlogEventPublisher {
	return &SlogEventPublisher{logger: logger.With(slog.String("component", "events"))}
}

// Publish 實作 shared.EventPublisher
func (p *SlogEventPublisher) Publish(event shared.DomainEvent) error {
	if event == nil {
		return nil
	}
	attrs := append([]any{
		slog.String("event_id", event.EventID()),
		slog.String("event_type", event.EventType()),
		slog.String("aggregate_id", event.AggregateID()),
		slog.Time("occurred_at", event.OccurredAt()),
	}, eventAttrs(event)...)
	p.logger.Info("domain event", attrs...)
	return nil
}

// PublishBatch 實作 shared.EventPublisher
func (p *SlogEventPublisher) PublishBatch(events []shared.DomainEvent) error {
	for _, e := range events {
		if err := p.Publish(e); err != nil {
			return err
		}
	}
	return nil
}

func eventAttrs(event shared.DomainEvent) []any {
	switch e := event.(type) {
	case *credit.CreditsIssuedEvent:
		return []any{
			slog.String("company_id", e.CompanyID().String()),
			slog.String("user_id", e.UserID().String()),
			slog.String("status", string(e.Status())),
			slog.Int("count", e.Count()),
		}
	case *credit.CreditsRedeemedEvent:
		return []any{
			slog.String("company_id", e.CompanyID().String()),
			slog.String("user_id", e.UserID().String()),
			slog.Int("count", e.Count()),
		}
	case *credit.CreditStatusChangedEvent:
		return []any{
			slog.String("from", string(e.From())),
			slog.String("to", string(e.To())),
		}
	}
	return nil
}

// ===========================
// 多重發布器
// ===========================

// MultiPublisher 依序發布到所有下游發布器
//
// 單一下游失敗不影響其他下游，錯誤以 errors.Join 合併返回。
type MultiPublisher struct {
	publishers []shared.EventPublisher
}

// NewMultiPublisher 創建多重發布器（nil 項目會被忽略）
func NewMultiPublisher(publishers ...shared.EventPublisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Publish 實作 shared.EventPublisher
func (m *MultiPublisher) Publish(event shared.DomainEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishBatch 實作 shared.EventPublisher
func (m *MultiPublisher) PublishBatch(events []shared.DomainEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishBatch(events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher 丟棄所有事件
type NopPublisher struct{}

// Publish 實作 shared.EventPublisher
func (NopPublisher) Publish(shared.DomainEvent) error { return nil }

// PublishBatch 實作 shared.EventPublisher
func (NopPublisher) PublishBatch([]shared.DomainEvent) error { return nil }
