// Package observability 將領域事件轉為 Prometheus 指標
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// MetricsPublisher 以事件驅動更新帳本指標
//
// 指標註冊在注入的 Registerer 上，測試可使用獨立 registry。
type MetricsPublisher struct {
	creditsIssued   *prometheus.CounterVec
	creditsRedeemed prometheus.Counter
	redemptions     prometheus.Counter
	creditsReviewed *prometheus.CounterVec
	creditsExcluded prometheus.Counter
}

// NewMetricsPublisher 創建指標發布器並註冊指標
func NewMetricsPublisher(reg prometheus.Registerer, namespace string) *MetricsPublisher {
	factory := promauto.With(reg)
	return &MetricsPublisher{
		creditsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credits",
			Name:      "issued_total",
			Help:      "Credits issued, by initial status.",
		}, []string{"status"}),
		creditsRedeemed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credits",
			Name:      "redeemed_total",
			Help:      "Credits consumed by redemptions.",
		}),
		redemptions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redemptions",
			Name:      "total",
			Help:      "Successful redemptions.",
		}),
		creditsReviewed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credits",
			Name:      "reviewed_total",
			Help:      "Pending credits reviewed, by resulting status.",
		}, []string{"status"}),
		creditsExcluded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credits",
			Name:      "excluded_total",
			Help:      "Credits soft-deleted.",
		}),
	}
}

// Publish 實作 shared.EventPublisher
func (m *MetricsPublisher) Publish(event shared.DomainEvent) error {
	switch e := event.(type) {
	case *credit.CreditsIssuedEvent:
		m.creditsIssued.WithLabelValues(string(e.Status())).Add(float64(e.Count()))
	case *credit.CreditsRedeemedEvent:
		m.redemptions.Inc()
		m.creditsRedeemed.Add(float64(e.Count()))
	case *credit.CreditStatusChangedEvent:
		if e.EventType() == credit.EventTypeExcluded {
			m.creditsExcluded.Inc()
			return nil
		}
		m.creditsReviewed.WithLabelValues(string(e.To())).Inc()
	}
	return nil
}

// PublishBatch 實作 shared.EventPublisher
func (m *MetricsPublisher) PublishBatch(events []shared.DomainEvent) error {
	for _, e := range events {
		if err := m.Publish(e); err != nil {
			return err
		}
	}
	return nil
}
