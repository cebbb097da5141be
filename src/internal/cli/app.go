package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/jackyeh168/credit_ledger/src/internal/config"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"github.com/jackyeh168/credit_ledger/src/internal/infrastructure/events"
	"github.com/jackyeh168/credit_ledger/src/internal/infrastructure/logging"
	"github.com/jackyeh168/credit_ledger/src/internal/infrastructure/mongostore"
	"github.com/jackyeh168/credit_ledger/src/internal/infrastructure/observability"
	"github.com/jackyeh168/credit_ledger/src/internal/infrastructure/persistence"
	cardstore "github.com/jackyeh168/credit_ledger/src/internal/infrastructure/persistence/card"
	creditstore "github.com/jackyeh168/credit_ledger/src/internal/infrastructure/persistence/credit"
)

// App 單次指令執行所需的依賴
type App struct {
	Logger     *slog.Logger
	Cards      card.CardRepository
	Credits    credit.CreditRepository
	Tx         shared.TransactionManager
	Clock      shared.Clock
	Capability card.Capability
	Publisher  shared.EventPublisher

	registry *prometheus.Registry
	stderr   io.Writer
	migrate  func(ctx context.Context) error
	closers  []func() error
}

// newApp 依設定選擇儲存後端並組裝依賴
func newApp(ctx context.Context, cfg config.Config, stderr io.Writer) (*App, error) {
	logger := logging.New(cfg.Log, stderr)
	app := &App{
		Logger:     logger,
		Clock:      shared.SystemClock{},
		Capability: card.OwnershipCapability{},
		stderr:     stderr,
	}

	switch cfg.DB.Driver {
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		app.Cards = store.Cards()
		app.Credits = store.Credits()
		app.Tx = store.TransactionManager()
		app.migrate = store.Migrate
		app.closers = append(app.closers, func() error { return store.Close(context.Background()) })
	default:
		db, err := persistence.Open(cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		app.Cards = cardstore.NewCardRepository(db)
		app.Credits = creditstore.NewCreditRepository(db)
		app.Tx = persistence.NewGORMTransactionManager(db)
		app.migrate = func(context.Context) error { return persistence.AutoMigrate(db) }
		app.closers = append(app.closers, func() error { return persistence.Close(db) })
	}

	publishers := []shared.EventPublisher{events.NewSlogEventPublisher(logger)}
	if cfg.Metrics.Enabled {
		app.registry = prometheus.NewRegistry()
		publishers = append(publishers, observability.NewMetricsPublisher(app.registry, cfg.Metrics.Namespace))
	}
	app.Publisher = events.NewMultiPublisher(publishers...)

	logger.Debug("application initialized",
		slog.String("driver", cfg.DB.Driver),
		slog.Bool("metrics", cfg.Metrics.Enabled),
	)
	return app, nil
}

// Migrate 建立資料表或索引
func (a *App) Migrate(ctx context.Context) error {
	return a.migrate(ctx)
}

// Close 輸出指標（若啟用）並釋放連線
func (a *App) Close() error {
	var errs []error
	if a.registry != nil {
		if err := writeMetrics(a.stderr, a.registry); err != nil {
			errs = append(errs, err)
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// writeMetrics 以 Prometheus 文字格式輸出本次執行的指標
func writeMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
