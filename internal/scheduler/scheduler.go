// Package scheduler runs the daily close-of-business job: a sales and
// low-stock summary, logged and optionally pushed to the webhook when
// notifications are enabled in system settings.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"boutique-pos/internal/notify"
	"boutique-pos/internal/reports"
	"boutique-pos/internal/storage"
)

type Scheduler struct {
	cron     *cron.Cron
	store    storage.Store
	notifier notify.Notifier
	spec     string
	logger   *zap.Logger
}

// New creates the scheduler. The notifier may be nil when no webhook is
// configured.
func New(spec string, store storage.Store, notifier notify.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		notifier: notifier,
		spec:     spec,
		logger:   logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDailySummary); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sales, err := s.store.Sales(ctx)
	if err != nil {
		s.logger.Error("daily summary: read sales", zap.Error(err))
		return
	}
	products, err := s.store.Products(ctx)
	if err != nil {
		s.logger.Error("daily summary: read products", zap.Error(err))
		return
	}
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		s.logger.Error("daily summary: read expenses", zap.Error(err))
		return
	}

	summary := reports.Dashboard(sales, products, expenses, from, now)
	s.logger.Info("daily summary",
		zap.Float64("revenue", summary.Revenue),
		zap.Float64("profit", summary.Profit),
		zap.Int("orders", summary.Orders),
		zap.Int("low_stock", summary.LowStockCount),
	)

	if s.notifier == nil {
		return
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		s.logger.Error("daily summary: read settings", zap.Error(err))
		return
	}
	if !settings.Notifications {
		return
	}

	if err := s.notifier.Send(ctx, "daily_summary", summary); err != nil {
		s.logger.Error("daily summary webhook failed", zap.Error(err))
	}
	if low := reports.LowStock(products); len(low) > 0 {
		if err := s.notifier.Send(ctx, "low_stock", low); err != nil {
			s.logger.Error("low stock webhook failed", zap.Error(err))
		}
	}
}
