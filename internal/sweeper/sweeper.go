// Package sweeper expires overdue unpaid orders on a ticker. It drives the
// order engine's guarded expire transition; the engine never schedules itself.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/orders"
)

type Finder interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]orders.Order, error)
}

type Expirer interface {
	ExpireOrder(ctx context.Context, storeID, orderID string) error
}

type Sweeper struct {
	Orders   Finder
	Engine   Expirer
	Interval time.Duration
	Batch    int
	Now      func() time.Time
	Log      *slog.Logger
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Sweeper) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Run sweeps once immediately and then every Interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger().Error("sweep_failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// Sweep expires one batch and returns how many orders moved to expired_unpaid.
// An order that left pending_payment in the meantime is skipped.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	batch := s.Batch
	if batch <= 0 {
		batch = 100
	}
	due, err := s.Orders.ListExpired(ctx, s.now(), batch)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range due {
		err := s.Engine.ExpireOrder(ctx, o.StoreID, o.ID)
		switch {
		case err == nil:
			n++
		case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrNotFound):
			s.logger().Debug("sweep_skipped", "order_id", o.ID, "reason", err)
		default:
			return n, err
		}
	}
	if n > 0 {
		s.logger().Info("orders_expired", "count", n)
	}
	return n, nil
}
