package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/tripbooking/internal/clock"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type AvailabilityStore interface {
	ReconcileAvailability(ctx context.Context, now time.Time) (int64, error)
}

// Reconciler recomputes every room's advisory available flag from bookings.
type Reconciler struct {
	rooms AvailabilityStore
	clock clock.Clock
	log   *logrus.Logger
}

func NewReconciler(rooms AvailabilityStore, clk clock.Clock, log *logrus.Logger) *Reconciler {
	return &Reconciler{rooms: rooms, clock: clk, log: log}
}

func (r *Reconciler) RunOnce(ctx context.Context) (int64, error) {
	now := r.clock.Now()
	changed, err := r.rooms.ReconcileAvailability(ctx, now)
	if err != nil {
		r.log.WithError(err).Error("room availability reconcile failed")
		return 0, err
	}
	if changed > 0 {
		r.log.WithFields(logrus.Fields{"rooms": changed, "at": now.Format(time.RFC3339)}).Info("room availability reconciled")
	}
	return changed, nil
}

// Schedule runs the reconciler every interval, starting immediately. Runs
// never overlap. The caller owns the returned scheduler and must Shutdown it.
func (r *Reconciler) Schedule(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			_, _ = r.RunOnce(ctx)
		}),
		gocron.WithName("reconcile-room-availability"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule reconcile job: %w", err)
	}

	s.Start()
	return s, nil
}
