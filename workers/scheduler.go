package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// StartLedgerScheduler runs the balance audit every auditEvery and, when the
// worker has an uploader, the claim export every exportEvery. The scheduler
// stops when ctx is cancelled.
func StartLedgerScheduler(ctx context.Context, w *LedgerWorker, clock clockwork.Clock, auditEvery, exportEvery time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(auditEvery),
		gocron.NewTask(func() {
			if _, err := w.AuditBalances(ctx); err != nil {
				logrus.Errorf("[Scheduler] Balance audit failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("balance-audit"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule balance audit: %w", err)
	}

	if w.uploader != nil {
		_, err = sched.NewJob(
			gocron.DurationJob(exportEvery),
			gocron.NewTask(func() {
				if _, err := w.ExportClaims(ctx); err != nil {
					logrus.Errorf("[Scheduler] Claim export failed: %v", err)
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithName("claim-export"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule claim export: %w", err)
		}
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			logrus.Warnf("[Scheduler] Shutdown error: %v", err)
		}
	}()
	return sched, nil
}
