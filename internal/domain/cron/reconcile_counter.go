package cron

import (
	"context"
	"time"

	"github.com/socialgraph-lab/backend/internal/repository"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

// ReconcileCounterCronJob recomputes every denormalized counter from the rows it counts,
// repairing drift left by counter updates which failed after their primary write.
type ReconcileCounterCronJob struct {
	counterRepo repository.CounterRepository
	interval    time.Duration
}

func NewReconcileCounterCronJob(
	counterRepo repository.CounterRepository, interval time.Duration,
) *ReconcileCounterCronJob {
	return &ReconcileCounterCronJob{counterRepo: counterRepo, interval: interval}
}

func (job *ReconcileCounterCronJob) Do(ctx context.Context) {
	start := time.Now()
	if err := job.counterRepo.ReconcileAll(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reconcile counters: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Reconciled all counters in %s", time.Since(start))
}

func (job *ReconcileCounterCronJob) RunNow() bool {
	return true
}

func (job *ReconcileCounterCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
