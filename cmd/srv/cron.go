package main

import (
	"os/signal"
	"syscall"

	"github.com/socialgraph-lab/backend/internal/domain/cron"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	defer s.close()

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewReconcileCounterCronJob(
		s.counterRepo, xcontext.Configs(s.ctx).Reconcile.Interval))

	go func() {
		<-ctx.Done()
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(ctx)
	return nil
}
