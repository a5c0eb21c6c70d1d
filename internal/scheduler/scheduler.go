// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/linguahub/linguahub/internal/clock"
	"github.com/linguahub/linguahub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type job struct {
	name string
	run  func(ctx context.Context) (int, error)
}

type Scheduler struct {
	db    *gorm.DB
	cfg   config.SchedulerConfig
	clock clock.Clock
	log   *zap.Logger
	jobs  []job
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Cfg   config.Config
	Clock clock.Clock
	Log   *zap.Logger
}

func New(p Params) *Scheduler {
	s := &Scheduler{
		db:    p.DB,
		cfg:   p.Cfg.Scheduler,
		clock: p.Clock,
		log:   p.Log.Named("scheduler"),
	}
	s.jobs = []job{
		{name: "purge_expired_quotes", run: s.PurgeExpiredQuotesJob},
	}
	return s
}

// RunOnce runs every job once. A failing job does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, j := range s.jobs {
		start := time.Now()
		processed, err := j.run(ctx)
		if err != nil {
			s.log.Error("scheduler job failed", zap.String("job", j.name), zap.Error(err))
			continue
		}
		s.log.Info("scheduler job finished",
			zap.String("job", j.name),
			zap.Int("processed", processed),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// RunForever runs the jobs on every tick until ctx is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
