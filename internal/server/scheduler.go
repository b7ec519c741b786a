package server

import (
	"context"
	"fmt"
	"time"

	"github.com/moviediary/backend/internal/biz"
	"github.com/moviediary/backend/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

var _ transport.Server = (*PopularityScheduler)(nil)

// PopularityScheduler runs the daily decay and rebuild jobs.
type PopularityScheduler struct {
	cron       *cron.Cron
	popularity *biz.PopularityUseCase
	log        *log.Helper
}

// NewPopularityScheduler registers both jobs; it fails on invalid cron
// expressions or timezone.
func NewPopularityScheduler(c *conf.Popularity, popularity *biz.PopularityUseCase, logger log.Logger) (*PopularityScheduler, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid popularity.timezone %q: %w", c.Timezone, err)
	}

	l := log.NewHelper(logger)
	cl := cronLogger{log: l}
	s := &PopularityScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		popularity: popularity,
		log:        l,
	}

	if _, err := s.cron.AddFunc(c.DecayCron, s.runDecay); err != nil {
		return nil, fmt.Errorf("invalid popularity.decay_cron %q: %w", c.DecayCron, err)
	}
	if _, err := s.cron.AddFunc(c.RebuildCron, s.runRebuild); err != nil {
		return nil, fmt.Errorf("invalid popularity.rebuild_cron %q: %w", c.RebuildCron, err)
	}
	if !decayRunsFirst(c.DecayCron, c.RebuildCron, loc) {
		l.Warnf("popularity.decay_cron %q does not fire before popularity.rebuild_cron %q within a day",
			c.DecayCron, c.RebuildCron)
	}
	return s, nil
}

// Start implements transport.Server; jobs run on cron's own goroutines.
func (s *PopularityScheduler) Start(ctx context.Context) error {
	s.log.Info("popularity scheduler started")
	s.cron.Start()
	return nil
}

// Stop waits for running jobs or ctx, whichever ends first.
func (s *PopularityScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("popularity scheduler stopped before jobs finished")
	}
	return nil
}

func (s *PopularityScheduler) runDecay() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.popularity.Decay(ctx); err != nil {
		s.log.Errorf("scheduled decay failed: %v", err)
	}
}

func (s *PopularityScheduler) runRebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.popularity.Rebuild(ctx); err != nil {
		s.log.Errorf("scheduled rebuild failed: %v", err)
	}
}

// decayRunsFirst compares the first firing of each schedule after midnight.
func decayRunsFirst(decaySpec, rebuildSpec string, loc *time.Location) bool {
	decay, err := cron.ParseStandard(decaySpec)
	if err != nil {
		return false
	}
	rebuild, err := cron.ParseStandard(rebuildSpec)
	if err != nil {
		return false
	}
	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).Add(-time.Second)
	return decay.Next(midnight).Before(rebuild.Next(midnight))
}

// cronLogger implements cron.Logger on top of the kratos helper.
type cronLogger struct {
	log *log.Helper
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(append([]interface{}{"msg", "cron: " + msg}, keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(append([]interface{}{"msg", "cron: " + msg, "error", err}, keysAndValues...)...)
}
