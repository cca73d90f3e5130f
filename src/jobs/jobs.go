// Package jobs holds the scheduled market data and order execution jobs and the runner that guards them.
package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"swiftjobs/src/connectors"
	"swiftjobs/src/exception"
)

// Jobs binds the job bodies to their collaborators. All jobs share one pool.
type Jobs struct {
	db       *gorm.DB
	quotes   connectors.QuoteSource
	executor connectors.ExecutionService
	cfg      Config
	loc      *time.Location

	now func() time.Time
}

func New(db *gorm.DB, quotes connectors.QuoteSource, executor connectors.ExecutionService, cfg Config) (*Jobs, error) {
	loc, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &Jobs{
		db:       db,
		quotes:   quotes,
		executor: executor,
		cfg:      cfg,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// WithClock replaces the wall clock, used by tests.
func (j *Jobs) WithClock(now func() time.Time) *Jobs {
	j.now = now
	return j
}

func (j *Jobs) clock() time.Time {
	return j.now().In(j.loc)
}

// Register wires every job kind into the runner. Ingestion always chains into matching and the
// season rollover seeds the new roster through the backfill kind.
func (j *Jobs) Register(r *Runner) {
	r.Register(KindMatch, j.Match)
	r.Register(KindBackfill, j.Backfill)
	r.Register(KindIngest, Then(j.Ingest, r.Step(KindMatch)))
	r.Register(KindCompact, j.Compact)
	r.Register(KindDelete, j.Delete)
	r.Register(KindSeason, j.SeasonChange(r.Step(KindBackfill)))
	r.Register(KindReindex, j.Reindex)
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", exception.ErrDatabase, op, err)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
