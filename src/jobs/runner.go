package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/exception"
	"swiftjobs/src/model"
)

type Kind string

const (
	KindIngest   Kind = "ingest"
	KindBackfill Kind = "backfill"
	KindCompact  Kind = "compact"
	KindDelete   Kind = "delete"
	KindMatch    Kind = "match"
	KindSeason   Kind = "season"
	KindReindex  Kind = "reindex"
)

// Func is the body of a job. The entry carries the job and run_id fields.
type Func func(ctx context.Context, log *logger.Entry) error

// FailureRecorder persists failed runs. ExceptionRepository implements it.
type FailureRecorder interface {
	Create(ctx context.Context, exc *model.Exception) error
}

type registration struct {
	fn    Func
	guard sync.Mutex
}

// Runner executes registered jobs with at most one run in flight per kind.
// Register every job before the runner is shared between goroutines.
type Runner struct {
	base     context.Context
	jobs     map[Kind]*registration
	failures FailureRecorder
	wg       sync.WaitGroup
}

// NewRunner returns a runner whose asynchronous triggers run under base.
func NewRunner(base context.Context) *Runner {
	return &Runner{
		base: base,
		jobs: map[Kind]*registration{},
	}
}

// WithFailureRecorder enables persisting failed runs.
func (r *Runner) WithFailureRecorder(rec FailureRecorder) *Runner {
	r.failures = rec
	return r
}

func (r *Runner) Register(kind Kind, fn Func) {
	r.jobs[kind] = &registration{fn: fn}
}

func (r *Runner) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.jobs))
	for k := range r.jobs {
		kinds = append(kinds, k)
	}
	return kinds
}

// Run executes the job synchronously. A run that collides with one already in flight for the same
// kind is skipped and returns ErrAlreadyRunning.
func (r *Runner) Run(ctx context.Context, kind Kind) error {
	reg, ok := r.jobs[kind]
	if !ok {
		return fmt.Errorf("%w: %s", exception.ErrUnknownJob, kind)
	}

	log := logger.WithFields(map[string]interface{}{
		"job":    string(kind),
		"run_id": uuid.NewString(),
	})

	if !reg.guard.TryLock() {
		log.Warn("Job already running, skipping this run")
		return fmt.Errorf("%w: %s", exception.ErrAlreadyRunning, kind)
	}
	defer reg.guard.Unlock()

	started := time.Now()
	log.Info("Job started")

	err := reg.fn(ctx, log)

	log = log.WithField("elapsed", time.Since(started).String())
	if err != nil {
		log.WithError(err).Error("Job failed")
		r.recordFailure(ctx, kind, log, err)
		return err
	}

	log.Info("Job finished")
	return nil
}

// Trigger starts the job in the background and returns immediately.
func (r *Runner) Trigger(kind Kind) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.Run(r.base, kind)
	}()
}

// Wait blocks until every triggered run has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Step runs another registered kind as part of a job. A collision with an in-flight run of that
// kind is not an error for the caller but is logged on the caller's entry.
func (r *Runner) Step(kind Kind) Func {
	return func(ctx context.Context, log *logger.Entry) error {
		err := r.Run(ctx, kind)
		if errors.Is(err, exception.ErrAlreadyRunning) {
			log.WithField("step", string(kind)).Warn("Step skipped, a run of that job is already in flight")
			return nil
		}
		return err
	}
}

// Then runs next after first whatever first returned. Both errors are reported.
func Then(first, next Func) Func {
	return func(ctx context.Context, log *logger.Entry) error {
		firstErr := first(ctx, log)
		if firstErr != nil {
			log.WithError(firstErr).Warn("Step failed, continuing with the next one")
		}
		return errors.Join(firstErr, next(ctx, log))
	}
}

func (r *Runner) recordFailure(ctx context.Context, kind Kind, log *logger.Entry, runErr error) {
	if r.failures == nil {
		return
	}

	runID, _ := log.Data["run_id"].(string)
	exc := &model.Exception{
		Service: "swiftjobs",
		Module:  string(kind),
		Method:  "Run",
		Message: runErr.Error(),
		RunID:   runID,
		Level:   "error",
	}

	// the run context may already be cancelled
	if err := r.failures.Create(context.WithoutCancel(ctx), exc); err != nil {
		log.WithError(err).Warn("Failed to record job failure")
	}
}
