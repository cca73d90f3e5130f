// Package app assembles the pool, connectors and job runner shared by every command.
package app

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"swiftjobs/src/connectors"
	"swiftjobs/src/database"
	"swiftjobs/src/jobs"
	"swiftjobs/src/repository"
)

type App struct {
	DB     *gorm.DB
	Runner *jobs.Runner
}

// Bootstrap opens the pool and registers every job on a runner whose background runs use ctx.
func Bootstrap(ctx context.Context) (*App, error) {
	dbConfig := database.GetConfig()
	connConfig := connectors.GetConfig()
	jobsConfig := jobs.GetConfig()

	db, err := database.Open(dbConfig)
	if err != nil {
		return nil, err
	}

	if connConfig.ExecutionSecret == "" {
		logrus.Warn("EXECUTION_SECRET is empty, order execution calls will be rejected")
	}

	j, err := jobs.New(
		db,
		connectors.NewQuoteSourceFromConfig(connConfig),
		connectors.NewExecutionClientFromConfig(connConfig),
		jobsConfig,
	)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	runner := jobs.NewRunner(ctx)
	if dbConfig.RecordFailures {
		runner.WithFailureRecorder(repository.NewExceptionRepository(db))
	}
	j.Register(runner)

	return &App{DB: db, Runner: runner}, nil
}

// Close waits for triggered runs and releases the pool.
func (a *App) Close() {
	a.Runner.Wait()
	database.Close(a.DB)
}
