package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"swiftjobs/cmd/app"
	"swiftjobs/src/scheduler"
	"swiftjobs/src/server"
)

type Serve struct{}

// Start runs the scheduler and the trigger server until SIGINT or SIGTERM.
func (s *Serve) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	schedConfig := scheduler.GetConfig()
	if err := schedConfig.Validate(); err != nil {
		return err
	}

	a, err := app.Bootstrap(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to bootstrap")
		return err
	}
	defer a.Close()

	if schedConfig.Enabled {
		sched, err := scheduler.New(scheduler.Entries(schedConfig), a.Runner)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			<-sched.Stop().Done()
			logrus.Info("Scheduler stopped")
		}()
	} else {
		logrus.Warn("Scheduler disabled, jobs run on manual trigger only")
	}

	return server.Run(ctx, server.GetConfig().Port, server.NewRouter(a.Runner))
}
