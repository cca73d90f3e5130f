package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"swiftjobs/cmd/app"
	"swiftjobs/cmd/serve"
	"swiftjobs/src/jobs"
)

var Version string

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "swiftjobs"
	cliApp.Usage = "Market data ingestion and order matching jobs"
	cliApp.Version = Version
	cliApp.Before = func(_ *cli.Context) error {
		setupLogger()
		return nil
	}

	cliApp.Commands = []cli.Command{
		serveCMD,
		jobCMD(jobs.KindIngest, "fetch current prices and match pending orders"),
		jobCMD(jobs.KindBackfill, "load minute and day history for the active roster"),
		jobCMD(jobs.KindCompact, "collapse old ticks to one per day"),
		jobCMD(jobs.KindDelete, "delete ticks past the retention window"),
		jobCMD(jobs.KindSeason, "run the season change when a season starts today"),
		jobCMD(jobs.KindMatch, "execute eligible pending orders"),
		jobCMD(jobs.KindReindex, "rebuild database indexes"),
	}

	if err := cliApp.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var serveCMD = cli.Command{
	Name:        "serve",
	Usage:       "run the scheduler and the trigger server",
	Action:      serveAction,
	ArgsUsage:   "",
	Flags:       []cli.Flag{},
	Description: `Run the scheduled jobs and expose the manual trigger routes`,
}

func jobCMD(kind jobs.Kind, usage string) cli.Command {
	return cli.Command{
		Name:        string(kind),
		Usage:       usage,
		Action:      jobAction(kind),
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: fmt.Sprintf("Run the %s job once and exit", kind),
	}
}

func serveAction(_ *cli.Context) error {
	logrus.WithField("cmd", "serve").Info("Starting serve CMD")

	s := &serve.Serve{}
	if err := s.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}

func jobAction(kind jobs.Kind) func(*cli.Context) error {
	return func(_ *cli.Context) error {
		log := logrus.WithField("cmd", string(kind))
		log.Info("Starting one-shot job CMD")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Bootstrap(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to bootstrap")
			return err
		}
		defer a.Close()

		return a.Runner.Run(ctx, kind)
	}
}

func setupLogger() {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
