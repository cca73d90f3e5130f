// Package scheduler fires job kinds on their cron windows.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/jobs"
)

// Dispatcher starts a job kind without waiting for it. jobs.Runner implements it.
type Dispatcher interface {
	Trigger(kind jobs.Kind)
}

type Scheduler struct {
	cron    *cron.Cron
	entries map[cron.EntryID]Entry
}

func New(entries []Entry, dispatcher Dispatcher) (*Scheduler, error) {
	c := cron.New(cron.WithLogger(cronLogger{}))

	s := &Scheduler{
		cron:    c,
		entries: make(map[cron.EntryID]Entry, len(entries)),
	}

	for _, e := range entries {
		id, err := c.AddJob(e.CronSpec(), dispatchJob{entry: e, dispatcher: dispatcher})
		if err != nil {
			return nil, fmt.Errorf("schedule %s (%s): %w", e.Name, e.CronSpec(), err)
		}
		s.entries[id] = e
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()

	for _, ce := range s.cron.Entries() {
		e := s.entries[ce.ID]
		logger.WithFields(map[string]interface{}{
			"entry": e.Name,
			"spec":  e.CronSpec(),
			"job":   string(e.Kind),
			"next":  ce.Next,
		}).Info("Schedule registered")
	}
}

// Stop prevents new fires. The returned context is done once running dispatches have returned.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the next fire time of the named entry after t.
func (s *Scheduler) Next(name string, t time.Time) (time.Time, bool) {
	for _, ce := range s.cron.Entries() {
		if s.entries[ce.ID].Name == name {
			return ce.Schedule.Next(t), true
		}
	}
	return time.Time{}, false
}

type dispatchJob struct {
	entry      Entry
	dispatcher Dispatcher
}

func (j dispatchJob) Run() {
	logger.WithFields(map[string]interface{}{
		"entry": j.entry.Name,
		"job":   string(j.entry.Kind),
	}).Debug("Schedule fired")

	j.dispatcher.Trigger(j.entry.Kind)
}

// cronLogger routes cron's own messages to logrus.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logger.Fields {
	f := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
