package handler

import (
	"fmt"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/jobs"
)

type jobTrigger interface {
	Trigger(kind jobs.Kind)
}

// TriggerHandler starts the job in the background and answers with the acknowledgement right away.
// The response never reflects the job outcome.
func TriggerHandler(trigger jobTrigger, kind jobs.Kind, ack string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.WithFields(map[string]interface{}{
			"job":    string(kind),
			"route":  r.URL.Path,
			"remote": r.RemoteAddr,
		}).Info("Manual job trigger")

		trigger.Trigger(kind)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(ack)); err != nil {
			logger.WithError(err).Error("Failed to write trigger acknowledgement")
		}
	}
}

// RootHandler reports that the server is up together with its clock.
func RootHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := fmt.Fprintf(w, "Server is running with Time: %s", now().Format(time.RFC1123)); err != nil {
			logger.WithError(err).Error("Failed to write root response")
		}
	}
}
