package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/handler"
	"swiftjobs/src/jobs"
)

// Dispatcher starts a job kind in the background.
type Dispatcher interface {
	Trigger(kind jobs.Kind)
}

// Route binds a manual trigger path to a job kind and its acknowledgement.
type Route struct {
	Path string
	Kind jobs.Kind
	Ack  string
}

var Routes = []Route{
	{Path: "/startDataSearch", Kind: jobs.KindIngest, Ack: "Price Search started!"},
	{Path: "/startOldDataSearch", Kind: jobs.KindBackfill, Ack: "Old Data Search started!"},
	{Path: "/startUpdateStockPrices", Kind: jobs.KindCompact, Ack: "Update Stock Prices started!"},
	{Path: "/startDeleteStockPrices", Kind: jobs.KindDelete, Ack: "Delete Stock Prices started!"},
	{Path: "/startReindexDatabase", Kind: jobs.KindReindex, Ack: "Reindex Database started!"},
}

func NewRouter(d Dispatcher) http.Handler {
	r := chi.NewRouter()
	// === Global Middleware ===
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})
	r.Get("/", handler.RootHandler(time.Now))

	for _, route := range Routes {
		r.Get(route.Path, handler.TriggerHandler(d, route.Kind, route.Ack))
	}

	return r
}

// Run serves h on port until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, port string, h http.Handler) error {
	addr := ":" + port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
		return err
	}
	return nil
}
