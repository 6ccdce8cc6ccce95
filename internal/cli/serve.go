package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hexislab/patchbay"
	"github.com/hexislab/patchbay/internal/presentation/tui"
	"github.com/hexislab/patchbay/pkg/adapters/httpapi"
	"github.com/hexislab/patchbay/pkg/factory"
)

// ServeOptions configures the serve command.
type ServeOptions struct {
	Options
	Addr string
}

// Serve exposes the inspection API over the configured source until ctx
// is cancelled. Watchable sources invalidate the compiled-graph cache on
// change, so edits show up without a restart.
func Serve(ctx context.Context, opts ServeOptions) error {
	log, err := CreateLogger(opts.LogLevel, true)
	if err != nil {
		return err
	}
	eng, err := NewEngine(opts.Options, log)
	if err != nil {
		return err
	}
	defer closeAny(eng.Source(), log)

	tui.PrintBanner(patchbay.Version)

	if err := eng.Factory().WatchInvalidate(ctx); err != nil {
		if !errors.Is(err, factory.ErrNotWatchable) {
			return err
		}
		log.Info("definition source does not support watching; compiled graphs are cached until restart")
	}

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: httpapi.NewHandler(eng.Factory(), httpapi.WithLogger(log)),
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage("Serving inspection API on %s", opts.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown incomplete", "err", err)
			return srv.Close()
		}
		printSystemMessage("Server stopped gracefully.")
		return nil
	}
}
