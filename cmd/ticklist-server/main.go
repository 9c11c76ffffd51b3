package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ticklist/ticklist/internal/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := api.LoadEnvConfig(".env")
	if err := cfg.ConnectDB(); err != nil {
		slog.Error("db: " + err.Error())
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.SetupMux(cfg),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	slog.Info("ticklist server started", slog.String("addr", server.Addr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error: " + err.Error())
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown: " + err.Error())
		}
	}
	slog.Info("shutdown complete")
}
