package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/binquote/internal/config"
	"github.com/sawpanic/binquote/internal/telemetry"
)

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	listenFlag, _ := cmd.Flags().GetString("listen")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	addr := cfg.Listen
	if listenFlag != "" {
		addr = listenFlag
	}

	server := telemetry.NewServer(addr, telemetry.NewMetrics())

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
