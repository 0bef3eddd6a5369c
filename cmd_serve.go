package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/wildlife-watch-api/api/handlers"
	"github.com/linesmerrill/wildlife-watch-api/api/scheduler"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{Config: *conf}
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	var mailer scheduler.Mailer
	if conf.SendgridAPIKey != "" {
		mailer = scheduler.NewSendgridMailer(conf.SendgridAPIKey)
	}
	sched := scheduler.NewScheduler(a.Client(), mailer, conf)
	if err := sched.Start(); err != nil {
		_ = a.Close(context.Background())
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.S().Infow("wildlife-watch-api is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// hijacked websocket connections are not tracked by Shutdown; the
		// app closes them along with the store
		err := srv.Shutdown(shutdownCtx)
		sched.Stop()
		if closeErr := a.Close(shutdownCtx); closeErr != nil {
			zap.S().Warnw("failed to close app", "error", closeErr)
		}
		return err
	})
	return g.Wait()
}
