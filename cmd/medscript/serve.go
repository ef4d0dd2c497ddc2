package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/app"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/tracer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.close()

			if migrate {
				if err := database.Migrate(rt.db, rt.log); err != nil {
					return err
				}
			}
			return runServer(cmd.Context(), rt)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func runServer(parent context.Context, rt *deps) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(rt.cfg.Tracing, rt.cfg.App)
	if err != nil {
		return err
	}

	a := app.New(rt.cfg, rt.db, rt.log)

	srv := &http.Server{
		Addr:         rt.cfg.Server.Address(),
		Handler:      a.Router(),
		ReadTimeout:  rt.cfg.Server.ReadTimeout,
		WriteTimeout: rt.cfg.Server.WriteTimeout,
		IdleTimeout:  rt.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", rt.cfg.App.Environment),
			zap.String("db_driver", rt.cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.Close()
			return err
		}
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.log.Error("HTTP server shutdown", zap.Error(err))
	}
	a.Close()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		rt.log.Warn("tracer shutdown", zap.Error(err))
	}
	return nil
}
