package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"retail-ledger/internal/handler"
	"retail-ledger/internal/model"
	"retail-ledger/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		audit, err := openAudit(ctx)
		if err != nil {
			return err
		}
		defer audit.Close()

		bankService := newBankService(audit.log)
		idempotencyRepo := repository.NewIdempotencyRepository(model.SystemClock{}, repository.DefaultIdempotencyTTL)
		go cleanupIdempotency(ctx, idempotencyRepo)

		router := handler.NewRouter(
			logger,
			handler.NewHealthHandler(audit.pinger, cfg.Audit.Driver, version),
			handler.NewCustomerHandler(bankService),
			handler.NewAccountHandler(bankService),
			handler.NewTransactionHandler(bankService, idempotencyRepo, logger),
		)

		server := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting server", "port", cfg.Server.Port, "audit", cfg.Audit.Driver)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-ctx.Done():
		}

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		logger.Info("server exited")
		return nil
	},
}

func cleanupIdempotency(ctx context.Context, repo *repository.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := repo.CleanupExpired(ctx); n > 0 {
				logger.Debug("expired idempotency keys removed", "count", n)
			}
		}
	}
}
