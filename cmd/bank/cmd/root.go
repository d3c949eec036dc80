// Package cmd provides the bank command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"retail-ledger/internal/config"
	"retail-ledger/internal/handler"
	"retail-ledger/internal/model"
	"retail-ledger/internal/repository"
	"retail-ledger/internal/service"
)

const version = "1.0.0"

var (
	envFile string
	debug   bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bank",
	Short: "Retail banking ledger",
	Long: `bank runs a small retail ledger of customers, checking accounts,
deposits and withdrawals, either as an interactive teller menu or as an
HTTP/JSON API.

Example:
  bank menu
  AUDIT_DRIVER=sqlite3 bank serve
  bank audit --limit 20`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if debug {
			cfg.Logger.Level = "debug"
		}

		logger = cfg.Logger.NewLogger(os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(auditCmd)
}

// auditSink is the configured audit log plus what the health check and
// shutdown need from it
type auditSink struct {
	log    service.AuditLog
	pinger handler.Pinger
	sql    *repository.SQLAuditLog
}

func (a *auditSink) Close() error {
	if a.sql == nil {
		return nil
	}
	return a.sql.Close()
}

func openAudit(ctx context.Context) (*auditSink, error) {
	switch cfg.Audit.Driver {
	case "none":
		return &auditSink{}, nil
	case "file":
		return &auditSink{log: repository.NewFileAuditLog(cfg.Audit.Path)}, nil
	case repository.DriverPostgres:
		return openSQLAudit(ctx, repository.DriverPostgres, cfg.Database.DSN())
	case repository.DriverSQLite:
		return openSQLAudit(ctx, repository.DriverSQLite, cfg.Audit.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedDriver, cfg.Audit.Driver)
	}
}

func openSQLAudit(ctx context.Context, driver, dsn string) (*auditSink, error) {
	l, err := repository.OpenSQLAuditLog(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == repository.DriverPostgres {
		l.SetPool(cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}

	logger.Info("audit store connected", "driver", l.Driver())
	return &auditSink{log: l, pinger: l, sql: l}, nil
}

func newBankService(audit service.AuditLog) *service.BankService {
	return service.NewBankService(
		repository.NewCustomerRepository(),
		repository.NewAccountRepository(),
		audit,
		service.Limits{
			WithdrawalCeiling:      cfg.Ledger.WithdrawalCeiling,
			WithdrawalCountCeiling: cfg.Ledger.WithdrawalCountCeiling,
			DailyTransactionLimit:  cfg.Ledger.DailyTransactionLimit,
		},
		model.SystemClock{},
		logger,
	)
}
