package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"retail-ledger/internal/model"
)

// Audit drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// FileAuditLog appends one line per operation to a text file
type FileAuditLog struct {
	mu   sync.Mutex
	path string
}

// NewFileAuditLog creates an audit log writing to path
func NewFileAuditLog(path string) *FileAuditLog {
	return &FileAuditLog{path: path}
}

// Append writes the entry as a single line
func (l *FileAuditLog) Append(ctx context.Context, entry model.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Operation '%s' executed with arguments %s. Returned %s\n",
		entry.CreatedAt.UTC().Format("2006-01-02 15:04:05"), entry.Operation, entry.Arguments, entry.Result)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// SQLAuditLog stores audit entries in the audit_log table
type SQLAuditLog struct {
	db     *sql.DB
	driver string
}

// NewSQLAuditLog wraps an open database. The driver selects the
// placeholder style.
func NewSQLAuditLog(db *sql.DB, driver string) (*SQLAuditLog, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	return &SQLAuditLog{db: db, driver: driver}, nil
}

// OpenSQLAuditLog opens the database, checks connectivity and creates the
// audit table if needed
func OpenSQLAuditLog(ctx context.Context, driver, dsn string) (*SQLAuditLog, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	l, err := NewSQLAuditLog(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := l.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := l.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return l, nil
}

// SetPool bounds the connection pool
func (l *SQLAuditLog) SetPool(maxOpen, maxIdle int) {
	l.db.SetMaxOpenConns(maxOpen)
	l.db.SetMaxIdleConns(maxIdle)
	l.db.SetConnMaxLifetime(time.Hour)
}

func (l *SQLAuditLog) Driver() string {
	return l.driver
}

// Ping checks database connectivity
func (l *SQLAuditLog) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := l.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping audit database: %w", err)
	}
	return nil
}

// EnsureSchema creates the audit_log table if it does not exist
func (l *SQLAuditLog) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_log (
			id         TEXT PRIMARY KEY,
			operation  TEXT NOT NULL,
			arguments  TEXT NOT NULL,
			result     TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`

	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create audit_log table: %w", err)
	}
	return nil
}

// Append inserts an audit entry
func (l *SQLAuditLog) Append(ctx context.Context, entry model.AuditEntry) error {
	query := l.rebind(`
		INSERT INTO audit_log (id, operation, arguments, result, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := l.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Operation,
		entry.Arguments,
		entry.Result,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// Recent retrieves the latest audit entries, newest first
func (l *SQLAuditLog) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	query := l.rebind(`
		SELECT id, operation, arguments, result, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)

	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var (
			entry model.AuditEntry
			id    string
		)
		if err := rows.Scan(&id, &entry.Operation, &entry.Arguments, &entry.Result, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if entry.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid audit entry id %q: %w", id, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}

func (l *SQLAuditLog) Close() error {
	return l.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres
func (l *SQLAuditLog) rebind(query string) string {
	if l.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
