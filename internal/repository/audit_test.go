package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-ledger/internal/model"
)

func entry(op string, at time.Time) model.AuditEntry {
	return model.AuditEntry{
		ID:        uuid.New(),
		Operation: op,
		Arguments: `{"tax_id":"1"}`,
		Result:    "ok",
		CreatedAt: at,
	}
}

func TestFileAuditLog_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := NewFileAuditLog(path)
	at := time.Date(2024, 5, 1, 8, 15, 30, 0, time.UTC)

	require.NoError(t, l.Append(context.Background(), entry("deposit", at)))
	require.NoError(t, l.Append(context.Background(), entry("withdraw", at.Add(time.Second))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2024-05-01 08:15:30] Operation 'deposit' executed with arguments {"tax_id":"1"}. Returned ok`, lines[0])
	assert.Contains(t, lines[1], "'withdraw'")
}

func TestFileAuditLog_BadPath(t *testing.T) {
	l := NewFileAuditLog(filepath.Join(t.TempDir(), "missing", "log.txt"))
	assert.Error(t, l.Append(context.Background(), entry("deposit", time.Now())))
}

func TestSQLAuditLog_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "audit.db")

	l, err := OpenSQLAuditLog(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, DriverSQLite, l.Driver())
	require.NoError(t, l.EnsureSchema(ctx), "schema creation must be repeatable")

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	first := entry("create_customer", base)
	second := entry("deposit", base.Add(time.Minute))
	require.NoError(t, l.Append(ctx, first))
	require.NoError(t, l.Append(ctx, second))

	got, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, "deposit", got[0].Operation)
	assert.True(t, got[0].CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, first.ID, got[1].ID)

	got, err = l.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNewSQLAuditLog_UnsupportedDriver(t *testing.T) {
	_, err := NewSQLAuditLog(nil, "mysql")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSQLAuditLog_Rebind(t *testing.T) {
	pg := &SQLAuditLog{driver: DriverPostgres}
	assert.Equal(t, "VALUES ($1, $2, $3)", pg.rebind("VALUES (?, ?, ?)"))

	lite := &SQLAuditLog{driver: DriverSQLite}
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}
