package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shadowstrength/storefront/pkg/config"
	"github.com/shadowstrength/storefront/pkg/logger"
)

func TestPingAndDialect(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	client := NewFromGorm(conn)

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, DialectSQLite, client.Dialect())
}

func TestNewOpensSQLiteWithSingleConnection(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, config.DBConfig{Driver: config.DBDriverSQLite, DSN: "file::memory:", MaxOpenConns: 20}, nil)
	require.NoError(t, err)
	defer client.Close()

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var timeout int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, int(sqliteBusyTimeout.Milliseconds()), timeout)
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	assert.Error(t, err)
}

func TestGormLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Format: logger.FormatJSON, Output: buf})
	gl := newGormLogger(logg, 50*time.Millisecond)
	ctx := context.Background()
	stmt := func() (string, int64) { return "SELECT value FROM storage_entries", 1 }

	gl.Trace(ctx, time.Now(), stmt, nil)
	assert.Zero(t, buf.Len(), "fast successful statements are not logged")

	gl.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
	assert.Zero(t, buf.Len(), "record not found is not a failure")

	gl.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	assert.Contains(t, buf.String(), "db.query_slow")
	assert.Contains(t, buf.String(), "storage_entries")

	buf.Reset()
	gl.Trace(ctx, time.Now(), stmt, errors.New("disk I/O error"))
	assert.Contains(t, buf.String(), "db.query_failed")

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), stmt, errors.New("disk I/O error"))
	assert.Zero(t, buf.Len())
}
