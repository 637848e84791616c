// Package testutil opens throwaway sqlite databases for repo and service tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/yungbote/palearn-backend/internal/data/db"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// Logger discards output unless PALEARN_TEST_LOG is set, in which case it
// logs at debug to the console.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	if os.Getenv("PALEARN_TEST_LOG") == "" {
		return logger.Nop()
	}
	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	tb.Cleanup(log.Sync)
	return log
}

var dbSeq atomic.Int64

// DB opens a migrated in-memory database private to tb. The name keeps
// parallel tests apart; one open connection keeps the data alive.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.AutoMigrateAll(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

// Tx begins a transaction that is rolled back when tb finishes.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
