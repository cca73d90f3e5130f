// Package testutil provides database fixtures for package tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"swiftjobs/src/model"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database with the trading schema migrated.
// The pool is capped at one connection so a transaction and its callers share the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrate(t, db)
	return db
}

// NewPostgresDB connects to DATABASE_URL and migrates the trading schema into a private schema
// dropped on cleanup. Sessions run in UTC on a single connection so the search path sticks.
// The test is skipped in short mode or when DATABASE_URL is unset.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping test in short mode")
		return nil
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping test, DATABASE_URL is not set")
		return nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	schema := fmt.Sprintf("swiftjobs_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		db.Exec(fmt.Sprintf(`DROP SCHEMA IF EXISTS %q CASCADE`, schema))
		_ = sqlDB.Close()
	})

	for _, stmt := range []string{
		fmt.Sprintf(`CREATE SCHEMA %q`, schema),
		fmt.Sprintf(`SET search_path TO %q`, schema),
		`SET TIME ZONE 'UTC'`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to prepare schema %s: %v", schema, err)
		}
	}

	migrate(t, db)
	return db
}

func migrate(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.AutoMigrate(
		&model.Season{},
		&model.Stock{},
		&model.Index{},
		&model.StockPrice{},
		&model.IndexPrice{},
		&model.Order{},
		&model.OrderCondition{},
	); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
}

// NewMockDB returns a postgres-dialect gorm DB backed by sqlmock.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb, mock
}

// Roster seeds one active and one inactive season with the given tickers in the active one.
// Tickers starting with the index prefix become indices.
func Roster(t *testing.T, db *gorm.DB, tickers ...string) model.Season {
	t.Helper()

	active := model.Season{IDSeason: 2, Name: "active", ActiveFlag: true}
	inactive := model.Season{IDSeason: 1, Name: "previous", ActiveFlag: false}
	if err := db.Create(&[]model.Season{inactive, active}).Error; err != nil {
		t.Fatalf("seed seasons: %v", err)
	}

	for _, ticker := range tickers {
		var err error
		if model.KindOf(ticker) == model.InstrumentIndex {
			err = db.Create(&model.Index{Shortname: ticker, IDSeason: active.IDSeason}).Error
		} else {
			err = db.Create(&model.Stock{Shortname: ticker, IDSeason: active.IDSeason}).Error
		}
		if err != nil {
			t.Fatalf("seed %s: %v", ticker, err)
		}
	}
	return active
}
