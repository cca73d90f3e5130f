// package migrations
package migrations

import (
	"errors"
	"fmt"
	"time"

	"swiftjobs/src/model"

	"gorm.io/gorm"
)

// DataMigration tracks executed migrations.
// Table name is fixed to avoid collisions with the application schema.
type DataMigration struct {
	ID        string    `gorm:"primaryKey;size:200;column:id"`
	AppliedAt time.Time `gorm:"not null;column:applied_at"`
}

func (DataMigration) TableName() string { return "data_migrations" }

func ensureDataMigrationsTable(db *gorm.DB) error {
	return db.AutoMigrate(&DataMigration{})
}

// RunOnce runs fn only if migrationID was not executed before.
// It records the migration as executed only after fn succeeds.
func RunOnce(db *gorm.DB, migrationID string, fn func(*gorm.DB) error) error {
	if db == nil {
		return nil
	}
	if migrationID == "" {
		return fmt.Errorf("migration id is empty")
	}
	if fn == nil {
		return fmt.Errorf("migration %q has nil fn", migrationID)
	}

	if err := ensureDataMigrationsTable(db); err != nil {
		return fmt.Errorf("ensure data migrations table: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var m DataMigration
		err := tx.First(&m, "id = ?", migrationID).Error
		if err == nil {
			// already applied
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check migration %q: %w", migrationID, err)
		}

		if err := fn(tx); err != nil {
			return fmt.Errorf("run migration %q: %w", migrationID, err)
		}

		rec := DataMigration{
			ID:        migrationID,
			AppliedAt: time.Now().UTC(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("record migration %q: %w", migrationID, err)
		}

		return nil
	})
}

// Run applies the supporting migrations. The price and order tables themselves belong to the
// trading backend; only lookup indexes and the optional failure table are managed here.
// Append new migrations at the bottom with a stable unique id.
func Run(db *gorm.DB, recordFailures bool) error {
	if db == nil {
		return nil
	}

	if err := RunOnce(db, "00001_price_lookup_indexes", createPriceLookupIndexes); err != nil {
		return err
	}

	if recordFailures {
		if err := db.AutoMigrate(&model.Exception{}); err != nil {
			return fmt.Errorf("migrate job exceptions: %w", err)
		}
	}

	return nil
}

// createPriceLookupIndexes backs the latest-price lookup of order matching and the
// per-day partitioning of compaction.
func createPriceLookupIndexes(tx *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_stock_price_stock_date ON stock_price (id_stock, "date")`,
		`CREATE INDEX IF NOT EXISTS idx_index_price_index_date ON index_price (id_index, "date")`,
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
