package repository

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MaintenanceRepository runs database-wide housekeeping statements.
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Reindex rebuilds every index of the connected database. REINDEX DATABASE cannot run inside
// a transaction block, so this must be called on a plain handle.
func (r *MaintenanceRepository) Reindex(ctx context.Context) (string, error) {
	var name string
	if err := r.db.WithContext(ctx).Raw("SELECT current_database()").Scan(&name).Error; err != nil {
		return "", fmt.Errorf("resolve database name: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("resolve database name: empty result")
	}

	stmt := "REINDEX DATABASE " + quoteIdent(name)
	if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return name, fmt.Errorf("reindex %s: %w", name, err)
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "MaintenanceRepository",
		"op":       "Reindex",
		"database": name,
	}).Info("Database reindexed")

	return name, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
