package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const activeShortnamesSQL = `SELECT s.shortname
	FROM stock s
	JOIN season se ON s.id_season = se.id_season
	WHERE se.active_flag = TRUE
UNION ALL
SELECT i.shortname
	FROM "index" i
	JOIN season se ON i.id_season = se.id_season
	WHERE se.active_flag = TRUE`

// InstrumentRepository reads the instrument roster.
type InstrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// ActiveShortnames returns the tickers of all stocks and indices of the active season in one read.
func (r *InstrumentRepository) ActiveShortnames(ctx context.Context) ([]string, error) {
	var names []string

	err := r.db.WithContext(ctx).Raw(activeShortnamesSQL).Scan(&names).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "InstrumentRepository",
			"op":   "ActiveShortnames",
		}).WithError(err).Error("Failed to load active tickers")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "InstrumentRepository",
		"op":      "ActiveShortnames",
		"tickers": len(names),
	}).Debug("Active tickers loaded")

	return names, nil
}
