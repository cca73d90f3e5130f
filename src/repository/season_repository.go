package repository

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"swiftjobs/src/model"
)

// SeasonRepository looks up competition seasons.
type SeasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// StartingBetween returns the first season whose start date falls in [from, to).
// It returns nil and no error when there is none.
func (r *SeasonRepository) StartingBetween(ctx context.Context, from, to time.Time) (*model.Season, error) {
	var season model.Season

	err := r.db.WithContext(ctx).
		Where("start_date >= ? AND start_date < ?", from, to).
		Order("start_date ASC").
		First(&season).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "SeasonRepository",
			"op":   "StartingBetween",
			"from": from,
			"to":   to,
		}).WithError(err).Error("Failed to look up starting season")

		return nil, err
	}

	return &season, nil
}
