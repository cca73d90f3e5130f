package jobs

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/repository"
	"swiftjobs/src/utils"
)

// SeasonChange returns the season lifecycle job. When a season starts today it triggers the rollover
// on the execution service and then runs backfill for the new roster. A failed rollover aborts the run.
func (j *Jobs) SeasonChange(backfill Func) Func {
	return func(ctx context.Context, log *logger.Entry) error {
		today := utils.StartOfDay(j.clock(), j.loc)

		season, err := repository.NewSeasonRepository(j.db).StartingBetween(ctx, today, today.AddDate(0, 0, 1))
		if err != nil {
			return dbError("look up starting season", err)
		}
		if season == nil {
			log.Info("No season starting today")
			return nil
		}

		log = log.WithFields(map[string]interface{}{
			"id_season": season.IDSeason,
			"season":    season.Name,
		})
		log.Info("Season starts today, running season change")

		if err := j.executor.RunSeasonChange(ctx); err != nil {
			return fmt.Errorf("season change: %w", err)
		}

		log.Info("Season changed, backfilling new roster")
		return backfill(ctx, log)
	}
}
