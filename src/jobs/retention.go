package jobs

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"swiftjobs/src/model"
	"swiftjobs/src/repository"
	"swiftjobs/src/utils"
)

// compactionCutoff is the midnight before which days are collapsed. With the default of 8 days the
// day eight days ago is the most recent compacted day.
func (j *Jobs) compactionCutoff() time.Time {
	return utils.StartOfDay(j.clock(), j.loc).AddDate(0, 0, -(j.cfg.CompactAfterDays - 1))
}

func (j *Jobs) deletionCutoff() time.Time {
	return utils.StartOfDay(j.clock(), j.loc).AddDate(0, -j.cfg.RetentionMonths, 0)
}

// Compact reduces every (instrument, day) older than the compaction window to a single tick at
// midnight, for stocks and indices in one transaction.
func (j *Jobs) Compact(ctx context.Context, log *logger.Entry) error {
	cutoff := j.compactionCutoff()

	var res repository.CompactionResult
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = repository.NewPriceRepository(tx).Compact(ctx, cutoff)
		return err
	})
	if err != nil {
		return dbError("compact ticks", err)
	}

	log.WithFields(map[string]interface{}{
		"cutoff":          cutoff,
		"stock_deleted":   res.Deleted[model.InstrumentStock],
		"stock_rewritten": res.Rewritten[model.InstrumentStock],
		"index_deleted":   res.Deleted[model.InstrumentIndex],
		"index_rewritten": res.Rewritten[model.InstrumentIndex],
	}).Info("Ticks compacted")

	return nil
}

// Delete removes every tick older than the retention window from both families in one transaction.
func (j *Jobs) Delete(ctx context.Context, log *logger.Entry) error {
	cutoff := j.deletionCutoff()

	var deleted map[model.InstrumentKind]int64
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = repository.NewPriceRepository(tx).DeleteBefore(ctx, cutoff)
		return err
	})
	if err != nil {
		return dbError("delete expired ticks", err)
	}

	log.WithFields(map[string]interface{}{
		"cutoff":        cutoff,
		"stock_deleted": deleted[model.InstrumentStock],
		"index_deleted": deleted[model.InstrumentIndex],
	}).Info("Expired ticks deleted")

	return nil
}

// Reindex rebuilds the database indexes. It runs outside any transaction.
func (j *Jobs) Reindex(ctx context.Context, log *logger.Entry) error {
	name, err := repository.NewMaintenanceRepository(j.db).Reindex(ctx)
	if err != nil {
		return dbError("reindex", err)
	}
	log.WithField("database", name).Info("Database reindexed")
	return nil
}
