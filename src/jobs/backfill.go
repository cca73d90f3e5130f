package jobs

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"swiftjobs/src/model"
	"swiftjobs/src/repository"
	"swiftjobs/src/utils"
)

// Backfill loads the minute and day history of every active ticker, one ticker at a time with
// BackfillDelay between tickers. A ticker that already holds ticks older than the retention window
// is considered backfilled. A failing ticker is logged and the loop moves on.
func (j *Jobs) Backfill(ctx context.Context, log *logger.Entry) error {
	tickers, err := repository.NewInstrumentRepository(j.db).ActiveShortnames(ctx)
	if err != nil {
		return dbError("load active tickers", err)
	}

	var loaded, already, failed int
	for i, ticker := range tickers {
		if i > 0 {
			if err := sleep(ctx, j.cfg.BackfillDelay); err != nil {
				return err
			}
		}

		tlog := log.WithField("shortname", ticker)
		n, err := j.backfillTicker(ctx, tlog, ticker)
		switch {
		case err != nil:
			tlog.WithError(err).Error("Backfill failed for ticker")
			failed++
		case n < 0:
			already++
		default:
			loaded++
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	log.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"loaded":  loaded,
		"skipped": already,
		"failed":  failed,
	}).Info("Backfill finished")

	return nil
}

// backfillTicker returns the number of inserted ticks, or -1 when the ticker was already backfilled.
func (j *Jobs) backfillTicker(ctx context.Context, log *logger.Entry, ticker string) (int, error) {
	history, err := j.quotes.History(ctx, ticker)
	if err != nil {
		return 0, err
	}

	// the name echoed by the source is used for the guard and the inserts alike
	shortname := history.Shortname
	if shortname == "" {
		shortname = ticker
	}

	threshold := utils.ResetTime(j.clock().AddDate(0, -j.cfg.RetentionMonths, 0), "second")
	prices := repository.NewPriceRepository(j.db)

	found, err := prices.HasTicksBefore(ctx, shortname, threshold)
	if err != nil {
		return 0, dbError("check existing ticks", err)
	}
	if found {
		log.Info("Ticker already backfilled, skipping")
		return -1, nil
	}

	inserted := 0
	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txPrices := prices.WithDB(tx)
		for _, p := range history.Points() {
			at, err := j.pointTime(p)
			if err != nil {
				log.WithError(err).Warn("History point skipped")
				continue
			}
			if err := txPrices.Insert(ctx, shortname, p.Price.Decimal, at); err != nil {
				return fmt.Errorf("insert %s at %s: %w", shortname, at, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, dbError("backfill "+ticker, err)
	}

	log.WithField("inserted", inserted).Info("Ticker backfilled")
	return inserted, nil
}

// pointTime returns the insert time of an accepted point, or why the point is skipped.
func (j *Jobs) pointTime(p model.QuotePoint) (time.Time, error) {
	if err := p.Validate(); err != nil {
		return time.Time{}, err
	}
	return p.Time(j.loc)
}
