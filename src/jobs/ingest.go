package jobs

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"swiftjobs/src/repository"
	"swiftjobs/src/utils"
)

// Ingest fetches the current price of every active ticker in one quote call and stores one tick per
// accepted quote, all in a single transaction. Rejected and price-less quotes are skipped.
func (j *Jobs) Ingest(ctx context.Context, log *logger.Entry) error {
	tickers, err := repository.NewInstrumentRepository(j.db).ActiveShortnames(ctx)
	if err != nil {
		return dbError("load active tickers", err)
	}
	if len(tickers) == 0 {
		log.Info("No active tickers, nothing to ingest")
		return nil
	}

	quotes, err := j.quotes.Current(ctx, tickers)
	if err != nil {
		return err
	}

	at := utils.ResetTime(j.clock(), "second")
	inserted, skipped := 0, 0

	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prices := repository.NewPriceRepository(j.db).WithDB(tx)
		for _, q := range quotes {
			if err := q.Validate(); err != nil {
				log.WithError(err).WithField("shortname", q.Shortname).Warn("Quote rejected, skipping")
				skipped++
				continue
			}
			if q.Shortname == "" {
				log.Warn("Quote without shortname, skipping")
				skipped++
				continue
			}
			if err := prices.Insert(ctx, q.Shortname, q.CurrentPrice.Decimal, at); err != nil {
				return fmt.Errorf("insert %s: %w", q.Shortname, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return dbError("ingest quotes", err)
	}

	log.WithFields(map[string]interface{}{
		"tickers":  len(tickers),
		"inserted": inserted,
		"skipped":  skipped,
		"at":       at,
	}).Info("Prices ingested")

	return nil
}
