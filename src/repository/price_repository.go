package repository

import (
	"context"
	"fmt"
	"time"

	"swiftjobs/src/model"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// priceFamily describes one of the two tick tables. Both share shape and invariants.
type priceFamily struct {
	kind            model.InstrumentKind
	table           string
	idColumn        string
	instrumentTable string
	instrumentID    string
}

var (
	stockPrices = priceFamily{
		kind:            model.InstrumentStock,
		table:           "stock_price",
		idColumn:        "id_stock_price",
		instrumentTable: "stock",
		instrumentID:    "id_stock",
	}
	indexPrices = priceFamily{
		kind:            model.InstrumentIndex,
		table:           "index_price",
		idColumn:        "id_index_price",
		instrumentTable: `"index"`,
		instrumentID:    "id_index",
	}
	priceFamilies = []priceFamily{stockPrices, indexPrices}
)

func familyOf(shortname string) priceFamily {
	if model.KindOf(shortname) == model.InstrumentIndex {
		return indexPrices
	}
	return stockPrices
}

// insertSQL resolves the instrument through the active season. An unknown ticker yields a
// NULL instrument id and the insert fails on the NOT NULL constraint.
func (f priceFamily) insertSQL() string {
	return fmt.Sprintf(`INSERT INTO %[1]s (%[2]s, price, "date")
	VALUES ((SELECT x.%[2]s
			FROM %[3]s x JOIN season se ON x.id_season = se.id_season
			WHERE x.shortname = ? AND se.active_flag = TRUE LIMIT 1),
		?, ?)`, f.table, f.instrumentID, f.instrumentTable)
}

func (f priceFamily) existsBeforeSQL() string {
	return fmt.Sprintf(`SELECT 1
	FROM %[1]s p
	JOIN %[3]s x ON x.%[2]s = p.%[2]s
	WHERE x.shortname = ? AND p."date" <= ?
	LIMIT 1`, f.table, f.instrumentID, f.instrumentTable)
}

// compactDeleteSQL keeps only the most recent tick per (instrument, calendar day) before the cutoff.
func (f priceFamily) compactDeleteSQL() string {
	return fmt.Sprintf(`WITH ranked_old_prices AS (
	SELECT %[2]s,
		ROW_NUMBER() OVER (
			PARTITION BY %[3]s, DATE("date")
			ORDER BY "date" DESC
		) AS rn
	FROM %[1]s
	WHERE "date" < ?
)
DELETE FROM %[1]s
WHERE %[2]s IN (SELECT %[2]s FROM ranked_old_prices WHERE rn > 1)`, f.table, f.idColumn, f.instrumentID)
}

// compactRewriteSQL moves the surviving tick of each day to that day's midnight.
func (f priceFamily) compactRewriteSQL() string {
	return fmt.Sprintf(`UPDATE %[1]s
SET "date" = date_trunc('day', "date")
WHERE "date" < ? AND "date" <> date_trunc('day', "date")`, f.table)
}

func (f priceFamily) deleteBeforeSQL() string {
	return fmt.Sprintf(`DELETE FROM %s WHERE "date" < ?`, f.table)
}

// CompactionResult counts rows touched per family.
type CompactionResult struct {
	Deleted   map[model.InstrumentKind]int64
	Rewritten map[model.InstrumentKind]int64
}

// PriceRepository writes and maintains stock and index ticks.
type PriceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Used to bind the repository to a transaction.
func (r *PriceRepository) WithDB(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Insert stores one tick for the ticker of the active season, routed to the stock or index table.
func (r *PriceRepository) Insert(
	ctx context.Context,
	shortname string,
	price decimal.Decimal,
	at time.Time,
) error {
	f := familyOf(shortname)

	err := r.db.WithContext(ctx).Exec(f.insertSQL(), shortname, price, at).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "PriceRepository",
			"op":        "Insert",
			"shortname": shortname,
			"table":     f.table,
		}).WithError(err).Error("Failed to insert price")

		return err
	}

	return nil
}

// HasTicksBefore reports whether the ticker already has a tick at or before the given time.
func (r *PriceRepository) HasTicksBefore(
	ctx context.Context,
	shortname string,
	before time.Time,
) (bool, error) {
	f := familyOf(shortname)

	var found []int
	err := r.db.WithContext(ctx).Raw(f.existsBeforeSQL(), shortname, before).Scan(&found).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "PriceRepository",
			"op":        "HasTicksBefore",
			"shortname": shortname,
		}).WithError(err).Error("Failed to check existing ticks")

		return false, err
	}

	return len(found) > 0, nil
}

// Compact collapses every (instrument, day) partition older than the cutoff into one tick at
// midnight, for both families. Callers run it inside a transaction.
func (r *PriceRepository) Compact(ctx context.Context, cutoff time.Time) (CompactionResult, error) {
	res := CompactionResult{
		Deleted:   map[model.InstrumentKind]int64{},
		Rewritten: map[model.InstrumentKind]int64{},
	}

	for _, f := range priceFamilies {
		del := r.db.WithContext(ctx).Exec(f.compactDeleteSQL(), cutoff)
		if del.Error != nil {
			return res, fmt.Errorf("compact %s: delete intraday ticks: %w", f.table, del.Error)
		}
		res.Deleted[f.kind] = del.RowsAffected

		upd := r.db.WithContext(ctx).Exec(f.compactRewriteSQL(), cutoff)
		if upd.Error != nil {
			return res, fmt.Errorf("compact %s: rewrite daily ticks: %w", f.table, upd.Error)
		}
		res.Rewritten[f.kind] = upd.RowsAffected
	}

	logger.WithFields(map[string]interface{}{
		"repo":      "PriceRepository",
		"op":        "Compact",
		"cutoff":    cutoff,
		"deleted":   res.Deleted,
		"rewritten": res.Rewritten,
	}).Info("Ticks compacted")

	return res, nil
}

// DeleteBefore removes every tick older than the cutoff from both families.
func (r *PriceRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (map[model.InstrumentKind]int64, error) {
	deleted := map[model.InstrumentKind]int64{}

	for _, f := range priceFamilies {
		res := r.db.WithContext(ctx).Exec(f.deleteBeforeSQL(), cutoff)
		if res.Error != nil {
			return deleted, fmt.Errorf("delete %s: %w", f.table, res.Error)
		}
		deleted[f.kind] = res.RowsAffected
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "PriceRepository",
		"op":      "DeleteBefore",
		"cutoff":  cutoff,
		"deleted": deleted,
	}).Info("Expired ticks deleted")

	return deleted, nil
}
