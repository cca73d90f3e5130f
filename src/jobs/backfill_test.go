package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"swiftjobs/src/exception"
	"swiftjobs/src/model"
	"swiftjobs/src/repository"
	"swiftjobs/src/testutil"
)

func appleHistory() *model.QuoteHistory {
	return &model.QuoteHistory{
		Shortname: "AAPL",
		Minute: []model.QuotePoint{
			{Price: quotePrice("230.10"), Timestamp: "2026-10-14 15:31:00"},
			{Price: quotePrice("230.40"), Timestamp: "2026-10-14 15:32:00"},
			{Price: quotePrice("0"), Timestamp: "2026-10-14 15:33:00", Error: strPtr("no data")},
			{Timestamp: "2026-10-14 15:34:00"},
		},
		Day: []model.QuotePoint{
			{Price: quotePrice("210"), Date: "2026-07-01"},
			{Price: quotePrice("220"), Date: "2026-09-01"},
			{Price: quotePrice("221"), Date: "not a date"},
		},
	}
}

func TestBackfillIsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL")

	quotes := &fakeQuotes{history: map[string]*model.QuoteHistory{"AAPL": appleHistory()}}
	j := newTestJobs(t, db, quotes, nil)

	require.NoError(t, j.Backfill(context.Background(), testLog()))
	stocks, _ := countTicks(t, db)
	require.Equal(t, int64(4), stocks)

	require.NoError(t, j.Backfill(context.Background(), testLog()))
	stocks, _ = countTicks(t, db)
	require.Equal(t, int64(4), stocks)

	require.Equal(t, []string{"AAPL", "AAPL"}, quotes.historyCalls)

	var oldest model.StockPrice
	require.NoError(t, db.Order(`"date" ASC`).First(&oldest).Error)
	require.True(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).Equal(oldest.Date))
}

func TestBackfillContinuesAfterTickerFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL", "MSFT", "^GDAXI")

	quotes := &fakeQuotes{
		history: map[string]*model.QuoteHistory{
			"AAPL": appleHistory(),
			"^GDAXI": {
				Shortname: "^GDAXI",
				Day:       []model.QuotePoint{{Price: quotePrice("19000"), Date: "2026-09-01"}},
			},
		},
		historyErr: map[string]error{"MSFT": exception.ErrParse},
	}
	j := newTestJobs(t, db, quotes, nil)

	require.NoError(t, j.Backfill(context.Background(), testLog()))
	require.ElementsMatch(t, []string{"AAPL", "MSFT", "^GDAXI"}, quotes.historyCalls)

	stocks, indices := countTicks(t, db)
	require.Equal(t, int64(4), stocks)
	require.Equal(t, int64(1), indices)
}

func TestBackfillRollsBackTicker(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL")

	// the source answers with a ticker that is not on the roster
	quotes := &fakeQuotes{history: map[string]*model.QuoteHistory{
		"AAPL": {Shortname: "AAPL.X", Day: []model.QuotePoint{{Price: quotePrice("1"), Date: "2026-09-01"}}},
	}}
	j := newTestJobs(t, db, quotes, nil)

	require.NoError(t, j.Backfill(context.Background(), testLog()))
	stocks, _ := countTicks(t, db)
	require.Zero(t, stocks)
}

func TestBackfillStopsWhenCancelledDuringDelay(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL", "MSFT")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quotes := &fakeQuotes{onHistory: func(string) { cancel() }}
	j := newTestJobs(t, db, quotes, nil)
	j.cfg.BackfillDelay = time.Hour

	err := j.Backfill(ctx, testLog())
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, quotes.historyCalls, 1)
}

func TestBackfillSkipsPointsWithoutPrice(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL")

	quotes := &fakeQuotes{history: map[string]*model.QuoteHistory{
		"AAPL": {Shortname: "AAPL", Day: []model.QuotePoint{
			{Price: decimal.NullDecimal{}, Date: "2026-08-03"},
			{Price: quotePrice("220"), Date: "2026-09-01"},
		}},
	}}
	j := newTestJobs(t, db, quotes, nil)
	log, hook := logrustest.NewNullLogger()

	require.NoError(t, j.Backfill(context.Background(), logger.NewEntry(log)))

	var ticks []model.StockPrice
	require.NoError(t, db.Find(&ticks).Error)
	require.Len(t, ticks, 1)
	require.True(t, price("220").Equal(ticks[0].Price))

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logger.WarnLevel {
			err, _ := entry.Data[logger.ErrorKey].(error)
			warned = warned || errors.Is(err, exception.ErrQuoteRejected)
		}
	}
	require.True(t, warned, "expected a warning for the point without price")
}

func TestBackfillGuardUsesEchoedShortname(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	// the roster lists the ticker under the name the source echoes back
	testutil.Roster(t, db, "AAPL", "AAPL.X")

	old := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repository.NewPriceRepository(db).Insert(context.Background(), "AAPL.X", price("1"), old))

	quotes := &fakeQuotes{history: map[string]*model.QuoteHistory{
		"AAPL":   {Shortname: "AAPL.X", Day: []model.QuotePoint{{Price: quotePrice("2"), Date: "2026-09-01"}}},
		"AAPL.X": {Shortname: "AAPL.X", Day: []model.QuotePoint{{Price: quotePrice("2"), Date: "2026-09-01"}}},
	}}
	j := newTestJobs(t, db, quotes, nil)

	require.NoError(t, j.Backfill(context.Background(), testLog()))

	stocks, _ := countTicks(t, db)
	require.Equal(t, int64(1), stocks)
}
