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
	"swiftjobs/src/testutil"
)

func TestIngestSkipsRejectedQuotes(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL", "XXXX", "^GDAXI")

	quotes := &fakeQuotes{current: []model.Quote{
		{Shortname: "AAPL", CurrentPrice: quotePrice("231.5")},
		{Shortname: "XXXX", Error: strPtr("not found")},
		{Shortname: "^GDAXI", CurrentPrice: quotePrice("19250.12")},
	}}
	j := newTestJobs(t, db, quotes, nil)
	log, hook := logrustest.NewNullLogger()

	require.NoError(t, j.Ingest(context.Background(), logger.NewEntry(log)))

	warned := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logger.WarnLevel {
			warned++
			require.Equal(t, "XXXX", entry.Data["shortname"])
			err, _ := entry.Data[logger.ErrorKey].(error)
			require.ErrorIs(t, err, exception.ErrQuoteRejected)
			require.ErrorContains(t, err, "not found")
		}
	}
	require.Equal(t, 1, warned)

	require.Len(t, quotes.currentCalls, 1)
	require.ElementsMatch(t, []string{"AAPL", "XXXX", "^GDAXI"}, quotes.currentCalls[0])

	stocks, indices := countTicks(t, db)
	require.Equal(t, int64(1), stocks)
	require.Equal(t, int64(1), indices)

	var tick model.StockPrice
	require.NoError(t, db.First(&tick).Error)
	require.True(t, time.Date(2026, 10, 15, 12, 0, 30, 0, time.UTC).Equal(tick.Date))
	require.True(t, price("231.5").Equal(tick.Price))
}

func TestIngestSkipsQuotesWithoutPrice(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL", "MSFT", "TSLA")

	quotes := &fakeQuotes{current: []model.Quote{
		{Shortname: "AAPL", CurrentPrice: quotePrice("231.5")},
		{Shortname: "MSFT", CurrentPrice: decimal.NullDecimal{}},
		{Shortname: "TSLA"},
	}}
	j := newTestJobs(t, db, quotes, nil)
	log, hook := logrustest.NewNullLogger()

	require.NoError(t, j.Ingest(context.Background(), logger.NewEntry(log)))

	var skipped []interface{}
	for _, entry := range hook.AllEntries() {
		if entry.Level == logger.WarnLevel {
			skipped = append(skipped, entry.Data["shortname"])
			err, _ := entry.Data[logger.ErrorKey].(error)
			require.ErrorIs(t, err, exception.ErrQuoteRejected)
		}
	}
	require.ElementsMatch(t, []interface{}{"MSFT", "TSLA"}, skipped)

	var ticks []model.StockPrice
	require.NoError(t, db.Find(&ticks).Error)
	require.Len(t, ticks, 1)
	require.True(t, price("231.5").Equal(ticks[0].Price))
}

func TestIngestRollsBackOnInsertFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL")

	quotes := &fakeQuotes{current: []model.Quote{
		{Shortname: "AAPL", CurrentPrice: quotePrice("231.5")},
		// not on the roster, the instrument id resolves to NULL
		{Shortname: "MSFT", CurrentPrice: quotePrice("410")},
	}}
	j := newTestJobs(t, db, quotes, nil)

	err := j.Ingest(context.Background(), testLog())
	require.ErrorIs(t, err, exception.ErrDatabase)

	stocks, indices := countTicks(t, db)
	require.Zero(t, stocks)
	require.Zero(t, indices)
}

func TestIngestQuoteSourceFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.Roster(t, db, "AAPL")

	quotes := &fakeQuotes{currentErr: errors.Join(exception.ErrExternalProcess, errors.New("exit status 1"))}
	j := newTestJobs(t, db, quotes, nil)

	err := j.Ingest(context.Background(), testLog())
	require.ErrorIs(t, err, exception.ErrExternalProcess)
}

func TestIngestWithoutRoster(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	quotes := &fakeQuotes{}
	j := newTestJobs(t, db, quotes, nil)

	require.NoError(t, j.Ingest(context.Background(), testLog()))
	require.Empty(t, quotes.currentCalls)
}
