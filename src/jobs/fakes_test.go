package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"swiftjobs/src/exception"
	"swiftjobs/src/model"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 30, 500, time.UTC)

type fakeQuotes struct {
	mu sync.Mutex

	current    []model.Quote
	currentErr error
	history    map[string]*model.QuoteHistory
	historyErr map[string]error
	onHistory  func(ticker string)

	currentCalls [][]string
	historyCalls []string
}

func (f *fakeQuotes) Current(_ context.Context, tickers []string) ([]model.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentCalls = append(f.currentCalls, tickers)
	return f.current, f.currentErr
}

func (f *fakeQuotes) History(_ context.Context, ticker string) (*model.QuoteHistory, error) {
	f.mu.Lock()
	f.historyCalls = append(f.historyCalls, ticker)
	hook := f.onHistory
	f.mu.Unlock()

	if hook != nil {
		hook(ticker)
	}
	if err := f.historyErr[ticker]; err != nil {
		return nil, err
	}
	if h, ok := f.history[ticker]; ok {
		return h, nil
	}
	return &model.QuoteHistory{Shortname: ticker}, nil
}

type fakeExecutor struct {
	mu sync.Mutex

	failOrders map[int64]bool
	seasonErr  error
	events     *[]string

	orders      []int64
	seasonCalls int
}

func (f *fakeExecutor) ExecuteOrder(_ context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, orderID)
	if f.failOrders[orderID] {
		return errors.Join(exception.ErrNetwork, errors.New("HTTP 500"))
	}
	return nil
}

func (f *fakeExecutor) RunSeasonChange(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seasonCalls++
	if f.events != nil {
		*f.events = append(*f.events, "season-change")
	}
	return f.seasonErr
}

func testConfig() Config {
	return Config{
		BackfillDelay:    0,
		CompactAfterDays: 8,
		RetentionMonths:  2,
		StoreLocation:    "UTC",
	}
}

func newTestJobs(t *testing.T, db *gorm.DB, quotes *fakeQuotes, executor *fakeExecutor) *Jobs {
	t.Helper()
	if quotes == nil {
		quotes = &fakeQuotes{}
	}
	if executor == nil {
		executor = &fakeExecutor{}
	}
	j, err := New(db, quotes, executor, testConfig())
	require.NoError(t, err)
	return j.WithClock(func() time.Time { return testNow })
}

func testLog() *logger.Entry {
	return logger.WithField("job", "test")
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func quotePrice(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(price(s))
}

func strPtr(s string) *string {
	return &s
}

func countTicks(t *testing.T, db *gorm.DB) (stocks, indices int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.StockPrice{}).Count(&stocks).Error)
	require.NoError(t, db.Model(&model.IndexPrice{}).Count(&indices).Error)
	return stocks, indices
}
