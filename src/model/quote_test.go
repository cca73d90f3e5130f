package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"swiftjobs/src/exception"
)

func TestQuotePointTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	minute := QuotePoint{Timestamp: "2026-10-12 15:31:00"}
	got, err := minute.Time(berlin)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 10, 12, 15, 31, 0, 0, berlin), got)

	day := QuotePoint{Date: "2026-08-03"}
	got, err = day.Time(berlin)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 3, 0, 0, 0, 0, berlin), got)

	_, err = QuotePoint{}.Time(berlin)
	require.ErrorIs(t, err, ErrQuotePointTime)

	_, err = QuotePoint{Timestamp: "12/10/2026"}.Time(berlin)
	require.Error(t, err)
}

func TestQuoteHistoryPoints(t *testing.T) {
	h := QuoteHistory{
		Minute: []QuotePoint{{Timestamp: "2026-10-12 15:31:00"}},
		Day:    []QuotePoint{{Date: "2026-08-03"}, {Date: "2026-08-04"}},
	}

	points := h.Points()
	require.Len(t, points, 3)
	require.Equal(t, "2026-10-12 15:31:00", points[0].Timestamp)
	require.Equal(t, "2026-08-04", points[2].Date)
}

func TestQuoteValidate(t *testing.T) {
	var quotes []Quote
	require.NoError(t, json.Unmarshal([]byte(`[
		{"shortname":"AAPL","current_price":231.5},
		{"shortname":"MSFT","current_price":null},
		{"shortname":"TSLA"},
		{"shortname":"XXXX","current_price":null,"error":"not found"},
		{"shortname":"ZERO","current_price":0}
	]`), &quotes))

	require.NoError(t, quotes[0].Validate())
	require.Equal(t, "231.5", quotes[0].CurrentPrice.Decimal.String())

	for _, q := range quotes[1:4] {
		require.ErrorIs(t, q.Validate(), exception.ErrQuoteRejected, q.Shortname)
	}
	require.ErrorContains(t, quotes[1].Validate(), "no price")
	require.ErrorContains(t, quotes[3].Validate(), "not found")

	// a real zero is still a price
	require.NoError(t, quotes[4].Validate())
}

func TestQuotePointValidate(t *testing.T) {
	var points []QuotePoint
	require.NoError(t, json.Unmarshal([]byte(`[
		{"price":228,"date":"2026-08-03"},
		{"price":null,"date":"2026-08-04"},
		{"date":"2026-08-05"}
	]`), &points))

	require.NoError(t, points[0].Validate())
	require.ErrorIs(t, points[1].Validate(), exception.ErrQuoteRejected)
	require.ErrorIs(t, points[2].Validate(), exception.ErrQuoteRejected)
}
