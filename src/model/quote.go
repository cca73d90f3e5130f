package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"swiftjobs/src/exception"
)

const (
	quoteTimestampLayout = "2006-01-02 15:04:05"
	quoteDateLayout      = "2006-01-02"
)

var ErrQuotePointTime = errors.New("quote point has no usable timestamp or date")

// Quote is one element of the current-price snapshot. A null or missing price decodes as invalid.
type Quote struct {
	Shortname    string              `json:"shortname"`
	CurrentPrice decimal.NullDecimal `json:"current_price"`
	Error        *string             `json:"error,omitempty"`
}

// Validate returns an error wrapping exception.ErrQuoteRejected when the quote carries its own
// error or has no price.
func (q Quote) Validate() error {
	return validatePrice(q.Error, q.CurrentPrice)
}

// QuotePoint is one historical observation. Minute points carry Timestamp, day points carry Date.
type QuotePoint struct {
	Price     decimal.NullDecimal `json:"price"`
	Timestamp string              `json:"timestamp,omitempty"`
	Date      string              `json:"date,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

func (p QuotePoint) Validate() error {
	return validatePrice(p.Error, p.Price)
}

func validatePrice(reason *string, price decimal.NullDecimal) error {
	if reason != nil {
		return fmt.Errorf("%w: %s", exception.ErrQuoteRejected, *reason)
	}
	if !price.Valid {
		return fmt.Errorf("%w: no price", exception.ErrQuoteRejected)
	}
	return nil
}

// Time interprets the point's wall clock in loc. Day points resolve to midnight.
func (p QuotePoint) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch {
	case p.Timestamp != "":
		return time.ParseInLocation(quoteTimestampLayout, p.Timestamp, loc)
	case p.Date != "":
		return time.ParseInLocation(quoteDateLayout, p.Date, loc)
	default:
		return time.Time{}, ErrQuotePointTime
	}
}

// QuoteHistory is the historical series of a single ticker.
type QuoteHistory struct {
	Shortname string       `json:"shortname"`
	Minute    []QuotePoint `json:"minute"`
	Day       []QuotePoint `json:"day"`
}

// Points returns minute points followed by day points.
func (h QuoteHistory) Points() []QuotePoint {
	points := make([]QuotePoint, 0, len(h.Minute)+len(h.Day))
	points = append(points, h.Minute...)
	return append(points, h.Day...)
}
