package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
	OrderTypeStop   = "STOP"
)

// Order is a user order created and executed elsewhere. This service only reads it.
// BS is false for a buy and true for a sell.
type Order struct {
	IDOrder         int64      `gorm:"column:id_order;primaryKey" json:"id_order"`
	IDUser          string     `gorm:"column:id_user;size:100" json:"id_user"`
	IDStock         int64      `gorm:"column:id_stock;not null;index" json:"id_stock"`
	BS              bool       `gorm:"column:bs;not null" json:"bs"`
	Quantity        int64      `gorm:"column:quantity;not null" json:"quantity"`
	OrderType       string     `gorm:"column:order_type;size:20;not null" json:"order_type"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	ExecutedAt      *time.Time `gorm:"column:executed_at" json:"executed_at,omitempty"`
	ExecutedPriceID *int64     `gorm:"column:executed_price_id" json:"executed_price_id,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderCondition holds the optional thresholds of a LIMIT or STOP order.
type OrderCondition struct {
	IDOrderCondition int64               `gorm:"column:id_order_condition;primaryKey" json:"id_order_condition"`
	IDOrder          int64               `gorm:"column:id_order;not null;index" json:"id_order"`
	LimitPrice       decimal.NullDecimal `gorm:"column:limit_price;type:numeric" json:"limit_price"`
	StopPrice        decimal.NullDecimal `gorm:"column:stop_price;type:numeric" json:"stop_price"`
}

func (OrderCondition) TableName() string {
	return "orders_condition"
}

// PendingOrder is an unexecuted order joined with its condition and the latest tick of its stock.
type PendingOrder struct {
	IDOrder     int64               `gorm:"column:id_order"`
	IDStock     int64               `gorm:"column:id_stock"`
	BS          bool                `gorm:"column:bs"`
	OrderType   string              `gorm:"column:order_type"`
	LimitPrice  decimal.NullDecimal `gorm:"column:limit_price"`
	StopPrice   decimal.NullDecimal `gorm:"column:stop_price"`
	LatestPrice decimal.Decimal     `gorm:"column:latest_price"`
}

func (o PendingOrder) IsSell() bool {
	return o.BS
}

// Eligible reports whether the latest price satisfies the order's execution condition.
// Market orders always are. A buy limit fills at or below the limit and a sell limit at or above it;
// stops trigger in the opposite direction. A non-positive or missing threshold never matches.
func (o PendingOrder) Eligible() bool {
	if o.OrderType == OrderTypeMarket {
		return true
	}

	p := o.LatestPrice

	if o.LimitPrice.Valid && o.LimitPrice.Decimal.IsPositive() {
		limit := o.LimitPrice.Decimal
		if !o.IsSell() && p.LessThanOrEqual(limit) {
			return true
		}
		if o.IsSell() && p.GreaterThanOrEqual(limit) {
			return true
		}
	}

	if o.StopPrice.Valid && o.StopPrice.Decimal.IsPositive() {
		stop := o.StopPrice.Decimal
		if !o.IsSell() && p.GreaterThanOrEqual(stop) {
			return true
		}
		if o.IsSell() && p.LessThanOrEqual(stop) {
			return true
		}
	}

	return false
}
