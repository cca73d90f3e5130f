package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPrice is one price tick of a stock. Date holds the wall clock of the store location.
type StockPrice struct {
	IDStockPrice int64           `gorm:"column:id_stock_price;primaryKey" json:"id_stock_price"`
	IDStock      int64           `gorm:"column:id_stock;not null" json:"id_stock"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric;not null" json:"price"`
	Date         time.Time       `gorm:"column:date;not null" json:"date"`
}

func (StockPrice) TableName() string {
	return "stock_price"
}

// IndexPrice mirrors StockPrice for index instruments.
type IndexPrice struct {
	IDIndexPrice int64           `gorm:"column:id_index_price;primaryKey" json:"id_index_price"`
	IDIndex      int64           `gorm:"column:id_index;not null" json:"id_index"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric;not null" json:"price"`
	Date         time.Time       `gorm:"column:date;not null" json:"date"`
}

func (IndexPrice) TableName() string {
	return "index_price"
}
