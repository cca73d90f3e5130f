package model

import (
	"strings"
	"time"
)

// IndexPrefix marks index tickers (e.g. "^GDAXI"); everything else is a stock.
const IndexPrefix = "^"

type InstrumentKind string

const (
	InstrumentStock InstrumentKind = "stock"
	InstrumentIndex InstrumentKind = "index"
)

// KindOf classifies a ticker by the index prefix marker.
func KindOf(shortname string) InstrumentKind {
	if strings.HasPrefix(shortname, IndexPrefix) {
		return InstrumentIndex
	}
	return InstrumentStock
}

// Season groups the instrument roster of one game season.
// Only instruments of the season with ActiveFlag set are ingested and traded.
type Season struct {
	IDSeason   int64      `gorm:"column:id_season;primaryKey" json:"id_season"`
	Name       string     `gorm:"column:name;size:100" json:"name"`
	StartDate  time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	ActiveFlag bool       `gorm:"column:active_flag;not null;default:false" json:"active_flag"`
}

func (Season) TableName() string {
	return "season"
}

type Stock struct {
	IDStock   int64  `gorm:"column:id_stock;primaryKey" json:"id_stock"`
	Name      string `gorm:"column:name;size:200" json:"name"`
	Shortname string `gorm:"column:shortname;size:20;not null;index" json:"shortname"`
	IDSeason  int64  `gorm:"column:id_season;not null;index" json:"id_season"`
}

func (Stock) TableName() string {
	return "stock"
}

type Index struct {
	IDIndex   int64  `gorm:"column:id_index;primaryKey" json:"id_index"`
	Name      string `gorm:"column:name;size:200" json:"name"`
	Shortname string `gorm:"column:shortname;size:20;not null;index" json:"shortname"`
	IDSeason  int64  `gorm:"column:id_season;not null;index" json:"id_season"`
}

func (Index) TableName() string {
	return "index"
}
