package model

import "time"

const (
	InstrumentTypeEquity = "EQUITY"
	InstrumentTypeOption = "OPTION"
	InstrumentTypeFuture = "FUTURE"
)

// Instrument represents a tradable symbol with a reference price.
// Identity (symbol, name, exchange, type) is immutable; LastTradedPrice is
// moved to the execution price after every fill to simulate market drift.
type Instrument struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Symbol          string    `gorm:"size:20;uniqueIndex;not null" json:"symbol"`
	Name            string    `gorm:"size:200;not null" json:"name"`
	Exchange        string    `gorm:"size:50;not null" json:"exchange"`
	InstrumentType  string    `gorm:"size:20;not null;default:EQUITY" json:"instrumentType"`
	LastTradedPrice float64   `gorm:"not null" json:"lastTradedPrice"`
	IsActive        bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Instrument) TableName() string {
	return "instruments"
}
