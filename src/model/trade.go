package model

import "time"

// Trade is the append-only record of one execution. Rows are never updated
// or deleted once written.
type Trade struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"index;not null" json:"orderId"`
	Symbol        string    `gorm:"size:20;index;not null" json:"symbol"`
	TradeType     string    `gorm:"size:10;not null" json:"tradeType"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	ExecutedPrice float64   `gorm:"not null" json:"executedPrice"`
	TotalValue    float64   `gorm:"not null" json:"totalValue"`
	ExecutedAt    time.Time `gorm:"index" json:"executedAt"`
}

func (Trade) TableName() string {
	return "trades"
}
