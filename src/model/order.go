package model

import "time"

const (
	OrderTypeBuy  = "BUY"
	OrderTypeSell = "SELL"

	OrderStyleMarket = "MARKET"
	OrderStyleLimit  = "LIMIT"

	OrderStatusPending   = "PENDING"
	OrderStatusExecuted  = "EXECUTED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRejected  = "REJECTED"
)

// IsTerminalStatus reports whether an order status permits no further transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case OrderStatusExecuted, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// Order represents a buy/sell request against one instrument.
// Status moves PENDING -> EXECUTED | CANCELLED | REJECTED; all three are terminal.
type Order struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Reference  string     `gorm:"size:36;uniqueIndex" json:"reference"`
	Symbol     string     `gorm:"size:20;index;not null" json:"symbol"`
	OrderType  string     `gorm:"size:10;not null" json:"orderType"`
	OrderStyle string     `gorm:"size:10;not null" json:"orderStyle"`
	Quantity   int64      `gorm:"not null" json:"quantity"`
	LimitPrice *float64   `json:"limitPrice,omitempty"`
	Status     string     `gorm:"size:20;not null;default:PENDING" json:"status"`
	ExecutedAt *time.Time `json:"executedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// One trade per executed order in this simplified model.
	Trades []Trade `gorm:"foreignKey:OrderID" json:"trades,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}
