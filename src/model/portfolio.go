package model

// Holding is a derived net position in one symbol, recomputed from the trade
// ledger on every request. It is never persisted.
type Holding struct {
	Symbol               string  `json:"symbol"`
	Quantity             int64   `json:"quantity"`
	AveragePrice         float64 `json:"averagePrice"`
	TotalInvested        float64 `json:"totalInvested"`
	CurrentValue         float64 `json:"currentValue"`
	ProfitLoss           float64 `json:"profitLoss"`
	ProfitLossPercentage float64 `json:"profitLossPercentage"`
}

// Portfolio bundles all open holdings with aggregate totals.
type Portfolio struct {
	Holdings          []Holding `json:"holdings"`
	TotalInvested     float64   `json:"totalInvested"`
	TotalCurrentValue float64   `json:"totalCurrentValue"`
	TotalProfitLoss   float64   `json:"totalProfitLoss"`
}
