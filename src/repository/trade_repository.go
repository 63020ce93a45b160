package repository

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradingplatform/src/database"
	"tradingplatform/src/model"
)

// TradeRepository is the append-only trade ledger. No update or delete
// operation is exposed; executed trades are immutable.
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new repository instance using the main database.
func NewTradeRepository() *TradeRepository {
	return &TradeRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *TradeRepository) WithDB(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create appends a trade to the ledger.
func (r *TradeRepository) Create(
	ctx context.Context,
	trade *model.Trade,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Create",
		"order_id": trade.OrderID,
		"symbol":   trade.Symbol,
		"qty":      trade.Quantity,
		"price":    trade.ExecutedPrice,
	}).Debug("Appending trade to ledger")

	err := r.db.WithContext(ctx).Create(trade).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Create",
			"order_id": trade.OrderID,
		}).WithError(err).Error("Failed to create trade")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Create",
		"trade_id": trade.ID,
	}).Info("Trade created")

	return nil
}

// FindAll returns trades in execution (insertion) order, optionally filtered
// by symbol.
func (r *TradeRepository) FindAll(
	ctx context.Context,
	symbol string,
) ([]model.Trade, error) {

	logger.WithFields(map[string]interface{}{
		"repo":   "TradeRepository",
		"op":     "FindAll",
		"symbol": symbol,
	}).Debug("Fetching trades")

	query := r.db.WithContext(ctx).Order("executed_at ASC, id ASC")
	if symbol != "" {
		query = query.Where("symbol = ?", strings.ToUpper(symbol))
	}

	var trades []model.Trade
	if err := query.Find(&trades).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "TradeRepository",
			"op":     "FindAll",
			"symbol": symbol,
		}).WithError(err).Error("Failed to fetch trades")

		return nil, err
	}

	return trades, nil
}

// FindByOrderID returns the trades belonging to one order.
func (r *TradeRepository) FindByOrderID(
	ctx context.Context,
	orderID uint,
) ([]model.Trade, error) {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "FindByOrderID",
		"order_id": orderID,
	}).Debug("Fetching trades for order")

	var trades []model.Trade

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&trades).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "FindByOrderID",
			"order_id": orderID,
		}).WithError(err).Error("Failed to fetch trades for order")

		return nil, err
	}

	return trades, nil
}
