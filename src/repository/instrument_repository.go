package repository

import (
	"context"
	"errors"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradingplatform/src/database"
	"tradingplatform/src/model"
)

// InstrumentRepository handles read operations for the instrument catalog and
// the single mutable field (last traded price) the execution engine maintains.
type InstrumentRepository struct {
	db *gorm.DB
}

// NewInstrumentRepository creates a new repository instance using the main database.
func NewInstrumentRepository() *InstrumentRepository {
	return &InstrumentRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *InstrumentRepository) WithDB(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// FindAll returns the catalog ordered by symbol. With activeOnly set,
// delisted instruments are filtered out.
func (r *InstrumentRepository) FindAll(
	ctx context.Context,
	activeOnly bool,
) ([]model.Instrument, error) {

	logger.WithFields(map[string]interface{}{
		"repo":        "InstrumentRepository",
		"op":          "FindAll",
		"active_only": activeOnly,
	}).Debug("Fetching instruments")

	query := r.db.WithContext(ctx).Order("symbol ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var instruments []model.Instrument
	if err := query.Find(&instruments).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "InstrumentRepository",
			"op":   "FindAll",
		}).WithError(err).Error("Failed to fetch instruments")

		return nil, err
	}

	return instruments, nil
}

// FindBySymbol fetches one active instrument by symbol (case-insensitive).
// Returns (nil, nil) if the instrument is not found or inactive.
func (r *InstrumentRepository) FindBySymbol(
	ctx context.Context,
	symbol string,
) (*model.Instrument, error) {

	symbol = strings.ToUpper(symbol)

	logger.WithFields(map[string]interface{}{
		"repo":   "InstrumentRepository",
		"op":     "FindBySymbol",
		"symbol": symbol,
	}).Debug("Fetching instrument by symbol")

	var instrument model.Instrument

	err := r.db.WithContext(ctx).
		Where("symbol = ? AND is_active = ?", symbol, true).
		First(&instrument).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":   "InstrumentRepository",
				"op":     "FindBySymbol",
				"symbol": symbol,
			}).Info("Instrument not found")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":   "InstrumentRepository",
			"op":     "FindBySymbol",
			"symbol": symbol,
		}).WithError(err).Error("Failed to fetch instrument by symbol")

		return nil, err
	}

	return &instrument, nil
}

// UpdateLastTradedPrice moves the reference price of a symbol. The execution
// engine calls this inside its submit transaction via WithDB.
func (r *InstrumentRepository) UpdateLastTradedPrice(
	ctx context.Context,
	symbol string,
	price float64,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":   "InstrumentRepository",
		"op":     "UpdateLastTradedPrice",
		"symbol": symbol,
		"price":  price,
	}).Debug("Updating last traded price")

	err := r.db.WithContext(ctx).
		Model(&model.Instrument{}).
		Where("symbol = ?", symbol).
		Update("last_traded_price", price).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "InstrumentRepository",
			"op":     "UpdateLastTradedPrice",
			"symbol": symbol,
		}).WithError(err).Error("Failed to update last traded price")

		return err
	}

	return nil
}
