package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradingplatform/src/errs"
	"tradingplatform/src/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Instrument{}, &model.Order{}, &model.Trade{}))

	instruments := []model.Instrument{
		{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 175.50, IsActive: true},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 380.75, IsActive: true},
	}
	require.NoError(t, db.Create(&instruments).Error)

	return db
}

func insertTrade(t *testing.T, db *gorm.DB, symbol, tradeType string, quantity int64, price float64, at time.Time) {
	t.Helper()
	trade := model.Trade{
		OrderID:       1,
		Symbol:        symbol,
		TradeType:     tradeType,
		Quantity:      quantity,
		ExecutedPrice: price,
		TotalValue:    price * float64(quantity),
		ExecutedAt:    at,
	}
	require.NoError(t, db.Create(&trade).Error)
}

func setPrice(t *testing.T, db *gorm.DB, symbol string, price float64) {
	t.Helper()
	require.NoError(t, db.Model(&model.Instrument{}).
		Where("symbol = ?", symbol).
		Update("last_traded_price", price).Error)
}

func TestGetPortfolioRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 10, 100.00, base)
	insertTrade(t, db, "AAPL", model.OrderTypeSell, 4, 120.00, base.Add(time.Hour))
	setPrice(t, db, "AAPL", 120.00)

	result, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Holdings, 1)

	holding := result.Holdings[0]
	assert.Equal(t, "AAPL", holding.Symbol)
	assert.EqualValues(t, 6, holding.Quantity)
	assert.Equal(t, 100.00, holding.AveragePrice)
	assert.Equal(t, 600.00, holding.TotalInvested)
	assert.Equal(t, 720.00, holding.CurrentValue)
	assert.Equal(t, 120.00, holding.ProfitLoss)
	assert.Equal(t, 20.00, holding.ProfitLossPercentage)

	assert.Equal(t, 600.00, result.TotalInvested)
	assert.Equal(t, 720.00, result.TotalCurrentValue)
	assert.Equal(t, 120.00, result.TotalProfitLoss)
}

func TestGetPortfolioWeightedAverageCost(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 10, 100.00, base)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 10, 200.00, base.Add(time.Hour))
	setPrice(t, db, "AAPL", 150.00)

	result, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Holdings, 1)

	holding := result.Holdings[0]
	assert.EqualValues(t, 20, holding.Quantity)
	assert.Equal(t, 150.00, holding.AveragePrice)
	assert.Equal(t, 3000.00, holding.TotalInvested)
	assert.Equal(t, 3000.00, holding.CurrentValue)
	assert.Equal(t, 0.00, holding.ProfitLoss)
	assert.Equal(t, 0.00, holding.ProfitLossPercentage)
}

func TestGetPortfolioExcludesClosedPositions(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 5, 100.00, base)
	insertTrade(t, db, "AAPL", model.OrderTypeSell, 5, 110.00, base.Add(time.Hour))
	insertTrade(t, db, "MSFT", model.OrderTypeBuy, 2, 380.75, base.Add(2*time.Hour))

	result, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Holdings, 1)
	assert.Equal(t, "MSFT", result.Holdings[0].Symbol)
}

func TestGetPortfolioMultipleSymbolsSortedWithTotals(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insertTrade(t, db, "MSFT", model.OrderTypeBuy, 2, 300.00, base)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 10, 175.50, base.Add(time.Minute))
	setPrice(t, db, "AAPL", 175.50)
	setPrice(t, db, "MSFT", 350.00)

	result, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Holdings, 2)

	assert.Equal(t, "AAPL", result.Holdings[0].Symbol)
	assert.Equal(t, "MSFT", result.Holdings[1].Symbol)

	assert.Equal(t, 2355.00, result.TotalInvested)
	assert.Equal(t, 2455.00, result.TotalCurrentValue)
	assert.Equal(t, 100.00, result.TotalProfitLoss)
}

func TestGetPortfolioIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 10, 175.50, base)
	insertTrade(t, db, "AAPL", model.OrderTypeSell, 3, 180.00, base.Add(time.Hour))

	first, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)

	second, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetPortfolioEmptyLedger(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	result, err := svc.GetPortfolio(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Holdings)
	assert.Equal(t, 0.00, result.TotalInvested)
	assert.Equal(t, 0.00, result.TotalCurrentValue)
	assert.Equal(t, 0.00, result.TotalProfitLoss)
}

func TestGetHolding(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insertTrade(t, db, "AAPL", model.OrderTypeBuy, 10, 175.50, base)

	holding, err := svc.GetHolding(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", holding.Symbol)
	assert.EqualValues(t, 10, holding.Quantity)
	assert.Equal(t, 175.50, holding.AveragePrice)
	assert.Equal(t, 1755.00, holding.TotalInvested)
	assert.Equal(t, 1755.00, holding.CurrentValue)
}

func TestGetHoldingNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	t.Run("no trades at all", func(t *testing.T) {
		_, err := svc.GetHolding(context.Background(), "AAPL")

		var notFound *errs.HoldingNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "AAPL", notFound.Symbol)
	})

	t.Run("position closed to zero", func(t *testing.T) {
		base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		insertTrade(t, db, "MSFT", model.OrderTypeBuy, 2, 380.75, base)
		insertTrade(t, db, "MSFT", model.OrderTypeSell, 2, 390.00, base.Add(time.Hour))

		_, err := svc.GetHolding(context.Background(), "MSFT")

		var notFound *errs.HoldingNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}
