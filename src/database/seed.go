package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradingplatform/src/model"
)

func seedInstruments() []model.Instrument {
	return []model.Instrument{
		{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 175.50, IsActive: true},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 140.25, IsActive: true},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 380.75, IsActive: true},
		{Symbol: "TSLA", Name: "Tesla, Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 245.30, IsActive: true},
		{Symbol: "AMZN", Name: "Amazon.com, Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 155.80, IsActive: true},
		{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 495.20, IsActive: true},
		{Symbol: "META", Name: "Meta Platforms, Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 350.00, IsActive: true},
		{Symbol: "NFLX", Name: "Netflix, Inc.", Exchange: "NASDAQ", InstrumentType: model.InstrumentTypeEquity, LastTradedPrice: 485.50, IsActive: true},
	}
}

// SeedInstruments loads the sample instrument catalog. It is idempotent:
// an already-populated instruments table is left untouched.
func SeedInstruments(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Instrument{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count instruments: %w", err)
	}
	if count > 0 {
		logrus.WithField("count", count).Debug("[database] instruments already seeded, skipping")
		return nil
	}

	instruments := seedInstruments()
	if err := db.Create(&instruments).Error; err != nil {
		return fmt.Errorf("failed to seed instruments: %w", err)
	}

	logrus.WithField("count", len(instruments)).Info("[database] instrument catalog seeded")
	return nil
}
