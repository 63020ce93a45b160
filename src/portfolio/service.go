// Package portfolio derives holdings and profit/loss from the trade ledger.
// Nothing here is persisted: every request folds the ledger again, so the
// figures can never drift from the trades that produced them.
package portfolio

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradingplatform/src/errs"
	"tradingplatform/src/model"
	"tradingplatform/src/repository"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// position is the running state of one symbol while folding the ledger.
type position struct {
	quantity      int64
	totalInvested decimal.Decimal
	averagePrice  decimal.Decimal
}

// apply folds one trade into the position using the weighted-average-cost
// convention: a SELL reduces totalInvested by soldQuantity * averagePrice
// and does not realize a separate P/L bucket.
func (p *position) apply(trade model.Trade) {
	qty := decimal.NewFromInt(trade.Quantity)

	switch trade.TradeType {
	case model.OrderTypeBuy:
		p.totalInvested = p.totalInvested.Add(decimal.NewFromFloat(trade.ExecutedPrice).Mul(qty))
		p.quantity += trade.Quantity
		if p.quantity > 0 {
			p.averagePrice = p.totalInvested.Div(decimal.NewFromInt(p.quantity))
		}
	case model.OrderTypeSell:
		p.totalInvested = p.totalInvested.Sub(p.averagePrice.Mul(qty))
		p.quantity -= trade.Quantity
		if p.quantity <= 0 {
			// Closed (or over-sold) position. No short positions are
			// modeled; the symbol drops out of the portfolio.
			p.totalInvested = decimal.Zero
			p.averagePrice = decimal.Zero
		}
	}
}

func (p *position) toHolding(symbol string, lastTradedPrice float64) model.Holding {
	currentValue := decimal.NewFromFloat(lastTradedPrice).
		Mul(decimal.NewFromInt(p.quantity)).Round(2)
	invested := p.totalInvested.Round(2)
	profitLoss := currentValue.Sub(invested)

	pct := decimal.Zero
	if invested.IsPositive() {
		pct = profitLoss.Div(invested).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return model.Holding{
		Symbol:               symbol,
		Quantity:             p.quantity,
		AveragePrice:         p.averagePrice.Round(2).InexactFloat64(),
		TotalInvested:        invested.InexactFloat64(),
		CurrentValue:         currentValue.InexactFloat64(),
		ProfitLoss:           profitLoss.InexactFloat64(),
		ProfitLossPercentage: pct.InexactFloat64(),
	}
}

func (s *Service) foldTrades(trades []model.Trade) map[string]*position {
	positions := make(map[string]*position)
	for _, trade := range trades {
		pos, ok := positions[trade.Symbol]
		if !ok {
			pos = &position{totalInvested: decimal.Zero, averagePrice: decimal.Zero}
			positions[trade.Symbol] = pos
		}
		pos.apply(trade)
	}
	return positions
}

// GetPortfolio recomputes all open holdings and aggregate totals from the
// trade ledger and current instrument prices.
func (s *Service) GetPortfolio(ctx context.Context) (*model.Portfolio, error) {
	trades, err := repository.NewTradeRepository().WithDB(s.db).FindAll(ctx, "")
	if err != nil {
		return nil, err
	}

	instruments, err := repository.NewInstrumentRepository().WithDB(s.db).FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(instruments))
	for _, instrument := range instruments {
		prices[instrument.Symbol] = instrument.LastTradedPrice
	}

	positions := s.foldTrades(trades)

	symbols := make([]string, 0, len(positions))
	for symbol, pos := range positions {
		if pos.quantity > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	out := &model.Portfolio{Holdings: make([]model.Holding, 0, len(symbols))}
	totalInvested := decimal.Zero
	totalCurrent := decimal.Zero

	for _, symbol := range symbols {
		holding := positions[symbol].toHolding(symbol, prices[symbol])
		out.Holdings = append(out.Holdings, holding)
		totalInvested = totalInvested.Add(decimal.NewFromFloat(holding.TotalInvested))
		totalCurrent = totalCurrent.Add(decimal.NewFromFloat(holding.CurrentValue))
	}

	out.TotalInvested = totalInvested.Round(2).InexactFloat64()
	out.TotalCurrentValue = totalCurrent.Round(2).InexactFloat64()
	out.TotalProfitLoss = totalCurrent.Sub(totalInvested).Round(2).InexactFloat64()

	logger.WithFields(map[string]interface{}{
		"service":  "PortfolioService",
		"op":       "GetPortfolio",
		"holdings": len(out.Holdings),
	}).Debug("Portfolio computed")

	return out, nil
}

// GetHolding runs the same computation scoped to one symbol.
func (s *Service) GetHolding(ctx context.Context, symbol string) (*model.Holding, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	trades, err := repository.NewTradeRepository().WithDB(s.db).FindAll(ctx, symbol)
	if err != nil {
		return nil, err
	}

	positions := s.foldTrades(trades)
	pos, ok := positions[symbol]
	if !ok || pos.quantity <= 0 {
		return nil, &errs.HoldingNotFoundError{Symbol: symbol}
	}

	var lastTradedPrice float64
	instrument, err := repository.NewInstrumentRepository().WithDB(s.db).FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if instrument != nil {
		lastTradedPrice = instrument.LastTradedPrice
	}

	holding := pos.toHolding(symbol, lastTradedPrice)
	return &holding, nil
}
