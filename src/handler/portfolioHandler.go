package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/database"
	"tradingplatform/src/model"
	"tradingplatform/src/portfolio"
)

type portfolioReader interface {
	GetPortfolio(ctx context.Context) (*model.Portfolio, error)
	GetHolding(ctx context.Context, symbol string) (*model.Holding, error)
}

// GetPortfolioHandler returns all open holdings with aggregate totals.
func GetPortfolioHandler(svc portfolioReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.GetPortfolio(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to compute portfolio")
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"holdings":          result.Holdings,
			"totalInvested":     result.TotalInvested,
			"totalCurrentValue": result.TotalCurrentValue,
			"totalProfitLoss":   result.TotalProfitLoss,
			"count":             len(result.Holdings),
		})
	}
}

// GetHoldingHandler returns the open position for one symbol.
func GetHoldingHandler(svc portfolioReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holding, err := svc.GetHolding(r.Context(), chi.URLParam(r, "symbol"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, holding)
	}
}

// DefaultGetPortfolioHandler wires the handler to the production service.
func DefaultGetPortfolioHandler() http.HandlerFunc {
	return GetPortfolioHandler(portfolio.New(database.MainDB))
}

// DefaultGetHoldingHandler wires the handler to the production service.
func DefaultGetHoldingHandler() http.HandlerFunc {
	return GetHoldingHandler(portfolio.New(database.MainDB))
}
