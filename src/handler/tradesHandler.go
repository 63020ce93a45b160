package handler

import (
	"context"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/model"
	"tradingplatform/src/repository"
)

type tradeReader interface {
	FindAll(ctx context.Context, symbol string) ([]model.Trade, error)
}

// ListTradesHandler lists the trade ledger in execution order, optionally
// filtered by symbol.
func ListTradesHandler(repo tradeReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")

		trades, err := repo.FindAll(r.Context(), symbol)
		if err != nil {
			logger.WithError(err).Error("failed to list trades")
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"trades": trades,
			"count":  len(trades),
		})
	}
}

// DefaultListTradesHandler wires the handler to the production repository.
func DefaultListTradesHandler() http.HandlerFunc {
	return ListTradesHandler(repository.NewTradeRepository())
}
