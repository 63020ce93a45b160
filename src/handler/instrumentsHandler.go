package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/errs"
	"tradingplatform/src/model"
	"tradingplatform/src/repository"
)

type instrumentReader interface {
	FindAll(ctx context.Context, activeOnly bool) ([]model.Instrument, error)
	FindBySymbol(ctx context.Context, symbol string) (*model.Instrument, error)
}

// ListInstrumentsHandler returns the instrument catalog. By default only
// active instruments are listed; ?activeOnly=false includes delisted ones.
func ListInstrumentsHandler(repo instrumentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := true
		if param := r.URL.Query().Get("activeOnly"); param != "" {
			activeOnly = strings.EqualFold(param, "true")
		}

		instruments, err := repo.FindAll(r.Context(), activeOnly)
		if err != nil {
			logger.WithError(err).Error("failed to list instruments")
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"instruments": instruments,
			"count":       len(instruments),
		})
	}
}

// GetInstrumentHandler returns a single active instrument by symbol.
func GetInstrumentHandler(repo instrumentReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

		instrument, err := repo.FindBySymbol(r.Context(), symbol)
		if err != nil {
			logger.WithError(err).Error("failed to fetch instrument")
			writeDomainError(w, err)
			return
		}
		if instrument == nil {
			writeDomainError(w, &errs.InstrumentNotFoundError{Symbol: symbol})
			return
		}

		writeJSON(w, http.StatusOK, instrument)
	}
}

// DefaultListInstrumentsHandler wires the handler to the production repository.
func DefaultListInstrumentsHandler() http.HandlerFunc {
	return ListInstrumentsHandler(repository.NewInstrumentRepository())
}

// DefaultGetInstrumentHandler wires the handler to the production repository.
func DefaultGetInstrumentHandler() http.HandlerFunc {
	return GetInstrumentHandler(repository.NewInstrumentRepository())
}
