package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/errs"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func errorBody(status int, message string, extra map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody(http.StatusBadRequest, message, nil))
}

// writeDomainError maps the domain error kinds onto HTTP statuses with the
// offending symbol/id echoed back in the body. Anything unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr   *errs.ValidationError
		instrumentErr   *errs.InstrumentNotFoundError
		orderErr        *errs.OrderNotFoundError
		holdingErr      *errs.HoldingNotFoundError
		invalidStateErr *errs.InvalidStateError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest,
			errorBody(http.StatusBadRequest, validationErr.Error(), nil))
	case errors.As(err, &instrumentErr):
		writeJSON(w, http.StatusNotFound,
			errorBody(http.StatusNotFound, instrumentErr.Error(),
				map[string]interface{}{"symbol": instrumentErr.Symbol}))
	case errors.As(err, &orderErr):
		writeJSON(w, http.StatusNotFound,
			errorBody(http.StatusNotFound, orderErr.Error(),
				map[string]interface{}{"orderId": orderErr.OrderID}))
	case errors.As(err, &holdingErr):
		writeJSON(w, http.StatusNotFound,
			errorBody(http.StatusNotFound, holdingErr.Error(),
				map[string]interface{}{"symbol": holdingErr.Symbol}))
	case errors.As(err, &invalidStateErr):
		writeJSON(w, http.StatusBadRequest,
			errorBody(http.StatusBadRequest, invalidStateErr.Error(),
				map[string]interface{}{"orderId": invalidStateErr.OrderID}))
	default:
		logger.WithError(err).Error("unhandled error in handler")
		writeJSON(w, http.StatusInternalServerError,
			errorBody(http.StatusInternalServerError, "Internal server error", nil))
	}
}
