package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/database"
	"tradingplatform/src/engine"
	"tradingplatform/src/errs"
	"tradingplatform/src/model"
	"tradingplatform/src/repository"
)

type orderSubmitter interface {
	Submit(ctx context.Context, req engine.SubmitRequest) (*engine.SubmitResult, error)
}

type orderCanceller interface {
	Cancel(ctx context.Context, orderID uint) (*model.Order, error)
}

type orderReader interface {
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindAll(ctx context.Context, status string) ([]model.Order, error)
}

// placeOrderRequest is the strict input struct for order placement.
// Unknown fields in the body are ignored.
type placeOrderRequest struct {
	Symbol     string   `json:"symbol"`
	OrderType  string   `json:"orderType"`
	OrderStyle string   `json:"orderStyle"`
	Quantity   int64    `json:"quantity"`
	LimitPrice *float64 `json:"limitPrice"`
}

// PlaceOrderHandler submits a new order through the execution engine.
func PlaceOrderHandler(eng orderSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}

		result, err := eng.Submit(r.Context(), engine.SubmitRequest{
			Symbol:     req.Symbol,
			OrderType:  strings.ToUpper(req.OrderType),
			OrderStyle: strings.ToUpper(req.OrderStyle),
			Quantity:   req.Quantity,
			LimitPrice: req.LimitPrice,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		response := map[string]interface{}{
			"order":   result.Order,
			"message": "Order placed successfully",
		}
		if result.Trade != nil {
			response["trade"] = result.Trade
			response["message"] = "Order placed and executed successfully"
		}

		writeJSON(w, http.StatusCreated, response)
	}
}

// GetOrderHandler returns one order by id.
func GetOrderHandler(repo orderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid order id")
			return
		}

		order, err := repo.FindByID(r.Context(), uint(id))
		if err != nil {
			logger.WithError(err).Error("failed to fetch order")
			writeDomainError(w, err)
			return
		}
		if order == nil {
			writeDomainError(w, &errs.OrderNotFoundError{OrderID: uint(id)})
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

// ListOrdersHandler lists orders newest first, optionally filtered by status.
func ListOrdersHandler(repo orderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.ToUpper(r.URL.Query().Get("status"))
		switch status {
		case "", model.OrderStatusPending, model.OrderStatusExecuted,
			model.OrderStatusCancelled, model.OrderStatusRejected:
		default:
			writeBadRequest(w, "invalid status filter: "+status)
			return
		}

		orders, err := repo.FindAll(r.Context(), status)
		if err != nil {
			logger.WithError(err).Error("failed to list orders")
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"orders": orders,
			"count":  len(orders),
		})
	}
}

// CancelOrderHandler cancels a PENDING order.
func CancelOrderHandler(eng orderCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid order id")
			return
		}

		order, err := eng.Cancel(r.Context(), uint(id))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"order":   order,
			"message": "Order cancelled successfully",
		})
	}
}

// DefaultPlaceOrderHandler wires the handler to the production engine.
func DefaultPlaceOrderHandler() http.HandlerFunc {
	return PlaceOrderHandler(engine.New(database.MainDB))
}

// DefaultGetOrderHandler wires the handler to the production repository.
func DefaultGetOrderHandler() http.HandlerFunc {
	return GetOrderHandler(repository.NewOrderRepository())
}

// DefaultListOrdersHandler wires the handler to the production repository.
func DefaultListOrdersHandler() http.HandlerFunc {
	return ListOrdersHandler(repository.NewOrderRepository())
}

// DefaultCancelOrderHandler wires the handler to the production engine.
func DefaultCancelOrderHandler() http.HandlerFunc {
	return CancelOrderHandler(engine.New(database.MainDB))
}
