package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradingplatform/src/errs"
	"tradingplatform/src/model"
	"tradingplatform/src/repository"
)

// TradePublisher receives every executed trade after the submit transaction
// has committed. Wired to the websocket feed in the server.
type TradePublisher interface {
	Publish(trade model.Trade)
}

// ExecutionEngine decides, at submission time, whether and at what price an
// order fills, and persists the outcome atomically.
//
// Execution rules (deliberate simplification, no order book):
//   - MARKET orders fill at the instrument's current last traded price.
//   - LIMIT orders fill immediately at the submitted limit price, even when
//     that price is worse than the reference price.
//
// Every fill moves the instrument's last traded price to the execution price.
type ExecutionEngine struct {
	db          *gorm.DB
	autoExecute bool
	publisher   TradePublisher
}

// New creates an engine bound to the given database handle.
func New(db *gorm.DB) *ExecutionEngine {
	config := GetConfig()
	return &ExecutionEngine{
		db:          db,
		autoExecute: config.AutoExecute,
	}
}

// WithAutoExecute overrides the config-driven execution mode.
func (e *ExecutionEngine) WithAutoExecute(on bool) *ExecutionEngine {
	out := *e
	out.autoExecute = on
	return &out
}

// WithPublisher attaches a post-commit trade publisher.
func (e *ExecutionEngine) WithPublisher(p TradePublisher) *ExecutionEngine {
	out := *e
	out.publisher = p
	return &out
}

// SubmitRequest is a validated order placement.
type SubmitRequest struct {
	Symbol     string
	OrderType  string
	OrderStyle string
	Quantity   int64
	LimitPrice *float64
}

// SubmitResult bundles the persisted order with the trade created for it,
// if the order executed.
type SubmitResult struct {
	Order model.Order
	Trade *model.Trade
}

func validate(req *SubmitRequest) error {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return errs.NewValidation("symbol is required")
	}
	if req.OrderType != model.OrderTypeBuy && req.OrderType != model.OrderTypeSell {
		return errs.NewValidation("orderType must be BUY or SELL, got %q", req.OrderType)
	}
	if req.OrderStyle != model.OrderStyleMarket && req.OrderStyle != model.OrderStyleLimit {
		return errs.NewValidation("orderStyle must be MARKET or LIMIT, got %q", req.OrderStyle)
	}
	if req.Quantity <= 0 {
		return errs.NewValidation("quantity must be greater than 0")
	}
	if req.OrderStyle == model.OrderStyleLimit {
		if req.LimitPrice == nil || *req.LimitPrice <= 0 {
			return errs.NewValidation("LIMIT orders must have a positive limitPrice")
		}
	} else {
		// MARKET orders ignore any submitted price.
		req.LimitPrice = nil
	}
	return nil
}

// Submit validates the request, resolves the instrument and atomically
// persists the order plus, when executing, the trade and the instrument
// price update. All three writes succeed or none do.
func (e *ExecutionEngine) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	instrument, err := repository.NewInstrumentRepository().WithDB(e.db).FindBySymbol(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		return nil, &errs.InstrumentNotFoundError{Symbol: req.Symbol}
	}

	order := model.Order{
		Reference:  uuid.NewString(),
		Symbol:     instrument.Symbol,
		OrderType:  req.OrderType,
		OrderStyle: req.OrderStyle,
		Quantity:   req.Quantity,
		LimitPrice: req.LimitPrice,
		Status:     model.OrderStatusPending,
	}

	var trade *model.Trade

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repository.NewOrderRepository().WithDB(tx)

		if err := orders.Create(ctx, &order); err != nil {
			return err
		}

		if !e.autoExecute {
			return nil
		}

		executionPrice := instrument.LastTradedPrice
		if order.OrderStyle == model.OrderStyleLimit {
			executionPrice = *order.LimitPrice
		}

		price := decimal.NewFromFloat(executionPrice).Round(2)
		totalValue := price.Mul(decimal.NewFromInt(order.Quantity)).Round(2)
		executedAt := time.Now().UTC()

		if err := orders.UpdateStatus(ctx, order.ID, model.OrderStatusExecuted); err != nil {
			return err
		}
		order.Status = model.OrderStatusExecuted
		order.ExecutedAt = &executedAt
		order.UpdatedAt = executedAt

		trade = &model.Trade{
			OrderID:       order.ID,
			Symbol:        order.Symbol,
			TradeType:     order.OrderType,
			Quantity:      order.Quantity,
			ExecutedPrice: price.InexactFloat64(),
			TotalValue:    totalValue.InexactFloat64(),
			ExecutedAt:    executedAt,
		}
		if err := repository.NewTradeRepository().WithDB(tx).Create(ctx, trade); err != nil {
			return err
		}

		// Applied for both sides to keep the instrument consistent with
		// the latest fill.
		return repository.NewInstrumentRepository().WithDB(tx).
			UpdateLastTradedPrice(ctx, order.Symbol, price.InexactFloat64())
	})
	if err != nil {
		trade = nil
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"engine":   "ExecutionEngine",
		"op":       "Submit",
		"order_id": order.ID,
		"symbol":   order.Symbol,
		"status":   order.Status,
	}).Info("Order submitted")

	if trade != nil && e.publisher != nil {
		e.publisher.Publish(*trade)
	}

	return &SubmitResult{Order: order, Trade: trade}, nil
}

// Cancel transitions a PENDING order to CANCELLED. Terminal orders
// (EXECUTED, CANCELLED, REJECTED) cannot transition. The status check and
// the update run in one transaction so a concurrent fill cannot slip in
// between them.
func (e *ExecutionEngine) Cancel(ctx context.Context, orderID uint) (*model.Order, error) {
	var order *model.Order

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repository.NewOrderRepository().WithDB(tx)

		var err error
		order, err = orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return &errs.OrderNotFoundError{OrderID: orderID}
		}

		if order.Status != model.OrderStatusPending {
			return &errs.InvalidStateError{OrderID: orderID, Status: order.Status}
		}

		return orders.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()

	logger.WithFields(map[string]interface{}{
		"engine":   "ExecutionEngine",
		"op":       "Cancel",
		"order_id": order.ID,
	}).Info("Order cancelled")

	return order, nil
}
