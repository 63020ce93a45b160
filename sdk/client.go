// Package sdk is a convenience Go client for the trading platform REST API.
//
// Usage:
//
//	client := sdk.NewClient("http://localhost:9898")
//	order, err := client.BuyMarket(ctx, "AAPL", 10)
//	pf, err := client.Portfolio(ctx)
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"tradingplatform/src/model"
)

const apiPrefix = "/api/v1"

// APIError carries the server-side error envelope back to the caller.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to one trading platform instance.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the given base URL, e.g. "http://localhost:9898".
func NewClient(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/") + apiPrefix).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func decode(resp *resty.Response, out interface{}) error {
	if resp.IsError() {
		var body errorBody
		message := "unknown error"
		if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
			message = body.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decode(resp, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decode(resp, out)
}

// ---------------------------------------------------
// Instruments
// ---------------------------------------------------

type instrumentsResponse struct {
	Instruments []model.Instrument `json:"instruments"`
	Count       int                `json:"count"`
}

// Instruments lists the tradable catalog.
func (c *Client) Instruments(ctx context.Context, activeOnly bool) ([]model.Instrument, error) {
	var out instrumentsResponse
	query := map[string]string{"activeOnly": strconv.FormatBool(activeOnly)}
	if err := c.get(ctx, "/instruments", query, &out); err != nil {
		return nil, err
	}
	return out.Instruments, nil
}

// Instrument fetches one instrument by symbol.
func (c *Client) Instrument(ctx context.Context, symbol string) (*model.Instrument, error) {
	var out model.Instrument
	if err := c.get(ctx, "/instruments/"+strings.ToUpper(symbol), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------
// Orders
// ---------------------------------------------------

// OrderRequest mirrors the placement body.
type OrderRequest struct {
	Symbol     string   `json:"symbol"`
	OrderType  string   `json:"orderType"`
	OrderStyle string   `json:"orderStyle"`
	Quantity   int64    `json:"quantity"`
	LimitPrice *float64 `json:"limitPrice,omitempty"`
}

// OrderResult is the placement response: the order plus, when it executed
// immediately, the resulting trade.
type OrderResult struct {
	Order   model.Order  `json:"order"`
	Trade   *model.Trade `json:"trade,omitempty"`
	Message string       `json:"message"`
}

// PlaceOrder submits an order.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	var out OrderResult
	if err := c.post(ctx, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuyMarket places a MARKET BUY order.
func (c *Client) BuyMarket(ctx context.Context, symbol string, quantity int64) (*OrderResult, error) {
	return c.PlaceOrder(ctx, OrderRequest{
		Symbol:     symbol,
		OrderType:  model.OrderTypeBuy,
		OrderStyle: model.OrderStyleMarket,
		Quantity:   quantity,
	})
}

// SellMarket places a MARKET SELL order.
func (c *Client) SellMarket(ctx context.Context, symbol string, quantity int64) (*OrderResult, error) {
	return c.PlaceOrder(ctx, OrderRequest{
		Symbol:     symbol,
		OrderType:  model.OrderTypeSell,
		OrderStyle: model.OrderStyleMarket,
		Quantity:   quantity,
	})
}

// BuyLimit places a LIMIT BUY order at the given price.
func (c *Client) BuyLimit(ctx context.Context, symbol string, quantity int64, price float64) (*OrderResult, error) {
	return c.PlaceOrder(ctx, OrderRequest{
		Symbol:     symbol,
		OrderType:  model.OrderTypeBuy,
		OrderStyle: model.OrderStyleLimit,
		Quantity:   quantity,
		LimitPrice: &price,
	})
}

// SellLimit places a LIMIT SELL order at the given price.
func (c *Client) SellLimit(ctx context.Context, symbol string, quantity int64, price float64) (*OrderResult, error) {
	return c.PlaceOrder(ctx, OrderRequest{
		Symbol:     symbol,
		OrderType:  model.OrderTypeSell,
		OrderStyle: model.OrderStyleLimit,
		Quantity:   quantity,
		LimitPrice: &price,
	})
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
	Count  int           `json:"count"`
}

// Order fetches one order by id.
func (c *Client) Order(ctx context.Context, id uint) (*model.Order, error) {
	var out model.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists orders, optionally filtered by status.
func (c *Client) Orders(ctx context.Context, status string) ([]model.Order, error) {
	query := map[string]string{}
	if status != "" {
		query["status"] = status
	}
	var out ordersResponse
	if err := c.get(ctx, "/orders", query, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// CancelOrder cancels a PENDING order.
func (c *Client) CancelOrder(ctx context.Context, id uint) (*model.Order, error) {
	var out OrderResult
	if err := c.post(ctx, fmt.Sprintf("/orders/%d/cancel", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// ---------------------------------------------------
// Trades / portfolio
// ---------------------------------------------------

type tradesResponse struct {
	Trades []model.Trade `json:"trades"`
	Count  int           `json:"count"`
}

// Trades lists executed trades, optionally filtered by symbol.
func (c *Client) Trades(ctx context.Context, symbol string) ([]model.Trade, error) {
	query := map[string]string{}
	if symbol != "" {
		query["symbol"] = symbol
	}
	var out tradesResponse
	if err := c.get(ctx, "/trades", query, &out); err != nil {
		return nil, err
	}
	return out.Trades, nil
}

// PortfolioResponse is the full portfolio envelope.
type PortfolioResponse struct {
	Holdings          []model.Holding `json:"holdings"`
	TotalInvested     float64         `json:"totalInvested"`
	TotalCurrentValue float64         `json:"totalCurrentValue"`
	TotalProfitLoss   float64         `json:"totalProfitLoss"`
	Count             int             `json:"count"`
}

// Portfolio fetches all open holdings with totals.
func (c *Client) Portfolio(ctx context.Context) (*PortfolioResponse, error) {
	var out PortfolioResponse
	if err := c.get(ctx, "/portfolio", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Holding fetches the open position for one symbol.
func (c *Client) Holding(ctx context.Context, symbol string) (*model.Holding, error) {
	var out model.Holding
	if err := c.get(ctx, "/portfolio/"+strings.ToUpper(symbol), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
