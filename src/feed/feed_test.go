package feed

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradingplatform/src/model"
)

func TestHubBroadcastsTrades(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the handler a moment to register the subscriber.
	time.Sleep(50 * time.Millisecond)

	trade := model.Trade{
		ID:            1,
		OrderID:       1,
		Symbol:        "AAPL",
		TradeType:     "BUY",
		Quantity:      10,
		ExecutedPrice: 175.50,
		TotalValue:    1755.00,
		ExecutedAt:    time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	hub.Publish(trade)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var got model.Trade
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, 175.50, got.ExecutedPrice)
	assert.EqualValues(t, 10, got.Quantity)
}

// Fills happen on request goroutines, so Publish gets called concurrently.
// All writes to one connection must be serialized.
func TestHubPublishIsSafeForConcurrentCallers(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	const publishers = 8
	const perPublisher = 50

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				hub.Publish(model.Trade{ID: 1, Symbol: "AAPL", TradeType: "BUY", Quantity: 10})
			}
		}()
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < publishers*perPublisher; i++ {
		var got model.Trade
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "AAPL", got.Symbol)
	}
	wg.Wait()
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, conn.Close())
	time.Sleep(50 * time.Millisecond)

	// Publishing to a gone subscriber must not panic or block.
	hub.Publish(model.Trade{ID: 2, Symbol: "MSFT"})

	hub.mu.Lock()
	subscribers := len(hub.conns)
	hub.mu.Unlock()
	assert.Zero(t, subscribers)
}
