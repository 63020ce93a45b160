package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradingplatform/src/database"
	"tradingplatform/src/engine"
	"tradingplatform/src/feed"
	"tradingplatform/src/handler"
)

// NewRouter wires the full API surface. Exposed separately from StartServer
// so tests can mount the router on httptest servers.
func NewRouter() chi.Router {
	hub := feed.NewHub()
	eng := engine.New(database.MainDB).WithPublisher(hub)

	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck error")
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/instruments", handler.DefaultListInstrumentsHandler())
		r.Get("/instruments/{symbol}", handler.DefaultGetInstrumentHandler())

		r.Post("/orders", handler.PlaceOrderHandler(eng))
		r.Get("/orders", handler.DefaultListOrdersHandler())
		r.Get("/orders/{id}", handler.DefaultGetOrderHandler())
		r.Post("/orders/{id}/cancel", handler.CancelOrderHandler(eng))

		r.Get("/trades", handler.DefaultListTradesHandler())

		r.Get("/portfolio", handler.DefaultGetPortfolioHandler())
		r.Get("/portfolio/{symbol}", handler.DefaultGetHoldingHandler())
	})

	r.Get("/ws/trades", hub.ServeHTTP)

	return r
}

func StartServer(port string) {
	r := NewRouter()

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
