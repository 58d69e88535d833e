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

	"oddslens/src/cache"
	"oddslens/src/handler"
	"oddslens/src/metrics"
)

func StartServer(port string, store *cache.Client, hub *handler.Hub) {
	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	r.Handle("/metrics", metrics.Handler())

	// Proxy routes in front of the prediction-market API
	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", handler.DefaultPortfolioHandler(store))
		r.Get("/history", handler.DefaultHistoryHandler())
		r.Get("/pnl-chart", handler.DefaultPnlChartHandler(store))
		r.Post("/claim", handler.DefaultClaimHandler(store))
		r.Post("/close-position", handler.DefaultClosePositionHandler(store))
	})

	// Operator routes backed by the audit tables
	r.Route("/admin", func(r chi.Router) {
		r.Get("/exceptions", handler.DefaultExceptionsHandler())
		r.Get("/transactions", handler.DefaultTransactionsHandler())
	})

	if hub != nil {
		r.Get("/ws/portfolio", hub.HandleWS)
	}

	// Graceful server
	// Server setup
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
