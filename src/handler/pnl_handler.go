package handler

import (
	"context"
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"oddslens/src/cache"
	"oddslens/src/connectors"
	"oddslens/src/controller"
	"oddslens/src/externalmodel"
	"oddslens/src/mapper"
	"oddslens/src/metrics"
	"oddslens/src/model"
	"oddslens/src/repository"
)

// pnlSampleCount caps the series length requested upstream.
const pnlSampleCount = 100

var validIntervals = map[string]bool{
	"24h": true,
	"1w":  true,
	"1m":  true,
}

type pnlAPI interface {
	PnlHistory(ctx context.Context, wallet, interval string, count int) ([]externalmodel.RawPnlPoint, error)
}

// PnlChartResponse is the realized-PnL time series, ordered oldest first.
type PnlChartResponse struct {
	History []model.PnlPoint `json:"history"`
}

// PnlChartHandler serves GET /api/pnl-chart?wallet=<address>&interval=<i>.
// The interval is validated before any upstream call; a 404 renders as an
// empty series.
func PnlChartHandler(api pnlAPI, store *cache.Client, exceptions controller.ExceptionStore) http.HandlerFunc {
	const route = "pnl-chart"
	const cacheControl = "private, max-age=30, stale-while-revalidate=15"

	return func(w http.ResponseWriter, r *http.Request) {
		wallet := r.URL.Query().Get("wallet")
		if wallet == "" {
			writeError(w, route, http.StatusBadRequest, "Missing wallet parameter")
			return
		}

		interval := r.URL.Query().Get("interval")
		if !validIntervals[interval] {
			writeError(w, route, http.StatusBadRequest, "Invalid interval. Use: 24h, 1w, 1m")
			return
		}

		if body, ok := store.GetResponse(r.Context(), route, wallet, interval); ok {
			metrics.CacheLookupsTotal.WithLabelValues(route, "hit").Inc()
			w.Header().Set("Cache-Control", cacheControl)
			writeCached(w, route, body)
			return
		}
		metrics.CacheLookupsTotal.WithLabelValues(route, "miss").Inc()

		points, err := api.PnlHistory(r.Context(), wallet, interval, pnlSampleCount)
		if err != nil {
			if connectors.IsNotFound(err) {
				writeJSON(w, route, http.StatusOK, PnlChartResponse{History: []model.PnlPoint{}})
				return
			}
			logger.WithError(err).WithField("wallet", wallet).Error("failed to fetch pnl history")
			controller.Capture(r.Context(), exceptions, "handler", route, "error", err, map[string]interface{}{
				"wallet":   wallet,
				"interval": interval,
			})
			writeError(w, route, http.StatusInternalServerError,
				upstreamMessage(err, "Failed to fetch pnl history"))
			return
		}

		response := PnlChartResponse{History: mapper.MapPnlPointsToModel(points)}
		body, err := json.Marshal(response)
		if err != nil {
			logger.WithError(err).Error("failed to encode pnl response")
			writeError(w, route, http.StatusInternalServerError, "Failed to fetch pnl history")
			return
		}

		store.SetResponse(r.Context(), route, wallet, interval, body, cache.PnlTTL)
		w.Header().Set("Cache-Control", cacheControl)
		writeCached(w, route, body)
	}
}

// DefaultPnlChartHandler wires the handler to the production upstream client.
func DefaultPnlChartHandler(store *cache.Client) http.HandlerFunc {
	return PnlChartHandler(connectors.NewMarketClientFromEnv(), store, repository.NewExceptionRepository())
}
