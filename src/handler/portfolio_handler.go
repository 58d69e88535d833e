package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

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

type portfolioAPI interface {
	Positions(ctx context.Context, wallet string) ([]externalmodel.RawPosition, error)
	Profile(ctx context.Context, wallet string) (*externalmodel.RawProfile, error)
}

// PortfolioResponse bundles a wallet's positions with its aggregate profile.
type PortfolioResponse struct {
	Positions []model.Position `json:"positions"`
	Profile   model.Profile    `json:"profile"`
}

// upstreamMessage extracts the upstream API's error message when one exists,
// falling back to a generic string that leaks nothing internal.
func upstreamMessage(err error, fallback string) string {
	var apiErr *connectors.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// PortfolioHandler serves GET /api/portfolio?wallet=<address>. Positions and
// profile are fetched in parallel; a profile failure of any kind (including a
// 404 for a brand-new wallet) substitutes the zero-value default profile,
// while a positions failure is fatal.
func PortfolioHandler(api portfolioAPI, store *cache.Client, exceptions controller.ExceptionStore) http.HandlerFunc {
	const route = "portfolio"
	const cacheControl = "private, max-age=10, stale-while-revalidate=5"

	return func(w http.ResponseWriter, r *http.Request) {
		wallet := r.URL.Query().Get("wallet")
		if wallet == "" {
			writeError(w, route, http.StatusBadRequest, "Missing wallet parameter")
			return
		}

		if body, ok := store.GetResponse(r.Context(), route, wallet, ""); ok {
			metrics.CacheLookupsTotal.WithLabelValues(route, "hit").Inc()
			w.Header().Set("Cache-Control", cacheControl)
			writeCached(w, route, body)
			return
		}
		metrics.CacheLookupsTotal.WithLabelValues(route, "miss").Inc()

		var (
			wg           sync.WaitGroup
			rawPositions []externalmodel.RawPosition
			positionsErr error
			rawProfile   *externalmodel.RawProfile
			profileErr   error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			rawPositions, positionsErr = api.Positions(r.Context(), wallet)
		}()
		go func() {
			defer wg.Done()
			rawProfile, profileErr = api.Profile(r.Context(), wallet)
		}()
		wg.Wait()

		if positionsErr != nil {
			logger.WithError(positionsErr).WithField("wallet", wallet).Error("failed to fetch positions")
			controller.Capture(r.Context(), exceptions, "handler", route, "error", positionsErr, map[string]interface{}{
				"wallet": wallet,
			})
			writeError(w, route, http.StatusInternalServerError,
				upstreamMessage(positionsErr, "Failed to fetch portfolio"))
			return
		}

		profile := model.DefaultProfile()
		if profileErr != nil {
			if !connectors.IsNotFound(profileErr) {
				logger.WithError(profileErr).WithField("wallet", wallet).Warn("profile fetch failed, using default")
			}
		} else if rawProfile != nil {
			profile = mapper.MapProfileToModel(*rawProfile)
		}

		response := PortfolioResponse{
			Positions: mapper.MapPositionsToModel(rawPositions),
			Profile:   profile,
		}

		body, err := json.Marshal(response)
		if err != nil {
			logger.WithError(err).Error("failed to encode portfolio response")
			writeError(w, route, http.StatusInternalServerError, "Failed to fetch portfolio")
			return
		}

		store.SetResponse(r.Context(), route, wallet, "", body, cache.PortfolioTTL)
		w.Header().Set("Cache-Control", cacheControl)
		writeCached(w, route, body)
	}
}

// DefaultPortfolioHandler wires the handler to the production upstream client.
func DefaultPortfolioHandler(store *cache.Client) http.HandlerFunc {
	return PortfolioHandler(connectors.NewMarketClientFromEnv(), store, repository.NewExceptionRepository())
}
