package handler

import (
	"context"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"oddslens/src/connectors"
	"oddslens/src/controller"
	"oddslens/src/externalmodel"
	"oddslens/src/mapper"
	"oddslens/src/model"
	"oddslens/src/repository"
)

type historyAPI interface {
	History(ctx context.Context, wallet string) ([]externalmodel.RawHistoryEvent, error)
}

// HistoryResponse is the account activity log, newest upstream order kept.
type HistoryResponse struct {
	History []model.HistoryEvent `json:"history"`
}

// HistoryHandler serves GET /api/history?wallet=<address>. An upstream 404
// means a wallet with no activity yet, rendered as an empty list.
func HistoryHandler(api historyAPI, exceptions controller.ExceptionStore) http.HandlerFunc {
	const route = "history"

	return func(w http.ResponseWriter, r *http.Request) {
		wallet := r.URL.Query().Get("wallet")
		if wallet == "" {
			writeError(w, route, http.StatusBadRequest, "Missing wallet parameter")
			return
		}

		events, err := api.History(r.Context(), wallet)
		if err != nil {
			if connectors.IsNotFound(err) {
				writeJSON(w, route, http.StatusOK, HistoryResponse{History: []model.HistoryEvent{}})
				return
			}
			logger.WithError(err).WithField("wallet", wallet).Error("failed to fetch history")
			controller.Capture(r.Context(), exceptions, "handler", route, "error", err, map[string]interface{}{
				"wallet": wallet,
			})
			writeError(w, route, http.StatusInternalServerError,
				upstreamMessage(err, "Failed to fetch history"))
			return
		}

		writeJSON(w, route, http.StatusOK, HistoryResponse{History: mapper.MapHistoryToModel(events)})
	}
}

// DefaultHistoryHandler wires the handler to the production upstream client.
func DefaultHistoryHandler() http.HandlerFunc {
	return HistoryHandler(connectors.NewMarketClientFromEnv(), repository.NewExceptionRepository())
}
