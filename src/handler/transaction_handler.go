package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"oddslens/src/cache"
	"oddslens/src/connectors"
	"oddslens/src/controller"
	"oddslens/src/metrics"
	"oddslens/src/model"
	"oddslens/src/repository"
)

type transactionBuilder interface {
	BuildClaimTransaction(ctx context.Context, positionPubkey, ownerPubkey string) (string, error)
	BuildCloseTransaction(ctx context.Context, positionPubkey, ownerPubkey string) (string, error)
}

type transactionRecorder interface {
	Create(ctx context.Context, record *model.TransactionRecord) error
}

type transactionRequest struct {
	PositionPubkey string `json:"positionPubkey"`
	WalletPubkey   string `json:"walletPubkey"`
}

// TransactionResponse carries the base64-encoded unsigned transaction the
// wallet will sign.
type TransactionResponse struct {
	Transaction string `json:"transaction"`
}

func buildTransactionHandler(
	route string,
	action string,
	build func(ctx context.Context, positionPubkey, ownerPubkey string) (string, error),
	audit transactionRecorder,
	store *cache.Client,
	exceptions controller.ExceptionStore,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PositionPubkey == "" || req.WalletPubkey == "" {
			writeError(w, route, http.StatusBadRequest, "Missing positionPubkey or walletPubkey")
			return
		}

		transaction, err := build(r.Context(), req.PositionPubkey, req.WalletPubkey)
		if err != nil {
			logger.WithError(err).WithFields(map[string]interface{}{
				"wallet":   req.WalletPubkey,
				"position": req.PositionPubkey,
				"action":   action,
			}).Error("failed to build transaction")
			metrics.TransactionsTotal.WithLabelValues(action, "build_failed").Inc()
			controller.Capture(r.Context(), exceptions, "handler", route, "error", err, map[string]interface{}{
				"wallet":   req.WalletPubkey,
				"position": req.PositionPubkey,
			})
			recordTransaction(r.Context(), audit, req, action, model.TxStatusFailed, err.Error())
			writeError(w, route, http.StatusInternalServerError,
				upstreamMessage(err, "Failed to build transaction"))
			return
		}

		metrics.TransactionsTotal.WithLabelValues(action, "built").Inc()
		recordTransaction(r.Context(), audit, req, action, model.TxStatusBuilt, "")

		// The next portfolio read must see the outcome of this action.
		store.InvalidateWallet(r.Context(), req.WalletPubkey)

		writeJSON(w, route, http.StatusOK, TransactionResponse{Transaction: transaction})
	}
}

func recordTransaction(ctx context.Context, audit transactionRecorder, req transactionRequest, action, status, message string) {
	if audit == nil {
		return
	}
	record := &model.TransactionRecord{
		WalletPubkey:   req.WalletPubkey,
		PositionPubkey: req.PositionPubkey,
		Action:         action,
		Status:         status,
		Message:        message,
		CreatedAt:      time.Now(),
	}
	if err := audit.Create(ctx, record); err != nil {
		logger.WithError(err).Error("failed to record transaction")
	}
}

// ClaimHandler serves POST /api/claim, building a payout-claim transaction
// for a settled winning position.
func ClaimHandler(api transactionBuilder, audit transactionRecorder, store *cache.Client, exceptions controller.ExceptionStore) http.HandlerFunc {
	return buildTransactionHandler("claim", model.ActionClaim, api.BuildClaimTransaction, audit, store, exceptions)
}

// ClosePositionHandler serves POST /api/close-position, building a
// close-out transaction for an open position.
func ClosePositionHandler(api transactionBuilder, audit transactionRecorder, store *cache.Client, exceptions controller.ExceptionStore) http.HandlerFunc {
	return buildTransactionHandler("close-position", model.ActionClose, api.BuildCloseTransaction, audit, store, exceptions)
}

// DefaultClaimHandler wires the handler to the production upstream client.
func DefaultClaimHandler(store *cache.Client) http.HandlerFunc {
	return ClaimHandler(connectors.NewMarketClientFromEnv(), repository.NewTransactionRecordRepository(), store, repository.NewExceptionRepository())
}

// DefaultClosePositionHandler wires the handler to the production upstream client.
func DefaultClosePositionHandler(store *cache.Client) http.HandlerFunc {
	return ClosePositionHandler(connectors.NewMarketClientFromEnv(), repository.NewTransactionRecordRepository(), store, repository.NewExceptionRepository())
}
