package handler

import (
	"context"
	"net/http"
	"strconv"

	"oddslens/src/model"
	"oddslens/src/repository"
)

type exceptionLister interface {
	FindLatest(ctx context.Context, limit int) ([]model.Exception, error)
}

type transactionLister interface {
	FindByWallet(ctx context.Context, wallet string, limit int) ([]model.TransactionRecord, error)
}

// ExceptionsResponse lists the most recently captured failures.
type ExceptionsResponse struct {
	Exceptions []model.Exception `json:"exceptions"`
}

// TransactionsResponse lists a wallet's transaction audit entries.
type TransactionsResponse struct {
	Transactions []model.TransactionRecord `json:"transactions"`
}

// ExceptionsHandler serves GET /admin/exceptions?limit=<n>, the captured
// failure log for operators. Empty when persistence is disabled.
func ExceptionsHandler(store exceptionLister) http.HandlerFunc {
	const route = "admin-exceptions"

	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		exceptions, err := store.FindLatest(r.Context(), limit)
		if err != nil {
			writeError(w, route, http.StatusInternalServerError, "Failed to fetch exceptions")
			return
		}

		writeJSON(w, route, http.StatusOK, ExceptionsResponse{Exceptions: exceptions})
	}
}

// TransactionsHandler serves GET /admin/transactions?wallet=<address>, the
// wallet's claim and close audit trail.
func TransactionsHandler(store transactionLister) http.HandlerFunc {
	const route = "admin-transactions"

	return func(w http.ResponseWriter, r *http.Request) {
		wallet := r.URL.Query().Get("wallet")
		if wallet == "" {
			writeError(w, route, http.StatusBadRequest, "Missing wallet parameter")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		records, err := store.FindByWallet(r.Context(), wallet, limit)
		if err != nil {
			writeError(w, route, http.StatusInternalServerError, "Failed to fetch transactions")
			return
		}

		writeJSON(w, route, http.StatusOK, TransactionsResponse{Transactions: records})
	}
}

// DefaultExceptionsHandler wires the handler to the application database.
func DefaultExceptionsHandler() http.HandlerFunc {
	return ExceptionsHandler(repository.NewExceptionRepository())
}

// DefaultTransactionsHandler wires the handler to the application database.
func DefaultTransactionsHandler() http.HandlerFunc {
	return TransactionsHandler(repository.NewTransactionRecordRepository())
}
