package connectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionsParsesFlexibleNumerics(t *testing.T) {
	var gotAPIKey, gotOwner string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotOwner = r.URL.Query().Get("ownerPubkey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"pubkey": "p1", "contracts": "3", "totalCostUsd": 1500000, "avgPriceUsd": "500000"}]}`))
	}))
	defer srv.Close()

	client := NewMarketClient("test-key", srv.URL)
	positions, err := client.Positions(context.Background(), "wallet1")
	require.NoError(t, err)
	require.Len(t, positions, 1)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "wallet1", gotOwner)
	assert.Equal(t, "p1", positions[0].Pubkey)
	assert.Equal(t, float64(3), positions[0].Contracts.Float64())
	assert.Equal(t, float64(1500000), positions[0].TotalCostUsd.Float64())
	assert.Equal(t, float64(500000), positions[0].AvgPriceUsd.Float64())
}

func TestProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "profile not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewMarketClient("", srv.URL)
	_, err := client.Profile(context.Background(), "freshwallet")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestServerErrorCarriesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "market engine melted", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewMarketClient("", srv.URL)
	_, err := client.History(context.Background(), "wallet1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "market engine melted")
}

func TestBuildClaimTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/positions/pos1/claim", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transaction": "dHgtYnl0ZXM="}`))
	}))
	defer srv.Close()

	client := NewMarketClient("", srv.URL)
	tx, err := client.BuildClaimTransaction(context.Background(), "pos1", "wallet1")
	require.NoError(t, err)
	assert.Equal(t, "dHgtYnl0ZXM=", tx)
}

func TestBuildCloseTransactionUsesDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/positions/pos1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transaction": "dHgtYnl0ZXM="}`))
	}))
	defer srv.Close()

	client := NewMarketClient("", srv.URL)
	tx, err := client.BuildCloseTransaction(context.Background(), "pos1", "wallet1")
	require.NoError(t, err)
	assert.Equal(t, "dHgtYnl0ZXM=", tx)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "transient", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	client := NewMarketClient("", srv.URL)
	_, err := client.Positions(context.Background(), "wallet1")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewMarketClient("", srv.URL)
	_, err := client.History(context.Background(), "wallet1")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
