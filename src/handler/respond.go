package handler

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"oddslens/src/metrics"
)

// errorResponse is the body every failed proxy call renders. Handlers never
// let an upstream failure escape without a JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, route string, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	metrics.ObserveProxyRequest(route, status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).WithField("route", route).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, route string, status int, message string) {
	writeJSON(w, route, status, errorResponse{Error: message})
}

func writeCached(w http.ResponseWriter, route string, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	metrics.ObserveProxyRequest(route, http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.WithError(err).WithField("route", route).Error("failed to write cached response")
	}
}
