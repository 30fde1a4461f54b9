// Command mock-provider serves the subset of the Dotpay seller and payment
// APIs the gateway calls, for local runs against DOTPAY_API_BASE_URL and
// DOTPAY_BASE_URL.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
)

var channels = []dotpay.Channel{
	{ID: 1, Name: "mTransfer", Logo: "https://ssl.dotpay.pl/t2/cloudfs1/magellan_media/payment_channel_logo/1", Group: dotpay.GroupTransfers},
	{ID: 11, Name: "Przelew/wpłata tradycyjna", Logo: "https://ssl.dotpay.pl/t2/cloudfs1/magellan_media/payment_channel_logo/11", Group: dotpay.GroupCash},
	{ID: 73, Name: "BLIK", Logo: "https://ssl.dotpay.pl/t2/cloudfs1/magellan_media/payment_channel_logo/73", Group: "blik"},
	{ID: 248, Name: "Karta płatnicza", Logo: "https://ssl.dotpay.pl/t2/cloudfs1/magellan_media/payment_channel_logo/248", Group: "cards"},
}

func main() {
	logging.Init("mock-provider", "info", os.Getenv("APP_ENV"))

	username := envOr("MOCK_API_USERNAME", "seller")
	password := envOr("MOCK_API_PASSWORD", "secret")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/v1/accounts/{seller}/", func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != username || p != password {
			slog.Info("account check rejected", "seller", r.PathValue("seller"))
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username/password."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("seller")})
	})
	mux.HandleFunc("GET /payment_api/v1/channels/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		slog.Info("channel list requested", "seller", q.Get("id"), "amount", q.Get("amount"), "currency", q.Get("currency"))
		writeJSON(w, http.StatusOK, map[string]any{"channels": channels})
	})

	addr := envOr("MOCK_ADDR", ":8081")
	slog.Info("mock provider started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
