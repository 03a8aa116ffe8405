// Command webhook-listener is a reference receiver for GoFetch webhook
// notifications: it verifies signatures, translates payloads into the Apify
// shape, and logs them. Metrics are exposed on /metrics.
package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	gofetch "github.com/YevheniiM/gofetch-client"
	"github.com/YevheniiM/gofetch-client/telemetry"
)

const signatureHeader = "X-Webhook-Signature"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file, using environment variables")
	}

	secret := os.Getenv("GOFETCH_WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal().Msg("GOFETCH_WEBHOOK_SECRET is not set")
	}
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", telemetry.Handler())
	r.Post("/webhook", handleWebhook(secret))

	log.Info().Str("addr", addr).Msg("webhook listener started")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func handleWebhook(secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}

		if !gofetch.VerifyWebhookSignature(body, r.Header.Get(signatureHeader), secret) {
			log.Warn().Msg("rejected webhook with invalid signature")
			writeError(w, http.StatusUnauthorized, "invalid signature")
			return
		}

		var payload gofetch.WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}

		telemetry.WebhookCounter.Inc()
		translated := gofetch.TransformWebhookPayload(payload)
		log.Info().
			Str("event", payload.Event).
			Str("jobID", payload.Data.JobID).
			Str("status", string(payload.Data.Status)).
			Int("itemsScraped", payload.Data.ItemsScraped).
			Interface("translated", translated).
			Msg("webhook received")

		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
	}
}

// writeJSON writes a JSON response with the given status code and data
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError writes a JSON response with the given status code and error message
func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{
		"error": http.StatusText(statusCode),
		"msg":   msg,
	})
}
