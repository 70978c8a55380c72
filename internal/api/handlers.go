package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/neexbeast/trip-itinerary/internal/itinerary"
)

const maxBodyBytes = 64 << 10

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	composer   ItineraryComposer
	currencies CurrencyLister
	obs        Observer
	log        *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(composer ItineraryComposer, currencies CurrencyLister, obs Observer, log *slog.Logger) *Handlers {
	return &Handlers{
		composer:   composer,
		currencies: currencies,
		obs:        obs,
		log:        log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type itineraryResponse struct {
	ID        string            `json:"id"`
	Itinerary string            `json:"itinerary"`
	Days      int               `json:"days"`
	Tier      string            `json:"tier"`
	Sources   itinerary.Sources `json:"sources"`
}

// GenerateItinerary handles POST /api/v1/itineraries.
// Invalid input → 400. Composition failure → 500. Never a partial document.
func (h *Handlers) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var body itineraryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		h.log.Warn("invalid itinerary request body", "request_id", reqID, "err", err)
		h.obs.ObserveFailed("bad_request")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req, err := body.toTrip()
	if err != nil {
		h.log.Info("rejected itinerary request", "request_id", reqID, "reason", err.Error())
		h.obs.ObserveFailed("bad_request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	doc, err := h.composer.Compose(r.Context(), req)
	if err != nil {
		h.log.Error("itinerary composition failed",
			"request_id", reqID,
			"destination", req.Destination,
			"err", err,
		)
		h.obs.ObserveFailed("compose")
		writeError(w, http.StatusInternalServerError, "Sorry, an error occurred: "+err.Error())
		return
	}
	elapsed := time.Since(start)

	h.obs.ObserveGenerated(elapsed.Seconds())
	h.obs.ObserveSource("hotels", doc.Sources.Hotels.String())
	h.obs.ObserveSource("attractions", doc.Sources.Attractions.String())
	h.obs.ObserveSource("restaurants", doc.Sources.Restaurants.String())

	id := uuid.NewString()
	h.log.Info("itinerary generated",
		"id", id,
		"request_id", reqID,
		"destination", req.Destination,
		"days", req.Days,
		"currency", req.Currency,
		"tier", doc.Tier.String(),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	writeJSON(w, http.StatusOK, itineraryResponse{
		ID:        id,
		Itinerary: doc.String(),
		Days:      doc.Days,
		Tier:      doc.Tier.String(),
		Sources:   doc.Sources,
	})
}

// ListCurrencies handles GET /api/v1/currencies.
func (h *Handlers) ListCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"currencies": h.currencies.Supported()})
}

// HealthHandlerFunc returns an http.HandlerFunc that pings every check.
// All ok → 200. Any failure → 503 with the failing check marked "error".
func HealthHandlerFunc(checks []HealthCheck, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{}

		for _, c := range checks {
			if err := c.Pinger.Ping(ctx); err != nil {
				log.Error("health check: ping failed", "check", c.Name, "err", err)
				body[c.Name] = "error"
				status = http.StatusServiceUnavailable
				continue
			}
			body[c.Name] = "ok"
		}

		body["status"] = "ok"
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}
