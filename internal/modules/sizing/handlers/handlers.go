// Package handlers provides HTTP handlers for position sizing operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/internal/modules/sizing"
)

// Handler handles position sizing HTTP requests
type Handler struct {
	sizer       *sizing.Sizer
	marketData  domain.MarketDataProvider  // optional, fills missing price/volatility
	predictions domain.PredictionProvider  // optional, fills missing confidence
	log         zerolog.Logger
}

// NewHandler creates a new sizing handler. Providers may be nil; requests
// must then carry their own price, volatility and confidence.
func NewHandler(
	sizer *sizing.Sizer,
	marketData domain.MarketDataProvider,
	predictions domain.PredictionProvider,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		sizer:       sizer,
		marketData:  marketData,
		predictions: predictions,
		log:         log.With().Str("handler", "sizing").Logger(),
	}
}

// HandleSize handles POST /api/sizing/size
func (h *Handler) HandleSize(w http.ResponseWriter, r *http.Request) {
	var req sizing.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("Invalid sizing request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.enrich(&req)
	result := h.sizer.Size(req)

	response := map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// enrich fills zero-valued market fields from the configured providers.
// Lookup failures are logged and left to the sizer's own input validation.
func (h *Handler) enrich(req *sizing.Request) {
	if h.marketData != nil && (req.InstrumentPrice == 0 || req.Volatility == 0) {
		quote, err := h.marketData.GetQuote(req.Symbol)
		if err != nil {
			h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Quote lookup failed")
		} else if quote != nil {
			if req.InstrumentPrice == 0 {
				req.InstrumentPrice = quote.Price
			}
			if req.Volatility == 0 {
				req.Volatility = quote.Volatility
			}
		}
	}

	if h.predictions != nil && req.Confidence == 0 {
		pred, err := h.predictions.GetPrediction(req.Symbol)
		if err != nil {
			h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Prediction lookup failed")
		} else if pred != nil {
			req.Confidence = pred.Confidence
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
