// Package handlers provides HTTP handlers for order quantity operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/internal/modules/orders"
)

// Handler handles order quantity HTTP requests
type Handler struct {
	calculator  *orders.Calculator
	marketData  domain.MarketDataProvider // optional
	predictions domain.PredictionProvider // optional
	log         zerolog.Logger
}

// NewHandler creates a new orders handler
func NewHandler(
	calculator *orders.Calculator,
	marketData domain.MarketDataProvider,
	predictions domain.PredictionProvider,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		calculator:  calculator,
		marketData:  marketData,
		predictions: predictions,
		log:         log.With().Str("handler", "orders").Logger(),
	}
}

// HandleQuantity handles POST /api/orders/quantity
func (h *Handler) HandleQuantity(w http.ResponseWriter, r *http.Request) {
	var req orders.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("Invalid order request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.enrich(&req)
	econ := h.calculator.Calculate(req)

	response := map[string]interface{}{
		"data": econ,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) enrich(req *orders.Request) {
	if h.marketData != nil && (req.Price == 0 || req.Volatility == 0) {
		quote, err := h.marketData.GetQuote(req.Symbol)
		if err != nil {
			h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Quote lookup failed")
		} else if quote != nil {
			if req.Price == 0 {
				req.Price = quote.Price
			}
			if req.Volatility == 0 {
				req.Volatility = quote.Volatility
			}
		}
	}

	if h.predictions != nil && (req.Confidence == 0 || req.TargetPrice == 0) {
		pred, err := h.predictions.GetPrediction(req.Symbol)
		if err != nil {
			h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Prediction lookup failed")
		} else if pred != nil {
			if req.Confidence == 0 {
				req.Confidence = pred.Confidence
			}
			if req.TargetPrice == 0 {
				req.TargetPrice = pred.TargetPrice
			}
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
