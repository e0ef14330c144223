// Package handlers provides HTTP handlers for portfolio allocation.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/modules/allocation"
)

// Handler handles allocation HTTP requests
type Handler struct {
	allocator *allocation.Allocator
	log       zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(allocator *allocation.Allocator, log zerolog.Logger) *Handler {
	return &Handler{
		allocator: allocator,
		log:       log.With().Str("handler", "allocation").Logger(),
	}
}

// HandlePlan handles POST /api/allocation/plan
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req allocation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("Invalid allocation request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.allocator.Allocate(req)

	response := map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp":  time.Now().Format(time.RFC3339),
			"candidates": len(req.Candidates),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
