// Package handlers provides HTTP handlers for position and portfolio risk
// operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/internal/modules/risk"
)

// Handler handles risk HTTP requests
type Handler struct {
	engine         *risk.Engine
	positionRepo   *risk.PositionRepository // optional persistence
	snapshotRepo   *risk.SnapshotRepository // optional history
	defaultBalance float64
	log            zerolog.Logger
}

// NewHandler creates a new risk handler. Repositories may be nil; the
// registry then lives in memory only.
func NewHandler(
	engine *risk.Engine,
	positionRepo *risk.PositionRepository,
	snapshotRepo *risk.SnapshotRepository,
	defaultBalance float64,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		engine:         engine,
		positionRepo:   positionRepo,
		snapshotRepo:   snapshotRepo,
		defaultBalance: defaultBalance,
		log:            log.With().Str("handler", "risk").Logger(),
	}
}

type createPositionRequest struct {
	Symbol        string           `json:"symbol"`
	Direction     domain.Direction `json:"direction"`
	EntryPrice    float64          `json:"entry_price"`
	Size          float64          `json:"size"`
	Confidence    float64          `json:"confidence"`
	Volatility    float64          `json:"volatility"`
	MaxLossAmount *float64         `json:"max_loss_amount,omitempty"`
}

// HandleCreatePosition handles POST /api/risk/positions
func (h *Handler) HandleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req createPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("Invalid create position body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.engine.Create(req.Symbol, req.Direction, req.EntryPrice, req.Size, req.Confidence, req.Volatility, req.MaxLossAmount)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", req.Symbol).Msg("Failed to create position")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.persist(pos)
	h.writeData(w, http.StatusCreated, pos)
}

type priceUpdateRequest struct {
	Price float64 `json:"price"`
}

// HandlePriceUpdate handles POST /api/risk/positions/{symbol}/price
func (h *Handler) HandlePriceUpdate(w http.ResponseWriter, r *http.Request, symbol string) {
	var req priceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn().Err(err).Msg("Invalid price update body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pos, closed := h.engine.Update(symbol, req.Price)
	if pos == nil {
		http.Error(w, "No active position for symbol", http.StatusNotFound)
		return
	}

	h.persist(pos)

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"position": pos,
			"closed":   closed,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetPosition handles GET /api/risk/positions/{symbol}
func (h *Handler) HandleGetPosition(w http.ResponseWriter, r *http.Request, symbol string) {
	pos := h.engine.Get(symbol)
	if pos == nil {
		http.Error(w, "Position not found", http.StatusNotFound)
		return
	}
	h.writeData(w, http.StatusOK, pos)
}

// HandleListPositions handles GET /api/risk/positions
func (h *Handler) HandleListPositions(w http.ResponseWriter, r *http.Request) {
	positions := h.engine.AllPositions()
	if positions == nil {
		positions = []*risk.Position{}
	}
	h.writeData(w, http.StatusOK, positions)
}

// HandleRemovePosition handles DELETE /api/risk/positions/{symbol}
func (h *Handler) HandleRemovePosition(w http.ResponseWriter, r *http.Request, symbol string) {
	h.engine.Remove(symbol)
	if h.positionRepo != nil {
		if err := h.positionRepo.Delete(symbol); err != nil {
			h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to delete stored position")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePortfolio handles GET /api/risk/portfolio
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	balance := h.defaultBalance
	if raw := r.URL.Query().Get("balance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid balance parameter", http.StatusBadRequest)
			return
		}
		balance = parsed
	}

	h.writeData(w, http.StatusOK, h.engine.Snapshot(balance))
}

// HandleSnapshotHistory handles GET /api/risk/snapshots
func (h *Handler) HandleSnapshotHistory(w http.ResponseWriter, r *http.Request) {
	if h.snapshotRepo == nil {
		http.Error(w, "Snapshot history not configured", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	snapshots, err := h.snapshotRepo.Recent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot history")
		http.Error(w, "Failed to load snapshots", http.StatusInternalServerError)
		return
	}
	if snapshots == nil {
		snapshots = []*risk.PortfolioSnapshot{}
	}
	h.writeData(w, http.StatusOK, snapshots)
}

// persist writes a position through to storage when configured
func (h *Handler) persist(pos *risk.Position) {
	if h.positionRepo == nil || pos == nil {
		return
	}
	if err := h.positionRepo.Save(pos); err != nil {
		h.log.Error().Err(err).Str("symbol", pos.Symbol).Msg("Failed to persist position")
	}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
