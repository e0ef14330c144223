package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/internal/modules/allocation"
	"github.com/aristath/helmsman/internal/modules/sizing"
)

func newTestRouter() chi.Router {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	allocator := allocation.NewAllocator(sizing.NewSizer(sizing.DefaultConfig(), log), log)
	h := NewHandler(allocator, log)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestHandlePlan(t *testing.T) {
	r := newTestRouter()

	payload, err := json.Marshal(allocation.Request{
		AccountBalance: 1_000_000,
		Candidates: []allocation.Candidate{
			{Symbol: "AAPL", Price: 100, TargetPrice: 110, Confidence: 0.8, Volatility: 0.02, RiskTier: domain.RiskTierLow},
			{Symbol: "MSFT", Price: 200, TargetPrice: 220, Confidence: 0.7, Volatility: 0.03, RiskTier: domain.RiskTierMedium},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/allocation/plan", bytes.NewReader(payload))
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data     allocation.Result      `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, response.Data.Valid)
	assert.NotEmpty(t, response.Data.Allocations)
	assert.EqualValues(t, 2, response.Metadata["candidates"])
}

func TestHandlePlanBadBody(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/allocation/plan", bytes.NewReader([]byte("?")))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
