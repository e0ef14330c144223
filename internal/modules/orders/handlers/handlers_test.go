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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aristath/helmsman/internal/domain"
	"github.com/aristath/helmsman/internal/modules/orders"
)

type mockPredictions struct {
	mock.Mock
}

func (m *mockPredictions) GetPrediction(symbol string) (*domain.Prediction, error) {
	args := m.Called(symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

func newTestHandler(predictions domain.PredictionProvider) *Handler {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	calc := orders.NewCalculator(orders.DefaultConfig(), nil, log)
	return NewHandler(calc, nil, predictions, log)
}

func postQuantity(t *testing.T, h *Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/quantity", bytes.NewReader(payload))
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleQuantity(t *testing.T) {
	rec := postQuantity(t, newTestHandler(nil), orders.Request{
		Symbol:          "AAPL",
		AccountBalance:  1_000_000,
		Price:           1000,
		TargetPrice:     1100,
		Confidence:      0.8,
		Volatility:      0.02,
		RiskTier:        domain.RiskTierLow,
		MarketCondition: domain.MarketBull,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data orders.Economics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, response.Data.Valid)
	assert.Greater(t, response.Data.Quantity, 0)
	assert.Greater(t, response.Data.NetAmount, response.Data.GrossAmount)
}

func TestHandleQuantityBadBody(t *testing.T) {
	h := newTestHandler(nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/quantity", bytes.NewReader([]byte("nope")))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuantityEnrichesFromPredictions(t *testing.T) {
	preds := new(mockPredictions)
	preds.On("GetPrediction", "AAPL").Return(&domain.Prediction{
		Symbol:      "AAPL",
		Confidence:  0.8,
		TargetPrice: 1100,
	}, nil)

	rec := postQuantity(t, newTestHandler(preds), orders.Request{
		Symbol:         "AAPL",
		AccountBalance: 1_000_000,
		Price:          1000,
		Volatility:     0.02,
		RiskTier:       domain.RiskTierLow,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data orders.Economics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Greater(t, response.Data.Quantity, 0)
	assert.Greater(t, response.Data.ExpectedReturn, 0.0)
	preds.AssertExpectations(t)
}
