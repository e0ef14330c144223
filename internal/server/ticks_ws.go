package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/aristath/helmsman/internal/modules/risk"
)

// Tick is one inbound price observation
type Tick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// CloseEvent is broadcast to all tick clients when a price update closes a
// position.
type CloseEvent struct {
	Type     string         `json:"type"` // always "position_closed"
	Position *risk.Position `json:"position"`
}

// TickHub accepts websocket price feeds on /ws/ticks. Every tick is recorded
// in the volatility tracker and run through the risk engine's trigger
// evaluation; resulting closes are persisted and broadcast to all clients.
type TickHub struct {
	engine  *risk.Engine
	tracker *risk.VolatilityTracker
	repo    *risk.PositionRepository // optional

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	log zerolog.Logger
}

// NewTickHub creates the tick hub
func NewTickHub(engine *risk.Engine, tracker *risk.VolatilityTracker, repo *risk.PositionRepository, log zerolog.Logger) *TickHub {
	return &TickHub{
		engine:  engine,
		tracker: tracker,
		repo:    repo,
		conns:   make(map[*websocket.Conn]struct{}),
		log:     log.With().Str("component", "tick_hub").Logger(),
	}
}

// HandleTicks handles GET /ws/ticks
func (h *TickHub) HandleTicks(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Browser dashboards connect cross-origin in dev setups.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Msg("Tick client connected")

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
		h.log.Debug().Msg("Tick client disconnected")
	}()

	for {
		msgType, data, err := conn.Read(r.Context())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && r.Context().Err() == nil {
				h.log.Warn().Err(err).Msg("Tick read failed")
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var tick Tick
		if err := json.Unmarshal(data, &tick); err != nil {
			h.log.Warn().Err(err).Msg("Invalid tick payload")
			continue
		}

		h.Process(tick)
	}
}

// Process runs one tick through the tracker and the engine
func (h *TickHub) Process(tick Tick) {
	if tick.Symbol == "" || tick.Price <= 0 {
		return
	}

	h.tracker.Observe(tick.Symbol, tick.Price)

	pos, closed := h.engine.Update(tick.Symbol, tick.Price)
	if pos == nil {
		return
	}

	if h.repo != nil {
		if err := h.repo.Save(pos); err != nil {
			h.log.Error().Err(err).Str("symbol", pos.Symbol).Msg("Failed to persist position after tick")
		}
	}

	if closed {
		h.broadcast(CloseEvent{Type: "position_closed", Position: pos})
	}
}

// CloseAll disconnects every tick client, used during shutdown
func (h *TickHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.conns, conn)
	}
}

func (h *TickHub) broadcast(event CloseEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode close event")
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			h.log.Warn().Err(err).Msg("Failed to deliver close event")
		}
		cancel()
	}
}
