package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Selection messages are tiny.
	maxMessageSize = 1024
)

// Frame types sent to the page.
const (
	frameView  = "view"
	frameError = "error"
)

// wsFrame is one server-to-client message. Exactly one of View and Error is set.
type wsFrame struct {
	Type  string       `json:"type"`
	View  *domain.View `json:"view,omitempty"`
	Error *APIError    `json:"error,omitempty"`
}

// handleWebSocket upgrades the connection and answers every selection
// message with a freshly rendered view. Fields missing from a message keep
// their default selection values.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("session_id", uuid.NewString(), "remote_addr", r.RemoteAddr)
	s.metrics.WebSocketConnections.Inc()
	defer s.metrics.WebSocketConnections.Dec()
	logger.Info("websocket connected")

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done, logger)

	limiter := newLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			logger.Info("websocket disconnected")
			return
		}

		frame := s.answer(r.Context(), msg, limiter, logger)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) answer(ctx context.Context, msg []byte, limiter *rate.Limiter, logger *slog.Logger) wsFrame {
	if !limiter.Allow() {
		s.metrics.RateLimited.WithLabelValues(dashboard.TransportWebSocket).Inc()
		return wsFrame{Type: frameError, Error: errRateLimited()}
	}

	sel := domain.DefaultSelection()
	if err := json.Unmarshal(msg, &sel); err != nil {
		return wsFrame{Type: frameError, Error: errInvalidRequest(err)}
	}

	view, err := s.dash.Render(ctx, sel, dashboard.TransportWebSocket)
	if err != nil {
		apiErr := toAPIError(err)
		if apiErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("websocket render failed", "error", err)
		}
		return wsFrame{Type: frameError, Error: apiErr}
	}
	return wsFrame{Type: frameView, View: &view}
}

// pingLoop keeps the connection alive until done is closed. WriteControl is
// safe to call concurrently with the reader's WriteJSON.
func pingLoop(conn *websocket.Conn, done <-chan struct{}, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}
