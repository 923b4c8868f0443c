// Package ws pushes live conflict updates to calendar clients over WebSocket.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nordvik/studioplan-backend/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// conflictSource delivers conflict snapshots for the caller's workspace.
type conflictSource interface {
	Subscribe(ctx context.Context) (<-chan []domain.Conflict, func(), error)
}

// ConflictHandler upgrades calendar clients to a WebSocket and forwards every
// conflict recomputation of their workspace. Each message carries the full
// current conflict list, so clients replace rather than merge.
type ConflictHandler struct {
	src      conflictSource
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewConflictHandler(src conflictSource, logger *slog.Logger) *ConflictHandler {
	return &ConflictHandler{
		src: src,
		log: logger.With("handler", "ws.conflicts"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origin filtering happens in the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type conflictMessage struct {
	Type      string          `json:"type"`
	Conflicts []conflictEntry `json:"conflicts"`
}

type conflictEntry struct {
	Kind          string      `json:"kind"`
	Severity      string      `json:"severity"`
	ResponsibleID uuid.UUID   `json:"responsible_id"`
	Date          string      `json:"date"`
	ItemIDs       []uuid.UUID `json:"item_ids"`
	Count         int         `json:"count,omitempty"`
}

// Serve handles GET /api/v1/schedule/conflicts/ws.
func (h *ConflictHandler) Serve(w http.ResponseWriter, r *http.Request) {
	updates, cancel, err := h.src.Subscribe(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case conflicts, ok := <-updates:
			if !ok {
				// Store shut down.
				conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")) //nolint:errcheck
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteJSON(toMessage(conflicts)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readLoop drains client frames so pongs and close messages are processed.
func (h *ConflictHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func toMessage(conflicts []domain.Conflict) conflictMessage {
	msg := conflictMessage{Type: "conflicts", Conflicts: make([]conflictEntry, 0, len(conflicts))}
	for _, c := range conflicts {
		msg.Conflicts = append(msg.Conflicts, conflictEntry{
			Kind:          string(c.Kind),
			Severity:      string(c.Severity),
			ResponsibleID: c.ResponsibleID,
			Date:          c.Date.Format("2006-01-02"),
			ItemIDs:       c.ItemIDs,
			Count:         c.Count,
		})
	}
	return msg
}
