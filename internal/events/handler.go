package events

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/campusdesk/campusdesk/pkg/routes"
)

// Handler exposes the event feed over a websocket for dashboard clients.
type Handler struct {
	bus      Bus
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(bus Bus, checkOrigin func(*http.Request) bool, logger *slog.Logger) *Handler {
	return &Handler{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With("handler", "events"),
	}
}

func (h *Handler) Routes() *routes.Group {
	return &routes.Group{
		Prefix: "/events",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/ws", Handler: h.Feed},
		},
	}
}

// Feed upgrades the connection and forwards bus events as JSON frames.
// A failed write means the client is gone or too slow; the connection is
// dropped rather than buffered.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := h.bus.Subscribe(r.Context())
	defer cancel()

	// Drain reads so close frames and pings are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
