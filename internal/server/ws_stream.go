package server

import (
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/blackroad/qlab/internal/events"
)

// WSStreamHandler streams bus events to clients over a websocket.
type WSStreamHandler struct {
	bus *events.Bus
	log zerolog.Logger
}

func NewWSStreamHandler(bus *events.Bus, log zerolog.Logger) *WSStreamHandler {
	return &WSStreamHandler{
		bus: bus,
		log: log.With().Str("handler", "ws_stream").Logger(),
	}
}

// ServeHTTP upgrades the connection and forwards events until the client
// disconnects or a write fails.
func (h *WSStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var closed atomic.Bool
	ch := make(chan *events.Event, streamBufferSize)

	for _, t := range parseTypes(r) {
		unsubscribe := h.bus.Subscribe(t, func(event *events.Event) {
			if closed.Load() {
				return
			}
			select {
			case ch <- event:
			default:
				// Slow consumer, drop the event.
			}
		})
		defer unsubscribe()
	}
	defer closed.Store(true)

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("Websocket client connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Str("remote", r.RemoteAddr).Msg("Websocket client disconnected")
			return

		case event := <-ch:
			if err := wsjson.Write(ctx, conn, event); err != nil {
				h.log.Debug().Err(err).Msg("Websocket write failed, closing")
				return
			}
		}
	}
}
