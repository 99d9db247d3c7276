package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/events"
)

const (
	streamBufferSize  = 100
	heartbeatInterval = 30 * time.Second
)

// EventsStreamHandler streams bus events to clients over SSE.
type EventsStreamHandler struct {
	bus *events.Bus
	log zerolog.Logger
}

func NewEventsStreamHandler(bus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		bus: bus,
		log: log.With().Str("handler", "events_stream").Logger(),
	}
}

// parseTypes reads the optional ?types= filter (comma-separated).
func parseTypes(r *http.Request) []events.EventType {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		return events.AllEventTypes
	}

	var types []events.EventType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			types = append(types, events.EventType(part))
		}
	}
	if len(types) == 0 {
		return events.AllEventTypes
	}
	return types
}

// ServeHTTP streams events as server-sent events until the client disconnects.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The closed flag keeps late deliveries out of the channel between the
	// last select iteration and the deferred unsubscribes.
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

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("SSE client connected")

	fmt.Fprintf(w, "event: connected\ndata: {\"timestamp\":%q}\n\n", time.Now().UTC().Format(time.RFC3339))
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	defer closed.Store(true)

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug().Str("remote", r.RemoteAddr).Msg("SSE client disconnected")
			return

		case event := <-ch:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error().Err(err).Msg("Failed to marshal event")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
