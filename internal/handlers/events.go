package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tpworkshop/garage-quotes/internal/events"
)

// EventsHandler streams quote changes as server-sent events so open pages can
// reload when another tab writes.
type EventsHandler struct {
	Bus *events.Bus
}

func NewEventsHandler(bus *events.Bus) *EventsHandler { return &EventsHandler{Bus: bus} }

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	// Subscribe before the headers go out: once the client sees the
	// response start, no published change can be missed.
	ch, cancel := h.Bus.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-r.Context().Done():
			return
		case c, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(c)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: quote\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
