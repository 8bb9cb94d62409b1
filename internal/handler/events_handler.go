package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"student-manager/internal/controller"
	"student-manager/internal/service"
)

type EventsHandler struct {
	sessionService *service.SessionService
	logger         *slog.Logger
}

func NewEventsHandler(sessionService *service.SessionService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{sessionService: sessionService, logger: logger}
}

// StreamSnapshots pushes the session's snapshot to the client using
// Server-Sent Events, starting with the current one.
func (h *EventsHandler) StreamSnapshots(w http.ResponseWriter, r *http.Request) {
	sid := mux.Vars(r)["sid"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	snapshots, unsubscribe, err := h.sessionService.Subscribe(sid)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	current, err := h.sessionService.Snapshot(sid)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if !h.send(w, flusher, current) {
		return
	}

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				// session closed
				return
			}
			if !h.send(w, flusher, snap) {
				return
			}
		case <-r.Context().Done():
			h.logger.Debug("event stream client disconnected", "session", sid)
			return
		}
	}
}

func (h *EventsHandler) send(w http.ResponseWriter, flusher http.Flusher, snap controller.Snapshot) bool {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("marshal snapshot", "error", err)
		return true
	}
	if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		h.logger.Debug("write event", "error", err)
		return false
	}
	flusher.Flush()
	return true
}
