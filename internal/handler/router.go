package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the service.
func NewRouter(sessions *SessionHandler, events *EventsHandler, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(logger))

	handle(r, "/health", methods{"GET": Health})
	handle(r, "/sessions", methods{"POST": sessions.CreateSession})

	s := r.PathPrefix("/sessions/{sid}").Subrouter()
	handle(s, "", methods{"GET": sessions.GetSnapshot, "DELETE": sessions.CloseSession})
	handle(s, "/add", methods{"POST": sessions.AddRequested})
	handle(s, "/edit/{id}", methods{"POST": sessions.EditRequested})
	handle(s, "/draft", methods{"PATCH": sessions.FieldChanged})
	handle(s, "/save", methods{"POST": sessions.SaveRequested})
	handle(s, "/cancel", methods{"POST": sessions.CancelRequested})
	handle(s, "/students", methods{"DELETE": sessions.ClearRequested})
	handle(s, "/students/{id}", methods{"DELETE": sessions.DeleteRequested})
	handle(s, "/language", methods{"POST": sessions.LanguageToggled})
	handle(s, "/theme", methods{"POST": sessions.ThemeToggled})
	handle(s, "/labels", methods{"GET": sessions.GetLabels})
	handle(s, "/export.xlsx", methods{"GET": sessions.ExportXLSX})
	handle(s, "/events", methods{"GET": events.StreamSnapshots})

	return r
}

type methods map[string]http.HandlerFunc

// handle registers one handler per method for path, followed by a catch-all
// route for the same path answering 405 with an Allow header. mux only picks
// the catch-all when no method route matched.
func handle(r *mux.Router, path string, byMethod methods) {
	allowed := make([]string, 0, len(byMethod))
	for method, h := range byMethod {
		r.HandleFunc(path, h).Methods(method)
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Allow", allow)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE working through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
