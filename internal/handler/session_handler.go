package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"student-manager/internal/controller"
	"student-manager/internal/i18n"
	"student-manager/internal/model"
	"student-manager/internal/service"
	"student-manager/internal/validation"
)

type SessionHandler struct {
	sessionService *service.SessionService
	exportService  *service.ExportService
	logger         *slog.Logger
}

func NewSessionHandler(sessionService *service.SessionService, exportService *service.ExportService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		exportService:  exportService,
		logger:         logger,
	}
}

type createSessionResponse struct {
	SessionID string              `json:"sessionId"`
	Snapshot  controller.Snapshot `json:"snapshot"`
}

type fieldChangeRequest struct {
	Field model.Field `json:"field"`
	Value draftValue  `json:"value"`
}

// draftValue accepts a JSON string or number. Number inputs post ages as
// numbers; the draft keeps their literal text.
type draftValue string

func (v *draftValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("value must be a string or a number")
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = draftValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a string or a number: %w", err)
	}
	*v = draftValue(n.String())
	return nil
}

type validationResponse struct {
	Error    string              `json:"error"`
	Field    model.Field         `json:"field"`
	Rule     validation.Rule     `json:"rule"`
	Message  string              `json:"message"`
	Focus    model.Field         `json:"focus"`
	Snapshot controller.Snapshot `json:"snapshot"`
}

func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, snap, err := h.sessionService.CreateSession()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id, Snapshot: snap})
}

func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.CloseSession(mux.Vars(r)["sid"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.sessionService.Snapshot(mux.Vars(r)["sid"]))
}

func (h *SessionHandler) AddRequested(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.sessionService.Add(mux.Vars(r)["sid"]))
}

func (h *SessionHandler) EditRequested(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.studentID(w, r)
	if !ok {
		return
	}
	h.respond(w)(h.sessionService.Edit(mux.Vars(r)["sid"], studentID))
}

func (h *SessionHandler) FieldChanged(w http.ResponseWriter, r *http.Request) {
	var req fieldChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.respond(w)(h.sessionService.ChangeField(mux.Vars(r)["sid"], req.Field, string(req.Value)))
}

// SaveRequested answers 422 with a localized message and the field to focus
// when the draft is rejected.
func (h *SessionHandler) SaveRequested(w http.ResponseWriter, r *http.Request) {
	snap, verr, err := h.sessionService.Save(mux.Vars(r)["sid"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	if verr != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error:    "validation",
			Field:    verr.Field,
			Rule:     verr.Rule,
			Message:  i18n.T(snap.Language, i18n.Key(verr.MessageKey())),
			Focus:    verr.Field,
			Snapshot: snap,
		})
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *SessionHandler) CancelRequested(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.sessionService.Cancel(mux.Vars(r)["sid"]))
}

func (h *SessionHandler) DeleteRequested(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.studentID(w, r)
	if !ok {
		return
	}
	h.respond(w)(h.sessionService.Delete(mux.Vars(r)["sid"], studentID))
}

func (h *SessionHandler) ClearRequested(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.sessionService.Clear(mux.Vars(r)["sid"]))
}

func (h *SessionHandler) LanguageToggled(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.sessionService.ToggleLanguage(mux.Vars(r)["sid"]))
}

func (h *SessionHandler) ThemeToggled(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.sessionService.ToggleTheme(mux.Vars(r)["sid"]))
}

// GetLabels returns every UI string in the session's language.
func (h *SessionHandler) GetLabels(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessionService.Snapshot(mux.Vars(r)["sid"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, i18n.Labels(snap.Language, snap.Theme))
}

func (h *SessionHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessionService.Snapshot(mux.Vars(r)["sid"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="students.xlsx"`)
	if err := h.exportService.WriteXLSX(w, snap.Students, snap.Language); err != nil {
		h.logger.Error("export students", "error", err)
	}
}

func (h *SessionHandler) studentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid student id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *SessionHandler) respond(w http.ResponseWriter) func(controller.Snapshot, error) {
	return func(snap controller.Snapshot, err error) {
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, snap)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, controller.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, controller.ErrUnknownField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}
