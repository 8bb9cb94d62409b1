package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"student-manager/internal/controller"
	"student-manager/internal/model"
	"student-manager/internal/store"
	"student-manager/internal/validation"
)

var ErrSessionNotFound = errors.New("session not found")

// listenerBuffer is how many snapshots a slow listener may fall behind
// before updates are dropped for it.
const listenerBuffer = 8

// StoreFactory creates the record store for a new session.
type StoreFactory func(sessionID string) store.Store

// Session is one page's worth of state. Intents on a session run one at a
// time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	closed     bool
	store      store.Store
	controller *controller.Controller

	listeners    map[chan controller.Snapshot]bool
	listenerLock sync.RWMutex
}

type SessionService struct {
	sessions     map[string]*Session
	sessionsLock sync.RWMutex

	newStore StoreFactory
	language model.Language
	theme    model.Theme
	logger   *slog.Logger
}

func NewSessionService(newStore StoreFactory, language model.Language, theme model.Theme, logger *slog.Logger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		newStore: newStore,
		language: language,
		theme:    theme,
		logger:   logger,
	}
}

// CreateSession starts a session with an empty store and the default
// language and theme.
func (s *SessionService) CreateSession() (string, controller.Snapshot, error) {
	id := uuid.New().String()
	st := s.newStore(id)

	session := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		store:      st,
		controller: controller.New(st, controller.NewClockIDSource(), s.language, s.theme),
		listeners:  make(map[chan controller.Snapshot]bool),
	}

	snap, err := session.controller.Snapshot()
	if err != nil {
		return "", controller.Snapshot{}, err
	}

	s.sessionsLock.Lock()
	s.sessions[id] = session
	s.sessionsLock.Unlock()

	s.logger.Info("session created", "session", id)
	return id, snap, nil
}

// CloseSession drops the session and its records and closes its listeners.
func (s *SessionService) CloseSession(id string) error {
	s.sessionsLock.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.sessionsLock.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.closed = true

	session.listenerLock.Lock()
	for ch := range session.listeners {
		delete(session.listeners, ch)
		close(ch)
	}
	session.listenerLock.Unlock()

	if err := session.store.Clear(); err != nil {
		return fmt.Errorf("clear session %s: %w", id, err)
	}

	s.logger.Info("session closed", "session", id, "age", time.Since(session.CreatedAt))
	return nil
}

// SessionCount returns the number of open sessions.
func (s *SessionService) SessionCount() int {
	s.sessionsLock.RLock()
	defer s.sessionsLock.RUnlock()
	return len(s.sessions)
}

func (s *SessionService) lookup(id string) (*Session, error) {
	s.sessionsLock.RLock()
	defer s.sessionsLock.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// dispatch runs one intent against the session's controller and broadcasts
// the resulting snapshot.
func (s *SessionService) dispatch(id, intent string, fn func(c *controller.Controller) (controller.Snapshot, error)) (controller.Snapshot, error) {
	session, err := s.lookup(id)
	if err != nil {
		return controller.Snapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return controller.Snapshot{}, ErrSessionNotFound
	}

	snap, err := fn(session.controller)
	if err != nil {
		s.logger.Debug("intent rejected", "session", id, "intent", intent, "error", err)
		return controller.Snapshot{}, err
	}

	s.logger.Debug("intent applied", "session", id, "intent", intent, "mode", snap.Mode, "students", len(snap.Students))
	session.broadcast(snap)
	return snap, nil
}

func (s *SessionService) Snapshot(id string) (controller.Snapshot, error) {
	session, err := s.lookup(id)
	if err != nil {
		return controller.Snapshot{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return controller.Snapshot{}, ErrSessionNotFound
	}
	return session.controller.Snapshot()
}

func (s *SessionService) Add(id string) (controller.Snapshot, error) {
	return s.dispatch(id, "add", (*controller.Controller).AddRequested)
}

func (s *SessionService) Edit(id string, studentID int64) (controller.Snapshot, error) {
	return s.dispatch(id, "edit", func(c *controller.Controller) (controller.Snapshot, error) {
		return c.EditRequested(studentID)
	})
}

func (s *SessionService) ChangeField(id string, field model.Field, value string) (controller.Snapshot, error) {
	return s.dispatch(id, "field", func(c *controller.Controller) (controller.Snapshot, error) {
		return c.FieldChanged(field, value)
	})
}

// Save commits the draft. A failed validation is returned as the second
// value together with the unchanged snapshot.
func (s *SessionService) Save(id string) (controller.Snapshot, *validation.ValidationError, error) {
	var verr *validation.ValidationError
	snap, err := s.dispatch(id, "save", func(c *controller.Controller) (controller.Snapshot, error) {
		snap, v, err := c.SaveRequested()
		verr = v
		return snap, err
	})
	if err != nil {
		return controller.Snapshot{}, nil, err
	}
	if verr != nil {
		s.logger.Debug("draft rejected", "session", id, "field", verr.Field, "rule", verr.Rule)
	}
	return snap, verr, nil
}

func (s *SessionService) Cancel(id string) (controller.Snapshot, error) {
	return s.dispatch(id, "cancel", (*controller.Controller).CancelRequested)
}

func (s *SessionService) Delete(id string, studentID int64) (controller.Snapshot, error) {
	return s.dispatch(id, "delete", func(c *controller.Controller) (controller.Snapshot, error) {
		return c.DeleteRequested(studentID)
	})
}

func (s *SessionService) Clear(id string) (controller.Snapshot, error) {
	return s.dispatch(id, "clear", (*controller.Controller).ClearRequested)
}

func (s *SessionService) ToggleLanguage(id string) (controller.Snapshot, error) {
	return s.dispatch(id, "language", (*controller.Controller).LanguageToggled)
}

func (s *SessionService) ToggleTheme(id string) (controller.Snapshot, error) {
	return s.dispatch(id, "theme", (*controller.Controller).ThemeToggled)
}

// Subscribe registers a listener for the session's snapshots. The returned
// channel is closed by the unsubscribe func or when the session closes.
func (s *SessionService) Subscribe(id string) (<-chan controller.Snapshot, func(), error) {
	session, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return nil, nil, ErrSessionNotFound
	}

	ch := make(chan controller.Snapshot, listenerBuffer)
	session.listenerLock.Lock()
	session.listeners[ch] = true
	session.listenerLock.Unlock()

	unsubscribe := func() {
		session.listenerLock.Lock()
		defer session.listenerLock.Unlock()
		if session.listeners[ch] {
			delete(session.listeners, ch)
			close(ch)
		}
	}
	return ch, unsubscribe, nil
}

// broadcast sends the snapshot to every listener that has room for it.
func (session *Session) broadcast(snap controller.Snapshot) {
	session.listenerLock.RLock()
	defer session.listenerLock.RUnlock()

	for listener := range session.listeners {
		select {
		case listener <- snap:
		default:
			// Skip if the listener is not ready
		}
	}
}
