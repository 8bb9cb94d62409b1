// Package controller tracks which record is being edited and whether the
// form is shown, and turns user intents into store mutations.
package controller

import (
	"errors"
	"fmt"

	"student-manager/internal/model"
	"student-manager/internal/store"
	"student-manager/internal/validation"
)

var (
	ErrInvalidTransition = errors.New("intent not allowed in current state")
	ErrUnknownField      = errors.New("unknown field")
)

type State string

const (
	Idle    State = "idle"
	Adding  State = "adding"
	Editing State = "editing"
)

// Snapshot is a value copy of everything the presentation layer renders.
type Snapshot struct {
	Students    []model.Student `json:"students"`
	Draft       model.Student   `json:"draft"`
	FormVisible bool            `json:"formVisible"`
	Mode        State           `json:"mode"`
	Language    model.Language  `json:"language"`
	Theme       model.Theme     `json:"theme"`
}

// Controller is owned by one session and is not safe for concurrent use.
type Controller struct {
	store    store.Store
	ids      IDSource
	state    State
	draft    model.Student
	language model.Language
	theme    model.Theme
}

func New(s store.Store, ids IDSource, language model.Language, theme model.Theme) *Controller {
	return &Controller{
		store:    s,
		ids:      ids,
		state:    Idle,
		language: language,
		theme:    theme,
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Language() model.Language {
	return c.language
}

// Snapshot reads the current store contents together with the view state.
func (c *Controller) Snapshot() (Snapshot, error) {
	students, err := c.store.List()
	if err != nil {
		return Snapshot{}, fmt.Errorf("list students: %w", err)
	}
	return Snapshot{
		Students:    students,
		Draft:       c.draft,
		FormVisible: c.state != Idle,
		Mode:        c.state,
		Language:    c.language,
		Theme:       c.theme,
	}, nil
}

// AddRequested opens the form with a blank draft.
func (c *Controller) AddRequested() (Snapshot, error) {
	if c.state != Idle {
		return Snapshot{}, ErrInvalidTransition
	}
	c.draft = model.Student{}
	c.state = Adding
	return c.Snapshot()
}

// EditRequested opens the form with a copy of the record. An unknown id
// leaves the controller idle.
func (c *Controller) EditRequested(id int64) (Snapshot, error) {
	if c.state != Idle {
		return Snapshot{}, ErrInvalidTransition
	}
	student, err := c.store.FindByID(id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Snapshot()
	case err != nil:
		return Snapshot{}, err
	}
	c.draft = student
	c.state = Editing
	return c.Snapshot()
}

// FieldChanged edits the draft only.
func (c *Controller) FieldChanged(field model.Field, value string) (Snapshot, error) {
	if c.state == Idle {
		return Snapshot{}, ErrInvalidTransition
	}
	if !c.draft.Set(field, value) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return c.Snapshot()
}

// SaveRequested validates the draft and commits it. On a validation failure
// the state and draft are kept and the failure is returned as the second
// value with a nil error.
func (c *Controller) SaveRequested() (Snapshot, *validation.ValidationError, error) {
	if c.state == Idle {
		return Snapshot{}, nil, ErrInvalidTransition
	}

	if verr := validation.Validate(c.draft); verr != nil {
		snap, err := c.Snapshot()
		return snap, verr, err
	}

	switch c.state {
	case Adding:
		student := c.draft
		student.ID = c.ids.Next()
		if err := c.store.Add(student); err != nil {
			return Snapshot{}, nil, fmt.Errorf("add student: %w", err)
		}
	case Editing:
		// The record may have been deleted while the form was open.
		if err := c.store.Update(c.draft); err != nil && !errors.Is(err, store.ErrNotFound) {
			return Snapshot{}, nil, fmt.Errorf("update student %d: %w", c.draft.ID, err)
		}
	}

	c.closeForm()
	snap, err := c.Snapshot()
	return snap, nil, err
}

// CancelRequested discards the draft. It is a no-op when idle.
func (c *Controller) CancelRequested() (Snapshot, error) {
	c.closeForm()
	return c.Snapshot()
}

// DeleteRequested removes the record if present.
func (c *Controller) DeleteRequested(id int64) (Snapshot, error) {
	if _, err := c.store.Delete(id); err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot()
}

// ClearRequested removes every record.
func (c *Controller) ClearRequested() (Snapshot, error) {
	if err := c.store.Clear(); err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot()
}

func (c *Controller) LanguageToggled() (Snapshot, error) {
	c.language = c.language.Toggle()
	return c.Snapshot()
}

func (c *Controller) ThemeToggled() (Snapshot, error) {
	c.theme = c.theme.Toggle()
	return c.Snapshot()
}

func (c *Controller) closeForm() {
	c.draft = model.Student{}
	c.state = Idle
}
