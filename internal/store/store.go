// Package store holds the ordered, id-unique collection of student records
// that belongs to one session.
package store

import (
	"errors"

	"student-manager/internal/model"
)

var (
	ErrNotFound    = errors.New("student not found")
	ErrDuplicateID = errors.New("student id already exists")
)

// Store is the record store contract. Records keep insertion order; Update
// never moves a record and Add never overwrites one.
type Store interface {
	Add(student model.Student) error
	// Update replaces the fields of the record with the same id. It returns
	// ErrNotFound and leaves the store unchanged when no such record exists.
	Update(student model.Student) error
	// Delete reports whether a record was removed.
	Delete(id int64) (bool, error)
	Clear() error
	// List returns a copy; changing it does not change the store.
	List() ([]model.Student, error)
	FindByID(id int64) (model.Student, error)
}
