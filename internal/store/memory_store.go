package store

import (
	"student-manager/internal/model"
)

// MemoryStore keeps records in a slice. It is not safe for concurrent use;
// the owning session serializes access.
type MemoryStore struct {
	students []model.Student
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) Add(student model.Student) error {
	if s.indexOf(student.ID) != -1 {
		return ErrDuplicateID
	}
	s.students = append(s.students, student)
	return nil
}

func (s *MemoryStore) Update(student model.Student) error {
	i := s.indexOf(student.ID)
	if i == -1 {
		return ErrNotFound
	}
	s.students[i] = student
	return nil
}

func (s *MemoryStore) Delete(id int64) (bool, error) {
	i := s.indexOf(id)
	if i == -1 {
		return false, nil
	}
	s.students = append(s.students[:i], s.students[i+1:]...)
	return true, nil
}

func (s *MemoryStore) Clear() error {
	s.students = nil
	return nil
}

func (s *MemoryStore) List() ([]model.Student, error) {
	// Return a copy to keep callers from mutating the store
	result := make([]model.Student, len(s.students))
	copy(result, s.students)
	return result, nil
}

func (s *MemoryStore) FindByID(id int64) (model.Student, error) {
	i := s.indexOf(id)
	if i == -1 {
		return model.Student{}, ErrNotFound
	}
	return s.students[i], nil
}
