package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"student-manager/internal/model"
)

// StudentRow is the table layout used by GormStore. Rows of all sessions
// share one table and are told apart by SessionID.
type StudentRow struct {
	SessionID string `gorm:"primaryKey;size:64"`
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Position  int64  `gorm:"index"`
	Name      string
	Email     string
	Age       string
}

func (StudentRow) TableName() string {
	return "students"
}

func (r StudentRow) toModel() model.Student {
	return model.Student{ID: r.ID, Name: r.Name, Email: r.Email, Age: r.Age}
}

// GormStore is a Store over a gorm database, scoped to a single session.
type GormStore struct {
	db        *gorm.DB
	sessionID string
}

func NewGormStore(db *gorm.DB, sessionID string) *GormStore {
	return &GormStore{db: db, sessionID: sessionID}
}

func (s *GormStore) scope() *gorm.DB {
	return s.db.Model(&StudentRow{}).Where("session_id = ?", s.sessionID)
}

func (s *GormStore) Add(student model.Student) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&StudentRow{}).
			Where("session_id = ? AND id = ?", s.sessionID, student.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check student %d: %w", student.ID, err)
		}
		if count > 0 {
			return ErrDuplicateID
		}

		var last int64
		if err := tx.Model(&StudentRow{}).
			Where("session_id = ?", s.sessionID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("read last position: %w", err)
		}

		row := StudentRow{
			SessionID: s.sessionID,
			ID:        student.ID,
			Position:  last + 1,
			Name:      student.Name,
			Email:     student.Email,
			Age:       student.Age,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert student %d: %w", student.ID, err)
		}
		return nil
	})
}

func (s *GormStore) Update(student model.Student) error {
	result := s.scope().
		Where("id = ?", student.ID).
		Updates(map[string]interface{}{
			"name":  student.Name,
			"email": student.Email,
			"age":   student.Age,
		})
	if result.Error != nil {
		return fmt.Errorf("update student %d: %w", student.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(id int64) (bool, error) {
	result := s.db.Where("session_id = ? AND id = ?", s.sessionID, id).Delete(&StudentRow{})
	if result.Error != nil {
		return false, fmt.Errorf("delete student %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) Clear() error {
	if err := s.db.Where("session_id = ?", s.sessionID).Delete(&StudentRow{}).Error; err != nil {
		return fmt.Errorf("clear students: %w", err)
	}
	return nil
}

func (s *GormStore) List() ([]model.Student, error) {
	var rows []StudentRow
	if err := s.scope().Order("position asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	students := make([]model.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toModel())
	}
	return students, nil
}

func (s *GormStore) FindByID(id int64) (model.Student, error) {
	var row StudentRow
	err := s.scope().Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Student{}, ErrNotFound
	}
	if err != nil {
		return model.Student{}, fmt.Errorf("find student %d: %w", id, err)
	}
	return row.toModel(), nil
}
