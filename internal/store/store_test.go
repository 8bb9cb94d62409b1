package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"student-manager/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&StudentRow{}))
	return db
}

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   NewGormStore(setupTestDB(t), "session-a"),
	}
}

var (
	ann  = model.Student{ID: 1, Name: "Ann", Email: "ann@test.com", Age: "21"}
	bob  = model.Student{ID: 2, Name: "Bob", Email: "bob@test.com", Age: "22"}
	cleo = model.Student{ID: 3, Name: "Cleo", Email: "cleo@test.com", Age: "23"}
)

func TestAddThenFind(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Add(ann))

			found, err := s.FindByID(ann.ID)
			require.NoError(t, err)
			assert.Equal(t, ann, found)

			_, err = s.FindByID(99)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Add(ann))

			dup := ann
			dup.Name = "Impostor"
			assert.ErrorIs(t, s.Add(dup), ErrDuplicateID)

			list, err := s.List()
			require.NoError(t, err)
			assert.Equal(t, []model.Student{ann}, list)
		})
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, st := range []model.Student{ann, bob, cleo} {
				require.NoError(t, s.Add(st))
			}

			changed := bob
			changed.Name = "Robert"
			changed.Age = "30"
			require.NoError(t, s.Update(changed))

			list, err := s.List()
			require.NoError(t, err)
			assert.Equal(t, []model.Student{ann, changed, cleo}, list)
		})
	}
}

func TestUpdateMissingLeavesStoreUnchanged(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Add(ann))

			ghost := model.Student{ID: 42, Name: "Ghost", Email: "g@h.io", Age: "1"}
			assert.ErrorIs(t, s.Update(ghost), ErrNotFound)

			list, err := s.List()
			require.NoError(t, err)
			assert.Equal(t, []model.Student{ann}, list)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, st := range []model.Student{ann, bob, cleo} {
				require.NoError(t, s.Add(st))
			}

			removed, err := s.Delete(bob.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = s.Delete(bob.ID)
			require.NoError(t, err)
			assert.False(t, removed)

			list, err := s.List()
			require.NoError(t, err)
			assert.Equal(t, []model.Student{ann, cleo}, list)
		})
	}
}

func TestClear(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Add(ann))
			require.NoError(t, s.Add(bob))
			require.NoError(t, s.Clear())

			list, err := s.List()
			require.NoError(t, err)
			assert.Empty(t, list)

			// ids of cleared records may be added again
			assert.NoError(t, s.Add(ann))
		})
	}
}

func TestListReturnsCopy(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Add(ann))

			list, err := s.List()
			require.NoError(t, err)
			list[0].Name = "Mutated"

			found, err := s.FindByID(ann.ID)
			require.NoError(t, err)
			assert.Equal(t, "Ann", found.Name)
		})
	}
}

func TestNoDuplicateIDsAcrossOperations(t *testing.T) {
	ops := []struct {
		op      string
		student model.Student
	}{
		{"add", ann},
		{"add", bob},
		{"add", ann},
		{"update", model.Student{ID: 2, Name: "B", Email: "b@b.bb", Age: "2"}},
		{"delete", bob},
		{"add", bob},
		{"add", bob},
		{"update", model.Student{ID: 7, Name: "X", Email: "x@x.xx", Age: "7"}},
		{"delete", cleo},
		{"add", cleo},
	}

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, o := range ops {
				before, err := s.List()
				require.NoError(t, err)

				switch o.op {
				case "add":
					_ = s.Add(o.student)
				case "update":
					_ = s.Update(o.student)
				case "delete":
					_, err := s.Delete(o.student.ID)
					require.NoError(t, err)
				}

				after, err := s.List()
				require.NoError(t, err)

				seen := map[int64]bool{}
				for _, st := range after {
					assert.False(t, seen[st.ID], "duplicate id %d after %s", st.ID, o.op)
					seen[st.ID] = true
				}
				if o.op == "delete" {
					assert.LessOrEqual(t, len(before)-len(after), 1)
				}
			}
		})
	}
}

func TestGormStoreSessionsAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	a := NewGormStore(db, "session-a")
	b := NewGormStore(db, "session-b")

	require.NoError(t, a.Add(ann))
	require.NoError(t, b.Add(ann))
	require.NoError(t, b.Add(bob))

	require.NoError(t, a.Clear())

	listA, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, listA)

	listB, err := b.List()
	require.NoError(t, err)
	assert.Equal(t, []model.Student{ann, bob}, listB)
}
