package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core/timetable"
)

type classRepository struct {
	db *classTable
}

var _ timetable.ClassRepository = (*classRepository)(nil)

func NewClassRepository(db *DB) *classRepository {
	return &classRepository{db: db.class}
}

func (repo *classRepository) CreateClass(_ context.Context, cls timetable.Class) (timetable.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cls.ID = uuid.New().String()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(_ context.Context) ([]timetable.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]timetable.Class, 0, len(repo.db.table))
	for _, cls := range repo.db.table {
		classes = append(classes, *cls)
	}
	return classes, nil
}

func (repo *classRepository) GetClassByID(_ context.Context, id string) (timetable.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return timetable.Class{}, timetable.ErrClassNotFound
}
