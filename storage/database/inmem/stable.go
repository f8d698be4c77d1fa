package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core/timetable"
)

type stableLessonRepository struct {
	db *stableLessonTable
}

var _ timetable.StableLessonRepository = (*stableLessonRepository)(nil)

func NewStableLessonRepository(db *DB) *stableLessonRepository {
	return &stableLessonRepository{db: db.stable}
}

func (repo *stableLessonRepository) QueryStableLessons(_ context.Context, classID string) ([]timetable.StableLesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	lessons := make([]timetable.StableLesson, 0, len(repo.db.table))
	for _, les := range repo.db.table {
		if les.ClassID == classID {
			lessons = append(lessons, *les)
		}
	}
	return lessons, nil
}

func (repo *stableLessonRepository) GetStableLessonByID(_ context.Context, id string) (timetable.StableLesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if les, ok := repo.db.table[id]; ok {
		return *les, nil
	}
	return timetable.StableLesson{}, timetable.ErrNotFound
}

func (repo *stableLessonRepository) CreateStableLesson(_ context.Context, les timetable.StableLesson) (timetable.StableLesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	les.ID = uuid.New().String()
	repo.db.table[les.ID] = &les
	return les, nil
}

func (repo *stableLessonRepository) UpdateStableLesson(_ context.Context, les timetable.StableLesson) (timetable.StableLesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[les.ID]; !ok {
		return timetable.StableLesson{}, timetable.ErrNotFound
	}
	repo.db.table[les.ID] = &les
	return les, nil
}

func (repo *stableLessonRepository) DeleteStableLesson(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}
