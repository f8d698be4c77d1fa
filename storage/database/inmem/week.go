package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core/timetable"
)

type weekLessonRepository struct {
	db *weekLessonTable
}

var _ timetable.WeekLessonRepository = (*weekLessonRepository)(nil)

func NewWeekLessonRepository(db *DB) *weekLessonRepository {
	return &weekLessonRepository{db: db.week}
}

func (repo *weekLessonRepository) QueryWeekLessons(_ context.Context, classID string, weekStart time.Time) ([]timetable.WeekLesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	lessons := make([]timetable.WeekLesson, 0, len(repo.db.table))
	for _, les := range repo.db.table {
		if les.ClassID == classID && les.WeekStart.Equal(weekStart) {
			lessons = append(lessons, *les)
		}
	}
	return lessons, nil
}

func (repo *weekLessonRepository) GetWeekLessonByID(_ context.Context, id string) (timetable.WeekLesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if les, ok := repo.db.table[id]; ok {
		return *les, nil
	}
	return timetable.WeekLesson{}, timetable.ErrNotFound
}

func (repo *weekLessonRepository) GetWeekLessonForStable(_ context.Context, classID string, weekStart time.Time, stableLessonID string) (timetable.WeekLesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if les, ok := repo.findForStable(classID, weekStart, stableLessonID); ok {
		return les, nil
	}
	return timetable.WeekLesson{}, timetable.ErrNotFound
}

func (repo *weekLessonRepository) CreateWeekLesson(_ context.Context, les timetable.WeekLesson) (timetable.WeekLesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// same uniqueness rule the postgres partial index enforces
	if les.StableLessonID.Valid {
		if _, ok := repo.findForStable(les.ClassID, les.WeekStart, les.StableLessonID.String); ok {
			return timetable.WeekLesson{}, timetable.ErrDuplicateWeekLesson
		}
	}

	les.ID = uuid.New().String()
	repo.db.table[les.ID] = &les
	return les, nil
}

func (repo *weekLessonRepository) UpdateWeekLesson(_ context.Context, les timetable.WeekLesson) (timetable.WeekLesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[les.ID]; !ok {
		return timetable.WeekLesson{}, timetable.ErrNotFound
	}
	repo.db.table[les.ID] = &les
	return les, nil
}

func (repo *weekLessonRepository) DeleteWeekLesson(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}

// findForStable expects the caller to hold at least a read lock.
func (repo *weekLessonRepository) findForStable(classID string, weekStart time.Time, stableLessonID string) (timetable.WeekLesson, bool) {
	for _, les := range repo.db.table {
		if les.ClassID == classID && les.WeekStart.Equal(weekStart) &&
			les.StableLessonID.Valid && les.StableLessonID.String == stableLessonID {
			return *les, true
		}
	}
	return timetable.WeekLesson{}, false
}
