package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core/timetable"
)

type weekLessonRow struct {
	ID                string              `db:"id"`
	ClassID           string              `db:"class_id"`
	StableLessonID    null.String         `db:"stable_lesson_id"`
	WeekStart         time.Time           `db:"week_start"`
	SubjectID         string              `db:"subject_id"`
	Day               int                 `db:"day_of_week"` // legacy 0=Sunday encoding
	Start             timetable.ClockTime `db:"start_time"`
	End               timetable.ClockTime `db:"end_time"`
	Room              null.String         `db:"room"`
	Status            string              `db:"status"`
	SubstituteTeacher null.String         `db:"substitute_teacher"`
	Note              null.String         `db:"note"`
	CreatedAt         time.Time           `db:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at"`
}

func (row weekLessonRow) model() timetable.WeekLesson {
	return timetable.WeekLesson{
		ID:                row.ID,
		ClassID:           row.ClassID,
		StableLessonID:    row.StableLessonID,
		WeekStart:         row.WeekStart.UTC(),
		SubjectID:         row.SubjectID,
		Day:               legacyToISODay(row.Day),
		Start:             row.Start,
		End:               row.End,
		Room:              row.Room,
		Status:            timetable.LessonStatus(row.Status),
		SubstituteTeacher: row.SubstituteTeacher,
		Note:              row.Note,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

type weekLessonRepository struct {
	db *sqlx.DB
}

var _ timetable.WeekLessonRepository = (*weekLessonRepository)(nil)

func NewWeekLessonRepository(db *sqlx.DB) *weekLessonRepository {
	return &weekLessonRepository{db: db}
}

const weekLessonColumns = `id, class_id, stable_lesson_id, week_start, subject_id, day_of_week, ` +
	`start_time, end_time, room, status, substitute_teacher, note, created_at, updated_at`

func (repo *weekLessonRepository) QueryWeekLessons(ctx context.Context, classID string, weekStart time.Time) ([]timetable.WeekLesson, error) {
	var rows []weekLessonRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+weekLessonColumns+` FROM week_lessons WHERE class_id = $1 AND week_start = $2`+orderBy(lessonOrdering),
		classID, weekStart,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying week lessons")
	}

	lessons := make([]timetable.WeekLesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.model())
	}
	return lessons, nil
}

func (repo *weekLessonRepository) GetWeekLessonByID(ctx context.Context, id string) (timetable.WeekLesson, error) {
	var row weekLessonRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+weekLessonColumns+` FROM week_lessons WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetable.WeekLesson{}, timetable.ErrNotFound
		}
		return timetable.WeekLesson{}, errors.Wrap(err, "getting week lesson")
	}
	return row.model(), nil
}

func (repo *weekLessonRepository) GetWeekLessonForStable(ctx context.Context, classID string, weekStart time.Time, stableLessonID string) (timetable.WeekLesson, error) {
	var row weekLessonRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+weekLessonColumns+` FROM week_lessons WHERE class_id = $1 AND week_start = $2 AND stable_lesson_id = $3`,
		classID, weekStart, stableLessonID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetable.WeekLesson{}, timetable.ErrNotFound
		}
		return timetable.WeekLesson{}, errors.Wrap(err, "getting week lesson for stable lesson")
	}
	return row.model(), nil
}

func (repo *weekLessonRepository) CreateWeekLesson(ctx context.Context, les timetable.WeekLesson) (timetable.WeekLesson, error) {
	les.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO week_lessons (`+weekLessonColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		les.ID, les.ClassID, les.StableLessonID, les.WeekStart, les.SubjectID, isoToLegacyDay(les.Day),
		les.Start, les.End, les.Room, string(les.Status), les.SubstituteTeacher, les.Note, les.CreatedAt, les.UpdatedAt,
	)
	if err != nil {
		// the partial unique index backs copy idempotence
		if isUniqueViolation(err) {
			return timetable.WeekLesson{}, timetable.ErrDuplicateWeekLesson
		}
		return timetable.WeekLesson{}, errors.Wrap(err, "inserting week lesson")
	}
	return les, nil
}

func (repo *weekLessonRepository) UpdateWeekLesson(ctx context.Context, les timetable.WeekLesson) (timetable.WeekLesson, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE week_lessons
		 SET subject_id = $2, day_of_week = $3, start_time = $4, end_time = $5, room = $6,
		     status = $7, substitute_teacher = $8, note = $9, updated_at = $10
		 WHERE id = $1`,
		les.ID, les.SubjectID, isoToLegacyDay(les.Day), les.Start, les.End, les.Room,
		string(les.Status), les.SubstituteTeacher, les.Note, les.UpdatedAt,
	)
	if err != nil {
		return timetable.WeekLesson{}, errors.Wrap(err, "updating week lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timetable.WeekLesson{}, timetable.ErrNotFound
	}
	return les, nil
}

func (repo *weekLessonRepository) DeleteWeekLesson(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM week_lessons WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting week lesson")
	}
	return nil
}
