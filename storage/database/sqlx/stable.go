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

type stableLessonRow struct {
	ID        string              `db:"id"`
	ClassID   string              `db:"class_id"`
	SubjectID string              `db:"subject_id"`
	Day       int                 `db:"day_of_week"` // legacy 0=Sunday encoding
	Start     timetable.ClockTime `db:"start_time"`
	End       timetable.ClockTime `db:"end_time"`
	Room      null.String         `db:"room"`
	CreatedAt time.Time           `db:"created_at"`
	UpdatedAt time.Time           `db:"updated_at"`
}

func (row stableLessonRow) model() timetable.StableLesson {
	return timetable.StableLesson{
		ID:        row.ID,
		ClassID:   row.ClassID,
		SubjectID: row.SubjectID,
		Day:       legacyToISODay(row.Day),
		Start:     row.Start,
		End:       row.End,
		Room:      row.Room,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type stableLessonRepository struct {
	db *sqlx.DB
}

var _ timetable.StableLessonRepository = (*stableLessonRepository)(nil)

func NewStableLessonRepository(db *sqlx.DB) *stableLessonRepository {
	return &stableLessonRepository{db: db}
}

const stableLessonColumns = `id, class_id, subject_id, day_of_week, start_time, end_time, room, created_at, updated_at`

func (repo *stableLessonRepository) QueryStableLessons(ctx context.Context, classID string) ([]timetable.StableLesson, error) {
	var rows []stableLessonRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+stableLessonColumns+` FROM stable_lessons WHERE class_id = $1`+orderBy(lessonOrdering),
		classID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying stable lessons")
	}

	lessons := make([]timetable.StableLesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.model())
	}
	return lessons, nil
}

func (repo *stableLessonRepository) GetStableLessonByID(ctx context.Context, id string) (timetable.StableLesson, error) {
	var row stableLessonRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+stableLessonColumns+` FROM stable_lessons WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetable.StableLesson{}, timetable.ErrNotFound
		}
		return timetable.StableLesson{}, errors.Wrap(err, "getting stable lesson")
	}
	return row.model(), nil
}

func (repo *stableLessonRepository) CreateStableLesson(ctx context.Context, les timetable.StableLesson) (timetable.StableLesson, error) {
	les.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO stable_lessons (`+stableLessonColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		les.ID, les.ClassID, les.SubjectID, isoToLegacyDay(les.Day), les.Start, les.End, les.Room, les.CreatedAt, les.UpdatedAt,
	)
	if err != nil {
		return timetable.StableLesson{}, errors.Wrap(err, "inserting stable lesson")
	}
	return les, nil
}

func (repo *stableLessonRepository) UpdateStableLesson(ctx context.Context, les timetable.StableLesson) (timetable.StableLesson, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE stable_lessons
		 SET subject_id = $2, day_of_week = $3, start_time = $4, end_time = $5, room = $6, updated_at = $7
		 WHERE id = $1`,
		les.ID, les.SubjectID, isoToLegacyDay(les.Day), les.Start, les.End, les.Room, les.UpdatedAt,
	)
	if err != nil {
		return timetable.StableLesson{}, errors.Wrap(err, "updating stable lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return timetable.StableLesson{}, timetable.ErrNotFound
	}
	return les, nil
}

// DeleteStableLesson is unconditional; week overrides referencing the lesson
// keep their (now dangling) stable_lesson_id on purpose.
func (repo *stableLessonRepository) DeleteStableLesson(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM stable_lessons WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting stable lesson")
	}
	return nil
}
