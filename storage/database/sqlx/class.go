package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/timetable"
)

type classRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row classRow) model() timetable.Class {
	return timetable.Class{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type classRepository struct {
	db *sqlx.DB
}

var _ timetable.ClassRepository = (*classRepository)(nil)

func NewClassRepository(db *sqlx.DB) *classRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(ctx context.Context, cls timetable.Class) (timetable.Class, error) {
	cls.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO classes (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		cls.ID, cls.Name, cls.CreatedAt, cls.UpdatedAt,
	)
	if err != nil {
		return timetable.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(ctx context.Context) ([]timetable.Class, error) {
	var rows []classRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, created_at, updated_at FROM classes ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	classes := make([]timetable.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.model())
	}
	return classes, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (timetable.Class, error) {
	var row classRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, created_at, updated_at FROM classes WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetable.Class{}, timetable.ErrClassNotFound
		}
		return timetable.Class{}, errors.Wrap(err, "getting class")
	}
	return row.model(), nil
}
