package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core/subject"
)

type subjectRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Color       int64       `db:"color"`
	TeacherID   null.String `db:"teacher_id"`
	TeacherName null.String `db:"teacher_name"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (row subjectRow) model() subject.Subject {
	return subject.Subject{
		ID:          row.ID,
		Name:        row.Name,
		Color:       uint32(row.Color),
		TeacherID:   row.TeacherID,
		TeacherName: row.TeacherName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *sqlx.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...subject.Subject) error {
	query := `SELECT EXISTS (SELECT 1 FROM subjects WHERE lower(name) = lower($1)`
	args := []interface{}{name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, sub := range excluded {
			ids = append(ids, sub.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.Array(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking subject uniqueness")
	}
	if exists {
		return subject.ErrNameExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO subjects (id, name, color, teacher_id, teacher_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.Name, int64(sub.Color), sub.TeacherID, sub.TeacherName, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	var rows []subjectRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, color, teacher_id, teacher_name, created_at, updated_at FROM subjects ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	subs := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.model())
	}
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id string) (subject.Subject, error) {
	var row subjectRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, color, teacher_id, teacher_name, created_at, updated_at FROM subjects WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, errors.Wrap(err, "getting subject")
	}
	return row.model(), nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE subjects SET name = $2, color = $3, teacher_id = $4, teacher_name = $5, updated_at = $6 WHERE id = $1`,
		sub.ID, sub.Name, int64(sub.Color), sub.TeacherID, sub.TeacherName, sub.UpdatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return sub, nil
}

func (repo *subjectRepository) DeleteSubject(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}
