package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core/subject"
)

type subjectRepository struct {
	db *subjectTable
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *DB) *subjectRepository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) CheckNameUniqueness(_ context.Context, name string, excluded ...subject.Subject) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sub := range repo.db.table {
		if !strings.EqualFold(sub.Name, name) {
			continue
		}
		if isExcluded(sub.ID, excluded) {
			continue
		}
		return subject.ErrNameExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = uuid.New().String()
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) QueryAllSubjects(_ context.Context) ([]subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]subject.Subject, 0, len(repo.db.table))
	for _, sub := range repo.db.table {
		subs = append(subs, *sub)
	}
	return subs, nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[sub.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}

func isExcluded(id string, excluded []subject.Subject) bool {
	for _, sub := range excluded {
		if sub.ID == id {
			return true
		}
	}
	return false
}
