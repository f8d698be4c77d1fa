package subject

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrNameExists = errors.New("a subject with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Subject) error
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubject(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name string, excluded ...Subject) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name, excluded...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	sub := Subject{
		Name:        ns.Name,
		Color:       ns.Color,
		TeacherID:   null.NewString(ns.TeacherID, ns.TeacherID != ""),
		TeacherName: null.NewString(ns.TeacherName, ns.TeacherName != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateSubject(ctx, sub)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Subject, error) {
	subs, err := svc.repo.QueryAllSubjects(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
	return subs, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	sub, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}

	if us.Name != nil {
		sub.Name = *us.Name
	}
	if us.Color != nil {
		sub.Color = *us.Color
	}
	if us.TeacherID != nil {
		sub.TeacherID = null.NewString(*us.TeacherID, *us.TeacherID != "")
	}
	if us.TeacherName != nil {
		sub.TeacherName = null.NewString(*us.TeacherName, *us.TeacherName != "")
	}
	sub.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateSubject(ctx, sub)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSubject(ctx, id)
}

// Search returns subjects matching `query` by name, best match first.
// Substring matches rank highest; the rest are ranked by similarity ratio.
func (svc *Service) Search(ctx context.Context, query string) ([]Subject, error) {
	query = core.CleanString(query, true /* lower */)
	if query == "" {
		return svc.QueryAll(ctx)
	}

	subs, err := svc.repo.QueryAllSubjects(ctx)
	if err != nil {
		return nil, err
	}

	type match struct {
		sub   Subject
		score float64
	}
	matches := make([]match, 0, len(subs))
	for _, sub := range subs {
		name := strings.ToLower(sub.Name)
		score := similarity(query, name)
		if strings.Contains(name, query) {
			score = 1
		}
		if score >= minSearchSimilarity {
			matches = append(matches, match{sub: sub, score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].sub.Name < matches[j].sub.Name
	})

	res := make([]Subject, 0, len(matches))
	for _, m := range matches {
		res = append(res, m.sub)
	}
	return res, nil
}
