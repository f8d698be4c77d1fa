package timetable

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

var (
	// errors
	ErrNotFound            = errors.New("lesson not found")
	ErrClassNotFound       = errors.New("class not found")
	ErrDuplicateWeekLesson = errors.New("an override for this stable lesson already exists for this week")
)

// SlotConflictError reports a create/update that would overlap an existing
// lesson in the same effective week. It carries the colliding lesson's id and
// time range so callers can point at the offender.
type SlotConflictError struct {
	LessonID string
	Day      int
	Start    ClockTime
	End      ClockTime
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict with lesson %s (%s - %s)", e.LessonID, e.Start, e.End)
}

type (
	ClassRepository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
	}

	StableLessonRepository interface {
		QueryStableLessons(ctx context.Context, classID string) ([]StableLesson, error)
		GetStableLessonByID(ctx context.Context, id string) (StableLesson, error)
		CreateStableLesson(ctx context.Context, les StableLesson) (StableLesson, error)
		UpdateStableLesson(ctx context.Context, les StableLesson) (StableLesson, error)
		DeleteStableLesson(ctx context.Context, id string) error
	}

	// WeekLessonRepository stores per-week overrides, keyed by the normalized
	// Monday. CreateWeekLesson must fail with ErrDuplicateWeekLesson when an
	// override for the same (class, week, stable lesson) already exists.
	WeekLessonRepository interface {
		QueryWeekLessons(ctx context.Context, classID string, weekStart time.Time) ([]WeekLesson, error)
		GetWeekLessonByID(ctx context.Context, id string) (WeekLesson, error)
		GetWeekLessonForStable(ctx context.Context, classID string, weekStart time.Time, stableLessonID string) (WeekLesson, error)
		CreateWeekLesson(ctx context.Context, les WeekLesson) (WeekLesson, error)
		UpdateWeekLesson(ctx context.Context, les WeekLesson) (WeekLesson, error)
		DeleteWeekLesson(ctx context.Context, id string) error
	}

	Service struct {
		classes  ClassRepository
		stable   StableLessonRepository
		weeks    WeekLessonRepository
		subjects subject.Repository
	}
)

func NewService(classes ClassRepository, stable StableLessonRepository, weeks WeekLessonRepository, subjects subject.Repository) *Service {
	return &Service{
		classes:  classes,
		stable:   stable,
		weeks:    weeks,
		subjects: subjects,
	}
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	return svc.classes.CreateClass(ctx, Class{
		Name:      nc.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAllClasses(ctx context.Context) ([]Class, error) {
	classes, err := svc.classes.QueryAllClasses(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (svc *Service) GetClassByID(ctx context.Context, id string) (Class, error) {
	return svc.classes.GetClassByID(ctx, id)
}

// Stable timetable

// StableTimetable returns the baseline weekly template for a class, grouped
// by ISO weekday, each day ordered by start time. A class with no lessons yet
// yields an empty mapping, not an error.
func (svc *Service) StableTimetable(ctx context.Context, classID string) (map[int][]StableLesson, error) {
	if _, err := svc.classes.GetClassByID(ctx, classID); err != nil {
		return nil, err
	}
	lessons, err := svc.stable.QueryStableLessons(ctx, classID)
	if err != nil {
		return nil, err
	}

	days := make(map[int][]StableLesson)
	for _, les := range lessons {
		days[les.Day] = append(days[les.Day], les)
	}
	for day := range days {
		lessons := days[day]
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Start < lessons[j].Start })
	}
	return days, nil
}

func (svc *Service) CreateStableLesson(ctx context.Context, nl NewStableLesson) (StableLesson, error) {
	if _, err := svc.classes.GetClassByID(ctx, nl.ClassID); err != nil {
		return StableLesson{}, err
	}
	if _, err := svc.subjects.GetSubjectByID(ctx, nl.SubjectID); err != nil {
		return StableLesson{}, err
	}
	start, end, err := parseTimes(nl.Start, nl.End)
	if err != nil {
		return StableLesson{}, err
	}
	if err := svc.checkStableConflict(ctx, nl.ClassID, nl.Day, start, end, ""); err != nil {
		return StableLesson{}, err
	}

	now := time.Now().UTC()
	les := StableLesson{
		ClassID:   nl.ClassID,
		SubjectID: nl.SubjectID,
		Day:       nl.Day,
		Start:     start,
		End:       end,
		Room:      null.NewString(nl.Room, nl.Room != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.stable.CreateStableLesson(ctx, les)
}

func (svc *Service) UpdateStableLesson(ctx context.Context, id string, ul UpdateStableLesson) (StableLesson, error) {
	les, err := svc.stable.GetStableLessonByID(ctx, id)
	if err != nil {
		return StableLesson{}, err
	}

	if ul.SubjectID != nil && *ul.SubjectID != les.SubjectID {
		if _, err := svc.subjects.GetSubjectByID(ctx, *ul.SubjectID); err != nil {
			return StableLesson{}, err
		}
		les.SubjectID = *ul.SubjectID
	}
	if ul.Day != nil {
		les.Day = *ul.Day
	}
	if err := applyTimes(&les.Start, &les.End, ul.Start, ul.End); err != nil {
		return StableLesson{}, err
	}
	if ul.Room != nil {
		les.Room = null.NewString(*ul.Room, *ul.Room != "")
	}

	if err := svc.checkStableConflict(ctx, les.ClassID, les.Day, les.Start, les.End, les.ID); err != nil {
		return StableLesson{}, err
	}

	les.UpdatedAt = time.Now().UTC()
	return svc.stable.UpdateStableLesson(ctx, les)
}

// DeleteStableLesson removes a baseline slot unconditionally. Week overrides
// referencing it are left in place with a now-dangling reference, per the
// weak-reference rule.
func (svc *Service) DeleteStableLesson(ctx context.Context, id string) error {
	return svc.stable.DeleteStableLesson(ctx, id)
}

// Week overrides

// WeekOverrides lists the overrides for a class and week. Any date within the
// week may be supplied; it is normalized to the Monday.
func (svc *Service) WeekOverrides(ctx context.Context, classID string, date time.Time) ([]WeekLesson, error) {
	if _, err := svc.classes.GetClassByID(ctx, classID); err != nil {
		return nil, err
	}
	lessons, err := svc.weeks.QueryWeekLessons(ctx, classID, NormalizeWeekStart(date))
	if err != nil {
		return nil, err
	}
	sortWeekLessons(lessons)
	return lessons, nil
}

func (svc *Service) CreateWeekLesson(ctx context.Context, nl NewWeekLesson) (WeekLesson, error) {
	week := NormalizeWeekStart(nl.WeekStart)

	if _, err := svc.classes.GetClassByID(ctx, nl.ClassID); err != nil {
		return WeekLesson{}, err
	}
	if _, err := svc.subjects.GetSubjectByID(ctx, nl.SubjectID); err != nil {
		return WeekLesson{}, err
	}
	if nl.StableLessonID != "" {
		if _, err := svc.stable.GetStableLessonByID(ctx, nl.StableLessonID); err != nil {
			return WeekLesson{}, err
		}
		if _, err := svc.weeks.GetWeekLessonForStable(ctx, nl.ClassID, week, nl.StableLessonID); err == nil {
			return WeekLesson{}, ErrDuplicateWeekLesson
		} else if err != ErrNotFound {
			return WeekLesson{}, err
		}
	}
	start, end, err := parseTimes(nl.Start, nl.End)
	if err != nil {
		return WeekLesson{}, err
	}
	// an addition must not collide with anything the student will actually
	// see that week: overrides plus unshadowed stable lessons
	if err := svc.checkWeekConflict(ctx, nl.ClassID, week, nl.Day, start, end, nl.StableLessonID); err != nil {
		return WeekLesson{}, err
	}

	status := LessonStatus(nl.Status)
	if status == "" {
		status = StatusNormal
	}
	now := time.Now().UTC()
	les := WeekLesson{
		ClassID:           nl.ClassID,
		StableLessonID:    null.NewString(nl.StableLessonID, nl.StableLessonID != ""),
		WeekStart:         week,
		SubjectID:         nl.SubjectID,
		Day:               nl.Day,
		Start:             start,
		End:               end,
		Room:              null.NewString(nl.Room, nl.Room != ""),
		Status:            status,
		SubstituteTeacher: null.NewString(nl.SubstituteTeacher, nl.SubstituteTeacher != ""),
		Note:              null.NewString(nl.Note, nl.Note != ""),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return svc.weeks.CreateWeekLesson(ctx, les)
}

func (svc *Service) UpdateWeekLesson(ctx context.Context, id string, ul UpdateWeekLesson) (WeekLesson, error) {
	les, err := svc.weeks.GetWeekLessonByID(ctx, id)
	if err != nil {
		return WeekLesson{}, err
	}

	if ul.SubjectID != nil && *ul.SubjectID != les.SubjectID {
		if _, err := svc.subjects.GetSubjectByID(ctx, *ul.SubjectID); err != nil {
			return WeekLesson{}, err
		}
		les.SubjectID = *ul.SubjectID
	}
	if ul.Day != nil {
		les.Day = *ul.Day
	}
	if err := applyTimes(&les.Start, &les.End, ul.Start, ul.End); err != nil {
		return WeekLesson{}, err
	}
	if ul.Room != nil {
		// supplied empty clears the room; nil left it alone above
		les.Room = null.NewString(*ul.Room, *ul.Room != "")
	}
	if ul.Status != nil {
		les.Status = LessonStatus(*ul.Status)
		if les.Status != StatusSubstitution {
			les.SubstituteTeacher = null.String{}
		}
	}
	if ul.SubstituteTeacher != nil {
		les.SubstituteTeacher = null.NewString(*ul.SubstituteTeacher, *ul.SubstituteTeacher != "")
	}
	if ul.Note != nil {
		les.Note = null.NewString(*ul.Note, *ul.Note != "")
	}

	if les.Status == StatusSubstitution && les.SubstituteTeacher.String == "" {
		return WeekLesson{}, core.NewValidationError(nil, core.FieldError{Field: "substitute_teacher", Error: substituteText})
	}
	if err := svc.checkWeekConflict(ctx, les.ClassID, les.WeekStart, les.Day, les.Start, les.End, les.ID); err != nil {
		return WeekLesson{}, err
	}

	les.UpdatedAt = time.Now().UTC()
	return svc.weeks.UpdateWeekLesson(ctx, les)
}

// DeleteWeekLesson removes an override; the slot reverts to the stable lesson
// (if any) on the next read.
func (svc *Service) DeleteWeekLesson(ctx context.Context, id string) error {
	return svc.weeks.DeleteWeekLesson(ctx, id)
}

// CopyWeekFromStable materializes a full set of overrides copying the stable
// timetable verbatim for the given week, enabling independent edits without
// touching the baseline. Idempotent: stable lessons already materialized for
// that week are returned as-is, and a duplicate-key failure from a concurrent
// copy is treated as "already exists, continue".
func (svc *Service) CopyWeekFromStable(ctx context.Context, classID string, date time.Time) ([]WeekLesson, error) {
	week := NormalizeWeekStart(date)
	if _, err := svc.classes.GetClassByID(ctx, classID); err != nil {
		return nil, err
	}
	stable, overrides, err := svc.fetchWeekData(ctx, classID, week)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]WeekLesson, len(overrides))
	for _, o := range overrides {
		if o.StableLessonID.Valid {
			existing[o.StableLessonID.String] = o
		}
	}

	now := time.Now().UTC()
	out := make([]WeekLesson, 0, len(stable))
	for _, s := range stable {
		if o, ok := existing[s.ID]; ok {
			out = append(out, o)
			continue
		}
		les := WeekLesson{
			ClassID:        classID,
			StableLessonID: null.StringFrom(s.ID),
			WeekStart:      week,
			SubjectID:      s.SubjectID,
			Day:            s.Day,
			Start:          s.Start,
			End:            s.End,
			Room:           s.Room,
			Status:         StatusNormal,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		created, err := svc.weeks.CreateWeekLesson(ctx, les)
		if err != nil {
			if err == ErrDuplicateWeekLesson {
				// lost a race with another copy; take the winner's row
				if winner, gErr := svc.weeks.GetWeekLessonForStable(ctx, classID, week, s.ID); gErr == nil {
					out = append(out, winner)
					continue
				}
			}
			return nil, err
		}
		out = append(out, created)
	}
	sortWeekLessons(out)
	return out, nil
}

// Reconciliation

// EffectiveWeek computes the effective view of one calendar week: the stable
// template merged with that week's overrides, grouped by weekday and tagged
// with what changed. Any date within the week may be supplied.
func (svc *Service) EffectiveWeek(ctx context.Context, classID string, date time.Time) (EffectiveWeek, error) {
	week := NormalizeWeekStart(date)
	if _, err := svc.classes.GetClassByID(ctx, classID); err != nil {
		return EffectiveWeek{}, err
	}

	// three independent reads; issue them concurrently
	var (
		wg        sync.WaitGroup
		stable    []StableLesson
		overrides []WeekLesson
		subs      []subject.Subject

		stableErr, weekErr, subErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		stable, stableErr = svc.stable.QueryStableLessons(ctx, classID)
	}()
	go func() {
		defer wg.Done()
		overrides, weekErr = svc.weeks.QueryWeekLessons(ctx, classID, week)
	}()
	go func() {
		defer wg.Done()
		subs, subErr = svc.subjects.QueryAllSubjects(ctx)
	}()
	wg.Wait()
	for _, err := range []error{stableErr, weekErr, subErr} {
		if err != nil {
			return EffectiveWeek{}, err
		}
	}

	return EffectiveWeek{
		ClassID:   classID,
		WeekStart: week,
		Days:      reconcile(stable, overrides, subjectMap(subs)),
	}, nil
}

// StableWeek renders the baseline view: stable lessons only, all marked
// stable, no overrides consulted.
func (svc *Service) StableWeek(ctx context.Context, classID string) (EffectiveWeek, error) {
	if _, err := svc.classes.GetClassByID(ctx, classID); err != nil {
		return EffectiveWeek{}, err
	}

	var (
		wg     sync.WaitGroup
		stable []StableLesson
		subs   []subject.Subject

		stableErr, subErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		stable, stableErr = svc.stable.QueryStableLessons(ctx, classID)
	}()
	go func() {
		defer wg.Done()
		subs, subErr = svc.subjects.QueryAllSubjects(ctx)
	}()
	wg.Wait()
	if stableErr != nil {
		return EffectiveWeek{}, stableErr
	}
	if subErr != nil {
		return EffectiveWeek{}, subErr
	}

	return EffectiveWeek{
		ClassID: classID,
		Days:    stableView(stable, subjectMap(subs)),
	}, nil
}

// helpers

func (svc *Service) fetchWeekData(ctx context.Context, classID string, weekStart time.Time) ([]StableLesson, []WeekLesson, error) {
	var (
		wg        sync.WaitGroup
		stable    []StableLesson
		overrides []WeekLesson

		stableErr, weekErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		stable, stableErr = svc.stable.QueryStableLessons(ctx, classID)
	}()
	go func() {
		defer wg.Done()
		overrides, weekErr = svc.weeks.QueryWeekLessons(ctx, classID, weekStart)
	}()
	wg.Wait()
	if stableErr != nil {
		return nil, nil, stableErr
	}
	if weekErr != nil {
		return nil, nil, weekErr
	}
	return stable, overrides, nil
}

func (svc *Service) checkStableConflict(ctx context.Context, classID string, day int, start, end ClockTime, excludeID string) error {
	lessons, err := svc.stable.QueryStableLessons(ctx, classID)
	if err != nil {
		return err
	}
	for _, les := range lessons {
		if les.Day != day || les.ID == excludeID {
			continue
		}
		if Overlaps(start, end, les.Start, les.End) {
			return &SlotConflictError{LessonID: les.ID, Day: les.Day, Start: les.Start, End: les.End}
		}
	}
	return nil
}

func (svc *Service) checkWeekConflict(ctx context.Context, classID string, weekStart time.Time, day int, start, end ClockTime, excludeID string) error {
	stable, overrides, err := svc.fetchWeekData(ctx, classID, weekStart)
	if err != nil {
		return err
	}
	days := reconcile(stable, overrides, nil)
	if col, found := FindConflict(start, end, days[day], excludeID); found {
		id := col.WeekLessonID
		if id == "" {
			id = col.StableLessonID
		}
		return &SlotConflictError{LessonID: id, Day: col.Day, Start: col.Start, End: col.End}
	}
	return nil
}

func parseTimes(start, end string) (ClockTime, ClockTime, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, core.NewValidationError(err, core.FieldError{Field: "start_time", Error: clockTimeText})
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, core.NewValidationError(err, core.FieldError{Field: "end_time", Error: clockTimeText})
	}
	if e <= s {
		return 0, 0, core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: timeOrderText})
	}
	return s, e, nil
}

// applyTimes merges optional start/end updates into the current values and
// re-checks their ordering against each other.
func applyTimes(start, end *ClockTime, newStart, newEnd *string) error {
	if newStart != nil {
		s, err := ParseClock(*newStart)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "start_time", Error: clockTimeText})
		}
		*start = s
	}
	if newEnd != nil {
		e, err := ParseClock(*newEnd)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "end_time", Error: clockTimeText})
		}
		*end = e
	}
	if *end <= *start {
		return core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: timeOrderText})
	}
	return nil
}

func sortWeekLessons(lessons []WeekLesson) {
	sort.Slice(lessons, func(i, j int) bool {
		a, b := lessons[i], lessons[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
}

func subjectMap(subs []subject.Subject) map[string]subject.Subject {
	m := make(map[string]subject.Subject, len(subs))
	for _, s := range subs {
		m[s.ID] = s
	}
	return m
}
