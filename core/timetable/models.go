package timetable

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core"
)

type LessonStatus string

const (
	StatusNormal       LessonStatus = "normal"
	StatusCancelled    LessonStatus = "cancelled"
	StatusSubstitution LessonStatus = "substitution"
)

func (s LessonStatus) valid() bool {
	switch s {
	case StatusNormal, StatusCancelled, StatusSubstitution:
		return true
	}
	return false
}

type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// StableLesson is one slot of a class's baseline weekly template. It is
// date-independent: the same slot repeats every week until edited.
type StableLesson struct {
	ID        string      `json:"id"`
	ClassID   string      `json:"class_id"`
	SubjectID string      `json:"subject_id"`
	Day       int         `json:"day_of_week"` // ISO, 1=Monday .. 5=Friday
	Start     ClockTime   `json:"start_time"`
	End       ClockTime   `json:"end_time"`
	Room      null.String `json:"room,omitempty"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

// WeekLesson is a lesson record scoped to one calendar week. When
// StableLessonID is set it overrides that baseline slot for the week;
// otherwise it is an ad-hoc lesson with no baseline.
type WeekLesson struct {
	ID string `json:"id"`

	ClassID string `json:"class_id"`

	// Weak reference: the stable lesson may be deleted later, leaving this
	// dangling. A dangling reference means "no baseline", never an error.
	StableLessonID null.String `json:"stable_lesson_id,omitempty"`

	WeekStart time.Time `json:"week_start"` // always the Monday of its week

	SubjectID         string       `json:"subject_id"`
	Day               int          `json:"day_of_week"`
	Start             ClockTime    `json:"start_time"`
	End               ClockTime    `json:"end_time"`
	Room              null.String  `json:"room,omitempty"`
	Status            LessonStatus `json:"status"`
	SubstituteTeacher null.String  `json:"substitute_teacher,omitempty"`
	Note              null.String  `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Change set field keys.
const (
	FieldSubject = "subject"
	FieldRoom    = "room"
	FieldStart   = "start_time"
	FieldEnd     = "end_time"
	FieldTeacher = "teacher"
)

// FieldChange holds the baseline and current values of one changed field.
type FieldChange struct {
	Stable  string `json:"stable"`
	Current string `json:"current"`
}

type ChangeSet map[string]FieldChange

// EffectiveLesson is the computed lesson for a class/week/slot after merging
// the stable template with any override. It is a transient view object: it
// has no identity of its own beyond its source ids and is never persisted.
type EffectiveLesson struct {
	ClassID        string `json:"class_id"`
	StableLessonID string `json:"stable_lesson_id,omitempty"` // "" for ad-hoc lessons
	WeekLessonID   string `json:"week_lesson_id,omitempty"`   // "" when the slot shows the untouched baseline

	SubjectID   string       `json:"subject_id"`
	SubjectName string       `json:"subject_name,omitempty"`
	Day         int          `json:"day_of_week"`
	Start       ClockTime    `json:"start_time"`
	End         ClockTime    `json:"end_time"`
	Room        string       `json:"room,omitempty"`
	Status      LessonStatus `json:"status"`
	Teacher     string       `json:"teacher,omitempty"`
	Note        string       `json:"note,omitempty"`

	IsStable           bool      `json:"is_stable"`
	ModifiedFromStable bool      `json:"modified_from_stable"`
	Changes            ChangeSet `json:"changes,omitempty"`
}

// EffectiveWeek maps ISO weekdays to that day's lessons, ordered by start
// time. WeekStart is zero for the stable (baseline) view.
type EffectiveWeek struct {
	ClassID   string                    `json:"class_id"`
	WeekStart time.Time                 `json:"week_start,omitempty"`
	Days      map[int][]EffectiveLesson `json:"days"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// NewStableLesson contains information needed to create a new StableLesson.
type NewStableLesson struct {
	ClassID   string `json:"class_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	Day       int    `json:"day_of_week" validate:"required,schoolday"`
	Start     string `json:"start_time" validate:"required,clocktime"`
	End       string `json:"end_time" validate:"required,clocktime"`
	Room      string `json:"room"`
}

func (nl *NewStableLesson) Validate(validate *validator.Validate) error {
	nl.Room = core.CleanString(nl.Room)
	return validate.Struct(nl)
}

// UpdateStableLesson defines what information may be provided to modify an
// existing StableLesson. nil fields are left untouched; setting Room to an
// empty string clears it.
type UpdateStableLesson struct {
	SubjectID *string `json:"subject_id"`
	Day       *int    `json:"day_of_week" validate:"omitempty,schoolday"`
	Start     *string `json:"start_time" validate:"omitempty,clocktime"`
	End       *string `json:"end_time" validate:"omitempty,clocktime"`
	Room      *string `json:"room"`
}

func (ul *UpdateStableLesson) Validate(validate *validator.Validate) error {
	if ul.Room != nil {
		room := core.CleanString(*ul.Room)
		ul.Room = &room
	}
	return validate.Struct(ul)
}

// NewWeekLesson contains information needed to create a new WeekLesson.
// ClassID and WeekStart are provided by the caller, not the request body.
type NewWeekLesson struct {
	ClassID   string    `json:"-" validate:"required"`
	WeekStart time.Time `json:"-"`

	StableLessonID    string `json:"stable_lesson_id"`
	SubjectID         string `json:"subject_id" validate:"required"`
	Day               int    `json:"day_of_week" validate:"required,schoolday"`
	Start             string `json:"start_time" validate:"required,clocktime"`
	End               string `json:"end_time" validate:"required,clocktime"`
	Room              string `json:"room"`
	Status            string `json:"status" validate:"omitempty,lessonstatus"`
	SubstituteTeacher string `json:"substitute_teacher"`
	Note              string `json:"note"`
}

func (nl *NewWeekLesson) Validate(validate *validator.Validate) error {
	nl.Room = core.CleanString(nl.Room)
	nl.SubstituteTeacher = core.CleanString(nl.SubstituteTeacher)
	if nl.WeekStart.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "week_start", Error: "this field is required"})
	}
	return validate.Struct(nl)
}

// UpdateWeekLesson defines a partial update of an existing WeekLesson.
// nil fields are not supplied and stay untouched; a supplied empty Room
// explicitly clears the room (the two states are distinct on purpose).
type UpdateWeekLesson struct {
	SubjectID         *string `json:"subject_id"`
	Day               *int    `json:"day_of_week" validate:"omitempty,schoolday"`
	Start             *string `json:"start_time" validate:"omitempty,clocktime"`
	End               *string `json:"end_time" validate:"omitempty,clocktime"`
	Room              *string `json:"room"`
	Status            *string `json:"status" validate:"omitempty,lessonstatus"`
	SubstituteTeacher *string `json:"substitute_teacher"`
	Note              *string `json:"note"`
}

func (ul *UpdateWeekLesson) Validate(validate *validator.Validate) error {
	if ul.Room != nil {
		room := core.CleanString(*ul.Room)
		ul.Room = &room
	}
	if ul.SubstituteTeacher != nil {
		sub := core.CleanString(*ul.SubstituteTeacher)
		ul.SubstituteTeacher = &sub
	}
	return validate.Struct(ul)
}
