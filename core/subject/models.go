package subject

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core"
)

// Subject is reference data attached to lessons: a display name, an opaque
// ARGB color and an optional assigned teacher.
type Subject struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Color       uint32      `json:"color"`
	TeacherID   null.String `json:"teacher_id,omitempty"`
	TeacherName null.String `json:"teacher_name,omitempty"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required"`
	Color       uint32 `json:"color"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}

func (ns *NewSubject) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.TeacherName = core.CleanString(ns.TeacherName)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Name)
}

// UpdateSubject defines what information may be provided to modify an existing
// Subject. nil fields are left untouched.
type UpdateSubject struct {
	Name        *string `json:"name"`
	Color       *uint32 `json:"color"`
	TeacherID   *string `json:"teacher_id"`
	TeacherName *string `json:"teacher_name"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate, orig Subject, svc *Service) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		if name == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "name", Error: "this field is required"})
		}
		us.Name = &name
	}
	if us.TeacherName != nil {
		name := core.CleanString(*us.TeacherName)
		us.TeacherName = &name
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Name != nil && *us.Name != orig.Name {
		return svc.checkUniqueness(*us.Name, orig)
	}
	return nil
}
