package timetable

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

func newValidator() *validator.Validate {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func fieldErrs(t *testing.T, err error) map[string]string {
	t.Helper()

	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error = %v (%T), want validator.ValidationErrors", err, err)
	}
	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

func TestNewStableLesson_Validate(t *testing.T) {
	validate := newValidator()

	valid := func() NewStableLesson {
		return NewStableLesson{
			ClassID:   "c1",
			SubjectID: "math",
			Day:       Monday,
			Start:     "08:00",
			End:       "08:45",
			Room:      "  A101  ",
		}
	}

	t.Run("ok", func(t *testing.T) {
		nl := valid()
		if err := nl.Validate(validate); err != nil {
			t.Fatalf("Validate() failed, %v", err)
		}
		if nl.Room != "A101" {
			t.Errorf("Room = %q, want trimmed", nl.Room)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		nl := NewStableLesson{}
		fields := fieldErrs(t, nl.Validate(validate))
		for _, fld := range []string{"class_id", "subject_id", "day_of_week", "start_time", "end_time"} {
			if fields[fld] != "required" {
				t.Errorf("field %q = %q, want required", fld, fields[fld])
			}
		}
	})

	t.Run("weekend rejected", func(t *testing.T) {
		nl := valid()
		nl.Day = Saturday
		if fields := fieldErrs(t, nl.Validate(validate)); fields["day_of_week"] != schoolDayTag {
			t.Errorf("fields = %v, want a %s error", fields, schoolDayTag)
		}
	})

	t.Run("bad clock", func(t *testing.T) {
		nl := valid()
		nl.Start = "25:00"
		if fields := fieldErrs(t, nl.Validate(validate)); fields["start_time"] != clockTimeTag {
			t.Errorf("fields = %v, want a %s error", fields, clockTimeTag)
		}
	})

	t.Run("end not after start", func(t *testing.T) {
		nl := valid()
		nl.End = "08:00"
		if fields := fieldErrs(t, nl.Validate(validate)); fields["end_time"] != timeOrderTag {
			t.Errorf("fields = %v, want a %s error", fields, timeOrderTag)
		}
	})
}

func TestNewWeekLesson_Validate(t *testing.T) {
	validate := newValidator()
	monday := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	valid := func() NewWeekLesson {
		return NewWeekLesson{
			ClassID:   "c1",
			WeekStart: monday,
			SubjectID: "math",
			Day:       Monday,
			Start:     "08:00",
			End:       "08:45",
		}
	}

	t.Run("ok", func(t *testing.T) {
		nl := valid()
		if err := nl.Validate(validate); err != nil {
			t.Errorf("Validate() failed, %v", err)
		}
	})

	t.Run("missing week start", func(t *testing.T) {
		nl := valid()
		nl.WeekStart = time.Time{}
		vErr, ok := nl.Validate(validate).(*core.ValidationError)
		if !ok {
			t.Fatal("Validate() did not return a core validation error")
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "week_start" {
			t.Errorf("Fields = %+v, want a single week_start error", vErr.Fields)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		nl := valid()
		nl.Status = "lol"
		if fields := fieldErrs(t, nl.Validate(validate)); fields["status"] != lessonStatusTag {
			t.Errorf("fields = %v, want a %s error", fields, lessonStatusTag)
		}
	})

	t.Run("substitution requires a substitute", func(t *testing.T) {
		nl := valid()
		nl.Status = string(StatusSubstitution)
		if fields := fieldErrs(t, nl.Validate(validate)); fields["substitute_teacher"] != substituteTag {
			t.Errorf("fields = %v, want a %s error", fields, substituteTag)
		}
	})

	t.Run("substitute requires substitution status", func(t *testing.T) {
		nl := valid()
		nl.SubstituteTeacher = "Mr. Stark"
		if fields := fieldErrs(t, nl.Validate(validate)); fields["substitute_teacher"] != substituteTag {
			t.Errorf("fields = %v, want a %s error", fields, substituteTag)
		}
	})

	t.Run("substitution with a substitute", func(t *testing.T) {
		nl := valid()
		nl.Status = string(StatusSubstitution)
		nl.SubstituteTeacher = "Mr. Stark"
		if err := nl.Validate(validate); err != nil {
			t.Errorf("Validate() failed, %v", err)
		}
	})
}
