package timetable

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

var (
	clockTimeTag  = "clocktime"
	clockTimeText = "invalid wall-clock time, expected HH:MM[:SS]"

	schoolDayTag  = "schoolday"
	schoolDayText = "day of week must be between 1 (Monday) and 5 (Friday)"

	lessonStatusTag  = "lessonstatus"
	lessonStatusText = "status must be one of: normal, cancelled, substitution"

	timeOrderTag  = "timeorder"
	timeOrderText = "end time must be after start time"

	substituteTag  = "substitute"
	substituteText = "substitute teacher goes with status=substitution, and vice versa"
)

// InitValidators registers the timetable validation tags and their texts.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(clockTimeTag, clockTimeValidation)
	core.RegisterCustomTranslation(validate, translator, clockTimeTag, clockTimeText)

	_ = validate.RegisterValidation(schoolDayTag, schoolDayValidation)
	core.RegisterCustomTranslation(validate, translator, schoolDayTag, schoolDayText)

	_ = validate.RegisterValidation(lessonStatusTag, lessonStatusValidation)
	core.RegisterCustomTranslation(validate, translator, lessonStatusTag, lessonStatusText)

	validate.RegisterStructValidation(lessonStructValidation, NewStableLesson{}, NewWeekLesson{})
	core.RegisterCustomTranslation(validate, translator, timeOrderTag, timeOrderText)
	core.RegisterCustomTranslation(validate, translator, substituteTag, substituteText)
}

// Custom Validators

func clockTimeValidation(fl validator.FieldLevel) bool {
	_, err := ParseClock(fl.Field().String())
	return err == nil
}

func schoolDayValidation(fl validator.FieldLevel) bool {
	return IsSchoolDay(int(fl.Field().Int()))
}

func lessonStatusValidation(fl validator.FieldLevel) bool {
	return LessonStatus(fl.Field().String()).valid()
}

// lessonStructValidation does struct level validation on NewStableLesson and
// NewWeekLesson: start/end ordering, and status/substitute consistency.
func lessonStructValidation(sl validator.StructLevel) {
	checkTimes := func(start, end string) {
		s, sErr := ParseClock(start)
		e, eErr := ParseClock(end)
		if sErr != nil || eErr != nil {
			return // field validators report these
		}
		if e <= s {
			sl.ReportError(end, "end_time", "End", timeOrderTag, "")
		}
	}

	switch les := sl.Current().Interface().(type) {
	case NewStableLesson:
		checkTimes(les.Start, les.End)
	case NewWeekLesson:
		checkTimes(les.Start, les.End)
		isSub := LessonStatus(les.Status) == StatusSubstitution
		if isSub != (les.SubstituteTeacher != "") {
			sl.ReportError(les.SubstituteTeacher, "substitute_teacher", "SubstituteTeacher", substituteTag, "")
		}
	}
}
