package timetable

import (
	"sort"

	"github.com/trezcool/ratiba/core/subject"
)

// reconcile merges a class's stable template with one week's overrides into
// per-day effective lessons:
//   - a stable lesson shadowed by an override takes the override's fields and
//     a change set diffing it against the baseline;
//   - an unshadowed stable lesson passes through untouched;
//   - overrides without a (live) baseline — ad-hoc lessons and danglers — are
//     emitted as-is, with nothing to have modified.
//
// subjects is reference data used to resolve display names and baseline
// teachers; missing entries degrade to empty names.
func reconcile(stable []StableLesson, overrides []WeekLesson, subjects map[string]subject.Subject) map[int][]EffectiveLesson {
	stableIDs := make(map[string]bool, len(stable))
	for _, s := range stable {
		stableIDs[s.ID] = true
	}

	// index overrides by the stable lesson they shadow
	byStable := make(map[string]WeekLesson)
	var extras []WeekLesson
	for _, o := range overrides {
		if !o.StableLessonID.Valid || !stableIDs[o.StableLessonID.String] {
			extras = append(extras, o)
			continue
		}
		key := o.StableLessonID.String
		if prev, ok := byStable[key]; ok {
			// The store's uniqueness rule should make this unreachable;
			// the most recently created override wins.
			if o.CreatedAt.Before(prev.CreatedAt) ||
				(o.CreatedAt.Equal(prev.CreatedAt) && o.ID < prev.ID) {
				continue
			}
		}
		byStable[key] = o
	}

	days := make(map[int][]EffectiveLesson)
	add := func(el EffectiveLesson) { days[el.Day] = append(days[el.Day], el) }

	for _, s := range stable {
		if o, ok := byStable[s.ID]; ok {
			add(mergeLesson(s, o, subjects))
		} else {
			add(effectiveFromStable(s, subjects))
		}
	}
	for _, o := range extras {
		add(effectiveFromOverride(o, subjects))
	}

	for day := range days {
		sortLessons(days[day])
	}
	return days
}

// stableView renders the baseline template itself as effective lessons,
// ignoring any overrides.
func stableView(stable []StableLesson, subjects map[string]subject.Subject) map[int][]EffectiveLesson {
	days := make(map[int][]EffectiveLesson)
	for _, s := range stable {
		el := effectiveFromStable(s, subjects)
		days[el.Day] = append(days[el.Day], el)
	}
	for day := range days {
		sortLessons(days[day])
	}
	return days
}

func mergeLesson(s StableLesson, o WeekLesson, subjects map[string]subject.Subject) EffectiveLesson {
	status := o.Status
	if status == "" {
		status = StatusNormal
	}

	el := EffectiveLesson{
		ClassID:        o.ClassID,
		StableLessonID: s.ID,
		WeekLessonID:   o.ID,
		SubjectID:      o.SubjectID,
		SubjectName:    subjects[o.SubjectID].Name,
		Day:            o.Day,
		Start:          o.Start,
		End:            o.End,
		Room:           o.Room.String,
		Status:         status,
		Teacher:        subjects[o.SubjectID].TeacherName.String,
		Note:           o.Note.String,
	}
	if o.SubstituteTeacher.Valid && o.SubstituteTeacher.String != "" {
		el.Teacher = o.SubstituteTeacher.String
	}

	stableTeacher := subjects[s.SubjectID].TeacherName.String
	changes := ChangeSet{}
	if o.SubjectID != s.SubjectID {
		changes[FieldSubject] = FieldChange{Stable: s.SubjectID, Current: o.SubjectID}
	}
	if o.Room.String != s.Room.String {
		changes[FieldRoom] = FieldChange{Stable: s.Room.String, Current: o.Room.String}
	}
	if o.Start != s.Start {
		changes[FieldStart] = FieldChange{Stable: s.Start.String(), Current: o.Start.String()}
	}
	if o.End != s.End {
		changes[FieldEnd] = FieldChange{Stable: s.End.String(), Current: o.End.String()}
	}
	if el.Teacher != stableTeacher {
		changes[FieldTeacher] = FieldChange{Stable: stableTeacher, Current: el.Teacher}
	}
	if len(changes) > 0 {
		el.Changes = changes
	}

	// cancellation/substitution is itself the change, field equality aside
	el.ModifiedFromStable = len(changes) > 0 || status != StatusNormal
	return el
}

func effectiveFromStable(s StableLesson, subjects map[string]subject.Subject) EffectiveLesson {
	return EffectiveLesson{
		ClassID:        s.ClassID,
		StableLessonID: s.ID,
		SubjectID:      s.SubjectID,
		SubjectName:    subjects[s.SubjectID].Name,
		Day:            s.Day,
		Start:          s.Start,
		End:            s.End,
		Room:           s.Room.String,
		Status:         StatusNormal,
		Teacher:        subjects[s.SubjectID].TeacherName.String,
		IsStable:       true,
	}
}

func effectiveFromOverride(o WeekLesson, subjects map[string]subject.Subject) EffectiveLesson {
	status := o.Status
	if status == "" {
		status = StatusNormal
	}
	el := EffectiveLesson{
		ClassID:        o.ClassID,
		StableLessonID: o.StableLessonID.String, // may carry a dangling id
		WeekLessonID:   o.ID,
		SubjectID:      o.SubjectID,
		SubjectName:    subjects[o.SubjectID].Name,
		Day:            o.Day,
		Start:          o.Start,
		End:            o.End,
		Room:           o.Room.String,
		Status:         status,
		Teacher:        subjects[o.SubjectID].TeacherName.String,
		Note:           o.Note.String,
	}
	if o.SubstituteTeacher.Valid && o.SubstituteTeacher.String != "" {
		el.Teacher = o.SubstituteTeacher.String
	}
	return el
}

func sortLessons(lessons []EffectiveLesson) {
	sort.Slice(lessons, func(i, j int) bool {
		a, b := lessons[i], lessons[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.StableLessonID+a.WeekLessonID < b.StableLessonID+b.WeekLessonID
	})
}
