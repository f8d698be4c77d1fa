package timetable

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core/subject"
)

var testSubjects = map[string]subject.Subject{
	"math":    {ID: "math", Name: "Mathematics", TeacherName: null.StringFrom("Mr. Banner")},
	"physics": {ID: "physics", Name: "Physics", TeacherName: null.StringFrom("Ms. Curie")},
	"art":     {ID: "art", Name: "Art"},
}

func stableLesson(id, subjectID string, day int, start, end string, room string) StableLesson {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return StableLesson{
		ID:        id,
		ClassID:   "c1",
		SubjectID: subjectID,
		Day:       day,
		Start:     s,
		End:       e,
		Room:      null.NewString(room, room != ""),
	}
}

func weekLesson(id, stableID, subjectID string, day int, start, end string, mod func(*WeekLesson)) WeekLesson {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	les := WeekLesson{
		ID:             id,
		ClassID:        "c1",
		StableLessonID: null.NewString(stableID, stableID != ""),
		SubjectID:      subjectID,
		Day:            day,
		Start:          s,
		End:            e,
		Status:         StatusNormal,
	}
	if mod != nil {
		mod(&les)
	}
	return les
}

func Test_reconcile_passthrough(t *testing.T) {
	stable := []StableLesson{
		stableLesson("s1", "math", Monday, "08:00", "08:45", "A101"),
		stableLesson("s2", "physics", Monday, "08:45", "09:30", ""),
	}

	days := reconcile(stable, nil, testSubjects)

	if len(days) != 1 || len(days[Monday]) != 2 {
		t.Fatalf("expected 2 lessons on Monday, got %+v", days)
	}
	first := days[Monday][0]
	if !first.IsStable || first.ModifiedFromStable || first.Changes != nil {
		t.Errorf("untouched stable lesson reported as modified: %+v", first)
	}
	if first.SubjectName != "Mathematics" || first.Teacher != "Mr. Banner" || first.Room != "A101" {
		t.Errorf("reference data not resolved: %+v", first)
	}
	if first.Status != StatusNormal {
		t.Errorf("Status = %q, want %q", first.Status, StatusNormal)
	}
}

func Test_reconcile_roomChange(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "math", Monday, "08:00", "08:45", "A101")}
	overrides := []WeekLesson{
		weekLesson("w1", "s1", "math", Monday, "08:00", "08:45", func(les *WeekLesson) {
			les.Room = null.StringFrom("B204")
		}),
	}

	days := reconcile(stable, overrides, testSubjects)

	les := days[Monday][0]
	if les.IsStable {
		t.Error("overridden lesson still flagged stable")
	}
	if !les.ModifiedFromStable {
		t.Error("room change not flagged as a modification")
	}
	if len(les.Changes) != 1 {
		t.Fatalf("Changes = %+v, want a single room entry", les.Changes)
	}
	if ch := les.Changes[FieldRoom]; ch.Stable != "A101" || ch.Current != "B204" {
		t.Errorf("room change = %+v, want A101 -> B204", ch)
	}
	if les.WeekLessonID != "w1" || les.StableLessonID != "s1" {
		t.Errorf("source ids not carried: %+v", les)
	}
}

func Test_reconcile_statusAloneIsAChange(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "math", Monday, "08:00", "08:45", "")}
	overrides := []WeekLesson{
		weekLesson("w1", "s1", "math", Monday, "08:00", "08:45", func(les *WeekLesson) {
			les.Status = StatusCancelled
		}),
	}

	les := reconcile(stable, overrides, testSubjects)[Monday][0]
	if !les.ModifiedFromStable {
		t.Error("cancellation with identical fields not flagged as modified")
	}
	if les.Changes != nil {
		t.Errorf("Changes = %+v, want none", les.Changes)
	}
	if les.Status != StatusCancelled {
		t.Errorf("Status = %q, want %q", les.Status, StatusCancelled)
	}
}

func Test_reconcile_substitution(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "math", Monday, "08:00", "08:45", "")}
	overrides := []WeekLesson{
		weekLesson("w1", "s1", "math", Monday, "08:00", "08:45", func(les *WeekLesson) {
			les.Status = StatusSubstitution
			les.SubstituteTeacher = null.StringFrom("Mr. Stark")
		}),
	}

	les := reconcile(stable, overrides, testSubjects)[Monday][0]
	if les.Teacher != "Mr. Stark" {
		t.Errorf("Teacher = %q, want the substitute", les.Teacher)
	}
	ch, ok := les.Changes[FieldTeacher]
	if !ok {
		t.Fatalf("Changes = %+v, want a teacher entry", les.Changes)
	}
	if ch.Stable != "Mr. Banner" || ch.Current != "Mr. Stark" {
		t.Errorf("teacher change = %+v, want Mr. Banner -> Mr. Stark", ch)
	}
}

func Test_reconcile_timeAndSubjectChanges(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "math", Tuesday, "10:00", "10:45", "")}
	overrides := []WeekLesson{
		weekLesson("w1", "s1", "physics", Tuesday, "10:15", "11:00", nil),
	}

	les := reconcile(stable, overrides, testSubjects)[Tuesday][0]
	if len(les.Changes) != 4 { // subject, teacher (follows subject), start, end
		t.Fatalf("Changes = %+v, want 4 entries", les.Changes)
	}
	if ch := les.Changes[FieldSubject]; ch.Stable != "math" || ch.Current != "physics" {
		t.Errorf("subject change = %+v", ch)
	}
	if ch := les.Changes[FieldStart]; ch.Stable != "10:00:00" || ch.Current != "10:15:00" {
		t.Errorf("start change = %+v", ch)
	}
	if ch := les.Changes[FieldEnd]; ch.Stable != "10:45:00" || ch.Current != "11:00:00" {
		t.Errorf("end change = %+v", ch)
	}
	if ch := les.Changes[FieldTeacher]; ch.Stable != "Mr. Banner" || ch.Current != "Ms. Curie" {
		t.Errorf("teacher change = %+v", ch)
	}
}

func Test_reconcile_adHocAndDangling(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "math", Monday, "08:00", "08:45", "")}
	overrides := []WeekLesson{
		// ad-hoc: no baseline at all
		weekLesson("w1", "", "art", Monday, "10:00", "10:45", nil),
		// dangling: its stable lesson has since been deleted
		weekLesson("w2", "gone", "physics", Monday, "11:00", "11:45", nil),
	}

	lessons := reconcile(stable, overrides, testSubjects)[Monday]
	if len(lessons) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(lessons))
	}

	adHoc := lessons[1]
	if adHoc.WeekLessonID != "w1" || adHoc.IsStable || adHoc.ModifiedFromStable || adHoc.Changes != nil {
		t.Errorf("ad-hoc lesson mis-reported: %+v", adHoc)
	}

	dangling := lessons[2]
	if dangling.WeekLessonID != "w2" {
		t.Fatalf("expected the dangling override last, got %+v", dangling)
	}
	if dangling.ModifiedFromStable || dangling.Changes != nil {
		t.Errorf("dangling override treated as a baseline diff: %+v", dangling)
	}
}

func Test_reconcile_duplicateOverrides(t *testing.T) {
	now := time.Now().UTC()
	stable := []StableLesson{stableLesson("s1", "math", Monday, "08:00", "08:45", "")}
	overrides := []WeekLesson{
		weekLesson("w1", "s1", "math", Monday, "08:00", "08:45", func(les *WeekLesson) {
			les.Room = null.StringFrom("OLD")
			les.CreatedAt = now.Add(-time.Hour)
		}),
		weekLesson("w2", "s1", "math", Monday, "08:00", "08:45", func(les *WeekLesson) {
			les.Room = null.StringFrom("NEW")
			les.CreatedAt = now
		}),
	}

	lessons := reconcile(stable, overrides, testSubjects)[Monday]
	if len(lessons) != 1 {
		t.Fatalf("expected duplicates collapsed into 1 lesson, got %d", len(lessons))
	}
	if lessons[0].Room != "NEW" {
		t.Errorf("Room = %q, want the most recently created override to win", lessons[0].Room)
	}

	// order of the input slice must not matter
	overrides[0], overrides[1] = overrides[1], overrides[0]
	lessons = reconcile(stable, overrides, testSubjects)[Monday]
	if len(lessons) != 1 || lessons[0].Room != "NEW" {
		t.Errorf("reversed input changed the winner: %+v", lessons)
	}
}

func Test_reconcile_sorting(t *testing.T) {
	stable := []StableLesson{
		stableLesson("s2", "physics", Monday, "08:45", "09:30", ""),
		stableLesson("s1", "math", Monday, "08:00", "08:45", ""),
		stableLesson("s3", "art", Wednesday, "10:00", "10:45", ""),
	}

	days := reconcile(stable, nil, testSubjects)
	monday := days[Monday]
	if monday[0].StableLessonID != "s1" || monday[1].StableLessonID != "s2" {
		t.Errorf("Monday not ordered by start time: %+v", monday)
	}
	if len(days[Wednesday]) != 1 {
		t.Errorf("Wednesday = %+v, want 1 lesson", days[Wednesday])
	}
}

func Test_stableView(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "math", Monday, "08:00", "08:45", "A101")}

	days := stableView(stable, testSubjects)
	les := days[Monday][0]
	if !les.IsStable || les.WeekLessonID != "" || les.ModifiedFromStable {
		t.Errorf("stable view lesson mis-reported: %+v", les)
	}
	if les.SubjectName != "Mathematics" || les.Teacher != "Mr. Banner" {
		t.Errorf("reference data not resolved: %+v", les)
	}
}

func Test_reconcile_missingSubjects(t *testing.T) {
	stable := []StableLesson{stableLesson("s1", "unknown", Monday, "08:00", "08:45", "")}

	// nil subject map: names degrade to empty, nothing panics
	les := reconcile(stable, nil, nil)[Monday][0]
	if les.SubjectName != "" || les.Teacher != "" {
		t.Errorf("expected empty reference data, got %+v", les)
	}
}
