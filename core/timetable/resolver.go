package timetable

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries (back-to-back lessons) do
// not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd ClockTime) bool {
	return aStart < bEnd && aEnd > bStart
}

// FindLessonAt returns the lesson occupying time t within a day's lessons:
// a time t occupies a lesson iff start <= t < end. A linear scan is plenty;
// a school day carries at most a handful of lessons.
func FindLessonAt(lessons []EffectiveLesson, t ClockTime) (EffectiveLesson, bool) {
	for _, les := range lessons {
		if les.Start <= t && t < les.End {
			return les, true
		}
	}
	return EffectiveLesson{}, false
}

// FindConflict returns the first lesson whose time range overlaps the
// candidate [start, end) interval. excludeID skips the lesson whose stable or
// week id matches, for checking an edit against itself.
func FindConflict(start, end ClockTime, lessons []EffectiveLesson, excludeID string) (EffectiveLesson, bool) {
	for _, les := range lessons {
		if excludeID != "" && (les.StableLessonID == excludeID || les.WeekLessonID == excludeID) {
			continue
		}
		if Overlaps(start, end, les.Start, les.End) {
			return les, true
		}
	}
	return EffectiveLesson{}, false
}

// HasConflict reports whether the candidate [start, end) interval overlaps
// any of the given lessons, excludeID excepted.
func HasConflict(start, end ClockTime, lessons []EffectiveLesson, excludeID string) bool {
	_, found := FindConflict(start, end, lessons, excludeID)
	return found
}
