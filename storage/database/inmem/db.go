package inmemdb

import (
	"sync"

	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/timetable"
)

// DB is an in-memory store with the same repository surface as the postgres
// adapter; used in tests and for local hacking without a database.
type DB struct {
	class   *classTable
	subject *subjectTable
	stable  *stableLessonTable
	week    *weekLessonTable
}

func NewDB() *DB {
	return &DB{
		class:   &classTable{table: make(map[string]*timetable.Class)},
		subject: &subjectTable{table: make(map[string]*subject.Subject)},
		stable:  &stableLessonTable{table: make(map[string]*timetable.StableLesson)},
		week:    &weekLessonTable{table: make(map[string]*timetable.WeekLesson)},
	}
}

type (
	classTable struct {
		mutex sync.RWMutex
		table map[string]*timetable.Class
	}

	subjectTable struct {
		mutex sync.RWMutex
		table map[string]*subject.Subject
	}

	stableLessonTable struct {
		mutex sync.RWMutex
		table map[string]*timetable.StableLesson
	}

	weekLessonTable struct {
		mutex sync.RWMutex
		table map[string]*timetable.WeekLesson
	}
)
