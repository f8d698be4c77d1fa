package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/trezcool/ratiba/core"
)

// NewDB wraps an opened *sql.DB for the sqlx repositories.
func NewDB(db *sql.DB, driverName string) *sqlx.DB {
	return sqlx.NewDb(db, driverName)
}

// The day_of_week columns keep the legacy store's encoding
// (0=Sunday .. 6=Saturday); the application speaks ISO
// (1=Monday .. 7=Sunday). Conversion happens here and nowhere else.

func isoToLegacyDay(day int) int {
	return day % 7
}

func legacyToISODay(day int) int {
	if day == 0 {
		return 7
	}
	return day
}

// lessonOrdering keeps day-grouped lesson queries deterministic.
var lessonOrdering = []core.DBOrdering{
	{Field: "day_of_week", Ascending: true},
	{Field: "start_time", Ascending: true},
}

func orderBy(orderings []core.DBOrdering) string {
	terms := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		terms = append(terms, ord.String())
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// isUniqueViolation reports whether err is a postgres duplicate-key failure.
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
