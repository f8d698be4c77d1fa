package timetable

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errInvalidClock = errors.New("invalid wall-clock time, expected HH:MM[:SS]")

// ClockTime is a timezone-less wall-clock time of day (school-local time is
// assumed uniform), stored as seconds since midnight. The zero value is
// midnight. It is exchanged as an "HH:MM:SS" string.
type ClockTime int

func NewClock(hour, min, sec int) ClockTime {
	return ClockTime((hour*60+min)*60 + sec)
}

// ParseClock parses "HH:MM:SS"; the seconds part may be omitted.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errInvalidClock
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, errInvalidClock
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return 0, errInvalidClock
	}
	return NewClock(nums[0], nums[1], nums[2]), nil
}

func (t ClockTime) Hour() int   { return int(t) / 3600 }
func (t ClockTime) Minute() int { return (int(t) % 3600) / 60 }
func (t ClockTime) Second() int { return int(t) % 60 }

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errInvalidClock
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer; ClockTime is persisted as a TIME column.
func (t ClockTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner. Postgres TIME columns may come back as a
// string, raw bytes or a time.Time depending on the driver path.
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseClock(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = NewClock(v.Hour(), v.Minute(), v.Second())
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
	return nil
}
