package timetable

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ClockTime
		wantErr error
	}{
		{name: "empty", in: "", wantErr: errInvalidClock},
		{name: "garbage", in: "lol", wantErr: errInvalidClock},
		{name: "hour only", in: "08", wantErr: errInvalidClock},
		{name: "too many parts", in: "08:00:00:00", wantErr: errInvalidClock},
		{name: "non-numeric", in: "08:ab", wantErr: errInvalidClock},
		{name: "negative", in: "08:-1", wantErr: errInvalidClock},
		{name: "hour out of range", in: "24:00", wantErr: errInvalidClock},
		{name: "minute out of range", in: "08:60", wantErr: errInvalidClock},
		{name: "second out of range", in: "08:00:60", wantErr: errInvalidClock},
		{name: "HH:MM", in: "08:45", want: NewClock(8, 45, 0)},
		{name: "HH:MM:SS", in: "13:05:30", want: NewClock(13, 5, 30)},
		{name: "midnight", in: "00:00", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if err != tt.wantErr {
				t.Fatalf("ParseClock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseClock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClockTime_String(t *testing.T) {
	if got := NewClock(8, 45, 0).String(); got != "08:45:00" {
		t.Errorf("String() = %q, want %q", got, "08:45:00")
	}
	if got := NewClock(13, 5, 7).String(); got != "13:05:07" {
		t.Errorf("String() = %q, want %q", got, "13:05:07")
	}
}

func TestClockTime_Scan(t *testing.T) {
	want := NewClock(9, 30, 0)

	var fromStr ClockTime
	if err := fromStr.Scan("09:30:00"); err != nil {
		t.Fatalf("Scan(string) failed, %v", err)
	}
	if fromStr != want {
		t.Errorf("Scan(string) = %v, want %v", fromStr, want)
	}

	var fromBytes ClockTime
	if err := fromBytes.Scan([]byte("09:30:00")); err != nil {
		t.Fatalf("Scan([]byte) failed, %v", err)
	}
	if fromBytes != want {
		t.Errorf("Scan([]byte) = %v, want %v", fromBytes, want)
	}

	var fromTime ClockTime
	if err := fromTime.Scan(time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time) failed, %v", err)
	}
	if fromTime != want {
		t.Errorf("Scan(time.Time) = %v, want %v", fromTime, want)
	}

	var bad ClockTime
	if err := bad.Scan(42); err == nil {
		t.Error("Scan(int) expected an error, got nil")
	}
}

func TestClockTime_JSON(t *testing.T) {
	data, err := NewClock(8, 45, 0).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() failed, %v", err)
	}
	if string(data) != `"08:45:00"` {
		t.Errorf("MarshalJSON() = %s, want %q", data, `"08:45:00"`)
	}

	var ct ClockTime
	if err := ct.UnmarshalJSON([]byte(`"08:45"`)); err != nil {
		t.Fatalf("UnmarshalJSON() failed, %v", err)
	}
	if ct != NewClock(8, 45, 0) {
		t.Errorf("UnmarshalJSON() = %v, want %v", ct, NewClock(8, 45, 0))
	}
	if err := ct.UnmarshalJSON([]byte(`"25:00"`)); err != errInvalidClock {
		t.Errorf("UnmarshalJSON() error = %v, want %v", err, errInvalidClock)
	}
}
