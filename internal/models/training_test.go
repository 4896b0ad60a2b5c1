package models

import (
	"testing"
	"time"
)

func tod(h, m int) *TimeOfDay {
	return &TimeOfDay{Hour: h, Minute: m}
}

// TestDurationMinutes covers same-day sessions, sessions crossing midnight,
// and missing times.
func TestDurationMinutes(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		start  *TimeOfDay
		end    *TimeOfDay
		want   float64
		wantOK bool
	}{
		{"same day", tod(18, 0), tod(19, 30), 90, true},
		{"across midnight", tod(23, 30), tod(0, 15), 45, true},
		{"equal", tod(10, 0), tod(10, 0), 0, true},
		{"missing end", tod(10, 0), nil, 0, false},
		{"missing start", nil, tod(10, 0), 0, false},
	}
	for _, tc := range cases {
		s := Session{Date: day, Start: tc.start, End: tc.end}
		got, ok := s.DurationMinutes()
		if ok != tc.wantOK {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.wantOK)
		}
		if got != tc.want {
			t.Errorf("%s: minutes = %v, want %v", tc.name, got, tc.want)
		}
		if got >= 24*60 {
			t.Errorf("%s: duration %v exceeds a day", tc.name, got)
		}
	}
}

// TestParseTimeOfDay verifies both accepted layouts and range checks.
func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"07:05", TimeOfDay{Hour: 7, Minute: 5}, false},
		{"23:59:58", TimeOfDay{Hour: 23, Minute: 59, Second: 58}, false},
		{"12:00:00.250000", TimeOfDay{Hour: 12}, false},
		{" 09:30 ", TimeOfDay{Hour: 9, Minute: 30}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"noon", TimeOfDay{}, true},
		{"12", TimeOfDay{}, true},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

// TestTimeOfDayFromSeconds verifies wrapping at 24h.
func TestTimeOfDayFromSeconds(t *testing.T) {
	if got := TimeOfDayFromSeconds(3661); got != (TimeOfDay{Hour: 1, Minute: 1, Second: 1}) {
		t.Errorf("TimeOfDayFromSeconds(3661) = %v", got)
	}
	if got := TimeOfDayFromSeconds(24*3600 + 60); got != (TimeOfDay{Minute: 1}) {
		t.Errorf("TimeOfDayFromSeconds(86460) = %v", got)
	}
}

// TestVolume verifies volume = weight x reps.
func TestVolume(t *testing.T) {
	s := WorkoutSet{Reps: 8, Weight: 62.5}
	if got := s.Volume(); got != 500 {
		t.Errorf("Volume() = %v, want 500", got)
	}
}

// TestBodyMeasurementRowEmpty verifies that a row with no values is empty.
func TestBodyMeasurementRowEmpty(t *testing.T) {
	var r BodyMeasurementRow
	if !r.Empty() {
		t.Error("zero row should be empty")
	}
	v := 80.5
	r.Waist = &v
	if r.Empty() {
		t.Error("row with waist should not be empty")
	}
	if got := r.Values()[1]; got == nil || *got != 80.5 {
		t.Errorf("Values()[1] = %v, want waist", got)
	}
}
