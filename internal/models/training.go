package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for session and measurement dates.
const DateLayout = "2006-01-02"

// Session is one recorded workout. Date is a calendar day at UTC midnight.
type Session struct {
	ID    int64
	Date  time.Time
	Start *TimeOfDay
	End   *TimeOfDay
	Notes *string
}

// DurationMinutes returns the wall-clock length of the session. An end time
// earlier than the start time is read as crossing midnight. ok is false when
// either time is missing.
func (s Session) DurationMinutes() (minutes float64, ok bool) {
	if s.Start == nil || s.End == nil {
		return 0, false
	}
	d := s.End.Seconds() - s.Start.Seconds()
	if d < 0 {
		d += 24 * 60 * 60
	}
	return float64(d) / 60, true
}

// TimeOfDay is a same-day wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	var vals [3]int
	for i, p := range parts {
		// Fractional seconds ("12:00:00.000000") are truncated.
		if i == 2 {
			p, _, _ = strings.Cut(p, ".")
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
		}
		vals[i] = v
	}
	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range %q", s)
	}
	return t, nil
}

// TimeOfDayFromSeconds converts seconds since midnight, wrapping at 24h.
func TimeOfDayFromSeconds(sec int) TimeOfDay {
	sec %= 24 * 60 * 60
	if sec < 0 {
		sec += 24 * 60 * 60
	}
	return TimeOfDay{Hour: sec / 3600, Minute: sec % 3600 / 60, Second: sec % 60}
}

// Seconds returns the number of seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalText renders the time as HH:MM:SS.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses HH:MM or HH:MM:SS.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// WorkoutExercise is one exercise performed within one session.
type WorkoutExercise struct {
	ID         int64
	SessionID  int64
	ExerciseID int64
}

// WorkoutSet is a single set. RIR is nil when not recorded; 0 means failure.
type WorkoutSet struct {
	ID                int64
	WorkoutExerciseID int64
	SetNumber         int
	Reps              int
	Weight            float64
	RIR               *int
}

// Volume is weight times repetitions.
func (s WorkoutSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// Exercise is a catalogue entry.
type Exercise struct {
	ID       int64  `json:"exercise_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	BodyPart string `json:"body_part"`
}

// MuscleGroup is a distinct body part found in the catalogue.
type MuscleGroup struct {
	ID   int64
	Name string
}

// DayOf truncates t to its calendar day at UTC midnight.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
