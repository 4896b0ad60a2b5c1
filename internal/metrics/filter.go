package metrics

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/claude/liftlog/internal/models"
)

var monthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	m := monthRe.FindStringSubmatch(s)
	if m == nil {
		return Month{}, fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidMonth, s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if mo < 1 || mo > 12 {
		return Month{}, fmt.Errorf("%w: %q, month out of range", ErrInvalidMonth, s)
	}
	return Month{Year: y, Month: time.Month(mo)}, nil
}

// Contains reports whether the calendar day of t falls in the month.
func (m Month) Contains(t time.Time) bool {
	y, mo, _ := t.Date()
	return y == m.Year && mo == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// FilterByMonth restricts sessions, their workout exercises and their sets to
// one calendar month. Catalogue and body data pass through untouched. An
// empty month returns the inputs as they are. A nil input is treated as empty.
func FilterByMonth(in *Input, sets []models.SetViewRow, month string) (*Input, []models.SetViewRow, error) {
	if in == nil {
		in = &Input{}
	}
	if month == "" {
		return in, sets, nil
	}
	m, err := ParseMonth(month)
	if err != nil {
		return nil, nil, err
	}

	out := &Input{
		Exercises:        in.Exercises,
		MuscleGroups:     in.MuscleGroups,
		BodyMeasurements: in.BodyMeasurements,
		BodyComposition:  in.BodyComposition,
		Dropped:          in.Dropped,
	}

	keptSessions := make(map[int64]bool)
	for _, s := range in.Sessions {
		if m.Contains(s.Date) {
			keptSessions[s.ID] = true
			out.Sessions = append(out.Sessions, s)
		}
	}
	keptWE := make(map[int64]bool)
	for _, we := range in.WorkoutExercises {
		if keptSessions[we.SessionID] {
			keptWE[we.ID] = true
			out.WorkoutExercises = append(out.WorkoutExercises, we)
		}
	}
	for _, s := range in.Sets {
		if keptWE[s.WorkoutExerciseID] {
			out.Sets = append(out.Sets, s)
		}
	}

	var outSets []models.SetViewRow
	for _, row := range sets {
		if m.Contains(row.SessionDate) {
			outSets = append(outSets, row)
		}
	}
	return out, outSets, nil
}
