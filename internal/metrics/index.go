package metrics

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/strength"
)

// index holds the lookups shared by the metric groups.
type index struct {
	sessions       map[int64]models.Session
	exercises      map[int64]models.Exercise
	weSession      map[int64]int64
	weExercise     map[int64]int64
	setsBySession  map[int64][]models.WorkoutSet
	setsByExercise map[int64][]models.WorkoutSet
	wesBySession   map[int64][]models.WorkoutExercise
}

// newIndex fails on dangling references, which the assembler would have
// dropped; hand-built inputs may still carry them.
func newIndex(in *Input) (*index, error) {
	ix := &index{
		sessions:       make(map[int64]models.Session, len(in.Sessions)),
		exercises:      make(map[int64]models.Exercise, len(in.Exercises)),
		weSession:      make(map[int64]int64, len(in.WorkoutExercises)),
		weExercise:     make(map[int64]int64, len(in.WorkoutExercises)),
		setsBySession:  make(map[int64][]models.WorkoutSet),
		setsByExercise: make(map[int64][]models.WorkoutSet),
		wesBySession:   make(map[int64][]models.WorkoutExercise),
	}
	for _, s := range in.Sessions {
		ix.sessions[s.ID] = s
	}
	for _, e := range in.Exercises {
		ix.exercises[e.ID] = e
	}
	for _, we := range in.WorkoutExercises {
		if _, ok := ix.sessions[we.SessionID]; !ok {
			return nil, fmt.Errorf("workout exercise %d references unknown session %d", we.ID, we.SessionID)
		}
		if _, ok := ix.exercises[we.ExerciseID]; !ok {
			return nil, fmt.Errorf("workout exercise %d references unknown exercise %d", we.ID, we.ExerciseID)
		}
		ix.weSession[we.ID] = we.SessionID
		ix.weExercise[we.ID] = we.ExerciseID
		ix.wesBySession[we.SessionID] = append(ix.wesBySession[we.SessionID], we)
	}
	for _, s := range in.Sets {
		sid, ok := ix.weSession[s.WorkoutExerciseID]
		if !ok {
			return nil, fmt.Errorf("set %d references unknown workout exercise %d", s.ID, s.WorkoutExerciseID)
		}
		ix.setsBySession[sid] = append(ix.setsBySession[sid], s)
		eid := ix.weExercise[s.WorkoutExerciseID]
		ix.setsByExercise[eid] = append(ix.setsByExercise[eid], s)
	}
	return ix, nil
}

// sessionOf returns the session a set belongs to.
func (ix *index) sessionOf(s models.WorkoutSet) models.Session {
	return ix.sessions[ix.weSession[s.WorkoutExerciseID]]
}

// chronological sorts sets by (session date, session id, set number, set id).
func (ix *index) chronological(sets []models.WorkoutSet) []models.WorkoutSet {
	out := slices.Clone(sets)
	slices.SortStableFunc(out, func(a, b models.WorkoutSet) int {
		sa, sb := ix.sessionOf(a), ix.sessionOf(b)
		return cmp.Or(
			sa.Date.Compare(sb.Date),
			cmp.Compare(sa.ID, sb.ID),
			cmp.Compare(a.SetNumber, b.SetNumber),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}

// setStats are the aggregates several groups compute over a set slice.
type setStats struct {
	count         int
	reps          int
	volume        float64
	weights       []float64
	oneRMs        []float64
	rirs          []float64
	setsToFailure int
}

func summarize(sets []models.WorkoutSet) setStats {
	st := setStats{count: len(sets)}
	for _, s := range sets {
		st.reps += s.Reps
		st.volume += s.Volume()
		st.weights = append(st.weights, s.Weight)
		st.oneRMs = append(st.oneRMs, strength.Est1RM(s.Weight, s.Reps))
		if s.RIR != nil {
			st.rirs = append(st.rirs, float64(*s.RIR))
			if *s.RIR == 0 {
				st.setsToFailure++
			}
		}
	}
	return st
}

// avgRIR is the null-skipping mean RIR, nil when no set recorded one.
func (st setStats) avgRIR() *float64 {
	if len(st.rirs) == 0 {
		return nil
	}
	v := strength.Mean(st.rirs)
	return &v
}

// isoWeek identifies an ISO-8601 year-week.
type isoWeek struct {
	year, week int
}

func weekOf(t time.Time) isoWeek {
	y, w := t.ISOWeek()
	return isoWeek{y, w}
}

// perWeek divides n by the number of distinct ISO weeks the dates span.
func perWeek(n int, dates []time.Time) *float64 {
	weeks := make(map[isoWeek]bool)
	for _, d := range dates {
		weeks[weekOf(d)] = true
	}
	if len(weeks) == 0 {
		return nil
	}
	v := strength.Round(float64(n)/float64(len(weeks)), 2)
	return &v
}

// avgGapDays is the mean day gap between consecutive dates, which must be
// sorted. nil with fewer than two dates.
func avgGapDays(dates []time.Time) *float64 {
	if len(dates) < 2 {
		return nil
	}
	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}
	v := strength.Round(strength.Mean(gaps), 2)
	return &v
}

func distinctSortedDates(dates []time.Time) []time.Time {
	out := slices.Clone(dates)
	slices.SortFunc(out, time.Time.Compare)
	return slices.CompactFunc(out, time.Time.Equal)
}

func round2(x float64) float64 { return strength.Round(x, 2) }

func round2p(x *float64) *float64 { return strength.RoundPtr(x, 2) }

func ptr[T any](v T) *T { return &v }

func formatDate(t time.Time) string { return t.Format(models.DateLayout) }
