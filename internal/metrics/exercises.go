package metrics

import (
	"time"

	"github.com/claude/liftlog/internal/strength"
)

// ExerciseMetrics is the "exercises" group.
type ExerciseMetrics struct {
	PerExercise []ExerciseEntry `json:"per_exercise"`
	Global      ExerciseGlobal  `json:"global"`
}

type ExerciseEntry struct {
	ExerciseID        int64    `json:"exercise_id"`
	ExerciseName      string   `json:"exercise_name"`
	BodyPart          string   `json:"body_part"`
	TotalSets         int      `json:"total_sets"`
	TotalReps         int      `json:"total_reps"`
	TotalVolume       float64  `json:"total_volume"`
	AvgWeight         float64  `json:"avg_weight"`
	MaxWeight         float64  `json:"max_weight"`
	Estimated1RMMax   float64  `json:"estimated_1rm_max"`
	Estimated1RMAvg   float64  `json:"estimated_1rm_avg"`
	AvgRIR            *float64 `json:"avg_rir"`
	SetsToFailure     int      `json:"sets_to_failure"`
	VolumeTrend       float64  `json:"volume_trend"`
	StrengthTrend1RM  float64  `json:"strength_trend_1rm"`
	SessionsCount     int      `json:"sessions_count"`
	AvgSetsPerSession float64  `json:"avg_sets_per_session"`
}

// ExerciseRef names one catalogue exercise.
type ExerciseRef struct {
	ExerciseID   int64  `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
}

type ExerciseGlobal struct {
	MostTrainedExercise   *ExerciseRef `json:"most_trained_exercise"`
	HighestVolumeExercise *ExerciseRef `json:"highest_volume_exercise"`
	StrongestExercise1RM  *ExerciseRef `json:"strongest_exercise_1rm"`
}

// ComputeExercises derives per-exercise load, strength and trends.
func ComputeExercises(in *Input, _ Params) (any, error) {
	if len(in.Sets) == 0 {
		return nil, nil
	}
	ix, err := newIndex(in)
	if err != nil {
		return nil, err
	}

	out := &ExerciseMetrics{PerExercise: []ExerciseEntry{}}
	// Raw values for ranking; the entries carry rounded copies.
	type rank struct {
		sets   int
		volume float64
		maxRM  float64
	}
	ranks := make(map[int64]rank)

	for _, id := range sortedKeys(ix.setsByExercise) {
		sets := ix.chronological(ix.setsByExercise[id])
		ex := ix.exercises[id]
		st := summarize(sets)

		first, last := sets[0], sets[len(sets)-1]
		dates := make([]time.Time, len(sets))
		for i, s := range sets {
			dates[i] = ix.sessionOf(s).Date
		}
		sessions := len(distinctSortedDates(dates))

		maxRM := strength.Max(st.oneRMs)
		ranks[id] = rank{sets: st.count, volume: st.volume, maxRM: maxRM}
		out.PerExercise = append(out.PerExercise, ExerciseEntry{
			ExerciseID:        id,
			ExerciseName:      ex.Name,
			BodyPart:          ex.BodyPart,
			TotalSets:         st.count,
			TotalReps:         st.reps,
			TotalVolume:       round2(st.volume),
			AvgWeight:         round2(strength.Mean(st.weights)),
			MaxWeight:         round2(strength.Max(st.weights)),
			Estimated1RMMax:   round2(maxRM),
			Estimated1RMAvg:   round2(strength.Mean(st.oneRMs)),
			AvgRIR:            round2p(st.avgRIR()),
			SetsToFailure:     st.setsToFailure,
			VolumeTrend:       round2(last.Volume() - first.Volume()),
			StrengthTrend1RM:  round2(strength.Est1RM(last.Weight, last.Reps) - strength.Est1RM(first.Weight, first.Reps)),
			SessionsCount:     sessions,
			AvgSetsPerSession: round2(float64(st.count) / float64(sessions)),
		})
	}

	// Entries are in ascending id order, so strict > keeps the smallest id on ties.
	var most, vol, strong *ExerciseEntry
	for i := range out.PerExercise {
		e := &out.PerExercise[i]
		r := ranks[e.ExerciseID]
		if most == nil || r.sets > ranks[most.ExerciseID].sets {
			most = e
		}
		if vol == nil || r.volume > ranks[vol.ExerciseID].volume {
			vol = e
		}
		if strong == nil || r.maxRM > ranks[strong.ExerciseID].maxRM {
			strong = e
		}
	}
	out.Global = ExerciseGlobal{
		MostTrainedExercise:   refOf(most),
		HighestVolumeExercise: refOf(vol),
		StrongestExercise1RM:  refOf(strong),
	}
	return out, nil
}

func refOf(e *ExerciseEntry) *ExerciseRef {
	if e == nil {
		return nil
	}
	return &ExerciseRef{ExerciseID: e.ExerciseID, ExerciseName: e.ExerciseName}
}
