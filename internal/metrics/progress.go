package metrics

import (
	"maps"
	"slices"
	"time"

	"github.com/claude/liftlog/internal/strength"
)

// Progress classes.
const (
	ClassImproving  = "improving"
	ClassStagnating = "stagnating"
	ClassRegressing = "regressing"
)

// ProgressMetrics is the "progress" group.
type ProgressMetrics struct {
	PerExercise []ProgressEntry `json:"per_exercise"`
	Global      ProgressGlobal  `json:"global"`
}

type ProgressEntry struct {
	ExerciseID          int64   `json:"exercise_id"`
	ExerciseName        string  `json:"exercise_name"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	Start1RM            float64 `json:"start_1rm"`
	End1RM              float64 `json:"end_1rm"`
	ProgressPct         float64 `json:"progress_pct"`
	Class               string  `json:"class"`
	SessionsCount       int     `json:"sessions_count"`
	ProgressPerExposure float64 `json:"progress_per_exposure"`
}

type ProgressGlobal struct {
	MedianProgressPct      *float64 `json:"median_progress_pct"`
	AvgProgressPct         *float64 `json:"avg_progress_pct"`
	AvgProgressPerExposure *float64 `json:"avg_progress_per_exposure"`
	ImprovingExercises     int      `json:"improving_exercises"`
	StagnatingExercises    int      `json:"stagnating_exercises"`
	RegressingExercises    int      `json:"regressing_exercises"`
}

// ComputeProgress compares the best estimated 1RM of each exercise's first
// and last training date. Exercises need two distinct dates; sets without
// repetitions are ignored.
func ComputeProgress(in *Input, p Params) (any, error) {
	if len(in.Sets) == 0 {
		return nil, nil
	}
	ix, err := newIndex(in)
	if err != nil {
		return nil, err
	}

	out := &ProgressMetrics{PerExercise: []ProgressEntry{}}
	var pcts, perExposure []float64
	for _, id := range sortedKeys(ix.setsByExercise) {
		best := make(map[time.Time]float64)
		for _, s := range ix.setsByExercise[id] {
			if s.Reps <= 0 {
				continue
			}
			d := ix.sessionOf(s).Date
			rm := strength.Est1RM(s.Weight, s.Reps)
			if cur, ok := best[d]; !ok || rm > cur {
				best[d] = rm
			}
		}
		if len(best) < 2 {
			continue
		}
		dates := slices.SortedFunc(maps.Keys(best), time.Time.Compare)
		first, last := dates[0], dates[len(dates)-1]
		start, end := best[first], best[last]

		// Classification uses the unrounded change; only output is rounded.
		pct := strength.PercentChange(end, start)
		exposure := pct / float64(len(dates))
		pcts = append(pcts, pct)
		perExposure = append(perExposure, exposure)

		cls := classify(pct, p.ProgressThresholdPct)
		switch cls {
		case ClassImproving:
			out.Global.ImprovingExercises++
		case ClassRegressing:
			out.Global.RegressingExercises++
		default:
			out.Global.StagnatingExercises++
		}
		out.PerExercise = append(out.PerExercise, ProgressEntry{
			ExerciseID:          id,
			ExerciseName:        ix.exercises[id].Name,
			StartDate:           formatDate(first),
			EndDate:             formatDate(last),
			Start1RM:            round2(start),
			End1RM:              round2(end),
			ProgressPct:         round2(pct),
			Class:               cls,
			SessionsCount:       len(dates),
			ProgressPerExposure: round2(exposure),
		})
	}

	if len(pcts) > 0 {
		out.Global.MedianProgressPct = ptr(round2(strength.Median(pcts)))
		out.Global.AvgProgressPct = ptr(round2(strength.Mean(pcts)))
		out.Global.AvgProgressPerExposure = ptr(round2(strength.Mean(perExposure)))
	}
	return out, nil
}

func classify(pct, threshold float64) string {
	switch {
	case pct > threshold:
		return ClassImproving
	case pct < -threshold:
		return ClassRegressing
	default:
		return ClassStagnating
	}
}
