package metrics

import (
	"cmp"
	"slices"
	"time"
)

// FrequencyMetrics is the "frequency" group.
type FrequencyMetrics struct {
	Global      FrequencyGlobal     `json:"global"`
	PerExercise []ExerciseFrequency `json:"per_exercise"`
	PerBodyPart []BodyPartFrequency `json:"per_body_part"`
}

type FrequencyGlobal struct {
	TotalSessions          int      `json:"total_sessions"`
	SessionsPerWeek        *float64 `json:"sessions_per_week"`
	AvgDaysBetweenSessions *float64 `json:"avg_days_between_sessions"`
}

type ExerciseFrequency struct {
	ExerciseID             int64    `json:"exercise_id"`
	ExerciseName           string   `json:"exercise_name"`
	SessionsPerWeek        *float64 `json:"sessions_per_week"`
	AvgDaysBetweenSessions *float64 `json:"avg_days_between_sessions"`
	TotalSessions          int      `json:"total_sessions"`
}

type BodyPartFrequency struct {
	BodyPart               string   `json:"body_part"`
	SessionsPerWeek        *float64 `json:"sessions_per_week"`
	AvgDaysBetweenSessions *float64 `json:"avg_days_between_sessions"`
	TotalSessions          int      `json:"total_sessions"`
}

// ComputeFrequency derives how often training happens overall, per exercise
// and per body part. Per-exercise and per-body-part figures count distinct
// training dates.
func ComputeFrequency(in *Input, _ Params) (any, error) {
	if len(in.Sessions) == 0 {
		return nil, nil
	}
	ix, err := newIndex(in)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, len(in.Sessions))
	for i, s := range in.Sessions {
		dates[i] = s.Date
	}
	slices.SortFunc(dates, time.Time.Compare)

	out := &FrequencyMetrics{
		Global: FrequencyGlobal{
			TotalSessions:          len(dates),
			SessionsPerWeek:        perWeek(len(dates), dates),
			AvgDaysBetweenSessions: avgGapDays(dates),
		},
		PerExercise: []ExerciseFrequency{},
		PerBodyPart: []BodyPartFrequency{},
	}

	byExercise := make(map[int64][]time.Time)
	byPart := make(map[string][]time.Time)
	for _, s := range in.Sessions {
		for _, we := range ix.wesBySession[s.ID] {
			byExercise[we.ExerciseID] = append(byExercise[we.ExerciseID], s.Date)
			if part := ix.exercises[we.ExerciseID].BodyPart; part != "" {
				byPart[part] = append(byPart[part], s.Date)
			}
		}
	}

	for _, id := range sortedKeys(byExercise) {
		d := distinctSortedDates(byExercise[id])
		out.PerExercise = append(out.PerExercise, ExerciseFrequency{
			ExerciseID:             id,
			ExerciseName:           ix.exercises[id].Name,
			SessionsPerWeek:        perWeek(len(d), d),
			AvgDaysBetweenSessions: avgGapDays(d),
			TotalSessions:          len(d),
		})
	}
	for part, raw := range byPart {
		d := distinctSortedDates(raw)
		out.PerBodyPart = append(out.PerBodyPart, BodyPartFrequency{
			BodyPart:               part,
			SessionsPerWeek:        perWeek(len(d), d),
			AvgDaysBetweenSessions: avgGapDays(d),
			TotalSessions:          len(d),
		})
	}
	slices.SortFunc(out.PerBodyPart, func(a, b BodyPartFrequency) int {
		return cmp.Compare(a.BodyPart, b.BodyPart)
	})
	return out, nil
}
