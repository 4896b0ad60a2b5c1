package metrics

import (
	"time"

	"github.com/claude/liftlog/internal/strength"
)

// SessionMetrics is the "sessions" group.
type SessionMetrics struct {
	PerSession []SessionEntry `json:"per_session"`
	Global     SessionGlobal  `json:"global"`
}

// SessionEntry describes one session that has at least one set.
type SessionEntry struct {
	SessionID       int64    `json:"session_id"`
	SessionDate     string   `json:"session_date"`
	DurationMinutes *float64 `json:"duration_minutes"`
	TotalSets       int      `json:"total_sets"`
	TotalReps       int      `json:"total_reps"`
	TotalVolume     float64  `json:"total_volume"`
	AvgIntensity    float64  `json:"avg_intensity"`
	AvgRIR          *float64 `json:"avg_rir"`
	SetsToFailure   int      `json:"sets_to_failure"`
	ExercisesCount  int      `json:"exercises_count"`
}

type SessionGlobal struct {
	AvgSessionDuration  *float64 `json:"avg_session_duration"`
	AvgVolumePerSession *float64 `json:"avg_volume_per_session"`
	AvgSetsPerSession   *float64 `json:"avg_sets_per_session"`
	AvgSessionsPerWeek  *float64 `json:"avg_sessions_per_week"`
}

// ComputeSessions derives per-session workload and its averages.
func ComputeSessions(in *Input, _ Params) (any, error) {
	if len(in.Sessions) == 0 {
		return nil, nil
	}
	ix, err := newIndex(in)
	if err != nil {
		return nil, err
	}

	out := &SessionMetrics{PerSession: []SessionEntry{}}
	var durations, volumes, setCounts []float64
	for _, id := range sortedKeys(ix.setsBySession) {
		sets := ix.setsBySession[id]
		sess := ix.sessions[id]
		st := summarize(sets)

		exercises := make(map[int64]bool)
		for _, s := range sets {
			exercises[s.WorkoutExerciseID] = true
		}

		e := SessionEntry{
			SessionID:      id,
			SessionDate:    formatDate(sess.Date),
			TotalSets:      st.count,
			TotalReps:      st.reps,
			TotalVolume:    round2(st.volume),
			AvgIntensity:   round2(strength.Mean(st.oneRMs)),
			AvgRIR:         round2p(st.avgRIR()),
			SetsToFailure:  st.setsToFailure,
			ExercisesCount: len(exercises),
		}
		if d, ok := sess.DurationMinutes(); ok {
			e.DurationMinutes = ptr(round2(d))
			durations = append(durations, d)
		}
		volumes = append(volumes, st.volume)
		setCounts = append(setCounts, float64(st.count))
		out.PerSession = append(out.PerSession, e)
	}

	dates := make([]time.Time, len(in.Sessions))
	for i, s := range in.Sessions {
		dates[i] = s.Date
	}
	out.Global = SessionGlobal{
		AvgSessionDuration:  meanOrNil(durations),
		AvgVolumePerSession: meanOrNil(volumes),
		AvgSetsPerSession:   meanOrNil(setCounts),
		AvgSessionsPerWeek:  perWeek(len(in.Sessions), dates),
	}
	return out, nil
}

func meanOrNil(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	return ptr(round2(strength.Mean(xs)))
}
