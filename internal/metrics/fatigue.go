package metrics

import (
	"fmt"
	"math"
	"slices"

	"github.com/claude/liftlog/internal/strength"
)

// Fatigue score weights.
const (
	fatigueRIRWeight     = 0.4
	fatigueFailureWeight = 0.3
	fatigueVolumeWeight  = 0.3
	fatigueRIRCeiling    = 3.0
)

// FatigueMetrics is the "fatigue" group.
type FatigueMetrics struct {
	PerSession []FatigueEntry `json:"per_session"`
	Global     FatigueGlobal  `json:"global"`
}

type FatigueEntry struct {
	SessionID          int64    `json:"session_id"`
	SessionDate        string   `json:"session_date"`
	TotalSets          int      `json:"total_sets"`
	AvgRIR             *float64 `json:"avg_rir"`
	SetsToFailure      int      `json:"sets_to_failure"`
	SetsToFailureRatio float64  `json:"sets_to_failure_ratio"`
	VolumeLoad         float64  `json:"volume_load"`
	IntensityLoad      float64  `json:"intensity_load"`
	FatigueScore       float64  `json:"fatigue_score"`
	HighFatigue        bool     `json:"high_fatigue"`
}

type FatigueGlobal struct {
	AvgFatigueScore                   *float64 `json:"avg_fatigue_score"`
	HighFatigueSessionsRatio          *float64 `json:"high_fatigue_sessions_ratio"`
	MaxConsecutiveHighFatigueSessions int      `json:"max_consecutive_high_fatigue_sessions"`
}

// FatigueScore combines effort, failure rate and volume into [0, 1].
// avgRIR may be nil, in which case the effort term is 0.
func FatigueScore(avgRIR *float64, setsToFailure, totalSets int, volume, saturation float64) float64 {
	score := 0.0
	if avgRIR != nil {
		score += fatigueRIRWeight * clamp((fatigueRIRCeiling-*avgRIR)/fatigueRIRCeiling, 0, 1)
	}
	if totalSets > 0 {
		score += fatigueFailureWeight * float64(setsToFailure) / float64(totalSets)
	}
	score += fatigueVolumeWeight * math.Min(volume/saturation, 1)
	return strength.Round(math.Min(score, 1), 3)
}

// ComputeFatigue scores every session with sets and finds the longest
// chronological run of high-fatigue sessions.
func ComputeFatigue(in *Input, p Params) (any, error) {
	if len(in.Sessions) == 0 || len(in.Sets) == 0 {
		return nil, nil
	}
	if p.VolumeSaturation <= 0 {
		return nil, fmt.Errorf("volume saturation must be positive, got %v", p.VolumeSaturation)
	}
	ix, err := newIndex(in)
	if err != nil {
		return nil, err
	}

	entries := make(map[int64]FatigueEntry)
	var scores []float64
	high, run, longest := 0, 0, 0
	sessions := slices.Clone(in.Sessions)
	slices.SortStableFunc(sessions, compareSessions)
	for _, sess := range sessions {
		sets := ix.setsBySession[sess.ID]
		if len(sets) == 0 {
			continue
		}
		st := summarize(sets)
		avg := st.avgRIR()
		score := FatigueScore(avg, st.setsToFailure, st.count, st.volume, p.VolumeSaturation)
		isHigh := score >= p.HighFatigueThreshold

		scores = append(scores, score)
		if isHigh {
			high++
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
		entries[sess.ID] = FatigueEntry{
			SessionID:          sess.ID,
			SessionDate:        formatDate(sess.Date),
			TotalSets:          st.count,
			AvgRIR:             round2p(avg),
			SetsToFailure:      st.setsToFailure,
			SetsToFailureRatio: round2(float64(st.setsToFailure) / float64(st.count)),
			VolumeLoad:         round2(st.volume),
			IntensityLoad:      round2(strength.Mean(st.oneRMs)),
			FatigueScore:       score,
			HighFatigue:        isHigh,
		}
	}

	out := &FatigueMetrics{PerSession: make([]FatigueEntry, 0, len(entries))}
	for _, id := range sortedKeys(entries) {
		out.PerSession = append(out.PerSession, entries[id])
	}
	if len(scores) > 0 {
		out.Global.AvgFatigueScore = ptr(strength.Round(strength.Mean(scores), 3))
		out.Global.HighFatigueSessionsRatio = ptr(round2(float64(high) / float64(len(scores))))
	}
	out.Global.MaxConsecutiveHighFatigueSessions = longest
	return out, nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
