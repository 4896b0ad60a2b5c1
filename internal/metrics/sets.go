package metrics

import "github.com/claude/liftlog/internal/strength"

// SetMetrics is the "sets" group.
type SetMetrics struct {
	TotalSets       int             `json:"total_sets"`
	TotalReps       int             `json:"total_reps"`
	TotalVolume     float64         `json:"total_volume"`
	AvgWeight       float64         `json:"avg_weight"`
	MaxWeight       float64         `json:"max_weight"`
	AvgRIR          *float64        `json:"avg_rir"`
	RIRDistribution RIRDistribution `json:"rir_distribution"`
	RIRTrackedSets  int             `json:"rir_tracked_sets"`
	SetsToFailure   int             `json:"sets_to_failure"`
	FailureRatio    float64         `json:"failure_ratio"`
	AvgEstimated1RM float64         `json:"avg_estimated_1rm"`
	MaxEstimated1RM float64         `json:"max_estimated_1rm"`
	AvgRepsPerSet   float64         `json:"avg_reps_per_set"`
	HeavySetRatio   float64         `json:"heavy_set_ratio"`
}

// RIRDistribution counts sets by reps in reserve. Sets without RIR are not
// counted in any bucket.
type RIRDistribution struct {
	RIR0     int `json:"rir_0"`
	RIR1     int `json:"rir_1"`
	RIR2     int `json:"rir_2"`
	RIR3Plus int `json:"rir_3_plus"`
}

// heavySetFraction of the best estimated 1RM marks a set as heavy.
const heavySetFraction = 0.8

// ComputeSets aggregates effort and load over every set.
func ComputeSets(in *Input, _ Params) (any, error) {
	if len(in.Sets) == 0 {
		return nil, nil
	}
	st := summarize(in.Sets)

	var dist RIRDistribution
	for _, s := range in.Sets {
		if s.RIR == nil {
			continue
		}
		switch r := *s.RIR; {
		case r == 0:
			dist.RIR0++
		case r == 1:
			dist.RIR1++
		case r == 2:
			dist.RIR2++
		default:
			dist.RIR3Plus++
		}
	}

	maxRM := strength.Max(st.oneRMs)
	heavy := 0
	for _, rm := range st.oneRMs {
		if rm >= heavySetFraction*maxRM {
			heavy++
		}
	}

	n := float64(st.count)
	return &SetMetrics{
		TotalSets:       st.count,
		TotalReps:       st.reps,
		TotalVolume:     round2(st.volume),
		AvgWeight:       round2(strength.Mean(st.weights)),
		MaxWeight:       round2(strength.Max(st.weights)),
		AvgRIR:          round2p(st.avgRIR()),
		RIRDistribution: dist,
		RIRTrackedSets:  len(st.rirs),
		SetsToFailure:   st.setsToFailure,
		FailureRatio:    round2(float64(st.setsToFailure) / n),
		AvgEstimated1RM: round2(strength.Mean(st.oneRMs)),
		MaxEstimated1RM: round2(maxRM),
		AvgRepsPerSet:   round2(float64(st.reps) / n),
		HeavySetRatio:   round2(float64(heavy) / n),
	}, nil
}
