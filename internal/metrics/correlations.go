package metrics

import "github.com/claude/liftlog/internal/strength"

// CorrelationMetrics is the "correlations" group.
type CorrelationMetrics struct {
	VolumeVsStrength *float64 `json:"volume_vs_strength"`
	SampleSize       int      `json:"sample_size"`
}

// ComputeCorrelations correlates per-set volume with per-set estimated 1RM
// over sets that moved a load for at least one repetition.
func ComputeCorrelations(in *Input, _ Params) (any, error) {
	if len(in.Sets) == 0 {
		return nil, nil
	}
	var volumes, oneRMs []float64
	for _, s := range in.Sets {
		if s.Weight <= 0 || s.Reps <= 0 {
			continue
		}
		volumes = append(volumes, s.Volume())
		oneRMs = append(oneRMs, strength.Est1RM(s.Weight, s.Reps))
	}
	return &CorrelationMetrics{
		VolumeVsStrength: strength.RoundPtr(strength.Pearson(volumes, oneRMs), 3),
		SampleSize:       len(volumes),
	}, nil
}
