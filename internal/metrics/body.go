package metrics

import (
	"slices"
	"time"
)

// BodyMetrics is the "body" group.
type BodyMetrics struct {
	Timeline []BodyTimelineEntry `json:"timeline"`
	Global   BodyGlobal          `json:"global"`
}

// BodyTimelineEntry is one composition record with the circumferences taken
// on the same date.
type BodyTimelineEntry struct {
	Date          string   `json:"date"`
	Method        string   `json:"method"`
	Weight        float64  `json:"weight"`
	MuscleMass    *float64 `json:"muscle_mass"`
	FatMass       *float64 `json:"fat_mass"`
	WaterMass     *float64 `json:"water_mass"`
	FatPercentage *float64 `json:"fat_percentage"`
	Chest         *float64 `json:"chest"`
	Waist         *float64 `json:"waist"`
	Abdomen       *float64 `json:"abdomen"`
	Hips          *float64 `json:"hips"`
	Thigh         *float64 `json:"thigh"`
	Calf          *float64 `json:"calf"`
	Biceps        *float64 `json:"biceps"`
}

type BodyGlobal struct {
	Records               int      `json:"records"`
	StartWeight           float64  `json:"start_weight"`
	EndWeight             float64  `json:"end_weight"`
	TotalWeightChange     float64  `json:"total_weight_change"`
	AvgWeeklyWeightChange float64  `json:"avg_weekly_weight_change"`
	AvgBodyFatPct         *float64 `json:"avg_body_fat_pct"`
	AvgMuscleMass         *float64 `json:"avg_muscle_mass"`
}

// ComputeBody tracks body weight and composition. It needs two composition
// records; circumferences without a same-date composition record are left out.
func ComputeBody(in *Input, _ Params) (any, error) {
	if len(in.BodyComposition) < 2 {
		return nil, nil
	}
	records := slices.Clone(in.BodyComposition)
	slices.SortStableFunc(records, compareComposition)

	circ := make(map[time.Time]map[string]float64)
	for _, m := range in.BodyMeasurements {
		if circ[m.Date] == nil {
			circ[m.Date] = make(map[string]float64)
		}
		circ[m.Date][m.Type] = m.Value
	}
	get := func(d time.Time, typ string) *float64 {
		v, ok := circ[d][typ]
		if !ok {
			return nil
		}
		return ptr(v)
	}

	out := &BodyMetrics{Timeline: make([]BodyTimelineEntry, 0, len(records))}
	var fat, muscle []float64
	for _, r := range records {
		if r.FatPercentage != nil {
			fat = append(fat, *r.FatPercentage)
		}
		if r.MuscleMass != nil {
			muscle = append(muscle, *r.MuscleMass)
		}
		out.Timeline = append(out.Timeline, BodyTimelineEntry{
			Date:          formatDate(r.Date),
			Method:        r.Method,
			Weight:        r.Weight,
			MuscleMass:    r.MuscleMass,
			FatMass:       r.FatMass,
			WaterMass:     r.WaterMass,
			FatPercentage: r.FatPercentage,
			Chest:         get(r.Date, "chest"),
			Waist:         get(r.Date, "waist"),
			Abdomen:       get(r.Date, "abdomen"),
			Hips:          get(r.Date, "hips"),
			Thigh:         get(r.Date, "thigh"),
			Calf:          get(r.Date, "calf"),
			Biceps:        get(r.Date, "biceps"),
		})
	}

	first, last := records[0], records[len(records)-1]
	days := max(last.Date.Sub(first.Date).Hours()/24, 1)
	change := last.Weight - first.Weight
	out.Global = BodyGlobal{
		Records:               len(records),
		StartWeight:           first.Weight,
		EndWeight:             last.Weight,
		TotalWeightChange:     round2(change),
		AvgWeeklyWeightChange: round2(change / (days / 7)),
		AvgBodyFatPct:         meanOrNil(fat),
		AvgMuscleMass:         meanOrNil(muscle),
	}
	return out, nil
}
