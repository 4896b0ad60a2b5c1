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

// WeeklyValue compares the latest training week with the one before it.
type WeeklyValue struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

// KPI is the dashboard headline built from the flat sets view.
type KPI struct {
	Sessions       int         `json:"sessions"`
	AvgIntensity   float64     `json:"avg_intensity"`
	CurrentWeek    string      `json:"current_week,omitempty"`
	PreviousWeek   string      `json:"previous_week,omitempty"`
	Volume         WeeklyValue `json:"volume"`
	Intensity      WeeklyValue `json:"intensity"`
	SetsPerSession WeeklyValue `json:"sets_per_session"`
}

type weekBucket struct {
	volume     float64
	intensity  []float64
	sets       int
	sessionDay map[time.Time]bool
}

// ComputeKPI summarizes the two most recent ISO weeks that have training.
// Volume is summed, intensity (estimated 1RM) averaged, and sets are divided
// by distinct session dates.
func ComputeKPI(rows []models.SetViewRow) *KPI {
	out := &KPI{}
	if len(rows) == 0 {
		return out
	}

	buckets := make(map[isoWeek]*weekBucket)
	days := make(map[time.Time]bool)
	var all []float64
	for _, r := range rows {
		w := weekOf(r.SessionDate)
		b := buckets[w]
		if b == nil {
			b = &weekBucket{sessionDay: make(map[time.Time]bool)}
			buckets[w] = b
		}
		rm := strength.Est1RM(r.Weight, r.Reps)
		b.volume += r.Weight * float64(r.Reps)
		b.intensity = append(b.intensity, rm)
		b.sets++
		b.sessionDay[r.SessionDate] = true
		days[r.SessionDate] = true
		all = append(all, rm)
	}
	out.Sessions = len(days)
	out.AvgIntensity = round2(strength.Mean(all))

	weeks := slices.SortedFunc(maps.Keys(buckets), func(a, b isoWeek) int {
		return cmp.Or(cmp.Compare(a.year, b.year), cmp.Compare(a.week, b.week))
	})
	cur := buckets[weeks[len(weeks)-1]]
	out.CurrentWeek = weeks[len(weeks)-1].String()
	var prev *weekBucket
	if len(weeks) > 1 {
		prev = buckets[weeks[len(weeks)-2]]
		out.PreviousWeek = weeks[len(weeks)-2].String()
	}

	out.Volume = compareWeeks(cur, prev, func(b *weekBucket) float64 { return b.volume })
	out.Intensity = compareWeeks(cur, prev, func(b *weekBucket) float64 { return strength.Mean(b.intensity) })
	out.SetsPerSession = compareWeeks(cur, prev, func(b *weekBucket) float64 {
		return float64(b.sets) / float64(max(len(b.sessionDay), 1))
	})
	return out
}

func compareWeeks(cur, prev *weekBucket, value func(*weekBucket) float64) WeeklyValue {
	c := value(cur)
	if prev == nil {
		return WeeklyValue{Current: round2(c)}
	}
	p := value(prev)
	return WeeklyValue{
		Current:  round2(c),
		Previous: round2(p),
		Change:   round2(strength.PercentChange(c, p)),
	}
}

func (w isoWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", w.year, w.week)
}
