// Package metrics turns normalized training records into the dashboard's
// derived metric groups. Everything here is pure: no I/O, no shared state.
package metrics

import "github.com/claude/liftlog/internal/models"

// Input is the immutable bundle every metric group reads. Slices are sorted:
// sessions by (date, id), body records by date, everything else by id.
type Input struct {
	Sessions         []models.Session
	WorkoutExercises []models.WorkoutExercise
	Sets             []models.WorkoutSet
	Exercises        []models.Exercise
	MuscleGroups     []models.MuscleGroup
	BodyMeasurements []models.BodyMeasurement
	BodyComposition  []models.BodyComposition

	Dropped DropCounts
}

// DropCounts records rows discarded during assembly because a reference did
// not resolve.
type DropCounts struct {
	WorkoutExercises int `json:"workout_exercises"`
	Sets             int `json:"sets"`
	BodyComposition  int `json:"body_composition"`
}

// Total returns the number of dropped rows across all tables.
func (d DropCounts) Total() int {
	return d.WorkoutExercises + d.Sets + d.BodyComposition
}

// Empty reports whether the input holds no records at all.
func (in *Input) Empty() bool {
	return in == nil || (len(in.Sessions) == 0 && len(in.WorkoutExercises) == 0 && len(in.Sets) == 0 &&
		len(in.Exercises) == 0 && len(in.BodyMeasurements) == 0 && len(in.BodyComposition) == 0)
}

// Params are the tunable thresholds of the metric groups.
type Params struct {
	// HighFatigueThreshold marks a session as high-fatigue when its score
	// reaches it.
	HighFatigueThreshold float64
	// VolumeSaturation is the volume load at which the fatigue volume term
	// saturates.
	VolumeSaturation float64
	// ProgressThresholdPct separates improving/regressing from stagnating.
	ProgressThresholdPct float64
}

// DefaultParams returns the stock thresholds.
func DefaultParams() Params {
	return Params{
		HighFatigueThreshold: 0.7,
		VolumeSaturation:     10000,
		ProgressThresholdPct: 2,
	}
}
