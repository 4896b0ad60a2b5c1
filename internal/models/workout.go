package models

import "time"

// NewWorkout is a fully resolved session ready to be persisted.
type NewWorkout struct {
	Date      time.Time
	Start     *TimeOfDay
	End       *TimeOfDay
	Notes     *string
	Exercises []NewWorkoutExercise
}

// NewWorkoutExercise is one resolved exercise block with its sets in order.
type NewWorkoutExercise struct {
	ExerciseID int64
	Sets       []NewSet
}

// NewSet is one set to insert. Set numbers are assigned on insert.
type NewSet struct {
	Reps   int
	Weight float64
	RIR    *int
}

// SetCount returns the total number of sets across all exercises.
func (w NewWorkout) SetCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}
