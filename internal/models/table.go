package models

import "time"

// Table is a tabular query result: column names plus positional rows.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Present reports whether the table carries a schema at all.
func (t Table) Present() bool {
	return len(t.Columns) > 0
}

// RawTables holds the query results the metrics input is assembled from.
// Body tables are optional.
type RawTables struct {
	Sessions         Table
	WorkoutExercises Table
	Sets             Table
	Exercises        Table
	BodyMeasurements Table
	BodyComposition  Table
}

// SetViewRow is one row of the flat sets view.
type SetViewRow struct {
	SetID        int64     `json:"set_id"`
	SessionDate  time.Time `json:"session_date"`
	ExerciseName string    `json:"exercise_name"`
	BodyPart     string    `json:"body_part"`
	SetNumber    int       `json:"set_number"`
	Reps         int       `json:"repetitions"`
	Weight       float64   `json:"weight"`
	Volume       float64   `json:"volume"`
	RIR          *int      `json:"rir"`
}
