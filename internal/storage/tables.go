package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
)

// Raw table queries. Column aliases are the names the metrics assembler reads.
const (
	sessionsQuery = `SELECT id AS session_id, session_date, start_time, end_time, notes
		FROM workout_sessions`
	workoutExercisesQuery = `SELECT id AS workout_exercise_id, session_id, exercise_id
		FROM workout_exercises`
	setsQuery = `SELECT id AS set_id, workout_exercise_id, set_number, repetitions, weight, rir
		FROM workout_sets`
	exercisesQuery = `SELECT id AS exercise_id, name AS exercise_name, category, body_part
		FROM exercises`
	bodyMeasurementsQuery = `SELECT measurement_date, chest, waist, abdomen, hips, thigh, calf, biceps
		FROM body_measurements`
	bodyCompositionQuery = `SELECT measurement_date, weight, muscle_mass, fat_mass, water_mass,
		body_fat_percentage, method
		FROM body_composition`
	setsViewQuery = `SELECT set_id, session_date, exercise_name, body_part, set_number,
		repetitions, weight, volume, rir
		FROM sets_view`
)

// LoadRaw reads every table the metrics input is assembled from.
func (db *DB) LoadRaw(ctx context.Context) (models.RawTables, error) {
	var raw models.RawTables
	for _, q := range []struct {
		name string
		sql  string
		dst  *models.Table
	}{
		{"sessions", sessionsQuery, &raw.Sessions},
		{"workout exercises", workoutExercisesQuery, &raw.WorkoutExercises},
		{"sets", setsQuery, &raw.Sets},
		{"exercises", exercisesQuery, &raw.Exercises},
		{"body measurements", bodyMeasurementsQuery, &raw.BodyMeasurements},
		{"body composition", bodyCompositionQuery, &raw.BodyComposition},
	} {
		t, err := db.queryTable(ctx, q.sql)
		if err != nil {
			return models.RawTables{}, fmt.Errorf("loading %s: %w", q.name, err)
		}
		*q.dst = t
	}
	return raw, nil
}

// LoadSetsView reads the flat sets view.
func (db *DB) LoadSetsView(ctx context.Context) (models.Table, error) {
	t, err := db.queryTable(ctx, setsViewQuery)
	if err != nil {
		return models.Table{}, fmt.Errorf("loading sets view: %w", err)
	}
	return t, nil
}

func (db *DB) queryTable(ctx context.Context, sql string, args ...any) (models.Table, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return models.Table{}, err
	}
	return collectTable(rows)
}

// collectTable copies a result set into a Table, keeping pgx's decoded values.
func collectTable(rows pgx.Rows) (models.Table, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := models.Table{Columns: make([]string, len(fields)), Rows: [][]any{}}
	for i, fd := range fields {
		t.Columns[i] = fd.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return models.Table{}, fmt.Errorf("reading row: %w", err)
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return models.Table{}, err
	}
	return t, nil
}
