package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when a catalogue name is already taken.
var ErrExists = errors.New("already exists")

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

// ListExercises returns the exercise catalogue ordered by ID.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, category, body_part FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.BodyPart); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// AddExercise inserts a catalogue entry and returns it with its new ID.
func (db *DB) AddExercise(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return models.Exercise{}, errors.New("exercise name is required")
	}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (name, category, body_part) VALUES ($1, $2, $3) RETURNING id`,
		e.Name, e.Category, e.BodyPart,
	).Scan(&e.ID)
	if err != nil {
		return models.Exercise{}, exerciseInsertError(e.Name, err)
	}
	return e, nil
}

func exerciseInsertError(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("exercise %q: %w", name, ErrExists)
	}
	return fmt.Errorf("inserting exercise %q: %w", name, err)
}

// InsertWorkout stores a session with its exercises and sets in a single
// transaction and returns the session ID. Sets are numbered from 1 within
// each exercise.
func (db *DB) InsertWorkout(ctx context.Context, w models.NewWorkout) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning tx: %w", ErrCommit, err)
	}
	defer tx.Rollback(ctx)

	var sessionID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_sessions (session_date, start_time, end_time, notes)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		models.DayOf(w.Date), timeArg(w.Start), timeArg(w.End), w.Notes,
	).Scan(&sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting session: %w", ErrCommit, err)
	}

	batch := &pgx.Batch{}
	for i, ex := range w.Exercises {
		batch.Queue(
			`INSERT INTO workout_exercises (session_id, exercise_id, position) VALUES ($1, $2, $3) RETURNING id`,
			sessionID, ex.ExerciseID, i+1,
		)
	}
	br := tx.SendBatch(ctx, batch)
	var sets []setRow
	for _, ex := range w.Exercises {
		var weID int64
		if err := br.QueryRow().Scan(&weID); err != nil {
			br.Close()
			return 0, fmt.Errorf("%w: inserting workout exercise %d: %w", ErrCommit, ex.ExerciseID, err)
		}
		for n, s := range ex.Sets {
			sets = append(sets, setRow{workoutExerciseID: weID, number: n + 1, set: s})
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing batch: %w", ErrCommit, err)
	}

	if len(sets) > 0 {
		query, args := buildSetsInsert(sets)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("%w: inserting sets: %w", ErrCommit, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommit, err)
	}
	return sessionID, nil
}

// DeleteSession removes a session together with its exercises and sets.
func (db *DB) DeleteSession(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return nil
}

type setRow struct {
	workoutExerciseID int64
	number            int
	set               models.NewSet
}

// buildSetsInsert renders a multi-VALUES insert for the given sets.
func buildSetsInsert(rows []setRow) (string, []any) {
	const cols = 5
	query := `INSERT INTO workout_sets (workout_exercise_id, set_number, repetitions, weight, rir) VALUES `
	args := make([]any, 0, len(rows)*cols)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, r.workoutExerciseID, r.number, r.set.Reps, r.set.Weight, r.set.RIR)
	}
	return query + strings.Join(valueStrings, ","), args
}

// timeArg converts a time of day for a TIME column. nil becomes NULL.
func timeArg(t *models.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(t.Seconds()) * 1_000_000, Valid: true}
}
