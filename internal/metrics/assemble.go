package metrics

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"

	"github.com/claude/liftlog/internal/models"
)

// Required columns per table, in the names the storage schema uses.
var (
	sessionColumns         = []string{"session_id", "session_date", "start_time", "end_time"}
	workoutExerciseColumns = []string{"workout_exercise_id", "session_id", "exercise_id"}
	setColumns             = []string{"set_id", "workout_exercise_id", "set_number", "repetitions", "weight", "rir"}
	exerciseColumns        = []string{"exercise_id", "exercise_name", "category", "body_part"}
	bodyMeasurementColumns = append([]string{"measurement_date"}, models.Circumferences...)
	bodyCompositionColumns = []string{"measurement_date", "weight", "muscle_mass", "fat_mass", "water_mass", "body_fat_percentage", "method"}
	setViewColumns         = []string{"set_id", "session_date", "exercise_name", "body_part", "set_number", "repetitions", "weight", "volume", "rir"}
)

// Assembler builds an Input from raw query results.
type Assembler struct {
	log *slog.Logger
}

// NewAssembler creates an Assembler. A nil logger discards drop warnings.
func NewAssembler(log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Assembler{log: log}
}

// Assemble converts raw tables into a sorted, referentially consistent Input.
// Rows whose references do not resolve are dropped and counted. Missing
// columns or unconvertible cells fail the whole assembly.
func (a *Assembler) Assemble(raw models.RawTables) (*Input, error) {
	readers, err := a.readers(raw)
	if err != nil {
		return nil, err
	}

	in := &Input{}
	if in.Sessions, err = readSessions(readers["sessions"]); err != nil {
		return nil, err
	}
	if in.Exercises, err = readExercises(readers["exercises"]); err != nil {
		return nil, err
	}
	wes, err := readWorkoutExercises(readers["workout_exercises"])
	if err != nil {
		return nil, err
	}
	sets, err := readSets(readers["sets"])
	if err != nil {
		return nil, err
	}
	if r, ok := readers["body_measurements"]; ok {
		if in.BodyMeasurements, err = readBodyMeasurements(r); err != nil {
			return nil, err
		}
	}
	if r, ok := readers["body_composition"]; ok {
		if in.BodyComposition, in.Dropped.BodyComposition, err = a.readBodyComposition(r); err != nil {
			return nil, err
		}
	}

	sessionIDs := make(map[int64]bool, len(in.Sessions))
	for _, s := range in.Sessions {
		sessionIDs[s.ID] = true
	}
	exerciseIDs := make(map[int64]bool, len(in.Exercises))
	for _, e := range in.Exercises {
		exerciseIDs[e.ID] = true
	}

	weIDs := make(map[int64]bool, len(wes))
	for _, we := range wes {
		if !sessionIDs[we.SessionID] || !exerciseIDs[we.ExerciseID] {
			in.Dropped.WorkoutExercises++
			a.log.Warn("dropping workout exercise with dangling reference",
				"workout_exercise_id", we.ID,
				"session_id", we.SessionID,
				"exercise_id", we.ExerciseID,
			)
			continue
		}
		weIDs[we.ID] = true
		in.WorkoutExercises = append(in.WorkoutExercises, we)
	}
	for _, s := range sets {
		if !weIDs[s.WorkoutExerciseID] {
			in.Dropped.Sets++
			a.log.Warn("dropping set with dangling reference",
				"set_id", s.ID,
				"workout_exercise_id", s.WorkoutExerciseID,
			)
			continue
		}
		in.Sets = append(in.Sets, s)
	}

	in.MuscleGroups = muscleGroups(in.Exercises)

	slices.SortStableFunc(in.Sessions, compareSessions)
	slices.SortStableFunc(in.WorkoutExercises, func(a, b models.WorkoutExercise) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(in.Sets, func(a, b models.WorkoutSet) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortStableFunc(in.Exercises, func(a, b models.Exercise) int { return cmp.Compare(a.ID, b.ID) })

	if in.Dropped.Total() > 0 {
		a.log.Info("metrics input assembled with dropped rows",
			"workout_exercises", in.Dropped.WorkoutExercises,
			"sets", in.Dropped.Sets,
			"body_composition", in.Dropped.BodyComposition,
		)
	}
	return in, nil
}

// readers checks every table's columns before any cell is converted.
func (a *Assembler) readers(raw models.RawTables) (map[string]*tableReader, error) {
	specs := []struct {
		name     string
		table    models.Table
		required []string
		optional bool
	}{
		{"sessions", raw.Sessions, sessionColumns, false},
		{"workout_exercises", raw.WorkoutExercises, workoutExerciseColumns, false},
		{"sets", raw.Sets, setColumns, false},
		{"exercises", raw.Exercises, exerciseColumns, false},
		{"body_measurements", raw.BodyMeasurements, bodyMeasurementColumns, true},
		{"body_composition", raw.BodyComposition, bodyCompositionColumns, true},
	}
	out := make(map[string]*tableReader, len(specs))
	for _, s := range specs {
		if s.optional && !s.table.Present() {
			continue
		}
		r, err := newTableReader(s.name, s.table, s.required)
		if err != nil {
			return nil, err
		}
		out[s.name] = r
	}
	return out, nil
}

// AssembleSetsView converts the flat sets view. Rows come back ordered by
// (session date, exercise name, set number).
func (a *Assembler) AssembleSetsView(t models.Table) ([]models.SetViewRow, error) {
	r, err := newTableReader("sets_view", t, setViewColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.SetViewRow, 0, len(t.Rows))
	for i, row := range t.Rows {
		var v models.SetViewRow
		if v.SetID, err = r.int64Val(i, row, "set_id"); err != nil {
			return nil, err
		}
		if v.SessionDate, err = r.dateVal(i, row, "session_date"); err != nil {
			return nil, err
		}
		if v.ExerciseName, err = r.strVal(i, row, "exercise_name"); err != nil {
			return nil, err
		}
		if v.BodyPart, err = r.strVal(i, row, "body_part"); err != nil {
			return nil, err
		}
		if v.SetNumber, err = r.intVal(i, row, "set_number"); err != nil {
			return nil, err
		}
		if v.Reps, err = r.intVal(i, row, "repetitions"); err != nil {
			return nil, err
		}
		if v.Weight, err = r.floatVal(i, row, "weight"); err != nil {
			return nil, err
		}
		if v.RIR, err = r.optIntVal(i, row, "rir"); err != nil {
			return nil, err
		}
		v.Volume = v.Weight * float64(v.Reps)
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b models.SetViewRow) int {
		return cmp.Or(
			a.SessionDate.Compare(b.SessionDate),
			cmp.Compare(a.ExerciseName, b.ExerciseName),
			cmp.Compare(a.SetNumber, b.SetNumber),
			cmp.Compare(a.SetID, b.SetID),
		)
	})
	return out, nil
}

func readSessions(r *tableReader) ([]models.Session, error) {
	out := make([]models.Session, 0, len(r.t.Rows))
	var err error
	for i, row := range r.t.Rows {
		var s models.Session
		if s.ID, err = r.int64Val(i, row, "session_id"); err != nil {
			return nil, err
		}
		if s.Date, err = r.dateVal(i, row, "session_date"); err != nil {
			return nil, err
		}
		if s.Start, err = r.optTimeVal(i, row, "start_time"); err != nil {
			return nil, err
		}
		if s.End, err = r.optTimeVal(i, row, "end_time"); err != nil {
			return nil, err
		}
		if s.Notes, err = r.optStrVal(i, row, "notes"); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func readWorkoutExercises(r *tableReader) ([]models.WorkoutExercise, error) {
	out := make([]models.WorkoutExercise, 0, len(r.t.Rows))
	var err error
	for i, row := range r.t.Rows {
		var we models.WorkoutExercise
		if we.ID, err = r.int64Val(i, row, "workout_exercise_id"); err != nil {
			return nil, err
		}
		if we.SessionID, err = r.int64Val(i, row, "session_id"); err != nil {
			return nil, err
		}
		if we.ExerciseID, err = r.int64Val(i, row, "exercise_id"); err != nil {
			return nil, err
		}
		out = append(out, we)
	}
	return out, nil
}

func readSets(r *tableReader) ([]models.WorkoutSet, error) {
	out := make([]models.WorkoutSet, 0, len(r.t.Rows))
	var err error
	for i, row := range r.t.Rows {
		var s models.WorkoutSet
		if s.ID, err = r.int64Val(i, row, "set_id"); err != nil {
			return nil, err
		}
		if s.WorkoutExerciseID, err = r.int64Val(i, row, "workout_exercise_id"); err != nil {
			return nil, err
		}
		if s.SetNumber, err = r.intVal(i, row, "set_number"); err != nil {
			return nil, err
		}
		if s.Reps, err = r.intVal(i, row, "repetitions"); err != nil {
			return nil, err
		}
		if s.Reps < 0 {
			return nil, r.invalid(i, row, "repetitions", errors.New("negative repetitions"))
		}
		if s.Weight, err = r.floatVal(i, row, "weight"); err != nil {
			return nil, err
		}
		if s.Weight < 0 {
			return nil, r.invalid(i, row, "weight", errors.New("negative weight"))
		}
		if s.RIR, err = r.optIntVal(i, row, "rir"); err != nil {
			return nil, err
		}
		if s.RIR != nil && *s.RIR < 0 {
			return nil, r.invalid(i, row, "rir", errors.New("negative rir"))
		}
		out = append(out, s)
	}
	return out, nil
}

func readExercises(r *tableReader) ([]models.Exercise, error) {
	out := make([]models.Exercise, 0, len(r.t.Rows))
	var err error
	for i, row := range r.t.Rows {
		var e models.Exercise
		if e.ID, err = r.int64Val(i, row, "exercise_id"); err != nil {
			return nil, err
		}
		if e.Name, err = r.strVal(i, row, "exercise_name"); err != nil {
			return nil, err
		}
		if e.Category, err = r.strVal(i, row, "category"); err != nil {
			return nil, err
		}
		if e.BodyPart, err = r.strVal(i, row, "body_part"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func readBodyMeasurements(r *tableReader) ([]models.BodyMeasurement, error) {
	var out []models.BodyMeasurement
	for i, row := range r.t.Rows {
		date, err := r.dateVal(i, row, "measurement_date")
		if err != nil {
			return nil, err
		}
		for _, typ := range models.Circumferences {
			v, err := r.optFloatVal(i, row, typ)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			out = append(out, models.BodyMeasurement{Date: date, Type: typ, Value: *v})
		}
	}
	// Flattening keeps circumference order within a date.
	slices.SortStableFunc(out, func(a, b models.BodyMeasurement) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

func (a *Assembler) readBodyComposition(r *tableReader) ([]models.BodyComposition, int, error) {
	var out []models.BodyComposition
	dropped := 0
	var err error
	for i, row := range r.t.Rows {
		var c models.BodyComposition
		if c.Date, err = r.dateVal(i, row, "measurement_date"); err != nil {
			return nil, 0, err
		}
		var w *float64
		if w, err = r.optFloatVal(i, row, "weight"); err != nil {
			return nil, 0, err
		}
		if w == nil {
			dropped++
			a.log.Warn("dropping body composition without weight", "date", c.Date.Format(models.DateLayout))
			continue
		}
		c.Weight = *w
		if c.MuscleMass, err = r.optFloatVal(i, row, "muscle_mass"); err != nil {
			return nil, 0, err
		}
		if c.FatMass, err = r.optFloatVal(i, row, "fat_mass"); err != nil {
			return nil, 0, err
		}
		if c.WaterMass, err = r.optFloatVal(i, row, "water_mass"); err != nil {
			return nil, 0, err
		}
		if c.FatPercentage, err = r.optFloatVal(i, row, "body_fat_percentage"); err != nil {
			return nil, 0, err
		}
		if c.Method, err = r.strVal(i, row, "method"); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, compareComposition)
	return out, dropped, nil
}

func muscleGroups(exercises []models.Exercise) []models.MuscleGroup {
	seen := make(map[string]bool)
	var names []string
	for _, e := range exercises {
		if e.BodyPart == "" || seen[e.BodyPart] {
			continue
		}
		seen[e.BodyPart] = true
		names = append(names, e.BodyPart)
	}
	slices.Sort(names)
	out := make([]models.MuscleGroup, len(names))
	for i, n := range names {
		out[i] = models.MuscleGroup{ID: int64(i + 1), Name: n}
	}
	return out
}

func compareSessions(a, b models.Session) int {
	return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
}

func compareComposition(a, b models.BodyComposition) int {
	return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Method, b.Method))
}
