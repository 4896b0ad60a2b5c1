package metrics

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func clock(s string) *models.TimeOfDay {
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func rir(v int) *int { return &v }

func fp(v float64) *float64 { return &v }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// builder assembles hand-made inputs with ids assigned in call order.
type builder struct {
	in     Input
	nextWE int64
	nextS  int64
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) exercise(id int64, name, part string) *builder {
	b.in.Exercises = append(b.in.Exercises, models.Exercise{ID: id, Name: name, Category: "Push", BodyPart: part})
	return b
}

func (b *builder) session(id int64, date string) *builder {
	b.in.Sessions = append(b.in.Sessions, models.Session{ID: id, Date: day(date)})
	return b
}

func (b *builder) timedSession(id int64, date, start, end string) *builder {
	b.in.Sessions = append(b.in.Sessions, models.Session{ID: id, Date: day(date), Start: clock(start), End: clock(end)})
	return b
}

// block adds a workout exercise with the given sets to a session.
func (b *builder) block(sessionID, exerciseID int64, sets ...models.WorkoutSet) *builder {
	b.nextWE++
	b.in.WorkoutExercises = append(b.in.WorkoutExercises, models.WorkoutExercise{
		ID: b.nextWE, SessionID: sessionID, ExerciseID: exerciseID,
	})
	for i, s := range sets {
		b.nextS++
		s.ID = b.nextS
		s.WorkoutExerciseID = b.nextWE
		s.SetNumber = i + 1
		b.in.Sets = append(b.in.Sets, s)
	}
	return b
}

func (b *builder) composition(date string, weight float64, fat *float64, method string) *builder {
	b.in.BodyComposition = append(b.in.BodyComposition, models.BodyComposition{
		Date: day(date), Weight: weight, FatPercentage: fat, Method: method,
	})
	return b
}

func (b *builder) measurement(date, typ string, v float64) *builder {
	b.in.BodyMeasurements = append(b.in.BodyMeasurements, models.BodyMeasurement{Date: day(date), Type: typ, Value: v})
	return b
}

func (b *builder) build() *Input {
	in := b.in
	return &in
}

func set(reps int, weight float64, r *int) models.WorkoutSet {
	return models.WorkoutSet{Reps: reps, Weight: weight, RIR: r}
}

func compute(t *testing.T, fn Func, in *Input) any {
	t.Helper()
	out, err := fn(in, DefaultParams())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	return out
}
