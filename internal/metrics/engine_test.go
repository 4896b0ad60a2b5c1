package metrics

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/claude/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEngineEmptyInput checks that every group renders as {} without data
// and that keys follow registry order.
func TestEngineEmptyInput(t *testing.T) {
	e := NewEngine(DefaultRegistry(), DefaultParams())
	b, err := json.Marshal(e.Run(&Input{}))
	require.NoError(t, err)
	want := `{"sessions":{},"exercises":{},"sets":{},"frequency":{},"fatigue":{},"progress":{},"body":{},"correlations":{}}`
	assert.Equal(t, want, string(b))
}

// TestEngineIsolatesFailures checks that an error or a panic in one group
// leaves the others intact.
func TestEngineIsolatesFailures(t *testing.T) {
	reg := Registry{
		{"first", func(*Input, Params) (any, error) { return map[string]int{"n": 1}, nil }},
		{"broken", func(*Input, Params) (any, error) { return nil, errors.New("boom") }},
		{"panics", func(*Input, Params) (any, error) { panic("bad index") }},
		{"last", func(*Input, Params) (any, error) { return map[string]int{"n": 2}, nil }},
	}
	var observed []string
	var failures int
	e := NewEngine(reg, DefaultParams(), WithObserver(func(group string, _ time.Duration, err error) {
		observed = append(observed, group)
		if err != nil {
			failures++
		}
	}))

	report := e.Run(&Input{})
	b, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Equal(t, `{"first":{"n":1},"broken":{"error":"boom"},"panics":{"error":"panic: bad index"},"last":{"n":2}}`, string(b))
	assert.True(t, report.Failed("broken"))
	assert.False(t, report.Failed("last"))
	assert.Equal(t, []string{"first", "broken", "panics", "last"}, observed)
	assert.Equal(t, 2, failures)
}

// TestEngineRunGroup checks single-group lookups.
func TestEngineRunGroup(t *testing.T) {
	e := NewEngine(DefaultRegistry(), DefaultParams())
	v, ok := e.RunGroup(GroupBody, &Input{})
	require.True(t, ok)
	assert.Equal(t, Empty{}, v)

	_, ok = e.RunGroup("nope", &Input{})
	assert.False(t, ok)
}

// TestDefaultRegistryOrder pins the group order of the report.
func TestDefaultRegistryOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"sessions", "exercises", "sets", "frequency", "fatigue", "progress", "body", "correlations"},
		DefaultRegistry().Names())
}

// TestEngineDeterministic runs the engine twice over a generated training
// log and expects byte-identical output.
func TestEngineDeterministic(t *testing.T) {
	in := fakeInput(42)
	e := NewEngine(DefaultRegistry(), DefaultParams())

	first, err := json.Marshal(e.Run(in))
	require.NoError(t, err)
	second, err := json.Marshal(e.Run(in))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	report := e.Run(in)
	for _, name := range report.Names() {
		assert.False(t, report.Failed(name), "group %s failed", name)
	}
}

// fakeInput generates a consistent training log.
func fakeInput(seed int64) *Input {
	f := gofakeit.New(seed)
	b := newBuilder()
	parts := []string{"Chest", "Back", "Legs", "Shoulders"}
	for id := int64(1); id <= 6; id++ {
		b.exercise(id, f.Noun(), parts[int(id)%len(parts)])
	}
	start := day("2025-01-01")
	for id := int64(1); id <= 20; id++ {
		d := start.AddDate(0, 0, int(id)*f.IntRange(1, 3))
		b.in.Sessions = append(b.in.Sessions, models.Session{
			ID:    id,
			Date:  d,
			Start: &models.TimeOfDay{Hour: f.IntRange(6, 20)},
			End:   &models.TimeOfDay{Hour: f.IntRange(0, 23), Minute: f.IntRange(0, 59)},
		})
		for n := 0; n < f.IntRange(1, 4); n++ {
			var sets []models.WorkoutSet
			for k := 0; k < f.IntRange(1, 5); k++ {
				var r *int
				if f.Bool() {
					r = rir(f.IntRange(0, 4))
				}
				sets = append(sets, set(f.IntRange(0, 15), float64(f.IntRange(0, 80))*2.5, r))
			}
			b.block(id, int64(f.IntRange(1, 6)), sets...)
		}
	}
	for i := 0; i < 5; i++ {
		date := start.AddDate(0, 0, i*14).Format(models.DateLayout)
		b.composition(date, f.Float64Range(70, 90), fp(f.Float64Range(10, 25)), "scale")
		b.measurement(date, "waist", f.Float64Range(75, 95))
	}
	return b.build()
}
