package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/instrumentation"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	raw      models.RawTables
	view     models.Table
	rawCalls int
	setCalls int
	err      error
}

func (f *fakeLoader) LoadRaw(context.Context) (models.RawTables, error) {
	f.rawCalls++
	return f.raw, f.err
}

func (f *fakeLoader) LoadSetsView(context.Context) (models.Table, error) {
	f.setCalls++
	return f.view, f.err
}

func (f *fakeLoader) ListExercises(context.Context) ([]models.Exercise, error) {
	return []models.Exercise{{ID: 1, Name: "Bench Press", Category: "push", BodyPart: "chest"}}, f.err
}

func date(s string) time.Time {
	d, _ := time.Parse(models.DateLayout, s)
	return d
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		raw: models.RawTables{
			Sessions: models.Table{
				Columns: []string{"session_id", "session_date", "start_time", "end_time"},
				Rows: [][]any{
					{int64(1), date("2025-01-06"), "18:00", "19:00"},
					{int64(2), date("2025-02-03"), nil, nil},
				},
			},
			WorkoutExercises: models.Table{
				Columns: []string{"workout_exercise_id", "session_id", "exercise_id"},
				Rows:    [][]any{{int64(1), int64(1), int64(1)}, {int64(2), int64(2), int64(1)}},
			},
			Sets: models.Table{
				Columns: []string{"set_id", "workout_exercise_id", "set_number", "repetitions", "weight", "rir"},
				Rows: [][]any{
					{int64(1), int64(1), int64(1), int64(8), 80.0, int64(2)},
					{int64(2), int64(2), int64(1), int64(5), 100.0, nil},
				},
			},
			Exercises: models.Table{
				Columns: []string{"exercise_id", "exercise_name", "category", "body_part"},
				Rows:    [][]any{{int64(1), "Bench Press", "push", "chest"}},
			},
		},
		view: models.Table{
			Columns: []string{"set_id", "session_date", "exercise_name", "body_part", "set_number", "repetitions", "weight", "volume", "rir"},
			Rows: [][]any{
				{int64(1), date("2025-01-06"), "Bench Press", "chest", int64(1), int64(8), 80.0, 640.0, int64(2)},
				{int64(2), date("2025-02-03"), "Bench Press", "chest", int64(1), int64(5), 100.0, 500.0, nil},
			},
		},
	}
}

func newTestService(l Loader) (*Service, *instrumentation.Instrumentation) {
	inst := instrumentation.NewTestInstrumentation()
	engine := metrics.NewEngine(metrics.DefaultRegistry(), metrics.DefaultParams())
	return NewService(l, engine, 1, inst, slog.New(slog.DiscardHandler)), inst
}

func TestMetricsMemoized(t *testing.T) {
	l := newFakeLoader()
	s, inst := newTestService(l)
	ctx := context.Background()

	first, err := s.Metrics(ctx, "")
	require.NoError(t, err)
	second, err := s.Metrics(ctx, "")
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, l.rawCalls)
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.CounterCacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(inst.CounterCacheMisses))

	var report map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(first, &report))
	assert.Len(t, report, 8)

	s.Invalidate()
	_, err = s.Metrics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, l.rawCalls)
}

func TestMetricsByMonth(t *testing.T) {
	s, _ := newTestService(newFakeLoader())

	raw, err := s.Group(context.Background(), "2025-01", metrics.GroupFrequency)
	require.NoError(t, err)

	var freq metrics.FrequencyMetrics
	require.NoError(t, json.Unmarshal(raw, &freq))
	assert.Equal(t, 1, freq.Global.TotalSessions)
}

func TestGroupErrors(t *testing.T) {
	l := newFakeLoader()
	s, _ := newTestService(l)
	ctx := context.Background()

	_, err := s.Group(ctx, "", "nope")
	assert.ErrorIs(t, err, ErrUnknownGroup)

	_, err = s.Metrics(ctx, "2025-13")
	assert.ErrorIs(t, err, metrics.ErrInvalidMonth)
	assert.Zero(t, l.rawCalls)
}

func TestLoaderErrorNotMemoized(t *testing.T) {
	l := newFakeLoader()
	l.err = errors.New("db down")
	s, _ := newTestService(l)
	ctx := context.Background()

	_, err := s.KPI(ctx, "")
	require.Error(t, err)

	l.err = nil
	_, err = s.KPI(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, l.setCalls)
}

func TestSets(t *testing.T) {
	s, _ := newTestService(newFakeLoader())
	ctx := context.Background()

	raw, err := s.Sets(ctx, "2025-02", "")
	require.NoError(t, err)
	var rows []models.SetViewRow
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].SetID)

	raw, err = s.Sets(ctx, "", "bench press")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &rows))
	assert.Len(t, rows, 2)

	raw, err = s.Sets(ctx, "", "Squat")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestKPI(t *testing.T) {
	s, _ := newTestService(newFakeLoader())

	raw, err := s.KPI(context.Background(), "")
	require.NoError(t, err)

	var kpi metrics.KPI
	require.NoError(t, json.Unmarshal(raw, &kpi))
	assert.Equal(t, 2, kpi.Sessions)
	assert.Equal(t, "2025-W06", kpi.CurrentWeek)
	assert.Equal(t, "2025-W02", kpi.PreviousWeek)
	assert.Equal(t, 500.0, kpi.Volume.Current)
	assert.Equal(t, 640.0, kpi.Volume.Previous)
}

func TestListExercises(t *testing.T) {
	s, _ := newTestService(newFakeLoader())
	got, err := s.ListExercises(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, metrics.DefaultRegistry().Names(), s.Groups())
}
